// Package bluetooth is a thin D-Bus collaborator over BlueZ, used only to
// learn whether a paired keyboard is connected. Pairing, scanning, and the
// rest of BlueZ's object-manager surface are out of scope (spec.md §1 lists
// "the Bluetooth stack control" as an external collaborator, not part of the
// core); the keyboard discovery loop in internal/device only needs to tell
// a Bluetooth keyboard's character device apart from a disconnected one.
package bluetooth

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	busName         = "org.bluez"
	deviceInterface = "org.bluez.Device1"
)

// Controller queries BlueZ over the system bus for paired-device state.
type Controller struct {
	conn *dbus.Conn
}

// Connect opens the system D-Bus connection used to reach bluetoothd.
func Connect() (*Controller, error) {
	conn, err := dbus.ConnectSystemBus()
	if err != nil {
		return nil, fmt.Errorf("bluetooth: connect system bus: %w", err)
	}
	return &Controller{conn: conn}, nil
}

func (c *Controller) Close() error { return c.conn.Close() }

// Connected reports whether the device at objectPath (e.g.
// "/org/bluez/hci0/dev_AA_BB_CC_DD_EE_FF") is currently connected.
func (c *Controller) Connected(ctx context.Context, objectPath dbus.ObjectPath) (bool, error) {
	obj := c.conn.Object(busName, objectPath)
	v, err := obj.GetProperty(deviceInterface + ".Connected")
	if err != nil {
		return false, fmt.Errorf("bluetooth: read Connected property: %w", err)
	}
	connected, ok := v.Value().(bool)
	if !ok {
		return false, fmt.Errorf("bluetooth: unexpected Connected property type %T", v.Value())
	}
	return connected, nil
}

// Name returns the paired device's advertised name, used to identify which
// logical keyboard a Bluetooth HID path belongs to.
func (c *Controller) Name(ctx context.Context, objectPath dbus.ObjectPath) (string, error) {
	obj := c.conn.Object(busName, objectPath)
	v, err := obj.GetProperty(deviceInterface + ".Name")
	if err != nil {
		return "", fmt.Errorf("bluetooth: read Name property: %w", err)
	}
	name, ok := v.Value().(string)
	if !ok {
		return "", fmt.Errorf("bluetooth: unexpected Name property type %T", v.Value())
	}
	return name, nil
}
