//go:build linux

package device

import (
	"bufio"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// parseProcBusInputDevices reads /proc/bus/input/devices and returns one
// DeviceInfo per device block that declares a "H: Handlers=" event handler,
// grounded on original_source's proc_bus_input_devices_parser.py.
func parseProcBusInputDevices(path string) ([]DeviceInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []DeviceInfo
	var cur DeviceInfo
	var hasHandler bool

	flush := func() {
		if hasHandler {
			out = append(out, cur)
		}
		cur = DeviceInfo{}
		hasHandler = false
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "I: "):
			cur.ID = parseIdentifierLine(line)
		case strings.HasPrefix(line, "N: Name="):
			cur.Name = strings.Trim(strings.TrimPrefix(line, "N: Name="), `"`)
		case strings.HasPrefix(line, "H: Handlers="):
			for _, field := range strings.Fields(strings.TrimPrefix(line, "H: Handlers=")) {
				if strings.HasPrefix(field, "event") {
					cur.Path = filepath.Join("/dev/input", field)
					hasHandler = true
				}
			}
		case line == "":
			flush()
		}
	}
	flush()
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// parseIdentifierLine parses "I: Bus=0003 Vendor=046d Product=c52b Version=0111".
func parseIdentifierLine(line string) DeviceID {
	var id DeviceID
	for _, field := range strings.Fields(strings.TrimPrefix(line, "I: ")) {
		kv := strings.SplitN(field, "=", 2)
		if len(kv) != 2 {
			continue
		}
		v, err := strconv.ParseUint(kv[1], 16, 16)
		if err != nil {
			continue
		}
		switch kv[0] {
		case "Bus":
			id.Bus = uint16(v)
		case "Vendor":
			id.Vendor = uint16(v)
		case "Product":
			id.Product = uint16(v)
		}
	}
	return id
}

// linuxSource implements Source against /proc/bus/input/devices and
// /dev/input, grounded on the teacher's internal/keystroke/keystroke_linux.go
// findKeyboardDevices.
type linuxSource struct{}

func newLinuxSource() Source { return linuxSource{} }

// NewSource returns the platform-appropriate Source: real evdev on Linux,
// the gio host backend everywhere else.
func NewSource() Source { return newLinuxSource() }

func (linuxSource) Devices() ([]DeviceInfo, error) {
	return parseProcBusInputDevices("/proc/bus/input/devices")
}

func (linuxSource) Open(path string) (Stream, error) {
	return openEvdevStream(path)
}
