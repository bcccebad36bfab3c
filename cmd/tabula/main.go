// Command tabula runs the distraction-free drafting appliance (spec.md
// §1). It takes one positional argument, the path to a settings file,
// and wires config -> device adapter -> pipelines -> display -> screen
// dispatcher, exiting 0 on clean shutdown (spec.md §6, §7).
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"tabula/internal/config"
	"tabula/internal/device"
	"tabula/internal/display"
	"tabula/internal/document"
	"tabula/internal/events"
	"tabula/internal/gesture"
	"tabula/internal/keystream"
	"tabula/internal/layout"
	"tabula/internal/logging"
	"tabula/internal/renderer"
	"tabula/internal/screen"
	"tabula/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "tabula:", err)
		os.Exit(1)
	}
}

func run() error {
	if len(os.Args) != 2 {
		return fmt.Errorf("usage: %s <settings-file>", os.Args[0])
	}
	settingsPath := os.Args[1]

	// Malformed settings is fatal at startup (spec.md §7).
	settings, err := config.Load(settingsPath)
	if err != nil {
		return fmt.Errorf("load settings: %w", err)
	}

	logger := logging.Default().WithComponent("tabula")
	audit, err := logging.NewAuditLogger(logging.DefaultAuditConfig())
	if err != nil {
		return fmt.Errorf("start audit logger: %w", err)
	}
	defer audit.Close()

	// Storage integrity mismatch is fatal at startup (spec.md §7).
	st, err := store.Open(settings.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	adapter := device.NewAdapter(device.NewSource(), device.Config{
		TouchscreenPath: device.HostTouchscreenPath,
		Protocol:        device.ProtocolTypeB,
	})
	go adapter.Run(ctx)

	keyPipeline := keystream.New(ctx, settings.ToKeystreamConfig())
	defer keyPipeline.Close()
	gesturePipeline := gesture.New(ctx)
	defer gesturePipeline.Close()

	go pumpKeys(ctx, adapter.KeyEvents(), keyPipeline)
	go pumpTouches(ctx, adapter.TouchReports(), gesturePipeline)

	merged := screen.MergeEvents(keyPipeline.Output(), gesturePipeline.Output(), adapter.Bus())

	info := display.ScreenInfo{Size: events.Size{W: 1404, H: 1872}, DPI: 227, Rotation: events.RotationNormal}
	sink, err := display.NewDefaultSink("/dev/fb0", info)
	if err != nil {
		return fmt.Errorf("open display sink: %w", err)
	}
	disp := display.New(sink)
	if err := disp.Clear(); err != nil {
		return fmt.Errorf("clear display: %w", err)
	}

	session, err := st.NewSession(ctx)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	audit.SetSessionID(session.ID)
	_ = audit.LogSessionStart(ctx, session.ID)

	doc := document.New(session)
	font, _ := settings.Font(settings.ActiveFont)
	lay := layout.New(renderer.NewBasicFontRenderer(),
		renderer.FontSpec{Family: font.Family, PixelSize: font.Sizes["medium"]},
		info.Size, font.Sizes["medium"])

	cfgBox := &screen.SettingsBox{Settings: settings}
	drafting := screen.NewDraftingScreen(doc, st, disp, lay, cfgBox)

	dispatcher := screen.NewDispatcher(merged, disp, settings.AutosaveInterval, func(shutdownCtx context.Context) error {
		_ = audit.LogShutdown(shutdownCtx, "dispatcher shutdown verb")
		return doc.SaveSession(shutdownCtx, st)
	})
	dispatcher.Push(screen.NewKeyboardDetectScreen().WithOnReady(func() screen.Screen { return drafting }))

	if err := dispatcher.Run(ctx); err != nil && ctx.Err() == nil {
		return fmt.Errorf("dispatcher: %w", err)
	}
	// A signal can end Run without a Shutdown verb, or make the hook's save
	// fail with a canceled context; save once more on a live context.
	_ = doc.SaveSession(context.WithoutCancel(ctx), st)

	_ = audit.LogSessionEnd(ctx)
	logger.Info("shutdown complete", "session", session.ID)
	return nil
}

func pumpKeys(ctx context.Context, in <-chan events.KeyEvent, p *keystream.Pipeline) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-in:
			if !ok {
				return
			}
			select {
			case p.Input() <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}

func pumpTouches(ctx context.Context, in <-chan events.TouchReport, p *gesture.Pipeline) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-in:
			if !ok {
				return
			}
			select {
			case p.Input() <- ev:
			case <-ctx.Done():
				return
			}
		}
	}
}
