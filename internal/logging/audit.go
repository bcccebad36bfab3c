// Package logging provides structured logging with slog for tabula.
package logging

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"
)

// AuditEventType represents the type of audit event.
type AuditEventType string

// Audit event types tabula's dispatcher and device adapter emit.
const (
	AuditEventSessionStart     AuditEventType = "session_start"
	AuditEventSessionEnd       AuditEventType = "session_end"
	AuditEventDeviceConnect    AuditEventType = "device_connect"
	AuditEventDeviceDisconnect AuditEventType = "device_disconnect"
	AuditEventKeystreamRebuild AuditEventType = "keystream_rebuild"
	AuditEventStorageFailure   AuditEventType = "storage_failure"
	AuditEventExport           AuditEventType = "export"
	AuditEventShutdown         AuditEventType = "shutdown"
)

// AuditEvent is one lifecycle event worth keeping a durable record of.
type AuditEvent struct {
	Timestamp  time.Time              `json:"timestamp"`
	EventType  AuditEventType         `json:"event_type"`
	Component  string                 `json:"component"`
	SessionID  string                 `json:"session_id,omitempty"`
	DeviceID   string                 `json:"device_id,omitempty"`
	Action     string                 `json:"action"`
	Resource   string                 `json:"resource,omitempty"`
	Result     string                 `json:"result"` // "success", "failure"
	Details    map[string]interface{} `json:"details,omitempty"`
	SourceFile string                 `json:"source_file,omitempty"`
	SourceLine int                    `json:"source_line,omitempty"`
	Error      string                 `json:"error,omitempty"`
}

// AuditLoggerConfig holds configuration for the audit logger.
type AuditLoggerConfig struct {
	FilePath   string
	MaxSize    int64
	MaxAge     int
	MaxBackups int
	Compress   bool
	Component  string
}

// DefaultAuditConfig returns default audit logger configuration.
func DefaultAuditConfig() *AuditLoggerConfig {
	return &AuditLoggerConfig{
		FilePath:   defaultAuditLogPath(),
		MaxSize:    20,
		MaxAge:     30,
		MaxBackups: 5,
		Compress:   true,
		Component:  "tabula",
	}
}

func defaultAuditLogPath() string {
	switch runtime.GOOS {
	case "darwin":
		homeDir, _ := os.UserHomeDir()
		return filepath.Join(homeDir, "Library", "Logs", "tabula", "audit.log")
	case "windows":
		appData := os.Getenv("LOCALAPPDATA")
		if appData == "" {
			appData = os.Getenv("APPDATA")
		}
		return filepath.Join(appData, "tabula", "logs", "audit.log")
	default:
		stateHome := os.Getenv("XDG_STATE_HOME")
		if stateHome == "" {
			homeDir, _ := os.UserHomeDir()
			stateHome = filepath.Join(homeDir, ".local", "state")
		}
		return filepath.Join(stateHome, "tabula", "audit.log")
	}
}

// AuditLogger records the narrow set of lifecycle events SPEC_FULL.md names:
// session start/end, device connect/disconnect, keystream rebuild, storage
// failure, export, shutdown.
type AuditLogger struct {
	config    *AuditLoggerConfig
	rotator   *FileRotator
	logger    *slog.Logger
	mu        sync.Mutex
	sessionID string
}

var (
	defaultAuditLogger *AuditLogger
	auditLoggerOnce    sync.Once
)

// DefaultAuditLogger returns the default global audit logger.
func DefaultAuditLogger() *AuditLogger {
	auditLoggerOnce.Do(func() {
		var err error
		defaultAuditLogger, err = NewAuditLogger(DefaultAuditConfig())
		if err != nil {
			defaultAuditLogger = &AuditLogger{config: DefaultAuditConfig(), logger: slog.Default()}
		}
	})
	return defaultAuditLogger
}

// SetDefaultAuditLogger sets the default global audit logger.
func SetDefaultAuditLogger(l *AuditLogger) {
	defaultAuditLogger = l
}

// NewAuditLogger creates a new AuditLogger.
func NewAuditLogger(cfg *AuditLoggerConfig) (*AuditLogger, error) {
	if cfg == nil {
		cfg = DefaultAuditConfig()
	}

	rotatorCfg := &Config{
		FilePath:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxAge:     cfg.MaxAge,
		MaxBackups: cfg.MaxBackups,
		Compress:   cfg.Compress,
		Format:     FormatJSON,
		Level:      LevelInfo,
	}

	rotator, err := NewFileRotator(rotatorCfg)
	if err != nil {
		return nil, fmt.Errorf("create audit rotator: %w", err)
	}

	handler := slog.NewJSONHandler(rotator, &slog.HandlerOptions{Level: LevelInfo})
	return &AuditLogger{config: cfg, rotator: rotator, logger: slog.New(handler)}, nil
}

// SetSessionID sets the current session ID for subsequent audit events.
func (a *AuditLogger) SetSessionID(sessionID string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.sessionID = sessionID
}

// Log writes an audit event.
func (a *AuditLogger) Log(ctx context.Context, event AuditEvent) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if event.Component == "" {
		event.Component = a.config.Component
	}
	if event.SessionID == "" {
		event.SessionID = a.sessionID
	}
	if event.SourceFile == "" {
		_, file, line, ok := runtime.Caller(1)
		if ok {
			event.SourceFile = file
			event.SourceLine = line
		}
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal audit event: %w", err)
	}
	data = append(data, '\n')
	if _, err := a.rotator.Write(data); err != nil {
		return fmt.Errorf("write audit event: %w", err)
	}
	return nil
}

// LogSessionStart logs a session start event.
func (a *AuditLogger) LogSessionStart(ctx context.Context, sessionID string) error {
	a.SetSessionID(sessionID)
	return a.Log(ctx, AuditEvent{EventType: AuditEventSessionStart, Action: "session_started", Result: "success", SessionID: sessionID})
}

// LogSessionEnd logs a session end event.
func (a *AuditLogger) LogSessionEnd(ctx context.Context) error {
	err := a.Log(ctx, AuditEvent{EventType: AuditEventSessionEnd, Action: "session_ended", Result: "success"})
	a.SetSessionID("")
	return err
}

// LogDeviceConnect logs a keyboard or touchscreen becoming active.
func (a *AuditLogger) LogDeviceConnect(ctx context.Context, deviceID string) error {
	return a.Log(ctx, AuditEvent{EventType: AuditEventDeviceConnect, Action: "device_connected", Resource: deviceID, Result: "success"})
}

// LogDeviceDisconnect logs ENODEV on the active keyboard.
func (a *AuditLogger) LogDeviceDisconnect(ctx context.Context, deviceID string) error {
	return a.Log(ctx, AuditEvent{EventType: AuditEventDeviceDisconnect, Action: "device_disconnected", Resource: deviceID, Result: "success"})
}

// LogKeystreamRebuild logs the keystream pipeline being torn down and rebuilt.
func (a *AuditLogger) LogKeystreamRebuild(ctx context.Context, composesEnabled bool) error {
	return a.Log(ctx, AuditEvent{
		EventType: AuditEventKeystreamRebuild,
		Action:    "keystream_rebuilt",
		Result:    "success",
		Details:   map[string]interface{}{"composes_enabled": composesEnabled},
	})
}

// LogStorageFailure logs a transient persistence error surfaced to a screen.
func (a *AuditLogger) LogStorageFailure(ctx context.Context, operation string, err error) error {
	return a.Log(ctx, AuditEvent{EventType: AuditEventStorageFailure, Action: operation, Result: "failure", Error: err.Error()})
}

// LogExport logs a session export to Markdown.
func (a *AuditLogger) LogExport(ctx context.Context, sessionID, outputPath string) error {
	return a.Log(ctx, AuditEvent{
		EventType: AuditEventExport,
		Action:    "session_exported",
		Resource:  sessionID,
		Result:    "success",
		Details:   map[string]interface{}{"output_path": outputPath},
	})
}

// LogShutdown logs the dispatcher's Shutdown verb being handled.
func (a *AuditLogger) LogShutdown(ctx context.Context, reason string) error {
	return a.Log(ctx, AuditEvent{EventType: AuditEventShutdown, Action: "shutdown", Result: "success", Details: map[string]interface{}{"reason": reason}})
}

// Close closes the audit logger.
func (a *AuditLogger) Close() error {
	if a.rotator != nil {
		return a.rotator.Close()
	}
	return nil
}

// Convenience functions for the default audit logger.

func AuditSessionStart(ctx context.Context, sessionID string) error {
	return DefaultAuditLogger().LogSessionStart(ctx, sessionID)
}

func AuditSessionEnd(ctx context.Context) error {
	return DefaultAuditLogger().LogSessionEnd(ctx)
}

func AuditDeviceConnect(ctx context.Context, deviceID string) error {
	return DefaultAuditLogger().LogDeviceConnect(ctx, deviceID)
}

func AuditDeviceDisconnect(ctx context.Context, deviceID string) error {
	return DefaultAuditLogger().LogDeviceDisconnect(ctx, deviceID)
}

func AuditStorageFailure(ctx context.Context, operation string, err error) error {
	return DefaultAuditLogger().LogStorageFailure(ctx, operation, err)
}

func AuditExport(ctx context.Context, sessionID, outputPath string) error {
	return DefaultAuditLogger().LogExport(ctx, sessionID, outputPath)
}

func AuditShutdown(ctx context.Context, reason string) error {
	return DefaultAuditLogger().LogShutdown(ctx, reason)
}
