package logger

import (
	"context"
	"os"
	"testing"
	"time"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("callbridge")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "callbridge" {
		t.Errorf("expected service 'callbridge', got %q", l.service)
	}
}

func TestNew(t *testing.T) {
	cfg := &Config{
		Level:  "debug",
		Format: "json",
		Output: "stdout",
	}
	l := New(cfg, "callbridge")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "callbridge" {
		t.Errorf("expected service 'callbridge', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	cfg := &Config{
		Level:  "invalid-level",
		Format: "json",
		Output: "stdout",
	}
	l := New(cfg, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestNewFromEnv(t *testing.T) {
	os.Setenv("LOG_LEVEL", "debug")
	os.Setenv("LOG_FORMAT", "json")
	defer os.Unsetenv("LOG_LEVEL")
	defer os.Unsetenv("LOG_FORMAT")

	l := NewFromEnv("env-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestWithComponent(t *testing.T) {
	l := NewDefault("test")
	cl := l.WithComponent("bridge")
	if cl == nil {
		t.Fatal("expected non-nil logger")
	}
	if cl.service != "test" {
		t.Errorf("service should be preserved, got %q", cl.service)
	}
}

func TestWithContext(t *testing.T) {
	l := NewDefault("test")
	ctx := context.WithValue(context.Background(), contextKey("request_id"), "abc123")
	cl := l.WithContext(ctx)
	if cl == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestWithFields(t *testing.T) {
	l := NewDefault("test")
	fl := l.WithFields(map[string]interface{}{FieldCallSID: "CA123"})
	if fl == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestWithError(t *testing.T) {
	l := NewDefault("test")
	el := l.WithError(nil)
	if el == nil {
		t.Fatal("expected non-nil logger")
	}
}

func TestInit(t *testing.T) {
	cfg := Config{
		Level:  "info",
		Format: "console",
		Output: "stdout",
	}
	Init(cfg)
	gl := GetGlobalLogger()
	if gl == nil {
		t.Fatal("expected global logger to be set after Init")
	}
}

func TestGetGlobalLoggerDefault(t *testing.T) {
	globalLogger = nil
	l := GetGlobalLogger()
	if l == nil {
		t.Fatal("expected default global logger to be created")
	}
}

func TestSetGlobalLogger(t *testing.T) {
	l := NewDefault("custom")
	SetGlobalLogger(l)
	got := GetGlobalLogger()
	if got != l {
		t.Error("expected global logger to be the one set")
	}
}

func TestFields(t *testing.T) {
	m := Fields("op", "speak", FieldCallSID, "CA123")
	if len(m) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(m))
	}
	if m["op"] != "speak" {
		t.Errorf("expected op=speak, got %v", m["op"])
	}
	if m[FieldCallSID] != "CA123" {
		t.Errorf("expected call_sid=CA123, got %v", m[FieldCallSID])
	}
}

func TestFieldsOddArgs(t *testing.T) {
	m := Fields("only-key")
	if len(m) != 0 {
		t.Errorf("expected dangling key to be dropped, got %v", m)
	}
}

func TestFieldsNonStringKey(t *testing.T) {
	m := Fields(42, "value", "ok", true)
	if len(m) != 1 {
		t.Fatalf("expected non-string key to be skipped, got %v", m)
	}
	if m["ok"] != true {
		t.Errorf("expected ok=true, got %v", m["ok"])
	}
}

func TestErrorFields(t *testing.T) {
	err := os.ErrNotExist
	m := ErrorFields("lookup", err)
	if m[FieldOperation] != "lookup" {
		t.Errorf("expected operation=lookup, got %v", m[FieldOperation])
	}
	if m[FieldError] != err.Error() {
		t.Errorf("expected error=%q, got %v", err.Error(), m[FieldError])
	}
}

func TestDurationFields(t *testing.T) {
	m := DurationFields("place_call", 1500*time.Millisecond)
	if m[FieldDuration] != int64(1500) {
		t.Errorf("expected duration_ms=1500, got %v", m[FieldDuration])
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected default level info, got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected default format console, got %q", cfg.Format)
	}
	if cfg.Output != "stdout" {
		t.Errorf("expected default output stdout, got %q", cfg.Output)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamps enabled by default")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json"}, false},
		{"invalid level", Config{Level: "verbose", Format: "json"}, true},
		{"invalid format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
