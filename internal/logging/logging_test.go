package logging

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func useTempLog(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nested", "trace.log")
	Configure(path)
	t.Cleanup(func() {
		Configure("")
		SetTraceEnabled(false)
	})
	return path
}

func TestTraceWritesJSONWhenEnabled(t *testing.T) {
	path := useTempLog(t)
	SetTraceEnabled(true)
	Trace("surface.apply", map[string]interface{}{"components": 3})

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	var entry struct {
		Event   string                 `json:"event"`
		Payload map[string]interface{} `json:"payload"`
	}
	if err := json.Unmarshal(data, &entry); err != nil {
		t.Fatalf("expected JSON entry, got %q: %v", data, err)
	}
	if entry.Event != "surface.apply" || entry.Payload["components"] != 3.0 {
		t.Fatalf("unexpected entry %#v", entry)
	}
}

func TestTraceSilentWhenDisabled(t *testing.T) {
	path := useTempLog(t)
	SetTraceEnabled(false)
	Trace("ignored", nil)
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected no log file, got %v", err)
	}
}

func TestErrorAppends(t *testing.T) {
	path := useTempLog(t)
	Error(errors.New("first"))
	Error(fmt.Errorf("second %d", 2))
	Error(nil)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(data)
	if !strings.Contains(text, "first") || !strings.Contains(text, "second 2") {
		t.Fatalf("expected both errors logged, got %q", text)
	}
	if strings.Count(text, "\n") != 2 {
		t.Fatalf("expected two lines, got %q", text)
	}
}
