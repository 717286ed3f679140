package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xrd.log")
	log, err := New("warn", path)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	log.Info("dropped")
	log.Warn("kept", zap.Int("samples", 1790))
	_ = log.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	out := string(data)
	if strings.Contains(out, "dropped") {
		t.Error("info entry written at warn level")
	}
	if !strings.Contains(out, `"msg":"kept"`) || !strings.Contains(out, `"samples":1790`) || !strings.Contains(out, `"t":"`) {
		t.Errorf("unexpected log output: %s", out)
	}
}

func TestNewLevels(t *testing.T) {
	for level, debug := range map[string]bool{"debug": true, "info": false, "": false, "bogus": false} {
		log, err := New(level)
		if err != nil {
			t.Fatalf("New(%q): %v", level, err)
		}
		if got := log.Core().Enabled(zap.DebugLevel); got != debug {
			t.Errorf("New(%q) debug enabled = %v", level, got)
		}
	}
}
