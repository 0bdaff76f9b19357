package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	clog "github.com/charmbracelet/log"
)

// TestLoggingHelpers_WriteToBuffer verifies the package helper functions write
// formatted messages to the package-level logger `L`. The test swaps `L` with
// a buffer-backed logger and restores it afterwards.
func TestLoggingHelpers_WriteToBuffer(t *testing.T) {
	var buf bytes.Buffer
	prev := L
	L = clog.New(&buf)
	L.SetLevel(clog.DebugLevel)
	defer func() { L = prev }()

	Debugf("hello %s", "dbg")
	Infof("info %d", 1)
	Warnf("warn")
	Errorf("err %v", "E")

	out := buf.String()
	for _, want := range []string{"hello dbg", "info 1", "warn", "err E"} {
		if !strings.Contains(out, want) {
			t.Fatalf("missing %q in output; got: %s", want, out)
		}
	}
}

func TestSetup_InvalidLevel(t *testing.T) {
	prev := L
	defer func() { L = prev }()

	if _, err := Setup(Options{Level: "loud"}); err == nil {
		t.Fatalf("expected error for invalid level")
	}
}

func TestSetup_WritesToRotatingFile(t *testing.T) {
	prev := L
	defer func() { L = prev }()

	path := filepath.Join(t.TempDir(), "logs", "scribe.log")
	closer, err := Setup(Options{Level: "debug", File: path})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}
	Infof("written to %s", "file")
	if err := closer.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(data), "written to file") {
		t.Fatalf("log file missing message; got: %s", data)
	}
}

func TestNewRotatingWriter_Defaults(t *testing.T) {
	if _, err := NewRotatingWriter(RotationConfig{}); err == nil {
		t.Fatalf("expected error for empty path")
	}
	w, err := NewRotatingWriter(RotationConfig{File: filepath.Join(t.TempDir(), "a.log")})
	if err != nil {
		t.Fatalf("NewRotatingWriter failed: %v", err)
	}
	if w.MaxSize != 10 || w.MaxBackups != 5 {
		t.Fatalf("unexpected defaults: size=%d backups=%d", w.MaxSize, w.MaxBackups)
	}
}
