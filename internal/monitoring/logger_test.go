package monitoring

import (
	"testing"
)

func TestSetLogger(t *testing.T) {
	original := Logf
	defer func() { Logf = original }()

	called := false
	SetLogger(func(format string, v ...interface{}) {
		called = true
	})
	Logf("test message")
	if !called {
		t.Error("custom logger was not called")
	}

	// nil installs a no-op logger that must not panic
	SetLogger(nil)
	Logf("test message")

	captured := false
	SetLogger(func(format string, v ...interface{}) {
		captured = true
	})
	SetLogger(nil)
	Logf("test")
	if captured {
		t.Error("no-op logger should not have triggered callback")
	}
}

func TestDebugf(t *testing.T) {
	original := Logf
	defer func() {
		Logf = original
		SetVerbose(false)
	}()

	var lines []string
	SetLogger(func(format string, v ...interface{}) {
		lines = append(lines, format)
	})

	Debugf("hidden")
	if len(lines) != 0 {
		t.Fatalf("Debugf logged while verbose off: %v", lines)
	}

	SetVerbose(true)
	Debugf("shown")
	if len(lines) != 1 || lines[0] != "shown" {
		t.Fatalf("Debugf with verbose on logged %v, want [shown]", lines)
	}
}
