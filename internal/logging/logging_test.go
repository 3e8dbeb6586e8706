package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func restoreGlobals(t *testing.T) {
	t.Helper()
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	t.Cleanup(func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	})
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	restoreGlobals(t)
	if _, err := Setup(Options{Level: "loud"}); err == nil {
		t.Fatal("Setup accepted an unknown level")
	}
}

func TestSetupFileWritesJSON(t *testing.T) {
	restoreGlobals(t)
	path := filepath.Join(t.TempDir(), "nested", "app.log")

	closer, err := Setup(Options{Level: "debug", File: path})
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	logger := Component("test")
	logger.Debug().Str("k", "v").Msg("hello")
	if err := closer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	line := string(data)
	for _, want := range []string{`"component":"test"`, `"k":"v"`, `"message":"hello"`} {
		if !strings.Contains(line, want) {
			t.Fatalf("log line %q missing %s", line, want)
		}
	}
}

func TestSetupConsoleRespectsLevel(t *testing.T) {
	restoreGlobals(t)
	var buf bytes.Buffer
	if _, err := Setup(Options{Level: "warn", Console: &buf}); err != nil {
		t.Fatalf("Setup: %v", err)
	}
	logger := Component("test")
	logger.Info().Msg("quiet")
	logger.Warn().Msg("loud")

	out := buf.String()
	if strings.Contains(out, "quiet") {
		t.Fatalf("info line written at warn level: %q", out)
	}
	if !strings.Contains(out, "loud") {
		t.Fatalf("warn line missing: %q", out)
	}
}
