package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestLogFileClosedAfterRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "boxsim.log")
	logFile, logLevel = path, "info"
	t.Cleanup(func() { logFile = "" })

	if err := setupLogger(&cobra.Command{Use: "play"}); err != nil {
		t.Fatalf("setupLogger: %v", err)
	}
	if logOut == nil {
		t.Fatal("log file should be open")
	}
	logger.Info("run finished", "frames", 600)

	if err := closeLogFile(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if logOut != nil {
		t.Error("handle should be released")
	}
	if err := closeLogFile(); err != nil {
		t.Errorf("second close should be a no-op, got %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "run finished") {
		t.Errorf("log line missing: %q", data)
	}
}
