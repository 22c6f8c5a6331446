package app

import (
	"bytes"
	"context"
	"net"
	"os"
	"strconv"
	"strings"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SCRIPTGATE_PORT", "PORT", "SCRIPTGATE_ROUTE", "SCRIPTGATE_FILE", "SCRIPTGATE_HEADER",
		"SCRIPTGATE_ALLOWED_IPS", "SCRIPTGATE_ALLOWED_IDS", "SCRIPTGATE_STARTUP_HASH",
		"SCRIPTGATE_GEOIP_DB", "SCRIPTGATE_LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func freePort(t *testing.T) int {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("reserve port: %v", err)
	}
	defer l.Close()
	return l.Addr().(*net.TCPAddr).Port
}

func TestRunPrintsVersion(t *testing.T) {
	clearEnv(t)
	var out bytes.Buffer

	if err := run(context.Background(), []string{"-version"}, &out); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if !strings.Contains(out.String(), "scriptgate dev (built unknown)") {
		t.Fatalf("version output = %q", out.String())
	}
}

func TestRunLogsMissingEnvFileToWriter(t *testing.T) {
	clearEnv(t)
	chdir(t, t.TempDir())
	var out bytes.Buffer

	if err := run(context.Background(), []string{"-version"}, &out); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if !strings.Contains(out.String(), "No .env file found") {
		t.Fatalf("expected .env warning on the run writer, got %q", out.String())
	}
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	clearEnv(t)
	t.Setenv("SCRIPTGATE_STARTUP_HASH", "NOT-HEX")

	err := run(context.Background(), nil, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "load config") {
		t.Fatalf("run error = %v, want config error", err)
	}
}

func TestRunFailsOnMissingGeoDatabase(t *testing.T) {
	clearEnv(t)
	t.Setenv("SCRIPTGATE_GEOIP_DB", t.TempDir()+"/missing.mmdb")

	err := run(context.Background(), nil, &bytes.Buffer{})
	if err == nil || !strings.Contains(err.Error(), "geoip") {
		t.Fatalf("run error = %v, want geoip error", err)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	clearEnv(t)
	t.Setenv("SCRIPTGATE_PORT", strconv.Itoa(freePort(t)))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var out bytes.Buffer
	if err := run(ctx, nil, &out); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	for _, line := range []string{"Starting scriptgate", "Shutdown requested", "server stopped"} {
		if !strings.Contains(out.String(), line) {
			t.Fatalf("expected %q in log output, got %q", line, out.String())
		}
	}
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent of testing.T.Chdir from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Errorf("restore working directory: %v", err)
		}
	})
}
