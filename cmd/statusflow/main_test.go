package main

import (
	"context"
	"encoding/json"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"
)

func TestEnvOrDefault_Fallback(t *testing.T) {
	v := envOrDefault("STATUSFLOW_TEST_NONEXISTENT_KEY", "fallback")
	if v != "fallback" {
		t.Errorf("got %q, want %q", v, "fallback")
	}
}

func TestEnvOrDefault_EnvSet(t *testing.T) {
	t.Setenv("STATUSFLOW_TEST_KEY", "custom")

	v := envOrDefault("STATUSFLOW_TEST_KEY", "fallback")
	if v != "custom" {
		t.Errorf("got %q, want %q", v, "custom")
	}
}

// TestRun exercises the real run() function end-to-end: OTel, River, HTTP
// server, and graceful shutdown. It uses stdout OTel exporter and a temp
// database to avoid external dependencies.
func TestRun(t *testing.T) {
	t.Setenv("DATABASE_PATH", t.TempDir()+"/test-run.db")
	t.Setenv("PORT", "19876")
	t.Setenv("OTEL_EXPORTER", "stdout")
	t.Setenv("OTEL_ENVIRONMENT", "test")

	// Discard OTel stdout exporter output during the test.
	origStdout := os.Stdout
	devNull, err := os.Open(os.DevNull)
	if err != nil {
		t.Fatalf("opening /dev/null: %v", err)
	}
	os.Stdout = devNull
	t.Cleanup(func() {
		os.Stdout = origStdout
		devNull.Close()
	})

	errCh := make(chan error, 1)
	go func() { errCh <- run() }()

	// Wait for the HTTP server to become ready.
	serverURL := "http://localhost:19876"
	ready := false
	for i := 0; i < 50; i++ {
		req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, serverURL+"/api/v1/stores", nil)
		resp, reqErr := http.DefaultClient.Do(req)
		if reqErr == nil {
			resp.Body.Close()
			ready = true
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if !ready {
		t.Fatal("server did not start within 5 seconds")
	}

	// Verify the API responds correctly.
	req, _ := http.NewRequestWithContext(context.Background(), http.MethodGet, serverURL+"/api/v1/stores", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /api/v1/stores failed: %v", err)
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var stores []map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&stores); err != nil {
		t.Fatalf("decode: %v", err)
	}
	resp.Body.Close()

	if len(stores) != 0 {
		t.Errorf("got %d stores, want 0 (empty database)", len(stores))
	}

	// Send SIGINT to trigger graceful shutdown.
	proc, err := os.FindProcess(os.Getpid())
	if err != nil {
		t.Fatalf("finding process: %v", err)
	}
	if err := proc.Signal(syscall.SIGINT); err != nil {
		t.Fatalf("sending SIGINT: %v", err)
	}

	select {
	case err := <-errCh:
		if err != nil {
			t.Fatalf("run() returned error: %v", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("run() did not exit within 10 seconds")
	}
}

// TestRun_InvalidDB verifies run() returns an error for an invalid database path.
func TestRun_InvalidDB(t *testing.T) {
	t.Setenv("DATABASE_PATH", "/nonexistent/path/db.sqlite")
	t.Setenv("PORT", "19877")
	t.Setenv("OTEL_EXPORTER", "stdout")
	t.Setenv("OTEL_ENVIRONMENT", "test")

	// Discard OTel stdout output.
	origStdout := os.Stdout
	devNull, err := os.Open(os.DevNull)
	if err != nil {
		t.Fatalf("opening /dev/null: %v", err)
	}
	os.Stdout = devNull
	t.Cleanup(func() {
		os.Stdout = origStdout
		devNull.Close()
	})

	if err := run(); err == nil {
		t.Fatal("expected error for invalid database path, got nil")
	}
}
