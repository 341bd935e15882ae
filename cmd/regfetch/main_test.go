package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/jpalmeida/regfetch/internal/config"
	"github.com/jpalmeida/regfetch/internal/testutil"
	"github.com/rs/zerolog"
)

func TestRunEndToEnd(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	dir := t.TempDir()
	input := filepath.Join(dir, "input.txt")
	if err := os.WriteFile(input, []byte("123-45\n678.90\nno numbers\n"), 0o644); err != nil {
		t.Fatalf("write input: %v", err)
	}

	cfg := config.Config{
		APIURL:         mock.URL() + "/",
		LimitPerMinute: 6000, // 10ms interval, keeps the test fast
		InputFile:      input,
		OutputFolder:   filepath.Join(dir, "downloads"),
		MaximumAge:     30,
		RequestTimeout: time.Second,
		Workers:        1,
	}

	if err := run(context.Background(), cfg, zerolog.Nop()); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	for _, id := range []string{"12345", "67890"} {
		if _, err := os.Stat(filepath.Join(cfg.OutputFolder, id+".json")); err != nil {
			t.Errorf("artifact %s.json missing: %v", id, err)
		}
	}
	if got := mock.RequestCount(); got != 2 {
		t.Errorf("request count = %d, want 2", got)
	}

	// A second run must be all cache hits.
	if err := run(context.Background(), cfg, zerolog.Nop()); err != nil {
		t.Fatalf("second run() error = %v", err)
	}
	if got := mock.RequestCount(); got != 2 {
		t.Errorf("request count after second run = %d, want 2", got)
	}
}

func TestRunMissingInputFile(t *testing.T) {
	mock := testutil.NewMockAPI()
	defer mock.Close()

	dir := t.TempDir()
	cfg := config.Config{
		APIURL:         mock.URL() + "/",
		LimitPerMinute: 6000,
		InputFile:      filepath.Join(dir, "does-not-exist.txt"),
		OutputFolder:   filepath.Join(dir, "downloads"),
		MaximumAge:     30,
	}

	if err := run(context.Background(), cfg, zerolog.Nop()); err == nil {
		t.Fatal("run() with missing input file expected error")
	}
}
