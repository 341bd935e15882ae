package config

import (
	"os"
	"testing"
	"time"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("API_URL", "https://registry.example.test/records/")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.MarginOfError != 0 {
		t.Errorf("MarginOfError = %v, want 0", c.MarginOfError)
	}
	if c.LimitPerMinute != 3 {
		t.Errorf("LimitPerMinute = %v, want 3", c.LimitPerMinute)
	}
	if c.InputFile != "./input.txt" {
		t.Errorf("InputFile = %q, want ./input.txt", c.InputFile)
	}
	if c.OutputFolder != "./downloads/" {
		t.Errorf("OutputFolder = %q, want ./downloads/", c.OutputFolder)
	}
	if c.MaximumAge != 30 {
		t.Errorf("MaximumAge = %d, want 30", c.MaximumAge)
	}
	if c.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", c.RequestTimeout)
	}
	if c.Workers != 1 {
		t.Errorf("Workers = %d, want 1", c.Workers)
	}
}

func TestLoadMissingAPIURL(t *testing.T) {
	// t.Setenv registers the restore; unset so the variable is absent.
	t.Setenv("API_URL", "")
	os.Unsetenv("API_URL")

	if _, err := Load(); err == nil {
		t.Fatal("Load() without API_URL expected error")
	}
}

func TestLoadRejectsInvalidLimit(t *testing.T) {
	setRequired(t)
	t.Setenv("LIMIT_PER_MINUTE", "0")

	if _, err := Load(); err == nil {
		t.Fatal("Load() with zero LIMIT_PER_MINUTE expected error")
	}
}

func TestInterval(t *testing.T) {
	tests := []struct {
		name   string
		limit  float64
		margin float64
		want   time.Duration
	}{
		{name: "default contracted plan", limit: 3, margin: 0, want: 20 * time.Second},
		{name: "with margin of error", limit: 3, margin: 2, want: 22 * time.Second},
		{name: "one request per second", limit: 60, margin: 0, want: time.Second},
		{name: "fractional interval", limit: 40, margin: 0, want: 1500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Config{LimitPerMinute: tt.limit, MarginOfError: tt.margin}
			if got := c.Interval(); got != tt.want {
				t.Errorf("Interval() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("LIMIT_PER_MINUTE", "12")
	t.Setenv("MARGIN_OF_ERROR", "0.5")
	t.Setenv("MAXIMUM_AGE", "7")
	t.Setenv("WORKERS", "4")

	c, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if c.Interval() != 5500*time.Millisecond {
		t.Errorf("Interval() = %v, want 5.5s", c.Interval())
	}
	if c.MaximumAge != 7 {
		t.Errorf("MaximumAge = %d, want 7", c.MaximumAge)
	}
	if c.Workers != 4 {
		t.Errorf("Workers = %d, want 4", c.Workers)
	}
}
