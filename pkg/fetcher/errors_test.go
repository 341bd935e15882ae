package fetcher

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

type timeoutErr struct{}

func (timeoutErr) Error() string   { return "i/o timeout" }
func (timeoutErr) Timeout() bool   { return true }
func (timeoutErr) Temporary() bool { return true }

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorClass
	}{
		{status: 400, want: ErrorClassClient},
		{status: 404, want: ErrorClassClient},
		{status: 429, want: ErrorClassClient},
		{status: 500, want: ErrorClassServer},
		{status: 503, want: ErrorClassServer},
	}

	for _, tt := range tests {
		if got := classifyStatus(tt.status); got != tt.want {
			t.Errorf("classifyStatus(%d) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestClassifyErr(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorClass
	}{
		{name: "net timeout", err: timeoutErr{}, want: ErrorClassTimeout},
		{name: "wrapped net timeout", err: fmt.Errorf("do: %w", timeoutErr{}), want: ErrorClassTimeout},
		{name: "deadline exceeded", err: context.DeadlineExceeded, want: ErrorClassTimeout},
		{name: "plain error", err: errors.New("connection refused"), want: ErrorClassNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classifyErr(tt.err); got != tt.want {
				t.Errorf("classifyErr(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestShouldRetry(t *testing.T) {
	tests := []struct {
		class ErrorClass
		want  bool
	}{
		{class: ErrorClassTimeout, want: true},
		{class: ErrorClassNetwork, want: true},
		{class: ErrorClassServer, want: true},
		{class: ErrorClassClient, want: false},
		{class: "", want: false},
	}

	for _, tt := range tests {
		if got := shouldRetry(tt.class); got != tt.want {
			t.Errorf("shouldRetry(%q) = %v, want %v", tt.class, got, tt.want)
		}
	}
}

func TestFetchErrorUnwrap(t *testing.T) {
	fe := &FetchError{
		StatusCode: 502,
		Class:      ErrorClassServer,
		Err:        ErrUnexpectedStatus,
	}

	if !errors.Is(fe, ErrUnexpectedStatus) {
		t.Error("errors.Is(fe, ErrUnexpectedStatus) = false")
	}
	if fe.Error() == "" {
		t.Error("Error() returned empty string")
	}
}
