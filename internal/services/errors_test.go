package services_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"subfit/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "burn", "ffmpeg", "exit status 1", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"burn", "ffmpeg", "exit status 1"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected placeholder detail, got %q", err)
	}
}

type kindedError struct{}

func (kindedError) Error() string     { return "bad line" }
func (kindedError) ErrorKind() string { return "validation" }

func TestKind(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "nil", err: nil, want: ""},
		{name: "validation", err: services.Wrap(services.ErrValidation, "resegment", "parse", "bad", nil), want: services.KindValidation},
		{name: "configuration", err: services.Wrap(services.ErrConfiguration, "config", "load", "", nil), want: services.KindConfiguration},
		{name: "external tool", err: services.Wrap(services.ErrExternalTool, "burn", "ffmpeg", "", nil), want: services.KindExternalTool},
		{name: "transient", err: services.Wrap(services.ErrTransient, "transcribe", "post", "", nil), want: services.KindTransient},
		{name: "canceled", err: fmt.Errorf("run: %w", context.Canceled), want: services.KindCanceled},
		{name: "deadline", err: context.DeadlineExceeded, want: services.KindTimeout},
		{name: "self classified", err: fmt.Errorf("parse: %w", kindedError{}), want: "validation"},
		{name: "plain", err: errors.New("boom"), want: services.KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := services.Kind(tt.err); got != tt.want {
				t.Fatalf("Kind() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIsRetryable(t *testing.T) {
	if !services.IsRetryable(services.Wrap(services.ErrTransient, "transcribe", "post", "503", nil)) {
		t.Fatal("expected transient error to be retryable")
	}
	if services.IsRetryable(services.Wrap(services.ErrValidation, "transcribe", "post", "400", nil)) {
		t.Fatal("expected validation error to be terminal")
	}
}
