package transcribe

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"subfit/internal/config"
	"subfit/internal/services"
)

const sampleResponse = "1\n00:00:00,000 --> 00:00:02,000\nHello there\n"

func writeAudio(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp3")
	if err := os.WriteFile(path, []byte("ID3-audio-bytes"), 0o644); err != nil {
		t.Fatalf("write audio: %v", err)
	}
	return path
}

func TestTranscribeSendsMultipartForm(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", got)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
			return
		}
		if r.FormValue("model") != "whisper-1" || r.FormValue("response_format") != "srt" || r.FormValue("language") != "en" {
			t.Errorf("unexpected form values %v", r.MultipartForm.Value)
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Errorf("form file: %v", err)
			return
		}
		defer file.Close()
		data, _ := io.ReadAll(file)
		if header.Filename != "clip.mp3" || string(data) != "ID3-audio-bytes" {
			t.Errorf("unexpected upload %s %q", header.Filename, data)
		}
		_, _ = io.WriteString(w, sampleResponse)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "test-key", BaseURL: server.URL, Language: "en"})
	got, err := client.Transcribe(context.Background(), writeAudio(t))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if got != sampleResponse {
		t.Fatalf("unexpected body %q", got)
	}
}

func TestTranscribeOmitsBlankLanguage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse form: %v", err)
		}
		if _, ok := r.MultipartForm.Value["language"]; ok {
			t.Errorf("language should be omitted")
		}
		_, _ = io.WriteString(w, sampleResponse)
	}))
	defer server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: server.URL})
	if _, err := client.Transcribe(context.Background(), writeAudio(t)); err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
}

func TestTranscribeRetriesOnHTTP429(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.Header().Set("Retry-After", "7")
			http.Error(w, "slow down", http.StatusTooManyRequests)
			return
		}
		_, _ = io.WriteString(w, sampleResponse)
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(Config{APIKey: "k", BaseURL: server.URL, MaxRetries: 2},
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
	)
	got, err := client.Transcribe(context.Background(), writeAudio(t))
	if err != nil {
		t.Fatalf("Transcribe: %v", err)
	}
	if got != sampleResponse || atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("unexpected result after retry: calls=%d body=%q", calls, got)
	}
	if len(slept) != 1 || slept[0] != 7*time.Second {
		t.Fatalf("expected Retry-After delay, got %v", slept)
	}
}

func TestTranscribeGivesUpAfterRetries(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		http.Error(w, "upstream", http.StatusBadGateway)
	}))
	defer server.Close()

	var slept []time.Duration
	client := NewClient(Config{APIKey: "k", BaseURL: server.URL, MaxRetries: 2},
		WithRetryBackoff(time.Second, 10*time.Second),
		WithSleeper(func(d time.Duration) { slept = append(slept, d) }),
	)
	_, err := client.Transcribe(context.Background(), writeAudio(t))
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient error, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls)
	}
	if len(slept) != 2 || slept[0] != time.Second || slept[1] != 2*time.Second {
		t.Fatalf("unexpected backoff %v", slept)
	}
}

func TestTranscribeDoesNotRetryClientErrors(t *testing.T) {
	tests := []struct {
		status int
		marker error
	}{
		{http.StatusBadRequest, services.ErrValidation},
		{http.StatusUnauthorized, services.ErrConfiguration},
	}
	for _, tt := range tests {
		var calls int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atomic.AddInt32(&calls, 1)
			http.Error(w, `{"error":{"message":"nope"}}`, tt.status)
		}))
		client := NewClient(Config{APIKey: "k", BaseURL: server.URL, MaxRetries: 3}, WithSleeper(func(time.Duration) {}))
		_, err := client.Transcribe(context.Background(), writeAudio(t))
		server.Close()
		if !errors.Is(err, tt.marker) {
			t.Fatalf("status %d: expected %v, got %v", tt.status, tt.marker, err)
		}
		if !strings.Contains(err.Error(), "nope") {
			t.Fatalf("expected response snippet in %q", err)
		}
		if calls != 1 {
			t.Fatalf("status %d: expected single attempt, got %d", tt.status, calls)
		}
	}
}

func TestTranscribeRequiresAPIKey(t *testing.T) {
	client := NewClient(Config{BaseURL: "http://127.0.0.1:1"})
	_, err := client.Transcribe(context.Background(), writeAudio(t))
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}

func TestTranscribeMissingAudio(t *testing.T) {
	client := NewClient(Config{APIKey: "k", BaseURL: "http://127.0.0.1:1"})
	_, err := client.Transcribe(context.Background(), filepath.Join(t.TempDir(), "none.mp3"))
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestTranscribeCanceledContext(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, sampleResponse)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	client := NewClient(Config{APIKey: "k", BaseURL: server.URL, MaxRetries: 3})
	_, err := client.Transcribe(ctx, writeAudio(t))
	if !errors.Is(err, context.Canceled) || !errors.Is(err, services.ErrTimeout) {
		t.Fatalf("expected canceled timeout error, got %v", err)
	}
}

func TestConfigFrom(t *testing.T) {
	cfg := config.Default()
	cfg.Transcription.APIKey = "abc"
	cfg.Transcription.Language = "de"
	got := ConfigFrom(&cfg)
	if got.APIKey != "abc" || got.Language != "de" || got.Model != "whisper-1" || got.MaxRetries != 3 {
		t.Fatalf("unexpected config %+v", got)
	}
	if ConfigFrom(nil) != (Config{}) {
		t.Fatal("expected zero config for nil input")
	}
}

func TestParseRetryAfter(t *testing.T) {
	if d, ok := parseRetryAfter("3"); !ok || d != 3*time.Second {
		t.Fatalf("unexpected seconds parse %v %v", d, ok)
	}
	if _, ok := parseRetryAfter("-1"); ok {
		t.Fatal("negative values should be ignored")
	}
	if _, ok := parseRetryAfter("soon"); ok {
		t.Fatal("garbage should be ignored")
	}
	future := time.Now().Add(time.Minute).UTC().Format(http.TimeFormat)
	if d, ok := parseRetryAfter(future); !ok || d <= 0 {
		t.Fatalf("expected positive delay for http date, got %v %v", d, ok)
	}
}
