package engines

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dgnsrekt/spellbee-audio/internal/cache"
	"github.com/dgnsrekt/spellbee-audio/internal/tts"
	"github.com/dgnsrekt/spellbee-audio/internal/ttypes"
)

// fakeBinary writes an executable shell script and returns its path.
func fakeBinary(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fakes need a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "fake-tts")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body+"\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestEdgeEngine_Synthesize(t *testing.T) {
	bin := fakeBinary(t, `printf 'ID3'; for a in "$@"; do printf '|%s' "$a"; done`)
	e := NewEdgeEngine(EdgeConfig{Binary: bin, Rate: "-10%"})

	audio, err := e.Synthesize(context.Background(), "-hola", "es-MX-DaliaNeural")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	got := string(audio)
	for _, want := range []string{"ID3", "|--voice=es-MX-DaliaNeural", "|--text=-hola", "|--rate=-10%"} {
		if !strings.Contains(got, want) {
			t.Errorf("Output %q missing %q", got, want)
		}
	}
	if strings.Contains(got, "--volume") {
		t.Error("Unset volume should not be passed")
	}
}

func TestEdgeEngine_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		timeout  time.Duration
		wantCode tts.ErrorCode
		wantText string
	}{
		{"empty output", "exit 0", 0, tts.ErrorCodeEmptyAudio, "empty audio"},
		{"non-zero exit", "echo 'No audio was received' >&2; exit 3", 0, tts.ErrorCodeEngineFailure, "No audio was received"},
		{"timeout", "exec sleep 5", 50 * time.Millisecond, tts.ErrorCodeEngineTimeout, "timed out"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewEdgeEngine(EdgeConfig{Binary: fakeBinary(t, tt.body), Timeout: tt.timeout})

			_, err := e.Synthesize(context.Background(), "hola", "es-MX-JorgeNeural")
			var se *tts.SynthesisError
			if !errors.As(err, &se) {
				t.Fatalf("Expected SynthesisError, got %v", err)
			}
			if se.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s", se.Code, tt.wantCode)
			}
			if !strings.Contains(err.Error(), tt.wantText) {
				t.Errorf("Error %q should contain %q", err, tt.wantText)
			}
			if !se.IsRetryable() {
				t.Error("Subprocess failures should be retryable")
			}
		})
	}
}

func TestEdgeEngine_EmptyText(t *testing.T) {
	e := NewEdgeEngine(EdgeConfig{Binary: "edge-tts-not-called"})
	_, err := e.Synthesize(context.Background(), "", "es-MX-DaliaNeural")
	var se *tts.SynthesisError
	if !errors.As(err, &se) || se.Code != tts.ErrorCodeInvalidInput {
		t.Errorf("Expected invalid input error, got %v", err)
	}
}

func TestEdgeEngine_ValidateMissingBinary(t *testing.T) {
	e := NewEdgeEngine(EdgeConfig{Binary: "edge-tts-definitely-missing"})
	if err := e.Validate(); err == nil {
		t.Error("Expected validation to fail for a missing binary")
	}
}

func TestParseGTTSVoice(t *testing.T) {
	tests := []struct {
		voice   string
		lang    string
		tld     string
		wantErr bool
	}{
		{"es", "es", "", false},
		{"es:com.mx", "es", "com.mx", false},
		{" es:us ", "es", "us", false},
		{"", "", "", true},
		{":com.mx", "", "", true},
	}

	for _, tt := range tests {
		lang, tld, err := ParseGTTSVoice(tt.voice)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseGTTSVoice(%q) error = %v, wantErr %v", tt.voice, err, tt.wantErr)
			continue
		}
		if lang != tt.lang || tld != tt.tld {
			t.Errorf("ParseGTTSVoice(%q) = %q, %q; want %q, %q", tt.voice, lang, tld, tt.lang, tt.tld)
		}
	}
}

func TestGTTSEngine_Synthesize(t *testing.T) {
	bin := fakeBinary(t, `for a in "$@"; do printf '|%s' "$a"; done`)
	e := NewGTTSEngine(GTTSConfig{Binary: bin, Slow: true})

	audio, err := e.Synthesize(context.Background(), "--manzana", "es:com.mx")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	want := "|-l|es|--tld|com.mx|--slow|-o|-|--|--manzana"
	if string(audio) != want {
		t.Errorf("Arguments = %q, want %q", audio, want)
	}
}

func TestGTTSEngine_TextTooLong(t *testing.T) {
	e := NewGTTSEngine(GTTSConfig{Binary: "gtts-cli-not-called"})
	_, err := e.Synthesize(context.Background(), strings.Repeat("a", gttsMaxTextSize+1), "es")
	if !errors.Is(err, tts.ErrTextTooLong) {
		t.Errorf("Expected ErrTextTooLong, got %v", err)
	}
}

func TestMockEngine(t *testing.T) {
	e := NewMockEngine(MockConfig{})
	audio, err := e.Synthesize(context.Background(), "sol", "es-MX-DaliaNeural")
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if !bytes.HasPrefix(audio, []byte("ID3")) {
		t.Error("Mock audio should start with an ID3 tag")
	}
	if !bytes.HasSuffix(audio, []byte("sol")) {
		t.Error("Mock audio should carry the text")
	}
	if e.Calls() != 1 {
		t.Errorf("Calls = %d, want 1", e.Calls())
	}

	slow := NewMockEngine(MockConfig{Delay: time.Second})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := slow.Synthesize(ctx, "sol", "v"); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}

func TestPaced(t *testing.T) {
	mock := NewMockEngine(MockConfig{})

	if Paced(mock, 0) != ttypes.Synthesizer(mock) {
		t.Error("Zero rate should return the engine unchanged")
	}

	// 1200 per minute = one every 50ms, burst of one.
	p := Paced(mock, 1200)
	start := time.Now()
	for i := 0; i < 3; i++ {
		if _, err := p.Synthesize(context.Background(), "sol", "v"); err != nil {
			t.Fatal(err)
		}
	}
	if elapsed := time.Since(start); elapsed < 90*time.Millisecond {
		t.Errorf("Three paced calls took %v, expected at least ~100ms", elapsed)
	}
	if p.Info().Name != "mock" {
		t.Error("Paced engine should report the wrapped engine's info")
	}
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func (m *memCache) Get(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok
}

func (m *memCache) Put(key string, audio []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = audio
	return nil
}

func TestCached(t *testing.T) {
	mock := NewMockEngine(MockConfig{})
	c := &memCache{data: make(map[string][]byte)}
	s := Cached(mock, c)

	first, err := s.Synthesize(context.Background(), "sol", "es-MX-DaliaNeural")
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.Synthesize(context.Background(), "sol", "es-MX-DaliaNeural")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Error("Cached audio differs from original")
	}
	if mock.Calls() != 1 {
		t.Errorf("Engine called %d times, want 1", mock.Calls())
	}

	if _, err := s.Synthesize(context.Background(), "sol", "es-MX-JorgeNeural"); err != nil {
		t.Fatal(err)
	}
	if mock.Calls() != 2 {
		t.Errorf("Different voice should miss the cache, calls = %d", mock.Calls())
	}

	if Cached(mock, nil) != ttypes.Synthesizer(mock) {
		t.Error("Nil cache should return the engine unchanged")
	}
}

func TestCached_DiskCache(t *testing.T) {
	dc, err := cache.NewDiskCache(t.TempDir(), 0, 3)
	if err != nil {
		t.Fatal(err)
	}
	defer dc.Close()

	mock := NewMockEngine(MockConfig{})
	s := Cached(mock, dc)
	for i := 0; i < 3; i++ {
		if _, err := s.Synthesize(context.Background(), "luna", "es-US-PalomaNeural"); err != nil {
			t.Fatal(err)
		}
	}
	if mock.Calls() != 1 {
		t.Errorf("Engine called %d times, want 1", mock.Calls())
	}
	if hits := dc.Stats().Hits; hits != 2 {
		t.Errorf("Hits = %d, want 2", hits)
	}
}

func TestNew(t *testing.T) {
	for _, et := range []ttypes.EngineType{ttypes.EngineEdge, ttypes.EngineGoogle, ttypes.EngineMock} {
		s, err := New(et, Options{})
		if err != nil {
			t.Errorf("New(%q) failed: %v", et, err)
			continue
		}
		if s.Info().Name != string(et) {
			t.Errorf("New(%q).Info().Name = %q", et, s.Info().Name)
		}
	}

	if _, err := New(ttypes.EngineNone, Options{}); !errors.Is(err, tts.ErrNoEngineConfigured) {
		t.Errorf("Expected ErrNoEngineConfigured, got %v", err)
	}
	if _, err := New("piper", Options{}); !errors.Is(err, tts.ErrInvalidEngine) {
		t.Errorf("Expected ErrInvalidEngine, got %v", err)
	}
}
