package diart

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/Gaelhpalmer/diarized-stt/diarization"
	"github.com/Gaelhpalmer/diarized-stt/errors"
)

func TestProvider_Diarize(t *testing.T) {
	var gotTau string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/diarize" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatal(err)
		}
		if _, _, err := r.FormFile("audio"); err != nil {
			t.Errorf("missing audio part: %v", err)
		}
		gotTau = r.FormValue("tau_active")

		json.NewEncoder(w).Encode(diartResponse{ //nolint:errcheck
			Segments: []diartSegment{
				{SpeakerID: "speaker1", StartTime: 1.0, EndTime: 2.0},
				{SpeakerID: "speaker0", StartTime: 0.0, EndTime: 1.0},
			},
			NumSpeakers: 2,
		})
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL})
	resp, err := p.Diarize(context.Background(), diarization.Request{
		Audio:  []byte("RIFFfake"),
		Tuning: diarization.Tuning{TauActive: 0.6},
	})
	if err != nil {
		t.Fatal(err)
	}
	if resp.NumSpeakers != 2 {
		t.Errorf("got %d speakers", resp.NumSpeakers)
	}
	if len(resp.Annotation.Turns) != 2 || resp.Annotation.Turns[0].Speaker != "speaker0" {
		t.Errorf("expected sorted turns, got %v", resp.Annotation.Turns)
	}
	if gotTau != "0.6" {
		t.Errorf("tau_active not forwarded, got %q", gotTau)
	}
}

func TestProvider_Diarize_EmptyAudio(t *testing.T) {
	p := NewProvider(Config{})
	_, err := p.Diarize(context.Background(), diarization.Request{})
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeInvalidInput {
		t.Errorf("got %v", err)
	}
}

func TestProvider_Diarize_SidecarError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model not loaded", http.StatusInternalServerError)
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL})
	_, err := p.Diarize(context.Background(), diarization.Request{Audio: []byte("x")})
	if err == nil {
		t.Fatal("expected error")
	}
	appErr, ok := errors.AsAppError(err)
	if !ok || appErr.Code != errors.ErrCodeExternalService {
		t.Errorf("got %v", err)
	}
}

func TestProvider_Diarize_ErrorField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		json.NewEncoder(w).Encode(diartResponse{Error: "bad window"}) //nolint:errcheck
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL})
	if _, err := p.Diarize(context.Background(), diarization.Request{Audio: []byte("x")}); err == nil {
		t.Fatal("expected error from error field")
	}
}

func TestProvider_IsAvailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			w.WriteHeader(http.StatusOK)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	p := NewProvider(Config{BaseURL: srv.URL})
	if !p.IsAvailable(context.Background()) {
		t.Error("expected available")
	}

	down := NewProvider(Config{BaseURL: "http://127.0.0.1:1"})
	if down.IsAvailable(context.Background()) {
		t.Error("expected unavailable")
	}
}

func TestFactory(t *testing.T) {
	p, err := Factory()(map[string]any{"base_url": "http://example.test"})
	if err != nil {
		t.Fatal(err)
	}
	if p.Name() != ProviderName {
		t.Errorf("got %q", p.Name())
	}
}

func TestNewProvider_Defaults(t *testing.T) {
	p := NewProvider(Config{})
	if p.cfg.BaseURL != defaultDiartURL {
		t.Errorf("got %q", p.cfg.BaseURL)
	}
	if p.cfg.Timeout != defaultDiartTimeout {
		t.Errorf("got %v", p.cfg.Timeout)
	}
}
