package nlp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func entityServer(t *testing.T, entities []Entity) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/entities" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		json.NewEncoder(w).Encode(extractResponse{Entities: entities})
	}))
}

func TestExtract(t *testing.T) {
	want := []Entity{
		{Text: "asthma", Label: "DISEASE", Start: 8, End: 14, Confidence: 0.97},
		{Text: "inhaler", Label: "TREATMENT", Start: 28, End: 35, Confidence: 0.91},
	}
	var gotAuth, gotText string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req extractRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request body: %v", err)
		}
		gotText = req.Text
		json.NewEncoder(w).Encode(extractResponse{Entities: want})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, WithAPIKey("test-key"))
	got, err := c.Extract(context.Background(), "chronic asthma managed with inhaler")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want %q", gotAuth, "Bearer test-key")
	}
	if gotText != "chronic asthma managed with inhaler" {
		t.Errorf("submitted text = %q", gotText)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 entities, got %d", len(got))
	}
	if got[0] != want[0] || got[1] != want[1] {
		t.Errorf("entities = %+v, want %+v", got, want)
	}
}

func TestExtract_FiltersLowConfidence(t *testing.T) {
	srv := entityServer(t, []Entity{
		{Text: "asthma", Label: "DISEASE", Confidence: 0.97},
		{Text: "discomfort", Label: "SYMPTOM", Confidence: 0.41},
	})
	defer srv.Close()

	c := NewClient(srv.URL, WithMinConfidence(0.6))
	got, err := c.Extract(context.Background(), "asthma with mild discomfort")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 entity after filtering, got %d", len(got))
	}
	if got[0].Text != "asthma" {
		t.Errorf("kept entity = %q, want %q", got[0].Text, "asthma")
	}
}

func TestExtract_ServiceError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model not loaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.Extract(context.Background(), "anything"); err == nil {
		t.Fatal("expected error for 503 response")
	}
}

func TestExtract_ContextCancelled(t *testing.T) {
	srv := entityServer(t, nil)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewClient(srv.URL)
	if _, err := c.Extract(ctx, "anything"); err == nil {
		t.Fatal("expected error for cancelled context")
	}
}

func TestExtract_BadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if _, err := c.Extract(context.Background(), "anything"); err == nil {
		t.Fatal("expected error for malformed response body")
	}
}

func TestHealthy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/health" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if err := c.Healthy(context.Background()); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestHealthy_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	if err := c.Healthy(context.Background()); err == nil {
		t.Error("expected error for unavailable service")
	}
}
