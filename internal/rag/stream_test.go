package rag

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func sseServer(t *testing.T, body string, capture *[]byte) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/responses" {
			http.NotFound(w, r)
			return
		}
		if capture != nil {
			b, _ := io.ReadAll(r.Body)
			*capture = b
		}
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, body)
	}))
}

func collect(t *testing.T, s Stream) []StreamEvent {
	t.Helper()
	var events []StreamEvent
	for {
		ev, err := s.Recv()
		if err == io.EOF {
			return events
		}
		if err != nil {
			t.Fatalf("recv: %v", err)
		}
		events = append(events, ev)
	}
}

func TestStreamResponseDecodesEventsInOrder(t *testing.T) {
	body := "event: response.output_text.delta\n" +
		"data: {\"type\":\"response.output_text.delta\",\"delta\":\"Hel\"}\n\n" +
		"event: response.output_text.delta\n" +
		"data: {\"type\":\"response.output_text.delta\",\"delta\":\"lo\"}\n\n" +
		"event: response.file_search.result\n" +
		"data: {\"type\":\"response.file_search.result\",\"results\":[{\"file\":\"a.md\"}]}\n\n" +
		"event: response.completed\n" +
		"data: {\"type\":\"response.completed\"}\n\n"
	ts := sseServer(t, body, nil)
	defer ts.Close()

	p := NewOpenAIProvider(Config{APIKey: "k", BaseURL: ts.URL})
	stream, err := p.StreamResponse(context.Background(), GenerationRequest{
		Model:         "gpt-5",
		Messages:      []Message{{Role: RoleUser, Content: "hi"}},
		VectorStoreID: "vs-1",
	})
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer stream.Close()

	events := collect(t, stream)
	if len(events) != 4 {
		t.Fatalf("got %d events, want 4: %+v", len(events), events)
	}
	if d, ok := events[0].(TextDelta); !ok || d.Text != "Hel" {
		t.Fatalf("event 0: %+v", events[0])
	}
	if d, ok := events[1].(TextDelta); !ok || d.Text != "lo" {
		t.Fatalf("event 1: %+v", events[1])
	}
	if c, ok := events[2].(RetrievedChunk); !ok || !strings.Contains(string(c.Payload), "a.md") {
		t.Fatalf("event 2: %+v", events[2])
	}
	if o, ok := events[3].(OtherEvent); !ok || o.Kind != "response.completed" {
		t.Fatalf("event 3: %+v", events[3])
	}
}

func TestStreamResponseUnknownAndMalformedEvents(t *testing.T) {
	body := "data: {\"type\":\"response.brand_new_kind\"}\n\n" +
		"data: this is not json\n\n" +
		"data: [DONE]\n"
	ts := sseServer(t, body, nil)
	defer ts.Close()

	p := NewOpenAIProvider(Config{APIKey: "k", BaseURL: ts.URL})
	stream, err := p.StreamResponse(context.Background(), GenerationRequest{Model: "m", VectorStoreID: "vs"})
	if err != nil {
		t.Fatal(err)
	}
	defer stream.Close()

	events := collect(t, stream)
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2: %+v", len(events), events)
	}
	for _, ev := range events {
		if _, ok := ev.(OtherEvent); !ok {
			t.Fatalf("expected OtherEvent, got %T", ev)
		}
	}
}

func TestStreamResponseRequestBody(t *testing.T) {
	var captured []byte
	ts := sseServer(t, "data: [DONE]\n", &captured)
	defer ts.Close()

	p := NewOpenAIProvider(Config{APIKey: "k", BaseURL: ts.URL})
	stream, err := p.StreamResponse(context.Background(), GenerationRequest{
		Model: "gpt-5",
		Messages: []Message{
			{Role: RoleSystem, Content: "sys"},
			{Role: RoleUser, Content: "q"},
		},
		VectorStoreID:   "vs-42",
		ReasoningEffort: "low",
	})
	if err != nil {
		t.Fatal(err)
	}
	_ = stream.Close()

	var req struct {
		Model  string `json:"model"`
		Stream bool   `json:"stream"`
		Input  []struct {
			Role string `json:"role"`
		} `json:"input"`
		Tools []struct {
			Type           string   `json:"type"`
			VectorStoreIDs []string `json:"vector_store_ids"`
		} `json:"tools"`
		Reasoning *struct {
			Effort string `json:"effort"`
		} `json:"reasoning"`
	}
	if err := json.Unmarshal(captured, &req); err != nil {
		t.Fatalf("request not JSON: %v: %s", err, captured)
	}
	if !req.Stream || req.Model != "gpt-5" {
		t.Fatalf("bad request basics: %s", captured)
	}
	if len(req.Input) != 2 || req.Input[0].Role != RoleSystem {
		t.Fatalf("history not forwarded in order: %s", captured)
	}
	if len(req.Tools) != 1 || req.Tools[0].Type != "file_search" || req.Tools[0].VectorStoreIDs[0] != "vs-42" {
		t.Fatalf("file_search tool missing: %s", captured)
	}
	if req.Reasoning == nil || req.Reasoning.Effort != "low" {
		t.Fatalf("reasoning effort missing: %s", captured)
	}
}

func TestStreamResponseOmitsReasoningWhenUnset(t *testing.T) {
	var captured []byte
	ts := sseServer(t, "data: [DONE]\n", &captured)
	defer ts.Close()

	p := NewOpenAIProvider(Config{APIKey: "k", BaseURL: ts.URL})
	stream, err := p.StreamResponse(context.Background(), GenerationRequest{Model: "m", VectorStoreID: "vs"})
	if err != nil {
		t.Fatal(err)
	}
	_ = stream.Close()

	if strings.Contains(string(captured), "reasoning") {
		t.Fatalf("reasoning should be omitted: %s", captured)
	}
}

func TestStreamResponseNonOKStatus(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad key"}`, http.StatusUnauthorized)
	}))
	defer ts.Close()

	p := NewOpenAIProvider(Config{APIKey: "wrong", BaseURL: ts.URL})
	_, err := p.StreamResponse(context.Background(), GenerationRequest{Model: "m", VectorStoreID: "vs"})
	if err == nil || !strings.Contains(err.Error(), "401") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestBatchStatusMapping(t *testing.T) {
	var status string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"id": "b1", "status": status})
	}))
	defer ts.Close()

	p := NewOpenAIProvider(Config{APIKey: "k", BaseURL: ts.URL})
	cases := map[string]BatchStatus{
		"completed":   BatchCompleted,
		"failed":      BatchFailed,
		"cancelled":   BatchFailed,
		"in_progress": BatchPending,
		"queued":      BatchPending,
	}
	for wire, want := range cases {
		status = wire
		got, err := p.RetrieveFileBatch(context.Background(), "vs", "b1")
		if err != nil {
			t.Fatalf("%s: %v", wire, err)
		}
		if got != want {
			t.Fatalf("status %q mapped to %q, want %q", wire, got, want)
		}
	}
}
