// ragstub is a local stand-in for the remote retrieval service. It serves
// just enough of the files / vector store / responses surface for manual
// runs of ragcli without credentials:
//
//	OPEN_AI_API_KEY=dummy ragcli --base-url http://localhost:8081/v1 'docs/*.md'
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"sync"
)

type stub struct {
	mu       sync.Mutex
	files    int
	stores   int
	batches  int
	retrieve map[string]int
	// pendingPolls is how many times a batch reports in_progress before
	// completing.
	pendingPolls int
}

func main() {
	addr := os.Getenv("ADDR")
	if strings.TrimSpace(addr) == "" {
		addr = ":8081"
	}
	model := os.Getenv("MODEL_ID")
	if strings.TrimSpace(model) == "" {
		model = "gpt-5-stub"
	}

	s := &stub{retrieve: map[string]int{}, pendingPolls: 2}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"data": []map[string]any{{"id": model, "object": "model"}},
		})
	})
	mux.HandleFunc("/v1/files", func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(64 << 20); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.files++
		id := fmt.Sprintf("file-%d", s.files)
		s.mu.Unlock()
		writeJSON(w, map[string]any{"id": id, "object": "file"})
	})
	mux.HandleFunc("/v1/vector_stores", func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.stores++
		id := fmt.Sprintf("vs-%d", s.stores)
		s.mu.Unlock()
		writeJSON(w, map[string]any{"id": id, "object": "vector_store"})
	})
	mux.HandleFunc("/v1/vector_stores/", s.handleBatch)
	mux.HandleFunc("/v1/responses", s.handleResponses)

	log.Printf("ragstub listening on %s (model=%s)", addr, model)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatal(err)
	}
}

// handleBatch covers both batch creation and retrieval under
// /v1/vector_stores/{vs}/file_batches[/{batch}].
func (s *stub) handleBatch(w http.ResponseWriter, r *http.Request) {
	parts := strings.Split(strings.Trim(r.URL.Path, "/"), "/")
	// v1 / vector_stores / {vs} / file_batches [/ {batch}]
	if len(parts) < 4 || parts[3] != "file_batches" {
		http.NotFound(w, r)
		return
	}
	if r.Method == http.MethodPost && len(parts) == 4 {
		s.mu.Lock()
		s.batches++
		id := fmt.Sprintf("batch-%d", s.batches)
		s.mu.Unlock()
		writeJSON(w, map[string]any{"id": id, "object": "vector_store.file_batch", "status": "in_progress"})
		return
	}
	if len(parts) == 5 {
		id := parts[4]
		s.mu.Lock()
		s.retrieve[id]++
		polls := s.retrieve[id]
		s.mu.Unlock()
		status := "in_progress"
		if polls > s.pendingPolls {
			status = "completed"
		}
		writeJSON(w, map[string]any{"id": id, "object": "vector_store.file_batch", "status": status})
		return
	}
	http.NotFound(w, r)
}

func (s *stub) handleResponses(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()
	var req struct {
		Input []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"input"`
	}
	_ = json.NewDecoder(r.Body).Decode(&req)
	question := "(empty)"
	for i := len(req.Input) - 1; i >= 0; i-- {
		if req.Input[i].Role == "user" {
			question = req.Input[i].Content
			break
		}
	}

	w.Header().Set("Content-Type", "text/event-stream")
	flusher, _ := w.(http.Flusher)
	emit := func(payload map[string]any) {
		b, _ := json.Marshal(payload)
		fmt.Fprintf(w, "event: %s\ndata: %s\n\n", payload["type"], b)
		if flusher != nil {
			flusher.Flush()
		}
	}
	emit(map[string]any{
		"type": "response.file_search.result",
		"results": []map[string]any{
			{"file": "stub.md", "score": 0.42, "text": "stub chunk"},
		},
	})
	for _, delta := range []string{"You asked: ", question, ". The stub has no real index."} {
		emit(map[string]any{"type": "response.output_text.delta", "delta": delta})
	}
	emit(map[string]any{"type": "response.completed"})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
