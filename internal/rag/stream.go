package rag

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

const (
	eventTextDelta        = "response.output_text.delta"
	eventFileSearchResult = "response.file_search.result"
)

// StreamResponse issues a streaming generation request against the
// responses endpoint and returns a Stream over the server-sent events.
func (p *OpenAIProvider) StreamResponse(ctx context.Context, req GenerationRequest) (Stream, error) {
	payload := generationPayload{
		Model:  req.Model,
		Input:  req.Messages,
		Stream: true,
		Tools: []fileSearchTool{{
			Type:           "file_search",
			VectorStoreIDs: []string{req.VectorStoreID},
		}},
	}
	if req.ReasoningEffort != "" {
		payload.Reasoning = &reasoningOptions{Effort: req.ReasoningEffort}
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/responses", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "text/event-stream")
	httpReq.Header.Set("Authorization", "Bearer "+p.apiKey)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("responses request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		_ = resp.Body.Close()
		return nil, fmt.Errorf("responses request: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	return &sseStream{body: resp.Body, reader: bufio.NewReader(resp.Body)}, nil
}

type generationPayload struct {
	Model     string            `json:"model"`
	Input     []Message         `json:"input"`
	Stream    bool              `json:"stream"`
	Tools     []fileSearchTool  `json:"tools"`
	Reasoning *reasoningOptions `json:"reasoning,omitempty"`
}

type fileSearchTool struct {
	Type           string   `json:"type"`
	VectorStoreIDs []string `json:"vector_store_ids"`
}

type reasoningOptions struct {
	Effort string `json:"effort"`
}

// sseStream reads server-sent events line by line. Only data lines carry
// payloads; event-name lines and comments are skipped. Decoding is
// defensive: malformed or unknown payloads become OtherEvent rather than
// an error so the consumer keeps draining the channel.
type sseStream struct {
	body   io.ReadCloser
	reader *bufio.Reader
}

type eventEnvelope struct {
	Type  string `json:"type"`
	Delta string `json:"delta"`
}

func (s *sseStream) Recv() (StreamEvent, error) {
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if err == io.EOF && strings.TrimSpace(line) == "" {
				return nil, io.EOF
			}
			if err == io.EOF {
				// Trailing partial line without newline; fall through
				// and try to decode it before signalling close.
				if ev, ok := decodeDataLine(line); ok {
					return ev, nil
				}
				return nil, io.EOF
			}
			return nil, fmt.Errorf("read stream: %w", err)
		}
		if ev, ok := decodeDataLine(line); ok {
			return ev, nil
		}
	}
}

func decodeDataLine(line string) (StreamEvent, bool) {
	line = strings.TrimRight(line, "\r\n")
	data, found := strings.CutPrefix(line, "data:")
	if !found {
		return nil, false
	}
	data = strings.TrimSpace(data)
	if data == "" || data == "[DONE]" {
		return nil, false
	}
	var env eventEnvelope
	if err := json.Unmarshal([]byte(data), &env); err != nil {
		return OtherEvent{Kind: "undecodable"}, true
	}
	switch env.Type {
	case eventTextDelta:
		return TextDelta{Text: env.Delta}, true
	case eventFileSearchResult:
		return RetrievedChunk{Payload: json.RawMessage(data)}, true
	default:
		return OtherEvent{Kind: env.Type}, true
	}
}

func (s *sseStream) Close() error {
	return s.body.Close()
}
