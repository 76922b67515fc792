// Package chat maintains the conversation state and drives one streamed
// retrieval-augmented turn at a time.
package chat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/hyperifyio/ragcli/internal/rag"
	"github.com/hyperifyio/ragcli/internal/transcript"
)

const basePrompt = "You are a specialized assistant. " +
	"Use ONLY the provided file knowledge when relevant. "

const strictSuffix = "If the answer is not explicitly contained in the files, " +
	"respond with: 'The provided documents do not contain that information.'"

const lenientSuffix = "If the files do not contain the answer, you may reason normally but clearly " +
	"state that you are extrapolating."

// SystemPrompt builds the fixed first message of the conversation. Strict
// mode restricts answers to retrieved context; it changes nothing else.
func SystemPrompt(strict bool) string {
	if strict {
		return basePrompt + strictSuffix
	}
	return basePrompt + lenientSuffix
}

// ErrStreamTransport marks a failure while consuming the response stream.
// It is fatal to the current turn only.
var ErrStreamTransport = errors.New("response stream failed")

// Engine owns the ordered message history for the process lifetime and
// executes turns against the remote service. Not safe for concurrent use;
// there is exactly one engine per session.
type Engine struct {
	Client rag.Client
	Model  string
	// VectorStoreID references the index used for retrieval augmentation.
	VectorStoreID string
	// ReasoningEffort is forwarded verbatim when non-empty.
	ReasoningEffort string
	// Debug retains retrieved chunks for display after each turn.
	Debug bool
	// Sink receives text deltas as they arrive, before the next event is
	// read, so output latency tracks the stream.
	Sink io.Writer
	// Log, when set, records each turn to the session transcript.
	Log *transcript.Writer

	history []rag.Message
}

// NewEngine seeds the conversation with the system message at position 0.
func NewEngine(client rag.Client, model, vectorStoreID string, strict bool) *Engine {
	return &Engine{
		Client:        client,
		Model:         model,
		VectorStoreID: vectorStoreID,
		history: []rag.Message{
			{Role: rag.RoleSystem, Content: SystemPrompt(strict)},
		},
	}
}

// History returns the current ordered conversation state.
func (e *Engine) History() []rag.Message { return e.history }

// SubmitTurn runs one full turn: the user message is appended to history
// and the transcript before the remote call, the stream is consumed in
// arrival order, and on clean close the assembled answer is recorded and
// returned together with any retained retrieval chunks.
//
// On a transport failure the pending user message is removed from history
// again so the next turn does not resend an unanswered question. The
// transcript keeps it: that file is an audit log, not conversation state.
func (e *Engine) SubmitTurn(ctx context.Context, userText string) (string, []rag.RetrievedChunk, error) {
	e.history = append(e.history, rag.Message{Role: rag.RoleUser, Content: userText})
	e.logEntry(rag.RoleUser, userText)

	stream, err := e.Client.StreamResponse(ctx, rag.GenerationRequest{
		Model:           e.Model,
		Messages:        e.history,
		VectorStoreID:   e.VectorStoreID,
		ReasoningEffort: e.ReasoningEffort,
	})
	if err != nil {
		e.history = e.history[:len(e.history)-1]
		return "", nil, fmt.Errorf("%w: %v", ErrStreamTransport, err)
	}
	defer stream.Close()

	var answer strings.Builder
	var retrieved []rag.RetrievedChunk
	for {
		ev, err := stream.Recv()
		if err == io.EOF {
			break
		}
		if err != nil {
			e.history = e.history[:len(e.history)-1]
			return "", nil, fmt.Errorf("%w: %v", ErrStreamTransport, err)
		}
		switch ev := ev.(type) {
		case rag.TextDelta:
			answer.WriteString(ev.Text)
			if e.Sink != nil {
				if _, err := io.WriteString(e.Sink, ev.Text); err != nil {
					e.history = e.history[:len(e.history)-1]
					return "", nil, fmt.Errorf("write output: %w", err)
				}
			}
		case rag.RetrievedChunk:
			if e.Debug {
				retrieved = append(retrieved, ev)
			}
		case rag.OtherEvent:
			// Unknown event kinds are consumed and dropped.
		}
	}

	final := answer.String()
	e.history = append(e.history, rag.Message{Role: rag.RoleAssistant, Content: final})
	e.logEntry(rag.RoleAssistant, final)
	return final, retrieved, nil
}

func (e *Engine) logEntry(role, text string) {
	if e.Log == nil {
		return
	}
	if err := e.Log.Append(role, text); err != nil {
		log.Warn().Err(err).Msg("transcript append failed")
	}
}
