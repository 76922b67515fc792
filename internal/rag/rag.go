package rag

import (
	"context"
)

// Message is one entry of the conversation history sent with every request.
// The remote service holds no session state; callers resend full history.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// BatchStatus is the terminal-or-not state of a remote indexing batch.
type BatchStatus string

const (
	BatchPending   BatchStatus = "pending"
	BatchCompleted BatchStatus = "completed"
	BatchFailed    BatchStatus = "failed"
)

// GenerationRequest carries everything a retrieval-augmented generation
// call needs: the model, the full ordered history, the vector store to
// search, and an optional reasoning effort hint.
type GenerationRequest struct {
	Model         string
	Messages      []Message
	VectorStoreID string
	// ReasoningEffort is "low", "medium" or "high"; empty omits the hint.
	ReasoningEffort string
}

// Stream delivers generation events in the order the service emitted them.
// Recv returns io.EOF when the stream closes normally.
type Stream interface {
	Recv() (StreamEvent, error)
	Close() error
}

// Client is the minimal interface the core needs from the remote retrieval
// service. It intentionally mirrors the handful of calls used throughout
// the codebase so a stub or fake can stand in during tests.
type Client interface {
	UploadFile(ctx context.Context, name string, data []byte) (string, error)
	CreateVectorStore(ctx context.Context, name string) (string, error)
	CreateFileBatch(ctx context.Context, vectorStoreID string, fileIDs []string) (string, error)
	RetrieveFileBatch(ctx context.Context, vectorStoreID, batchID string) (BatchStatus, error)
	ListModels(ctx context.Context) ([]string, error)
	StreamResponse(ctx context.Context, req GenerationRequest) (Stream, error)
}
