package rag

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

const defaultBaseURL = "https://api.openai.com/v1"

// Config holds connection settings for the OpenAI-backed provider.
type Config struct {
	APIKey string
	// BaseURL points at an OpenAI-compatible server; empty selects the
	// public API. cmd/ragstub serves the same surface for local runs.
	BaseURL    string
	HTTPClient *http.Client
}

// OpenAIProvider implements Client against the OpenAI file-search stack:
// files, vector stores and file batches via go-openai, and the streaming
// responses endpoint spoken directly since the library does not cover it.
type OpenAIProvider struct {
	inner      *openai.Client
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewOpenAIProvider(cfg Config) *OpenAIProvider {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = defaultBaseURL
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = newHTTPClient()
	}
	transportCfg := openai.DefaultConfig(cfg.APIKey)
	transportCfg.BaseURL = base
	transportCfg.HTTPClient = hc
	return &OpenAIProvider{
		inner:      openai.NewClientWithConfig(transportCfg),
		baseURL:    base,
		apiKey:     cfg.APIKey,
		httpClient: hc,
	}
}

func (p *OpenAIProvider) UploadFile(ctx context.Context, name string, data []byte) (string, error) {
	f, err := p.inner.CreateFileBytes(ctx, openai.FileBytesRequest{
		Name:    name,
		Bytes:   data,
		Purpose: openai.PurposeAssistants,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", name, err)
	}
	return f.ID, nil
}

func (p *OpenAIProvider) CreateVectorStore(ctx context.Context, name string) (string, error) {
	vs, err := p.inner.CreateVectorStore(ctx, openai.VectorStoreRequest{Name: name})
	if err != nil {
		return "", fmt.Errorf("create vector store: %w", err)
	}
	return vs.ID, nil
}

func (p *OpenAIProvider) CreateFileBatch(ctx context.Context, vectorStoreID string, fileIDs []string) (string, error) {
	batch, err := p.inner.CreateVectorStoreFileBatch(ctx, vectorStoreID, openai.VectorStoreFileBatchRequest{
		FileIDs: fileIDs,
	})
	if err != nil {
		return "", fmt.Errorf("create file batch: %w", err)
	}
	return batch.ID, nil
}

func (p *OpenAIProvider) RetrieveFileBatch(ctx context.Context, vectorStoreID, batchID string) (BatchStatus, error) {
	batch, err := p.inner.RetrieveVectorStoreFileBatch(ctx, vectorStoreID, batchID)
	if err != nil {
		return BatchPending, fmt.Errorf("retrieve file batch: %w", err)
	}
	switch batch.Status {
	case "completed":
		return BatchCompleted, nil
	case "failed", "cancelled":
		return BatchFailed, nil
	default:
		// in_progress and any future state keep the poller waiting.
		return BatchPending, nil
	}
}

func (p *OpenAIProvider) ListModels(ctx context.Context) ([]string, error) {
	list, err := p.inner.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("list models: %w", err)
	}
	ids := make([]string, 0, len(list.Models))
	for _, m := range list.Models {
		ids = append(ids, m.ID)
	}
	sort.Strings(ids)
	return ids, nil
}

// newHTTPClient mirrors the connection tuning used elsewhere in the
// project: generous per-host pooling, bounded dial and TLS handshakes,
// and no overall timeout so long-lived streams are not cut off.
func newHTTPClient() *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConnsPerHost:   32,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	return &http.Client{Transport: transport}
}
