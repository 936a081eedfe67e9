package core_test

import (
	"context"
	"sync"
	"time"

	"github.com/mikey/eco-scheduler/internal/core"
	"go.uber.org/zap"
)

// fixedNow is 2025-04-20 mid-morning UTC
var fixedNow = time.Date(2025, time.April, 20, 10, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// fakeClient answers every request through respond and records what it saw
type fakeClient struct {
	mu       sync.Mutex
	respond  func(ctx context.Context, req *core.GenerationRequest) (string, error)
	requests []*core.GenerationRequest
}

func newFakeClient(respond func(ctx context.Context, req *core.GenerationRequest) (string, error)) *fakeClient {
	return &fakeClient{respond: respond}
}

func constantClient(text string) *fakeClient {
	return newFakeClient(func(context.Context, *core.GenerationRequest) (string, error) {
		return text, nil
	})
}

func (f *fakeClient) Generate(ctx context.Context, req *core.GenerationRequest) (*core.GeneratedText, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	text, err := f.respond(ctx, req)
	if err != nil {
		return nil, err
	}
	return &core.GeneratedText{Text: text, ModelUsed: "fake-model"}, nil
}

func (f *fakeClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func (f *fakeClient) lastRequest() *core.GenerationRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		return nil
	}
	return f.requests[len(f.requests)-1]
}

func newTestEngine(client core.TextGenerationClient) *core.DateInferenceEngine {
	return core.NewDateInferenceEngine(client, zap.NewNop(), nil, core.EngineConfig{
		Now: clock,
	})
}
