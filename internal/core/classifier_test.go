package core_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mikey/eco-scheduler/internal/core"
	"go.uber.org/zap"
)

const wellFormed = "**Waste Type Classification:**\n* **Degradable:** No\n\n**Storage and Disposal Instructions:**\n* **Storage:** Dry place"

func newTestClassifier(client core.TextGenerationClient) *core.WasteClassifier {
	return core.NewWasteClassifier(client, zap.NewNop(), nil, core.GenerationOptions{}, 0)
}

func TestClassify_WellFormed(t *testing.T) {
	client := constantClient(wellFormed)

	c, err := newTestClassifier(client).Classify(context.Background(), &core.WasteItem{Name: "Glass bottle"})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if client.calls() != 1 {
		t.Errorf("client called %d times, want 1", client.calls())
	}
	if !strings.HasPrefix(c.Result, "**Item Analyzed:** Glass bottle\n\n") {
		t.Errorf("result missing item prefix: %q", c.Result)
	}
	if !strings.HasSuffix(c.Result, wellFormed) {
		t.Errorf("result lost the service answer: %q", c.Result)
	}
	if c.Source != core.ClassificationSource {
		t.Errorf("Source = %q", c.Source)
	}
	if c.Retried {
		t.Error("Retried = true for a well-formed answer")
	}
	if c.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
	if opts := client.lastRequest().Options; opts != core.DefaultClassificationOptions {
		t.Errorf("Options = %+v, want %+v", opts, core.DefaultClassificationOptions)
	}
}

func TestClassify_RetriesOnceWithStrictPrompt(t *testing.T) {
	client := newFakeClient(func(_ context.Context, req *core.GenerationRequest) (string, error) {
		if strings.Contains(req.Prompt, "EXACT format") {
			return wellFormed, nil
		}
		return "It is plastic. Recycle it.", nil
	})

	c, err := newTestClassifier(client).Classify(context.Background(), &core.WasteItem{Name: "Yogurt cup"})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if client.calls() != 2 {
		t.Errorf("client called %d times, want 2", client.calls())
	}
	if !c.Retried {
		t.Error("Retried = false")
	}
	if !core.HasRequiredSections(c.Result) {
		t.Errorf("result should come from the retry: %q", c.Result)
	}
}

func TestClassify_KeepsFirstAnswerWhenRetryIsEmpty(t *testing.T) {
	calls := 0
	client := newFakeClient(func(context.Context, *core.GenerationRequest) (string, error) {
		calls++
		if calls == 1 {
			return "Loose answer", nil
		}
		return "   ", nil
	})

	c, err := newTestClassifier(client).Classify(context.Background(), &core.WasteItem{Name: "Sponge"})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if !strings.HasSuffix(c.Result, "Loose answer") {
		t.Errorf("Result = %q, want the first answer", c.Result)
	}
	if client.calls() != 2 {
		t.Errorf("client called %d times, want exactly 2", client.calls())
	}
}

func TestClassify_ImageOnly(t *testing.T) {
	client := constantClient(wellFormed)
	image := &core.InlineImage{Data: []byte("img"), MIMEType: "image/png"}

	c, err := newTestClassifier(client).Classify(context.Background(), &core.WasteItem{Image: image})
	if err != nil {
		t.Fatalf("Classify failed: %v", err)
	}
	if strings.Contains(c.Result, "Item Analyzed") {
		t.Errorf("image-only result should have no item prefix: %q", c.Result)
	}
	req := client.lastRequest()
	if req.Image != image {
		t.Error("image was not forwarded")
	}
	if !strings.Contains(req.Prompt, "the item in the image") {
		t.Errorf("prompt does not refer to the image: %q", req.Prompt)
	}
}

func TestClassify_Errors(t *testing.T) {
	tests := []struct {
		name    string
		item    *core.WasteItem
		respond func(context.Context, *core.GenerationRequest) (string, error)
		wantErr error
	}{
		{
			name:    "no name or image",
			item:    &core.WasteItem{},
			respond: func(context.Context, *core.GenerationRequest) (string, error) { return wellFormed, nil },
			wantErr: core.ErrItemRequired,
		},
		{
			name:    "blank answer",
			item:    &core.WasteItem{Name: "Can"},
			respond: func(context.Context, *core.GenerationRequest) (string, error) { return "", nil },
			wantErr: core.ErrNoClassification,
		},
		{
			name:    "empty response error",
			item:    &core.WasteItem{Name: "Can"},
			respond: func(context.Context, *core.GenerationRequest) (string, error) { return "", core.ErrEmptyResponse },
			wantErr: core.ErrNoClassification,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestClassifier(newFakeClient(tt.respond)).Classify(context.Background(), tt.item)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v, want %v", err, tt.wantErr)
			}
		})
	}

	boom := errors.New("upstream down")
	_, err := newTestClassifier(newFakeClient(func(context.Context, *core.GenerationRequest) (string, error) {
		return "", boom
	})).Classify(context.Background(), &core.WasteItem{Name: "Can"})
	if !errors.Is(err, boom) {
		t.Errorf("service error should be wrapped, got %v", err)
	}
}
