package gemini

import (
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/mikey/eco-scheduler/internal/core"
)

func TestBuildParts(t *testing.T) {
	parts := buildParts(&core.GenerationRequest{Prompt: "date?"})
	if len(parts) != 1 {
		t.Fatalf("text-only request: got %d parts, want 1", len(parts))
	}
	if text, ok := parts[0].(genai.Text); !ok || string(text) != "date?" {
		t.Errorf("first part = %#v", parts[0])
	}

	parts = buildParts(&core.GenerationRequest{
		Prompt: "date?",
		Image:  &core.InlineImage{Data: []byte{1, 2, 3}, MIMEType: "image/png"},
	})
	if len(parts) != 2 {
		t.Fatalf("image request: got %d parts, want 2", len(parts))
	}
	blob, ok := parts[1].(genai.Blob)
	if !ok || blob.MIMEType != "image/png" || len(blob.Data) != 3 {
		t.Errorf("second part = %#v", parts[1])
	}
}

func TestResponseText(t *testing.T) {
	tests := []struct {
		name   string
		resp   *genai.GenerateContentResponse
		want   string
		wantOK bool
	}{
		{"nil response", nil, "", false},
		{"no candidates", &genai.GenerateContentResponse{}, "", false},
		{"nil content", &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}}, "", false},
		{
			name: "joined text parts",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{genai.Text("2025-"), genai.Text("05-01")}},
			}}},
			want:   "2025-05-01",
			wantOK: true,
		},
		{
			name: "blank text",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{genai.Text("  ")}},
			}}},
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := responseText(tt.resp)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("responseText = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
