package gcp

import (
	"testing"

	"cloud.google.com/go/vertexai/genai"
	"github.com/stretchr/testify/assert"
)

func TestResponseText(t *testing.T) {
	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want string
	}{
		{name: "nil response", resp: nil, want: ""},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}, want: ""},
		{
			name: "nil content",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}},
			want: "",
		},
		{
			name: "empty parts",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{Content: &genai.Content{}}}},
			want: "",
		},
		{
			name: "single text part",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{genai.Text("hello")}},
			}}},
			want: "hello",
		},
		{
			name: "mixed parts keep only text",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{{
				Content: &genai.Content{Parts: []genai.Part{
					genai.Text("page one "),
					genai.Blob{MIMEType: "image/png", Data: []byte{0x89, 0x50}},
					genai.Text("page two"),
				}},
			}}},
			want: "page one page two",
		},
		{
			name: "only first candidate is read",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{Content: &genai.Content{Parts: []genai.Part{genai.Text("first")}}},
				{Content: &genai.Content{Parts: []genai.Part{genai.Text("second")}}},
			}},
			want: "first",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResponseText(tt.resp))
		})
	}
}
