package gemini

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/screenrank/screenrank/internal/llmjson"
	"github.com/screenrank/screenrank/internal/source"
)

type stubGenerator struct {
	response   string
	err        error
	lastPrompt string
}

func (s *stubGenerator) GenerateContent(_ context.Context, prompt string) (string, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

func TestSourceObtainSkills(t *testing.T) {
	stub := &stubGenerator{response: `{"jobSkills":["React","AWS"],"resumeSkills":["React","TypeScript"]}`}
	src := NewSource(stub, "We need a React developer", zap.NewNop())

	got, err := src.ObtainSkills(context.Background(), source.Candidate{
		ID:         "c1",
		ResumeText: "Built React apps in TypeScript",
	}, []string{"React", "AWS"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"React", "TypeScript"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if !strings.Contains(stub.lastPrompt, "We need a React developer") {
		t.Fatalf("prompt is missing the job text")
	}
	if !strings.Contains(stub.lastPrompt, "Built React apps in TypeScript") {
		t.Fatalf("prompt is missing the resume text")
	}
	if !strings.Contains(stub.lastPrompt, `"jobSkills"`) {
		t.Fatalf("prompt is missing the output schema instruction")
	}
}

func TestSourceObtainSkillsProseWrappedResponse(t *testing.T) {
	stub := &stubGenerator{
		response: "Sure, here is the JSON:\n```json\n{\"jobSkills\":[\"Go\"],\"resumeSkills\":[\"Go\",\"Docker\"]}\n```\nLet me know!",
	}
	src := NewSource(stub, "job", zap.NewNop())

	got, err := src.ObtainSkills(context.Background(), source.Candidate{ID: "c1", ResumeText: "resume"}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"Go", "Docker"}) {
		t.Fatalf("unexpected skills: %v", got)
	}
}

func TestSourceMalformedResponse(t *testing.T) {
	stub := &stubGenerator{response: "I cannot produce JSON today."}
	src := NewSource(stub, "job", zap.NewNop())

	_, err := src.ObtainSkills(context.Background(), source.Candidate{ID: "c1"}, nil)
	if !errors.Is(err, llmjson.ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}

func TestSourceSchemaError(t *testing.T) {
	stub := &stubGenerator{response: `{"resumeSkills":["Go"]}`}
	src := NewSource(stub, "job", zap.NewNop())

	_, err := src.ObtainSkills(context.Background(), source.Candidate{ID: "c1"}, nil)
	if !errors.Is(err, llmjson.ErrSchema) {
		t.Fatalf("expected ErrSchema, got %v", err)
	}
}

func TestSourceTransportErrorPassthrough(t *testing.T) {
	stub := &stubGenerator{err: source.ErrRateLimited}
	src := NewSource(stub, "job", zap.NewNop())

	_, err := src.ObtainSkills(context.Background(), source.Candidate{ID: "c1"}, nil)
	if !errors.Is(err, source.ErrRateLimited) {
		t.Fatalf("expected ErrRateLimited, got %v", err)
	}
}

func TestSourceIsAuthoritative(t *testing.T) {
	src := NewSource(&stubGenerator{}, "job", zap.NewNop())
	if !src.Authoritative() {
		t.Fatalf("external source must be authoritative")
	}
	if src.Name() != "gemini" {
		t.Fatalf("unexpected name %q", src.Name())
	}
}

func TestSetJobTextReplacesPromptJob(t *testing.T) {
	stub := &stubGenerator{response: `{"jobSkills":["Go"],"resumeSkills":["Go"]}`}
	src := NewSource(stub, "stale job text", zap.NewNop())

	src.SetJobText("fresh job text")

	if _, err := src.ObtainSkills(context.Background(), source.Candidate{ID: "c1", ResumeText: "resume"}, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(stub.lastPrompt, "fresh job text") {
		t.Fatalf("prompt must use the updated job text, got: %s", stub.lastPrompt)
	}
	if strings.Contains(stub.lastPrompt, "stale job text") {
		t.Fatalf("prompt must not keep the replaced job text")
	}
}

func TestExtractPair(t *testing.T) {
	stub := &stubGenerator{response: `{"jobSkills":["React","Node.js"],"resumeSkills":["React"]}`}
	src := NewSource(stub, "original job", zap.NewNop())

	pair, err := src.ExtractPair(context.Background(), "relay job text", "relay resume text")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(pair.JobSkills, []string{"React", "Node.js"}) {
		t.Fatalf("unexpected job skills: %v", pair.JobSkills)
	}
	if !strings.Contains(stub.lastPrompt, "relay job text") {
		t.Fatalf("relay must use the supplied job text, prompt: %s", stub.lastPrompt)
	}
	if strings.Contains(stub.lastPrompt, "original job") {
		t.Fatalf("relay must not leak the configured job text")
	}
}
