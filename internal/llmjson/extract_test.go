package llmjson

import (
	"errors"
	"reflect"
	"testing"
)

type skillPayload struct {
	JobSkills    []string `mapstructure:"jobSkills"`
	ResumeSkills []string `mapstructure:"resumeSkills"`
}

func TestExtractObject(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want string
	}{
		{
			name: "bare object",
			raw:  `{"a":1}`,
			want: `{"a":1}`,
		},
		{
			name: "surrounded by prose",
			raw:  "Sure! Here is the JSON you asked for:\n{\"a\":1}\nHope it helps.",
			want: `{"a":1}`,
		},
		{
			name: "markdown fenced",
			raw:  "```json\n{\"a\":1}\n```",
			want: `{"a":1}`,
		},
		{
			name: "nested braces",
			raw:  `prefix {"a":{"b":2}} suffix`,
			want: `{"a":{"b":2}}`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ExtractObject(tc.raw)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Fatalf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestExtractObjectMalformed(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"no braces", "the model refused to answer"},
		{"only opening", "{ no closing"},
		{"only closing", "no opening }"},
		{"reversed", "} backwards {"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ExtractObject(tc.raw)
			if !errors.Is(err, ErrMalformedResponse) {
				t.Fatalf("expected ErrMalformedResponse, got %v", err)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	raw := "Here you go:\n```json\n{\"jobSkills\":[\"React\",\"AWS\"],\"resumeSkills\":[\"React\"]}\n```"

	var payload skillPayload
	if err := Decode(raw, &payload, "jobSkills", "resumeSkills"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(payload.JobSkills, []string{"React", "AWS"}) {
		t.Fatalf("unexpected job skills: %v", payload.JobSkills)
	}
	if !reflect.DeepEqual(payload.ResumeSkills, []string{"React"}) {
		t.Fatalf("unexpected resume skills: %v", payload.ResumeSkills)
	}
}

func TestDecodeInvalidJSON(t *testing.T) {
	var payload skillPayload
	err := Decode(`{"jobSkills": [unquoted]}`, &payload, "jobSkills")

	if !errors.Is(err, ErrParse) {
		t.Fatalf("expected ErrParse, got %v", err)
	}
}

func TestDecodeMissingField(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"absent key", `{"jobSkills":["React"]}`},
		{"null value", `{"jobSkills":["React"],"resumeSkills":null}`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var payload skillPayload
			err := Decode(tc.raw, &payload, "jobSkills", "resumeSkills")
			if !errors.Is(err, ErrSchema) {
				t.Fatalf("expected ErrSchema, got %v", err)
			}
		})
	}
}

func TestDecodeNeverSilentlyEmpty(t *testing.T) {
	var payload skillPayload
	err := Decode("no json here at all", &payload, "jobSkills")

	if err == nil {
		t.Fatalf("expected an error, got silently empty payload %+v", payload)
	}
	if !errors.Is(err, ErrMalformedResponse) {
		t.Fatalf("expected ErrMalformedResponse, got %v", err)
	}
}
