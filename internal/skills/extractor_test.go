package skills

import (
	"reflect"
	"strings"
	"testing"
)

func TestExtractVocabularyOrder(t *testing.T) {
	// Mentions appear in reverse vocabulary order on purpose.
	desc := "We need AWS experience, strong Node.js knowledge and React mastery"

	got := Extract(desc)
	want := []string{"React", "Node.js", "AWS"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExtractScenarioA(t *testing.T) {
	got := Extract("We need a React and Node.js developer with AWS experience")
	want := []string{"React", "Node.js", "AWS"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestExtractFallback(t *testing.T) {
	cases := []struct {
		name string
		desc string
	}{
		{"empty", ""},
		{"whitespace", "   \n\t "},
		{"no vocabulary terms", "looking for someone friendly and punctual"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Extract(tc.desc)
			if !reflect.DeepEqual(got, Fallback) {
				t.Fatalf("expected fallback %v, got %v", Fallback, got)
			}
		})
	}
}

func TestExtractFallbackIsACopy(t *testing.T) {
	got := Extract("")
	got[0] = "mutated"

	if Fallback[0] != "Technical Skills" {
		t.Fatalf("fallback slice was mutated by caller")
	}
}

func TestExtractFrontEndBaseline(t *testing.T) {
	cases := []struct {
		name string
		desc string
		want []string
	}{
		{
			name: "frontend adds baseline",
			desc: "frontend engineer working with React",
			want: []string{"React", "HTML", "CSS"},
		},
		{
			name: "hyphenated synonym",
			desc: "front-end developer position",
			want: []string{"HTML", "CSS"},
		},
		{
			name: "baseline not duplicated",
			desc: "frontend developer with css and html in the stack",
			want: []string{"HTML", "CSS"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Extract(tc.desc)
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
		})
	}
}

func TestExtractNoDuplicates(t *testing.T) {
	desc := strings.Repeat("React react REACT docker Docker ", 3)

	got := Extract(desc)
	seen := make(map[string]bool, len(got))
	for _, s := range got {
		if seen[s] {
			t.Fatalf("duplicate skill %q in %v", s, got)
		}
		seen[s] = true
	}
}
