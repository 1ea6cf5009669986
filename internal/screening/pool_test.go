package screening

import (
	"testing"
)

func analyzed(id string, score int) *Candidate {
	return &Candidate{ID: id, Status: StatusAnalyzed, MatchScore: score}
}

func TestRankingDescendingByScore(t *testing.T) {
	pool := NewPool()
	for _, c := range []*Candidate{
		analyzed("a", 40),
		analyzed("b", 90),
		analyzed("c", 70),
	} {
		if err := pool.AddCandidate(c); err != nil {
			t.Fatalf("adding candidate: %v", err)
		}
	}

	ranked := pool.Ranking()

	wantOrder := []string{"b", "c", "a"}
	for i, want := range wantOrder {
		if ranked[i].ID != want {
			t.Fatalf("position %d: expected %s, got %s", i, want, ranked[i].ID)
		}
	}
}

func TestRankingExcludesUnanalyzed(t *testing.T) {
	pool := NewPool()
	pool.AddCandidate(analyzed("a", 50))
	pool.AddCandidate(&Candidate{ID: "b", Status: StatusUploaded})
	pool.AddCandidate(&Candidate{ID: "c", Status: StatusProcessing})
	pool.AddCandidate(&Candidate{ID: "d", Status: StatusError})
	pool.AddCandidate(analyzed("e", 80))

	ranked := pool.Ranking()

	if len(ranked) != 2 {
		t.Fatalf("expected 2 ranked candidates, got %d", len(ranked))
	}
	if ranked[0].ID != "e" || ranked[1].ID != "a" {
		t.Fatalf("unexpected ranking order: %s, %s", ranked[0].ID, ranked[1].ID)
	}
	if pool.Len() != 5 {
		t.Fatalf("ranking must not remove candidates from the pool")
	}
}

func TestRankingStableOnTies(t *testing.T) {
	pool := NewPool()
	pool.AddCandidate(analyzed("first", 75))
	pool.AddCandidate(analyzed("second", 75))
	pool.AddCandidate(analyzed("third", 75))

	ranked := pool.Ranking()

	for i, want := range []string{"first", "second", "third"} {
		if ranked[i].ID != want {
			t.Fatalf("tie broke insertion order at %d: got %s", i, ranked[i].ID)
		}
	}
}

func TestRankingIdempotent(t *testing.T) {
	pool := NewPool()
	pool.AddCandidate(analyzed("a", 30))
	pool.AddCandidate(analyzed("b", 60))
	pool.AddCandidate(analyzed("c", 60))

	first := pool.Ranking()
	second := pool.Ranking()

	if len(first) != len(second) {
		t.Fatalf("ranking changed length between calls")
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("ranking not idempotent at position %d", i)
		}
	}

	// Storage order is untouched.
	candidates := pool.Candidates()
	for i, want := range []string{"a", "b", "c"} {
		if candidates[i].ID != want {
			t.Fatalf("pool order mutated at %d: got %s", i, candidates[i].ID)
		}
	}
}

func TestAddCandidateRejectsDuplicateID(t *testing.T) {
	pool := NewPool()
	if err := pool.AddCandidate(&Candidate{ID: "dup", Status: StatusUploaded}); err != nil {
		t.Fatalf("first add failed: %v", err)
	}
	if err := pool.AddCandidate(&Candidate{ID: "dup", Status: StatusUploaded}); err == nil {
		t.Fatalf("expected duplicate id to be rejected")
	}
}

func TestRemoveCandidatePreservesOrder(t *testing.T) {
	pool := NewPool()
	for _, id := range []string{"a", "b", "c"} {
		pool.AddCandidate(&Candidate{ID: id, Status: StatusUploaded})
	}

	if !pool.RemoveCandidate("b") {
		t.Fatalf("expected removal to succeed")
	}
	if pool.RemoveCandidate("b") {
		t.Fatalf("expected second removal to fail")
	}

	candidates := pool.Candidates()
	if len(candidates) != 2 || candidates[0].ID != "a" || candidates[1].ID != "c" {
		t.Fatalf("unexpected pool after removal: %v", candidates)
	}
}

func TestResetClearsEverything(t *testing.T) {
	pool := NewPool()
	pool.SetJob(&JobRequirement{Title: "Engineer"})
	pool.AddCandidate(&Candidate{ID: "a", Status: StatusUploaded})

	pool.Reset()

	if pool.Job() != nil {
		t.Fatalf("expected job to be cleared")
	}
	if pool.Len() != 0 {
		t.Fatalf("expected candidates to be cleared")
	}
	if err := pool.AddCandidate(&Candidate{ID: "a", Status: StatusUploaded}); err != nil {
		t.Fatalf("pool unusable after reset: %v", err)
	}
}

func TestUpdateCandidateUnknownID(t *testing.T) {
	pool := NewPool()
	err := pool.UpdateCandidate("ghost", func(*Candidate) error { return nil })
	if err == nil {
		t.Fatalf("expected error for unknown candidate")
	}
}
