package screening

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
)

// Pool owns the session state: at most one job requirement and the uploaded
// candidates in insertion order. All access goes through the mutex so the
// analyzer can run candidates on parallel workers without interleaving
// partial updates to a candidate's score fields.
type Pool struct {
	mu         sync.RWMutex
	job        *JobRequirement
	candidates []*Candidate
	byID       map[string]*Candidate
}

func NewPool() *Pool {
	return &Pool{byID: make(map[string]*Candidate)}
}

// SetJob installs the active job requirement.
func (p *Pool) SetJob(job *JobRequirement) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.job = job
}

// Job returns the active job requirement, or nil before first submission.
func (p *Pool) Job() *JobRequirement {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.job
}

// AddCandidate appends a candidate to the pool, preserving insertion order.
func (p *Pool) AddCandidate(c *Candidate) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.byID[c.ID]; ok {
		return fmt.Errorf("candidate %s already in pool", c.ID)
	}

	p.candidates = append(p.candidates, c)
	p.byID[c.ID] = c
	return nil
}

// RemoveCandidate drops a candidate by id, keeping the order of the rest.
func (p *Pool) RemoveCandidate(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.byID[id]; !ok {
		return false
	}
	delete(p.byID, id)

	for i, c := range p.candidates {
		if c.ID == id {
			p.candidates = append(p.candidates[:i], p.candidates[i+1:]...)
			break
		}
	}
	return true
}

// UpdateCandidate applies fn to the candidate with the given id under the
// pool lock. This is the single synchronized write path for analysis
// results, so matched/missing/score fields are never observed half-updated.
func (p *Pool) UpdateCandidate(id string, fn func(*Candidate) error) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	c, ok := p.byID[id]
	if !ok {
		return fmt.Errorf("candidate %s not found", id)
	}
	return fn(c)
}

// Candidates returns a snapshot of the pool in insertion order. The slice
// is fresh on every call; the pointed-to candidates are shared.
func (p *Pool) Candidates() []*Candidate {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]*Candidate(nil), p.candidates...)
}

// Candidate looks a candidate up by id.
func (p *Pool) Candidate(id string) *Candidate {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.byID[id]
}

func (p *Pool) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.candidates)
}

// Ranking returns analyzed candidates ordered by descending match score.
// The sort is stable, so candidates with equal scores keep their relative
// insertion order. Candidates in any other status are excluded but remain
// in the pool. Storage order is never mutated.
func (p *Pool) Ranking() []*Candidate {
	p.mu.RLock()
	defer p.mu.RUnlock()

	ranked := make([]*Candidate, 0, len(p.candidates))
	for _, c := range p.candidates {
		if c.Status == StatusAnalyzed {
			ranked = append(ranked, c)
		}
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchScore > ranked[j].MatchScore
	})

	return ranked
}

// CountByStatus tallies candidates per status.
func (p *Pool) CountByStatus() map[Status]int {
	p.mu.RLock()
	defer p.mu.RUnlock()

	counts := make(map[Status]int, 4)
	for _, c := range p.candidates {
		counts[c.Status]++
	}
	return counts
}

// Reset clears the job and all candidates.
func (p *Pool) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.job = nil
	p.candidates = nil
	p.byID = make(map[string]*Candidate)
}

// DumpRankingToTmpFile writes the current ranking to a temp JSON file and
// returns its name.
func (p *Pool) DumpRankingToTmpFile() (string, error) {
	ranked := p.Ranking()

	file, err := os.CreateTemp("", "ranking_*.json")
	if err != nil {
		return "", err
	}
	defer file.Close()

	enc := json.NewEncoder(file)
	enc.SetIndent("", "  ")
	if err := enc.Encode(ranked); err != nil {
		return "", err
	}
	return file.Name(), nil
}
