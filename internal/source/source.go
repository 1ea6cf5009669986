// Package source defines the pluggable skill source: the strategy that
// yields a candidate's skill list. Two implementations exist, the Gemini
// backed external service and a local mock, selected by configuration so
// the rest of the pipeline can run without a live dependency.
package source

import (
	"context"
	"errors"
)

// Transport-level failures from the external skill service. They surface as
// the candidate's error status and are never retried by this layer; an
// explicit re-run is a fresh attempt.
var (
	ErrServiceUnavailable = errors.New("skill service unavailable")
	ErrRateLimited        = errors.New("skill service rate limited")
	ErrTimeout            = errors.New("skill service timed out")
)

// Candidate carries the identity the skill source needs. The external
// strategy sends ResumeText to the model; the mock only uses ID to keep
// per-candidate output stable within a run.
type Candidate struct {
	ID         string
	Name       string
	ResumeText string
}

// SkillSource obtains the ordered skill list for one candidate. The call
// may block on a network round trip or a simulated delay, so it takes a
// context and must honor cancellation.
type SkillSource interface {
	// Name distinguishes strategies in logs and tests.
	Name() string
	// ObtainSkills returns the candidate's skills. jobSkills is advisory
	// context for the external prompt; the mock ignores it.
	ObtainSkills(ctx context.Context, candidate Candidate, jobSkills []string) ([]string, error)
	// Authoritative reports whether scores derived from this source may be
	// presented as-is. The mock is not authoritative and gets score jitter.
	Authoritative() bool
}
