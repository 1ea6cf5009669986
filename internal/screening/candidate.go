package screening

import (
	"fmt"
	"time"
)

// Status tracks a candidate through analysis.
//
// Valid status graph:
//
//	uploaded ──► processing ──► analyzed
//	    ▲            │
//	    │            └────────► error
//	    │
//	    └── processing (run abandoned)
//
// A re-analysis run moves analyzed and error candidates back to processing
// and forward again. No other transitions are allowed.
type Status string

const (
	StatusUploaded   Status = "uploaded"
	StatusProcessing Status = "processing"
	StatusAnalyzed   Status = "analyzed"
	StatusError      Status = "error"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[Status][]Status{
	StatusUploaded:   {StatusProcessing},
	StatusProcessing: {StatusAnalyzed, StatusError, StatusUploaded},
	StatusAnalyzed:   {StatusProcessing},
	StatusError:      {StatusProcessing},
}

// CanTransition reports whether moving from → to is permitted.
func CanTransition(from, to Status) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Candidate is one uploaded resume artifact plus its derived analysis state.
//
// Skills, MatchedSkills, MissingSkills and MatchScore are populated only
// once Status reaches analyzed; consumers must not read them before that.
type Candidate struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	FileName   string    `json:"fileName"`
	FileSize   int64     `json:"fileSize"`
	UploadedAt time.Time `json:"uploadedAt"`
	Status     Status    `json:"status"`

	// ResumeText is the extracted document text. Empty when extraction was
	// unavailable; the analyzer then falls back to the mock skill source.
	ResumeText string `json:"-"`

	Skills        []string `json:"skills,omitempty"`
	MatchedSkills []string `json:"matchedSkills,omitempty"`
	MissingSkills []string `json:"missingSkills,omitempty"`
	MatchScore    int      `json:"matchScore,omitempty"`

	// FailureReason is set when Status is error.
	FailureReason string `json:"failureReason,omitempty"`
}

// Transition moves the candidate to the given status, failing on any edge
// the status graph does not allow.
func (c *Candidate) Transition(to Status) error {
	if !CanTransition(c.Status, to) {
		return fmt.Errorf("invalid candidate status transition %s -> %s", c.Status, to)
	}
	c.Status = to
	return nil
}

// ClearAnalysis drops derived analysis fields, used when a candidate
// re-enters processing.
func (c *Candidate) ClearAnalysis() {
	c.Skills = nil
	c.MatchedSkills = nil
	c.MissingSkills = nil
	c.MatchScore = 0
	c.FailureReason = ""
}
