// Package screening holds the session state of one screening run: the job
// requirement, the uploaded candidates with their analysis status, and the
// ranked view derived from them. Everything is in-memory and cleared on
// reset; nothing survives a process restart.
package screening

import (
	"errors"
	"strings"

	"github.com/screenrank/screenrank/internal/skills"
)

// MinDescriptionLen is the minimum effective job description length
// enforced at submission.
const MinDescriptionLen = 50

// ErrValidation covers caller mistakes rejected before anything reaches the
// scoring pipeline.
var ErrValidation = errors.New("validation failed")

// JobRequirement is the hiring criteria entered for one screening session.
// Skills is derived from Description, never authoritative: it is recomputed
// on every submission and re-extraction.
type JobRequirement struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Experience  string   `json:"experience,omitempty"`
	Location    string   `json:"location,omitempty"`
	Skills      []string `json:"skills"`
}

// NewJobRequirement validates the submission and derives the job's skill
// list from the description.
func NewJobRequirement(title, description, experience, location string) (*JobRequirement, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errors.Join(ErrValidation, errors.New("job title is required"))
	}

	if len(strings.TrimSpace(description)) < MinDescriptionLen {
		return nil, errors.Join(ErrValidation, errors.New("job description is too short"))
	}

	return &JobRequirement{
		Title:       title,
		Description: description,
		Experience:  strings.TrimSpace(experience),
		Location:    strings.TrimSpace(location),
		Skills:      skills.Extract(description),
	}, nil
}

// Reextract recomputes the derived skill list from the current description.
func (j *JobRequirement) Reextract() {
	j.Skills = skills.Extract(j.Description)
}
