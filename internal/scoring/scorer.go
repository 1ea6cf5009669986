// Package scoring computes how well a candidate's skill set satisfies a
// job's skill list.
package scoring

import (
	"math"
	"math/rand"
	"strings"
)

// MissingCap bounds how many missing skills are reported per candidate.
const MissingCap = 4

// Jitter bounds used by demo scoring. The floor and ceiling keep mock runs
// from ever showing a 0% or 100% match.
const (
	jitterSpread = 10
	jitterFloor  = 20
	jitterCeil   = 98
)

// Result is the outcome of scoring one candidate against one job.
type Result struct {
	Matched []string `json:"matchedSkills"`
	Missing []string `json:"missingSkills"`
	Percent int      `json:"matchScore"`
}

// Equivalent reports whether two skill names refer to the same skill.
// Containment is symmetric and case-insensitive, so "React" and "React.js"
// match in either direction. Exact equality is not required.
func Equivalent(a, b string) bool {
	la, lb := strings.ToLower(a), strings.ToLower(b)
	return strings.Contains(la, lb) || strings.Contains(lb, la)
}

// Score compares candidate skills against job skills.
//
// Matched holds candidate-side names in candidate order; Missing holds job
// skills with no equivalent candidate skill, in job order, capped at
// MissingCap. Percent is round(100*|matched|/|jobSkills|) with the
// denominator floored at 1 so an empty job list never divides by zero.
func Score(candidateSkills, jobSkills []string) Result {
	matched := make([]string, 0, len(candidateSkills))
	for _, cs := range candidateSkills {
		for _, js := range jobSkills {
			if Equivalent(cs, js) {
				matched = append(matched, cs)
				break
			}
		}
	}

	missing := make([]string, 0, MissingCap)
	for _, js := range jobSkills {
		if len(missing) == MissingCap {
			break
		}
		satisfied := false
		for _, m := range matched {
			if Equivalent(m, js) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			missing = append(missing, js)
		}
	}

	denom := len(jobSkills)
	if denom < 1 {
		denom = 1
	}
	percent := int(math.Round(100 * float64(len(matched)) / float64(denom)))

	return Result{
		Matched: matched,
		Missing: missing,
		Percent: clamp(percent, 0, 100),
	}
}

// Jitter applies the demo-mode score fuzzing: an additive offset in
// [-10, +9] followed by clamping to [20, 98]. Only the mock skill source
// path uses it; scores derived from real extractions are left untouched.
func Jitter(percent int, rng *rand.Rand) int {
	offset := rng.Intn(2*jitterSpread) - jitterSpread
	return clamp(percent+offset, jitterFloor, jitterCeil)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
