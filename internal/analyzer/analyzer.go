// Package analyzer drives candidate analysis: it walks the pool, obtains
// each candidate's skills from the configured source, scores them against
// the job and records the result, emitting a status update per transition.
package analyzer

import (
	"context"
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/screenrank/screenrank/internal/scoring"
	"github.com/screenrank/screenrank/internal/screening"
	"github.com/screenrank/screenrank/internal/source"
)

const maxWorkers = 8

// Update is one observable per-candidate status change during a run.
type Update struct {
	CandidateID string
	Status      screening.Status
	Err         error
}

// Runner executes analysis runs over a pool. Candidates are processed
// sequentially by default; a worker count above one enables bounded
// parallelism. The final ranking does not depend on completion order.
type Runner struct {
	pool     *screening.Pool
	primary  source.SkillSource
	fallback source.SkillSource
	logger   *zap.Logger
	workers  int

	jitterMu sync.Mutex
	jitter   *rand.Rand
}

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers sets the number of parallel workers, clamped to [1, 8].
func WithWorkers(n int) Option {
	return func(r *Runner) {
		if n < 1 {
			n = 1
		}
		if n > maxWorkers {
			n = maxWorkers
		}
		r.workers = n
	}
}

// WithJitterSeed fixes the demo-score jitter sequence, for tests.
func WithJitterSeed(seed int64) Option {
	return func(r *Runner) {
		r.jitter = rand.New(rand.NewSource(seed))
	}
}

// New creates a Runner. primary is the configured skill source; when it is
// authoritative and a candidate has no extracted resume text, the run
// falls back to the mock source for that candidate.
func New(pool *screening.Pool, primary source.SkillSource, log *zap.Logger, opts ...Option) *Runner {
	if log == nil {
		log = zap.NewNop()
	}

	r := &Runner{
		pool:     pool,
		primary:  primary,
		fallback: source.NewMock(),
		logger:   log,
		workers:  1,
		jitter:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run starts an analysis pass and returns a stream of per-candidate status
// updates. The channel closes once every eligible candidate reached
// analyzed or error, or the run was abandoned via ctx.
//
// With reanalyzeAll false, only uploaded and error candidates are
// processed; analyzed ones keep their results. With reanalyzeAll true,
// analyzed candidates are re-run as well.
//
// Per-candidate failures are isolated: a failing skill source call marks
// that candidate as error and the run continues. Cancellation reverts any
// candidate still in processing back to uploaded.
func (r *Runner) Run(ctx context.Context, reanalyzeAll bool) (<-chan Update, error) {
	job := r.pool.Job()
	if job == nil {
		return nil, errors.New("no job requirement submitted")
	}

	eligible := make([]string, 0, r.pool.Len())
	for _, c := range r.pool.Candidates() {
		switch c.Status {
		case screening.StatusUploaded, screening.StatusError:
			eligible = append(eligible, c.ID)
		case screening.StatusAnalyzed:
			if reanalyzeAll {
				eligible = append(eligible, c.ID)
			}
		}
	}

	updates := make(chan Update, len(eligible)*3)

	ids := make(chan string)
	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range ids {
				r.analyzeOne(ctx, id, job.Skills, updates)
			}
		}()
	}

	go func() {
		defer close(updates)
		for _, id := range eligible {
			select {
			case ids <- id:
			case <-ctx.Done():
				close(ids)
				wg.Wait()
				return
			}
		}
		close(ids)
		wg.Wait()

		r.logger.Info("analysis run finished",
			zap.Int("candidates", len(eligible)),
			zap.Any("by_status", r.pool.CountByStatus()),
		)
	}()

	return updates, nil
}

func (r *Runner) analyzeOne(ctx context.Context, id string, jobSkills []string, updates chan<- Update) {
	if err := r.transition(id, screening.StatusProcessing, updates); err != nil {
		r.logger.Warn("skipping candidate", zap.String("candidate_id", id), zap.Error(err))
		return
	}

	src := r.sourceFor(id)

	candidate := r.pool.Candidate(id)
	if candidate == nil {
		// Removed concurrently after the transition.
		return
	}
	skillList, err := src.ObtainSkills(ctx, source.Candidate{
		ID:         candidate.ID,
		Name:       candidate.Name,
		ResumeText: candidate.ResumeText,
	}, jobSkills)

	if err != nil {
		if ctx.Err() != nil {
			// Abandoned mid-flight: revert instead of recording a failure.
			r.revert(id, updates)
			return
		}

		r.logger.Warn("skill source failed",
			zap.String("candidate_id", id),
			zap.String("source", src.Name()),
			zap.Error(err),
		)

		fail := r.pool.UpdateCandidate(id, func(c *screening.Candidate) error {
			c.FailureReason = err.Error()
			return c.Transition(screening.StatusError)
		})
		if fail == nil {
			updates <- Update{CandidateID: id, Status: screening.StatusError, Err: err}
		}
		return
	}

	result := scoring.Score(skillList, jobSkills)
	percent := result.Percent
	if !src.Authoritative() {
		r.jitterMu.Lock()
		percent = scoring.Jitter(percent, r.jitter)
		r.jitterMu.Unlock()
	}

	storeErr := r.pool.UpdateCandidate(id, func(c *screening.Candidate) error {
		c.Skills = skillList
		c.MatchedSkills = result.Matched
		c.MissingSkills = result.Missing
		c.MatchScore = percent
		return c.Transition(screening.StatusAnalyzed)
	})
	if storeErr != nil {
		r.logger.Warn("storing analysis failed", zap.String("candidate_id", id), zap.Error(storeErr))
		return
	}

	r.logger.Info("candidate analyzed",
		zap.String("candidate_id", id),
		zap.String("source", src.Name()),
		zap.Int("match_score", percent),
		zap.Int("matched", len(result.Matched)),
		zap.Int("missing", len(result.Missing)),
	)

	updates <- Update{CandidateID: id, Status: screening.StatusAnalyzed}
}

// sourceFor picks the skill source for one candidate. An authoritative
// primary needs resume text to work with; without it the mock stands in.
func (r *Runner) sourceFor(id string) source.SkillSource {
	c := r.pool.Candidate(id)
	if c == nil {
		return r.fallback
	}
	if r.primary.Authoritative() && c.ResumeText == "" {
		r.logger.Debug("no resume text extracted, using mock source",
			zap.String("candidate_id", id),
		)
		return r.fallback
	}
	return r.primary
}

func (r *Runner) transition(id string, to screening.Status, updates chan<- Update) error {
	err := r.pool.UpdateCandidate(id, func(c *screening.Candidate) error {
		if to == screening.StatusProcessing {
			c.ClearAnalysis()
		}
		return c.Transition(to)
	})
	if err != nil {
		return err
	}
	updates <- Update{CandidateID: id, Status: to}
	return nil
}

func (r *Runner) revert(id string, updates chan<- Update) {
	reverted := false
	err := r.pool.UpdateCandidate(id, func(c *screening.Candidate) error {
		if c.Status != screening.StatusProcessing {
			return nil
		}
		if err := c.Transition(screening.StatusUploaded); err != nil {
			return err
		}
		reverted = true
		return nil
	})
	if err == nil && reverted {
		updates <- Update{CandidateID: id, Status: screening.StatusUploaded}
	}
}
