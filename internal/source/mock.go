package source

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/screenrank/screenrank/internal/skills"
)

// Sample bounds for the mock: 5 to 12 skills per candidate.
const (
	mockMinSkills = 5
	mockMaxSkills = 12
)

// Default simulated service delay: 1.5s plus up to 1s of noise.
const (
	mockBaseDelay  = 1500 * time.Millisecond
	mockDelayNoise = 1000 * time.Millisecond
)

// Mock samples a pseudo-random subset of the skill vocabulary per
// candidate, independent of resume content. It stands in for the external
// service when none is configured and keeps demos and tests runnable
// offline. Scores produced from it are explicitly non-authoritative.
type Mock struct {
	mu    sync.Mutex
	rng   *rand.Rand
	delay func(ctx context.Context) error
}

// NewMock creates a mock source seeded from the current time.
func NewMock() *Mock {
	return NewSeededMock(time.Now().UnixNano())
}

// NewSeededMock creates a mock with a fixed seed and no simulated delay,
// for deterministic tests.
func NewSeededMock(seed int64) *Mock {
	return &Mock{
		rng:   rand.New(rand.NewSource(seed)),
		delay: func(context.Context) error { return nil },
	}
}

// WithSimulatedDelay makes each ObtainSkills call pause like a network
// round trip would, honoring context cancellation.
func (m *Mock) WithSimulatedDelay() *Mock {
	m.delay = func(ctx context.Context) error {
		m.mu.Lock()
		noise := time.Duration(m.rng.Int63n(int64(mockDelayNoise)))
		m.mu.Unlock()
		return waitFor(ctx, mockBaseDelay+noise)
	}
	return m
}

func (m *Mock) Name() string { return "mock" }

func (m *Mock) Authoritative() bool { return false }

// ObtainSkills returns 5-12 vocabulary entries sampled without
// replacement. Sampling order is preserved in the result.
func (m *Mock) ObtainSkills(ctx context.Context, _ Candidate, _ []string) ([]string, error) {
	if err := m.delay(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	n := mockMinSkills + m.rng.Intn(mockMaxSkills-mockMinSkills+1)
	picks := m.rng.Perm(len(skills.Vocabulary))[:n]

	sampled := make([]string, 0, n)
	for _, idx := range picks {
		sampled = append(sampled, skills.Vocabulary[idx])
	}
	return sampled, nil
}

func waitFor(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
