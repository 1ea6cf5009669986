package gemini

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/screenrank/screenrank/internal/llmjson"
	"github.com/screenrank/screenrank/internal/logger"
	"github.com/screenrank/screenrank/internal/source"
)

//go:embed prompt.md
var promptTemplate string

const (
	defaultTimeout      = 30 * time.Second
	defaultMaxLogLength = 200
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// SkillPair is the two-key payload the model is instructed to return.
type SkillPair struct {
	JobSkills    []string `mapstructure:"jobSkills" json:"jobSkills"`
	ResumeSkills []string `mapstructure:"resumeSkills" json:"resumeSkills"`
}

// Source is the external skill source strategy. It sends job and resume
// text to Gemini with a fixed instruction prompt and parses the strict
// two-field JSON reply. Scores derived from it are presented unmodified.
type Source struct {
	generator contentGenerator
	timeout   time.Duration
	logger    *zap.Logger
	maxLogLen int

	mu      sync.RWMutex
	jobText string
}

// NewSource builds the external source for one job's free text.
func NewSource(generator contentGenerator, jobText string, log *zap.Logger) *Source {
	if log == nil {
		log = zap.NewNop()
	}
	return &Source{
		generator: generator,
		jobText:   jobText,
		timeout:   defaultTimeout,
		logger:    log,
		maxLogLen: defaultMaxLogLength,
	}
}

func (s *Source) Name() string { return "gemini" }

func (s *Source) Authoritative() bool { return true }

// SetJobText swaps the job description used for subsequent extractions.
// Served sessions call this whenever a new job is submitted.
func (s *Source) SetJobText(text string) {
	s.mu.Lock()
	s.jobText = text
	s.mu.Unlock()
}

func (s *Source) currentJobText() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.jobText
}

// ObtainSkills extracts the candidate's skills from their resume text.
func (s *Source) ObtainSkills(ctx context.Context, candidate source.Candidate, _ []string) ([]string, error) {
	pair, err := s.extract(ctx, s.currentJobText(), candidate.ResumeText, candidate.ID)
	if err != nil {
		return nil, err
	}
	return pair.ResumeSkills, nil
}

// ExtractPair runs one stateless extraction of both skill lists, used by
// the relay endpoint.
func (s *Source) ExtractPair(ctx context.Context, jobText, resumeText string) (*SkillPair, error) {
	return s.extract(ctx, jobText, resumeText, "")
}

func (s *Source) extract(ctx context.Context, jobText, resumeText, candidateID string) (*SkillPair, error) {
	prompt := buildPrompt(jobText, resumeText)

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	s.logger.Debug("gemini skill extraction request",
		zap.String("candidate_id", candidateID),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, s.maxLogLen)),
	)

	start := time.Now()
	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("gemini skill extraction response",
		zap.String("candidate_id", candidateID),
		zap.Duration("duration", time.Since(start)),
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, s.maxLogLen)),
	)

	var pair SkillPair
	if err := llmjson.Decode(raw, &pair, "jobSkills", "resumeSkills"); err != nil {
		return nil, err
	}

	return &pair, nil
}

func buildPrompt(jobText, resumeText string) string {
	template := promptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Job:\n{{JOB_TEXT}}\n\nResume:\n{{RESUME_TEXT}}\n\nJSON Response:"
	}
	prompt := strings.ReplaceAll(template, "{{JOB_TEXT}}", jobText)
	prompt = strings.ReplaceAll(prompt, "{{RESUME_TEXT}}", resumeText)
	return prompt
}
