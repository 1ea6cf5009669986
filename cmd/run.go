package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/screenrank/screenrank/internal/analyzer"
	"github.com/screenrank/screenrank/internal/intake"
	"github.com/screenrank/screenrank/internal/logger"
	"github.com/screenrank/screenrank/internal/screening"
	"github.com/screenrank/screenrank/internal/secrets"
	"github.com/screenrank/screenrank/internal/source"
	"github.com/screenrank/screenrank/internal/source/gemini"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptShowRanking     = "Show ranking"
	PromptReportByStatus  = "Report by status"
	PromptRankingToFile   = "Dump ranking to file"
	PromptReanalyzeFailed = "Re-analyze failed candidates"
	PromptReanalyzeAll    = "Re-analyze everything"
	PromptExit            = "Exit"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "What next?",
	Items: []string{PromptShowRanking, PromptReportByStatus, PromptRankingToFile, PromptReanalyzeFailed, PromptReanalyzeAll, PromptExit},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Screen a directory of resumes against the configured job and rank them",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-exit", "y", false, "print the ranking and exit instead of entering the prompt loop")
	runCmd.Flags().StringP("resumes", "r", "", "directory with resume files to screen. Overrides the config value.")

	viper.BindPFlag("resumes", runCmd.Flags().Lookup("resumes"))
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the screenrank", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	job, err := buildJob(config.Job)
	if err != nil {
		logger.Fatal("building the job requirement", zap.Error(err))
	}

	resumesDir := viper.GetString("resumes")
	if resumesDir == "" {
		logger.Fatal("resumes directory is required",
			zap.String("hint", "set the 'resumes' key in the configuration file or pass --resumes"),
		)
	}

	pool := screening.NewPool()
	pool.SetJob(job)

	logger.Info("job accepted",
		zap.String("title", job.Title),
		zap.Strings("required_skills", job.Skills),
	)

	added, err := intakeResumes(resumesDir, pool, logger)
	if err != nil {
		logger.Fatal("collecting resumes", zap.Error(err))
	}

	if added == 0 {
		logger.Info("exiting", zap.String("reason", "no candidates found in resumes directory"))
		return
	}

	src, err := buildSource(ctx, config.AI, job, logger)
	if err != nil {
		logger.Fatal("building the skill source", zap.Error(err))
	}

	workers := 1
	if config.Analysis != nil {
		workers = config.Analysis.Workers
	}

	runner := analyzer.New(pool, src, logger, analyzer.WithWorkers(workers))

	if err := analyze(ctx, runner, logger, false); err != nil {
		logger.Fatal("analysis failed", zap.Error(err))
	}

	if cmd.Flag("auto-exit").Value.String() == "true" {
		printRanking(pool)
		return
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			logger.Fatal("exiting", zap.Error(err))
		}

		if err := handleAction(ctx, action, runner, pool, logger); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(ctx context.Context, action string, runner *analyzer.Runner, pool *screening.Pool, logger *zap.Logger) error {
	switch action {
	case PromptShowRanking:
		printRanking(pool)
		return nil
	case PromptReportByStatus:
		pretty, _ := json.MarshalIndent(pool.CountByStatus(), "", "  ")
		fmt.Printf("candidates by status: \n%s\n", pretty)
		return nil
	case PromptRankingToFile:
		path, err := pool.DumpRankingToTmpFile()
		if err != nil {
			return err
		}
		logger.Info("ranking dumped", zap.String("file", path))
		return nil
	case PromptReanalyzeFailed:
		return analyze(ctx, runner, logger, false)
	case PromptReanalyzeAll:
		return analyze(ctx, runner, logger, true)
	case PromptExit:
		logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("unknown action: %s", action)
	}
}

// analyze drains a full analysis run, logging per-candidate outcomes.
func analyze(ctx context.Context, runner *analyzer.Runner, logger *zap.Logger, reanalyzeAll bool) error {
	updates, err := runner.Run(ctx, reanalyzeAll)
	if err != nil {
		return err
	}

	analyzed, failed := 0, 0
	for update := range updates {
		switch update.Status {
		case screening.StatusAnalyzed:
			analyzed++
		case screening.StatusError:
			failed++
			logger.Warn("candidate analysis failed",
				zap.String("candidate_id", update.CandidateID),
				zap.Error(update.Err),
			)
		}
	}

	logger.Info("analysis finished", zap.Int("analyzed", analyzed), zap.Int("failed", failed))
	return nil
}

func printRanking(pool *screening.Pool) {
	ranking := pool.Ranking()
	if len(ranking) == 0 {
		fmt.Println("no analyzed candidates yet")
		return
	}

	for i, c := range ranking {
		fmt.Printf("%2d. %s (%d%%) matched: %s\n", i+1, c.Name, c.MatchScore, strings.Join(c.MatchedSkills, ", "))
	}
}

// buildJob resolves the job description, which can be given inline or as a
// path to a text file.
func buildJob(cfg *JobConfig) (*screening.JobRequirement, error) {
	if cfg == nil {
		return nil, fmt.Errorf("job section is required in the configuration file")
	}

	description := cfg.Description
	if cfg.DescriptionFile != "" {
		content, err := os.ReadFile(cfg.DescriptionFile)
		if err != nil {
			return nil, fmt.Errorf("reading job description file: %w", err)
		}
		description = string(content)
	}

	return screening.NewJobRequirement(cfg.Title, description, cfg.Experience, cfg.Location)
}

// intakeResumes walks the top level of dir and admits every supported file
// into the pool. Unsupported or oversized files are logged and skipped.
func intakeResumes(dir string, pool *screening.Pool, logger *zap.Logger) (int, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("reading resumes directory: %w", err)
	}

	added := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		path := filepath.Join(dir, entry.Name())
		raw, err := os.ReadFile(path)
		if err != nil {
			return added, fmt.Errorf("reading %s: %w", path, err)
		}

		candidate, err := intake.Intake(entry.Name(), int64(len(raw)), raw)
		if err != nil {
			logger.Warn("skipping file", zap.String("file", entry.Name()), zap.Error(err))
			continue
		}

		if err := pool.AddCandidate(candidate); err != nil {
			return added, err
		}

		logger.Info("candidate uploaded",
			zap.String("candidate_id", candidate.ID),
			zap.String("name", candidate.Name),
			zap.Int64("size", candidate.FileSize),
		)
		added++
	}

	return added, nil
}

// buildSource picks the gemini source when AI is enabled and falls back to
// the simulated one otherwise.
func buildSource(ctx context.Context, cfg *AIConfig, job *screening.JobRequirement, logger *zap.Logger) (source.SkillSource, error) {
	if cfg == nil || !cfg.Enabled {
		logger.Info("ai is disabled, using the simulated skill source")
		return source.NewMock().WithSimulatedDelay(), nil
	}

	if cfg.Gemini == nil {
		return nil, fmt.Errorf("gemini configuration is required when ai is enabled")
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		Env:   "GEMINI_API_KEY",
		File:  cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model, cfg.Gemini.RequestsPerMinute)
	if err != nil {
		return nil, err
	}

	srcLogger := logger.With(
		zap.String("provider", "gemini"),
		zap.String("model", generator.Model()),
	)

	return gemini.NewSource(generator, job.Description, srcLogger), nil
}
