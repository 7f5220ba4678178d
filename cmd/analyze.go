package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/ai/gemini"
	"github.com/spigell/resume-analyzer/internal/analyzer"
	"github.com/spigell/resume-analyzer/internal/batch"
	"github.com/spigell/resume-analyzer/internal/document"
	"github.com/spigell/resume-analyzer/internal/lexicon"
	"github.com/spigell/resume-analyzer/internal/logger"
	"github.com/spigell/resume-analyzer/internal/schemas"
	"github.com/spigell/resume-analyzer/internal/secrets"
)

const (
	sourceText  = "text"
	sourceStdin = "stdin"

	// PromptNoPosition skips position specific recommendations.
	PromptNoPosition = "No specific position"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [file...]",
	Short: "Analyze resumes given as text, files or stdin and print the result as JSON",
	Long: "Analyze resumes given as text, files or stdin and print the result as JSON.\n\n" +
		"Accepted file types: " + strings.Join(document.Extensions(), ", ") + ".",
	Run: func(cmd *cobra.Command, args []string) {
		analyze(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	analyzeCmd.Flags().String("text", "", "resume text to analyze instead of files or stdin")
	analyzeCmd.Flags().StringP("position", "p", "", "target job position, for example software-engineer")
	analyzeCmd.Flags().Bool("select-position", false, "choose the target position interactively")
	analyzeCmd.Flags().Bool("review", false, "add an AI review of the resume (requires a Gemini api key)")
	analyzeCmd.Flags().Int("workers", 0, "concurrent analyses when several files are given. Default is the number of CPUs.")

	viper.BindPFlag("batch.workers", analyzeCmd.Flags().Lookup("workers"))
}

// reviewedResult is the single resume output with an optional AI review.
type reviewedResult struct {
	*analyzer.Result
	Review *ai.Review `json:"review,omitempty"`
}

func analyze(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	log, config := setup()
	engine := newEngine(config, log)

	position, _ := cmd.Flags().GetString("position")
	if selectPosition, _ := cmd.Flags().GetBool("select-position"); selectPosition {
		selected, err := promptPosition(engine.Positions())
		if err != nil {
			log.Fatal("selecting a position", zap.Error(err))
		}
		position = selected
	}

	text, _ := cmd.Flags().GetString("text")
	jobs, err := collectJobs(text, args, os.Stdin, config.Server.MaxUploadBytes, position)
	if err != nil {
		log.Fatal("reading input", zap.Error(err))
	}

	review, _ := cmd.Flags().GetBool("review")

	if len(jobs) == 1 {
		out, err := analyzeOne(ctx, engine, jobs[0], review, config.AI, log)
		if err != nil {
			log.Fatal("analyzing resume",
				append(logger.RequestFields("", jobs[0].Source, position), zap.Error(err))...)
		}
		printJSON(out, log)
		return
	}

	if review {
		log.Warn("ignoring --review", zap.String("reason", "review is available for a single resume only"))
	}

	outcomes, err := batch.Run(ctx, engine, jobs, config.Batch.Workers, log.Named("batch"))
	if err != nil {
		log.Fatal("batch analysis interrupted", zap.Error(err))
	}

	for _, o := range outcomes {
		if o.Result == nil {
			continue
		}
		if err := schemas.ValidateResult(o.Result); err != nil {
			log.Fatal("result does not match schema", zap.String("source", o.Source), zap.Error(err))
		}
	}

	printJSON(outcomes, log)

	if failed := batch.Failed(outcomes); failed > 0 {
		log.Fatal("some resumes could not be analyzed", zap.Int("failed", failed), zap.Int("total", len(outcomes)))
	}
}

func analyzeOne(ctx context.Context, engine *analyzer.Context, job batch.Job, review bool, cfg *AIConfig, log *zap.Logger) (*reviewedResult, error) {
	result, err := engine.Analyze(job.Text, job.Position)
	if err != nil {
		if errors.Is(err, analyzer.ErrInvalidInput) {
			log.Warn("input rejected", zap.String("hint", "pass at least a few words of resume text"))
		}
		return nil, err
	}

	if err := schemas.ValidateResult(result); err != nil {
		return nil, fmt.Errorf("result does not match schema: %w", err)
	}

	out := &reviewedResult{Result: result}
	if !review {
		return out, nil
	}

	reviewer, err := newReviewer(ctx, cfg, log)
	if err != nil {
		return nil, fmt.Errorf("building ai reviewer: %w", err)
	}

	out.Review, err = reviewer.Review(ctx, job.Text, job.Position, result)
	if err != nil {
		return nil, fmt.Errorf("ai review: %w", err)
	}

	return out, nil
}

// collectJobs turns the command input into analysis jobs. Text wins over
// files, and stdin is read only when neither is given.
func collectJobs(text string, files []string, stdin io.Reader, limit int64, position string) ([]batch.Job, error) {
	if strings.TrimSpace(text) != "" {
		if len(files) > 0 {
			return nil, errors.New("--text and file arguments are mutually exclusive")
		}
		return []batch.Job{{Source: sourceText, Text: text, Position: position}}, nil
	}

	if len(files) == 0 {
		data, err := document.ReadAll(stdin, limit)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return []batch.Job{{Source: sourceStdin, Text: string(data), Position: position}}, nil
	}

	jobs := make([]batch.Job, 0, len(files))
	for _, path := range files {
		text, err := readDocument(path, limit)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, batch.Job{Source: path, Text: text, Position: position})
	}

	return jobs, nil
}

func readDocument(path string, limit int64) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	data, err := document.ReadAll(f, limit)
	if err != nil {
		return "", fmt.Errorf("reading %q: %w", path, err)
	}

	text, err := document.ExtractText(filepath.Base(path), data)
	if err != nil {
		return "", fmt.Errorf("extracting text from %q: %w", path, err)
	}

	return text, nil
}

func promptPosition(positions []lexicon.Position) (string, error) {
	items, ids := positionItems(positions)

	prompt := promptui.Select{
		Label: "Choose the target position",
		Items: items,
		Size:  10,
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return "", err
	}

	return ids[idx], nil
}

// positionItems returns the picker labels and the matching position ids. The
// first item means no position.
func positionItems(positions []lexicon.Position) ([]string, []string) {
	items := []string{PromptNoPosition}
	ids := []string{""}
	for _, p := range positions {
		items = append(items, fmt.Sprintf("%s (%s)", p.Title, p.ID))
		ids = append(ids, p.ID)
	}
	return items, ids
}

func newReviewer(ctx context.Context, cfg *AIConfig, log *zap.Logger) (ai.Reviewer, error) {
	if cfg == nil {
		cfg = &AIConfig{}
	}
	if cfg.Gemini == nil {
		cfg.Gemini = &GeminiConfig{}
	}

	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name:  "gemini api key",
		Value: cfg.Gemini.APIKey,
		File:  cfg.Gemini.APIKeyFile,
		Env:   "GEMINI_API_KEY",
	})
	if err != nil {
		return nil, fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, err
	}

	reviewLogger := logger.WithCommonFields(log, "gemini", generator.Model())

	return gemini.NewReviewer(generator, reviewLogger, cfg.Gemini.MaxLogLength), nil
}

func printJSON(v any, log *zap.Logger) {
	pretty, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		log.Fatal("encoding output", zap.Error(err))
	}
	fmt.Println(string(pretty))
}
