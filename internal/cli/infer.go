package cli

import (
	"cmp"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alnah/go-genderize/internal/batch"
	"github.com/alnah/go-genderize/internal/config"
	"github.com/alnah/go-genderize/internal/infer"
	"github.com/alnah/go-genderize/internal/table"
)

// inferOptions carries the raw flag values of the infer command.
// Empty strings and an unset batch size fall back to config.
type inferOptions struct {
	nameColumn      string
	output          string
	removeLastToken bool
	dropConfidence  bool
	batchSize       int
	batchSizeSet    bool
	provider        string
	model           string
	baseURL         string
	logLevel        string
}

// InferCmd creates the infer command.
// The env parameter provides injectable dependencies for testing.
func InferCmd(env *Env) *cobra.Command {
	var opts inferOptions

	cmd := &cobra.Command{
		Use:   "infer <in-file>",
		Short: "Add a predicted gender column to a table",
		Long: `Read a csv, tsv or jsonl table, classify the names in one column,
and write the table back with "gender" and "gender_confidence" columns appended.

Names are sent to the classifier in batches, one request per batch, in order.
Any classifier error aborts the run and nothing is written.

Providers:
  huggingface   Hosted text-classification model (token: HF_TOKEN, optional)
  openai        Chat model prompted for JSON labels (key: OPENAI_API_KEY)

The output format follows the output file extension.`,
		Example: `  genderize infer people.csv -n name
  genderize infer people.csv -n full_name -r -o annotated.jsonl
  genderize infer people.tsv -n name -d -b 64 --provider openai`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.batchSizeSet = cmd.Flags().Changed("batch-size")
			return runInfer(cmd, env, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.nameColumn, "name-column", "n", "", "Column holding the names to classify")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Output file path (default: overwrite the input)")
	cmd.Flags().BoolVarP(&opts.removeLastToken, "remove-last-name", "r", false, "Drop the last word of each name before classifying")
	cmd.Flags().BoolVarP(&opts.dropConfidence, "drop-confidence", "d", false, "Omit the gender_confidence column")
	cmd.Flags().IntVarP(&opts.batchSize, "batch-size", "b", infer.DefaultBatchSize, "Names per classifier request")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "Classifier provider: huggingface, openai (default huggingface)")
	cmd.Flags().StringVar(&opts.model, "model", "", "Model id (default depends on provider)")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "Override the provider API base URL")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "Log level: debug, info, warn, error (default info)")
	_ = cmd.MarkFlagRequired("name-column")

	return cmd
}

// runInfer executes the inference pipeline.
// Validation order: log level -> input format -> input file -> output format -> provider -> batch size -> API key.
// Nothing is written unless every batch succeeds.
func runInfer(cmd *cobra.Command, env *Env, inputPath string, opts inferOptions) error {
	ctx := cmd.Context()

	// === SETTINGS (flag > config > default) ===

	cfg, cfgErr := env.ConfigLoader.Load()

	level := cmp.Or(opts.logLevel, cfg.LogLevel)
	logger, err := newLogger(env.Stderr, level)
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalidValue, err)
	}
	log := componentLogger(logger, "infer")

	if cfgErr != nil {
		log.Warn().Err(cfgErr).Msg("failed to load config, using defaults")
	}

	// === VALIDATION (fail-fast) ===

	inputPath = config.ExpandPath(inputPath)
	inFormat, err := table.FormatFor(inputPath)
	if err != nil {
		return err
	}
	if _, err := os.Stat(inputPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrFileNotFound, inputPath)
		}
		return fmt.Errorf("cannot access input file: %w", err)
	}

	output := inputPath
	if opts.output != "" {
		output = config.ExpandPath(opts.output)
	}
	outFormat, err := table.FormatFor(output)
	if err != nil {
		return err
	}

	var provider Provider
	if name := cmp.Or(opts.provider, cfg.Provider); name != "" {
		if provider, err = ParseProvider(name); err != nil {
			return err
		}
	}
	provider = provider.OrDefault()

	batchSize := opts.batchSize
	if !opts.batchSizeSet {
		batchSize = cmp.Or(cfg.BatchSize, infer.DefaultBatchSize)
	}
	if batchSize < 1 {
		return fmt.Errorf("--batch-size %d must be at least 1: %w", batchSize, batch.ErrInvalidSize)
	}

	apiKey := env.Getenv(provider.APIKeyEnv())
	if apiKey == "" && provider.RequiresAPIKey() {
		return fmt.Errorf("%w (set it with: export %s=sk-...)", ErrAPIKeyMissing, provider.APIKeyEnv())
	}

	// === LOAD ===

	start := env.Now()

	t, err := inFormat.Load(inputPath)
	if err != nil {
		return err
	}
	log.Info().
		Str("file", inputPath).
		Str("format", inFormat.Name).
		Int("rows", t.Len()).
		Int("columns", len(t.Columns())).
		Msg("table loaded")

	// === INFERENCE ===

	classifier := env.ClassifierFactory.NewClassifier(ClassifierSettings{
		Provider: provider,
		APIKey:   apiKey,
		Model:    cmp.Or(opts.model, cfg.Model),
		BaseURL:  cmp.Or(opts.baseURL, cfg.BaseURL),
	})

	ev := log.Info().
		Str("provider", provider.String()).
		Str("column", opts.nameColumn).
		Int("batch_size", batchSize).
		Int("batches", batch.Count(t.Len(), batchSize))
	if m, ok := classifier.(interface{ Model() string }); ok {
		ev = ev.Str("model", m.Model())
	}
	ev.Msg("classifying names")

	out, err := infer.Run(ctx, t, classifier, infer.Options{
		NameColumn:      opts.nameColumn,
		BatchSize:       batchSize,
		RemoveLastToken: opts.removeLastToken,
		DropConfidence:  opts.dropConfidence,
		OnProgress: func(done, total int) {
			log.Debug().Int("batch", done).Int("of", total).Msg("batch classified")
		},
	})
	if err != nil {
		return err
	}

	// === WRITE OUTPUT ===

	if err := outFormat.Write(out, output); err != nil {
		return err
	}

	log.Info().
		Str("file", output).
		Str("format", outFormat.Name).
		Dur("elapsed", env.Now().Sub(start)).
		Msg("done")
	return nil
}
