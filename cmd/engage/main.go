// Package main provides the engage command: generate a fresh, grounded
// comment for a YouTube video and optionally watch the video like a viewer.
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/entrhq/engage/pkg/behavior"
	"github.com/entrhq/engage/pkg/browser"
	"github.com/entrhq/engage/pkg/comment"
	"github.com/entrhq/engage/pkg/config"
	"github.com/entrhq/engage/pkg/engage"
	"github.com/entrhq/engage/pkg/excerpt"
	"github.com/entrhq/engage/pkg/history"
	"github.com/entrhq/engage/pkg/llm/openai"
	"github.com/entrhq/engage/pkg/logging"
	"github.com/entrhq/engage/pkg/tokenizer"
	"github.com/entrhq/engage/pkg/ui"
	"github.com/entrhq/engage/pkg/youtube"
)

const version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		ui.NewConsole(os.Stderr).Error("%v", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "engage <video-url>",
		Short: "Comment on a YouTube video with a fresh, transcript-grounded comment",
		Long: `engage fetches a video's title and transcript, picks the most striking
lines, and asks a language model for a short comment that has never been
used before. With browser.enabled set in the config file it then opens the
video, likes it, posts the comment and keeps watching for a while.

Configuration is read from $ENGAGE_CONFIG or ~/.engage/config.yaml.
OPENAI_API_KEY and OPENAI_BASE_URL may also come from a .env file.`,
		Example:       "  engage 'https://www.youtube.com/watch?v=C3VtQX8frao'",
		Args:          cobra.ExactArgs(1),
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, ui.NewConsole(cmd.OutOrStdout()), configPath, args[0])
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "Path to configuration file (YAML)")
	return cmd
}

func run(ctx context.Context, console *ui.Console, configPath, videoURL string) error {
	// Nothing is set up for a URL that cannot be watched.
	if _, ok := youtube.ResolveVideoID(videoURL); !ok {
		return fmt.Errorf("%w: %q", engage.ErrInvalidURL, videoURL)
	}

	// A missing .env is normal; variables may already be exported.
	_ = godotenv.Load()

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger("engage")
	if err != nil {
		console.Warn("file logging unavailable: %v", err)
	}
	defer logger.Close()
	if level, err := logging.ParseLevel(cfg.Logging.Verbosity); err == nil {
		logger.SetLevel(level)
	}
	if cfg.ConfigFilePath != "" {
		logger.Infof("loaded config from %s", cfg.ConfigFilePath)
	}

	var providerOpts []openai.ProviderOption
	if cfg.LLM.Model != "" {
		providerOpts = append(providerOpts, openai.WithModel(cfg.LLM.Model))
	}
	if cfg.LLM.BaseURL != "" {
		providerOpts = append(providerOpts, openai.WithBaseURL(cfg.LLM.BaseURL))
	}
	provider, err := openai.NewProvider(cfg.LLM.APIKey, providerOpts...)
	if err != nil {
		return fmt.Errorf("failed to create LLM provider: %w", err)
	}
	if err := provider.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize LLM provider: %w", err)
	}
	defer func() {
		if err := provider.Shutdown(); err != nil {
			logger.Warnf("provider shutdown: %v", err)
		}
	}()
	logger.Infof("using model %s at %s", provider.GetModel(), provider.GetBaseURL())

	tok, err := tokenizer.New()
	if err != nil {
		logger.Warnf("tiktoken unavailable, estimating token counts: %v", err)
	}
	composer := comment.NewComposer(provider,
		comment.WithMaxTokens(cfg.LLM.MaxTokens),
		comment.WithTemperature(cfg.LLM.Temperature),
		comment.WithContextBudget(cfg.Generation.ContextTokens, tok),
	)

	historyPath, err := cfg.HistoryPath()
	if err != nil {
		return err
	}
	guard := history.NewGuard(history.NewFileStore(historyPath), logger.With("history"))
	loop := comment.NewLoop(composer, guard, cfg.Generation.MaxAttempts, logger.With("generation"))

	rng := rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	selector := excerpt.NewSelector(excerpt.NewScorer(cfg.Transcript.Keywords), rng)
	yt := youtube.NewClient(logger.With("youtube"))

	runnerOpts := []engage.Option{
		engage.WithLanguages(cfg.Transcript.Languages),
		engage.WithTopN(cfg.Transcript.TopN),
	}
	if cfg.Browser.Enabled {
		sim, shutdown, err := newSimulator(cfg, logger, rng, console)
		if err != nil {
			return err
		}
		defer shutdown()
		runnerOpts = append(runnerOpts, engage.WithWatcher(sim))
	}

	runner := engage.NewRunner(yt, yt, selector, loop, logger.With("runner"), runnerOpts...)

	console.Header("engage")
	result, err := runner.Run(ctx, videoURL)
	printResult(console, result)
	if logger.LogPath() != "" {
		console.Info("log: %s", logger.LogPath())
	}
	return err
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newSimulator starts the browser driver and loads cookies. The returned
// function stops the driver.
func newSimulator(cfg *config.Config, logger *logging.Logger, rng behavior.Rand, console *ui.Console) (*behavior.Simulator, func(), error) {
	filter, err := browser.NewDomainFilter(cfg.Browser.CookieDomains)
	if err != nil {
		return nil, nil, err
	}
	cookies, err := browser.LoadCookies(cfg.Browser.CookieFile, filter)
	if err != nil {
		// Signed out, the like and comment steps fail but watching still works.
		console.Warn("continuing without cookies: %v", err)
		logger.Warnf("cookie load failed: %v", err)
	}

	launcher := browser.NewLauncher(browser.Options{
		Channel:  cfg.Browser.Channel,
		Headless: cfg.Browser.Headless,
		Viewport: &browser.Viewport{
			Width:  cfg.Browser.ViewportWidth,
			Height: cfg.Browser.ViewportHeight,
		},
		Timeout:     float64(cfg.Browser.Timeout.Milliseconds()),
		Locale:      cfg.Browser.Locale,
		SkipInstall: cfg.Browser.SkipInstall,
	}, logger.With("browser"))
	if err := launcher.Initialize(); err != nil {
		return nil, nil, err
	}
	shutdown := func() {
		if err := launcher.Shutdown(); err != nil {
			logger.Warnf("browser shutdown: %v", err)
		}
	}

	sim := behavior.NewSimulator(launcher, logger.With("simulator"),
		behavior.WithRand(rng),
		behavior.WithTiming(cfg.Timing()),
		behavior.WithCookies(cookies),
	)
	return sim, shutdown, nil
}

func printResult(console *ui.Console, result *engage.Result) {
	if result == nil || result.Session == nil {
		return
	}
	es := result.Session
	console.Field("video", es.VideoID)
	console.Field("title", es.Title)
	for _, u := range es.Context {
		console.Field(comment.Timestamp(u.Start), u.Text)
	}
	if es.Comment != "" {
		console.Quote(es.Comment)
	}

	report := result.Report
	if report == nil {
		return
	}
	phases := make([]string, 0, len(report.Phases))
	for _, p := range report.Phases {
		phases = append(phases, p.String())
	}
	console.Field("phases", strings.Join(phases, " → "))
	console.Field("liked", outcome(report.Like))
	console.Field("commented", outcome(report.Comment))
	console.Field("watched", fmt.Sprintf("%s (%d pauses, %d seeks)", report.Watched.Round(time.Second), report.Pauses, report.Seeks))
	if len(report.Failures) == 0 {
		console.Success("engagement complete")
	} else {
		console.Warn("engagement complete with %d failed interactions", len(report.Failures))
	}
}

func outcome(r behavior.InteractionResult) string {
	if r.Action == "" {
		return "not attempted"
	}
	if r.Succeeded() {
		return "yes"
	}
	return "failed: " + r.Err.Error()
}
