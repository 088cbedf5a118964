// Package main is the resumatch CLI entry point.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/resumatch/internal/cli"
	"github.com/hyperjump/resumatch/internal/config"
	"github.com/hyperjump/resumatch/internal/embedding"
	"github.com/hyperjump/resumatch/internal/extract"
	"github.com/hyperjump/resumatch/internal/keyword"
	"github.com/hyperjump/resumatch/internal/llm"
	"github.com/hyperjump/resumatch/internal/match"
	"github.com/hyperjump/resumatch/internal/prompt"
	"github.com/hyperjump/resumatch/internal/render"
	"github.com/hyperjump/resumatch/internal/server"
	"github.com/hyperjump/resumatch/internal/session"
	"github.com/hyperjump/resumatch/internal/watcher"
	"github.com/hyperjump/resumatch/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/resumatch/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks for
// config.yaml in the current directory (for development), and falls back to
// built-in defaults when neither file exists. .env files next to the config and
// in the working directory are loaded first; RESUMATCH_* variables override both.
// Returns the config and the path that was actually loaded ("" for defaults).
func loadConfig(path string) (*config.Config, string, error) {
	resolved := path
	if path == defaultConfigPath {
		resolved = ""
		if cwd, err := os.Getwd(); err == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, err := os.Stat(fallback); err == nil {
				resolved = fallback
			}
		}
		if resolved == "" {
			if _, err := os.Stat(path); err == nil {
				resolved = path
			}
		}
	}

	envFiles := []string{".env"}
	if resolved != "" {
		envFiles = append([]string{filepath.Join(filepath.Dir(resolved), ".env")}, envFiles...)
	}
	if err := config.LoadDotEnv(envFiles...); err != nil {
		return nil, "", err
	}

	var cfg *config.Config
	if resolved == "" {
		cfg = config.Default()
	} else {
		var err error
		if cfg, err = config.Load(resolved); err != nil {
			return nil, "", err
		}
	}
	if err := config.ApplyEnv(cfg); err != nil {
		return nil, "", err
	}
	return cfg, resolved, nil
}

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "score":
		runScore()
	case "render":
		runRender()
	case "version", "--version", "-v":
		fmt.Printf("resumatch version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (prompts, template reloads, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Prompts.Dir != "" {
		w := newPromptWatcher(components.Prompts, logger, debugMode)
		if err := w.Start(watchCtx); err != nil {
			logger.Warn("prompt watcher not started", zap.String("dir", cfg.Prompts.Dir), zap.Error(err))
		} else {
			defer w.Stop()
		}
	}

	srv, err := server.NewServer(server.Deps{
		Service:   components.Service,
		Store:     components.Store,
		Scorer:    components.Scorer,
		Coverage:  components.Coverage,
		Extractor: components.Extractor,
		Renderer:  components.Renderer,
		Embedder:  components.Embedder,
	}, cfg, logger)
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down...")
	watchCancel()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Stop(ctx)
}

// newPromptWatcher reloads prompt templates when files in the prompts
// directory change and restores the built-in template when one is removed.
func newPromptWatcher(prompts *prompt.Set, logger *zap.Logger, debug bool) *watcher.Watcher {
	var opts []watcher.Option
	if debug {
		opts = append(opts, watcher.WithLogger(logger))
	}
	return watcher.New(
		prompts.Dir(),
		[]string{prompt.FileExt},
		func(path string) {
			if err := prompts.Reload(path); err != nil {
				logger.Warn("prompt reload failed, keeping previous template", zap.String("path", path), zap.Error(err))
			}
		},
		prompts.Restore,
		opts...,
	)
}

func runScore() {
	fs := flag.NewFlagSet("score", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	output := fs.String("output", "text", "output format: text or json")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: resumatch score [flags] <resume> <job-description-file>\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[2:])
	if fs.NArg() != 2 {
		fs.Usage()
		os.Exit(1)
	}
	format, err := cli.ParseOutputFormat(*output)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger, err := utils.NewLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	report, err := scoreFiles(context.Background(), cfg, logger, fs.Arg(0), fs.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Score failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteScoreReport(os.Stdout, report, format); err != nil {
		fmt.Fprintf(os.Stderr, "Write output: %v\n", err)
		os.Exit(1)
	}
}

// scoreFiles extracts both files and scores them with the configured embedder.
func scoreFiles(ctx context.Context, cfg *config.Config, logger *zap.Logger, resumePath, jobPath string) (*cli.ScoreReport, error) {
	ex := extract.NewExtractor()
	resume, err := ex.Extract(resumePath)
	if err != nil {
		return nil, fmt.Errorf("read resume: %w", err)
	}
	job, err := ex.Extract(jobPath)
	if err != nil {
		return nil, fmt.Errorf("read job description: %w", err)
	}

	embedder, err := newEmbedder(cfg, logger)
	if err != nil {
		return nil, err
	}
	defer embedder.Close()

	score, err := newScorer(cfg, embedder).Score(ctx, resume, job)
	if err != nil {
		return nil, err
	}
	report := &cli.ScoreReport{
		Resume:         resumePath,
		JobDescription: jobPath,
		Score:          score,
	}
	if analyzer, err := keyword.NewAnalyzer(keyword.English); err == nil {
		report.Coverage = keyword.NewMatcher(analyzer, true).Coverage(resume, job)
	} else {
		logger.Warn("keyword coverage unavailable", zap.Error(err))
	}
	return report, nil
}

func runRender() {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: resumatch render [flags] <text-file> <output.pdf>\n\n")
		fs.PrintDefaults()
	}
	_ = fs.Parse(os.Args[2:])
	if fs.NArg() != 2 {
		fs.Usage()
		os.Exit(1)
	}
	cfg, _, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := renderFile(cfg, fs.Arg(0), fs.Arg(1)); err != nil {
		fmt.Fprintf(os.Stderr, "Render failed: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", fs.Arg(1))
}

func renderFile(cfg *config.Config, textPath, outPath string) error {
	data, err := os.ReadFile(textPath)
	if err != nil {
		return fmt.Errorf("read %s: %w", textPath, err)
	}
	return newRenderer(cfg).RenderFile(string(data), outPath)
}

// Components holds initialized application components.
type Components struct {
	Store     session.Store
	Embedder  embedding.Embedder
	Scorer    *match.Scorer
	Coverage  *keyword.Matcher
	Extractor *extract.Extractor
	Prompts   *prompt.Set
	Renderer  *render.Renderer
	Service   *match.Service
}

// Close releases resources held by components.
func (c *Components) Close() {
	if c.Store != nil {
		_ = c.Store.Close()
	}
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger) (*Components, error) {
	store, err := session.NewSQLiteStore(cfg.Session.DatabasePath, cfg.Session.TTL)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session store: %w", err)
	}

	embedder, err := newEmbedder(cfg, logger)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	analyzer, err := keyword.NewAnalyzer(keyword.English)
	if err != nil {
		_ = store.Close()
		_ = embedder.Close()
		return nil, fmt.Errorf("failed to initialize keyword analyzer: %w", err)
	}

	prompts, err := prompt.NewSet(cfg.Prompts.Dir, logger)
	if err != nil {
		_ = store.Close()
		_ = embedder.Close()
		return nil, fmt.Errorf("failed to load prompts: %w", err)
	}

	llmCfg := llm.Config{
		Provider:  cfg.LLM.Provider,
		Model:     cfg.LLM.Model,
		BaseURL:   cfg.LLM.BaseURL,
		MaxTokens: cfg.LLM.MaxTokens,
	}
	if err := llmCfg.Validate(); err != nil {
		_ = store.Close()
		_ = embedder.Close()
		return nil, fmt.Errorf("invalid llm config: %w", err)
	}

	if err := os.MkdirAll(cfg.Render.OutputDir, 0o755); err != nil {
		logger.Warn("output directory not created", zap.String("dir", cfg.Render.OutputDir), zap.Error(err))
	}

	c := &Components{
		Store:     store,
		Embedder:  embedder,
		Scorer:    newScorer(cfg, embedder),
		Coverage:  keyword.NewMatcher(analyzer, true),
		Extractor: extract.NewExtractor(),
		Prompts:   prompts,
		Renderer:  newRenderer(cfg),
	}
	svcCfg := match.Config{
		LLM:                llmCfg,
		Timeout:            cfg.LLM.Timeout,
		RateLimitPerMinute: cfg.LLM.RateLimitPerMinute,
		OutputDir:          cfg.Render.OutputDir,
	}
	c.Service = match.NewService(match.Deps{
		Extractor: c.Extractor,
		Scorer:    c.Scorer,
		Coverage:  c.Coverage,
		Prompts:   c.Prompts,
		Renderer:  c.Renderer,
	}, svcCfg, logger)
	logger.Info("match service initialized", zap.Stringer("config", svcCfg))
	return c, nil
}

func newEmbedder(cfg *config.Config, logger *zap.Logger) (embedding.Embedder, error) {
	e, err := embedding.New(embedding.Options{
		Backend:    cfg.Embedding.Backend,
		ModelPath:  cfg.Embedding.ModelPath,
		VocabPath:  cfg.Embedding.VocabPath,
		OutputName: cfg.Embedding.OutputName,
		Pooling:    cfg.Embedding.Pooling,
		Dimensions: cfg.Embedding.Dimensions,
		MaxTokens:  cfg.Embedding.MaxTokens,
		CacheSize:  cfg.Embedding.CacheSize,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize embedder: %w", err)
	}
	return e, nil
}

func newScorer(cfg *config.Config, e embedding.Embedder) *match.Scorer {
	if cfg.Embedding.ChunkWords > 0 {
		return match.NewScorer(e, match.WithChunking(cfg.Embedding.ChunkWords, cfg.Embedding.ChunkOverlap))
	}
	return match.NewScorer(e)
}

func newRenderer(cfg *config.Config) *render.Renderer {
	return render.NewRenderer(render.Options{
		FontFamily: cfg.Render.FontFamily,
		FontSize:   cfg.Render.FontSize,
		Margin:     cfg.Render.Margin,
		LineHeight: cfg.Render.LineHeight,
		Compress:   cfg.Render.CompressOrDefault(),
	})
}

func printUsage() {
	fmt.Println(`resumatch - Match a resume against a job description

Usage:
  resumatch server [flags]                         Start the web UI and HTTP API
  resumatch score [flags] <resume> <job-file>      Print the match score and keyword coverage
  resumatch render [flags] <text-file> <out.pdf>   Render plain text to a PDF
  resumatch version                                Show version
  resumatch help                                   Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/resumatch/config.yaml)
  --debug            Enable debug logging

Score Flags:
  --config string    Config file path
  --output string    Output format: text or json (default: text)

Render Flags:
  --config string    Config file path

The LLM API key is entered per session in the web UI; it is never read from
the config file or the environment.

Examples:
  resumatch server
  resumatch server --config ./config.yaml --debug
  resumatch score resume.pdf job.txt
  resumatch score --output json resume.pdf job.txt
  resumatch render resume.txt resume.pdf`)
}
