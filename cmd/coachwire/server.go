package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/kalambet/coachwire/internal/api"
	"github.com/kalambet/coachwire/internal/coach"
	"github.com/kalambet/coachwire/internal/composer"
	"github.com/kalambet/coachwire/internal/config"
	"github.com/kalambet/coachwire/internal/engine"
	"github.com/kalambet/coachwire/internal/ingest"
	"github.com/kalambet/coachwire/internal/pipeline"
	"github.com/kalambet/coachwire/internal/prefs"
	"github.com/kalambet/coachwire/internal/proxy"
	"github.com/kalambet/coachwire/internal/reranking"
	"github.com/kalambet/coachwire/internal/retrieval"
	"github.com/kalambet/coachwire/internal/storage"
	"github.com/kalambet/coachwire/internal/taxonomy"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the coachwire server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running coachwire server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show coachwire system status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus()
	},
}

func pidFilePath(dataDir string) string {
	return filepath.Join(dataDir, "coachwire.pid")
}

func writePIDFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func removePIDFile(path string) {
	os.Remove(path)
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "coachwire version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize structured logging.
	logLevel := slog.LevelInfo
	if strings.EqualFold(cfg.Log.Level, "debug") {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel})))

	apiToken, err := config.APIToken(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("initializing API token: %w", err)
	}

	// Write PID file. Check if server is already running via health endpoint.
	pidPath := pidFilePath(cfg.Storage.DataDir)
	healthURL := fmt.Sprintf("http://127.0.0.1:%d/health", cfg.Server.Port)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get(healthURL); err == nil {
		resp.Body.Close()
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			printWarning("coachwire is already running (PID %d)", pid)
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		printWarning("coachwire is already running on port %d", cfg.Server.Port)
		return fmt.Errorf("server already running on port %d", cfg.Server.Port)
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePIDFile(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Check local inference engine readiness.
	eng := engine.NewOllamaEngine(cfg.Ollama.BaseURL)
	if err := engine.EnsureReady(ctx, eng, cfg.Ollama.ChatModel, cfg.Ollama.EmbedModel, os.Stderr); err != nil {
		return err
	}

	// Open storage.
	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return fmt.Errorf("opening storage: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
		}
	}()

	// Build the reply pipeline.
	embedder := retrieval.NewEmbedder(eng, cfg.Ollama.EmbedModel)
	vectorStore := retrieval.NewSQLiteStore(store.DB())
	var retriever pipeline.ContextRetriever = retrieval.NewRetriever(
		embedder, vectorStore,
		cfg.Pipeline.RetrieveLimit, float32(cfg.Pipeline.SimilarityThreshold),
	)
	if cfg.Reranking.Enabled {
		rerankTimeout, err := time.ParseDuration(cfg.Reranking.Timeout)
		if err != nil {
			slog.Warn("invalid reranking timeout, using default 5s", "value", cfg.Reranking.Timeout, "error", err)
			rerankTimeout = 5 * time.Second
		}
		reranker := reranking.NewReranker(
			eng, cfg.Ollama.ChatModel,
			cfg.Reranking.Enabled, rerankTimeout,
			cfg.Reranking.Threshold, cfg.Pipeline.RetrieveLimit,
		)
		retriever = pipeline.NewRerankedRetriever(retriever, reranker)
	}

	coaches := coach.NewManager(store)
	interpreter := prefs.NewInterpreter(eng, cfg.Ollama.ChatModel)

	// Replies run on the cloud proxy when a key is configured, otherwise
	// on the local engine.
	var completer pipeline.Completer
	if cfg.Proxy.Configured() {
		completer = pipeline.NewProxyCompleter(proxy.NewClient(cfg.Proxy.OpenRouterAPIKey), cfg.Proxy.DefaultModel)
		slog.Info("reply completions via OpenRouter", "model", cfg.Proxy.DefaultModel)
	} else {
		completer = pipeline.NewEngineCompleter(eng, cfg.Ollama.ChatModel)
		slog.Info("reply completions via local engine", "model", cfg.Ollama.ChatModel)
	}

	comp := composer.New()
	comp.ReplyChars = cfg.Pipeline.ReplyChars
	comp.HistoryTurns = cfg.Pipeline.HistoryTurns
	comp.MaxExemplars = cfg.Pipeline.RetrieveLimit

	svc := pipeline.NewService(pipeline.Deps{
		Store:       store,
		Coaches:     coaches,
		Tagger:      taxonomy.NewDefaultTagger(),
		Embedder:    embedder,
		Retriever:   retriever,
		Composer:    comp,
		Completer:   completer,
		Interpreter: interpreter,
	})

	// Build HTTP server.
	handler := api.NewAppHandler(api.AppDeps{
		Store:    store,
		Coaches:  coaches,
		Pipeline: svc,
		Token:    apiToken,
	})

	addr := fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	// Start the embedding backfill worker.
	worker := ingest.NewWorker(store, embedder, 500*time.Millisecond)
	go worker.Run(ctx)

	// Start MCP server (stdio transport in a goroutine).
	mcpSrv := api.NewMCPServer(api.MCPDeps{
		Store:    store,
		Pipeline: svc,
	})
	stdioSrv := server.NewStdioServer(mcpSrv)
	go func() {
		if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
			slog.Error("MCP stdio server error", "error", err)
		}
	}()
	slog.Info("MCP server started (stdio transport)")

	// Start server in a goroutine.
	errCh := make(chan error, 1)
	go func() {
		fmt.Fprintf(os.Stderr, "coachwire listening on %s\n", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for signal or server error.
	select {
	case <-ctx.Done():
		fmt.Fprintln(os.Stderr, "shutting down...")
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	// Graceful shutdown with timeout.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

func stopServer() error {
	cfg, err := config.Load()
	if err != nil {
		printError("could not load config: %v", err)
		return err
	}

	pidPath := pidFilePath(cfg.Storage.DataDir)
	pid, err := readPIDFile(pidPath)
	if err != nil {
		printError("coachwire is not running (no PID file)")
		return fmt.Errorf("not running: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		printError("could not find process %d", pid)
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		printError("could not stop coachwire (PID %d): %v", pid, err)
		removePIDFile(pidPath)
		return err
	}

	printSuccess("Sent stop signal to coachwire (PID %d)", pid)
	return nil
}

func showStatus() error {
	cfg, err := config.Load()
	if err != nil {
		printError("config error: %v", err)
		return nil
	}

	// Check server health.
	serverURL := fmt.Sprintf("http://127.0.0.1:%d", cfg.Server.Port)
	client := &http.Client{Timeout: 2 * time.Second}

	resp, err := client.Get(serverURL + "/health")
	if err != nil {
		printStatus("Server", "stopped")
	} else {
		resp.Body.Close()
		if resp.StatusCode == 200 {
			printStatus("Server", "running on port %d", cfg.Server.Port)
		} else {
			printStatus("Server", "error (HTTP %d)", resp.StatusCode)
		}
	}

	// Check Ollama.
	ollamaResp, err := client.Get(cfg.Ollama.BaseURL + "/api/version")
	if err != nil {
		printStatus("Ollama", "not running")
	} else {
		ollamaResp.Body.Close()
		printStatus("Ollama", "running at %s", cfg.Ollama.BaseURL)
	}

	printStatus("Chat model", "%s", cfg.Ollama.ChatModel)
	printStatus("Embed model", "%s", cfg.Ollama.EmbedModel)
	if cfg.Proxy.Configured() {
		printStatus("Cloud model", "%s", cfg.Proxy.DefaultModel)
	} else {
		printStatus("Cloud model", "not configured (local only)")
	}
	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}
