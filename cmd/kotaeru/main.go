// Package main is the Kotaeru CLI entry point.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/hyperjump/kotaeru/internal/chat"
	"github.com/hyperjump/kotaeru/internal/cli"
	"github.com/hyperjump/kotaeru/internal/config"
	"github.com/hyperjump/kotaeru/internal/embedding"
	"github.com/hyperjump/kotaeru/internal/extract"
	"github.com/hyperjump/kotaeru/internal/fileid"
	"github.com/hyperjump/kotaeru/internal/generate"
	"github.com/hyperjump/kotaeru/internal/indexer"
	"github.com/hyperjump/kotaeru/internal/keyword"
	"github.com/hyperjump/kotaeru/internal/models"
	"github.com/hyperjump/kotaeru/internal/search"
	"github.com/hyperjump/kotaeru/internal/server"
	"github.com/hyperjump/kotaeru/internal/session"
	"github.com/hyperjump/kotaeru/internal/storage"
	"github.com/hyperjump/kotaeru/internal/vector"
	"github.com/hyperjump/kotaeru/internal/watcher"
	"github.com/hyperjump/kotaeru/pkg/utils"
)

var version = "dev"

const defaultConfigPath = "/usr/local/etc/kotaeru/config.yaml"

// loadConfig loads config from path. When path is the default, it first looks
// for config.yaml in the current directory (for development); if that exists
// it is used, so that "kotaeru server" from the project dir uses the
// project's config (including debug). Returns the config and the path that
// was actually loaded.
func loadConfig(path string) (*config.Config, string, error) {
	if path == defaultConfigPath {
		if cwd, cwdErr := os.Getwd(); cwdErr == nil {
			fallback := filepath.Join(cwd, "config.yaml")
			if _, statErr := os.Stat(fallback); statErr == nil {
				cfg, loadErr := config.Load(fallback)
				if loadErr != nil {
					return nil, "", loadErr
				}
				return cfg, fallback, nil
			}
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, "", err
	}
	return cfg, path, nil
}

func main() {
	// .env supplies OPENAI_API_KEY for development runs; a missing file is
	// not an error.
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}
	command := os.Args[1]
	switch command {
	case "server":
		runServer()
	case "ingest":
		runIngest()
	case "ask":
		runAsk()
	case "search":
		runSearch()
	case "delete":
		runDelete()
	case "status":
		runStatus()
	case "version", "--version", "-v":
		fmt.Printf("kotaeru version %s\n", version)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

// resolveAPIKey returns the explicit flag value when set, falling back to
// the OPENAI_API_KEY environment variable (populated from .env when
// present). The key travels with each request; the server holds no key of
// its own.
func resolveAPIKey(flagValue string) string {
	if flagValue != "" {
		return flagValue
	}
	return os.Getenv("OPENAI_API_KEY")
}

func runServer() {
	fs := flag.NewFlagSet("server", flag.ExitOnError)
	configPath := fs.String("config", defaultConfigPath, "config file path")
	debug := fs.Bool("debug", false, "enable debug logging (watch events, retrieval detail, etc.)")
	_ = fs.Parse(os.Args[2:])

	cfg, resolvedConfigPath, err := loadConfig(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	debugMode := cfg.Debug || *debug
	logger, err := utils.NewFileLogger(debugMode, utils.FileLogConfig{
		Path:       cfg.Logging.File,
		MaxSizeMB:  cfg.Logging.MaxSizeMB,
		MaxBackups: cfg.Logging.MaxBackups,
		MaxAgeDays: cfg.Logging.MaxAgeDays,
	})
	if err != nil {
		fmt.Printf("Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("config loaded",
		zap.String("config_path", resolvedConfigPath),
		zap.Bool("debug", debugMode),
	)

	components, err := initializeComponents(cfg, logger, debugMode)
	if err != nil {
		logger.Fatal("Failed to initialize components", zap.Error(err))
	}
	defer components.Close()

	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	if cfg.Watch.Enabled && len(cfg.Watch.Directories) > 0 {
		// Watch ingests embed with the key the process was started with;
		// it rides along on each indexing call like any other caller's key.
		watchKey := resolveAPIKey("")
		watchOpts := []watcher.WatcherOption{}
		if debugMode {
			watchOpts = append(watchOpts, watcher.WithLogger(logger))
		}
		watchSvc := watcher.NewWatcher(
			cfg.Watch.Directories,
			cfg.Watch.Extensions,
			cfg.Watch.RecursiveOrDefault(),
			func(path string) {
				if err := indexFile(components, watchKey, path); err != nil {
					logger.Warn("watch index file failed", zap.String("path", path), zap.Error(err))
				}
			},
			func(path string) {
				abs, _ := filepath.Abs(path)
				if components.Indexer.DeleteDocument(context.Background(), fileid.FileDocID(abs)) {
					logger.Info("watch removed document", zap.String("path", path))
				}
			},
			watchOpts...,
		)
		if err := watchSvc.Start(watchCtx); err != nil {
			logger.Fatal("Failed to start watcher", zap.Error(err))
		}
		defer watchSvc.Stop()
		watchSvc.SyncExistingFiles()
	}

	srv := server.NewServer(
		components.Engine,
		components.Indexer,
		components.Chat,
		components.Extractor,
		&cfg.Server,
		logger,
	)
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

// indexFile extracts, normalizes, and indexes one file under its
// path-derived document id, so re-indexing the same path updates in place.
func indexFile(c *Components, apiKey, path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	text, err := c.Extractor.Extract(abs)
	if err != nil {
		return fmt.Errorf("failed to extract text: %w", err)
	}
	_, err = c.Indexer.IndexDocument(context.Background(), embedding.Credentials{APIKey: apiKey},
		models.DocumentInput{
			ID:      fileid.FileDocID(abs),
			Title:   fileid.Title(abs),
			Source:  abs,
			Content: indexer.Normalize(text),
		})
	return err
}

// joinQueryArgs joins all positional args with spaces so multi-word queries
// work the same with or without shell quoting.
func joinQueryArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}

// reorderArgs moves any flags (and their values) that appear after the
// positional arguments to the front of the slice so that flag.Parse() sees
// them. Go's flag package stops at the first non-flag argument, so
// "kotaeru search \"query\" -k 5" would otherwise leave -k unparsed.
func reorderArgs(args []string) []string {
	for i, a := range args {
		if len(a) > 0 && a[0] == '-' {
			if i == 0 {
				return args
			}
			reordered := make([]string, 0, len(args))
			reordered = append(reordered, args[i:]...)
			reordered = append(reordered, args[:i]...)
			return reordered
		}
	}
	return args
}

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	apiKeyFlag := fs.String("api-key", "", "embedding provider API key (defaults to OPENAI_API_KEY)")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: kotaeru ingest [flags] <file> [file...]")
		os.Exit(1)
	}
	apiKey := resolveAPIKey(*apiKeyFlag)

	for _, path := range fs.Args() {
		docID, chunks, err := uploadFile(*serverURL, apiKey, path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to ingest %s: %v\n", path, err)
			os.Exit(1)
		}
		fmt.Printf("Indexed %s: %s (%d chunks)\n", path, docID, chunks)
	}
}

func uploadFile(serverURL, apiKey, path string) (string, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", 0, err
	}
	if _, err := io.Copy(fw, f); err != nil {
		return "", 0, err
	}
	if apiKey != "" {
		if err := mw.WriteField("api_key", apiKey); err != nil {
			return "", 0, err
		}
	}
	if err := mw.Close(); err != nil {
		return "", 0, err
	}

	resp, err := http.Post(serverURL+"/api/upload", mw.FormDataContentType(), &buf)
	if err != nil {
		return "", 0, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		b, _ := io.ReadAll(resp.Body)
		return "", 0, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var out struct {
		DocumentID string `json:"document_id"`
		Chunks     int    `json:"chunks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", 0, fmt.Errorf("decode response: %w", err)
	}
	return out.DocumentID, out.Chunks, nil
}

func runAsk() {
	args := reorderArgs(os.Args[2:])
	fs := flag.NewFlagSet("ask", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	apiKeyFlag := fs.String("api-key", "", "provider API key (defaults to OPENAI_API_KEY)")
	sessionID := fs.String("session", "", "session id for conversation history")
	system := fs.String("system", "", "developer instructions for the model")
	model := fs.String("model", "", "model override")
	k := fs.Int("k", 0, "number of context chunks (0 = server default)")
	_ = fs.Parse(args)

	question := joinQueryArgs(fs.Args())
	if question == "" {
		fmt.Println("Usage: kotaeru ask [flags] <question>")
		os.Exit(1)
	}

	body, err := json.Marshal(map[string]interface{}{
		"session_id":        *sessionID,
		"developer_message": *system,
		"user_message":      question,
		"model":             *model,
		"k":                 *k,
		"api_key":           resolveAPIKey(*apiKeyFlag),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode request: %v\n", err)
		os.Exit(1)
	}
	resp, err := http.Post(*serverURL+"/api/chat", "application/json", bytes.NewReader(body))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Ask failed (%d): %s\n", resp.StatusCode, strings.TrimSpace(string(b)))
		os.Exit(1)
	}

	// The body arrives as plain-text fragments; print them as they stream.
	if _, err := io.Copy(os.Stdout, resp.Body); err != nil {
		fmt.Fprintf(os.Stderr, "\nStream interrupted: %v\n", err)
		os.Exit(1)
	}
	fmt.Println()
}

func runSearch() {
	args := reorderArgs(os.Args[2:])
	fs := flag.NewFlagSet("search", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	apiKeyFlag := fs.String("api-key", "", "embedding provider API key (defaults to OPENAI_API_KEY)")
	k := fs.Int("k", 10, "number of results")
	mode := fs.String("mode", "hybrid", "search mode: hybrid, semantic, or keyword")
	minScore := fs.Float64("min-score", 0, "minimum fused score (0 = no filtering)")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(args)

	query := joinQueryArgs(fs.Args())
	if query == "" {
		fmt.Println("Usage: kotaeru search [flags] <query>")
		os.Exit(1)
	}

	format := cli.OutputText
	switch *outputFormat {
	case "json":
		format = cli.OutputJSON
	case "text":
	default:
		fmt.Printf("Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}

	response, err := searchViaHTTP(*serverURL, map[string]interface{}{
		"query":     query,
		"k":         *k,
		"mode":      *mode,
		"min_score": *minScore,
		"api_key":   resolveAPIKey(*apiKeyFlag),
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Search failed: %v\n", err)
		os.Exit(1)
	}
	if err := cli.WriteSearchResults(os.Stdout, response, format); err != nil {
		fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
		os.Exit(1)
	}
}

func searchViaHTTP(serverURL string, request map[string]interface{}) (*models.SearchResponse, error) {
	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}
	resp, err := http.Post(serverURL+"/api/search", "application/json", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	var response models.SearchResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &response, nil
}

func runDelete() {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	_ = fs.Parse(os.Args[2:])

	if fs.NArg() < 1 {
		fmt.Println("Usage: kotaeru delete [flags] <document-id>")
		os.Exit(1)
	}
	docID := fs.Arg(0)

	req, err := http.NewRequest(http.MethodDelete, *serverURL+"/api/documents/"+url.PathEscape(docID), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
		os.Exit(1)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Request failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	switch resp.StatusCode {
	case http.StatusOK:
		fmt.Printf("Document deleted: %s\n", docID)
	case http.StatusNotFound:
		fmt.Fprintf(os.Stderr, "Document not found: %s\n", docID)
		os.Exit(1)
	default:
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Delete failed (%d): %s\n", resp.StatusCode, strings.TrimSpace(string(b)))
		os.Exit(1)
	}
}

func runStatus() {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	serverURL := fs.String("server", "http://localhost:8080", "server URL")
	outputFormat := fs.String("output", "text", "output format: text or json")
	_ = fs.Parse(os.Args[2:])

	resp, err := http.Get(*serverURL + "/api/health")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Status failed: %v\n", err)
		os.Exit(1)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		fmt.Fprintf(os.Stderr, "Status failed (%d): %s\n", resp.StatusCode, strings.TrimSpace(string(b)))
		os.Exit(1)
	}
	var status struct {
		Status    string `json:"status"`
		Documents int    `json:"documents"`
		Chunks    int    `json:"chunks"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		fmt.Fprintf(os.Stderr, "Parse failed: %v\n", err)
		os.Exit(1)
	}

	switch *outputFormat {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(status); err != nil {
			fmt.Fprintf(os.Stderr, "Output failed: %v\n", err)
			os.Exit(1)
		}
	case "text":
		fmt.Printf("status:     %s\n", status.Status)
		fmt.Printf("documents:  %d   # count of indexed documents\n", status.Documents)
		fmt.Printf("chunks:     %d   # count of embedded chunks\n", status.Chunks)
	default:
		fmt.Fprintf(os.Stderr, "Unknown output format %q; use text or json\n", *outputFormat)
		os.Exit(1)
	}
}

// Components holds initialized services.
type Components struct {
	Embedder  embedding.Embedder
	Store     *vector.MemoryStore
	Keywords  *keyword.BleveIndex
	Indexer   *indexer.Indexer
	Engine    *search.Engine
	Sessions  *session.Store
	Chat      *chat.Service
	Extractor *extract.Extractor
}

func (c *Components) Close() {
	if c.Embedder != nil {
		_ = c.Embedder.Close()
	}
	if c.Keywords != nil {
		_ = c.Keywords.Close()
	}
}

func initializeComponents(cfg *config.Config, logger *zap.Logger, debug bool) (*Components, error) {
	embedder, err := newEmbedder(cfg, logger)
	if err != nil {
		return nil, err
	}
	generator, err := newGenerator(cfg)
	if err != nil {
		return nil, err
	}

	store := vector.NewMemoryStore(0)
	keywords, err := keyword.NewBleveIndex()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize keyword index: %w", err)
	}
	chunker, err := indexer.NewChunker(cfg.Chunking.ChunkSize, cfg.Chunking.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("failed to configure chunker: %w", err)
	}

	idxOpts := []indexer.IndexerOption{}
	if debug {
		idxOpts = append(idxOpts, indexer.WithLogger(logger))
	}
	idx := indexer.NewIndexer(store, embedder, keywords, chunker, idxOpts...)

	engine := search.NewEngine(store, embedder, keywords, search.Config{
		KeywordWeight:  cfg.Retrieval.KeywordWeight,
		SemanticWeight: cfg.Retrieval.SemanticWeight,
		MinScore:       cfg.Retrieval.MinScore,
	})

	sessions := session.NewStore(time.Duration(cfg.Session.TTLMinutes)*time.Minute, cfg.Session.MaxTurns)

	chatOpts := []chat.Option{}
	if debug {
		chatOpts = append(chatOpts, chat.WithLogger(logger))
	}
	chatSvc := chat.NewService(engine, generator, sessions, chat.Config{
		TopK:        cfg.Retrieval.TopK,
		Temperature: cfg.Generation.Temperature,
		MaxTokens:   cfg.Generation.MaxTokens,
	}, chatOpts...)

	return &Components{
		Embedder:  embedder,
		Store:     store,
		Keywords:  keywords,
		Indexer:   idx,
		Engine:    engine,
		Sessions:  sessions,
		Chat:      chatSvc,
		Extractor: extract.NewExtractor(),
	}, nil
}

func newEmbedder(cfg *config.Config, logger *zap.Logger) (embedding.Embedder, error) {
	var inner embedding.Embedder
	switch cfg.Embedding.Provider {
	case "openai", "":
		inner = embedding.NewOpenAIEmbedder(embedding.OpenAIConfig{
			BaseURL:       cfg.Embedding.BaseURL,
			Model:         cfg.Embedding.Model,
			MaxBatchSize:  cfg.Embedding.MaxBatchSize,
			MaxBatchChars: cfg.Embedding.MaxBatchChars,
			Concurrency:   cfg.Embedding.Concurrency,
			Timeout:       time.Duration(cfg.Embedding.TimeoutSeconds) * time.Second,
		})
	case "ollama":
		inner = embedding.NewOllamaEmbedder(embedding.OllamaConfig{
			BaseURL:     cfg.Embedding.BaseURL,
			Model:       cfg.Embedding.Model,
			Concurrency: cfg.Embedding.Concurrency,
			Timeout:     time.Duration(cfg.Embedding.TimeoutSeconds) * time.Second,
		})
	case "mock":
		inner = embedding.NewMockEmbedder(0)
	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}

	var persistent storage.EmbeddingCache
	if cfg.Embedding.Cache.Path != "" {
		sqliteCache, err := storage.NewSQLiteCache(cfg.Embedding.Cache.Path)
		if err != nil {
			logger.Warn("persistent embedding cache disabled",
				zap.String("path", cfg.Embedding.Cache.Path), zap.Error(err))
		} else {
			persistent = sqliteCache
		}
	}
	// Namespace cache entries by provider as well as model so switching
	// providers with a default (empty) model name never mixes vectors.
	cacheModel := cfg.Embedding.Provider + "/" + cfg.Embedding.Model
	return embedding.NewCachedEmbedder(inner, cfg.Embedding.Cache.Entries, persistent, cacheModel), nil
}

func newGenerator(cfg *config.Config) (generate.Generator, error) {
	switch cfg.Generation.Provider {
	case "openai", "":
		return generate.NewOpenAIGenerator(generate.OpenAIConfig{
			BaseURL:       cfg.Generation.BaseURL,
			Model:         cfg.Generation.Model,
			HeaderTimeout: time.Duration(cfg.Generation.TimeoutSeconds) * time.Second,
		}), nil
	case "ollama":
		return generate.NewOllamaGenerator(generate.OllamaConfig{
			BaseURL:       cfg.Generation.BaseURL,
			Model:         cfg.Generation.Model,
			HeaderTimeout: time.Duration(cfg.Generation.TimeoutSeconds) * time.Second,
		}), nil
	case "mock":
		return &generate.MockGenerator{Fragments: []string{"This is a mock completion."}}, nil
	default:
		return nil, fmt.Errorf("unknown generation provider %q", cfg.Generation.Provider)
	}
}

func printUsage() {
	fmt.Println(`kotaeru - Retrieval-augmented question answering over your documents

Usage:
  kotaeru server [flags]            Start the HTTP server
  kotaeru ingest [flags] <files>    Upload and index documents
  kotaeru ask [flags] <question>    Ask a question (streams the answer)
  kotaeru search [flags] <query>    Search indexed chunks
  kotaeru delete [flags] <id>       Delete a document
  kotaeru status [flags]            Show index status
  kotaeru version                   Show version
  kotaeru help                      Show this help

Server Flags:
  --config string    Config file path (default: /usr/local/etc/kotaeru/config.yaml)
  --debug            Enable debug logging (watch events, retrieval detail, etc.)

Client Flags (ingest, ask, search, delete, status):
  --server string    Server URL (default: http://localhost:8080)
  --api-key string   Provider API key; defaults to OPENAI_API_KEY from the
                     environment or a .env file in the current directory

Ask Flags:
  --session string   Session id; reuse it to keep conversation history
  --system string    Developer instructions for the model
  --model string     Model override
  --k int            Number of context chunks (0 = server default)

Search Flags:
  --k int            Number of results (default: 10)
  --mode string      hybrid, semantic, or keyword (default: hybrid)
  --min-score float  Minimum fused score (default: 0 = no filtering)
  --output string    text or json (default: text)

Status Flags:
  --output string    text or json (default: text)

Examples:
  kotaeru server
  kotaeru ingest report.pdf notes.md
  kotaeru ask "what were the Q3 revenue numbers?"
  kotaeru ask --session review "and compared to Q2?"
  kotaeru search --mode keyword "revenue"
  kotaeru search --output json "quarterly revenue"
  kotaeru delete doc-123
  kotaeru status`)
}
