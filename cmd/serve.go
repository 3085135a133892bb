package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/coreybb/quill/api"
	"github.com/coreybb/quill/auth"
	"github.com/coreybb/quill/conversion"
	"github.com/coreybb/quill/datastore"
	"github.com/coreybb/quill/ebook"
	"github.com/coreybb/quill/generation"
	"github.com/coreybb/quill/ingestion"
	rh "github.com/coreybb/quill/route-handlers"
	"github.com/coreybb/quill/storage"
)

const shutdownTimeout = 15 * time.Second

type serveArgs struct {
	port     string
	dbDriver string
}

var sArgs serveArgs

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API server",
	Long:  "Run the HTTP API server. Configuration is read from the environment; flags override port and database driver.",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&sArgs.port, "port", "p", "", "listen port (overrides PORT)")
	serveCmd.Flags().StringVar(&sArgs.dbDriver, "db-driver", "", "memory, postgres or sqlite (overrides DB_DRIVER)")
	RootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	if sArgs.port != "" {
		cfg.port = sArgs.port
	}
	if sArgs.dbDriver != "" {
		cfg.dbDriver = sArgs.dbDriver
	}
	cfg.resolveDatabaseURL()

	store, err := setupStore(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("database setup failed: %w", err)
	}
	defer store.Close()

	tokens, err := auth.NewManager(cfg.jwtSecret, cfg.tokenTTL, auth.NewTokenStore())
	if err != nil {
		return fmt.Errorf("auth setup failed: %w", err)
	}

	generator := newGenerationService(cfg)
	packager := newPackager(cfg)
	ingestor := ingestion.NewIngestor(conversion.NewConverter(), ingestion.NewContentProcessor())

	handlers := api.Handlers{
		Books:    rh.NewBookHandler(store),
		Chapters: rh.NewChapterHandler(store),
		Covers:   rh.NewCoverHandler(store),
		Generate: rh.NewGenerateHandler(generator, store),
		Upload:   rh.NewUploadHandler(storage.NewLocalFileStorer(cfg.uploadDir), ingestor, generator, cfg.maxUploadMB),
		Export:   rh.NewExportHandler(store, store, packager),
		Auth:     rh.NewAuthHandler(store, tokens, cfg.secureCookies),
	}
	router := api.SetupRoutes(handlers, api.RouterConfig{
		Tokens:            tokens,
		AuthRequired:      cfg.authRequired,
		GenerateRateLimit: defaultGenerateRateLimit,
		AuthRateLimit:     defaultAuthRateLimit,
	})

	return startServer(cfg.port, router)
}

func setupStore(ctx context.Context, cfg config) (datastore.Store, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	switch cfg.dbDriver {
	case "memory", "":
		log.Println("WARNING: Using the in-memory store. Data is lost when the process exits.")
		return datastore.NewMemoryStore(), nil
	case datastore.DriverPostgres, datastore.DriverSQLite:
		store, err := datastore.OpenSQLStore(ctx, cfg.dbDriver, cfg.databaseURL)
		if err != nil {
			return nil, err
		}
		log.Printf("Database connection successful (%s)", cfg.dbDriver)
		return store, nil
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.dbDriver)
	}
}

func newGenerationService(cfg config) *generation.Service {
	var text generation.TextClient
	if cfg.anthropicAPIKey != "" {
		text = generation.NewClaudeClient(cfg.anthropicAPIKey, cfg.anthropicModel, cfg.generationTimeout, cfg.generationRetries)
	}
	image := generation.NewHordeClient(cfg.hordeAPIKey, cfg.generationTimeout, cfg.generationRetries)
	return generation.NewService(text, image, cfg.generationRPS)
}

func newPackager(cfg config) *ebook.Packager {
	var printer ebook.Printer
	if cfg.printEnabled {
		printer = ebook.NewChromePrinter(cfg.chromePath, defaultPrintTimeout)
	} else {
		log.Println("WARNING: PRINT_ENABLED=false. PDF exports will be delivered as printable HTML.")
	}
	return ebook.NewPackager(printer, ebook.NewHTTPCoverFetcher(cfg.coverFetchTimeout, cfg.coverFetchRetries))
}

func startServer(port string, router http.Handler) error {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	shutdownSignal := make(chan os.Signal, 1)
	signal.Notify(shutdownSignal, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(shutdownSignal)

	serverErr := make(chan error, 1)
	go func() {
		log.Printf("Server starting on port %s", port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-shutdownSignal: // Block until signal received
	}
	log.Println("Shutdown signal received, initiating graceful shutdown...")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Graceful shutdown failed: %v", err)
		return err
	}

	log.Println("Server gracefully stopped")
	return nil
}
