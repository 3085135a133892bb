package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/coreybb/quill/auth"
	rh "github.com/coreybb/quill/route-handlers"
	"github.com/coreybb/quill/webutil"
)

const (
	apiBasePath      = "/api"
	booksBasePath    = "/books"
	generateBasePath = "/generate"
	authBasePath     = "/auth"
	exportBasePath   = "/export"
)

const (
	chaptersSubPath = "/chapters"
	coversSubPath   = "/covers"
	exportSubPath   = "/export"
)

const (
	paramID     = "id"     // General parameter name for resource IDs
	paramBookID = "bookId" // Parent book for nested chapter and cover routes
)

const (
	defaultRequestTimeout = 60 * time.Second
	// Generation, upload and export call out to slow collaborators.
	longRequestTimeout = 5 * time.Minute
)

// Handlers groups every route handler the router mounts.
type Handlers struct {
	Books    *rh.BookHandler
	Chapters *rh.ChapterHandler
	Covers   *rh.CoverHandler
	Generate *rh.GenerateHandler
	Upload   *rh.UploadHandler
	Export   *rh.ExportHandler
	Auth     *rh.AuthHandler
}

// RouterConfig controls authentication and rate limiting.
type RouterConfig struct {
	Tokens       *auth.Manager
	AuthRequired bool
	// Requests per minute per client IP on generation and auth routes. Zero disables limiting.
	GenerateRateLimit int
	AuthRateLimit     int
}

func SetupRoutes(h Handlers, cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)                                                 // Log every request
	r.Use(middleware.Recoverer)                                              // Recover from panics
	r.Use(SetHeader(webutil.HeaderContentType, webutil.ContentTypeJSONUTF8)) // Default Content-Type
	if cfg.Tokens != nil {
		r.Use(cfg.Tokens.Middleware)
	}

	short := middleware.Timeout(defaultRequestTimeout)
	long := middleware.Timeout(longRequestTimeout)

	r.Route(apiBasePath, func(r chi.Router) {
		configureAuthRoutes(r.With(short), h.Auth, cfg.AuthRateLimit)

		r.Group(func(r chi.Router) {
			if cfg.AuthRequired {
				r.Use(auth.RequireUser)
			}
			configureBookRoutes(r, h.Books, h.Chapters, h.Covers, h.Export, short, long)
			configureGenerateRoutes(r.With(long), h.Generate, cfg.GenerateRateLimit)
			r.With(short).Get("/stats", webutil.MakeHandler(h.Books.HandleGetStats))
			r.With(short).Get(exportBasePath+"/presets", webutil.MakeHandler(h.Export.HandleGetPresets))
			r.With(long).Post("/upload", webutil.MakeHandler(h.Upload.HandleUpload))
		})
	})

	// Health check endpoint
	r.Get("/healthz", handleHealthCheck)

	return r
}

// Helper for constructing paths with a parameter
func pathWithParam(basePath string, paramName string) string {
	if basePath == "" {
		return "/{" + paramName + "}"
	}
	return basePath + "/{" + paramName + "}"
}

// --- Book Routes ---
// Everything scoped to one book hangs off a single {bookId} subroute.
func configureBookRoutes(
	r chi.Router,
	books *rh.BookHandler,
	chapters *rh.ChapterHandler,
	covers *rh.CoverHandler,
	export *rh.ExportHandler,
	short, long func(http.Handler) http.Handler,
) {
	specificBookPath := pathWithParam("", paramBookID) // e.g., "/{bookId}"
	specificChapterPath := pathWithParam("", paramID)  // chapter id under a book

	r.Route(booksBasePath, func(r chi.Router) {
		r.With(short).Get("/", webutil.MakeHandler(books.HandleGetBooks))
		r.With(short).Post("/", webutil.MakeHandler(books.HandleCreateBook))
		r.Route(specificBookPath, func(r chi.Router) {
			r.With(long).Post(exportSubPath, webutil.MakeHandler(export.HandleExportBook)) // POST /books/{bookId}/export

			r.Group(func(r chi.Router) {
				r.Use(short)
				r.Get("/", webutil.MakeHandler(books.HandleGetBook))
				r.Patch("/", webutil.MakeHandler(books.HandleUpdateBook))
				r.Delete("/", webutil.MakeHandler(books.HandleDeleteBook))

				r.Route(chaptersSubPath, func(r chi.Router) {
					r.Get("/", webutil.MakeHandler(chapters.HandleGetChapters))
					r.Post("/", webutil.MakeHandler(chapters.HandleCreateChapter))
					r.Route(specificChapterPath, func(r chi.Router) {
						r.Get("/", webutil.MakeHandler(chapters.HandleGetChapter))
						r.Patch("/", webutil.MakeHandler(chapters.HandleUpdateChapter))
						r.Delete("/", webutil.MakeHandler(chapters.HandleDeleteChapter))
					})
				})

				r.Route(coversSubPath, func(r chi.Router) {
					r.Get("/", webutil.MakeHandler(covers.HandleGetCovers))
					r.Post("/", webutil.MakeHandler(covers.HandleCreateCover))
				})
			})
		})
	})
}

// --- Generation Routes ---
func configureGenerateRoutes(r chi.Router, handler *rh.GenerateHandler, perMinute int) {
	r.Route(generateBasePath, func(r chi.Router) {
		if perMinute > 0 {
			r.Use(limitByIP(perMinute))
		}
		r.Post("/outline", webutil.MakeHandler(handler.HandleGenerateOutline))
		r.Post("/chapter", webutil.MakeHandler(handler.HandleGenerateChapter))
		r.Post("/description", webutil.MakeHandler(handler.HandleGenerateDescription))
		r.Post("/keywords", webutil.MakeHandler(handler.HandleGenerateKeywords))
		r.Post("/cover", webutil.MakeHandler(handler.HandleGenerateCover))
	})
}

// --- Auth Routes ---
func configureAuthRoutes(r chi.Router, handler *rh.AuthHandler, perMinute int) {
	r.Route(authBasePath, func(r chi.Router) {
		r.Group(func(r chi.Router) {
			if perMinute > 0 {
				r.Use(limitByIP(perMinute))
			}
			r.Post("/register", webutil.MakeHandler(handler.HandleRegister))
			r.Post("/login", webutil.MakeHandler(handler.HandleLogin))
		})
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser)
			r.Post("/logout", webutil.MakeHandler(handler.HandleLogout))
			r.Get("/me", webutil.MakeHandler(handler.HandleMe))
		})
	})
}

// --- Utility Functions ---

// handleHealthCheck responds to a health check request.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(webutil.HeaderContentType, webutil.ContentTypeTextPlainUTF8)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
