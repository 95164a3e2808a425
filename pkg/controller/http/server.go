package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"

	"github.com/rtxtools/remixer/pkg/domain/interfaces"
	"github.com/rtxtools/remixer/pkg/domain/model"
)

// config holds internal HTTP server configuration
type config struct {
	addr       string
	owner      string
	repo       string
	archive    string
	extractDir string
	state      *model.AppState
}

// Option is a functional option for Server configuration
type Option func(*config)

// WithAddr sets the server address
func WithAddr(addr string) Option {
	return func(c *config) {
		c.addr = addr
	}
}

// WithRepository sets the repository the package is resolved from
func WithRepository(owner, repo string) Option {
	return func(c *config) {
		c.owner = owner
		c.repo = repo
	}
}

// WithWorkspace sets the archive path and the extraction directory
func WithWorkspace(archive, extractDir string) Option {
	return func(c *config) {
		c.archive = archive
		c.extractDir = extractDir
	}
}

// WithState sets the session state, typically preloaded from the registry
func WithState(state *model.AppState) Option {
	return func(c *config) {
		c.state = state
	}
}

// UseCases bundles the operations exposed by the control API
type UseCases struct {
	Resolver interfaces.ResolverUseCase
	Download interfaces.DownloadUseCase
	Extract  interfaces.ExtractUseCase
	Install  interfaces.InstallUseCase
	Registry interfaces.RegistryUseCase
	Opener   interfaces.DirectoryOpener
}

func (uc UseCases) validate() error {
	switch {
	case uc.Resolver == nil:
		return goerr.New("resolver use case is required")
	case uc.Download == nil:
		return goerr.New("download use case is required")
	case uc.Extract == nil:
		return goerr.New("extract use case is required")
	case uc.Install == nil:
		return goerr.New("install use case is required")
	case uc.Registry == nil:
		return goerr.New("registry use case is required")
	case uc.Opener == nil:
		return goerr.New("directory opener is required")
	}
	return nil
}

// Server represents the HTTP server
type Server struct {
	*http.Server
}

// handler serves the control API. mu serializes access to state, so at most one
// extract or install runs at a time.
type handler struct {
	uc  UseCases
	cfg *config

	mu    sync.Mutex
	state *model.AppState
}

// NewServer creates a new HTTP server
func NewServer(
	ctx context.Context,
	uc UseCases,
	opts ...Option,
) (*Server, error) {
	// Default configuration
	cfg := &config{
		addr:       "localhost:8787",
		owner:      "NVIDIAGameWorks",
		repo:       "rtx-remix",
		archive:    "rtx_remix.zip",
		extractDir: "rtx_remix",
	}

	// Apply options
	for _, opt := range opts {
		opt(cfg)
	}

	if err := uc.validate(); err != nil {
		return nil, err
	}

	state := cfg.state
	if state == nil {
		state = model.NewAppState()
	}
	h := &handler{uc: uc, cfg: cfg, state: state}

	router := chi.NewRouter()

	// Global middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(LoggingMiddleware(ctx))
	router.Use(middleware.Recoverer)

	// Health check
	router.Get("/health", h.handleHealth)

	router.Route("/api", func(r chi.Router) {
		r.Get("/games", h.handleListGames)
		r.Post("/scan", h.handleScan)
		r.Post("/select", h.handleSelect)
		r.Get("/release", h.handleRelease)
		r.Post("/download", h.handleStartDownload)
		r.Get("/download", h.handleGetDownload)
		r.Post("/extract", h.handleExtract)
		r.Post("/install", h.handleInstall)
		r.Post("/open", h.handleOpen)
	})

	server := &Server{
		Server: &http.Server{
			Addr:              cfg.addr,
			Handler:           router,
			ReadHeaderTimeout: 15 * time.Second,
		},
	}

	return server, nil
}
