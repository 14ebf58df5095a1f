package study

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"summaryplus/internal/service/ai"
	"summaryplus/internal/session"
)

const (
	// MaxFileBytes is the per-file upload ceiling.
	MaxFileBytes = 10 << 20
	// TextContextLimit caps how many characters of a text-like file are
	// inlined into the question context.
	TextContextLimit = 4000

	maxConcurrentAnalyses = 4
	defaultAITimeout      = 2 * time.Minute
)

// ErrNoFiles reports an upload request that carried no files.
var ErrNoFiles = errors.New("no files provided")

// Searcher is the optional web-search collaborator used when a question
// explicitly asks for it.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

// Config carries the service collaborators and knobs.
type Config struct {
	Store            session.Store
	Generator        ai.Generator
	Search           Searcher
	Logger           *zap.Logger
	AllowTextUploads bool
	AITimeout        time.Duration
}

// Service implements the session-scoped multi-file chat context: file
// ingest with tag generation, and question answering over selected files.
type Service struct {
	store     session.Store
	generator ai.Generator
	search    Searcher
	logger    *zap.Logger
	allowText bool
	aiTimeout time.Duration
}

func NewService(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.AITimeout
	if timeout <= 0 {
		timeout = defaultAITimeout
	}
	return &Service{
		store:     cfg.Store,
		generator: cfg.Generator,
		search:    cfg.Search,
		logger:    logger,
		allowText: cfg.AllowTextUploads,
		aiTimeout: timeout,
	}
}
