package websearch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/tool/duckduckgo/v2"
	"github.com/cloudwego/eino-ext/components/tool/googlesearch"
	"github.com/cloudwego/eino/components/tool"
	"go.uber.org/zap"
)

const searchTimeout = 10 * time.Second

// Service answers free-text queries through Google Programmable Search when
// credentials are present, falling back to DuckDuckGo, which needs none.
type Service struct {
	google tool.InvokableTool
	duck   tool.InvokableTool
	logger *zap.Logger
}

// New wires the available search providers. Returns nil when none could be
// constructed so callers can treat the feature as absent.
func New(logger *zap.Logger) *Service {
	googleTool := initGoogleSearch(logger)
	duckTool := initDDGSearch(logger)
	if googleTool == nil && duckTool == nil {
		logger.Warn("búsqueda web deshabilitada: ningún proveedor disponible")
		return nil
	}
	return &Service{google: googleTool, duck: duckTool, logger: logger}
}

// Search runs the query against the first provider that succeeds.
func (s *Service) Search(ctx context.Context, query string) (string, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return "", errors.New("query must not be empty")
	}
	payloadBytes, err := json.Marshal(map[string]string{"query": query})
	if err != nil {
		return "", fmt.Errorf("marshal search params: %w", err)
	}
	payload := string(payloadBytes)

	ctx, cancel := context.WithTimeout(ctx, searchTimeout)
	defer cancel()

	if s.google != nil {
		if result, err := s.google.InvokableRun(ctx, payload); err == nil {
			return result, nil
		} else {
			s.logger.Warn("google search failed", zap.Error(err))
		}
	}
	if s.duck != nil {
		if result, err := s.duck.InvokableRun(ctx, payload); err == nil {
			return result, nil
		} else {
			s.logger.Warn("duckduckgo search failed", zap.Error(err))
		}
	}
	return "", errors.New("no search provider succeeded")
}

func initDDGSearch(logger *zap.Logger) tool.InvokableTool {
	duckTool, err := duckduckgo.NewTextSearchTool(context.Background(), &duckduckgo.Config{
		ToolName:   "web_search_ddg",
		ToolDesc:   "DuckDuckGo Search Tool (no token required)",
		MaxResults: 3,
		Region:     duckduckgo.RegionWT,
		Timeout:    searchTimeout,
	})
	if err != nil {
		logger.Warn("duckduckgo search disabled", zap.Error(err))
		return nil
	}
	return duckTool
}

func initGoogleSearch(logger *zap.Logger) tool.InvokableTool {
	apiKey := os.Getenv("GOOGLE_API_KEY")
	engineID := os.Getenv("GOOGLE_SEARCH_ENGINE_ID")
	if apiKey == "" || engineID == "" {
		return nil
	}
	googleTool, err := googlesearch.NewTool(context.Background(), &googlesearch.Config{
		ToolName:       "web_search_google",
		ToolDesc:       "Google Search Tool",
		APIKey:         apiKey,
		SearchEngineID: engineID,
		Lang:           "es",
		Num:            5,
	})
	if err != nil {
		logger.Warn("google search disabled", zap.Error(err))
		return nil
	}
	return googleTool
}
