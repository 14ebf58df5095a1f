package study

import (
	"context"
	"encoding/base64"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"summaryplus/internal/models"
	"summaryplus/internal/service/ai"
)

const (
	tagPromptImage = "Genera 5 hashtags relevantes en español sobre esta imagen, separados por comas. Responde únicamente con los hashtags."
	tagPromptPDF   = "Genera 5 hashtags relevantes en español sobre el contenido de este documento PDF, separados por comas. Responde únicamente con los hashtags."
	tagPromptText  = "Genera 5 hashtags relevantes en español sobre el contenido de este texto, separados por comas. Responde únicamente con los hashtags."
)

// defaultHashtags is the fallback when tag generation fails for a file.
func defaultHashtags() []string {
	return []string{"documento", "archivo"}
}

// Upload is one file as received from the client.
type Upload struct {
	Name     string
	MIMEType string
	Size     int64
	Data     []byte
}

// FileSummary is the per-file slice of the upload response.
type FileSummary struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Hashtags []string `json:"hashtags"`
}

// UploadResult is the full upload-and-analyze response payload.
type UploadResult struct {
	Files               []FileSummary `json:"files"`
	NewFiles            []FileSummary `json:"newFiles"`
	SessionID           string        `json:"sessionId"`
	TotalFilesInSession int           `json:"totalFilesInSession"`
}

// UploadAndAnalyze stores the uploads under the session (minting one when
// sessionID is blank or unknown) and derives descriptive hashtags for each
// file. Files that fail validation are skipped, never the whole batch.
func (s *Service) UploadAndAnalyze(ctx context.Context, sessionID string, uploads []Upload) (*UploadResult, error) {
	if s.generator == nil {
		return nil, ai.ErrMissingAPIKey
	}
	if len(uploads) == 0 {
		return nil, ErrNoFiles
	}

	sess, err := s.store.GetOrCreate(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	// Analyze uploads concurrently; slots keep result order aligned with
	// upload order. A nil slot means the file was skipped.
	analyzed := make([]*models.StoredFile, len(uploads))
	var g errgroup.Group
	g.SetLimit(maxConcurrentAnalyses)
	for i, up := range uploads {
		g.Go(func() error {
			analyzed[i] = s.analyzeUpload(ctx, up)
			return nil
		})
	}
	_ = g.Wait()

	newFiles := make([]FileSummary, 0, len(uploads))
	for _, f := range analyzed {
		if f == nil {
			continue
		}
		if err := s.store.AddFile(ctx, sess.ID, f); err != nil {
			return nil, err
		}
		newFiles = append(newFiles, FileSummary{ID: f.ID, Name: f.Name, Hashtags: f.Hashtags})
	}

	updated, err := s.store.Get(ctx, sess.ID)
	if err != nil {
		return nil, err
	}
	all := make([]FileSummary, 0, len(updated.FileOrder))
	for _, id := range updated.FileOrder {
		if f, ok := updated.Files[id]; ok {
			all = append(all, FileSummary{ID: f.ID, Name: f.Name, Hashtags: f.Hashtags})
		}
	}
	return &UploadResult{
		Files:               all,
		NewFiles:            newFiles,
		SessionID:           updated.ID,
		TotalFilesInSession: len(updated.Files),
	}, nil
}

// analyzeUpload validates and classifies one upload, returning nil when the
// file must be skipped. Skips emit a structured diagnostic so they stay
// observable.
func (s *Service) analyzeUpload(ctx context.Context, up Upload) *models.StoredFile {
	if up.Size > MaxFileBytes {
		s.logger.Warn("archivo omitido",
			zap.String("reason", "oversized"),
			zap.String("file", up.Name),
			zap.Int64("size", up.Size))
		return nil
	}

	var (
		content string
		isImage bool
		prompt  string
		parts   []ai.Part
	)
	switch {
	case strings.HasPrefix(up.MIMEType, "image/"):
		isImage = true
		content = base64.StdEncoding.EncodeToString(up.Data)
		prompt = tagPromptImage
		parts = []ai.Part{{Text: prompt}, {Data: up.Data, MIME: up.MIMEType}}
	case up.MIMEType == "application/pdf":
		content = base64.StdEncoding.EncodeToString(up.Data)
		prompt = tagPromptPDF
		parts = []ai.Part{{Text: prompt}, {Data: up.Data, MIME: up.MIMEType}}
	case s.allowText && strings.HasPrefix(up.MIMEType, "text/"):
		content = string(up.Data)
		prompt = tagPromptText
		parts = []ai.Part{{Text: prompt + "\n\n" + truncateRunes(content, TextContextLimit)}}
	default:
		s.logger.Warn("archivo omitido",
			zap.String("reason", "unsupported_mime"),
			zap.String("file", up.Name),
			zap.String("mime", up.MIMEType))
		return nil
	}

	return &models.StoredFile{
		ID:         uuid.NewString(),
		Name:       up.Name,
		Content:    content,
		MIMEType:   up.MIMEType,
		IsImage:    isImage,
		Hashtags:   s.generateHashtags(ctx, up.Name, parts),
		UploadedAt: time.Now().UTC(),
	}
}

// generateHashtags asks the model for tags and degrades to the default set
// on any failure so one bad call never sinks the upload.
func (s *Service) generateHashtags(ctx context.Context, fileName string, parts []ai.Part) []string {
	tagCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	defer cancel()

	raw, err := s.generator.Generate(tagCtx, nil, parts)
	if err != nil {
		s.logger.Warn("generación de hashtags falló",
			zap.String("file", fileName),
			zap.Error(err))
		return defaultHashtags()
	}
	tags := parseHashtags(raw)
	if len(tags) == 0 {
		return defaultHashtags()
	}
	return tags
}

func parseHashtags(raw string) []string {
	var tags []string
	for _, piece := range strings.Split(raw, ",") {
		tag := strings.TrimPrefix(strings.TrimSpace(piece), "#")
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
