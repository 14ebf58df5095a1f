package study

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"summaryplus/internal/models"
	"summaryplus/internal/service/ai"
	"summaryplus/internal/session"
)

type genCall struct {
	history []models.ChatTurn
	parts   []ai.Part
}

// fakeGenerator records every call and answers via respond, or with a fixed
// reply when respond is nil.
type fakeGenerator struct {
	mu      sync.Mutex
	calls   []genCall
	respond func(history []models.ChatTurn, parts []ai.Part) (string, error)
}

func (f *fakeGenerator) Generate(_ context.Context, history []models.ChatTurn, parts []ai.Part) (string, error) {
	f.mu.Lock()
	f.calls = append(f.calls, genCall{history: history, parts: parts})
	fn := f.respond
	f.mu.Unlock()
	if fn == nil {
		return "respuesta de prueba", nil
	}
	return fn(history, parts)
}

func (f *fakeGenerator) lastCall(t *testing.T) genCall {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	require.NotEmpty(t, f.calls)
	return f.calls[len(f.calls)-1]
}

type fakeSearcher struct {
	results string
	err     error
	queries []string
}

func (f *fakeSearcher) Search(_ context.Context, query string) (string, error) {
	f.queries = append(f.queries, query)
	return f.results, f.err
}

type testEnv struct {
	service   *Service
	store     session.Store
	generator *fakeGenerator
	logs      *observer.ObservedLogs
}

func newTestEnv(t *testing.T, opts ...func(*Config)) *testEnv {
	t.Helper()
	core, logs := observer.New(zap.WarnLevel)
	gen := &fakeGenerator{}
	cfg := Config{
		Store:     session.NewMemoryStore(time.Hour),
		Generator: gen,
		Logger:    zap.New(core),
		AITimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &testEnv{
		service:   NewService(cfg),
		store:     cfg.Store,
		generator: gen,
		logs:      logs,
	}
}

func withTextUploads(cfg *Config) { cfg.AllowTextUploads = true }

func pngUpload(name string, data []byte) Upload {
	return Upload{Name: name, MIMEType: "image/png", Size: int64(len(data)), Data: data}
}

func pdfUpload(name string, data []byte) Upload {
	return Upload{Name: name, MIMEType: "application/pdf", Size: int64(len(data)), Data: data}
}

func skipReasons(logs *observer.ObservedLogs) []string {
	var reasons []string
	for _, entry := range logs.FilterMessage("archivo omitido").All() {
		for _, field := range entry.Context {
			if field.Key == "reason" {
				reasons = append(reasons, field.String)
			}
		}
	}
	return reasons
}

func TestUploadAndAnalyzeStoresFiles(t *testing.T) {
	env := newTestEnv(t)
	env.generator.respond = func(_ []models.ChatTurn, _ []ai.Part) (string, error) {
		return "#química, #apuntes, laboratorio", nil
	}

	result, err := env.service.UploadAndAnalyze(context.Background(), "", []Upload{
		pngUpload("foto.png", []byte("img-bytes")),
		pdfUpload("tema1.pdf", []byte("pdf-bytes")),
	})
	require.NoError(t, err)
	require.Len(t, result.NewFiles, 2)
	require.Len(t, result.Files, 2)
	require.Equal(t, 2, result.TotalFilesInSession)
	require.NotEmpty(t, result.SessionID)
	require.Equal(t, "foto.png", result.NewFiles[0].Name)
	require.Equal(t, "tema1.pdf", result.NewFiles[1].Name)
	require.Equal(t, []string{"química", "apuntes", "laboratorio"}, result.NewFiles[0].Hashtags)

	sess, err := env.store.Get(context.Background(), result.SessionID)
	require.NoError(t, err)
	img := sess.Files[result.NewFiles[0].ID]
	require.True(t, img.IsImage)
	require.Equal(t, base64.StdEncoding.EncodeToString([]byte("img-bytes")), img.Content)
	pdf := sess.Files[result.NewFiles[1].ID]
	require.False(t, pdf.IsImage)
	require.Equal(t, "application/pdf", pdf.MIMEType)
}

func TestUploadAndAnalyzeAccumulatesAcrossRequests(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	first, err := env.service.UploadAndAnalyze(ctx, "", []Upload{pngUpload("a.png", []byte("a"))})
	require.NoError(t, err)

	second, err := env.service.UploadAndAnalyze(ctx, first.SessionID, []Upload{pngUpload("b.png", []byte("b"))})
	require.NoError(t, err)
	require.Equal(t, first.SessionID, second.SessionID)
	require.Len(t, second.NewFiles, 1)
	require.Len(t, second.Files, 2)
	require.Equal(t, 2, second.TotalFilesInSession)
	require.Equal(t, "a.png", second.Files[0].Name)
	require.Equal(t, "b.png", second.Files[1].Name)
}

func TestUploadAndAnalyzeSkipsOversized(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.service.UploadAndAnalyze(context.Background(), "", []Upload{
		{Name: "enorme.png", MIMEType: "image/png", Size: MaxFileBytes + 1},
		pngUpload("ok.png", []byte("ok")),
	})
	require.NoError(t, err)
	require.Len(t, result.NewFiles, 1)
	require.Equal(t, "ok.png", result.NewFiles[0].Name)
	require.Equal(t, []string{"oversized"}, skipReasons(env.logs))
}

func TestUploadAndAnalyzeSkipsUnsupportedMime(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.service.UploadAndAnalyze(context.Background(), "", []Upload{
		{Name: "tarea.docx", MIMEType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", Size: 10, Data: []byte("0123456789")},
		pngUpload("ok.png", []byte("ok")),
	})
	require.NoError(t, err)
	require.Len(t, result.NewFiles, 1)
	require.Equal(t, 1, result.TotalFilesInSession)
	require.Equal(t, []string{"unsupported_mime"}, skipReasons(env.logs))
}

func TestUploadAndAnalyzeTextChannelDisabledByDefault(t *testing.T) {
	env := newTestEnv(t)

	result, err := env.service.UploadAndAnalyze(context.Background(), "", []Upload{
		{Name: "notas.txt", MIMEType: "text/plain", Size: 4, Data: []byte("hola")},
		pngUpload("ok.png", []byte("ok")),
	})
	require.NoError(t, err)
	require.Len(t, result.NewFiles, 1)
	require.Equal(t, []string{"unsupported_mime"}, skipReasons(env.logs))
}

func TestUploadAndAnalyzeTextChannelEnabled(t *testing.T) {
	env := newTestEnv(t, withTextUploads)

	result, err := env.service.UploadAndAnalyze(context.Background(), "", []Upload{
		{Name: "notas.txt", MIMEType: "text/plain", Size: 4, Data: []byte("hola")},
	})
	require.NoError(t, err)
	require.Len(t, result.NewFiles, 1)

	sess, err := env.store.Get(context.Background(), result.SessionID)
	require.NoError(t, err)
	stored := sess.Files[result.NewFiles[0].ID]
	require.False(t, stored.IsImage)
	require.Equal(t, "hola", stored.Content)
}

func TestUploadAndAnalyzeTagFailureFallsBack(t *testing.T) {
	env := newTestEnv(t)
	env.generator.respond = func(_ []models.ChatTurn, parts []ai.Part) (string, error) {
		if strings.Contains(parts[1].MIME, "pdf") {
			return "", errors.New("deadline exceeded")
		}
		return "#uno, #dos", nil
	}

	result, err := env.service.UploadAndAnalyze(context.Background(), "", []Upload{
		pngUpload("a.png", []byte("a")),
		pdfUpload("b.pdf", []byte("b")),
		pngUpload("c.png", []byte("c")),
	})
	require.NoError(t, err)
	require.Len(t, result.NewFiles, 3)
	require.Equal(t, []string{"uno", "dos"}, result.NewFiles[0].Hashtags)
	require.Equal(t, defaultHashtags(), result.NewFiles[1].Hashtags)
	require.Equal(t, []string{"uno", "dos"}, result.NewFiles[2].Hashtags)
	require.Equal(t, 1, env.logs.FilterMessage("generación de hashtags falló").Len())
}

func TestUploadAndAnalyzeEmptyTagResponseFallsBack(t *testing.T) {
	env := newTestEnv(t)
	env.generator.respond = func(_ []models.ChatTurn, _ []ai.Part) (string, error) {
		return "  , #  ,", nil
	}

	result, err := env.service.UploadAndAnalyze(context.Background(), "", []Upload{pngUpload("a.png", []byte("a"))})
	require.NoError(t, err)
	require.Equal(t, defaultHashtags(), result.NewFiles[0].Hashtags)
}

func TestUploadAndAnalyzeNoFiles(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.UploadAndAnalyze(context.Background(), "", nil)
	require.ErrorIs(t, err, ErrNoFiles)
}

func TestUploadAndAnalyzeWithoutGenerator(t *testing.T) {
	env := newTestEnv(t, func(cfg *Config) { cfg.Generator = nil })

	_, err := env.service.UploadAndAnalyze(context.Background(), "", []Upload{pngUpload("a.png", []byte("a"))})
	require.ErrorIs(t, err, ai.ErrMissingAPIKey)
}

func TestParseHashtags(t *testing.T) {
	cases := []struct {
		raw  string
		want []string
	}{
		{"#física, #ondas, #laboratorio", []string{"física", "ondas", "laboratorio"}},
		{"física, ondas", []string{"física", "ondas"}},
		{"  #uno ,  dos  , ,", []string{"uno", "dos"}},
		{"", nil},
		{" , , ", nil},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, parseHashtags(tc.raw), "raw=%q", tc.raw)
	}
}

func TestTruncateRunes(t *testing.T) {
	require.Equal(t, "holá", truncateRunes("holá", 10))
	require.Equal(t, "ñoñ", truncateRunes("ñoño", 3))
	require.Equal(t, "", truncateRunes("", 5))
}
