package api

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"summaryplus/internal/dashboard"
	"summaryplus/internal/service/ai"
	"summaryplus/internal/service/study"
	"summaryplus/internal/session"
)

// User-facing messages stay in Spanish, matching the product.
const (
	msgNoFiles        = "No se han subido archivos."
	msgMissingData    = "Faltan datos: pregunta o archivos seleccionados."
	msgSessionMissing = "Sesión no encontrada. Por favor, sube los archivos de nuevo."
	msgNoAPIKey       = "API key de Gemini no configurada. Revisa tu archivo .env"
	msgInvalidAPIKey  = "API key de Gemini inválida o no configurada correctamente."
	msgQuotaExceeded  = "Has excedido el límite de la API de Gemini. Intenta más tarde."
)

// Handler wires HTTP routes to the study service.
type Handler struct {
	study  *study.Service
	logger *zap.Logger
}

// NewHandler constructs a Handler instance.
func NewHandler(service *study.Service, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{study: service, logger: logger}
}

// RegisterRoutes attaches all HTTP routes to the router.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api")
	api.POST("/upload-and-analyze", h.uploadAndAnalyze)
	api.POST("/ask-question", h.askQuestion)
	api.GET("/ranking", h.getRanking)
	api.GET("/subscription/plans", h.getPlans)
}

func (h *Handler) uploadAndAnalyze(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNoFiles})
		return
	}
	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNoFiles})
		return
	}
	sessionID := c.PostForm("sessionId")

	uploads := make([]study.Upload, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		up := study.Upload{
			Name:     filepath.Base(fh.Filename),
			MIMEType: fh.Header.Get("Content-Type"),
			Size:     fh.Size,
		}
		// Oversized files are skipped downstream; don't buffer their bytes.
		if fh.Size <= study.MaxFileBytes {
			data, err := readUpload(fh)
			if err != nil {
				h.logger.Warn("no se pudo leer el archivo subido",
					zap.String("file", up.Name), zap.Error(err))
				continue
			}
			up.Data = data
		}
		uploads = append(uploads, up)
	}

	result, err := h.study.UploadAndAnalyze(c.Request.Context(), sessionID, uploads)
	if err != nil {
		h.writeServiceError(c, err, "Error durante el análisis de los archivos: ")
		return
	}
	c.JSON(http.StatusOK, result)
}

type questionRequest struct {
	Question        string   `json:"question"`
	SelectedFileIDs []string `json:"selectedFileIds"`
	SessionID       string   `json:"sessionId"`
}

func (h *Handler) askQuestion(c *gin.Context) {
	var req questionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingData})
		return
	}
	if req.Question == "" || len(req.SelectedFileIDs) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": msgMissingData})
		return
	}

	answer, err := h.study.AskQuestion(c.Request.Context(), req.SessionID, req.Question, req.SelectedFileIDs)
	if err != nil {
		h.writeServiceError(c, err, "Error al procesar la pregunta: ")
		return
	}
	c.JSON(http.StatusOK, gin.H{"answer": answer})
}

func (h *Handler) getRanking(c *gin.Context) {
	scope := c.DefaultQuery("scope", "country")
	c.JSON(http.StatusOK, gin.H{
		"scope":   scope,
		"ranking": dashboard.Ranking(scope),
	})
}

func (h *Handler) getPlans(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"plans": dashboard.PlanComparison()})
}

// writeServiceError maps service failures onto the response taxonomy:
// configuration errors and unknown sessions get their fixed messages,
// external-service failures are classified by content, everything else is a
// generic server error carrying the given prefix.
func (h *Handler) writeServiceError(c *gin.Context, err error, genericPrefix string) {
	switch {
	case errors.Is(err, ai.ErrMissingAPIKey):
		c.JSON(http.StatusInternalServerError, gin.H{"error": msgNoAPIKey})
	case errors.Is(err, session.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": msgSessionMissing})
	case errors.Is(err, study.ErrNoFiles):
		c.JSON(http.StatusBadRequest, gin.H{"error": msgNoFiles})
	default:
		switch ai.ClassifyError(err) {
		case ai.KindInvalidKey:
			c.JSON(http.StatusInternalServerError, gin.H{"error": msgInvalidAPIKey})
		case ai.KindQuota:
			c.JSON(http.StatusTooManyRequests, gin.H{"error": msgQuotaExceeded})
		default:
			h.logger.Error("fallo inesperado", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": genericPrefix + err.Error()})
		}
	}
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
