package study

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"summaryplus/internal/models"
	"summaryplus/internal/service/ai"
)

const webSearchTrigger = "busca en la web"

const (
	instructionFromFiles = "Responde la siguiente pregunta del usuario basándote en el contenido de los archivos proporcionados. "
	instructionGeneral   = "Responde la siguiente pregunta del usuario. Puedes usar tu conocimiento general. "
	instructionAnalyze   = "Si te preguntan sobre un archivo específico, analiza ese archivo directamente. "

	hintBoth   = "IMPORTANTE: Puedes ver y analizar imágenes, así como leer documentos PDF. Todos los archivos están disponibles para tu análisis. "
	hintImages = "IMPORTANTE: Puedes ver y analizar las imágenes proporcionadas. "
	hintPDFs   = "IMPORTANTE: Puedes leer y analizar los documentos PDF proporcionados. "

	noteBoth   = "NOTA: Tienes imágenes y PDFs adjuntos en este mensaje. Puedes verlos y analizarlos directamente."
	noteImages = "NOTA: Tienes imágenes adjuntas en este mensaje que puedes ver y analizar."
	notePDFs   = "NOTA: Tienes documentos PDF adjuntos en este mensaje que puedes leer."
)

// AskQuestion builds the composite request for the question over the
// selected files, invokes the model with the session's prior turns, and on
// success records the exchange in the history.
func (s *Service) AskQuestion(ctx context.Context, sessionID, question string, selectedFileIDs []string) (string, error) {
	if s.generator == nil {
		return "", ai.ErrMissingAPIKey
	}

	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return "", err
	}

	var (
		contextBlock strings.Builder
		mediaParts   []ai.Part
		descriptions []string
		hasImages    bool
		hasPDFs      bool
	)
	for _, fileID := range selectedFileIDs {
		f, ok := sess.Files[fileID]
		if !ok {
			// Tolerated: answer from the remaining valid files.
			s.logger.Warn("archivo no encontrado en la sesión",
				zap.String("reason", "unknown_file_id"),
				zap.String("file_id", fileID),
				zap.String("session_id", sessionID))
			continue
		}
		switch {
		case f.IsImage:
			mime := f.MIMEType
			if mime == "" {
				mime = "image/jpeg"
			}
			data, err := base64.StdEncoding.DecodeString(f.Content)
			if err != nil {
				s.logger.Warn("contenido de archivo ilegible",
					zap.String("file_id", fileID), zap.Error(err))
				continue
			}
			mediaParts = append(mediaParts, ai.Part{Data: data, MIME: mime})
			descriptions = append(descriptions, fmt.Sprintf("- %s: Imagen adjunta que puedes ver y analizar", f.Name))
			hasImages = true
		case f.MIMEType == "application/pdf":
			data, err := base64.StdEncoding.DecodeString(f.Content)
			if err != nil {
				s.logger.Warn("contenido de archivo ilegible",
					zap.String("file_id", fileID), zap.Error(err))
				continue
			}
			mediaParts = append(mediaParts, ai.Part{Data: data, MIME: "application/pdf"})
			descriptions = append(descriptions, fmt.Sprintf("- %s: Documento PDF adjunto que puedes leer", f.Name))
			hasPDFs = true
		default:
			fmt.Fprintf(&contextBlock, "\n\n--- ARCHIVO: %s ---\n%s\n--- FIN DE %s ---\n\n",
				f.Name, truncateRunes(f.Content, TextContextLimit), f.Name)
			descriptions = append(descriptions, fmt.Sprintf("- %s: Archivo de texto incluido en el contexto", f.Name))
		}
	}

	contextText := contextBlock.String()
	if len(descriptions) > 0 {
		contextText = "Archivos disponibles para análisis:\n" + strings.Join(descriptions, "\n") + "\n\n" + contextText
	}

	searchWeb := strings.Contains(strings.ToLower(question), webSearchTrigger)
	if searchWeb && s.search != nil {
		if results, err := s.search.Search(ctx, question); err != nil {
			s.logger.Warn("búsqueda web falló", zap.Error(err))
		} else if results != "" {
			contextText += "\n\nResultados de búsqueda web:\n" + results + "\n"
		}
	}

	prompt := buildPrompt(question, contextText, searchWeb, hasImages, hasPDFs)
	parts := append([]ai.Part{{Text: prompt}}, mediaParts...)

	genCtx, cancel := context.WithTimeout(ctx, s.aiTimeout)
	defer cancel()
	answer, err := s.generator.Generate(genCtx, sess.History, parts)
	if err != nil {
		return "", err
	}

	if err := s.store.AppendTurns(ctx, sessionID,
		models.ChatTurn{Role: models.RoleUser, Content: question},
		models.ChatTurn{Role: models.RoleAssistant, Content: answer},
	); err != nil {
		return "", err
	}
	return answer, nil
}

func buildPrompt(question, contextText string, searchWeb, hasImages, hasPDFs bool) string {
	base := instructionFromFiles
	if searchWeb {
		base = instructionGeneral
	}
	switch {
	case hasImages && hasPDFs:
		base += hintBoth
	case hasImages:
		base += hintImages
	case hasPDFs:
		base += hintPDFs
	}
	base += instructionAnalyze

	prompt := fmt.Sprintf("%s\n\n%s\n\nPregunta del usuario: \"%s\"", base, contextText, question)
	switch {
	case hasImages && hasPDFs:
		prompt += "\n\n" + noteBoth
	case hasImages:
		prompt += "\n\n" + noteImages
	case hasPDFs:
		prompt += "\n\n" + notePDFs
	}
	return prompt
}
