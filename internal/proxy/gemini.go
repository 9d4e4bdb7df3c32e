package proxy

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"notionpost/internal/generator"
)

type geminiReq struct {
	Prompt string `json:"prompt"`
	APIKey string `json:"apiKey"`
	Model  string `json:"model"`
}

// geminiResp mirrors the candidates envelope of the Gemini REST API so the
// front end can read either.
type geminiResp struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content candidateContent `json:"content"`
}

type candidateContent struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

func (s *Server) handleGeminiFunction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "only POST is supported")
		return
	}
	var req geminiReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}

	gen, err := s.newGenerator(r.Context(), generator.Settings{
		Provider: generator.ProviderGemini,
		Model:    req.Model,
		APIKey:   req.APIKey,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	text, err := gen.Generate(r.Context(), req.Prompt)
	if err != nil {
		s.logger.Warn("gemini call failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, geminiResp{
		Candidates: []candidate{{Content: candidateContent{Parts: []part{{Text: text}}}}},
	})
}
