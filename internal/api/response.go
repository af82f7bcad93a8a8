package api

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"

	"studymate.dev/presentation/internal/core"
	"studymate.dev/presentation/internal/logging"
	"studymate.dev/presentation/internal/site"
	"studymate.dev/presentation/internal/store"
)

type MessageView struct {
	Role store.Role    `json:"role"`
	Text string        `json:"text"`
	HTML template.HTML `json:"html"`
}

type SessionResponse struct {
	ID       string            `json:"id"`
	Messages []MessageView     `json:"messages"`
	File     *store.Attachment `json:"file"`
	Error    string            `json:"error"`
	Pending  bool              `json:"pending"`
}

type ErrorResponse struct {
	Error   string           `json:"error"`
	Session *SessionResponse `json:"session,omitempty"`
}

func newSessionResponse(v store.SessionView) *SessionResponse {
	msgs := make([]MessageView, 0, len(v.Messages))
	for _, m := range v.Messages {
		mv := MessageView{Role: m.Role, Text: m.Text}
		if m.Role == store.RoleModel {
			mv.HTML = site.RenderMarkdown(m.Text)
		} else {
			mv.HTML = site.RenderPlain(m.Text)
		}
		msgs = append(msgs, mv)
	}

	return &SessionResponse{
		ID:       v.ID,
		Messages: msgs,
		File:     v.File,
		Error:    v.Error,
		Pending:  v.Pending,
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		logging.Error("encoding response", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeServiceError maps core errors to status codes. When the session is
// known its current state goes along with the error.
func writeServiceError(w http.ResponseWriter, err error, view *store.SessionView) {
	resp := ErrorResponse{Error: errorMessage(err)}
	if view != nil && view.ID != "" {
		resp.Session = newSessionResponse(*view)
	}
	writeJSON(w, statusFor(err), resp)
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, core.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrUnsupportedFileType):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, core.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrEmptyQuestion):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrRequestPending):
		return http.StatusConflict
	case errors.Is(err, core.ErrGenerationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func errorMessage(err error) string {
	switch {
	case errors.Is(err, core.ErrSessionNotFound):
		return "Session not found"
	case errors.Is(err, core.ErrUnsupportedFileType):
		return "Unsupported file type. Please upload an image or a PDF."
	case errors.Is(err, core.ErrFileTooLarge):
		return "File is too large"
	case errors.Is(err, core.ErrEmptyQuestion):
		return "Question cannot be empty"
	case errors.Is(err, core.ErrRequestPending):
		return "A request is already in progress"
	case errors.Is(err, core.ErrGenerationFailed):
		return "Failed to get a response"
	default:
		return "Internal server error"
	}
}
