package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/go-chi/chi/v5"
	"studymate.dev/presentation/internal/core"
	"studymate.dev/presentation/internal/logging"
	"studymate.dev/presentation/internal/site"
)

// Room for multipart boundaries and headers on top of the file itself.
const multipartOverhead = 64 << 10

type APIHandler struct {
	chatService    *core.ChatService
	site           *site.Site
	maxUploadBytes int64
}

func NewAPIHandler(cs *core.ChatService, s *site.Site, maxUploadBytes int64) *APIHandler {
	return &APIHandler{chatService: cs, site: s, maxUploadBytes: maxUploadBytes}
}

func (h *APIHandler) IndexHandler(w http.ResponseWriter, r *http.Request) {
	page, err := h.site.Render()
	if err != nil {
		logging.Error("Error rendering page", err)
		http.Error(w, "Failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(page)
}

func (h *APIHandler) CreateSessionHandler(w http.ResponseWriter, r *http.Request) {
	view := h.chatService.CreateSession()
	writeJSON(w, http.StatusCreated, newSessionResponse(view))
}

func (h *APIHandler) GetSessionHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.chatService.GetSession(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeServiceError(w, err, nil)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(view))
}

func (h *APIHandler) DeleteSessionHandler(w http.ResponseWriter, r *http.Request) {
	h.chatService.EndSession(chi.URLParam(r, "sessionID"))
	w.WriteHeader(http.StatusNoContent)
}

func (h *APIHandler) AttachFileHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := h.chatService.GetSession(sessionID); err != nil {
		writeServiceError(w, err, nil)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes+multipartOverhead)
	file, header, err := r.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large") {
			h.rejectTooLarge(w, sessionID)
			return
		}
		writeError(w, http.StatusBadRequest, "Invalid upload: "+err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxUploadBytes+1))
	if err != nil {
		logging.Errorf("Error reading upload for session %s: %v", sessionID, err)
		writeError(w, http.StatusBadRequest, "Failed to read upload")
		return
	}
	if int64(len(data)) > h.maxUploadBytes {
		h.rejectTooLarge(w, sessionID)
		return
	}

	view, err := h.chatService.AttachFile(sessionID, header.Filename, header.Header.Get("Content-Type"), data)
	if err != nil {
		writeServiceError(w, err, &view)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(view))
}

func (h *APIHandler) rejectTooLarge(w http.ResponseWriter, sessionID string) {
	reason := fmt.Sprintf("File is too large. The limit is %s.", humanize.IBytes(uint64(h.maxUploadBytes)))
	view, err := h.chatService.RejectFile(sessionID, reason)
	if err != nil {
		writeServiceError(w, err, nil)
		return
	}
	writeServiceError(w, core.ErrFileTooLarge, &view)
}

func (h *APIHandler) RemoveFileHandler(w http.ResponseWriter, r *http.Request) {
	view, err := h.chatService.RemoveFile(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeServiceError(w, err, &view)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(view))
}

type PostMessageRequest struct {
	Question string `json:"question"`
}

func (h *APIHandler) PostMessageHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	var req PostMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	view, err := h.chatService.Ask(r.Context(), sessionID, req.Question)
	if err != nil {
		writeServiceError(w, err, &view)
		return
	}
	writeJSON(w, http.StatusOK, newSessionResponse(view))
}
