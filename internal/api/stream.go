package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"studymate.dev/presentation/internal/core"
	"studymate.dev/presentation/internal/logging"
	"studymate.dev/presentation/internal/store"
)

const (
	streamTypeChunk      = "chunk"
	streamTypeCompletion = "completion"
	streamTypeError      = "error"

	streamWriteTimeout = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

type StreamRequest struct {
	Question string `json:"question"`
}

type StreamEvent struct {
	Type      string           `json:"type"`
	Text      string           `json:"text,omitempty"`
	Error     string           `json:"error,omitempty"`
	Session   *SessionResponse `json:"session,omitempty"`
	Timestamp int64            `json:"timestamp"`
}

// StreamHandler answers questions over a websocket. Each question frame is
// followed by zero or more chunk events and then exactly one completion or
// error event carrying the updated session.
func (h *APIHandler) StreamHandler(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := h.chatService.GetSession(sessionID); err != nil {
		writeServiceError(w, err, nil)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error("WebSocket upgrade failed", err)
		return
	}
	defer conn.Close()

	logging.Infof("WebSocket connection established for session %s", sessionID)

	for {
		var req StreamRequest
		if err := conn.ReadJSON(&req); err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logging.Warnf("Reading from WebSocket failed for session %s: %v", sessionID, err)
			}
			return
		}

		view, err := h.chatService.AskStream(r.Context(), sessionID, req.Question, func(chunk string) error {
			return writeEvent(conn, StreamEvent{Type: streamTypeChunk, Text: chunk})
		})
		if err != nil {
			if !h.writeStreamError(conn, err, view) {
				return
			}
			continue
		}

		if err := writeEvent(conn, StreamEvent{Type: streamTypeCompletion, Session: newSessionResponse(view)}); err != nil {
			logging.Warnf("Writing completion failed for session %s: %v", sessionID, err)
			return
		}
	}
}

// writeStreamError reports err to the client and says whether the
// connection is still usable.
func (h *APIHandler) writeStreamError(conn *websocket.Conn, err error, view store.SessionView) bool {
	event := StreamEvent{Type: streamTypeError, Error: errorMessage(err)}
	if view.ID != "" {
		event.Session = newSessionResponse(view)
	}
	if errors.Is(err, core.ErrGenerationFailed) && view.Error != "" {
		event.Error = view.Error
	}

	if werr := writeEvent(conn, event); werr != nil {
		logging.Warnf("Writing error event failed: %v", werr)
		return false
	}
	return !errors.Is(err, core.ErrSessionNotFound)
}

func writeEvent(conn *websocket.Conn, event StreamEvent) error {
	event.Timestamp = time.Now().UnixMilli()
	if err := conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout)); err != nil {
		return err
	}
	return conn.WriteJSON(event)
}
