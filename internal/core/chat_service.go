package core

import (
	"context"
	"fmt"
	"strings"
	"time"

	"studymate.dev/presentation/internal/logging"
	"studymate.dev/presentation/internal/store"
)

type ChatService struct {
	dbStore *store.MemoryStore
	llm     Generator
	timeout time.Duration
}

func NewChatService(db *store.MemoryStore, llm Generator, timeout time.Duration) *ChatService {
	return &ChatService{
		dbStore: db,
		llm:     llm,
		timeout: timeout,
	}
}

func (s *ChatService) CreateSession() store.SessionView {
	sess := s.dbStore.CreateSession()
	sess.Lock()
	defer sess.Unlock()
	return sess.View()
}

func (s *ChatService) GetSession(sessionID string) (store.SessionView, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return store.SessionView{}, err
	}
	sess.Lock()
	defer sess.Unlock()
	return sess.View(), nil
}

func (s *ChatService) EndSession(sessionID string) {
	s.dbStore.DeleteSession(sessionID)
}

// AttachFile replaces the session's file and clears its transcript. An
// unsupported file leaves transcript and file untouched and only sets the
// error banner.
func (s *ChatService) AttachFile(sessionID, name, declaredType string, data []byte) (store.SessionView, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return store.SessionView{}, err
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.Pending {
		return sess.View(), ErrRequestPending
	}

	sess.Error = ""
	file, err := IntakeFile(name, declaredType, data)
	if err != nil {
		sess.Error = unsupportedFileMessage
		return sess.View(), err
	}

	sess.File = file
	sess.Messages = []store.Message{}
	logging.Infow("file attached", "session", sess.ID, "kind", file.Kind, "mime", file.MIMEType, "bytes", len(data))
	return sess.View(), nil
}

// RejectFile records an upload refused before intake, e.g. for size.
func (s *ChatService) RejectFile(sessionID, reason string) (store.SessionView, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return store.SessionView{}, err
	}
	sess.Lock()
	defer sess.Unlock()
	sess.Error = reason
	return sess.View(), nil
}

func (s *ChatService) RemoveFile(sessionID string) (store.SessionView, error) {
	sess, err := s.session(sessionID)
	if err != nil {
		return store.SessionView{}, err
	}

	sess.Lock()
	defer sess.Unlock()

	if sess.Pending {
		return sess.View(), ErrRequestPending
	}

	sess.File = nil
	sess.Messages = []store.Message{}
	return sess.View(), nil
}

// Ask appends the question and the model's answer to the transcript. A
// failed generation is recorded in the transcript and error banner and is
// also returned wrapped in ErrGenerationFailed.
func (s *ChatService) Ask(ctx context.Context, sessionID, question string) (store.SessionView, error) {
	return s.ask(ctx, sessionID, question, s.llm.Generate)
}

// AskStream behaves like Ask but hands each piece of the answer to onChunk
// as it arrives.
func (s *ChatService) AskStream(ctx context.Context, sessionID, question string, onChunk func(string) error) (store.SessionView, error) {
	return s.ask(ctx, sessionID, question, func(ctx context.Context, req GenerationRequest) (string, error) {
		return s.llm.GenerateStream(ctx, req, onChunk)
	})
}

type generateFunc func(ctx context.Context, req GenerationRequest) (string, error)

func (s *ChatService) ask(ctx context.Context, sessionID, question string, generate generateFunc) (store.SessionView, error) {
	if strings.TrimSpace(question) == "" {
		return store.SessionView{}, ErrEmptyQuestion
	}

	sess, err := s.session(sessionID)
	if err != nil {
		return store.SessionView{}, err
	}

	sess.Lock()
	if sess.Pending {
		view := sess.View()
		sess.Unlock()
		return view, ErrRequestPending
	}
	sess.Error = ""
	sess.Messages = append(sess.Messages, store.Message{Role: store.RoleUser, Text: question})
	sess.Pending = true
	req := BuildRequest(question, sess.File)
	sess.Unlock()

	genCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	answer, genErr := generate(genCtx, req)

	sess.Lock()
	defer sess.Unlock()
	sess.Pending = false

	if genErr != nil {
		logging.Errorf("Error generating model response for session %s: %v", sess.ID, genErr)
		sess.Error = "Failed to get a response. " + genErr.Error()
		sess.Messages = append(sess.Messages, store.Message{
			Role: store.RoleModel,
			Text: "Sorry, I couldn't process that. " + genErr.Error(),
		})
		return sess.View(), fmt.Errorf("%w: %w", ErrGenerationFailed, genErr)
	}

	sess.Messages = append(sess.Messages, store.Message{Role: store.RoleModel, Text: answer})
	logging.Infow("answer generated", "session", sess.ID, "image", req.Image != nil, "latency", time.Since(start).String())
	return sess.View(), nil
}

func (s *ChatService) session(sessionID string) (*store.Session, error) {
	sess, ok := s.dbStore.GetSession(sessionID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, sessionID)
	}
	return sess, nil
}
