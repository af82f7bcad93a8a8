package store

import (
	"sync"
	"time"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

type Message struct {
	Role Role   `json:"role"`
	Text string `json:"text"`
}

type FileKind string

const (
	FileKindImage FileKind = "image"
	FileKindPDF   FileKind = "pdf"
)

// Attachment is the single file a session may hold. For PDFs Data is
// always empty and Preview carries the mock document.
type Attachment struct {
	Name     string   `json:"name"`
	MIMEType string   `json:"mime_type"`
	Kind     FileKind `json:"kind"`
	Data     []byte   `json:"-"`
	Preview  string   `json:"preview"`
}

// Session is the demo panel state of one page view.
// Callers must hold the lock while reading or mutating fields.
type Session struct {
	ID        string
	Messages  []Message
	File      *Attachment
	Error     string
	Pending   bool
	CreatedAt time.Time

	mu sync.Mutex
}

func (s *Session) Lock()   { s.mu.Lock() }
func (s *Session) Unlock() { s.mu.Unlock() }

// SessionView is an immutable copy of a session suitable for encoding.
type SessionView struct {
	ID       string      `json:"id"`
	Messages []Message   `json:"messages"`
	File     *Attachment `json:"file"`
	Error    string      `json:"error"`
	Pending  bool        `json:"pending"`
}

// View copies the session. The caller must hold the lock.
func (s *Session) View() SessionView {
	msgs := make([]Message, len(s.Messages))
	copy(msgs, s.Messages)

	var file *Attachment
	if s.File != nil {
		f := *s.File
		file = &f
	}

	return SessionView{
		ID:       s.ID,
		Messages: msgs,
		File:     file,
		Error:    s.Error,
		Pending:  s.Pending,
	}
}
