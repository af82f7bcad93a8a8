package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"studymate.dev/presentation/internal/api"
	"studymate.dev/presentation/internal/core"
	"studymate.dev/presentation/internal/site"
	"studymate.dev/presentation/internal/store"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

type stubGenerator struct {
	mu       sync.Mutex
	answer   string
	chunks   []string
	err      error
	requests []core.GenerationRequest
}

func (g *stubGenerator) Generate(ctx context.Context, req core.GenerationRequest) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.err != nil {
		return "", g.err
	}
	return g.answer, nil
}

func (g *stubGenerator) GenerateStream(ctx context.Context, req core.GenerationRequest, onChunk func(string) error) (string, error) {
	g.mu.Lock()
	chunks, genErr := g.chunks, g.err
	g.requests = append(g.requests, req)
	g.mu.Unlock()

	var full strings.Builder
	for _, c := range chunks {
		full.WriteString(c)
		if err := onChunk(c); err != nil {
			return full.String(), err
		}
	}
	return full.String(), genErr
}

func newTestServer(t *testing.T, gen *stubGenerator) http.Handler {
	t.Helper()

	s, err := site.New()
	if err != nil {
		t.Fatalf("site.New failed: %v", err)
	}
	chatService := core.NewChatService(store.NewMemoryStore(time.Hour), gen, 5*time.Second)
	return api.NewRouter(api.NewAPIHandler(chatService, s, 1<<10))
}

func do(t *testing.T, srv http.Handler, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

func decodeSession(t *testing.T, w *httptest.ResponseRecorder) api.SessionResponse {
	t.Helper()
	var resp api.SessionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding session: %v, body=%s", err, w.Body.String())
	}
	return resp
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) api.ErrorResponse {
	t.Helper()
	var resp api.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decoding error: %v, body=%s", err, w.Body.String())
	}
	return resp
}

func createSession(t *testing.T, srv http.Handler) string {
	t.Helper()
	w := do(t, srv, httptest.NewRequest(http.MethodPost, "/api/sessions", nil))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d, body=%s", w.Code, w.Body.String())
	}
	id := decodeSession(t, w).ID
	if id == "" {
		t.Fatal("expected session id")
	}
	return id
}

func uploadRequest(t *testing.T, sessionID, filename, contentType string, data []byte) *http.Request {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	header.Set("Content-Type", contentType)
	part, err := mw.CreatePart(header)
	if err != nil {
		t.Fatalf("creating part: %v", err)
	}
	part.Write(data)
	mw.Close()

	req := httptest.NewRequest(http.MethodPut, "/api/sessions/"+sessionID+"/file", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func askRequest(sessionID, question string) *http.Request {
	body, _ := json.Marshal(map[string]string{"question": question})
	req := httptest.NewRequest(http.MethodPost, "/api/sessions/"+sessionID+"/messages", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, &stubGenerator{})
	w := do(t, srv, httptest.NewRequest(http.MethodGet, "/api/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected body %s", w.Body.String())
	}
}

func TestIndexPage(t *testing.T) {
	srv := newTestServer(t, &stubGenerator{})
	w := do(t, srv, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("unexpected content type %q", ct)
	}
	if !strings.Contains(w.Body.String(), "An AI-Powered PDF Q&amp;A System for Students") {
		t.Fatal("page is missing the hero tagline")
	}

	w = do(t, srv, httptest.NewRequest(http.MethodGet, "/static/app.js", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected static asset, got %d", w.Code)
	}
}

func TestSessionLifecycle(t *testing.T) {
	srv := newTestServer(t, &stubGenerator{})
	id := createSession(t, srv)

	w := do(t, srv, httptest.NewRequest(http.MethodGet, "/api/sessions/"+id, nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	sess := decodeSession(t, w)
	if sess.File != nil || len(sess.Messages) != 0 || sess.Pending {
		t.Fatalf("expected empty session, got %+v", sess)
	}

	w = do(t, srv, httptest.NewRequest(http.MethodDelete, "/api/sessions/"+id, nil))
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}

	w = do(t, srv, httptest.NewRequest(http.MethodGet, "/api/sessions/"+id, nil))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", w.Code)
	}
}

func TestPostMessage(t *testing.T) {
	gen := &stubGenerator{answer: "**Condensation** forms clouds."}
	srv := newTestServer(t, gen)
	id := createSession(t, srv)

	w := do(t, srv, askRequest(id, "How do clouds form?"))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}

	sess := decodeSession(t, w)
	if len(sess.Messages) != 2 {
		t.Fatalf("expected 2 messages, got %+v", sess.Messages)
	}
	if sess.Messages[0].Role != store.RoleUser || sess.Messages[1].Role != store.RoleModel {
		t.Fatalf("unexpected order %+v", sess.Messages)
	}
	if !strings.Contains(string(sess.Messages[1].HTML), "<strong>Condensation</strong>") {
		t.Errorf("model answer not rendered as markdown: %q", sess.Messages[1].HTML)
	}
	if sess.Messages[1].Text != "**Condensation** forms clouds." {
		t.Errorf("raw text not kept: %q", sess.Messages[1].Text)
	}
}

func TestPostMessageBlankQuestion(t *testing.T) {
	gen := &stubGenerator{answer: "unused"}
	srv := newTestServer(t, gen)
	id := createSession(t, srv)

	w := do(t, srv, askRequest(id, "   "))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	w = do(t, srv, httptest.NewRequest(http.MethodGet, "/api/sessions/"+id, nil))
	if sess := decodeSession(t, w); len(sess.Messages) != 0 {
		t.Fatalf("expected no messages, got %+v", sess.Messages)
	}
	if len(gen.requests) != 0 {
		t.Fatalf("expected no generation requests, got %d", len(gen.requests))
	}
}

func TestPostMessageGenerationFailure(t *testing.T) {
	gen := &stubGenerator{err: errors.New("backend unavailable")}
	srv := newTestServer(t, gen)
	id := createSession(t, srv)

	w := do(t, srv, askRequest(id, "Hello?"))
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", w.Code)
	}

	resp := decodeError(t, w)
	if resp.Session == nil {
		t.Fatal("expected session alongside the error")
	}
	if resp.Session.Error != "Failed to get a response. backend unavailable" {
		t.Errorf("unexpected banner %q", resp.Session.Error)
	}
	if len(resp.Session.Messages) != 2 || !strings.Contains(resp.Session.Messages[1].Text, "backend unavailable") {
		t.Errorf("unexpected transcript %+v", resp.Session.Messages)
	}
}

func TestPostMessageUnknownSession(t *testing.T) {
	srv := newTestServer(t, &stubGenerator{})

	w := do(t, srv, askRequest("missing", "Hello?"))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestAttachAndRemoveFile(t *testing.T) {
	gen := &stubGenerator{answer: "A single pixel."}
	srv := newTestServer(t, gen)
	id := createSession(t, srv)

	do(t, srv, askRequest(id, "warm up"))

	w := do(t, srv, uploadRequest(t, id, "pixel.png", "image/png", pngBytes))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d, body=%s", w.Code, w.Body.String())
	}
	sess := decodeSession(t, w)
	if sess.File == nil || sess.File.Kind != store.FileKindImage || sess.File.Name != "pixel.png" {
		t.Fatalf("unexpected file %+v", sess.File)
	}
	if !strings.HasPrefix(sess.File.Preview, "data:image/png;base64,") {
		t.Fatalf("unexpected preview %.30s", sess.File.Preview)
	}
	if len(sess.Messages) != 0 {
		t.Fatalf("expected upload to clear transcript, got %+v", sess.Messages)
	}

	do(t, srv, askRequest(id, "What is it?"))
	if gen.requests[len(gen.requests)-1].Image == nil {
		t.Fatal("expected the question to carry the image")
	}

	w = do(t, srv, httptest.NewRequest(http.MethodDelete, "/api/sessions/"+id+"/file", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	sess = decodeSession(t, w)
	if sess.File != nil || len(sess.Messages) != 0 {
		t.Fatalf("expected file and transcript cleared, got %+v", sess)
	}
}

func TestAttachUnsupportedFile(t *testing.T) {
	gen := &stubGenerator{answer: "ok"}
	srv := newTestServer(t, gen)
	id := createSession(t, srv)

	do(t, srv, uploadRequest(t, id, "notes.pdf", "application/pdf", []byte("%PDF-1.4")))
	do(t, srv, askRequest(id, "What is evaporation?"))

	w := do(t, srv, uploadRequest(t, id, "notes.txt", "text/plain", []byte("plain text")))
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("expected 415, got %d", w.Code)
	}

	resp := decodeError(t, w)
	if resp.Session == nil {
		t.Fatal("expected session alongside the error")
	}
	if resp.Session.Error != "Unsupported file type. Please upload an image or a PDF." {
		t.Errorf("unexpected banner %q", resp.Session.Error)
	}
	if resp.Session.File == nil || resp.Session.File.Kind != store.FileKindPDF {
		t.Errorf("expected pdf to stay attached, got %+v", resp.Session.File)
	}
	if len(resp.Session.Messages) != 2 {
		t.Errorf("expected transcript unchanged, got %+v", resp.Session.Messages)
	}
}

func TestAttachFileTooLarge(t *testing.T) {
	srv := newTestServer(t, &stubGenerator{})
	id := createSession(t, srv)

	big := append([]byte{}, pngBytes...)
	big = append(big, bytes.Repeat([]byte{0}, 2<<10)...)

	w := do(t, srv, uploadRequest(t, id, "big.png", "image/png", big))
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", w.Code)
	}
	resp := decodeError(t, w)
	if resp.Session == nil || resp.Session.File != nil {
		t.Fatalf("expected no file to be attached, got %+v", resp.Session)
	}
}

func TestStreamOverWebSocket(t *testing.T) {
	gen := &stubGenerator{chunks: []string{"Water ", "evaporates."}}
	srv := httptest.NewServer(newTestServer(t, gen))
	defer srv.Close()

	res, err := http.Post(srv.URL+"/api/sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("creating session: %v", err)
	}
	var created api.SessionResponse
	json.NewDecoder(res.Body).Decode(&created)
	res.Body.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/sessions/" + created.ID + "/stream"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dialing websocket: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(api.StreamRequest{Question: "What happens to water?"}); err != nil {
		t.Fatalf("writing question: %v", err)
	}

	var chunks []string
	for {
		var ev api.StreamEvent
		conn.SetReadDeadline(time.Now().Add(5 * time.Second))
		if err := conn.ReadJSON(&ev); err != nil {
			t.Fatalf("reading event: %v", err)
		}
		if ev.Type == "chunk" {
			chunks = append(chunks, ev.Text)
			continue
		}
		if ev.Type != "completion" {
			t.Fatalf("expected completion, got %+v", ev)
		}
		if ev.Session == nil || len(ev.Session.Messages) != 2 {
			t.Fatalf("expected session with 2 messages, got %+v", ev.Session)
		}
		if ev.Session.Messages[1].Text != "Water evaporates." {
			t.Fatalf("unexpected answer %q", ev.Session.Messages[1].Text)
		}
		break
	}
	if strings.Join(chunks, "") != "Water evaporates." {
		t.Fatalf("unexpected chunks %q", chunks)
	}

	// A blank question is answered with an error event and the connection stays open.
	if err := conn.WriteJSON(api.StreamRequest{Question: " "}); err != nil {
		t.Fatalf("writing question: %v", err)
	}
	var ev api.StreamEvent
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	if err := conn.ReadJSON(&ev); err != nil {
		t.Fatalf("reading event: %v", err)
	}
	if ev.Type != "error" || ev.Error != "Question cannot be empty" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestStreamUnknownSession(t *testing.T) {
	srv := newTestServer(t, &stubGenerator{})
	w := do(t, srv, httptest.NewRequest(http.MethodGet, "/api/sessions/missing/stream", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}
