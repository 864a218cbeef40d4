package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
	"github.com/hashicorp/golang-lru/v2/expirable"

	"eduvid/internal/models"
	"eduvid/internal/services"
	"eduvid/internal/tool"
)

const (
	sessionName = "eduvid_session"
	sessionKey  = "sid"

	maxSessions = 1024
	sessionTTL  = 2 * time.Hour
)

// Server exposes the three tools over a polling JSON API. Each browser
// session gets its own controller set, bound by cookie and kept in a
// self-expiring LRU so abandoned sessions release their resources.
type Server struct {
	mux   *http.ServeMux
	svc   *services.AIService
	store *sessions.CookieStore
	tools *expirable.LRU[string, *tool.Tools]
}

func NewServer(svc *services.AIService, sessionSecret []byte) *Server {
	s := &Server{
		mux:   http.NewServeMux(),
		svc:   svc,
		store: sessions.NewCookieStore(sessionSecret),
	}
	s.tools = expirable.NewLRU(maxSessions,
		func(_ string, t *tool.Tools) { t.Close() }, sessionTTL)
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

// Close releases every live session's resources.
func (s *Server) Close() {
	s.tools.Purge()
}

func (s *Server) routes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)
	s.mux.HandleFunc("/api/state", s.handleState)

	s.mux.HandleFunc("/api/video/analyze", s.handleVideoAnalyze)
	s.mux.HandleFunc("/api/video/quiz/submit", s.handleQuizSubmit)
	s.mux.HandleFunc("/api/video/quiz/retry", s.handleQuizRetry)
	s.mux.HandleFunc("/api/video/reset", s.handleVideoReset)

	s.mux.HandleFunc("/api/code/camera/open", s.handleCodeCameraOpen)
	s.mux.HandleFunc("/api/code/camera/cancel", s.handleCodeCameraCancel)
	s.mux.HandleFunc("/api/code/camera/denied", s.handleCodeCameraDenied)
	s.mux.HandleFunc("/api/code/capture", s.handleCodeCapture)
	s.mux.HandleFunc("/api/code/retake", s.handleCodeRetake)
	s.mux.HandleFunc("/api/code/analyze", s.handleCodeAnalyze)
	s.mux.HandleFunc("/api/code/reset", s.handleCodeReset)

	s.mux.HandleFunc("/api/concept/camera/open", s.handleConceptCameraOpen)
	s.mux.HandleFunc("/api/concept/camera/cancel", s.handleConceptCameraCancel)
	s.mux.HandleFunc("/api/concept/camera/denied", s.handleConceptCameraDenied)
	s.mux.HandleFunc("/api/concept/extract-text", s.handleConceptExtractText)
	s.mux.HandleFunc("/api/concept/clarify", s.handleConceptClarify)
	s.mux.HandleFunc("/api/concept/reset", s.handleConceptReset)
}

// session returns the caller's tool set, creating the session on first
// contact.
func (s *Server) session(w http.ResponseWriter, r *http.Request) *tool.Tools {
	sess, _ := s.store.Get(r, sessionName)
	sid, _ := sess.Values[sessionKey].(string)
	if sid == "" {
		sid = uuid.NewString()
		sess.Values[sessionKey] = sid
		_ = sess.Save(r, w)
	}
	if t, ok := s.tools.Get(sid); ok {
		return t
	}
	t := tool.NewTools(s.svc)
	s.tools.Add(sid, t)
	return t
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleState is the poll endpoint: one snapshot of all three tools.
func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	t := s.session(w, r)
	writeJSON(w, http.StatusOK, map[string]any{
		"video":   t.Video.Snapshot(),
		"code":    t.Code.Snapshot(),
		"concept": t.Concept.Snapshot(),
	})
}

// --- video tool ---

func (s *Server) handleVideoAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req struct {
		URL           string `json:"url"`
		QuestionCount int    `json:"questionCount"`
		Difficulty    string `json:"difficulty"`
		QuestionStyle string `json:"questionStyle"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	opts := models.QuizOptions{
		QuestionCount: req.QuestionCount,
		Difficulty:    req.Difficulty,
		QuestionStyle: req.QuestionStyle,
	}
	if opts.QuestionCount == 0 {
		opts.QuestionCount = 5
	}
	if opts.Difficulty == "" {
		opts.Difficulty = models.DifficultyMedium
	}
	if opts.QuestionStyle == "" {
		opts.QuestionStyle = models.StyleMix
	}

	t := s.session(w, r)
	// The request is detached from the HTTP context: once sent it runs to
	// completion, and the generation counter discards it if the tool was
	// reset in the meantime.
	go func() {
		_ = t.Video.Analyze(context.Background(), req.URL, opts)
	}()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *Server) handleQuizSubmit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req struct {
		Answers map[string]string `json:"answers"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	answers := make(map[int]string, len(req.Answers))
	for key, text := range req.Answers {
		idx, err := strconv.Atoi(key)
		if err != nil || idx < 0 {
			writeError(w, http.StatusBadRequest, "invalid question index: "+key)
			return
		}
		answers[idx] = text
	}

	result, err := s.session(w, r).Video.SubmitQuiz(answers)
	if err != nil {
		writeToolError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleQuizRetry(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if err := s.session(w, r).Video.RetryQuiz(); err != nil {
		writeToolError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVideoReset(w http.ResponseWriter, r *http.Request) {
	s.handleReset(w, r, func(t *tool.Tools) { t.Video.Reset() })
}

// --- code tool ---

func (s *Server) handleCodeCameraOpen(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if err := s.session(w, r).Code.OpenCamera(clientStream{}); err != nil {
		writeToolError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCodeCameraCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if err := s.session(w, r).Code.CancelCamera(); err != nil {
		writeToolError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCodeCameraDenied(w http.ResponseWriter, r *http.Request) {
	s.handleCameraDenied(w, r, func(t *tool.Tools, msg string) { t.Code.CameraDenied(msg) })
}

func (s *Server) handleCodeCapture(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req struct {
		Image string `json:"image"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	frame, err := decodeFrame(req.Image)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid image payload")
		return
	}
	if err := s.session(w, r).Code.Capture(frame); err != nil {
		writeToolError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCodeRetake(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if err := s.session(w, r).Code.Retake(clientStream{}); err != nil {
		writeToolError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleCodeAnalyze starts analysis of either the captured frame or pasted
// code, depending on the body.
func (s *Server) handleCodeAnalyze(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req struct {
		Code string `json:"code"`
	}
	if !readJSON(w, r, &req) {
		return
	}

	t := s.session(w, r)
	if req.Code != "" {
		go func() { _ = t.Code.AnalyzePasted(context.Background(), req.Code) }()
	} else {
		go func() { _ = t.Code.AnalyzeCaptured(context.Background()) }()
	}
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *Server) handleCodeReset(w http.ResponseWriter, r *http.Request) {
	s.handleReset(w, r, func(t *tool.Tools) { t.Code.Reset() })
}

// --- concept tool ---

func (s *Server) handleConceptCameraOpen(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if err := s.session(w, r).Concept.OpenCamera(clientStream{}); err != nil {
		writeToolError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleConceptCameraCancel(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if err := s.session(w, r).Concept.CancelCamera(); err != nil {
		writeToolError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleConceptCameraDenied(w http.ResponseWriter, r *http.Request) {
	s.handleCameraDenied(w, r, func(t *tool.Tools, msg string) { t.Concept.CameraDenied(msg) })
}

func (s *Server) handleConceptExtractText(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req struct {
		Image string `json:"image"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	frame, err := decodeFrame(req.Image)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid image payload")
		return
	}

	t := s.session(w, r)
	go func() { _ = t.Concept.ExtractText(context.Background(), frame) }()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *Server) handleConceptClarify(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req struct {
		Text  string `json:"text"`
		Style string `json:"style"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if req.Style == "" {
		req.Style = models.ExplainSimple
	}

	t := s.session(w, r)
	go func() { _ = t.Concept.Clarify(context.Background(), req.Text, req.Style) }()
	writeJSON(w, http.StatusAccepted, map[string]string{"status": "accepted"})
}

func (s *Server) handleConceptReset(w http.ResponseWriter, r *http.Request) {
	s.handleReset(w, r, func(t *tool.Tools) { t.Concept.Reset() })
}

// --- shared handler shapes ---

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request, reset func(*tool.Tools)) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	reset(s.session(w, r))
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleCameraDenied(w http.ResponseWriter, r *http.Request, deny func(*tool.Tools, string)) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	var req struct {
		Message string `json:"message"`
	}
	if !readJSON(w, r, &req) {
		return
	}
	if req.Message == "" {
		req.Message = "Could not access the camera. Please ensure permissions are granted."
	}
	deny(s.session(w, r), req.Message)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// clientStream marks a camera stream held by the browser on the session's
// behalf. Closing it is bookkeeping only; the frontend stops the real
// MediaStream tracks when the state tells it to.
type clientStream struct{}

func (clientStream) Close() error { return nil }
