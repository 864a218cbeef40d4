package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"eduvid/internal/llm"
	"eduvid/internal/services"
	"eduvid/internal/tool"
)

type stubGateway struct {
	response string
	err      error
}

func (g *stubGateway) Name() string { return "stub" }

func (g *stubGateway) Generate(_ context.Context, _ llm.PromptSpec) (string, error) {
	return g.response, g.err
}

const videoResponse = `{
	"summary": "The video explains the water cycle.",
	"keyTakeaways": ["Evaporation feeds clouds", "Rain returns water to the ground"],
	"vocabulary": [{"term": "condensation", "definition": "vapor turning back into liquid"}],
	"quiz": [
		{"question": "What feeds clouds?", "type": "short-answer", "answer": "Evaporation"}
	]
}`

const codeResponse = `{
	"recognizedCode": "while (n > 1) n /= 2;",
	"timeComplexity": "O(log n)",
	"explanation": "n halves every iteration",
	"recommendations": "nothing to improve"
}`

// client is an HTTP client with a cookie jar, so each one models a distinct
// browser session.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	return &http.Client{Jar: jar}
}

func newTestServer(t *testing.T, gw llm.Gateway) *httptest.Server {
	t.Helper()
	srv := NewServer(services.NewAIService(gw), []byte("test-secret-test-secret-test-sec"))
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(func() {
		ts.Close()
		srv.Close()
	})
	return ts
}

func postJSON(t *testing.T, client *http.Client, url string, body any) *http.Response {
	t.Helper()
	encoded, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(encoded))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

type stateResponse struct {
	Video   tool.VideoSnapshot   `json:"video"`
	Code    tool.CodeSnapshot    `json:"code"`
	Concept tool.ConceptSnapshot `json:"concept"`
}

func fetchState(t *testing.T, client *http.Client, baseURL string) stateResponse {
	t.Helper()
	resp, err := client.Get(baseURL + "/api/state")
	if err != nil {
		t.Fatalf("GET /api/state: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("state status = %d", resp.StatusCode)
	}
	var state stateResponse
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return state
}

// pollUntil polls /api/state until pred holds, the way the frontend does.
func pollUntil(t *testing.T, client *http.Client, baseURL string, pred func(stateResponse) bool) stateResponse {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		state := fetchState(t, client, baseURL)
		if pred(state) {
			return state
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("state never reached the expected shape")
	return stateResponse{}
}

func TestHealth(t *testing.T) {
	ts := newTestServer(t, &stubGateway{})
	client := newClient(t)

	resp, err := client.Get(ts.URL + "/api/health")
	if err != nil {
		t.Fatalf("GET /api/health: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	post := postJSON(t, client, ts.URL+"/api/health", map[string]string{})
	defer post.Body.Close()
	if post.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("POST status = %d, want 405", post.StatusCode)
	}
}

func TestVideoAnalyzeAndQuizFlow(t *testing.T) {
	ts := newTestServer(t, &stubGateway{response: videoResponse})
	client := newClient(t)

	resp := postJSON(t, client, ts.URL+"/api/video/analyze", map[string]any{
		"url": "https://youtu.be/dQw4w9WgXcQ",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("analyze status = %d, want 202", resp.StatusCode)
	}

	state := pollUntil(t, client, ts.URL, func(s stateResponse) bool {
		return s.Video.State == tool.StateShowingResult
	})
	if state.Video.Content == nil || len(state.Video.Content.Quiz) != 1 {
		t.Fatalf("video content = %+v", state.Video.Content)
	}

	submit := postJSON(t, client, ts.URL+"/api/video/quiz/submit", map[string]any{
		"answers": map[string]string{"0": "evaporation"},
	})
	defer submit.Body.Close()
	if submit.StatusCode != http.StatusOK {
		t.Fatalf("submit status = %d, want 200", submit.StatusCode)
	}
	var result struct {
		Score int `json:"score"`
		Total int `json:"total"`
	}
	if err := json.NewDecoder(submit.Body).Decode(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Score != 1 || result.Total != 1 {
		t.Errorf("score = %d/%d, want 1/1", result.Score, result.Total)
	}
}

func TestVideoAnalyzeInvalidURL(t *testing.T) {
	ts := newTestServer(t, &stubGateway{response: videoResponse})
	client := newClient(t)

	resp := postJSON(t, client, ts.URL+"/api/video/analyze", map[string]any{
		"url": "https://example.com/video",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("analyze status = %d, want 202", resp.StatusCode)
	}

	state := pollUntil(t, client, ts.URL, func(s stateResponse) bool {
		return s.Video.State == tool.StateError
	})
	if state.Video.Error == "" {
		t.Error("error state must carry a message")
	}
}

func TestQuizSubmitWithoutContent(t *testing.T) {
	ts := newTestServer(t, &stubGateway{})
	client := newClient(t)

	resp := postJSON(t, client, ts.URL+"/api/video/quiz/submit", map[string]any{
		"answers": map[string]string{"0": "x"},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
}

func TestQuizSubmitBadIndex(t *testing.T) {
	ts := newTestServer(t, &stubGateway{})
	client := newClient(t)

	resp := postJSON(t, client, ts.URL+"/api/video/quiz/submit", map[string]any{
		"answers": map[string]string{"not-a-number": "x"},
	})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestCodeCaptureAnalyzeFlow(t *testing.T) {
	ts := newTestServer(t, &stubGateway{response: codeResponse})
	client := newClient(t)

	open := postJSON(t, client, ts.URL+"/api/code/camera/open", map[string]string{})
	open.Body.Close()
	if open.StatusCode != http.StatusOK {
		t.Fatalf("camera open status = %d", open.StatusCode)
	}

	frame := "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8, 0xff})
	capture := postJSON(t, client, ts.URL+"/api/code/capture", map[string]string{"image": frame})
	capture.Body.Close()
	if capture.StatusCode != http.StatusOK {
		t.Fatalf("capture status = %d", capture.StatusCode)
	}

	analyze := postJSON(t, client, ts.URL+"/api/code/analyze", map[string]string{})
	analyze.Body.Close()
	if analyze.StatusCode != http.StatusAccepted {
		t.Fatalf("analyze status = %d, want 202", analyze.StatusCode)
	}

	state := pollUntil(t, client, ts.URL, func(s stateResponse) bool {
		return s.Code.State == tool.StateShowingResult
	})
	if state.Code.Result == nil || state.Code.Result.TimeComplexity != "O(log n)" {
		t.Errorf("code result = %+v", state.Code.Result)
	}
}

func TestCodeCaptureWithoutCamera(t *testing.T) {
	ts := newTestServer(t, &stubGateway{})
	client := newClient(t)

	frame := base64.StdEncoding.EncodeToString([]byte{0x01})
	resp := postJSON(t, client, ts.URL+"/api/code/capture", map[string]string{"image": frame})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", resp.StatusCode)
	}
}

func TestCodeCaptureBadImage(t *testing.T) {
	ts := newTestServer(t, &stubGateway{})
	client := newClient(t)

	open := postJSON(t, client, ts.URL+"/api/code/camera/open", map[string]string{})
	open.Body.Close()

	resp := postJSON(t, client, ts.URL+"/api/code/capture", map[string]string{"image": "%%%not-base64%%%"})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestConceptClarifyFlow(t *testing.T) {
	ts := newTestServer(t, &stubGateway{response: `{
		"title": "Gravity",
		"simplifiedExplanation": "Mass attracts mass.",
		"analogy": "A bowling ball on a trampoline."
	}`})
	client := newClient(t)

	resp := postJSON(t, client, ts.URL+"/api/concept/clarify", map[string]string{
		"text": "gravity",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("clarify status = %d, want 202", resp.StatusCode)
	}

	state := pollUntil(t, client, ts.URL, func(s stateResponse) bool {
		return s.Concept.State == tool.StateShowingResult
	})
	if state.Concept.Result == nil || state.Concept.Result.Title != "Gravity" {
		t.Errorf("concept result = %+v", state.Concept.Result)
	}
}

func TestConceptExtractTextFlow(t *testing.T) {
	ts := newTestServer(t, &stubGateway{response: `{"extractedText": "osmosis"}`})
	client := newClient(t)

	open := postJSON(t, client, ts.URL+"/api/concept/camera/open", map[string]string{})
	open.Body.Close()
	if open.StatusCode != http.StatusOK {
		t.Fatalf("camera open status = %d", open.StatusCode)
	}

	frame := base64.StdEncoding.EncodeToString([]byte{0xff, 0xd8})
	extract := postJSON(t, client, ts.URL+"/api/concept/extract-text", map[string]string{"image": frame})
	extract.Body.Close()
	if extract.StatusCode != http.StatusAccepted {
		t.Fatalf("extract status = %d, want 202", extract.StatusCode)
	}

	state := pollUntil(t, client, ts.URL, func(s stateResponse) bool {
		return s.Concept.State == tool.StateIdle && s.Concept.Input != ""
	})
	if state.Concept.Input != "osmosis" {
		t.Errorf("input = %q, want osmosis", state.Concept.Input)
	}
}

func TestCameraDeniedDefaultMessage(t *testing.T) {
	ts := newTestServer(t, &stubGateway{})
	client := newClient(t)

	resp := postJSON(t, client, ts.URL+"/api/code/camera/denied", map[string]string{})
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("denied status = %d", resp.StatusCode)
	}

	state := fetchState(t, client, ts.URL)
	if state.Code.State != tool.StateError || state.Code.Error == "" {
		t.Errorf("code snapshot = %+v, want error with default message", state.Code)
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	ts := newTestServer(t, &stubGateway{response: videoResponse})
	first := newClient(t)
	second := newClient(t)

	resp := postJSON(t, first, ts.URL+"/api/video/analyze", map[string]any{
		"url": "https://youtu.be/dQw4w9WgXcQ",
	})
	resp.Body.Close()
	pollUntil(t, first, ts.URL, func(s stateResponse) bool {
		return s.Video.State == tool.StateShowingResult
	})

	if state := fetchState(t, second, ts.URL); state.Video.State != tool.StateIdle {
		t.Errorf("second session's video state = %s, want %s", state.Video.State, tool.StateIdle)
	}
}

func TestResetEndpoint(t *testing.T) {
	ts := newTestServer(t, &stubGateway{response: videoResponse})
	client := newClient(t)

	resp := postJSON(t, client, ts.URL+"/api/video/analyze", map[string]any{
		"url": "https://youtu.be/dQw4w9WgXcQ",
	})
	resp.Body.Close()
	pollUntil(t, client, ts.URL, func(s stateResponse) bool {
		return s.Video.State == tool.StateShowingResult
	})

	reset := postJSON(t, client, ts.URL+"/api/video/reset", map[string]string{})
	reset.Body.Close()
	if reset.StatusCode != http.StatusOK {
		t.Fatalf("reset status = %d", reset.StatusCode)
	}

	if state := fetchState(t, client, ts.URL); state.Video.State != tool.StateIdle || state.Video.Content != nil {
		t.Errorf("video snapshot after reset = %+v, want empty idle", state.Video)
	}
}
