package tool

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"eduvid/internal/models"
	"eduvid/internal/services"
)

const invalidURLMessage = "Please enter a valid YouTube video URL."

// Cosmetic progress cycle shown while a video analysis is in flight.
var loadingMessages = []string{
	"Accessing video information...",
	"Analyzing the video content...",
	"Building your summary & quiz...",
}

const loadingMessageInterval = 3 * time.Second

// Permissive match for the common YouTube URL shapes; the capture must be an
// 11-character video ID.
var videoIDPattern = regexp.MustCompile(`(?:youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*)`)

// ExtractVideoID pulls the 11-character video ID out of a YouTube URL.
func ExtractVideoID(rawURL string) (string, bool) {
	m := videoIDPattern.FindStringSubmatch(rawURL)
	if m == nil || len(m[1]) != 11 {
		return "", false
	}
	return m[1], true
}

// VideoController drives the video analyzer flow: URL in, study package out,
// then quiz grading over the generated questions.
type VideoController struct {
	m          machine[models.GeneratedContent]
	svc        *services.AIService
	videoID    string
	answers    map[int]string
	quizResult *models.QuizResult
}

func NewVideoController(svc *services.AIService) *VideoController {
	return &VideoController{m: newMachine[models.GeneratedContent](), svc: svc}
}

// Analyze validates the URL, then runs the full pipeline. It blocks until the
// model call settles; callers run it on their own goroutine and poll
// Snapshot. A reset while in flight makes the eventual outcome a no-op.
func (c *VideoController) Analyze(ctx context.Context, videoURL string, opts models.QuizOptions) error {
	videoID, ok := ExtractVideoID(videoURL)
	if !ok {
		c.m.failNow(invalidURLMessage)
		return &InputError{Message: invalidURLMessage}
	}

	gen, err := c.m.begin(StateLoading, StateIdle)
	if err != nil {
		return err
	}
	c.m.locked(func() {
		c.videoID = videoID
		c.answers = nil
		c.quizResult = nil
	})

	content, err := c.svc.GenerateVideoContent(ctx, videoURL, opts)
	if err != nil {
		c.m.fail(gen, failureMessage(err))
		return err
	}
	c.m.complete(gen, content)
	return nil
}

// SubmitQuiz grades the user's answers against the generated quiz by
// case-insensitive exact match on the trimmed answer text, regardless of
// question kind. Unanswered questions count as wrong.
func (c *VideoController) SubmitQuiz(answers map[int]string) (*models.QuizResult, error) {
	var result *models.QuizResult
	var err error
	c.m.locked(func() {
		if c.m.state != StateShowingResult || c.m.result == nil {
			err = fmt.Errorf("%w: no quiz to submit", ErrBusy)
			return
		}
		c.answers = answers
		result = gradeQuiz(c.m.result.Quiz, answers)
		c.quizResult = result
	})
	return result, err
}

func gradeQuiz(quiz []models.QuizQuestion, answers map[int]string) *models.QuizResult {
	result := &models.QuizResult{Total: len(quiz)}
	for i, q := range quiz {
		user := strings.TrimSpace(answers[i])
		correct := strings.EqualFold(user, q.Answer)
		if correct {
			result.Score++
		}
		display := user
		if display == "" {
			display = "Not Answered"
		}
		result.Results = append(result.Results, models.QuestionResult{
			Question:      q.Question,
			UserAnswer:    display,
			CorrectAnswer: q.Answer,
			IsCorrect:     correct,
		})
	}
	return result
}

// RetryQuiz clears the answers and grading but keeps the generated content so
// the user can take the same quiz again.
func (c *VideoController) RetryQuiz() error {
	var err error
	c.m.locked(func() {
		if c.m.state != StateShowingResult {
			err = fmt.Errorf("%w: no quiz to retry", ErrBusy)
			return
		}
		c.answers = nil
		c.quizResult = nil
	})
	return err
}

// Reset returns the tool to idle, discarding all content and grading.
func (c *VideoController) Reset() {
	c.m.reset(func() {
		c.videoID = ""
		c.answers = nil
		c.quizResult = nil
	})
}

// VideoSnapshot is the poll view of the video tool.
type VideoSnapshot struct {
	State          State                    `json:"state"`
	LoadingMessage string                   `json:"loadingMessage,omitempty"`
	VideoID        string                   `json:"videoId,omitempty"`
	Content        *models.GeneratedContent `json:"content,omitempty"`
	QuizResult     *models.QuizResult       `json:"quizResult,omitempty"`
	Error          string                   `json:"error,omitempty"`
}

func (c *VideoController) Snapshot() VideoSnapshot {
	var snap VideoSnapshot
	c.m.locked(func() {
		snap = VideoSnapshot{
			State:      c.m.state,
			VideoID:    c.videoID,
			Content:    c.m.result,
			QuizResult: c.quizResult,
			Error:      c.m.errMsg,
		}
		if c.m.state == StateLoading {
			elapsed := c.m.now().Sub(c.m.startedAt)
			idx := int(elapsed/loadingMessageInterval) % len(loadingMessages)
			snap.LoadingMessage = loadingMessages[idx]
		}
	})
	return snap
}
