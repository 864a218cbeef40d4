package models

// QuestionKind distinguishes the two quiz question shapes the model may emit.
type QuestionKind string

const (
	QuestionMultipleChoice QuestionKind = "multiple-choice"
	QuestionShortAnswer    QuestionKind = "short-answer"
)

// QuizQuestion is a single generated question. Options is populated only for
// multiple-choice questions and then carries exactly four entries; the answer
// text is trusted as stated by the model.
type QuizQuestion struct {
	Question string       `json:"question"`
	Kind     QuestionKind `json:"type"`
	Options  []string     `json:"options,omitempty"`
	Answer   string       `json:"answer"`
}

// VocabularyTerm pairs a term from the video with its in-context definition.
type VocabularyTerm struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// GeneratedContent is the full study package produced for one video. It is
// created once per successful analysis and replaced wholesale on the next one.
type GeneratedContent struct {
	Summary      string           `json:"summary"`
	KeyTakeaways []string         `json:"keyTakeaways"`
	Vocabulary   []VocabularyTerm `json:"vocabulary"`
	Quiz         []QuizQuestion   `json:"quiz"`
}

// Quiz customization enums, matching the choices the frontend offers.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"

	StyleMix            = "Mix"
	StyleMultipleChoice = "Multiple Choice"
	StyleShortAnswer    = "Short Answer"
)

// QuizOptions carries the caller-supplied quiz customization.
type QuizOptions struct {
	QuestionCount int    `json:"questionCount"`
	Difficulty    string `json:"difficulty"`
	QuestionStyle string `json:"questionStyle"`
}

// QuestionResult reports the grading of one question.
type QuestionResult struct {
	Question      string `json:"question"`
	UserAnswer    string `json:"userAnswer"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
}

// QuizResult is derived from GeneratedContent plus the user's answers at
// submission time and is never mutated afterwards.
type QuizResult struct {
	Score   int              `json:"score"`
	Total   int              `json:"total"`
	Results []QuestionResult `json:"results"`
}

// CodeAnalysisResult is the model's assessment of a code snippet.
type CodeAnalysisResult struct {
	RecognizedCode  string `json:"recognizedCode"`
	TimeComplexity  string `json:"timeComplexity"`
	Explanation     string `json:"explanation"`
	Recommendations string `json:"recommendations"`
	OptimizedCode   string `json:"optimizedCode,omitempty"`
}

// Explanation styles for the concept clarifier.
const (
	ExplainSimple  = "Simple"
	ExplainLikeTen = "Like I'm 10"
	ExplainAnalogy = "With an Analogy"
)

// ClarifiedConcept is a simplified explanation of a concept or passage.
type ClarifiedConcept struct {
	Title                 string `json:"title"`
	SimplifiedExplanation string `json:"simplifiedExplanation"`
	Analogy               string `json:"analogy"`
}
