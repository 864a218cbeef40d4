package services

import (
	"fmt"

	"eduvid/internal/llm"
	"eduvid/internal/models"
)

var codeAnalysisSchema = &llm.Schema{
	Properties: []llm.Property{
		{Name: "recognizedCode", Description: "The code transcribed from the image or provided text. Format it correctly with newlines and indentation.", Nullable: true},
		{Name: "timeComplexity", Description: "The Big O time complexity of the code (e.g., 'O(n)', 'O(n^2)', 'O(log n)').", Nullable: true},
		{Name: "explanation", Description: "A clear, concise explanation of why the code has this time complexity. Break down the logic step-by-step.", Nullable: true},
		{Name: "recommendations", Description: "Suggestions for optimizing the code or alternative algorithms that would be more efficient. If the code is already optimal, state that.", Nullable: true},
		{Name: "optimizedCode", Description: "If possible, provide an optimized version of the code. If the original code is already optimal, this can be null or empty.", Nullable: true},
		{Name: "error", Description: "An error message if the input could not be processed as code.", Nullable: true},
	},
}

var extractedTextSchema = &llm.Schema{
	Properties: []llm.Property{
		{Name: "extractedText", Description: "All the text recognized from the image, preserving paragraphs and line breaks as best as possible."},
	},
	Required: []string{"extractedText"},
}

var clarifiedConceptSchema = &llm.Schema{
	Properties: []llm.Property{
		{Name: "title", Description: "A concise title for the concept (e.g., 'Quantum Entanglement', 'The Krebs Cycle')."},
		{Name: "simplifiedExplanation", Description: "The core explanation of the concept, tailored to the requested style. Keep it clear, direct, and easy to follow."},
		{Name: "analogy", Description: "A relatable analogy to help understand the concept. If the style is 'With an Analogy', this should be particularly strong. Otherwise, provide a simpler or metaphorical example."},
	},
	Required: []string{"title", "simplifiedExplanation", "analogy"},
}

func questionStyleClause(style string) string {
	switch style {
	case models.StyleMultipleChoice:
		return "All questions MUST be 'multiple-choice' type."
	case models.StyleShortAnswer:
		return "All questions MUST be 'short-answer' type."
	default:
		return "Include a mix of 'multiple-choice' and 'short-answer' types."
	}
}

// VideoContentPrompt asks for a summary, takeaways, vocabulary, and quiz for
// the video at the given URL. Grounded mode is required so the model can look
// the video up, which rules out a response schema; the instruction embeds a
// literal JSON example instead.
func VideoContentPrompt(videoURL string, opts models.QuizOptions) llm.PromptSpec {
	instruction := fmt.Sprintf(`You are an expert video analyst and educator. Your task is to analyze the content of the YouTube video at the following URL and generate an educational summary, key takeaways, a vocabulary list, and a customized quiz.

YouTube URL: %s

Please use your search capabilities to find the transcript or detailed information about this video's content.

Based on the video's content, you must provide a response in a single, valid JSON object.
- The final output must be ONLY the raw JSON text. Do not include any text, markdown, or code block syntax outside of the JSON object itself.
- All newline characters inside any JSON string value must be properly escaped (e.g., use \n).

The JSON object must conform to the following structure:
{
  "summary": "A concise, academic summary of the video content, between 150 and 250 words. It should be broken into paragraphs with clear topic sentences.",
  "keyTakeaways": [
    "A key insight or important fact from the video.",
    "Another key insight or important fact from the video."
  ],
  "vocabulary": [
    {
      "term": "An important term from the video.",
      "definition": "A concise definition of the term as it relates to the video's context."
    }
  ],
  "quiz": [
    {
      "question": "A quiz question based on the video.",
      "type": "multiple-choice",
      "options": ["Option A", "Option B", "Option C", "Option D"],
      "answer": "The correct option text."
    },
    {
      "question": "A short-answer question.",
      "type": "short-answer",
      "answer": "The correct short answer."
    }
  ]
}

Important Rules for the Vocabulary List:
- Identify 5-7 important or potentially difficult terms from the video.
- Provide clear and concise definitions.

Important Rules for the Quiz:
- Create exactly %d questions.
- The difficulty of the questions should be: %s.
- %s
- For 'multiple-choice' questions, provide exactly 4 options and ensure the 'answer' field matches one of the options.
- For 'short-answer' questions, do not include an 'options' field.

Important Rules for the whole response:
- The summary should be well-structured.
- Provide at least 3-5 key takeaways.`,
		videoURL, opts.QuestionCount, opts.Difficulty, questionStyleClause(opts.QuestionStyle))

	return llm.PromptSpec{Instruction: instruction, Mode: llm.ModeGrounded}
}

// CodeImagePrompt asks the model to transcribe and analyze a photographed
// code snippet.
func CodeImagePrompt(jpeg []byte) llm.PromptSpec {
	return llm.PromptSpec{
		Instruction: `You are an expert code analyst specializing in algorithm efficiency. Analyze the provided image of code.
Your response will be structured as JSON based on the provided schema.

- Transcribe the code from the image into the 'recognizedCode' field.
- Determine its Big O time complexity.
- Explain the reasoning for the time complexity.
- Provide recommendations for optimization.
- Provide an optimized version of the code in the 'optimizedCode' field. If the code is already optimal, you can leave this field empty.

If the image does not appear to contain code, or the code is completely illegible, return an error message in the 'error' field.`,
		Image:  &llm.InlineImage{MIMEType: "image/jpeg", Data: jpeg},
		Mode:   llm.ModeSchema,
		Schema: codeAnalysisSchema,
	}
}

// CodeTextPrompt asks the model to analyze pasted code.
func CodeTextPrompt(code string) llm.PromptSpec {
	instruction := fmt.Sprintf(`You are an expert code analyst specializing in algorithm efficiency. Analyze the provided code.
Your response must be a valid JSON object based on the provided schema.

- The user's code is provided below. Place it in the 'recognizedCode' field, formatted correctly.
- Determine its Big O time complexity.
- Explain the reasoning for the time complexity.
- Provide recommendations for optimization.
- Provide an optimized version of the code in the 'optimizedCode' field. If the code is already optimal, you can leave this field empty.

If the provided text does not appear to be valid code, return an error message in the 'error' field.

---
%s
---`, code)

	return llm.PromptSpec{Instruction: instruction, Mode: llm.ModeSchema, Schema: codeAnalysisSchema}
}

// TextExtractionPrompt asks the model to OCR a captured frame.
func TextExtractionPrompt(jpeg []byte) llm.PromptSpec {
	return llm.PromptSpec{
		Instruction: `You are an Optical Character Recognition (OCR) expert. Analyze the provided image and extract all the text content you can find.
Your response will be structured as JSON based on the provided schema.
If the image contains no discernible text, return an empty string for "extractedText".`,
		Image:  &llm.InlineImage{MIMEType: "image/jpeg", Data: jpeg},
		Mode:   llm.ModeSchema,
		Schema: extractedTextSchema,
	}
}

// ConceptPrompt asks the model to break a concept or passage down into a
// simplified explanation in the requested style.
func ConceptPrompt(conceptText, explanationStyle string) llm.PromptSpec {
	instruction := fmt.Sprintf(`You are an expert educator with a talent for making complex topics simple. Your task is to analyze the user's input and break it down into an easy-to-understand explanation.
Your response must be a valid JSON object based on the provided schema.

User's Input: "%s"
Explanation Style: %s

Important Rules:
- If the user's input is a block of text, first identify the core concept and use that for the 'title'.
- The 'simplifiedExplanation' should directly address the user's input.`, conceptText, explanationStyle)

	return llm.PromptSpec{Instruction: instruction, Mode: llm.ModeSchema, Schema: clarifiedConceptSchema}
}
