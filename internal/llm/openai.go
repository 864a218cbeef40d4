package llm

import (
	"context"
	"encoding/base64"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIGateway drives any OpenAI-compatible chat completion endpoint. The
// API has no search-grounding tool, so grounded prompts are sent as plain
// text and rely on whatever knowledge the configured model has.
type OpenAIGateway struct {
	client *openai.Client
	model  string
}

func NewOpenAIGateway(apiKey, baseURL, model string) *OpenAIGateway {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIGateway{client: openai.NewClientWithConfig(cfg), model: model}
}

func (o *OpenAIGateway) Name() string { return "openai:" + o.model }

func (o *OpenAIGateway) Generate(ctx context.Context, spec PromptSpec) (string, error) {
	instruction := spec.Instruction
	if spec.Mode == ModeSchema {
		instruction += "\n\n" + schemaInstruction(spec.Schema)
	}

	msg := openai.ChatCompletionMessage{Role: openai.ChatMessageRoleUser}
	if spec.Image != nil {
		dataURI := "data:" + spec.Image.MIMEType + ";base64," +
			base64.StdEncoding.EncodeToString(spec.Image.Data)
		msg.MultiContent = []openai.ChatMessagePart{
			{Type: openai.ChatMessagePartTypeText, Text: instruction},
			{
				Type:     openai.ChatMessagePartTypeImageURL,
				ImageURL: &openai.ChatMessageImageURL{URL: dataURI},
			},
		}
	} else {
		msg.Content = instruction
	}

	req := openai.ChatCompletionRequest{
		Model:    o.model,
		Messages: []openai.ChatCompletionMessage{msg},
	}
	if spec.Mode == ModeSchema {
		req.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("request chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// schemaInstruction renders the response schema as prose for backends that
// only support a generic JSON output mode.
func schemaInstruction(s *Schema) string {
	if s == nil {
		return "Respond with a single valid JSON object."
	}
	required := make(map[string]bool, len(s.Required))
	for _, name := range s.Required {
		required[name] = true
	}

	var b strings.Builder
	b.WriteString("Respond with a single JSON object containing exactly these string fields:\n")
	for _, p := range s.Properties {
		b.WriteString("- \"" + p.Name + "\": " + p.Description)
		if !required[p.Name] {
			b.WriteString(" (optional, may be null)")
		}
		b.WriteString("\n")
	}
	b.WriteString("Do not include any other fields or any text outside the JSON object.")
	return b.String()
}
