package lang

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const openAIBackend = "openai"

const translatePrompt = `You are a translation engine. Translate the user's text into the language with ISO 639-1 code %q.

Rules:
1. Output only the translation, no explanations or quotes
2. Keep HTML tags, attributes and entities exactly as they are
3. Keep names, numbers and URLs unchanged`

// OpenAI translates through a chat completion model
type OpenAI struct {
	client *openai.Client
	model  openai.ChatModel
}

func NewOpenAI(apiKey, baseURL, model string, timeout time.Duration) *OpenAI {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if timeout > 0 {
		opts = append(opts, option.WithRequestTimeout(timeout))
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	client := openai.NewClient(opts...)
	return &OpenAI{
		client: &client,
		model:  openai.ChatModel(model),
	}
}

func (o *OpenAI) Translate(ctx context.Context, text, target string) (string, error) {
	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(fmt.Sprintf(translatePrompt, target)),
			openai.UserMessage(text),
		},
	})
	if err != nil {
		return "", &TranslationError{Backend: openAIBackend, Err: fmt.Errorf("openai API error: %w", err)}
	}

	if len(resp.Choices) == 0 {
		return "", &TranslationError{Backend: openAIBackend, Err: fmt.Errorf("no response from openai")}
	}

	translated := strings.TrimSpace(resp.Choices[0].Message.Content)
	if translated == "" {
		return "", &TranslationError{Backend: openAIBackend, Err: fmt.Errorf("empty translation")}
	}

	return translated, nil
}
