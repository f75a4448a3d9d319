// Package openai implements models.ContentGenerator on the OpenAI chat
// completions API.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/openai/openai-go/v3/shared"
	"github.com/studymate/studymate/internal/config"
	"github.com/studymate/studymate/pkg/models"
)

// Provider implements models.ContentGenerator using OpenAI.
type Provider struct {
	client openai.Client
	model  string
}

func NewProvider(cfg config.OpenAIConfig) *Provider {
	return &Provider{
		client: openai.NewClient(option.WithAPIKey(cfg.APIKey)),
		model:  cfg.Model,
	}
}

func (p *Provider) Name() string { return "openai" }

func (p *Provider) GenerateCourse(ctx context.Context, params models.CourseParams) (*models.CourseContent, error) {
	raw, err := p.complete(ctx, coursePrompt(params))
	if err != nil {
		return nil, err
	}

	var course models.CourseContent
	if err := json.Unmarshal([]byte(raw), &course); err != nil {
		return nil, fmt.Errorf("decode course content: %w", err)
	}
	if course.Topic == "" {
		course.Topic = params.Topic
	}
	return &course, nil
}

func (p *Provider) GenerateInterview(ctx context.Context, params models.InterviewParams) ([]models.GeneratedQuestion, error) {
	raw, err := p.complete(ctx, interviewPrompt(params))
	if err != nil {
		return nil, err
	}

	// The model returns {"questions": [...]} under the JSON-object response
	// format; accept a bare array as well.
	var wrapped struct {
		Questions []models.GeneratedQuestion `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &wrapped); err == nil && len(wrapped.Questions) > 0 {
		return wrapped.Questions, nil
	}

	var questions []models.GeneratedQuestion
	if err := json.Unmarshal([]byte(raw), &questions); err != nil {
		return nil, fmt.Errorf("decode interview questions: %w", err)
	}
	return questions, nil
}

// complete runs a single chat completion in JSON-object mode and returns the
// raw message content with any markdown fences stripped.
func (p *Provider) complete(ctx context.Context, prompt string) (string, error) {
	completion, err := p.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: shared.ChatModel(p.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.UserMessage(prompt),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &shared.ResponseFormatJSONObjectParam{
				Type: "json_object",
			},
		},
	})
	if err != nil {
		return "", fmt.Errorf("openai completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned")
	}

	return stripFences(completion.Choices[0].Message.Content), nil
}

// stripFences removes a surrounding ```json ... ``` block if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

var _ models.ContentGenerator = (*Provider)(nil)
