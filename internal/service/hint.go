package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// The tutor must nudge, never solve. Keep edits to this prompt deliberate:
// it is the only thing standing between a hint and a handed-over answer.
const hintSystemPrompt = `You are a SQL tutor named Cipher. Your role is to guide students
toward solving SQL problems by themselves — you NEVER write or reveal SQL query solutions.

Rules you must strictly follow:
1. NEVER write a complete SQL query, even partially.
2. NEVER reveal the exact column names, table names, or syntax the student needs.
3. DO ask 1-2 Socratic guiding questions that nudge the student toward the right SQL concept.
4. DO mention the relevant SQL concept or clause name (e.g., GROUP BY, HAVING, JOIN) if the student is clearly on the wrong track.
5. If the student's attempt has a specific error, point out the category of mistake (e.g., "your WHERE clause runs before aggregation — think about which clause filters groups") without fixing it for them.
6. Keep hints concise: 2-4 sentences maximum.
7. Be encouraging and calm in tone.`

// ErrHintNotConfigured is returned when no API key is set.
var ErrHintNotConfigured = errors.New("hint service not configured")

// HintRequest is the context the tutor sees for one hint.
type HintRequest struct {
	Question     string   `json:"question"`
	CurrentSQL   string   `json:"currentSql"`
	ErrorMessage string   `json:"errorMessage"`
	Tables       []string `json:"tables"`
}

// HintService generates Socratic hints through any OpenAI-compatible chat
// completion endpoint. It has no bearing on query execution: when it is
// down, students just don't get hints.
type HintService struct {
	client  *openai.Client
	model   string
	enabled bool
}

func NewHintService(baseURL, apiKey, model string) *HintService {
	client := openai.NewClient(
		option.WithBaseURL(baseURL),
		option.WithAPIKey(apiKey),
	)
	return &HintService{
		client:  &client,
		model:   model,
		enabled: apiKey != "",
	}
}

func (s *HintService) Hint(ctx context.Context, req HintRequest) (string, error) {
	if !s.enabled {
		return "", ErrHintNotConfigured
	}

	completion, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: s.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(hintSystemPrompt),
			openai.UserMessage(buildHintPrompt(req)),
		},
		MaxTokens:   openai.Int(256),
		Temperature: openai.Float(0.4),
	})
	if err != nil {
		return "", fmt.Errorf("hint completion: %w", err)
	}
	if len(completion.Choices) == 0 {
		return "", errors.New("hint provider returned no choices")
	}
	hint := strings.TrimSpace(completion.Choices[0].Message.Content)
	if hint == "" {
		return "", errors.New("hint provider returned an empty response")
	}
	return hint, nil
}

func buildHintPrompt(req HintRequest) string {
	var b strings.Builder

	b.WriteString("Assignment question:\n")
	b.WriteString(req.Question)
	b.WriteString("\n\n")

	if len(req.Tables) > 0 {
		b.WriteString("Relevant tables: ")
		b.WriteString(strings.Join(req.Tables, ", "))
		b.WriteString("\n\n")
	}

	if req.CurrentSQL != "" {
		b.WriteString("Student's current attempt:\n```sql\n")
		b.WriteString(req.CurrentSQL)
		b.WriteString("\n```\n")
	} else {
		b.WriteString("The student has not written any query yet.\n")
	}

	if req.ErrorMessage != "" {
		fmt.Fprintf(&b, "The query produced this error: %q\n", req.ErrorMessage)
	}

	b.WriteString("\nPlease provide a short, Socratic hint to guide the student — do NOT write any SQL.")
	return b.String()
}
