// Package tutor wraps the model provider with the four exercise calls of a
// reading session: write a story, evaluate a reformulation, ask
// comprehension questions and evaluate an answer.
package tutor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/abhisek/storyling/internal/llm"
)

// Purpose labels attached to each call for the request log.
const (
	PurposeStory         = "story"
	PurposeReformulation = "reformulation"
	PurposeQuestions     = "questions"
	PurposeAnswer        = "answer"
)

// ErrNoQuestions is returned when the model produced an empty question list.
var ErrNoQuestions = fmt.Errorf("no questions generated: %w", llm.ErrEmptyResponse)

// Service issues tutor calls. It holds no per-session state and is safe
// for concurrent use.
type Service struct {
	provider llm.Provider
	cfg      Config
}

// NewService creates a tutor service.
func NewService(provider llm.Provider, cfg Config) *Service {
	return &Service{provider: provider, cfg: cfg}
}

// GenerateStory writes a new story. A blank theme falls back to DefaultTheme.
func (s *Service) GenerateStory(ctx context.Context, theme string) (*Story, error) {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		theme = DefaultTheme
	}

	var story Story
	if err := s.call(ctx, PurposeStory, StorySchema, storyPrompt(s.cfg, theme), &story); err != nil {
		return nil, err
	}
	if strings.TrimSpace(story.Content) == "" {
		return nil, fmt.Errorf("%s: empty story text: %w", PurposeStory, llm.ErrEmptyResponse)
	}
	if strings.TrimSpace(story.Theme) == "" {
		story.Theme = theme
	}
	return &story, nil
}

// EvaluateReformulation grades the student's rewrite of the story.
func (s *Service) EvaluateReformulation(ctx context.Context, story *Story, text string) (*ReformulationFeedback, error) {
	if story == nil {
		return nil, errors.New("evaluate reformulation: no story")
	}

	var fb ReformulationFeedback
	if err := s.call(ctx, PurposeReformulation, ReformulationSchema, reformulationPrompt(story.Content, text), &fb); err != nil {
		return nil, err
	}
	return &fb, nil
}

type questionsOutput struct {
	Questions []Question `json:"questions"`
}

// GenerateQuestions asks for comprehension questions about the story.
// Blank questions are dropped and the list is capped at the configured
// count. An empty result is ErrNoQuestions.
func (s *Service) GenerateQuestions(ctx context.Context, story *Story) ([]Question, error) {
	if story == nil {
		return nil, errors.New("generate questions: no story")
	}

	var out questionsOutput
	if err := s.call(ctx, PurposeQuestions, QuestionsSchema, questionsPrompt(s.cfg.QuestionCount, story.Content), &out); err != nil {
		return nil, err
	}

	questions := make([]Question, 0, len(out.Questions))
	for _, q := range out.Questions {
		q.Text = strings.TrimSpace(q.Text)
		if q.Text == "" {
			continue
		}
		questions = append(questions, q)
	}
	if s.cfg.QuestionCount > 0 && len(questions) > s.cfg.QuestionCount {
		questions = questions[:s.cfg.QuestionCount]
	}
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return questions, nil
}

// EvaluateAnswer grades the student's answer to one question.
func (s *Service) EvaluateAnswer(ctx context.Context, story *Story, question Question, answer string) (*AnswerFeedback, error) {
	if story == nil {
		return nil, errors.New("evaluate answer: no story")
	}

	var fb AnswerFeedback
	if err := s.call(ctx, PurposeAnswer, AnswerSchema, answerPrompt(story.Content, question.Text, answer), &fb); err != nil {
		return nil, err
	}
	if !fb.Status.Valid() {
		return nil, &llm.ErrInvalidResponse{Err: fmt.Errorf("unknown answer status %q", fb.Status)}
	}
	return &fb, nil
}

// call runs one structured request and decodes the validated JSON into out.
func (s *Service) call(ctx context.Context, purpose string, schema *llm.Schema, prompt string, out any) error {
	ctx = llm.WithPurpose(ctx, purpose)

	resp, err := s.provider.Generate(ctx, llm.Request{
		System:      systemPrompt(s.cfg),
		Messages:    llm.UserMessage(prompt),
		Schema:      schema,
		MaxTokens:   s.cfg.MaxTokens,
		Temperature: s.cfg.Temperature,
	})
	if err != nil {
		return fmt.Errorf("%s: %w", purpose, err)
	}

	if err := json.Unmarshal(resp.Content, out); err != nil {
		return fmt.Errorf("parse %s response: %w", purpose, &llm.ErrInvalidResponse{Content: resp.Content, Err: err})
	}
	return nil
}
