package tutor

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/abhisek/storyling/internal/llm"
)

// DemoProvider answers tutor calls with fixed content so the app can be
// tried without an API key. It picks the reply by request purpose and
// cycles through answer grades.
type DemoProvider struct {
	mu      sync.Mutex
	answers int
}

// NewDemoProvider creates an offline demo provider.
func NewDemoProvider() *DemoProvider {
	return &DemoProvider{}
}

var demoStory = Story{
	Title: "The Last Train to Lyon",
	Content: "Léa had never missed a train in her life, but on her first evening in England she watched the last one leave without her.\n" +
		"\n" +
		"The station was small and almost empty. An old man selling tea offered her a cup and asked where she was going. " +
		"She explained, in careful English, that she had a lecture the next morning and no idea where to sleep.\n" +
		"\n" +
		"He laughed kindly and told her that the best lessons never happen in classrooms. " +
		"He called his daughter, who studied at the same university, and soon Léa was sitting in a warm kitchen, " +
		"talking about books and music until midnight.\n" +
		"\n" +
		"The next day she arrived at her lecture on time, tired but smiling. " +
		"She had learned three new idioms, one recipe for scones, and that kindness from strangers is a language everyone understands.",
}

var demoQuestions = []Question{
	{ID: 1, Text: "Why did Léa miss the train?"},
	{ID: 2, Text: "Who offered Léa a cup of tea?"},
	{ID: 3, Text: "Did Léa arrive late to her lecture?"},
	{ID: 4, Text: "What lesson did Léa learn from her evening?"},
}

var demoAnswers = []AnswerFeedback{
	{
		Status:          StatusCorrect,
		Correction:      "Your answer is correct.",
		NaturalVersion:  "She missed it because she arrived after the last train had left.",
		FeedbackMessage: "Purr-fect! You read that closely.",
	},
	{
		Status:          StatusPartial,
		Correction:      "An old man who sold tea offered her a cup.",
		NaturalVersion:  "An old tea seller at the station offered her one.",
		FeedbackMessage: "Almost! Watch your past tense, you've got this.",
	},
	{
		Status:          StatusIncorrect,
		Correction:      "No, she arrived on time.",
		NaturalVersion:  "No, she got there on time, although she was tired.",
		FeedbackMessage: "Not quite. Have another look at the last paragraph!",
	},
}

func (d *DemoProvider) Generate(ctx context.Context, req llm.Request) (*llm.Response, error) {
	var v any
	switch purpose := llm.PurposeFrom(ctx); purpose {
	case PurposeStory:
		story := demoStory
		story.Theme = DefaultTheme
		v = story
	case PurposeReformulation:
		v = ReformulationFeedback{
			Correction:      "Léa missed the last train, and an old man helped her find a place to stay.",
			ImprovedVersion: "After missing the last train, Léa was helped by a kind tea seller whose daughter offered her a place to stay.",
			Explanation:     "Use the past simple for finished actions, and link your ideas with words like \"after\" or \"whose\".",
			IsGood:          true,
		}
	case PurposeQuestions:
		v = questionsOutput{Questions: demoQuestions}
	case PurposeAnswer:
		d.mu.Lock()
		v = demoAnswers[d.answers%len(demoAnswers)]
		d.answers++
		d.mu.Unlock()
	default:
		return nil, &llm.ErrProviderUnavailable{Err: fmt.Errorf("demo has no reply for purpose %q", purpose)}
	}

	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return &llm.Response{Content: b, Model: "demo", StopReason: "end"}, nil
}

// ModelID returns "demo".
func (d *DemoProvider) ModelID() string {
	return "demo"
}
