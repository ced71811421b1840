package session

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/storyling/internal/highlight"
	"github.com/abhisek/storyling/internal/tutor"
)

func TestMain(m *testing.M) {
	// genai's auth stack starts the opencensus stats worker in init.
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("go.opencensus.io/stats/view.(*worker).start"))
}

var errNetwork = errors.New("connection reset")

// fakeGenerator returns canned content and counts calls.
type fakeGenerator struct {
	story     *tutor.Story
	feedback  *tutor.ReformulationFeedback
	questions []tutor.Question
	answers   []tutor.AnswerFeedback
	fail      map[CallKind]bool

	calls map[CallKind]int
}

func newFakeGenerator() *fakeGenerator {
	return &fakeGenerator{
		story: &tutor.Story{Title: "Cat", Content: "the cat sat down\n\nthe end", Theme: "pets"},
		feedback: &tutor.ReformulationFeedback{
			Correction: "A cat sat.", ImprovedVersion: "The cat sat down.", Explanation: "Articles.", IsGood: true,
		},
		questions: []tutor.Question{
			{ID: 1, Text: "Who sat?"},
			{ID: 2, Text: "Where?"},
			{ID: 3, Text: "When?"},
			{ID: 4, Text: "Why?"},
		},
		answers: []tutor.AnswerFeedback{
			{Status: tutor.StatusCorrect, FeedbackMessage: "Purr-fect!"},
		},
		fail:  make(map[CallKind]bool),
		calls: make(map[CallKind]int),
	}
}

func (f *fakeGenerator) GenerateStory(_ context.Context, _ string) (*tutor.Story, error) {
	f.calls[CallStory]++
	if f.fail[CallStory] {
		return nil, errNetwork
	}
	return f.story, nil
}

func (f *fakeGenerator) EvaluateReformulation(_ context.Context, _ *tutor.Story, _ string) (*tutor.ReformulationFeedback, error) {
	f.calls[CallReformulation]++
	if f.fail[CallReformulation] {
		return nil, errNetwork
	}
	return f.feedback, nil
}

func (f *fakeGenerator) GenerateQuestions(_ context.Context, _ *tutor.Story) ([]tutor.Question, error) {
	f.calls[CallQuestions]++
	if f.fail[CallQuestions] {
		return nil, errNetwork
	}
	return f.questions, nil
}

func (f *fakeGenerator) EvaluateAnswer(_ context.Context, _ *tutor.Story, _ tutor.Question, _ string) (*tutor.AnswerFeedback, error) {
	n := f.calls[CallAnswer]
	f.calls[CallAnswer]++
	if f.fail[CallAnswer] {
		return nil, errNetwork
	}
	fb := f.answers[n%len(f.answers)]
	return &fb, nil
}

func (f *fakeGenerator) total() int {
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

// run executes a call and feeds its result back, failing the test if the
// call was not issued.
func run(t *testing.T, c *Controller, call *Call) {
	t.Helper()
	if call == nil {
		t.Fatalf("expected a call in phase %s", c.Phase())
	}
	if !c.Resolve(call.Run(context.Background())) {
		t.Fatalf("result of %s call was discarded", call.Kind)
	}
}

// toQuestions drives a fresh controller to QUESTION_ANSWERING.
func toQuestions(t *testing.T, c *Controller) {
	t.Helper()
	run(t, c, c.StartStory("pets"))
	if !c.ReadyToExplain() {
		t.Fatal("ReadyToExplain rejected")
	}
	run(t, c, c.SubmitReformulation("A cat sat."))
	run(t, c, c.StartQuestions())
}

func TestNewController(t *testing.T) {
	c := New(newFakeGenerator(), nil)
	snap := c.Snapshot()

	if snap.Phase != PhaseSetup || snap.Busy || snap.Error != "" {
		t.Fatalf("unexpected initial state: %+v", snap)
	}
	if snap.Mascot != (Mascot{MoodNeutral, "Hi! I'm here to help you learn."}) {
		t.Errorf("initial mascot = %+v", snap.Mascot)
	}
	if snap.SessionID == "" {
		t.Error("expected a session ID")
	}
}

func TestFullSession(t *testing.T) {
	gen := newFakeGenerator()
	c := New(gen, nil)

	call := c.StartStory("pets")
	if c.Phase() != PhaseStoryLoading || !c.Busy() {
		t.Fatalf("after StartStory: phase=%s busy=%v", c.Phase(), c.Busy())
	}
	if c.Snapshot().Mascot.Mood != MoodThinking {
		t.Errorf("mascot should be thinking while loading")
	}
	run(t, c, call)
	if c.Phase() != PhaseStoryReading || c.Busy() {
		t.Fatalf("after story: phase=%s busy=%v", c.Phase(), c.Busy())
	}

	if _, ok := c.AddHighlight("cat", highlight.Yellow); !ok {
		t.Fatal("AddHighlight rejected")
	}
	c.SetNotes("sat: past of sit")

	c.ReadyToExplain()
	run(t, c, c.SubmitReformulation("A cat sat."))
	snap := c.Snapshot()
	if snap.Phase != PhaseReformulationFeedback || snap.ReformulationText != "A cat sat." {
		t.Fatalf("after reformulation: %+v", snap)
	}
	if snap.Mascot != MascotFor(EventReformulationGood, "") {
		t.Errorf("mascot = %+v", snap.Mascot)
	}

	run(t, c, c.StartQuestions())
	if c.Phase() != PhaseQuestionAnswering {
		t.Fatalf("after questions: phase=%s", c.Phase())
	}

	for i := 0; i < 4; i++ {
		if got := c.Snapshot().CurrentIndex; got != i {
			t.Fatalf("CurrentIndex = %d, want %d", got, i)
		}
		run(t, c, c.SubmitAnswer("an answer"))
		if c.Phase() != PhaseQuestionFeedback {
			t.Fatalf("question %d: phase=%s", i, c.Phase())
		}
		if !c.NextQuestion() {
			t.Fatalf("NextQuestion rejected at %d", i)
		}
	}

	snap = c.Snapshot()
	if snap.Phase != PhaseComplete {
		t.Fatalf("expected SESSION_COMPLETE after the 4th next, got %s", snap.Phase)
	}
	if snap.CurrentIndex != 3 {
		t.Errorf("CurrentIndex = %d, want 3", snap.CurrentIndex)
	}
	if len(snap.Answers) != 4 || len(snap.Feedbacks) != 4 {
		t.Errorf("answers=%d feedbacks=%d", len(snap.Answers), len(snap.Feedbacks))
	}
	if snap.Notes != "sat: past of sit" || len(snap.Highlights) != 1 {
		t.Errorf("notes or highlights lost: %+v", snap)
	}
	if c.NextQuestion() {
		t.Error("NextQuestion should be a no-op once complete")
	}
	if gen.calls[CallAnswer] != 4 {
		t.Errorf("EvaluateAnswer called %d times", gen.calls[CallAnswer])
	}
}

func TestAnswerCorrect_MascotUsesFeedbackVerbatim(t *testing.T) {
	gen := newFakeGenerator()
	gen.answers = []tutor.AnswerFeedback{
		{Status: tutor.StatusCorrect, FeedbackMessage: "Meow-velous, you got it!"},
		{Status: tutor.StatusPartial, FeedbackMessage: "Almost there."},
	}
	c := New(gen, nil)
	toQuestions(t, c)

	run(t, c, c.SubmitAnswer("the cat"))
	if got := c.Snapshot().Mascot; got != (Mascot{MoodHappy, "Meow-velous, you got it!"}) {
		t.Errorf("mascot = %+v", got)
	}

	c.NextQuestion()
	run(t, c, c.SubmitAnswer("on the mat"))
	if got := c.Snapshot().Mascot; got != (Mascot{MoodSadEncouraging, "Almost there."}) {
		t.Errorf("mascot = %+v", got)
	}
}

func TestBlankSubmissionsAreNoOps(t *testing.T) {
	gen := newFakeGenerator()
	c := New(gen, nil)
	run(t, c, c.StartStory(""))
	c.ReadyToExplain()

	before := c.Snapshot()
	for _, text := range []string{"", "   ", "\n\t"} {
		if call := c.SubmitReformulation(text); call != nil {
			t.Fatalf("SubmitReformulation(%q) returned a call", text)
		}
	}
	after := c.Snapshot()
	if after.Phase != before.Phase || after.Busy || after.ReformulationText != "" || after.Mascot != before.Mascot {
		t.Fatalf("blank submission changed state: %+v", after)
	}

	run(t, c, c.SubmitReformulation("fine"))
	run(t, c, c.StartQuestions())
	calls := gen.total()
	if call := c.SubmitAnswer("  "); call != nil {
		t.Fatal("blank answer returned a call")
	}
	if gen.total() != calls || c.Phase() != PhaseQuestionAnswering || c.Busy() {
		t.Fatalf("blank answer had an effect: phase=%s busy=%v", c.Phase(), c.Busy())
	}
}

func TestBusyRejectsReentry(t *testing.T) {
	c := New(newFakeGenerator(), nil)
	first := c.StartStory("pets")
	if first == nil {
		t.Fatal("expected a call")
	}
	if c.StartStory("other") != nil {
		t.Fatal("second StartStory should be rejected while busy")
	}

	run(t, c, first)
	c.ReadyToExplain()
	call := c.SubmitReformulation("one")
	if c.SubmitReformulation("two") != nil {
		t.Fatal("second submission should be rejected while busy")
	}
	run(t, c, call)
	if got := c.Snapshot().ReformulationText; got != "one" {
		t.Errorf("ReformulationText = %q", got)
	}

	// A result cannot be applied twice.
	call = c.StartQuestions()
	r := call.Run(context.Background())
	if !c.Resolve(r) {
		t.Fatal("first Resolve rejected")
	}
	if c.Resolve(r) {
		t.Fatal("second Resolve of the same result should be rejected")
	}
}

func TestFailures(t *testing.T) {
	tests := []struct {
		kind      CallKind
		wantPhase Phase
	}{
		{CallStory, PhaseSetup},
		{CallReformulation, PhaseReformulationInput},
		{CallQuestions, PhaseReformulationFeedback},
		{CallAnswer, PhaseQuestionAnswering},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			gen := newFakeGenerator()
			core, logs := observer.New(zapcore.WarnLevel)
			c := New(gen, zap.New(core))

			var call *Call
			switch tt.kind {
			case CallStory:
				gen.fail[CallStory] = true
				call = c.StartStory("pets")
			case CallReformulation:
				run(t, c, c.StartStory("pets"))
				c.ReadyToExplain()
				gen.fail[CallReformulation] = true
				call = c.SubmitReformulation("text")
			case CallQuestions:
				run(t, c, c.StartStory("pets"))
				c.ReadyToExplain()
				run(t, c, c.SubmitReformulation("text"))
				gen.fail[CallQuestions] = true
				call = c.StartQuestions()
			case CallAnswer:
				toQuestions(t, c)
				gen.fail[CallAnswer] = true
				call = c.SubmitAnswer("answer")
			}
			run(t, c, call)

			snap := c.Snapshot()
			if snap.Phase != tt.wantPhase {
				t.Errorf("phase = %s, want %s", snap.Phase, tt.wantPhase)
			}
			if snap.Busy || snap.Phase.Loading() {
				t.Errorf("stuck after failure: busy=%v phase=%s", snap.Busy, snap.Phase)
			}
			if snap.Error != TransientError {
				t.Errorf("Error = %q", snap.Error)
			}
			if snap.Mascot != MascotFor(EventFailure, "") {
				t.Errorf("mascot = %+v", snap.Mascot)
			}
			if len(snap.Answers) != 0 || len(snap.Feedbacks) != 0 {
				t.Errorf("failed evaluation recorded an answer: %+v", snap.Answers)
			}

			entries := logs.FilterMessage("generation failed").All()
			if len(entries) != 1 || entries[0].ContextMap()["call"] != tt.kind.String() {
				t.Errorf("expected one failure log for %s, got %+v", tt.kind, entries)
			}
		})
	}
}

func TestFailure_RetryClearsError(t *testing.T) {
	gen := newFakeGenerator()
	gen.fail[CallStory] = true
	c := New(gen, nil)
	run(t, c, c.StartStory("pets"))

	gen.fail[CallStory] = false
	call := c.StartStory("pets")
	if c.Snapshot().Error != "" {
		t.Error("error should clear when a new call starts")
	}
	run(t, c, call)
	if c.Phase() != PhaseStoryReading {
		t.Fatalf("phase = %s", c.Phase())
	}
}

func TestEmptyQuestionsResultFails(t *testing.T) {
	gen := newFakeGenerator()
	gen.questions = nil
	c := New(gen, nil)
	run(t, c, c.StartStory("pets"))
	c.ReadyToExplain()
	run(t, c, c.SubmitReformulation("text"))
	run(t, c, c.StartQuestions())

	if c.Phase() != PhaseReformulationFeedback || c.Snapshot().Error != TransientError {
		t.Fatalf("phase=%s error=%q", c.Phase(), c.Snapshot().Error)
	}
}

func TestReset(t *testing.T) {
	c := New(newFakeGenerator(), nil)
	toQuestions(t, c)
	c.AddHighlight("cat", highlight.Green)
	c.SetNotes("notes")
	run(t, c, c.SubmitAnswer("answer"))
	oldID := c.SessionID()

	c.Reset()
	snap := c.Snapshot()
	if snap.Phase != PhaseSetup || snap.Busy || snap.Error != "" {
		t.Fatalf("unexpected state after reset: %+v", snap)
	}
	if snap.Story != nil || snap.Reformulation != nil || snap.Highlights != nil || snap.Questions != nil {
		t.Errorf("data not cleared: %+v", snap)
	}
	if snap.Notes != "" || snap.ReformulationText != "" || snap.CurrentIndex != 0 {
		t.Errorf("text not cleared: %+v", snap)
	}
	if len(snap.Answers) != 0 || len(snap.Feedbacks) != 0 {
		t.Errorf("answers not cleared: %+v", snap)
	}
	if snap.Mascot != (Mascot{MoodNeutral, "Ready for a new story?"}) {
		t.Errorf("mascot = %+v", snap.Mascot)
	}
	if snap.SessionID == oldID {
		t.Error("reset should start a new session ID")
	}
}

func TestReset_DiscardsStaleResult(t *testing.T) {
	c := New(newFakeGenerator(), nil)
	call := c.StartStory("pets")
	c.Reset()

	if c.Resolve(call.Run(context.Background())) {
		t.Fatal("stale result applied after reset")
	}
	snap := c.Snapshot()
	if snap.Phase != PhaseSetup || snap.Story != nil || snap.Busy {
		t.Fatalf("stale result changed state: %+v", snap)
	}

	// A new call after the reset is still accepted.
	run(t, c, c.StartStory("pets"))
}

func TestResolve_AsyncCall(t *testing.T) {
	c := New(newFakeGenerator(), nil)
	call := c.StartStory("pets")

	done := make(chan Result)
	go func() {
		done <- call.Run(context.Background())
	}()
	if !c.Resolve(<-done) {
		t.Fatal("async result rejected")
	}
	if c.Phase() != PhaseStoryReading {
		t.Fatalf("phase = %s", c.Phase())
	}
}

func TestAddHighlight(t *testing.T) {
	c := New(newFakeGenerator(), nil)
	if _, ok := c.AddHighlight("cat", highlight.Yellow); ok {
		t.Fatal("highlight accepted without a story")
	}
	run(t, c, c.StartStory("pets"))

	tests := []struct {
		text  string
		color highlight.Color
		ok    bool
	}{
		{"cat", highlight.Yellow, true},
		{"  ", highlight.Yellow, false},
		{"cat", highlight.Color("blue"), false},
		{"cat sat", highlight.Green, true},
	}
	for _, tt := range tests {
		h, ok := c.AddHighlight(tt.text, tt.color)
		if ok != tt.ok {
			t.Errorf("AddHighlight(%q, %q) ok = %v", tt.text, tt.color, ok)
		}
		if ok && (h.ID == "" || h.Text != tt.text || h.Color != tt.color) {
			t.Errorf("unexpected highlight %+v", h)
		}
	}

	snap := c.Snapshot()
	if len(snap.Highlights) != 2 {
		t.Fatalf("got %d highlights, want 2", len(snap.Highlights))
	}
	if got := highlight.Markup(snap.Paragraphs()); got != "the [yellow:cat] sat down\n\nthe end" {
		t.Errorf("Markup = %q", got)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	c := New(newFakeGenerator(), nil)
	toQuestions(t, c)
	run(t, c, c.SubmitAnswer("answer"))

	snap := c.Snapshot()
	snap.Answers[0] = "changed"
	snap.Questions[0].Text = "changed"
	snap.Story.Content = "changed"

	again := c.Snapshot()
	if again.Answers[0] != "answer" || again.Questions[0].Text != "Who sat?" || again.Story.Content == "changed" {
		t.Fatalf("snapshot aliases controller state: %+v", again)
	}
}

// TestRandomIntents drives the controller with random intents and checks
// the phase and index invariants after every step.
func TestRandomIntents(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	gen := newFakeGenerator()
	gen.answers = []tutor.AnswerFeedback{
		{Status: tutor.StatusCorrect, FeedbackMessage: "yes"},
		{Status: tutor.StatusIncorrect, FeedbackMessage: "no"},
	}
	c := New(gen, nil)

	var pending []*Call
	texts := []string{"", " ", "an answer"}

	for step := 0; step < 5000; step++ {
		gen.fail[CallKind(rng.Intn(4))] = rng.Intn(4) == 0

		switch rng.Intn(11) {
		case 0:
			pending = append(pending, c.StartStory(texts[rng.Intn(len(texts))]))
		case 1:
			c.ReadyToExplain()
		case 2:
			pending = append(pending, c.SubmitReformulation(texts[rng.Intn(len(texts))]))
		case 3:
			pending = append(pending, c.StartQuestions())
		case 4:
			pending = append(pending, c.SubmitAnswer(texts[rng.Intn(len(texts))]))
		case 5:
			c.NextQuestion()
		case 6:
			if rng.Intn(10) == 0 {
				c.Reset()
			}
		case 7:
			c.AddHighlight("cat", highlight.Pink)
		case 8, 9, 10:
			if len(pending) > 0 {
				i := rng.Intn(len(pending))
				if call := pending[i]; call != nil {
					c.Resolve(call.Run(context.Background()))
				}
				pending = append(pending[:i], pending[i+1:]...)
			}
		}

		snap := c.Snapshot()
		if !snap.Phase.Valid() {
			t.Fatalf("step %d: invalid phase %d", step, snap.Phase)
		}
		if snap.Phase.Loading() && !snap.Busy {
			t.Fatalf("step %d: stuck in %s with no call in flight", step, snap.Phase)
		}
		if len(snap.Questions) > 0 && (snap.CurrentIndex < 0 || snap.CurrentIndex >= len(snap.Questions)) {
			t.Fatalf("step %d: index %d out of range", step, snap.CurrentIndex)
		}
		for i := range snap.Feedbacks {
			if i > snap.CurrentIndex {
				t.Fatalf("step %d: feedback for %d beyond index %d", step, i, snap.CurrentIndex)
			}
			if _, ok := snap.Answers[i]; !ok {
				t.Fatalf("step %d: feedback without answer at %d", step, i)
			}
		}
	}
}
