package session

// Mood is the mascot's expression.
type Mood int

const (
	MoodNeutral Mood = iota
	MoodHappy
	MoodSadEncouraging
	MoodThinking
	MoodWaiting
)

func (m Mood) String() string {
	switch m {
	case MoodNeutral:
		return "NEUTRAL"
	case MoodHappy:
		return "HAPPY"
	case MoodSadEncouraging:
		return "SAD_ENCOURAGING"
	case MoodThinking:
		return "THINKING"
	case MoodWaiting:
		return "WAITING"
	}
	return "UNKNOWN"
}

// Mascot is what the cat shows and says.
type Mascot struct {
	Mood    Mood
	Message string
}

// Event is a session outcome the mascot reacts to.
type Event int

const (
	EventStart Event = iota
	EventStoryRequested
	EventStoryReady
	EventReformulationSubmitted
	EventReformulationGood
	EventReformulationWeak
	EventQuestionsRequested
	EventQuestionsReady
	EventAnswerSubmitted
	EventAnswerCorrect
	EventAnswerIncorrect
	EventNextQuestion
	EventComplete
	EventFailure
	EventReset
)

// MascotFor returns the mascot for an outcome. detail is the model's
// feedback message and is only used by the answer events, where it is
// shown verbatim.
func MascotFor(ev Event, detail string) Mascot {
	switch ev {
	case EventStoryRequested:
		return Mascot{MoodThinking, "Writing a special story just for you..."}
	case EventStoryReady:
		return Mascot{MoodWaiting, "Read carefully! You can highlight text and take notes below."}
	case EventReformulationSubmitted:
		return Mascot{MoodThinking, "Analyzing your writing..."}
	case EventReformulationGood:
		return Mascot{MoodHappy, "Great job! Keep it up!"}
	case EventReformulationWeak:
		return Mascot{MoodSadEncouraging, "Good try! Check the corrections."}
	case EventQuestionsRequested:
		return Mascot{MoodThinking, "Creating questions..."}
	case EventQuestionsReady:
		return Mascot{MoodWaiting, "Look at the story if you need help!"}
	case EventAnswerSubmitted:
		return Mascot{MoodThinking, "Checking..."}
	case EventAnswerCorrect:
		return Mascot{MoodHappy, orDefault(detail, "Great job! Keep it up!")}
	case EventAnswerIncorrect:
		return Mascot{MoodSadEncouraging, orDefault(detail, "Good try! Check the corrections.")}
	case EventNextQuestion:
		return Mascot{MoodWaiting, "Next one!"}
	case EventComplete:
		return Mascot{MoodHappy, "All done!"}
	case EventFailure:
		return Mascot{MoodSadEncouraging, "Oh no... I lost connection."}
	case EventReset:
		return Mascot{MoodNeutral, "Ready for a new story?"}
	}
	return Mascot{MoodNeutral, "Hi! I'm here to help you learn."}
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
