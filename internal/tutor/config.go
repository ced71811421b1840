package tutor

// DefaultTheme is used when the student asks for a story without a theme.
const DefaultTheme = "a life lesson or cultural discovery"

// Config holds generation settings shared by all tutor calls.
type Config struct {
	MaxTokens   int
	Temperature float64

	// QuestionCount is how many comprehension questions to ask.
	QuestionCount int

	StoryMinWords int
	StoryMaxWords int

	// Level describes the student for the prompts.
	Level string
}

// DefaultConfig returns the defaults: four questions on a 150-200 word
// story for a first-year English studies student.
func DefaultConfig() Config {
	return Config{
		MaxTokens:     2048,
		Temperature:   0.7,
		QuestionCount: 4,
		StoryMinWords: 150,
		StoryMaxWords: 200,
		Level:         "a first-year university student in English studies (L1 LLCER)",
	}
}
