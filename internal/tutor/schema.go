package tutor

import "github.com/abhisek/storyling/internal/llm"

// Every object lists all of its properties as required and forbids extras
// so the same schema works in OpenAI strict mode.

// StorySchema is the response schema for story generation.
var StorySchema = &llm.Schema{
	Name:        "story",
	Description: "A short reading story with its title and theme",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"title": map[string]any{
				"type":        "string",
				"description": "Story title",
			},
			"content": map[string]any{
				"type":        "string",
				"description": "The full story text, paragraphs separated by newlines",
			},
			"theme": map[string]any{
				"type":        "string",
				"description": "The theme the story was written for",
			},
		},
		"required":             []any{"title", "content", "theme"},
		"additionalProperties": false,
	},
}

// ReformulationSchema is the response schema for evaluating a rewrite.
var ReformulationSchema = &llm.Schema{
	Name:        "reformulation-feedback",
	Description: "Corrections and an improved version of the student's reformulation",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"correction": map[string]any{
				"type":        "string",
				"description": "The student's text with errors fixed inline or listed",
			},
			"improvedVersion": map[string]any{
				"type":        "string",
				"description": "A natural, correct version of the summary",
			},
			"explanation": map[string]any{
				"type":        "string",
				"description": "Brief pedagogical explanation",
			},
			"isGood": map[string]any{
				"type":        "boolean",
				"description": "Whether it is a decent attempt overall",
			},
		},
		"required":             []any{"correction", "improvedVersion", "explanation", "isGood"},
		"additionalProperties": false,
	},
}

// QuestionsSchema is the response schema for question generation.
// Structured output modes need an object at the root, so the list is
// wrapped in a "questions" property.
var QuestionsSchema = &llm.Schema{
	Name:        "comprehension-questions",
	Description: "Comprehension questions about the story",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"questions": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id": map[string]any{
							"type":        "integer",
							"description": "Question number starting at 1",
						},
						"question": map[string]any{
							"type":        "string",
							"description": "The question text",
						},
					},
					"required":             []any{"id", "question"},
					"additionalProperties": false,
				},
			},
		},
		"required":             []any{"questions"},
		"additionalProperties": false,
	},
}

// AnswerSchema is the response schema for evaluating an answer.
var AnswerSchema = &llm.Schema{
	Name:        "answer-feedback",
	Description: "Evaluation of a comprehension answer",
	Definition: map[string]any{
		"type": "object",
		"properties": map[string]any{
			"status": map[string]any{
				"type": "string",
				"enum": []any{string(StatusCorrect), string(StatusPartial), string(StatusIncorrect)},
			},
			"correction": map[string]any{
				"type":        "string",
				"description": "The student's sentence with mistakes fixed",
			},
			"naturalVersion": map[string]any{
				"type":        "string",
				"description": "How a native speaker might answer",
			},
			"feedbackMessage": map[string]any{
				"type":        "string",
				"description": "A short motivating comment in the voice of a friendly black cat",
			},
		},
		"required":             []any{"status", "correction", "naturalVersion", "feedbackMessage"},
		"additionalProperties": false,
	},
}
