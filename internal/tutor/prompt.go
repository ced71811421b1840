package tutor

import (
	"fmt"
	"strings"
)

func systemPrompt(cfg Config) string {
	return fmt.Sprintf(`You are a helpful, kind and encouraging English tutor.
Your student is %s.
Your goal is to help them improve reading comprehension and writing skills.
Always use simple, clear English suitable for an intermediate or advanced academic learner.
Be extremely encouraging. Never be rude.`, cfg.Level)
}

func storyPrompt(cfg Config, theme string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Write a short story (%d-%d words) for %s.\n", cfg.StoryMinWords, cfg.StoryMaxWords, cfg.Level)
	fmt.Fprintf(&b, "Theme: %s.\n", theme)
	b.WriteString("Use clear vocabulary appropriate for university level.\n")
	b.WriteString("Separate paragraphs with a single newline.\n")
	b.WriteString("Do NOT include any explanations yet.\n")
	fmt.Fprintf(&b, "Set \"theme\" to %q.\n", theme)
	return b.String()
}

func reformulationPrompt(story, text string) string {
	var b strings.Builder
	b.WriteString("The student has rewritten the following story in their own words.\n\n")
	fmt.Fprintf(&b, "STORY:\n%s\n\n", story)
	fmt.Fprintf(&b, "STUDENT REFORMULATION:\n%q\n\n", text)
	b.WriteString("Analyze the student's text.\n")
	b.WriteString("1. Correct spelling and grammar errors.\n")
	b.WriteString("2. Provide a more natural, academic version.\n")
	b.WriteString("3. Explain briefly why your version is better or what the main error was, in simple English.\n")
	b.WriteString("4. Decide whether the attempt was good overall (isGood).\n")
	return b.String()
}

func questionsPrompt(count int, story string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Generate %d comprehension questions based on this story:\n%q\n\n", count, story)
	b.WriteString("Mix open and closed questions.\n")
	b.WriteString("Focus on global comprehension and details.\n")
	fmt.Fprintf(&b, "Number the questions from 1 to %d.\n", count)
	return b.String()
}

func answerPrompt(story, question, answer string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Context story: %s\n", story)
	fmt.Fprintf(&b, "Question: %s\n", question)
	fmt.Fprintf(&b, "Student answer: %q\n\n", answer)
	b.WriteString("Evaluate the answer.\n")
	b.WriteString("1. status: CORRECT (good understanding and grammar), PARTIAL (understood but grammar errors or missed nuance), INCORRECT (wrong information).\n")
	b.WriteString("2. correction: fix mistakes in the student's sentence.\n")
	b.WriteString("3. naturalVersion: how a native speaker might answer.\n")
	b.WriteString("4. feedbackMessage: a short motivating comment for the feedback card, in the voice of a friendly black cat mascot.\n")
	return b.String()
}
