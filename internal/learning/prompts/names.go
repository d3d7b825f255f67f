package prompts

type PromptName string

const (
	PromptLesson         PromptName = "whiteboard_lesson"
	PromptExplainConcept PromptName = "explain_concept"
)
