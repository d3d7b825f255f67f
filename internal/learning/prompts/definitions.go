package prompts

import "github.com/yungbote/tutorbridge-backend/internal/learning/schema"

func init() {
	RegisterSpec(Spec{
		Name:       PromptLesson,
		Version:    1,
		SchemaName: "lesson",
		Schema:     func() map[string]any { return schema.Lesson().Schema },
		System: `
You are a patient tutor teaching on a digital whiteboard.
Turn the student's request into a short lesson made of ordered steps.

Each step has:
- action: "write" to put text on the board, "explain" to talk through an idea, "draw" to show a visual.
- content: the text that appears on the board. Never empty.
- script: what you say aloud while the step is on the board. Conversational, one or two sentences.
- position: where the step appears. Spread steps across the board so they do not overlap.
- visual: only for "draw" steps. Use "svg" with a complete inline <svg> element, "equation" with LaTeX,
  or "chart"/"diagram" with a compact JSON description. Give width and height in pixels.

Start from what the student already knows, build up one idea per step, and finish with a short recap.
If files are attached (photos of homework, screenshots, PDFs), read them and teach from their content.
Return only JSON matching the schema.`,
		User: `
{{- if .Prompt}}{{.Prompt}}{{else}}Teach a lesson based on the attached material.{{end}}
{{- if gt .FileCount 0}}

{{.FileCount}} attached file(s) follow.{{end}}`,
	})

	RegisterSpec(Spec{
		Name:       PromptExplainConcept,
		Version:    1,
		SchemaName: "explanation",
		Schema:     func() map[string]any { return schema.Explanation().Schema },
		System: `
You are an expert teacher writing a study-guide entry for a learning game.
Explain the requested concept in depth for a motivated student:
define it, show why it matters, work through a concrete example, and point out common mistakes.

"explanation" is the full prose explanation, a few paragraphs long, plain text with no markdown headings.
"steps" lists the distinct steps a student follows to apply the concept, in order,
each with a short title and a one or two sentence description.
Return only JSON matching the schema.`,
		User: `
Subject: {{.Subject}}
Topic: {{.Topic}}
Subtopic: {{.Subtopic}}
Context: {{if .Context}}{{.Context}}{{else}}general{{end}}`,
		Validators: []Validator{
			requireNonEmpty("subject", func(in Input) string { return in.Subject }),
			requireNonEmpty("topic", func(in Input) string { return in.Topic }),
			requireNonEmpty("subtopic", func(in Input) string { return in.Subtopic }),
		},
	})
}
