package prompts

// Input carries every field any prompt might render.
// Missing fields render empty strings (templates use missingkey=zero).
type Input struct {
	// Lesson
	Prompt    string
	FileCount int
	// Concept explanation
	Subject  string
	Topic    string
	Subtopic string
	Context  string
}
