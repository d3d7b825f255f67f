package gemini

// Part is one element of a multi-part user message: either text or an inline attachment.
type Part struct {
	Text       string
	InlineData *InlineData
}

type InlineData struct {
	MimeType string
	Data     []byte
}

func TextPart(s string) Part { return Part{Text: s} }

func InlinePart(mimeType string, data []byte) Part {
	return Part{InlineData: &InlineData{MimeType: mimeType, Data: data}}
}

// Request is a single-turn structured generation call.
type Request struct {
	SystemInstruction string
	Parts             []Part

	// Schema is a JSON Schema (lower-case types). It is converted to the provider's
	// OpenAPI-subset dialect before sending.
	Schema map[string]any

	// Temperature overrides the client default when non-nil.
	Temperature *float64
}

// ---- wire types ----

type wireRequest struct {
	Contents          []wireContent    `json:"contents"`
	SystemInstruction *wireContent     `json:"systemInstruction,omitempty"`
	GenerationConfig  wireGenerationCfg `json:"generationConfig"`
}

type wireContent struct {
	Role  string     `json:"role,omitempty"`
	Parts []wirePart `json:"parts"`
}

type wirePart struct {
	Text       string          `json:"text,omitempty"`
	InlineData *wireInlineData `json:"inlineData,omitempty"`
}

type wireInlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type wireGenerationCfg struct {
	Temperature      *float64       `json:"temperature,omitempty"`
	ResponseMimeType string         `json:"responseMimeType,omitempty"`
	ResponseSchema   map[string]any `json:"responseSchema,omitempty"`
}

type wireResponse struct {
	Candidates []struct {
		Content      wireContent `json:"content"`
		FinishReason string      `json:"finishReason"`
	} `json:"candidates"`
	PromptFeedback *struct {
		BlockReason string `json:"blockReason,omitempty"`
	} `json:"promptFeedback,omitempty"`
}
