// Package schema declares the JSON output contracts handed to the generative model and
// re-validates whatever the model sends back against the same contract.
package schema

import (
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

var (
	LessonActions = []string{"write", "explain", "draw"}
	StepPositions = []string{"top-left", "top-center", "top-right", "center", "bottom-left", "bottom-center", "bottom-right"}
	VisualTypes   = []string{"svg", "chart", "diagram", "equation", "image"}
)

type Contract struct {
	Name   string
	Schema map[string]any

	once     sync.Once
	compiled *gojsonschema.Schema
	err      error
}

type ValidationError struct {
	Field       string
	Description string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Description)
}

// MismatchError lists every schema violation found in one document.
type MismatchError struct {
	Contract string
	Errors   []ValidationError
}

func (e *MismatchError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, ve := range e.Errors {
		parts = append(parts, ve.Error())
	}
	return fmt.Sprintf("%s: output does not match schema: %s", e.Contract, strings.Join(parts, "; "))
}

// Validate checks raw JSON against the contract. A malformed document or a schema
// mismatch both return an error; mismatches are *MismatchError.
func (c *Contract) Validate(raw []byte) error {
	c.once.Do(func() {
		c.compiled, c.err = gojsonschema.NewSchema(gojsonschema.NewGoLoader(c.Schema))
	})
	if c.err != nil {
		return fmt.Errorf("%s: compile schema: %w", c.Name, c.err)
	}
	result, err := c.compiled.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return fmt.Errorf("%s: invalid json: %w", c.Name, err)
	}
	if result.Valid() {
		return nil
	}
	mm := &MismatchError{Contract: c.Name}
	for _, re := range result.Errors() {
		mm.Errors = append(mm.Errors, ValidationError{Field: re.Field(), Description: re.Description()})
	}
	return mm
}

var lessonContract = &Contract{
	Name: "lesson",
	Schema: map[string]any{
		"type":     "object",
		"required": []string{"lesson"},
		"properties": map[string]any{
			"lesson": map[string]any{
				"type":        "array",
				"minItems":    1,
				"description": "Ordered lesson steps.",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"action", "content"},
					"properties": map[string]any{
						"action": map[string]any{
							"type": "string",
							"enum": LessonActions,
						},
						"content": map[string]any{
							"type":        "string",
							"minLength":   1,
							"description": "Text shown on the whiteboard.",
						},
						"script": map[string]any{
							"type":        "string",
							"description": "Narration spoken while the step is shown.",
						},
						"position": map[string]any{
							"type": "string",
							"enum": StepPositions,
						},
						"visual": map[string]any{
							"type":     "object",
							"required": []string{"type", "data"},
							"properties": map[string]any{
								"type":   map[string]any{"type": "string", "enum": VisualTypes},
								"data":   map[string]any{"type": "string"},
								"width":  map[string]any{"type": "integer"},
								"height": map[string]any{"type": "integer"},
							},
						},
					},
				},
			},
		},
	},
}

var explanationContract = &Contract{
	Name: "explanation",
	Schema: map[string]any{
		"type":     "object",
		"required": []string{"explanation", "steps"},
		"properties": map[string]any{
			"explanation": map[string]any{
				"type":      "string",
				"minLength": 1,
			},
			"steps": map[string]any{
				"type": "array",
				"items": map[string]any{
					"type":     "object",
					"required": []string{"title", "description"},
					"properties": map[string]any{
						"title":       map[string]any{"type": "string", "minLength": 1},
						"description": map[string]any{"type": "string"},
					},
				},
			},
		},
	},
}

func Lesson() *Contract      { return lessonContract }
func Explanation() *Contract { return explanationContract }
