// Package prompts holds the prompt templates sent to external models, one
// subpackage per prompt, plus shared template helpers.
package prompts

// Prompt pairs a system prompt with a rendered user message.
type Prompt struct {
	System  string
	Content string
}
