// Package judge defines the prompt asking a model whether an extracted value
// matches its ground-truth counterpart.
package judge

import (
	"strings"
	"text/template"

	"github.com/docuverify/fieldcheck/internal/prompts"
)

// System is the system prompt for the judge model.
const System = `You are an expert document analyst evaluating the accuracy of data extracted from documents. You compare an extracted value against a ground-truth value and decide whether they represent the same information, tolerating differences in formatting, abbreviation, and phrasing. Respond with JSON only.`

const promptText = `Compare the following values extracted from a "{{.DocumentClass}}" document.

Attribute: {{.AttributeName}}
{{- if .AttributeDescription}}
Description: {{.AttributeDescription}}
{{- end}}

Ground truth value: {{.ExpectedValue}}
Extracted value: {{.ActualValue}}

Do these two values represent the same information? Formatting differences (casing, punctuation, abbreviations, date or number formats) do not matter; the underlying content does.

Respond with a JSON object:
{
  "match": <true or false>,
  "score": <similarity from 0.0 to 1.0>,
  "reason": "<one sentence explaining the decision>"
}`

var tmpl = template.Must(template.New("judge").Parse(promptText))

// Variables are the template's substitution fields, extracted at load so a
// template edit that adds or drops a field is caught by tests against Vars.
var Variables = prompts.ExtractVariables(promptText)

// Fingerprint identifies this revision of the prompt pair. Recorded in run
// artifacts so a scored result can be traced to the prompt that judged it.
var Fingerprint = prompts.HashText(System + "\n" + promptText)

// Vars are the substitutions for the judge prompt.
type Vars struct {
	DocumentClass        string
	AttributeName        string
	AttributeDescription string
	ExpectedValue        string
	ActualValue          string
}

// Render produces the message pair for the judge model.
func Render(v Vars) (prompts.Prompt, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, v); err != nil {
		return prompts.Prompt{}, err
	}
	return prompts.Prompt{System: System, Content: b.String()}, nil
}
