// Package form renders category form schemas into bounded input specs and
// validates submitted values. Pure transforms, no side effects.
package form

import (
	"strings"

	"github.com/storedesk/ticketbot/internal/category"
	"github.com/storedesk/ticketbot/internal/errs"
)

// MaxFields is the hard cap on rendered inputs. Discord modals refuse more
// than five rows, so Render truncates the schema silently at this bound.
const MaxFields = 5

// Spec is a renderable form: the category it came from plus at most
// MaxFields fields in schema order.
type Spec struct {
	CategoryID string
	Title      string
	Fields     []category.Field
}

// Answer is one collected label/value pair, in field order.
type Answer struct {
	Label string
	Value string
}

// Render produces the input spec for a category. Fields beyond MaxFields
// are dropped, preserving source order of the rest.
func Render(cat category.Category) Spec {
	fields := cat.Form
	if len(fields) > MaxFields {
		fields = fields[:MaxFields]
	}
	title := cat.FormTitle
	if title == "" {
		title = "Abrir Ticket"
	}
	return Spec{CategoryID: cat.ID, Title: title, Fields: fields}
}

// Collect validates raw submitted values against spec and returns answers
// in field order. It fails with *errs.ValidationError when a required
// field's trimmed value is empty. Values are otherwise taken as-is:
// price/quantity style fields stay free text.
func Collect(spec Spec, raw map[string]string) ([]Answer, error) {
	answers := make([]Answer, 0, len(spec.Fields))
	for _, f := range spec.Fields {
		value := raw[f.ID]
		if f.Required && strings.TrimSpace(value) == "" {
			return nil, &errs.ValidationError{Field: f.ID, Label: f.Label}
		}
		answers = append(answers, Answer{Label: f.Label, Value: value})
	}
	return answers, nil
}
