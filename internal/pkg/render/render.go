// Package render turns a document template plus accumulated field values into
// a downloadable artifact. Rendering is deterministic: the same
// (template, data) pair always produces byte-identical output.
package render

import (
	"fmt"
	"strings"

	"github.com/akarpov/docflow/internal/app/models"
	"github.com/akarpov/docflow/internal/app/templates"
)

// Placeholder returns the visible marker emitted for an unfilled input slot.
// An incomplete document must be visually distinguishable from a complete one.
func Placeholder(field string, owner models.RoleType) string {
	return fmt.Sprintf("[NOT FILLED: %s (%s)]", field, owner)
}

// Text renders the template as plain UTF-8 text: literal parts verbatim,
// input slots substituted with the supplied value or the placeholder marker.
func Text(tpl *templates.Template, data models.SubmittedData) []byte {
	var b strings.Builder
	for _, p := range tpl.Parts {
		if !p.IsField() {
			b.WriteString(p.Text)
			continue
		}
		if v, ok := data[p.Field]; ok {
			b.WriteString(v)
			continue
		}
		owner, _ := tpl.FieldOwner(p.Field)
		b.WriteString(Placeholder(p.Field, owner))
	}
	return []byte(b.String())
}
