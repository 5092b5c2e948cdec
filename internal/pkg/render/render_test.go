package render

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov/docflow/internal/app/models"
	"github.com/akarpov/docflow/internal/app/templates"
)

func testTemplate(t *testing.T) *templates.Template {
	t.Helper()
	reg, err := templates.NewRegistry(&templates.Template{
		Name:  "LeaveRequest",
		Title: "Academic Leave Request",
		Parts: []templates.Part{
			{Text: "Surname: "},
			{Field: "LastName", Owner: "STUDENT"},
			{Text: "\nOrder: "},
			{Field: "OrderNumber", Owner: "TEACHER"},
		},
	})
	require.NoError(t, err)
	tpl, ok := reg.Get("LeaveRequest")
	require.True(t, ok)
	return tpl
}

func TestText(t *testing.T) {
	tpl := testTemplate(t)

	t.Run("substitutes supplied values", func(t *testing.T) {
		out := Text(tpl, models.SubmittedData{"LastName": "Ivanov", "OrderNumber": "42"})
		assert.Equal(t, "Surname: Ivanov\nOrder: 42", string(out))
	})

	t.Run("marks unfilled slots with the owner role", func(t *testing.T) {
		out := Text(tpl, models.SubmittedData{"LastName": "Ivanov"})
		assert.Equal(t, "Surname: Ivanov\nOrder: [NOT FILLED: OrderNumber (TEACHER)]", string(out))
	})

	t.Run("empty string is a filled value, not a missing one", func(t *testing.T) {
		out := Text(tpl, models.SubmittedData{"LastName": "", "OrderNumber": "42"})
		assert.Equal(t, "Surname: \nOrder: 42", string(out))
	})
}

func TestDocx(t *testing.T) {
	tpl := testTemplate(t)
	data := models.SubmittedData{"LastName": "Ivanov", "OrderNumber": "42"}

	t.Run("rendering is byte-identical across calls", func(t *testing.T) {
		first, err := Docx(tpl, data)
		require.NoError(t, err)
		second, err := Docx(tpl, data)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})

	t.Run("package contains the document part with the values", func(t *testing.T) {
		out, err := Docx(tpl, data)
		require.NoError(t, err)

		zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
		require.NoError(t, err)

		names := make([]string, 0, len(zr.File))
		for _, f := range zr.File {
			names = append(names, f.Name)
		}
		assert.Equal(t, []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml"}, names)

		rc, err := zr.Open("word/document.xml")
		require.NoError(t, err)
		defer rc.Close()
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.Contains(t, string(body), "Ivanov")
		assert.Contains(t, string(body), "42")
	})

	t.Run("values are XML-escaped", func(t *testing.T) {
		out, err := Docx(tpl, models.SubmittedData{"LastName": "<Ivanov & Co>", "OrderNumber": "42"})
		require.NoError(t, err)

		zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
		require.NoError(t, err)
		rc, err := zr.Open("word/document.xml")
		require.NoError(t, err)
		defer rc.Close()
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		assert.NotContains(t, string(body), "<Ivanov")
		assert.Contains(t, string(body), "&lt;Ivanov &amp; Co&gt;")
	})
}
