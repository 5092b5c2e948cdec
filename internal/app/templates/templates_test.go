package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akarpov/docflow/internal/app/models"
)

func validTemplate() *Template {
	return &Template{
		Name:  "LeaveRequest",
		Title: "Academic Leave Request",
		Parts: []Part{
			{Text: "Surname: "},
			{Field: "LastName", Owner: "STUDENT"},
			{Text: "\nOrder: "},
			{Field: "OrderNumber", Owner: "TEACHER"},
		},
	}
}

func TestNewRegistry(t *testing.T) {
	t.Run("accepts a well-formed template", func(t *testing.T) {
		reg, err := NewRegistry(validTemplate())
		require.NoError(t, err)

		tpl, ok := reg.Get("LeaveRequest")
		require.True(t, ok)
		assert.Equal(t, []string{"LastName", "OrderNumber"}, tpl.FieldNames())

		owner, ok := tpl.FieldOwner("OrderNumber")
		require.True(t, ok)
		assert.Equal(t, models.RoleTeacher, owner)
	})

	tests := []struct {
		name    string
		mutate  func(tpl *Template)
		wantErr string
	}{
		{
			name:    "empty name",
			mutate:  func(tpl *Template) { tpl.Name = "" },
			wantErr: "name",
		},
		{
			name:    "no parts",
			mutate:  func(tpl *Template) { tpl.Parts = nil },
			wantErr: "part",
		},
		{
			name: "part is both text and field",
			mutate: func(tpl *Template) {
				tpl.Parts[0] = Part{Text: "Surname: ", Field: "LastName", Owner: "STUDENT"}
			},
			wantErr: "both",
		},
		{
			name: "field without an owner",
			mutate: func(tpl *Template) {
				tpl.Parts[1] = Part{Field: "LastName"}
			},
			wantErr: "owner",
		},
		{
			name: "curator cannot own a field",
			mutate: func(tpl *Template) {
				tpl.Parts[1] = Part{Field: "LastName", Owner: "CURATOR"}
			},
			wantErr: "owner",
		},
		{
			name: "duplicate field name",
			mutate: func(tpl *Template) {
				tpl.Parts[3] = Part{Field: "LastName", Owner: "TEACHER"}
			},
			wantErr: "twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tpl := validTemplate()
			tt.mutate(tpl)
			_, err := NewRegistry(tpl)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	t.Run("duplicate template names collide", func(t *testing.T) {
		_, err := NewRegistry(validTemplate(), validTemplate())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate template name")
	})
}

func TestLoad(t *testing.T) {
	t.Run("loads a registry from YAML", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "templates.yaml")
		content := `templates:
  - name: "LeaveRequest"
    title: "Academic Leave Request"
    parts:
      - text: "Surname: "
      - field: "LastName"
        owner: "STUDENT"
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		reg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"LeaveRequest"}, reg.Names())
	})

	t.Run("a registry without templates is a startup error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "templates.yaml")
		require.NoError(t, os.WriteFile(path, []byte("templates: []\n"), 0o600))

		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("missing file is a startup error", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}
