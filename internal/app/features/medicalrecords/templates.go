// internal/app/features/medicalrecords/templates.go
package medicalrecords

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "medicalrecords",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
