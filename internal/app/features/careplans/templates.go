// internal/app/features/careplans/templates.go
package careplans

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "careplans",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
