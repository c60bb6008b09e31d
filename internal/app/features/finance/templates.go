// internal/app/features/finance/templates.go
package finance

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "finance",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
