// internal/app/features/authconfirm/templates.go
package authconfirm

import (
	"embed"

	"github.com/dalemusser/waffle/pantry/templates"
)

//go:embed templates/*.gohtml
var FS embed.FS

func init() {
	templates.Register(templates.Set{
		Name:     "authconfirm",
		FS:       FS,
		Patterns: []string{"templates/*.gohtml"},
	})
}
