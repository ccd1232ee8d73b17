// internal/app/features/success/success.go
package success

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/go-chi/chi/v5"
	"github.com/thedevbrian/folio/internal/app/system/viewdata"
)

// Routes returns a chi.Router serving the page shown after the contact
// form is sent.
func Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/", show)
	return r
}

func show(w http.ResponseWriter, r *http.Request) {
	vm := viewdata.NewWithToast(w, r)
	vm.Title = "Message sent"
	templates.Render(w, r, "success/index", vm)
}
