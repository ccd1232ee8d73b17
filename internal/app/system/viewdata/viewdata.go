// internal/app/system/viewdata/viewdata.go
package viewdata

import (
	"net/http"

	"github.com/dalemusser/waffle/pantry/httpnav"
	"github.com/gorilla/csrf"
	"github.com/thedevbrian/folio/internal/app/system/auth"
)

// SiteName is shown in the page title and the header.
const SiteName = "Brian Mwangi"

// BaseVM contains common fields for all view models.
// Embed this struct in your feature-specific view models.
//
//	type postVM struct {
//	    viewdata.BaseVM
//	    Post content.Post
//	}
type BaseVM struct {
	SiteName string

	// From the session middleware.
	IsLoggedIn bool
	UserID     string
	UserName   string

	Title       string
	CurrentPath string

	CSRFToken string

	// Toast is the one-shot flash queued by the previous request.
	Toast string
}

// FlashReader pops the pending toast message. *auth.SessionManager
// implements it.
type FlashReader interface {
	PopFlash(w http.ResponseWriter, r *http.Request) string
}

var flashReader FlashReader

// Init installs the flash source. Call this once at startup from bootstrap.
func Init(fr FlashReader) {
	flashReader = fr
}

// New creates a BaseVM from the request.
func New(r *http.Request) BaseVM {
	vm := BaseVM{
		SiteName:    SiteName,
		CurrentPath: httpnav.CurrentPath(r),
		CSRFToken:   csrf.Token(r),
	}
	if u, ok := auth.CurrentUser(r); ok {
		vm.IsLoggedIn = true
		vm.UserID = u.ID
		vm.UserName = u.Name
	}
	return vm
}

// NewWithToast is New for pages that show the flash. Reading the flash
// clears it, so w must not have been written to yet.
func NewWithToast(w http.ResponseWriter, r *http.Request) BaseVM {
	vm := New(r)
	if flashReader != nil {
		vm.Toast = flashReader.PopFlash(w, r)
	}
	return vm
}
