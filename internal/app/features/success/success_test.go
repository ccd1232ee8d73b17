package success

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/thedevbrian/folio/internal/testutil"
)

func TestShow(t *testing.T) {
	testutil.MustBootTemplates(t)

	rec := testutil.NewRecorder()
	Routes().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	rec.AssertStatus(t, http.StatusOK)
	rec.AssertContains(t, "Your message has been sent")
}
