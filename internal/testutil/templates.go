package testutil

import (
	"sync"

	"github.com/dalemusser/waffle/pantry/templates"
	"github.com/thedevbrian/folio/internal/app/resources"
	"go.uber.org/zap"
)

var (
	bootOnce sync.Once
	bootErr  error
)

// MustBootTemplates boots the template engine once per test binary with the
// shared layout and every feature set imported by the test. Feature
// packages register their sets from init.
func MustBootTemplates(t interface{ Fatalf(string, ...any) }) {
	bootOnce.Do(func() {
		resources.LoadSharedTemplates()
		eng := templates.New(false)
		if bootErr = eng.Boot(zap.NewNop()); bootErr == nil {
			templates.UseEngine(eng, zap.NewNop())
		}
	})
	if bootErr != nil {
		t.Fatalf("boot templates: %v", bootErr)
	}
}
