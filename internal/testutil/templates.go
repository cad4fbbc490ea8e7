package testutil

import (
	"sync"
	"testing"

	"github.com/dalemusser/trainingplanner/internal/app/resources"
	"github.com/dalemusser/waffle/pantry/templates"
	"go.uber.org/zap"
)

var (
	bootOnce sync.Once
	bootErr  error
)

// BootTemplates boots the template engine with the shared layout and every
// template set registered by the packages the test imports. It runs once per
// test binary.
func BootTemplates(t *testing.T) {
	t.Helper()
	bootOnce.Do(func() {
		resources.LoadSharedTemplates()
		logger := zap.NewNop()
		eng := templates.New(false)
		if bootErr = eng.Boot(logger); bootErr != nil {
			return
		}
		templates.UseEngine(eng, logger)
	})
	if bootErr != nil {
		t.Fatalf("boot templates: %v", bootErr)
	}
}
