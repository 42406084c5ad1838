package testframework

import (
	"os"
	"time"

	"github.com/synonymdev/bitkit-e2e-tests-sub000/config"
)

// TIMEOUT bounds scenario level waits. SLOW_MACHINE=1 extends it.
var TIMEOUT = setTimeout()

func setTimeout() time.Duration {
	cfg := config.DefaultConfig()
	cfg.SlowMachine = os.Getenv("SLOW_MACHINE")
	return cfg.Timeout()
}

func IsIntegrationTest(t testingT) {
	if os.Getenv("RUN_INTEGRATION_TESTS") != "1" {
		t.Skip("set env RUN_INTEGRATION_TESTS=1 to run this test")
	}
}

type testingT interface {
	Skip(args ...any)
}
