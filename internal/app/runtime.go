package app

import "os"

const testModeEnv = "LEDGERLINE_TEST_MODE"

// InTestMode reports whether the binaries should exit before binding any
// network listeners. CI smoke tests set LEDGERLINE_TEST_MODE=1 to verify the
// entrypoints wire up without starting the server or the worker.
func InTestMode() bool {
	return os.Getenv(testModeEnv) == "1"
}
