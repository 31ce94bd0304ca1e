// Package guard switches the application into test mode when imported.
package guard

import "os"

// EnvVar is the flag read by app.InTestMode.
const EnvVar = "BETTERPAGINATION_TEST_MODE"

func init() {
	if os.Getenv(EnvVar) == "" {
		_ = os.Setenv(EnvVar, "1")
	}
}
