// vouch validates OCR-extracted bank statements: hard rules, risk
// heuristics, known misread patterns, and a weighted confidence score.
package main

import (
	"os"

	"github.com/calder/vouch/cmd/vouch/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if code := cmd.VerdictExitCode(err); code >= 0 {
			os.Exit(code)
		}
		os.Exit(3)
	}
}
