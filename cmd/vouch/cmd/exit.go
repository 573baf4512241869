package cmd

import "fmt"

// verdictExit is returned by validate to signal a status-derived exit
// code: 0=approved, 1=review recommended, 2=needs review, 3=operational
// failure.
type verdictExit struct{ code int }

func (e verdictExit) Error() string {
	switch e.code {
	case 1:
		return "review recommended"
	case 2:
		return "needs review"
	case 3:
		return "one or more documents failed"
	default:
		return fmt.Sprintf("exit %d", e.code)
	}
}

// VerdictExitCode extracts the exit code from a verdictExit error.
// Returns -1 if the error is not a verdictExit.
func VerdictExitCode(err error) int {
	if ve, ok := err.(verdictExit); ok {
		return ve.code
	}
	return -1
}
