package runner

import (
	"encoding/json"
	"strings"

	"github.com/aretw0/wellplan/pkg/ports"
)

// Handler is the front end of a run: it shows the planned commands and speaks for the operator.
// This allows switching between Text (terminal) and JSON (host process) modes.
type Handler interface {
	ports.Dispatcher
	ports.Operator
}

// parseConfirmation interprets an operator answer. Answers may be plain text or JSON scalars.
func parseConfirmation(answer string) bool {
	answer = strings.TrimSpace(answer)

	var b bool
	if err := json.Unmarshal([]byte(answer), &b); err == nil {
		return b
	}
	var s string
	if err := json.Unmarshal([]byte(answer), &s); err == nil {
		answer = s
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes", "ok", "done", "true":
		return true
	}
	return false
}

// isAbort reports whether a checkpoint answer asks to stop the run.
func isAbort(answer string) bool {
	answer = strings.TrimSpace(answer)

	var b bool
	if err := json.Unmarshal([]byte(answer), &b); err == nil {
		return !b
	}
	var s string
	if err := json.Unmarshal([]byte(answer), &s); err == nil {
		answer = s
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "abort", "stop", "q", "quit", "n", "no":
		return true
	}
	return false
}
