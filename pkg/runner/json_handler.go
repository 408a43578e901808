package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/wellplan/pkg/domain"
)

// Event types written by JSONHandler.
const (
	EventCommand         = "command"
	EventOperatorRequest = "operator_request"
)

// Operator request kinds.
const (
	RequestReplenish   = "replenish"
	RequestAcknowledge = "acknowledge"
)

// Event is one NDJSON line written by JSONHandler.
type Event struct {
	Type    string          `json:"type"`
	Command *domain.Command `json:"command,omitempty"`
	Request string          `json:"request,omitempty"`
	Pool    *domain.TipPool `json:"pool,omitempty"`
	Message string          `json:"message,omitempty"`
}

// JSONHandler drives a host process over JSON Lines: every command and operator request is one
// line on the writer, and every operator answer is one line on the reader.
// Answers are JSON booleans, JSON strings or plain text ("yes", "abort").
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder

	mu sync.Mutex
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

// Dispatch emits the command.
func (h *JSONHandler) Dispatch(ctx context.Context, cmd domain.Command) error {
	return h.emit(Event{Type: EventCommand, Command: &cmd})
}

// ConfirmReplenish emits a replenish request and reads the answer.
func (h *JSONHandler) ConfirmReplenish(ctx context.Context, pool domain.TipPool) (bool, error) {
	if err := h.emit(Event{Type: EventOperatorRequest, Request: RequestReplenish, Pool: &pool}); err != nil {
		return false, err
	}
	answer, err := h.input()
	if err != nil {
		return false, err
	}
	return parseConfirmation(answer), nil
}

// Acknowledge emits a checkpoint request and reads the answer.
func (h *JSONHandler) Acknowledge(ctx context.Context, message string) error {
	if err := h.emit(Event{Type: EventOperatorRequest, Request: RequestAcknowledge, Message: message}); err != nil {
		return err
	}
	answer, err := h.input()
	if err != nil {
		return err
	}
	if isAbort(answer) {
		return ErrOperatorDeclined
	}
	return nil
}

func (h *JSONHandler) emit(evt Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.Encoder.Encode(evt)
}

func (h *JSONHandler) input() (string, error) {
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || text == "") {
		if err == io.EOF {
			return "", fmt.Errorf("operator input closed: %w", err)
		}
		return "", err
	}
	return SanitizeInput(strings.TrimSpace(text))
}
