package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/aretw0/wellplan/pkg/domain"
	"github.com/muesli/termenv"
)

// TextHandler prints commands for a person watching the robot and prompts them on stdin.
type TextHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Profile termenv.Profile

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerProfile sets the color profile. termenv.Ascii disables styling.
func WithTextHandlerProfile(p termenv.Profile) TextHandlerOption {
	return func(h *TextHandler) {
		h.Profile = p
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Profile: termenv.ColorProfile(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so a prompt can be abandoned when the context ends.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err != io.EOF {
				h.inputChan <- inputResult{err: err}
			}
			close(h.inputChan)
			return
		}
	}
}

// Dispatch prints the command as one line.
func (h *TextHandler) Dispatch(ctx context.Context, cmd domain.Command) error {
	tag := h.Profile.String(fmt.Sprintf("%-12s", cmd.Type)).Foreground(h.Profile.Color(commandColor(cmd.Type)))
	_, err := fmt.Fprintf(h.Writer, "%3d %s %s\n", cmd.Step, tag, describe(cmd))
	return err
}

// ConfirmReplenish asks the operator to reload an empty pool.
func (h *TextHandler) ConfirmReplenish(ctx context.Context, pool domain.TipPool) (bool, error) {
	warn := h.Profile.String("RELOAD").Foreground(h.Profile.Color("#f59e0b")).Bold()
	fmt.Fprintf(h.Writer, "\n%s pool %s is empty (%d/%d used). Replace the rack and confirm [y/N]: ",
		warn, pool.Name, pool.Consumed, pool.Capacity)

	answer, err := h.input(ctx)
	if err != nil {
		return false, err
	}
	return parseConfirmation(answer), nil
}

// Acknowledge shows a protocol checkpoint and waits for Enter.
// Answering "abort" stops the run with ErrOperatorDeclined.
func (h *TextHandler) Acknowledge(ctx context.Context, message string) error {
	pause := h.Profile.String("PAUSE").Foreground(h.Profile.Color("#818cf8")).Bold()
	fmt.Fprintf(h.Writer, "\n%s %s\nPress Enter to continue or type abort: ", pause, message)

	answer, err := h.input(ctx)
	if err != nil {
		return err
	}
	if isAbort(answer) {
		return ErrOperatorDeclined
	}
	return nil
}

func (h *TextHandler) input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			clean, err := SanitizeInput(strings.TrimSpace(res.text))
			if err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n> ", err)
				continue
			}
			return clean, nil
		}
	}
}

func commandColor(t domain.CommandType) string {
	switch t {
	case domain.CommandAspirate:
		return "#22c55e"
	case domain.CommandDispense:
		return "#38bdf8"
	case domain.CommandMix:
		return "#a78bfa"
	case domain.CommandPause, domain.CommandDelay:
		return "#f59e0b"
	}
	return "#9ca3af"
}

// describe renders the command parameters for a human.
func describe(cmd domain.Command) string {
	switch cmd.Type {
	case domain.CommandAspirate:
		return fmt.Sprintf("%g µl from %s at %.2f mm", cmd.Volume, cmd.Well, cmd.Height)
	case domain.CommandMix:
		if cmd.Well != nil {
			return fmt.Sprintf("%d x %g µl in %s at %.2f mm", cmd.Cycles, cmd.Volume, cmd.Well, cmd.Height)
		}
		return fmt.Sprintf("%d x %g µl in %s", cmd.Cycles, cmd.Volume, cmd.Target)
	case domain.CommandDispense:
		return fmt.Sprintf("%g µl into %s", cmd.Volume, cmd.Target)
	case domain.CommandPickUpTip, domain.CommandReturnTip, domain.CommandDropTip:
		return cmd.Pool
	case domain.CommandDelay:
		return fmt.Sprintf("%gs", cmd.Seconds)
	}
	return cmd.Message
}
