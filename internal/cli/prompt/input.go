package prompt

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
)

// ErrAborted is returned when the user cancels a prompt with Ctrl+C.
var ErrAborted = errors.New("aborted")

// IsAborted reports whether err came from a cancelled prompt.
func IsAborted(err error) bool {
	return errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrAbort) || errors.Is(err, ErrAborted)
}

// wrapError maps promptui cancellation errors onto ErrAborted so callers
// handle one abort sentinel regardless of which prompt was open.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if IsAborted(err) {
		return ErrAborted
	}
	return err
}

// Input asks for a text value. Enter accepts defaultValue.
func Input(label, defaultValue string) (string, error) {
	p := promptui.Prompt{
		Label:   label,
		Default: defaultValue,
	}

	result, err := p.Run()
	return result, wrapError(err)
}

// InputPort asks for a TCP port. Enter accepts defaultValue; values outside
// 1-65535 are rejected inline before the prompt closes.
func InputPort(label string, defaultValue int) (int, error) {
	p := promptui.Prompt{
		Label:   label,
		Default: strconv.Itoa(defaultValue),
		Validate: func(input string) error {
			port, err := strconv.Atoi(input)
			if err != nil {
				return fmt.Errorf("must be a number")
			}
			if port < 1 || port > 65535 {
				return fmt.Errorf("must be between 1 and 65535")
			}
			return nil
		},
	}

	result, err := p.Run()
	if err != nil {
		return 0, wrapError(err)
	}

	port, _ := strconv.Atoi(result)
	return port, nil
}
