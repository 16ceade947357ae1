// Package confirm provides the human confirmation step that gates
// irreversible operations such as product and order deletion.
package confirm

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrNotConfirmed is returned when the user declined a confirmation prompt.
var ErrNotConfirmed = errors.New("operation not confirmed")

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(prompt string) bool
}

// Func adapts a function to Confirmer.
type Func func(prompt string) bool

func (f Func) Confirm(prompt string) bool { return f(prompt) }

var (
	Always Confirmer = Func(func(string) bool { return true })
	Never  Confirmer = Func(func(string) bool { return false })
)

// Prompter asks on out and reads the answer from in. Only "y" and "yes"
// (any case) confirm; anything else, EOF included, declines.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

func (p *Prompter) Confirm(prompt string) bool {
	fmt.Fprintf(p.out, "%s [y/N]: ", prompt)
	answer, err := p.in.ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// Ask returns ErrNotConfirmed unless c confirms. A nil Confirmer declines.
func Ask(c Confirmer, prompt string) error {
	if c == nil || !c.Confirm(prompt) {
		return ErrNotConfirmed
	}
	return nil
}
