package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// ErrNoInput is returned when the input stream ends before an answer.
var ErrNoInput = errors.New("no input")

// Prompter asks questions on a terminal.
type Prompter struct {
	in     *bufio.Reader
	out    io.Writer
	fd     int
	secret bool
}

// NewPrompter reads answers from in and writes questions to out. Passwords
// are read without echo when in is the process's terminal.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	p := &Prompter{in: bufio.NewReader(in), out: out, fd: -1}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.fd = int(f.Fd())
		p.secret = true
	}
	return p
}

// Ask prints question and returns the trimmed answer.
func (p *Prompter) Ask(question string) (string, error) {
	_, _ = fmt.Fprint(p.out, PromptStyle.Render(question)+" ")
	line, err := p.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", ErrNoInput
	}
	return strings.TrimSpace(line), nil
}

// AskDefault is Ask with a value used for an empty answer.
func (p *Prompter) AskDefault(question, def string) (string, error) {
	answer, err := p.Ask(fmt.Sprintf("%s [%s]:", question, def))
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// Password reads a secret without echo on a terminal.
func (p *Prompter) Password(question string) (string, error) {
	if !p.secret {
		return p.Ask(question)
	}
	_, _ = fmt.Fprint(p.out, PromptStyle.Render(question)+" ")
	b, err := term.ReadPassword(p.fd)
	_, _ = fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(b), nil
}

// Confirm asks a yes/no question. Only "y" and "yes" count as yes.
func (p *Prompter) Confirm(question string) (bool, error) {
	answer, err := p.Ask(question + " (yes/no):")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// Say writes a line of plain output.
func (p *Prompter) Say(format string, args ...any) {
	_, _ = fmt.Fprintf(p.out, format+"\n", args...)
}
