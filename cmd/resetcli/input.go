package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// test seams for the terminal
var (
	readPassword = term.ReadPassword
	isTerminal   = term.IsTerminal
)

type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// line prints `prompt` and reads one line, trimmed. A final line without a
// newline is accepted.
func (p *prompter) line(prompt string) (string, error) {
	if _, err := fmt.Fprintf(p.out, "%s: ", prompt); err != nil {
		return "", err
	}
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
		return "", fmt.Errorf("reading %s: %w", prompt, err)
	}
	return strings.TrimSpace(line), nil
}

// secret reads a line without echo when stdin is a terminal. Passwords keep
// their surrounding whitespace.
func (p *prompter) secret(prompt string, echo bool) (string, error) {
	fd := int(os.Stdin.Fd())
	if echo || !isTerminal(fd) {
		if _, err := fmt.Fprintf(p.out, "%s: ", prompt); err != nil {
			return "", err
		}
		line, err := p.in.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && len(line) > 0) {
			return "", fmt.Errorf("reading %s: %w", prompt, err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	if _, err := fmt.Fprintf(p.out, "%s: ", prompt); err != nil {
		return "", err
	}
	data, err := readPassword(fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", prompt, err)
	}
	return string(data), nil
}
