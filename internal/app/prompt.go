package app

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// promptLine reads one line of input after printing the prompt.
func (d *dependencies) promptLine(prompt string) (string, error) {
	fmt.Fprint(d.out, prompt)
	reader := bufio.NewReader(d.in)
	line, err := reader.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echoing when stdin is a terminal,
// falling back to a plain line read otherwise (pipes, tests).
func (d *dependencies) promptPassword(prompt string) (string, error) {
	if f, ok := d.in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(d.out, prompt)
		raw, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(d.out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(raw), nil
	}
	return d.promptLine(prompt)
}
