// Package cli implements the interactive terminal interface: the menu loop,
// prompts and masked password input.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Prompter reads user input line by line. Password prompts are masked when
// the input is an interactive terminal and fall back to a plain line read
// otherwise (pipes, tests, IDE consoles).
type Prompter struct {
	raw io.Reader
	buf *bufio.Reader
	out io.Writer
}

// NewPrompter creates a Prompter reading from in and echoing prompts to out.
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		raw: in,
		buf: bufio.NewReader(in),
		out: out,
	}
}

// Line prompts and reads one line, with the trailing line break stripped.
func (p *Prompter) Line(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	return p.readLine()
}

// NonBlank prompts until the user enters something that is not just
// whitespace.
func (p *Prompter) NonBlank(prompt string) (string, error) {
	for {
		input, err := p.Line(prompt)
		if err != nil {
			return "", err
		}
		if strings.TrimSpace(input) != "" {
			return input, nil
		}
		fmt.Fprintln(p.out, "Input cannot be blank. Please try again.")
	}
}

// Optional prompts and reads one line; a blank answer comes back as the
// empty string.
func (p *Prompter) Optional(prompt string) (string, error) {
	input, err := p.Line(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) == "" {
		return "", nil
	}
	return input, nil
}

// Int prompts until the user enters an integer within [min, max].
func (p *Prompter) Int(prompt string, min, max int) (int, error) {
	for {
		input, err := p.Line(prompt)
		if err != nil {
			return 0, err
		}
		value, convErr := strconv.Atoi(strings.TrimSpace(input))
		if convErr != nil {
			fmt.Fprintln(p.out, "Please enter a valid number.")
			continue
		}
		if value < min || value > max {
			fmt.Fprintf(p.out, "Please enter a value between %d and %d.\n", min, max)
			continue
		}
		return value, nil
	}
}

// YesNo prompts for confirmation. "y"/"yes" means yes; "n", "no" and an
// empty answer mean no.
func (p *Prompter) YesNo(prompt string) (bool, error) {
	for {
		input, err := p.Line(prompt + " (y/n): ")
		if err != nil {
			return false, err
		}
		switch strings.ToLower(strings.TrimSpace(input)) {
		case "y", "yes":
			return true, nil
		case "n", "no", "":
			return false, nil
		default:
			fmt.Fprintln(p.out, "Please enter 'y' for yes or 'n' for no.")
		}
	}
}

// Masked prompts for a secret. On a terminal the input is not echoed.
func (p *Prompter) Masked(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)

	if f, ok := p.raw.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		secret, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(p.out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(secret), nil
	}

	return p.readLine()
}

// Menu prints a numbered menu and reads a choice, returned zero-based.
func (p *Prompter) Menu(title string, options ...string) (int, error) {
	fmt.Fprintln(p.out)
	fmt.Fprintln(p.out, title)
	fmt.Fprintln(p.out, strings.Repeat("=", len(title)))
	for i, option := range options {
		fmt.Fprintf(p.out, "%d. %s\n", i+1, option)
	}

	choice, err := p.Int("\nChoice: ", 1, len(options))
	if err != nil {
		return 0, err
	}
	return choice - 1, nil
}

func (p *Prompter) readLine() (string, error) {
	line, err := p.buf.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
