// Package prompt implements the catalogue's UI on a line-oriented console.
// Every question is asked in a loop until the answer validates; invalid
// answers print a message and ask again.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/term"

	"bookstore-inventory/catalogue"
)

var (
	// ErrInputClosed is returned once the input stream is exhausted.
	ErrInputClosed = errors.New("input closed")
	// ErrTooManyAttempts is returned when MaxAttempts invalid answers were
	// given to the same question.
	ErrTooManyAttempts = errors.New("too many invalid answers")
)

// ValidationError is a rejected answer. It never leaves this package: the
// console prints it and asks again.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func invalid(msg string) error { return &ValidationError{Msg: msg} }

// IDLookup checks whether an id is present in a catalogue table.
type IDLookup interface {
	IDExists(kind catalogue.TableKind, id int) (bool, error)
}

// Console reads answers from in and writes prompts and output to out.
type Console struct {
	in  *bufio.Scanner
	out io.Writer
	ids IDLookup

	// MaxAttempts bounds the retries per question; 0 means unbounded.
	MaxAttempts int
	// Echo repeats every answer read, for non-interactive input.
	Echo bool
}

var _ catalogue.UI = (*Console)(nil)

func New(in io.Reader, out io.Writer, ids IDLookup) *Console {
	return &Console{in: bufio.NewScanner(in), out: out, ids: ids}
}

// NewStdio returns a Console on the process's stdin and stdout. Answers are
// echoed when stdin is not a terminal.
func NewStdio(ids IDLookup) *Console {
	c := New(os.Stdin, os.Stdout, ids)
	c.Echo = !IsInteractive()
	return c
}

// IsInteractive reports whether stdin is a terminal.
func IsInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func (c *Console) readLine() (string, error) {
	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("read input: %w", err)
		}
		return "", ErrInputClosed
	}
	line := strings.TrimSpace(c.in.Text())
	if c.Echo {
		fmt.Fprintln(c.out, line)
	}
	return line, nil
}

// ask prints prompt and parses answers until parse accepts one. Errors
// other than *ValidationError end the loop and are returned.
func ask[T any](c *Console, prompt string, parse func(string) (T, error)) (T, error) {
	var zero T
	for attempt := 1; c.MaxAttempts <= 0 || attempt <= c.MaxAttempts; attempt++ {
		fmt.Fprint(c.out, prompt)
		line, err := c.readLine()
		if err != nil {
			return zero, err
		}
		v, err := parse(line)
		if err == nil {
			return v, nil
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			return zero, err
		}
		fmt.Fprintln(c.out, verr.Msg)
	}
	return zero, ErrTooManyAttempts
}

// Choice asks for one of the valid option numbers.
func (c *Console) Choice(valid []int) (int, error) {
	return ask(c, "Select an option by number: ", func(s string) (int, error) {
		n, err := strconv.Atoi(s)
		if err != nil || !slices.Contains(valid, n) {
			return 0, invalid("Invalid selection, please try again")
		}
		return n, nil
	})
}

// YesNo asks a y/n question; an empty answer counts as yes.
func (c *Console) YesNo(prompt string) (bool, error) {
	return ask(c, prompt+" y/n ", func(s string) (bool, error) {
		switch strings.ToLower(s) {
		case "", "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		return false, invalid("Invalid selection, please try again")
	})
}

func (c *Console) NonEmptyString(prompt string) (string, error) {
	return ask(c, prompt, func(s string) (string, error) {
		if s == "" {
			return "", invalid("Input must contain characters, please try again")
		}
		return s, nil
	})
}

func (c *Console) Integer(prompt string) (int, error) {
	return ask(c, prompt, func(s string) (int, error) {
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, invalid("Invalid input, please input a whole number")
		}
		return n, nil
	})
}

func parseID(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || !catalogue.ValidID(n) {
		return 0, invalid("Invalid input, please input a four digit number")
	}
	return n, nil
}

// NewID asks for a 4-digit id that is not yet used in the table.
func (c *Console) NewID(kind catalogue.TableKind) (int, error) {
	prompt := fmt.Sprintf("Please input a unique 4 digit %s id number: ", kind)
	return ask(c, prompt, func(s string) (int, error) {
		id, err := parseID(s)
		if err != nil {
			return 0, err
		}
		exists, err := c.ids.IDExists(kind, id)
		if err != nil {
			return 0, err
		}
		if exists {
			return 0, invalid("id number already exists, please input a unique id")
		}
		return id, nil
	})
}

// ExistingID asks for a 4-digit id present in the table.
func (c *Console) ExistingID(kind catalogue.TableKind) (int, error) {
	prompt := fmt.Sprintf("Please input %s ID: ", kind)
	return ask(c, prompt, func(s string) (int, error) {
		id, err := parseID(s)
		if err != nil {
			return 0, err
		}
		exists, err := c.ids.IDExists(kind, id)
		if err != nil {
			return 0, err
		}
		if !exists {
			return 0, invalid(fmt.Sprintf("ID does not match any existing %s IDs, please enter an existing ID", kind))
		}
		return id, nil
	})
}

func (c *Console) Display(lines ...string) {
	for _, l := range lines {
		fmt.Fprintln(c.out, l)
	}
}
