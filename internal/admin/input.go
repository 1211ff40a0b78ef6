package admin

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// SecretReader obtains the admin secret when configuration does not carry it.
type SecretReader interface {
	ReadSecret(prompt string) (string, error)
}

// Confirmer asks the operator a yes/no question.
type Confirmer interface {
	Confirm(prompt string) (bool, error)
}

// readPassword is a test seam for term.ReadPassword.
var readPassword = term.ReadPassword

// Terminal prompts on the controlling terminal. Secrets are read without
// echo; confirmations are read as a line from in.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
	fd  int
}

func NewTerminal(in io.Reader, out io.Writer) *Terminal {
	return &Terminal{in: bufio.NewReader(in), out: out, fd: int(os.Stdin.Fd())}
}

// ReadSecret prints prompt and reads a line without echo. A newline is
// printed after the read to keep the output tidy.
func (t *Terminal) ReadSecret(prompt string) (string, error) {
	if _, err := fmt.Fprint(t.out, prompt); err != nil {
		return "", err
	}
	pw, err := readPassword(t.fd)
	fmt.Fprintln(t.out)
	if err != nil {
		return "", err
	}
	return string(pw), nil
}

// Confirm prints prompt with a [y/N] suffix; only "y" or "yes" confirm.
func (t *Terminal) Confirm(prompt string) (bool, error) {
	answer, err := GetSimpleText(t.in, prompt+" [y/N]", t.out)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// GetSimpleText prints a prompt to w and reads a single line of input from reader.
// The trailing newline is trimmed. If EOF occurs after some input was read,
// the partial line is returned.
func GetSimpleText(reader *bufio.Reader, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n> "); err != nil {
		return "", err
	}
	line, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && len(line) > 0 {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}
