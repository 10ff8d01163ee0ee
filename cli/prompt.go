package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// errNotInteractive is returned when a confirmation is needed but stdin is
// not a terminal.
var errNotInteractive = errors.New("confirmation required but stdin is not a terminal; pass --yes")

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// confirm asks question and reports whether the answer was yes. Anything
// other than y or yes, including EOF, is a no.
func confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	if f, ok := in.(*os.File); ok && !isTerminal(f) {
		return false, errNotInteractive
	}

	fmt.Fprintf(out, "%s [y/N]: ", question)

	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}

	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
