package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var errNotInteractive = errors.New("stdin is not a terminal; pass --yes to confirm")

// confirm asks a yes/no question on w and reads the answer from r.
// Anything other than "y" or "yes" is a no.
func confirm(r io.Reader, w io.Writer, interactive bool, prompt string) (bool, error) {
	if !interactive {
		return false, errNotInteractive
	}
	if _, err := fmt.Fprintf(w, "%s [y/N]: ", prompt); err != nil {
		return false, err
	}

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
