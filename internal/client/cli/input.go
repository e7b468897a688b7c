package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// GetMultiline prints a prompt to w and reads lines from sc until an empty
// line is entered. The collected text is joined with '\n'.
func GetMultiline(sc *bufio.Scanner, prompt string, w io.Writer) (string, error) {
	if _, err := fmt.Fprint(w, prompt+"\n(press Enter on an empty line to finish)\n"); err != nil {
		return "", err
	}

	var lines []string
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if line == "" {
			break
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return "", err
	}

	return strings.TrimSpace(strings.Join(lines, "\n")), nil
}

// GetConfirmation asks a yes/no question; anything but y or yes is no.
func GetConfirmation(sc *bufio.Scanner, prompt string, w io.Writer) bool {
	fmt.Fprint(w, prompt+" [y/N] ")
	if !sc.Scan() {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(sc.Text())) {
	case "y", "yes":
		return true
	}
	return false
}

// parsePosition converts a 1-based list position into an index of a list of
// length n.
func parsePosition(arg string, n int) (int, error) {
	p, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("not a position: %q", arg)
	}
	if p < 1 || p > n {
		return 0, fmt.Errorf("position %d out of range 1..%d", p, n)
	}
	return p - 1, nil
}
