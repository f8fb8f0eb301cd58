package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

var stdinReader = bufio.NewReader(os.Stdin)

// PromptString asks for a line of input, value is returned untouched
// when it is already set
func PromptString(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fmt.Printf("%s: ", label)
	input, err := stdinReader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return strings.TrimSpace(input), nil
}

// PromptPassword is PromptString without echoing what is typed
func PromptPassword(label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return PromptString(label, value)
	}
	fmt.Printf("%s: ", label)
	input, err := term.ReadPassword(fd)
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", strings.ToLower(label), err)
	}
	return string(input), nil
}

// WarnPasswordFlag nudges users away from passing passwords as flags
func WarnPasswordFlag() {
	fmt.Println(
		"WARNING: using a password directly on the command line isn't recommended\n" +
			"since anyone can see it using the `history` command. Run `history -c` to\n" +
			"remove it from this shell if this is a shared shell")
}
