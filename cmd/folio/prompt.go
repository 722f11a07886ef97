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

var stdinReader = bufio.NewReader(os.Stdin)

// readSecret reads a password or passphrase. With fromStdin it reads one line
// from standard input; otherwise it prompts on the terminal without echo.
func readSecret(prompt string, fromStdin bool) (string, error) {
	if fromStdin {
		line, err := stdinReader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", fmt.Errorf("reading secret from stdin: %w", err)
		}
		return strings.TrimRight(line, "\r\n"), nil
	}

	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", errors.New("stdin is not a terminal: use --password-stdin")
	}

	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading secret: %w", err)
	}
	return string(secret), nil
}

// readNewSecret reads a secret and its confirmation. From stdin only one line
// is read and it serves as both.
func readNewSecret(prompt string, fromStdin bool) (string, string, error) {
	secret, err := readSecret(prompt, fromStdin)
	if err != nil {
		return "", "", err
	}
	if fromStdin {
		return secret, secret, nil
	}
	confirm, err := readSecret("Confirm: ", false)
	if err != nil {
		return "", "", err
	}
	return secret, confirm, nil
}
