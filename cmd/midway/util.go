/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"
)

// promptSecret reads one line without echoing when stdin is a terminal,
// falling back to a plain read when input is piped.
func promptSecret(in *bufio.Reader, prompt string) (string, error) {
	fmt.Print(prompt)

	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		buf, err := term.ReadPassword(fd)
		fmt.Println()
		if err != nil {
			return "", err
		}

		return strings.TrimSpace(string(buf)), nil
	}

	line, err := in.ReadString('\n')
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(line), nil
}

func promptYesNo(in *bufio.Reader, prompt string, defaultYes bool) (bool,
	error) {

	hint := "Y/n"
	if !defaultYes {
		hint = "y/N"
	}
	fmt.Printf("%v [%v]: ", prompt, hint)

	answer, err := in.ReadString('\n')
	if err != nil {
		return false, err
	}
	answer = strings.ToUpper(strings.TrimSpace(answer))
	if len(answer) == 0 {
		return defaultYes, nil
	}

	return answer[0] == 'Y', nil
}
