/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package main

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

//go:embed help.txt
var helpText string

var subCommandTab = map[string]func(ctx context.Context, args []string) error{
	"help":    helpMain,
	"version": versionMain,
	"upgrade": upgradeMain,
	"setup":   setupMain,
	"stats":   statsMain,
	"run":     runMain,
}

func helpMain(ctx context.Context, args []string) error {
	fmt.Print(helpText)

	return nil
}

// getSubCmd resolves name to a subcommand handler. Unambiguous prefixes
// are accepted as aliases, e.g. 'midway st' runs 'midway stats'.
func getSubCmd(name string) func(context.Context, []string) error {
	subCmdFunc, ok := subCommandTab[name]
	if ok {
		return subCmdFunc
	}

	var subCmdFound string
	for k := range subCommandTab {
		if strings.HasPrefix(k, name) {
			if subCmdFound != "" {
				// ambiguous
				return nil
			}

			subCmdFound = k
		}
	}

	return subCommandTab[subCmdFound]
}

func main() {
	_ = godotenv.Load()

	subCmdName := "run"
	var args []string
	if len(os.Args) > 1 {
		subCmdName = os.Args[1]
		args = os.Args[2:]
	}

	if subCmdName != "run" {
		checkAndPrintUpgradeWarning()
	}

	subCmdFunc := getSubCmd(subCmdName)
	if subCmdFunc == nil {
		fmt.Fprintf(os.Stderr, "midway: Unknown command %v. Try 'help'.\n",
			subCmdName)
		os.Exit(1)
	}

	err := subCmdFunc(context.Background(), args)
	if err != nil && !errors.Is(err, io.EOF) {
		fmt.Fprintf(os.Stderr, "midway: %v\n", err)
		os.Exit(1)
	}
}
