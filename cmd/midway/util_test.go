/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this package for license terms
 */
package main

import (
	"bufio"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPromptYesNo(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultYes bool
		want       bool
	}{
		{name: "blank takes default yes", input: "\n", defaultYes: true, want: true},
		{name: "blank takes default no", input: "\n", defaultYes: false, want: false},
		{name: "explicit yes", input: "y\n", defaultYes: false, want: true},
		{name: "spelled out yes", input: "Yes\n", defaultYes: false, want: true},
		{name: "explicit no", input: "n\n", defaultYes: true, want: false},
		{name: "garbage is no", input: "maybe\n", defaultYes: true, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := bufio.NewReader(strings.NewReader(tt.input))

			got, err := promptYesNo(in, "Continue?", tt.defaultYes)

			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPromptYesNoEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader(""))

	_, err := promptYesNo(in, "Continue?", true)

	assert.Error(t, err)
}

func TestPromptSecretPipedInput(t *testing.T) {
	// Test binaries never run with a TTY on stdin, so promptSecret
	// takes the plain line-read path here.
	in := bufio.NewReader(strings.NewReader("  sk-test-123  \n"))

	got, err := promptSecret(in, "Key: ")

	assert.NoError(t, err)
	assert.Equal(t, "sk-test-123", got)
}
