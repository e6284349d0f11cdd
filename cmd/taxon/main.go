package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
)

func main() {
	code := runMain(newRootCmd().Execute, os.Stderr)
	if code != 0 {
		os.Exit(code)
	}
}

func runMain(execute func() error, stderr io.Writer) int {
	if err := execute(); err != nil {
		return exitCodeForError(err, stderr)
	}
	return 0
}

func exitCodeForError(err error, stderr io.Writer) int {
	var ee *exitError
	if errors.As(err, &ee) {
		if !ee.silent {
			fmt.Fprintln(stderr, err)
		}
		return ee.code
	}

	if errors.Is(err, context.Canceled) {
		fmt.Fprintln(stderr, "canceled")
		return 130
	}

	fmt.Fprintln(stderr, err)
	return 1
}
