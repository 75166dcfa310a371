package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/reusee/tailox/loxc"
	"github.com/reusee/tailox/loxvm"
)

// exit codes from sysexits.h
const (
	exitDataErr  = 65
	exitSoftware = 70
	exitIOErr    = 74
)

func ce(err error) {
	if err != nil {
		panic(err)
	}
}

func exitCode(err error) int {
	var compileErr *loxc.CompileError
	var runtimeErr *loxvm.RuntimeError
	switch {
	case errors.As(err, &compileErr):
		return exitDataErr
	case errors.As(err, &runtimeErr):
		return exitSoftware
	}
	return exitIOErr
}

// exit reports err and terminates. It returns if err is nil.
func exit(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, err)
	os.Exit(exitCode(err))
}
