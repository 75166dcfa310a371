package loxconfigs

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/reusee/dscope"
	"github.com/reusee/tailox/configs"
	"github.com/reusee/tailox/logs"
	"github.com/reusee/tailox/loxc"
	"github.com/reusee/tailox/loxvm"
	"github.com/reusee/tailox/modes"
)

var scriptFilenames = []string{
	"loxrc.lox",
	".loxrc.lox",
}

// ScriptFork runs config scripts and overrides settings with the globals they define.
// Scripts run on one VM from the lowest priority location to the highest, so later scripts see and may replace earlier definitions.
func ScriptFork(scope dscope.Scope) (dscope.Scope, error) {
	var mode modes.Mode
	var logger logs.Logger
	scope.Call(func(m modes.Mode, l logs.Logger) {
		mode, logger = m, l
	})

	dirs := searchDirs(mode)
	slices.Reverse(dirs)
	paths := findFiles(dirs, scriptFilenames)
	if len(paths) == 0 {
		return scope, nil
	}
	logger.Info("config script",
		"paths", paths,
	)

	globals, err := runScripts(paths, os.Stderr)
	if err != nil {
		return scope, err
	}
	for name, isSet := range flagged {
		if isSet() {
			delete(globals, name)
		}
	}

	return configs.LoxFork(scope, globals)
}

func runScripts(paths []string, stdout io.Writer) (map[string]loxvm.Value, error) {
	vm, err := loxc.NewVM("config", strings.NewReader(""), &loxc.Options{
		Stdout: stdout,
	})
	if err != nil {
		return nil, err
	}
	for _, path := range paths {
		content, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if _, err := loxc.Exec(vm, content); err != nil {
			return nil, fmt.Errorf("config script %s: %w", path, err)
		}
	}
	return vm.Globals, nil
}
