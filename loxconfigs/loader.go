package loxconfigs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/reusee/tailox/configs"
	"github.com/reusee/tailox/logs"
	"github.com/reusee/tailox/modes"
)

//go:embed schema.cue
var schema string

var configFilenames = []string{
	"lox.cue",
	"lox.toml",
	"lox.yaml",
	".lox.cue",
	".lox.toml",
	".lox.yaml",
}

// searchDirs returns the directories to look for config files in, highest priority first.
func searchDirs(mode modes.Mode) (dirs []string) {
	// working directory
	if workingDir, err := os.Getwd(); err == nil {
		dirs = append(dirs, workingDir)
	}
	// user config dir
	if configDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, configDir)
	}
	// system wide dir
	if mode.SearchSystemPaths() {
		dirs = append(dirs, "/etc")
	}
	return
}

func findFiles(dirs []string, filenames []string) (paths []string) {
	for _, dir := range dirs {
		for _, filename := range filenames {
			path := filepath.Join(dir, filename)
			if stat, err := os.Stat(path); err == nil && !stat.IsDir() {
				paths = append(paths, path)
			}
		}
	}
	return
}

func (Module) ConfigsLoader(
	logger logs.Logger,
	mode modes.Mode,
) configs.Loader {
	paths := findFiles(searchDirs(mode), configFilenames)
	if len(paths) > 0 {
		logger.Info("config file",
			"paths", paths,
		)
	}
	return configs.NewLoader(paths, schema)
}
