package conformance

import (
	"embed"
	"fmt"
	"io/fs"
	"path"

	"gopkg.in/yaml.v3"
)

//go:embed testdata/*.yaml
var suitesFS embed.FS

type LoadedCase struct {
	File  string
	Suite *Suite
	Case  Case
}

// LoadBuiltin loads the suites shipped with the package.
func LoadBuiltin() ([]LoadedCase, error) {
	sub, err := fs.Sub(suitesFS, "testdata")
	if err != nil {
		return nil, err
	}
	return LoadAll(sub)
}

// LoadAll loads every .yaml file under fsys.
func LoadAll(fsys fs.FS) ([]LoadedCase, error) {
	var loaded []LoadedCase
	err := fs.WalkDir(fsys, ".", func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() || path.Ext(p) != ".yaml" {
			return nil
		}
		cases, err := loadFile(fsys, p)
		if err != nil {
			return fmt.Errorf("load %s: %w", p, err)
		}
		loaded = append(loaded, cases...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return loaded, nil
}

func loadFile(fsys fs.FS, p string) ([]LoadedCase, error) {
	data, err := fs.ReadFile(fsys, p)
	if err != nil {
		return nil, err
	}
	suite := new(Suite)
	if err := yaml.Unmarshal(data, suite); err != nil {
		return nil, err
	}
	var ret []LoadedCase
	for _, c := range suite.Cases {
		ret = append(ret, LoadedCase{
			File:  p,
			Suite: suite,
			Case:  c,
		})
	}
	return ret, nil
}
