package configs

import (
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Loader reads config files lazily. Earlier files take precedence in AssignFirst.
// .cue files are compiled as is; .toml and .yaml files are decoded and encoded into cue,
// so every format is checked against the same schema.
type Loader struct {
	getRoots func() ([]rootInfo, error)
}

func NewLoader(filePaths []string, schemaSrc string) Loader {
	return Loader{

		getRoots: sync.OnceValues(func() (ret []rootInfo, err error) {
			ctx := cuecontext.New()

			var schema cue.Value
			if schemaSrc != "" {
				schema = ctx.CompileString("close({" + schemaSrc + "})")
				if err := schema.Err(); err != nil {
					return nil, fmt.Errorf("compile schema: %w", err)
				}
			}

			for _, filePath := range filePaths {
				value, err := loadFile(ctx, filePath)
				if err != nil {
					return nil, fmt.Errorf("load %s: %w", filePath, err)
				}

				if schema.Exists() {
					if err := schema.Unify(value).Validate(); err != nil {
						return nil, fmt.Errorf("validate %s: %w", filePath, err)
					}
				}

				ret = append(ret, rootInfo{
					value: value,
					path:  filePath,
				})
			}

			return
		}),
	}
}

func loadFile(ctx *cue.Context, filePath string) (value cue.Value, err error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return value, err
	}

	switch ext := strings.ToLower(filepath.Ext(filePath)); ext {

	case ".cue":
		value = ctx.CompileBytes(
			content,
			cue.Filename(filePath),
		)

	case ".toml":
		var m map[string]any
		if err := toml.Unmarshal(content, &m); err != nil {
			return value, err
		}
		value = ctx.Encode(m)

	case ".yaml", ".yml":
		var m map[string]any
		if err := yaml.Unmarshal(content, &m); err != nil {
			return value, err
		}
		if m == nil {
			m = make(map[string]any)
		}
		value = ctx.Encode(m)

	default:
		return value, fmt.Errorf("unknown config format: %s", ext)
	}

	return value, value.Err()
}

type rootInfo struct {
	value cue.Value
	path  string
}

// Paths returns the files that were loaded successfully.
func (l Loader) Paths() ([]string, error) {
	roots, err := l.getRoots()
	if err != nil {
		return nil, err
	}
	ret := make([]string, 0, len(roots))
	for _, info := range roots {
		ret = append(ret, info.path)
	}
	return ret, nil
}

func (l Loader) IterCueValues(path string) iter.Seq2[*cue.Value, error] {
	return func(yield func(*cue.Value, error) bool) {
		roots, err := l.getRoots()
		if err != nil {
			yield(nil, err)
			return
		}

		cuePath := cue.ParsePath(path)
		for _, info := range roots {
			value := info.value.LookupPath(cuePath)
			if !value.Exists() {
				continue
			}
			if err := value.Err(); err == nil {
				if !yield(&value, nil) {
					break
				}
			}
		}
	}
}

func (l Loader) AssignFirst(path string, target any) error {
	for value, err := range l.IterCueValues(path) {
		if err != nil {
			return err
		}
		if err := value.Decode(target); err != nil {
			return fmt.Errorf("decode %s: %w", path, err)
		}
		return nil
	}
	return ErrValueNotFound
}
