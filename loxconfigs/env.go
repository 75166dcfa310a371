package loxconfigs

import (
	"errors"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/reusee/tailox/logs"
)

const envPrefix = "LOX_"

// Env holds LOX_ variables from .env in the working directory and the process environment.
// The process environment wins.
type Env map[string]string

func (e Env) Get(key string) string {
	return e[envPrefix+key]
}

func loadEnv(dotenvPath string, environ []string) (Env, error) {
	env := make(Env)

	fileEnv, err := godotenv.Read(dotenvPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return env, err
	}
	for key, value := range fileEnv {
		if strings.HasPrefix(key, envPrefix) {
			env[key] = value
		}
	}

	for _, kv := range environ {
		key, value, ok := strings.Cut(kv, "=")
		if ok && strings.HasPrefix(key, envPrefix) {
			env[key] = value
		}
	}

	return env, nil
}

func (Module) Env(
	logger logs.Logger,
) Env {
	env, err := loadEnv(".env", os.Environ())
	if err != nil {
		logger.Warn("load .env", "error", err)
	}
	return env
}
