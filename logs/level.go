package logs

import (
	"log/slog"

	"github.com/reusee/tailox/cmds"
)

var level = new(slog.LevelVar)

var jsonFormat = cmds.Switch("-log-json", "log in json format")

func init() {
	for name, l := range map[string]slog.Level{
		"debug": slog.LevelDebug,
		"info":  slog.LevelInfo,
		"warn":  slog.LevelWarn,
		"error": slog.LevelError,
	} {
		cmds.Define("-log-"+name, cmds.Func(func() {
			level.Set(l)
		}).Desc("set log level to "+name))
	}
}

// SetLevel changes the level of every logger provided by Module.
func SetLevel(l slog.Level) {
	level.Set(l)
}
