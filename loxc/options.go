package loxc

import (
	"io"
	"log/slog"

	"github.com/reusee/tailox/loxvm"
)

type Options struct {
	Stdout    io.Writer // if nil, default to os.Stdout
	Globals   map[string]loxvm.Value
	Logger    *slog.Logger // if not nil, compilation is logged at debug level
	MaxFrames int          // if zero, default to loxvm.DefaultMaxFrames
}
