package loxconfigs

import (
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/reusee/tailox/cmds"
	"github.com/reusee/tailox/configs"
	"github.com/reusee/tailox/logs"
	"github.com/reusee/tailox/loxvm"
	"github.com/reusee/tailox/vars"
)

// Settings resolve as flag, then LOX_ environment, then config file, then default.
// Config scripts override everything except flags.

var (
	traceFlag     = cmds.Switch("-trace", "log every executed instruction")
	dumpFlag      = cmds.Switch("-dump", "disassemble before running")
	maxFramesFlag = cmds.Var[int]("-max-frames", "call depth limit")
	historyFlag   = cmds.Var[string]("-history", "REPL history file")
	timeoutFlag   = cmds.Var[time.Duration]("-timeout", "time limit of a run")
	addrFlag      = cmds.Var[string]("-addr", "listen address of serve")
)

// flagged reports, per config name, whether the setting was given on the command line.
var flagged = map[string]func() bool{
	TraceExecution(false).ConfigName(): func() bool { return *traceFlag },
	DumpBytecode(false).ConfigName():   func() bool { return *dumpFlag },
	MaxFrames(0).ConfigName():          func() bool { return *maxFramesFlag != 0 },
	HistoryFile("").ConfigName():       func() bool { return *historyFlag != "" },
	ServeAddr("").ConfigName():         func() bool { return *addrFlag != "" },
}

type TraceExecution bool

var _ configs.Configurable = TraceExecution(false)

func (TraceExecution) ConfigName() string {
	return "trace_execution"
}

func (Module) TraceExecution(
	loader configs.Loader,
	env Env,
) TraceExecution {
	if *traceFlag {
		return true
	}
	if s := env.Get("TRACE"); s != "" {
		return TraceExecution(vars.StrToBool(s))
	}
	return TraceExecution(configs.First[bool](loader, "trace_execution"))
}

type DumpBytecode bool

var _ configs.Configurable = DumpBytecode(false)

func (DumpBytecode) ConfigName() string {
	return "dump_bytecode"
}

func (Module) DumpBytecode(
	loader configs.Loader,
	env Env,
) DumpBytecode {
	if *dumpFlag {
		return true
	}
	if s := env.Get("DUMP"); s != "" {
		return DumpBytecode(vars.StrToBool(s))
	}
	return DumpBytecode(configs.First[bool](loader, "dump_bytecode"))
}

type MaxFrames int

var _ configs.Configurable = MaxFrames(0)

func (MaxFrames) ConfigName() string {
	return "max_frames"
}

func (Module) MaxFrames(
	loader configs.Loader,
	env Env,
	logger logs.Logger,
) MaxFrames {
	var fromEnv int
	if s := env.Get("MAX_FRAMES"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			logger.Warn("bad LOX_MAX_FRAMES", "value", s, "error", err)
		}
		fromEnv = n
	}
	return MaxFrames(vars.FirstNonZero(
		*maxFramesFlag,
		fromEnv,
		configs.First[int](loader, "max_frames"),
		loxvm.DefaultMaxFrames,
	))
}

type HistoryFile string

var _ configs.Configurable = HistoryFile("")

func (HistoryFile) ConfigName() string {
	return "history_file"
}

func (Module) HistoryFile(
	loader configs.Loader,
	env Env,
) HistoryFile {
	return HistoryFile(vars.FirstNonZero(
		*historyFlag,
		env.Get("HISTORY_FILE"),
		configs.First[string](loader, "history_file"),
		defaultHistoryFile(),
	))
}

func defaultHistoryFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "lox_history")
}

// Timeout bounds a single run. Zero means no limit.
type Timeout time.Duration

func (Module) Timeout(
	loader configs.Loader,
	env Env,
	logger logs.Logger,
) Timeout {
	if *timeoutFlag != 0 {
		return Timeout(*timeoutFlag)
	}
	for _, s := range []string{
		env.Get("TIMEOUT"),
		configs.First[string](loader, "timeout"),
	} {
		if s == "" {
			continue
		}
		d, err := time.ParseDuration(s)
		if err != nil {
			logger.Warn("bad timeout", "value", s, "error", err)
			continue
		}
		return Timeout(d)
	}
	return 0
}

type ServeAddr string

var _ configs.Configurable = ServeAddr("")

func (ServeAddr) ConfigName() string {
	return "serve_addr"
}

func (Module) ServeAddr(
	loader configs.Loader,
	env Env,
) ServeAddr {
	return ServeAddr(vars.FirstNonZero(
		*addrFlag,
		env.Get("SERVE_ADDR"),
		configs.First[string](loader, "serve_addr"),
		"localhost:7777",
	))
}

// ServeSecret is the HMAC key for bearer tokens. Empty disables authentication.
type ServeSecret string

var _ configs.Configurable = ServeSecret("")

func (ServeSecret) ConfigName() string {
	return "serve_secret"
}

func (Module) ServeSecret(
	loader configs.Loader,
	env Env,
) ServeSecret {
	return ServeSecret(vars.FirstNonZero(
		env.Get("SERVE_SECRET"),
		configs.First[string](loader, "serve_secret"),
	))
}
