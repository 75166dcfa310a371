package loxserve

import (
	"context"
	"errors"

	"github.com/reusee/tailox/loxc"
	"github.com/reusee/tailox/loxvm"
)

// Request is one client message. Each request runs on the connection's VM, so globals persist.
type Request struct {
	Source string `json:"source"`
	// TimeoutMS overrides the server timeout for this request if set
	TimeoutMS *int `json:"timeout_ms,omitempty"`
	// Reset discards the session's globals before running
	Reset bool `json:"reset,omitempty"`
}

type Response struct {
	Output string `json:"output"`
	Result string `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
	Kind   string `json:"kind,omitempty"`
}

const (
	KindCompile  = "compile"
	KindRuntime  = "runtime"
	KindTimeout  = "timeout"
	KindInternal = "internal"
)

func errorKind(err error) string {
	var compileErr *loxc.CompileError
	var runtimeErr *loxvm.RuntimeError
	switch {
	case errors.As(err, &compileErr):
		return KindCompile
	case errors.As(err, &runtimeErr):
		return KindRuntime
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, context.Canceled):
		return KindTimeout
	}
	return KindInternal
}
