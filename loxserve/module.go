package loxserve

import (
	"time"

	"github.com/reusee/dscope"
	"github.com/reusee/tailox/logs"
	"github.com/reusee/tailox/loxconfigs"
)

type Module struct {
	dscope.Module
}

func (Module) Server(
	logger logs.Logger,
	secret loxconfigs.ServeSecret,
	maxFrames loxconfigs.MaxFrames,
	timeout loxconfigs.Timeout,
	newSpan logs.NewSpan,
) *Server {
	return &Server{
		Logger:    logger,
		Secret:    []byte(secret),
		MaxFrames: int(maxFrames),
		Timeout:   time.Duration(timeout),
		NewSpan:   newSpan,
	}
}
