package main

import (
	"github.com/reusee/dscope"
	"github.com/reusee/tailox/debugs"
	"github.com/reusee/tailox/logs"
	"github.com/reusee/tailox/loxconfigs"
	"github.com/reusee/tailox/loxserve"
)

type Module struct {
	dscope.Module
	Logs    logs.Module
	Configs loxconfigs.Module
	Debugs  debugs.Module
	Serve   loxserve.Module
}
