package main

import (
	"context"

	"github.com/linecard/samlstack/cmd/cli"
	"github.com/linecard/samlstack/cmd/handler"
	"github.com/linecard/samlstack/internal/tracing"
	"github.com/linecard/samlstack/internal/util"
)

func main() {
	util.SetLogLevel()

	tp, shutdown := tracing.InitOtel()
	defer shutdown()

	if util.InLambda() {
		handler.Listen(tp)
		return
	}

	cli.Invoke(context.Background())
}
