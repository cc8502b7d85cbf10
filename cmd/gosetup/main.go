package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/mwflint/gosetup/internal/logging"
)

func main() {
	logging.Setup(0)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCmd()
	if err := root.ExecuteContext(ctx); err != nil {
		log.Error().Msg(err.Error())
		stop()
		os.Exit(1)
	}
}
