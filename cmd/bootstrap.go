package cmd

import (
	"context"
	"log"
	"os"

	"go.uber.org/zap"
)

var exit = os.Exit

// mustBootstrap stops the process when the clients cannot be created.
func mustBootstrap(ctx context.Context) *application {
	a, err := bootstrap(ctx)
	if err != nil {
		log.Fatalf("starting %s: %v", app, err)
	}
	return a
}

// fail logs err, releases the clients and exits with status 1.
func (a *application) fail(msg string, err error, fields ...zap.Field) {
	a.logger.Error(msg, append(fields, zap.Error(err))...)
	a.Close()
	exit(1)
}
