package main

import (
	"context"
	"fmt"

	sqgin "github.com/fwojciec/siteask/gin"
	"golang.org/x/sync/errgroup"
)

// Run executes the serve command. It blocks until the context is cancelled
// and then shuts the server down gracefully.
func (c *ServeCmd) Run(deps *Dependencies) error {
	if deps.Cache != nil {
		defer deps.Cache.Flush()
	}

	if err := deps.Ctx.Err(); err != nil {
		return nil
	}

	srv := deps.Server
	if err := srv.Open(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	fmt.Fprintf(deps.Stdout, "Listening on %s\n", srv.URL())
	fmt.Fprintf(deps.Stdout, "Answering questions about %s\n", deps.Config.Domain.Host())

	g, gctx := errgroup.WithContext(deps.Ctx)
	g.Go(srv.Serve)
	g.Go(func() error {
		<-gctx.Done()
		ctx, cancel := context.WithTimeout(context.Background(), sqgin.DefaultShutdownTimeout)
		defer cancel()
		return srv.Close(ctx)
	})

	if err := g.Wait(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}
	return nil
}
