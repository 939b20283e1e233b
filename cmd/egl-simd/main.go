package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/eglgov/egl-app/cmd/egl-simd/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if err := cmd.NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
