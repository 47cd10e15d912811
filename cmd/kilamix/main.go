package main

import (
	"context"
	"fmt"
	"os"

	"github.com/Poper173/Kilamix/internal/app"
)

func main() {
	ctx := context.Background()
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
