package main

import (
	"context"
	"fmt"
	"os"

	"convocast-go/internal/bootstrap"
)

func main() {
	if err := bootstrap.Run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "convocast: %v\n", err)
		os.Exit(1)
	}
}
