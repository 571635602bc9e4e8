package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/merijn/sync-history/cmd"
	"github.com/merijn/sync-history/internal/domain"
)

func main() {
	if err := cmd.Execute(); err != nil {
		var exitErr *domain.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Status)
		}
		fmt.Fprintln(os.Stderr, "sync-history:", err)
		os.Exit(1)
	}
}
