package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/chazu/bytebind/pool"
)

func runPackCommand(cmd *cobra.Command, args []string) error {
	f, err := pool.ReadFiles(args...)
	if err != nil {
		return err
	}
	// Building catches unresolved references before anything is written.
	if _, err := pool.Build(f); err != nil {
		return err
	}
	data, err := pool.MarshalImage(f)
	if err != nil {
		return err
	}
	if err := os.WriteFile(outputFlag, data, 0644); err != nil {
		return fmt.Errorf("cannot write %s: %w", outputFlag, err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %d types to %s\n", len(f.Types), outputFlag)
	return nil
}
