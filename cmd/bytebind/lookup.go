package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/chazu/bytebind/description"
	"github.com/chazu/bytebind/report"
)

func runLookupCommand(cmd *cobra.Command, args []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	m, p, err := loadProject()
	if err != nil {
		return err
	}

	var subjects []description.Type
	switch {
	case allFlag:
		subjects = p.UserTypes()
	case len(args) == 0:
		return fmt.Errorf("name at least one type or pass --all")
	default:
		for _, name := range args {
			t, ok := p.Lookup(name)
			if !ok {
				return fmt.Errorf("unknown type %s", name)
			}
			subjects = append(subjects, t)
		}
	}

	engine := m.Engine()
	findings := make([]report.Finding, len(subjects))
	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(8)
	for i, t := range subjects {
		i, t := i, t
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			findings[i] = report.NewFinding(engine.Process(t))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	return report.Write(cmd.OutOrStdout(), format, findings)
}
