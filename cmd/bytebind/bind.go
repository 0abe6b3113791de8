package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/chazu/bytebind/description"
	"github.com/chazu/bytebind/report"
	"github.com/chazu/bytebind/target"
)

func runBindCommand(cmd *cobra.Command, _ []string) error {
	format, err := outputFormat()
	if err != nil {
		return err
	}
	m, p, err := loadProject()
	if err != nil {
		return err
	}
	instrumented, ok := p.Lookup(typeFlag)
	if !ok {
		return fmt.Errorf("unknown type %s", typeFlag)
	}
	delegate, ok := p.Lookup(delegateFlag)
	if !ok {
		return fmt.Errorf("unknown type %s", delegateFlag)
	}
	processor, err := m.Processor()
	if err != nil {
		return err
	}

	sources, err := sourceMethods(instrumented, sourceFlags)
	if err != nil {
		return err
	}
	tgt := target.ForSubclass(instrumented, m.Engine())
	candidates := delegate.DeclaredMethods()

	var results []report.Binding
	failed := 0
	for _, source := range sources {
		mb, err := processor.Process(tgt, source, candidates)
		if err != nil {
			failed++
			log.Warningf("%s: %v", description.MethodString(source), err)
		}
		results = append(results, report.NewBinding(source, mb, err))
	}
	if err := report.Write(cmd.OutOrStdout(), format, results); err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d source methods could not be bound", failed, len(sources))
	}
	return nil
}

// sourceMethods selects the declared non-constructor methods of t, limited
// to names when any are given.
func sourceMethods(t description.Type, names []string) ([]description.Method, error) {
	wanted := make(map[string]bool, len(names))
	for _, n := range names {
		wanted[n] = false
	}
	var out []description.Method
	for _, m := range t.DeclaredMethods() {
		if description.IsConstructor(m) {
			continue
		}
		if _, ok := wanted[m.Name()]; len(names) > 0 && !ok {
			continue
		}
		wanted[m.Name()] = true
		out = append(out, m)
	}
	for _, n := range names {
		if !wanted[n] {
			return nil, fmt.Errorf("%s declares no method %s", t.Name(), n)
		}
	}
	return out, nil
}
