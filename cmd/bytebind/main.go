// bytebind CLI - inspects method lookup and delegation binding over a
// declared type pool
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tliron/commonlog"

	"github.com/chazu/bytebind/description"
	"github.com/chazu/bytebind/manifest"
	"github.com/chazu/bytebind/pool"
	"github.com/chazu/bytebind/report"

	_ "github.com/tliron/commonlog/simple"
)

const version = "0.1.0"

var log = commonlog.GetLogger("bytebind.cli")

var (
	formatFlag   string
	verbosity    int
	manifestDir  string
	poolFlags    []string
	allFlag      bool
	typeFlag     string
	delegateFlag string
	sourceFlags  []string
	outputFlag   string
)

func main() {
	if err := newRootCommand(os.Stdout).Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCommand(out io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "bytebind",
		Short:         "Method lookup and delegation binding for JVM type descriptions",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			commonlog.Configure(verbosity, nil)
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&formatFlag, "format", "text", "Output format: text or yaml")
	root.PersistentFlags().CountVarP(&verbosity, "verbose", "v", "Increase log verbosity")
	root.PersistentFlags().StringVar(&manifestDir, "manifest", ".", "Directory to search for "+manifest.FileName)
	root.PersistentFlags().StringArrayVar(&poolFlags, "pool", nil, "Type pool file (.toml, .yaml or "+pool.ImageExtension+"); overrides the manifest sources")

	lookupCmd := &cobra.Command{
		Use:   "lookup [types...]",
		Short: "Print the invokable methods of types in the pool",
		RunE:  runLookupCommand,
	}
	lookupCmd.Flags().BoolVar(&allFlag, "all", false, "Process every declared type")

	bindCmd := &cobra.Command{
		Use:   "bind",
		Short: "Bind source methods of a type to methods of a delegate",
		Args:  cobra.NoArgs,
		RunE:  runBindCommand,
	}
	bindCmd.Flags().StringVar(&typeFlag, "type", "", "Instrumented type")
	bindCmd.Flags().StringVar(&delegateFlag, "delegate", "", "Type whose methods are delegation candidates")
	bindCmd.Flags().StringArrayVar(&sourceFlags, "source", nil, "Source method name (default: every declared method)")
	_ = bindCmd.MarkFlagRequired("type")
	_ = bindCmd.MarkFlagRequired("delegate")

	packCmd := &cobra.Command{
		Use:   "pack files...",
		Short: "Validate pool files and write them as one binary image",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runPackCommand,
	}
	packCmd.Flags().StringVarP(&outputFlag, "output", "o", "types"+pool.ImageExtension, "Image file to write")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "bytebind %s\n", version)
		},
	}

	root.AddCommand(lookupCmd, bindCmd, packCmd, versionCmd)
	return root
}

// loadProject returns the manifest (defaults when none is found) and the
// type pool it or the --pool flags describe.
func loadProject() (*manifest.Manifest, *description.Pool, error) {
	m, err := manifest.FindAndLoad(manifestDir)
	if err != nil {
		return nil, nil, err
	}
	if m == nil {
		log.Debugf("no %s found from %s, using defaults", manifest.FileName, manifestDir)
		m = manifest.Default()
	}
	paths := poolFlags
	if len(paths) == 0 {
		paths = m.PoolPaths()
	}
	if len(paths) == 0 {
		return nil, nil, fmt.Errorf("no type pool: pass --pool or list [pool] sources in %s", manifest.FileName)
	}
	p, err := pool.Load(paths...)
	if err != nil {
		return nil, nil, err
	}
	log.Infof("loaded %d types from %d pool files", len(p.UserTypes()), len(paths))
	return m, p, nil
}

func outputFormat() (report.Format, error) {
	return report.ParseFormat(formatFlag)
}
