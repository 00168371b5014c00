package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/olehluchkiv/pets/internal/demo"
	"github.com/olehluchkiv/pets/internal/diagram"
	"github.com/olehluchkiv/pets/internal/logging"
	"github.com/olehluchkiv/pets/internal/server"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

const defaultInput = "./internal/pets"

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	a := newApp()
	a.cancel = cancel

	err := newRootCmd(a).ExecuteContext(ctx)
	cancel()
	if err != nil {
		a.logger.Error("command failed", "error", err)
	}
	a.close()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app carries state shared by all commands once the root pre-run has set
// up configuration and logging.
type app struct {
	v       *viper.Viper
	cfgFile string
	logger  *slog.Logger
	cleanup func()
	cancel  context.CancelFunc // cancelled on SIGINT/SIGTERM; nil disables signal handling
}

func newApp() *app {
	return &app{v: newConfig(), logger: logging.Discard(), cleanup: func() {}}
}

// close releases the log file. It is safe to call more than once.
func (a *app) close() {
	a.cleanup()
	a.cleanup = func() {}
}

func newRootCmd(a *app) *cobra.Command {

	root := &cobra.Command{
		Use:           "pets",
		Short:         "Owner and pets demo with a class diagram generator",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return demo.Run(cmd.OutOrStdout())
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default ./pets.yaml if present)")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-file", "", "also write JSON logs to this file")
	pf.Int("max-members", 0, "max methods/fields shown per class box (0 = unlimited)")
	_ = a.v.BindPFlag(cfgKeyLogLevel, pf.Lookup("log-level"))
	_ = a.v.BindPFlag(cfgKeyLogFile, pf.Lookup("log-file"))
	_ = a.v.BindPFlag(cfgKeyMaxMembers, pf.Lookup("max-members"))

	root.AddCommand(
		newDemoCmd(),
		newDiagramCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)
	return root
}

func (a *app) setup() error {
	if err := readConfig(a.v, a.cfgFile); err != nil {
		return err
	}

	level, err := logging.ParseLevel(a.v.GetString(cfgKeyLogLevel))
	if err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	logger, cleanup, err := logging.Setup(a.v.GetString(cfgKeyLogFile), level)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	a.logger = logger
	a.cleanup = cleanup
	a.watchSignals()
	if used := a.v.ConfigFileUsed(); used != "" {
		logger.Debug("config loaded", "file", used)
	}
	return nil
}

func (a *app) watchSignals() {
	if a.cancel == nil {
		return
	}
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	logger, cancel := a.logger, a.cancel
	go func() {
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig.String())
		cancel()
	}()
}

func (a *app) diagramOptions() diagram.DiagramOptions {
	opts := diagram.DefaultDiagramOptions()
	opts.MaxMembersPerBox = a.v.GetInt(cfgKeyMaxMembers)
	return opts
}

func newDemoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "demo",
		Short: "Run the owner and pets demo",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return demo.Run(cmd.OutOrStdout())
		},
	}
}

type analysisFlags struct {
	filter            string
	includeStdlib     bool
	includeUnexported bool
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.filter, "filter", "", "package path prefix filter")
	cmd.Flags().BoolVar(&f.includeStdlib, "include-stdlib", false, "include standard library interfaces")
	cmd.Flags().BoolVar(&f.includeUnexported, "include-unexported", false, "include unexported types, fields and methods")
}

func (a *app) analyze(cmd *cobra.Command, args []string, f analysisFlags) (server.Page, error) {
	input := defaultInput
	if len(args) > 0 {
		input = args[0]
	}
	return server.RunAnalysis(cmd.Context(), server.AnalysisConfig{
		Input:             input,
		Filter:            f.filter,
		IncludeStdlib:     f.includeStdlib,
		IncludeUnexported: f.includeUnexported,
		Diagram:           a.diagramOptions(),
	}, a.logger)
}

func newDiagramCmd(a *app) *cobra.Command {
	var (
		af     analysisFlags
		format string
		output string
	)
	cmd := &cobra.Command{
		Use:   "diagram [path]",
		Short: "Print the class diagram of a Go package tree",
		Long: "Analyze the Go packages at path (default " + defaultInput + ") and print\n" +
			"their interfaces, types and relationships as a Mermaid class diagram.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := diagram.ParseFormat(format)
			if err != nil {
				return err
			}

			page, err := a.analyze(cmd, args, af)
			if err != nil {
				return err
			}
			if len(page.Result.Interfaces) == 0 && len(page.Result.Types) == 0 {
				a.logger.Warn("no interfaces or types found", "input", page.Source)
			}

			export := func(w io.Writer) error {
				if err := diagram.Export(w, page.Result, f, page.Options); err != nil {
					return fmt.Errorf("export %s: %w", f, err)
				}
				return nil
			}
			if output == "" {
				return export(cmd.OutOrStdout())
			}
			if err := writeFile(output, export); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote diagram to %s\n", output)
			return nil
		},
	}
	af.register(cmd)
	cmd.Flags().StringVar(&format, "format", string(diagram.FormatMermaid), "output format (mmd, md, json, yaml)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to file instead of stdout")
	return cmd
}

// createFile opens diagram output files; tests replace it.
var createFile = func(name string) (io.WriteCloser, error) {
	return os.Create(name)
}

// writeFile runs write against the file at path. A failed Close is
// reported as an error.
func writeFile(path string, write func(io.Writer) error) (err error) {
	file, err := createFile(path)
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close output %s: %w", path, cerr)
		}
	}()
	return write(file)
}

func newServeCmd(a *app) *cobra.Command {
	var (
		af        analysisFlags
		noBrowser bool
	)
	cmd := &cobra.Command{
		Use:   "serve [path]",
		Short: "Analyze a Go package tree and serve its class diagram over HTTP",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			page, err := a.analyze(cmd, args, af)
			if err != nil {
				return err
			}
			port := a.v.GetInt(cfgKeyPort)
			fmt.Fprintf(cmd.OutOrStdout(), "Starting server on http://localhost:%d\n", port)
			return server.Serve(cmd.Context(), page, port, !noBrowser, a.logger)
		},
	}
	af.register(cmd)
	cmd.Flags().Int("port", defaultPort, "HTTP server port")
	cmd.Flags().BoolVar(&noBrowser, "no-browser", false, "skip auto-opening browser")
	_ = a.v.BindPFlag(cfgKeyPort, cmd.Flags().Lookup("port"))
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pets %s\n", version)
		},
	}
}
