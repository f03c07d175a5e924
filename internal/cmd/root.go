package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cliflag "github.com/tomasbasham/cli-runtime/flag"
	"github.com/tomasbasham/cli-runtime/iooption"
	"github.com/tomasbasham/cli-runtime/printer"
	"github.com/tomasbasham/cli-runtime/templates"
)

var (
	rootLong = templates.LongDesc(`
		Publish build artifacts to the release bucket.`)

	rootExamples = templates.Examples(``)

	// Injected at build time using ldflags.
	version = ""
	commit  = ""
)

// ArtifactOptions defines the options for the `artifact` command.
type ArtifactOptions struct {
	iooption.IOStreams
}

// NewArtifactOptions provides an initialised ArtifactOptions instance.
func NewArtifactOptions(streams iooption.IOStreams) *ArtifactOptions {
	return &ArtifactOptions{
		IOStreams: streams,
	}
}

// NewRootCommand creates the `artifact` command with default arguments.
func NewRootCommand() *cobra.Command {
	options := NewArtifactOptions(iooption.IOStreams{
		In:     os.Stdin,
		Out:    os.Stdout,
		ErrOut: os.Stderr,
	})

	return NewRootCommandWithArgs(options)
}

// NewRootCommandWithArgs creates the `artifact` command and its nested
// children.
func NewRootCommandWithArgs(o *ArtifactOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "artifact [command]",
		Version:               versionInfo(),
		DisableFlagsInUseLine: true,
		Short:                 "Artifact publishing tool for the release pipeline",
		Long:                  rootLong,
		Example:               rootExamples,
		SilenceErrors:         true,
		SilenceUsage:          true,
	}

	printerOpts := printer.WarningPrinterOptions{Color: true}
	printer := printer.NewWarningPrinter(o.ErrOut, printerOpts)
	cmd.SetGlobalNormalizationFunc(cliflag.WarnWordSepNormalizeFunc(printer))

	cmd.AddCommand(NewPushCommand(NewPushOptions(o.IOStreams)))
	cmd.AddCommand(NewServeCommand(NewServeOptions()))

	// The globlal normalisation function ensures that all flags specified meet
	// the desired format, changing users' input if necessary.
	cmd.SetGlobalNormalizationFunc(cliflag.WordSepNormalizeFunc())

	return cmd
}

func versionInfo() string {
	if version == "" {
		return ""
	}
	return fmt.Sprintf("%s (commit: %s)", version, commit)
}

// newLogger builds the process logger. Verbose runs log at debug level with
// the development encoder; otherwise production defaults apply.
func newLogger(verbose bool) *zap.Logger {
	if verbose {
		cfg := zap.NewDevelopmentConfig()
		logger, err := cfg.Build()
		if err != nil {
			return zap.NewNop()
		}
		return logger
	}

	cfg := zap.NewProductionConfig()
	logger, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
