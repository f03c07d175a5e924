package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"github.com/tomasbasham/cli-runtime/templates"

	"github.com/tomasbasham/artifact-publish/internal/config"
	"github.com/tomasbasham/artifact-publish/internal/credentials"
	"github.com/tomasbasham/artifact-publish/internal/operation"
	"github.com/tomasbasham/artifact-publish/internal/server"
	"github.com/tomasbasham/artifact-publish/internal/upload"
)

type ServeOptions struct {
	transferer upload.Transferer

	Port    int
	Bucket  string
	Local   string
	DryRun  bool
	Verbose bool
}

var (
	serveLong = templates.LongDesc(`
		Start the artifact publish HTTP server.

		Publishes are enqueued with POST /publishes and polled with
		GET /publishes/{id}. With --local artifacts are written to a
		directory instead of the storage bucket, which is useful for
		development.`)

	serveExample = templates.Examples(`
		# Start on the default port
		artifact serve --bucket release-artifacts

		# Start on a custom port writing to a local directory
		artifact serve --port 9090 --local ./out`)
)

func NewServeOptions() *ServeOptions {
	return &ServeOptions{}
}

func NewServeCommand(o *ServeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Short:   "Start the artifact publish HTTP server",
		Long:    serveLong,
		Example: serveExample,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(); err != nil {
				return err
			}
			if err := o.Run(); err != nil {
				return err
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&o.Port, "port", "p", 8080, "Port to listen on")
	cmd.Flags().StringVarP(&o.Bucket, "bucket", "b", "", "Storage bucket name for published artifacts")
	cmd.Flags().StringVar(&o.Local, "local", "", "Write artifacts to this directory instead of the bucket")
	cmd.Flags().BoolVar(&o.DryRun, "dry-run", false, "Run all validation without performing any transfer")
	cmd.Flags().BoolVarP(&o.Verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

func (o *ServeOptions) Complete(cmd *cobra.Command, args []string) error {
	return nil
}

func (o *ServeOptions) Validate() error {
	if o.Bucket != "" && o.Local != "" {
		return fmt.Errorf("--bucket and --local are mutually exclusive")
	}
	return nil
}

func (o *ServeOptions) Run() error {
	logger := newLogger(o.Verbose)
	defer logger.Sync() //nolint:errcheck

	source, err := config.NewViperSource()
	if err != nil {
		return err
	}

	if o.Local != "" {
		transferer, err := upload.NewLocalTransferer(o.Local)
		if err != nil {
			return fmt.Errorf("failed to initialise local transferer: %w", err)
		}
		o.transferer = transferer
	} else {
		bucket := o.Bucket
		if bucket == "" {
			bucket, _ = source.Read(bucketConfigName)
		}
		if bucket == "" {
			return fmt.Errorf("a storage bucket is required: pass --bucket or set %s", bucketConfigName)
		}

		creds, err := credentials.Resolve(source, credentials.DefaultReferences)
		if err != nil {
			return err
		}
		o.transferer = upload.NewGCSTransferer(bucket, option.WithCredentialsJSON(creds.JSON()))
	}

	upload.SetDryRun(o.DryRun)

	store := operation.NewMemoryStore()
	client := upload.NewClient(o.transferer, logger.Sugar())
	srv := server.New(store, client, logger.Sugar())

	addr := fmt.Sprintf(":%d", o.Port)
	fmt.Fprintf(os.Stdout, "Starting artifact publish server on %s\n", addr)
	return srv.ListenAndServe(addr)
}
