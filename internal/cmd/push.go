package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"google.golang.org/api/option"

	"github.com/tomasbasham/cli-runtime/iooption"
	"github.com/tomasbasham/cli-runtime/templates"

	"github.com/tomasbasham/artifact-publish/internal/config"
	"github.com/tomasbasham/artifact-publish/internal/credentials"
	"github.com/tomasbasham/artifact-publish/internal/manifest"
	"github.com/tomasbasham/artifact-publish/internal/upload"
)

// bucketConfigName is the configuration value consulted for the bucket when
// the --bucket flag is not given.
const bucketConfigName = "ARTIFACT_BUCKET"

type PushOptions struct {
	Destination  string
	ManifestPath string
	Bucket       string
	DryRun       bool
	Verbose      bool

	artifacts []upload.Artifact

	iooption.IOStreams
}

var (
	pushLong = templates.LongDesc(`
		Publish a batch of build artifacts to the release bucket.

		All artifacts of one invocation share a destination path and are
		validated together before the first upload. With --dry-run every
		check still runs but no transfer is performed, which makes the
		command safe to exercise in CI.`)

	pushExample = templates.Examples(`
		# Publish two files under a release prefix
		artifact push dist/bundle.js dist/bundle.js.map --dest /releases/v1.4.0/

		# Publish the batch described by a manifest, without transferring
		artifact push -f release.yaml --dry-run`)
)

func NewPushOptions(streams iooption.IOStreams) *PushOptions {
	return &PushOptions{
		IOStreams: streams,
	}
}

func NewPushCommand(o *PushOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:                   "push [files...]",
		DisableFlagsInUseLine: true,
		Short:                 "Publish a batch of artifacts to the release bucket",
		Long:                  pushLong,
		Example:               pushExample,
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

	flags := cmd.Flags()

	flags.StringVarP(&o.Destination, "dest", "d", "", "Destination path under which the batch is stored")
	flags.StringVarP(&o.ManifestPath, "manifest", "f", "", "Publish manifest file describing the batch")
	flags.StringVarP(&o.Bucket, "bucket", "b", "", "Storage bucket name (default: the artifact_bucket config value)")
	flags.BoolVar(&o.DryRun, "dry-run", false, "Run all validation without performing any transfer")
	flags.BoolVarP(&o.Verbose, "verbose", "v", false, "Enable debug logging")

	return cmd
}

func (o *PushOptions) Complete(cmd *cobra.Command, args []string) error {
	if o.ManifestPath != "" {
		m, err := manifest.Load(o.ManifestPath)
		if err != nil {
			return err
		}
		if o.Destination == "" {
			o.Destination = m.Destination
		}
		o.artifacts = m.UploadArtifacts()
		return nil
	}

	for _, file := range args {
		o.artifacts = append(o.artifacts, upload.Artifact{
			Filename:  filepath.Base(file),
			LocalPath: file,
		})
	}
	return nil
}

func (o *PushOptions) Validate() error {
	if len(o.artifacts) == 0 {
		return fmt.Errorf("nothing to publish: pass files or a manifest")
	}
	if o.Destination == "" {
		return fmt.Errorf("a destination path is required")
	}
	return nil
}

func (o *PushOptions) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := newLogger(o.Verbose)
	defer logger.Sync() //nolint:errcheck

	source, err := config.NewViperSource()
	if err != nil {
		return err
	}

	creds, err := credentials.Resolve(source, credentials.DefaultReferences)
	if err != nil {
		return err
	}

	bucket := o.Bucket
	if bucket == "" {
		bucket, _ = source.Read(bucketConfigName)
	}
	if bucket == "" && !o.DryRun {
		return fmt.Errorf("a storage bucket is required: pass --bucket or set %s", bucketConfigName)
	}

	upload.SetDryRun(o.DryRun)

	transferer := upload.NewGCSTransferer(bucket, option.WithCredentialsJSON(creds.JSON()))
	client := upload.NewClient(transferer, logger.Sugar())

	dest := upload.NewDestination(o.Destination)
	if err := client.Prepare(o.artifacts, dest); err != nil {
		return err
	}

	if o.DryRun {
		fmt.Fprintf(o.Out, "Dry run: no artifacts will be transferred\n")
	}

	var failed int
	for i := range o.artifacts {
		artifact := &o.artifacts[i]
		if err := client.Upload(ctx, *artifact, dest); err != nil {
			failed++
			fmt.Fprintf(o.ErrOut, "✗ %s: %s\n", artifact.Filename, err)
			continue
		}
		artifact.Stored = upload.StoredMetadata{
			Filename:     artifact.Filename,
			DownloadPath: dest.Key(artifact.Filename),
			Size:         localSize(artifact.LocalPath),
		}
		fmt.Fprintf(o.Out, "✓ %s → %s\n", artifact.Filename, artifact.Stored.DownloadPath)
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d artifacts failed to publish", failed, len(o.artifacts))
	}
	fmt.Fprintf(o.Out, "Published %d artifacts to %s\n", len(o.artifacts), o.Destination)
	return nil
}

func localSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
