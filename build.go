package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/NickyBoy89/pharbuild/builder"
	"github.com/NickyBoy89/pharbuild/config"
	"github.com/NickyBoy89/pharbuild/phar"
)

var buildCmd = &cobra.Command{
	Use:   "build [plugin directory]",
	Short: "Build a plugin into a phar archive",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringP("out", "o", "out", "Directory to put the build files and the archive into")
	buildCmd.Flags().IntP("jobs", "j", 1, "Number of files to process at once")
}

// loggingSink logs every file that the build writes
type loggingSink struct {
	builder.Sink
}

func (s loggingSink) WriteSource(path, text string) error {
	log.WithField("path", path).Info("Compiled file")
	return s.Sink.WriteSource(path, text)
}

func (s loggingSink) CopyFile(path string, data []byte) error {
	log.WithField("path", path).Info("Copied file")
	return s.Sink.CopyFile(path, data)
}

// BuildResult describes a finished build
type BuildResult struct {
	builder.Report
	Archive string
}

// BuildPlugin processes the plugin's files into `<out>/build`, then packs them
// into an archive in the output directory
func BuildPlugin(ctx context.Context, dir, out string, cfg config.View, jobs int) (*BuildResult, error) {
	description, err := ReadPluginDescription(dir)
	if err != nil {
		return nil, err
	}

	buildDir := filepath.Join(out, "build")
	if err := os.RemoveAll(buildDir); err != nil {
		return nil, fmt.Errorf("clearing the build directory: %w", err)
	}

	inputs, err := builder.DirSource(dir, cfg.Bool("build.include-minimal", true), out)
	if err != nil {
		return nil, err
	}

	b := builder.New(cfg)
	b.Options.Jobs = jobs
	b.Init()

	report, err := b.Build(ctx, inputs, loggingSink{builder.DirSink{Root: buildDir}})
	if err != nil {
		return nil, err
	}

	created := time.Now()
	archive := filepath.Join(out, description.ArchiveName())
	err = phar.Build(archive, buildDir, description.Metadata(created), phar.Options{
		Compress:     true,
		SkipMetadata: cfg.Bool("build.skip-metadata", true),
		SkipStub:     cfg.Bool("build.skip-stub", true),
		Created:      created,
	})
	if err != nil {
		return nil, err
	}
	return &BuildResult{Report: report, Archive: archive}, nil
}

func printSummary(w io.Writer, result *BuildResult) {
	success := color.New(color.FgGreen, color.Bold)
	warning := color.New(color.FgYellow, color.Bold)

	success.Fprintf(w, "Built %s\n", result.Archive)
	fmt.Fprintf(w, "  %d compiled into %d files, %d copied\n",
		len(result.Processed), len(result.Outputs), len(result.Copied))
	if len(result.Skipped) > 0 {
		warning.Fprintf(w, "  %d skipped:\n", len(result.Skipped))
		for _, path := range result.Skipped {
			fmt.Fprintf(w, "    %s\n", path)
		}
	}
}

func runBuild(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	dir := "."
	if len(args) > 0 {
		dir = args[0]
	}
	out, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(out, 0o755); err != nil {
		return err
	}
	result, err := BuildPlugin(cmd.Context(), dir, out, cfg, jobs)
	if err != nil {
		return err
	}
	printSummary(cmd.OutOrStdout(), result)
	return nil
}
