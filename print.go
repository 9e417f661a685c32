package main

import (
	"fmt"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/NickyBoy89/pharbuild/builder"
	"github.com/NickyBoy89/pharbuild/parsing"
)

var printCmd = &cobra.Command{
	Use:   "print <file.php>",
	Short: "Run the build pipeline on a single file, and print the result",
	Args:  cobra.ExactArgs(1),
	RunE:  runPrint,
}

func runPrint(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	file, err := parsing.ReadSourceFile(args[0])
	if err != nil {
		return err
	}

	b := builder.New(cfg)
	b.Init()
	outputs, err := b.Process(filepath.Base(file.Name), file.Source)
	if err != nil {
		return err
	}

	header := color.New(color.FgCyan)
	for _, output := range outputs {
		// Only label the units when the file was split
		if len(outputs) > 1 {
			header.Fprintf(cmd.ErrOrStderr(), "==> %s <==\n", output.Path)
		}
		fmt.Fprint(cmd.OutOrStdout(), output.Text)
	}
	return nil
}
