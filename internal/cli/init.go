package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/hyperseq/internal/configloader"
	"github.com/yaklabco/hyperseq/internal/logging"
	"github.com/yaklabco/hyperseq/pkg/config"
)

// initFlags holds the flags for the init command.
type initFlags struct {
	force    bool
	full     bool
	dir      string
	snapshot string
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a new hyperseq configuration file",
		Long: `Create a new .hyperseq.yml configuration file in the current directory
with sensible defaults. The file can be customized to change the snapshot
location, tokenization and ingestion settings.

Examples:
  hyperseq init                     Create minimal .hyperseq.yml
  hyperseq init --full              Write every setting with its default
  hyperseq init --dir project/      Write into another directory
  hyperseq init --index data/idx.snap  Use a custom snapshot path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runInit(cmd, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "Overwrite existing configuration file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "Generate full template with every setting")
	cmd.Flags().StringVar(&flags.dir, "dir", "", "Directory to write the configuration to (default: current directory)")
	cmd.Flags().StringVar(&flags.snapshot, "index", "", "Snapshot path written to the configuration")

	return cmd
}

func runInit(cmd *cobra.Command, flags *initFlags) error {
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), "info")

	dir := flags.dir
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("get working directory: %w", err)
		}
		dir = wd
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{
		Full:     flags.full,
		Snapshot: flags.snapshot,
	})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	path, err := configloader.WriteProjectConfig(cmd.Context(), dir, content, flags.force)
	if err != nil {
		return err
	}

	logger.Info("created configuration file", logging.FieldPath, path)
	if flags.full {
		logger.Info("full template includes every setting with its default")
	}
	logger.Info("run 'hyperseq ingest' to build the index")

	return nil
}
