package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/hyperseq/internal/logging"
	"github.com/yaklabco/hyperseq/pkg/fsutil"
	"github.com/yaklabco/hyperseq/pkg/snapshot"
)

type verifyFlags struct {
	restoreBackup bool
}

func newVerifyCommand() *cobra.Command {
	flags := &verifyFlags{}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the snapshot for corruption",
		Long: `Read the snapshot and check its header, checksum and every structural
invariant of the index.

With --restore-backup, a snapshot that fails verification is replaced by
its backup, which is then verified in turn.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runVerify(cmd, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.restoreBackup, "restore-backup", false, "restore the backup if the snapshot is corrupt")

	return cmd
}

func runVerify(cmd *cobra.Command, flags *verifyFlags) error {
	sess, err := newSession(cmd, nil)
	if err != nil {
		return err
	}
	path := sess.cfg.Snapshot

	header, stats, err := snapshot.Verify(sess.ctx, path)
	if err != nil && flags.restoreBackup && !errors.Is(err, fsutil.ErrNotFound) {
		sess.logger.Warn("snapshot failed verification", logging.FieldSnapshot, path, logging.FieldError, err)

		restored, restoreErr := fsutil.RestoreBackup(sess.ctx, path, sess.backupMode())
		if restoreErr != nil {
			return fmt.Errorf("restore backup: %w", restoreErr)
		}
		if !restored {
			return fmt.Errorf("no backup to restore: %w", err)
		}
		sess.logger.Info("restored backup", logging.FieldSnapshot, path)
		header, stats, err = snapshot.Verify(sess.ctx, path)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(sess.out, "%s %s\n", sess.styles.Success.Render("ok"), path)
	fmt.Fprintf(sess.out, "  %s %s  %s %d  %s %s\n",
		sess.styles.Label.Render("graph"), header.GraphID,
		sess.styles.Label.Render("version"), header.Version,
		sess.styles.Label.Render("saved"), header.Saved.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sess.out, "  %d vertices, %d patterns, %d memoized splits\n",
		stats.Vertices, stats.Patterns, stats.Splits)
	return nil
}
