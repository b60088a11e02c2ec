package cmd

import (
	"fmt"
	"os"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"

	"github.com/sikraken/runreport/internal/manifest"
	"github.com/sikraken/runreport/internal/result"
	"github.com/sikraken/runreport/internal/runlog"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <run-dir>",
		Short: "Check a run directory without writing a report",
		Long: "Parse the run log and manifest and report benchmarks whose artifacts are missing. " +
			"Only a missing manifest, run log or run log field is an error.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			runDir, err := result.ResolveRunDir(args[0])
			if err != nil {
				return err
			}

			manifestPath := cfg.Layout.ManifestPath(runDir)
			if err := runlog.RequireFile(manifestPath); err != nil {
				return err
			}
			meta, err := runlog.ParseFile(cfg.Layout.RunLogPath(runDir))
			if err != nil {
				return err
			}
			ids, err := manifest.ReadFile(manifestPath)
			if err != nil {
				return err
			}

			var present, missingDir, missingLog int
			for _, id := range ids {
				switch artifactStatus(id, runDir) {
				case "skipped":
					continue
				case "missing":
					clog.WarnContextf(ctx, "%s: artifact directory missing", id.BaseName)
					missingDir++
					continue
				}
				present++
				logPath := cfg.Layout.PrimaryLogPath(id.ArtifactDir(runDir))
				if _, err := os.Stat(logPath); err != nil {
					clog.WarnContextf(ctx, "%s: %v", id.BaseName, err)
					missingLog++
				}
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Category %s (%s): %d benchmarks, %d with artifacts, %d missing directories, %d missing logs\n",
				meta.Category, meta.Timestamp, len(ids), present, missingDir, missingLog)
			return nil
		},
	}
}
