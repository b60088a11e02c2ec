package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/sikraken/runreport/internal/manifest"
	"github.com/sikraken/runreport/internal/result"
	"github.com/sikraken/runreport/internal/runlog"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <run-dir>",
		Short: "List the benchmarks in a run manifest",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			runDir, err := result.ResolveRunDir(args[0])
			if err != nil {
				return err
			}
			path := cfg.Layout.ManifestPath(runDir)
			if err := runlog.RequireFile(path); err != nil {
				return err
			}
			ids, err := manifest.ReadFile(path)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Benchmarks (%d):\n", len(ids))
			for _, id := range ids {
				fmt.Fprintf(w, "  - %s [%s] %s\n", displayName(id), artifactStatus(id, runDir), id.SourcePath)
			}
			return nil
		},
	}
}

func displayName(id manifest.Identity) string {
	if id.BaseName == "" {
		return "(blank)"
	}
	return id.BaseName
}

func artifactStatus(id manifest.Identity, runDir string) string {
	dir := id.ArtifactDir(runDir)
	if dir == "" {
		return "skipped"
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return "missing"
	}
	return "ok"
}
