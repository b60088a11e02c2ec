package cmd

import (
	"fmt"

	"github.com/chainguard-dev/clog"
	"github.com/spf13/cobra"

	"github.com/sikraken/runreport/internal/result"
	"github.com/sikraken/runreport/internal/rewrite"
)

var (
	flagRewriteInput  string
	flagRewriteOutput string
	flagBaseURL       string
)

func newRewriteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewrite <run-dir> <run-id>",
		Short: "Point local artifact links in a generated report at the object store",
		Long: "Rewrite every local href/src in the report to <base-url>/<run-id>/<benchmark>/<file>. " +
			"References that already use a remote URL are left alone, so the command can be run repeatedly.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cfg, err := setup(cmd)
			if err != nil {
				return err
			}
			runDir, err := result.ResolveRunDir(args[0])
			if err != nil {
				return err
			}
			runID := args[1]

			baseURL := cfg.ObjectStore.URL()
			if flagBaseURL != "" {
				baseURL = flagBaseURL
			}
			rw, err := rewrite.New(baseURL)
			if err != nil {
				return err
			}

			in := flagRewriteInput
			if in == "" {
				in = cfg.Layout.ReportPath(runDir)
			}
			out := flagRewriteOutput
			if out == "" {
				out = in
			}
			n, err := rw.RewriteFile(in, out, runID, result.WriteFileAtomic)
			if err != nil {
				return err
			}
			clog.InfoContextf(ctx, "rewrote %d references against %s", n, rw.BaseURL)
			fmt.Fprintf(cmd.OutOrStdout(), "Rewrote %d references in %s\n", n, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&flagRewriteInput, "input", "", "report to rewrite (default <run-dir>/<layout.report>)")
	cmd.Flags().StringVarP(&flagRewriteOutput, "output", "o", "", "where to write the rewritten report (default: in place)")
	cmd.Flags().StringVar(&flagBaseURL, "base-url", "", "object store base URL (overrides config)")
	return cmd
}
