package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/sgea/academic-events/internal/core/ports"
)

func newCertificatesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "certificates",
		Short: "Certificate maintenance",
	}

	var dryRun bool
	issue := &cobra.Command{
		Use:   "issue",
		Short: "Issue certificates for confirmed attendees of finished events",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if err := a.connect(ctx); err != nil {
				return err
			}
			defer a.close(ctx)

			svc, err := a.services(nil)
			if err != nil {
				return err
			}
			report, err := svc.certificates.RunBatch(ctx, dryRun)
			if err != nil {
				return err
			}
			return printReport(cmd.OutOrStdout(), report)
		},
	}
	issue.Flags().BoolVar(&dryRun, "dry-run", false, "report what would be issued without writing anything")

	cmd.AddCommand(issue)
	return cmd
}

func printReport(w io.Writer, report *ports.BatchReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
