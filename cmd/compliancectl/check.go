package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"complianceapi/internal/client"
	"complianceapi/internal/render"
)

var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Upload a contract (PDF, DOCX or TXT) and print its compliance report",
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&serverURL, "server", envOr("COMPLIANCE_SERVER", client.DefaultBaseURL), "compliance API base URL")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]
	if err := client.CheckFile(path); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open contract: %w", err)
	}
	defer f.Close()

	out := render.New(cmd.OutOrStdout())
	out.Title("Regulatory Compliance Checker")
	out.UploadedFile(path)

	api := client.New(serverURL, nil)
	ctx := cmdContext(cmd)

	res, err := api.UploadFile(ctx, path, f)
	if err != nil {
		out.Error("Error processing file")
		return err
	}
	out.Clauses(res.Clauses)

	report, err := api.Analyze(ctx, res.Clauses)
	if err != nil {
		out.Error("Error analyzing contract")
		return err
	}
	out.Report(report)
	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
