package main

import (
	"fmt"
	"os"

	"github.com/pkg/browser"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cloudcostchefs/devtest-auditor/internal/config"
	"github.com/cloudcostchefs/devtest-auditor/internal/engine"
	"github.com/cloudcostchefs/devtest-auditor/internal/providers"
	awsinv "github.com/cloudcostchefs/devtest-auditor/internal/providers/aws"
	azureinv "github.com/cloudcostchefs/devtest-auditor/internal/providers/azure"
	gcpinv "github.com/cloudcostchefs/devtest-auditor/internal/providers/gcp"
	ociinv "github.com/cloudcostchefs/devtest-auditor/internal/providers/oci"
	"github.com/cloudcostchefs/devtest-auditor/internal/report"
	"github.com/cloudcostchefs/devtest-auditor/internal/rules"
	"github.com/cloudcostchefs/devtest-auditor/internal/version"
)

// rootFlags are shared by every provider subcommand.
type rootFlags struct {
	output     string
	configPath string
	openReport bool
	verbosity  string
}

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}

	root := &cobra.Command{
		Use:   "devtest-audit",
		Short: "Audit dev/test cloud resources for avoidable spend",
		Long: `devtest-audit scans one cloud scope for resources tagged as dev/test
and flags configurations that waste money: production-grade databases,
oversized instances, unattached volumes, idle addresses, premium caches,
empty load balancers, world-open admin ports and expired groupings.
Results land as per-category CSV files and one HTML report.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVarP(&flags.output, "output", "o", ".", "directory for CSV and HTML outputs")
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "YAML file overriding tag vocabulary and reference tables")
	root.PersistentFlags().BoolVar(&flags.openReport, "open", false, "open the HTML report in a browser when done")
	root.PersistentFlags().StringVar(&flags.verbosity, "verbosity", "info", "log level: debug, info, warn or error")

	root.AddCommand(newAWSCmd(flags))
	root.AddCommand(newAzureCmd(flags))
	root.AddCommand(newGCPCmd(flags))
	root.AddCommand(newOCICmd(flags))
	root.AddCommand(newVersionCmd())
	return root
}

func newAWSCmd(flags *rootFlags) *cobra.Command {
	var (
		profile string
		regions []string
	)

	cmd := &cobra.Command{
		Use:   "aws",
		Short: "Scan an AWS account",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(flags.verbosity)
			inv, err := awsinv.New(cmd.Context(), awsinv.Options{
				Profile: profile,
				Regions: regions,
			})
			if err != nil {
				return err
			}
			return runScan(cmd, flags, log, "aws", inv)
		},
	}
	cmd.Flags().StringVar(&profile, "profile", "", "AWS shared-config profile (default profile when empty)")
	cmd.Flags().StringSliceVar(&regions, "region", nil, "regions to scan (repeatable; profile default when empty)")
	return cmd
}

func newAzureCmd(flags *rootFlags) *cobra.Command {
	var subscription string

	cmd := &cobra.Command{
		Use:   "azure",
		Short: "Scan an Azure subscription",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(flags.verbosity)
			inv, err := azureinv.New(subscription)
			if err != nil {
				return err
			}
			return runScan(cmd, flags, log, "azure", inv)
		},
	}
	cmd.Flags().StringVar(&subscription, "subscription", "", "Azure subscription ID (required)")
	_ = cmd.MarkFlagRequired("subscription")
	return cmd
}

func newGCPCmd(flags *rootFlags) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "gcp",
		Short: "Scan a GCP project",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(flags.verbosity)
			inv, err := gcpinv.New(cmd.Context(), project)
			if err != nil {
				return err
			}
			return runScan(cmd, flags, log, "gcp", inv)
		},
	}
	cmd.Flags().StringVar(&project, "project", "", "GCP project ID (required)")
	_ = cmd.MarkFlagRequired("project")
	return cmd
}

func newOCICmd(flags *rootFlags) *cobra.Command {
	var (
		profile      string
		compartments []string
	)

	cmd := &cobra.Command{
		Use:   "oci",
		Short: "Scan an OCI tenancy",
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(flags.verbosity)
			inv, err := ociinv.New(ociinv.Options{
				Profile:      profile,
				Compartments: compartments,
				Logger:       log,
			})
			if err != nil {
				return err
			}
			return runScan(cmd, flags, log, "oci", inv)
		},
	}
	cmd.Flags().StringVar(&profile, "profile", "", "OCI config profile (DEFAULT when empty)")
	cmd.Flags().StringSliceVar(&compartments, "compartments", nil, "compartment OCIDs to scan (tenancy root when empty)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprint(cmd.OutOrStdout(), version.Info())
		},
	}
}

// runScan is the shared tail of every provider command: load settings, run
// the scanner, write the exports and optionally open the report.
func runScan(cmd *cobra.Command, flags *rootFlags, log zerolog.Logger, provider string, inv providers.Inventory) error {
	settings, err := config.Load(flags.configPath, provider)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(flags.output, 0o755); err != nil {
		return fmt.Errorf("create output directory %s: %w", flags.output, err)
	}

	scanner := engine.NewScanner(inv, rules.DefaultRegistry(), settings, log)
	result, err := scanner.Run(cmd.Context())
	if err != nil {
		return err
	}

	csvPaths, err := report.ExportCSV(result, flags.output)
	if err != nil {
		return err
	}
	htmlPath, err := report.WriteHTML(result, flags.output)
	if err != nil {
		return err
	}

	log.Info().
		Int("findings", result.TotalFindings()).
		Int("csv_files", len(csvPaths)).
		Str("report", htmlPath).
		Msg("scan complete")

	if flags.openReport {
		if err := browser.OpenFile(htmlPath); err != nil {
			log.Warn().Err(err).Msg("could not open report in browser")
		}
	}
	return nil
}

// newLogger builds the console logger used across a run. Unknown levels
// fall back to info.
func newLogger(verbosity string) zerolog.Logger {
	level, err := zerolog.ParseLevel(verbosity)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}
