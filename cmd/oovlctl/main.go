package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/MikeSquared-Agency/oovl/internal/config"
	"github.com/MikeSquared-Agency/oovl/internal/scoring"
	"github.com/MikeSquared-Agency/oovl/internal/worksheet"
)

var (
	configFile string
	verbose    bool
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "oovlctl",
		Short: "Score OOVL worksheets from the command line",
		Long: `oovlctl scores a worksheet of options, outcomes, value and
likelihood ratings, and constraints stored as YAML.

Use "oovlctl template" to produce a starting worksheet.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "config file (seed defaults and logging)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to stderr")

	rootCmd.AddCommand(scoreCmd())
	rootCmd.AddCommand(explainCmd())
	rootCmd.AddCommand(templateCmd())
	return rootCmd
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	return cfg, nil
}

func newScorer(cfg *config.Config, errOut io.Writer) *scoring.Scorer {
	var logger *slog.Logger
	if verbose {
		logger = cfg.NewLogger(errOut)
	} else {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return scoring.NewScorer(logger)
}

func scoreCmd() *cobra.Command {
	var file string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Print the score of every option and the aggregate constraint score",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			ws, err := worksheet.LoadFile(file)
			if err != nil {
				return err
			}

			result := newScorer(cfg, cmd.ErrOrStderr()).Compare(ws)
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(result)
			}

			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "OPTION\tSCORE")
			for _, o := range result.Options {
				fmt.Fprintf(w, "%s\t%.2f\n", o.Option, o.Score)
			}
			w.Flush()
			fmt.Fprintf(out, "\nConstraint score: %.2f (%d constraints)\n", result.ConstraintScore, len(ws.Constraints()))
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "worksheet YAML file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")
	cmd.MarkFlagRequired("file")
	return cmd
}

func explainCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Show each outcome's contribution to every option score",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			ws, err := worksheet.LoadFile(file)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			for i, b := range newScorer(cfg, cmd.ErrOrStderr()).Explain(ws) {
				if i > 0 {
					fmt.Fprintln(w)
				}
				fmt.Fprintf(w, "%s\t\t\t%.2f\n", b.Option, b.Score)
				fmt.Fprintln(w, "  OUTCOME\tVALUE\tLIKELIHOOD\tWEIGHTED")
				for _, c := range b.Contributions {
					fmt.Fprintf(w, "  %s\t%d\t%d\t%.2f\n", c.Outcome, c.Value, c.Likelihood, c.Weighted)
				}
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "worksheet YAML file")
	cmd.MarkFlagRequired("file")
	return cmd
}

func templateCmd() *cobra.Command {
	var region string
	var age int

	cmd := &cobra.Command{
		Use:   "template",
		Short: "Write a starter worksheet seeded with the default options and outcomes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			profile, err := worksheet.NewProfile("", region, age)
			if err != nil {
				return err
			}
			d := worksheet.Defaults{
				Options:  cfg.Worksheet.DefaultOptions,
				Outcomes: cfg.Worksheet.DefaultOutcomes,
			}
			return worksheet.Encode(cmd.OutOrStdout(), worksheet.New(profile, d))
		},
	}

	cmd.Flags().StringVar(&region, "region", "", "profile region")
	cmd.Flags().IntVar(&age, "age", 0, "profile age")
	return cmd
}
