// Command hrimport runs HR CSV imports from the command line: validate a
// file, preview the reconciliation against the database, or apply it.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/garrymalacolmjevons/butters-hr-import/internal/importer"
	"github.com/garrymalacolmjevons/butters-hr-import/internal/schema"
	"github.com/garrymalacolmjevons/butters-hr-import/internal/store"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	flagType           string
	flagOverrides      string
	flagNoUpdate       bool
	flagNoCreate       bool
	flagArchiveMissing bool
	flagReplaceAll     bool
	flagApply          bool
	flagJSON           bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "hrimport",
		Short:         "HR CSV import tool for employees and insurance policies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd := &cobra.Command{
		Use:   "run <file.csv>",
		Short: "Validate a CSV file and reconcile it against existing records",
		Long: `Validate a CSV file and reconcile it against existing records.

By default this is a dry run: the file is parsed and classified but
nothing is written. With DATABASE_URL set, the reconciliation runs
against the live snapshot; pass --apply to persist the result.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}
	runCmd.Flags().StringVar(&flagType, "type", "employees", "import type (employees, policies)")
	runCmd.Flags().StringVar(&flagOverrides, "overrides", "", "YAML file of extra header synonyms")
	runCmd.Flags().BoolVar(&flagNoUpdate, "no-update", false, "do not update matched records")
	runCmd.Flags().BoolVar(&flagNoCreate, "no-create", false, "do not create unmatched records")
	runCmd.Flags().BoolVar(&flagArchiveMissing, "archive-missing", false, "flag existing records absent from the file")
	runCmd.Flags().BoolVar(&flagReplaceAll, "replace-all", false, "full replace instead of field-level merge")
	runCmd.Flags().BoolVar(&flagApply, "apply", false, "persist the reconciliation result (requires DATABASE_URL)")
	runCmd.Flags().BoolVar(&flagJSON, "json", false, "print machine-readable output")

	typesCmd := &cobra.Command{
		Use:   "types",
		Short: "List registered import types",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := schema.Register(flagOverrides); err != nil {
				return err
			}
			for _, cfg := range importer.All() {
				fmt.Printf("%-12s %s\n", cfg.Key, cfg.Label)
			}
			return nil
		},
	}

	rootCmd.AddCommand(runCmd, typesCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func runImport(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	if err := schema.Register(flagOverrides); err != nil {
		return err
	}
	cfg, ok := importer.Get(flagType)
	if !ok {
		return fmt.Errorf("unknown import type: %s", flagType)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	opts := importer.DefaultOptions()
	opts.UpdateExisting = !flagNoUpdate
	opts.AddNew = !flagNoCreate
	opts.ArchiveMissing = flagArchiveMissing
	opts.ReplaceAll = flagReplaceAll

	ctx := context.Background()
	dbURL := os.Getenv("DATABASE_URL")

	if dbURL == "" {
		if flagApply {
			return fmt.Errorf("--apply requires DATABASE_URL")
		}
		result, err := importer.Parse(data, cfg)
		if err != nil {
			return err
		}
		return printResult(result, nil, nil)
	}

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		return fmt.Errorf("connect: %w", err)
	}
	defer pool.Close()

	st := store.New(pool)
	if err := st.EnsureSchema(ctx); err != nil {
		return err
	}

	snapshot, err := st.Snapshot(ctx, cfg.Key)
	if err != nil {
		return err
	}

	result, summary, err := importer.Run(data, cfg, snapshot, opts)
	if err != nil {
		return err
	}

	if !flagApply {
		return printResult(result, summary, nil)
	}

	run, err := st.Apply(ctx, cfg.Key, args[0], result, *summary)
	if err != nil {
		return err
	}
	return printResult(result, summary, &run)
}

func printResult(result *importer.ImportResult, summary *importer.ReconciliationSummary, run *store.RunRecord) error {
	if flagJSON {
		out := map[string]any{"result": result}
		if summary != nil {
			out["summary"] = summary
		}
		if run != nil {
			out["run"] = run
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Printf("%d rows: %d accepted, %d rejected\n",
		result.TotalRows, len(result.Accepted), len(result.Errors))
	for _, re := range result.Errors {
		for _, reason := range re.Reasons {
			fmt.Printf("  row %d: %s\n", re.Row, reason)
		}
	}
	if summary != nil {
		fmt.Printf("reconciliation: %d to create, %d to update, %d skipped, %d to archive\n",
			summary.Created, summary.Updated, summary.Skipped, summary.Archived)
	}
	if run != nil {
		fmt.Printf("applied as run %s: %d created, %d updated, %d archived",
			run.ID, run.Created, run.Updated, run.Archived)
		if len(run.ApplyFailures) > 0 {
			fmt.Printf(", %d failed", len(run.ApplyFailures))
		}
		fmt.Println()
	}
	return nil
}
