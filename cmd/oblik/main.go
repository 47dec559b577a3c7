package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/coolbeans/oblik/pkg/config"
	"github.com/coolbeans/oblik/pkg/export"
	"github.com/coolbeans/oblik/pkg/namecase"
	"github.com/coolbeans/oblik/pkg/process"
	"github.com/coolbeans/oblik/pkg/record"
)

var version = "0.1.0"

func main() {
	rootCmd := &cobra.Command{
		Use:   "oblik",
		Short: "Personnel transition extractor for military orders",
		Long: `Oblik reads the text of daily military orders and extracts
personnel transitions: arrivals, departures, transfers between
locations, hospital and vacation returns, mobilization enrollments and
unauthorized absences.

Each transition becomes one record (rank, name, unit, location, date,
meal boundary, cause, roster action), exported as CSV or JSON.`,
		Version: version,
	}

	rootCmd.PersistentFlags().String("config", "", "Path to config file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log extraction decisions")

	rootCmd.AddCommand(extractCmd())
	rootCmd.AddCommand(batchCmd())
	rootCmd.AddCommand(namesCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration named by --config, or searches the
// usual locations, falling back to the built-in defaults.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")

	v := viper.New()
	v.SetEnvPrefix("OBLIK")
	v.AutomaticEnv()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.oblik")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path == "" && errors.As(err, &notFound) {
			return config.Default(), nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}
	return config.Load(v.ConfigFileUsed())
}

// newLogger builds the pipeline logger: development output under
// --verbose, silent otherwise.
func newLogger(cmd *cobra.Command) (*zap.Logger, error) {
	verbose, _ := cmd.Flags().GetBool("verbose")
	if !verbose {
		return zap.NewNop(), nil
	}
	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("building logger: %w", err)
	}
	return logger, nil
}

func extractCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract personnel transitions from one order",
		Long: `Extract personnel transitions from a single order text file.

Without --output the records are written to stdout as CSV. With
--output the format follows the file extension (.json for JSON,
anything else for CSV).

Example:
  oblik extract --source order.txt
  oblik extract --source order.txt --output records.json
  oblik extract --source order.txt --output records.csv --trace trace.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			source, _ := cmd.Flags().GetString("source")
			output, _ := cmd.Flags().GetString("output")
			tracePath, _ := cmd.Flags().GetString("trace")
			reportPath, _ := cmd.Flags().GetString("report")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			text, err := export.ReadDocument(source)
			if err != nil {
				return err
			}

			pipeline := process.New(cfg, logger)
			records, err := pipeline.Run(text)
			if err != nil {
				return fmt.Errorf("processing %s: %w", source, err)
			}

			if err := writeRecords(output, records); err != nil {
				return err
			}
			if output != "" {
				fmt.Printf("Extracted %d records from %s -> %s\n", len(records), source, output)
			}

			if tracePath != "" {
				if err := writeTrace(tracePath, pipeline); err != nil {
					return err
				}
			}
			if reportPath != "" {
				report := export.NewRunReport()
				report.Add(source, len(records), nil)
				report.Finish()
				if err := report.Save(reportPath); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringP("source", "s", "", "Order text file to process")
	cmd.Flags().StringP("output", "o", "", "Output file (.csv or .json); stdout CSV when empty")
	cmd.Flags().String("trace", "", "Write extraction decision events to this JSON file")
	cmd.Flags().String("report", "", "Write a run report to this JSON file")
	cmd.MarkFlagRequired("source")
	return cmd
}

func batchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Extract from every order in a directory",
		Long: `Process every .txt file in a directory. Each order produces a
CSV next to its name under the output directory, plus a merged
records.csv, records.json and report.json for the whole run.

A failed document is reported and skipped; the run continues.

Example:
  oblik batch orders/ --output-dir results/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outputDir, _ := cmd.Flags().GetString("output-dir")

			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			logger, err := newLogger(cmd)
			if err != nil {
				return err
			}
			defer logger.Sync()

			paths, err := export.ListDocuments(args[0])
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no .txt files in %s", args[0])
			}

			report := export.NewRunReport()
			var merged []record.PersonnelRecord
			for _, path := range paths {
				records, err := processDocument(cfg, logger, path)
				report.Add(path, len(records), err)
				if err != nil {
					fmt.Fprintf(os.Stderr, "skipping %s: %v\n", path, err)
					continue
				}
				merged = append(merged, records...)

				name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
				if err := export.SaveCSV(filepath.Join(outputDir, name+".csv"), records); err != nil {
					return err
				}
				fmt.Printf("%s: %d records\n", path, len(records))
			}
			report.Finish()

			if err := export.SaveCSV(filepath.Join(outputDir, "records.csv"), merged); err != nil {
				return err
			}
			if err := export.SaveJSON(filepath.Join(outputDir, "records.json"), merged); err != nil {
				return err
			}
			if err := report.Save(filepath.Join(outputDir, "report.json")); err != nil {
				return err
			}

			fmt.Printf("Processed %d documents, %d records total (%d failed)\n",
				len(paths), report.TotalRecords, report.Failed)
			return nil
		},
	}

	cmd.Flags().String("output-dir", "out", "Directory for per-document and merged outputs")
	return cmd
}

// processDocument runs a fresh pipeline over one file. Duplicate
// tracking is scoped to a single order, so each document gets its own
// pipeline.
func processDocument(cfg *config.Config, logger *zap.Logger, path string) ([]record.PersonnelRecord, error) {
	text, err := export.ReadDocument(path)
	if err != nil {
		return nil, err
	}
	return process.New(cfg, logger).Run(text)
}

func namesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "names <full name>...",
		Short: "Convert genitive full names to nominative",
		Long: `Convert one or more Ukrainian full names from the genitive case
used in order text to the nominative case used in rosters.

Example:
  oblik names "КОВАЛЯ Івана Івановича"`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			converter := namecase.New(cfg)
			for _, name := range args {
				fmt.Printf("%s -> %s\n", name, converter.FullName(name))
			}
			return nil
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the oblik version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("oblik %s\n", version)
		},
	}
}

// writeRecords sends records to stdout as CSV, or to a file in the
// format its extension implies.
func writeRecords(output string, records []record.PersonnelRecord) error {
	if output == "" {
		return export.WriteCSV(os.Stdout, records)
	}
	if strings.EqualFold(filepath.Ext(output), ".json") {
		return export.SaveJSON(output, records)
	}
	return export.SaveCSV(output, records)
}

func writeTrace(path string, pipeline *process.Pipeline) error {
	events := pipeline.Trace().Events()
	data, err := json.MarshalIndent(events, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding trace: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing trace %s: %w", path, err)
	}
	return nil
}
