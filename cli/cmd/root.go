package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	tapline "github.com/tapline/tapline"
	"github.com/tapline/tapline/output"
)

var (
	rootCmd = &cobra.Command{
		Use:          "tapline",
		Short:        "tapline",
		SilenceUsage: true,
		Long:         `Streaming text-extraction tool: bind templates against stdin and query the result with SQL.`,
		RunE:         run,
	}

	tags       []string
	query      string
	tableName  string
	timestamp  string
	outputType string
)

// Execute executes the root command.
func Execute() error {
	rootCmd.Flags().StringSliceVarP(&tags, "tags", "t", nil, "template shortcut, repeatable; each occurrence adds one default (non-many) template")
	rootCmd.Flags().StringVarP(&query, "query", "q", "", "final SELECT to run against the accumulated rows (default: SELECT * FROM <table>;)")
	rootCmd.Flags().StringVar(&tableName, "table-name", "", "target table name, overriding the config file's table key")
	rootCmd.Flags().StringVar(&timestamp, "timestamp", "", "name of a timestamp column to add, overriding the config file's timestamp key")
	rootCmd.Flags().StringVar(&outputType, "output-type", "", "Table, Json or Csv, overriding the config file's output key")
	return rootCmd.Execute()
}

func run(cmd *cobra.Command, args []string) error {
	var cfg tapline.AppConfig
	if len(args) == 1 {
		loaded, err := tapline.LoadConfig(args[0])
		if err != nil {
			return err
		}
		cfg = loaded
	} else {
		cfg.Table = "main"
	}

	for _, tag := range tags {
		cfg.Templates = append(cfg.Templates, tapline.TokenExprConfig{Tag: tag})
	}
	if tableName != "" {
		cfg.Table = tableName
	}
	if timestamp != "" {
		cfg.Timestamp = timestamp
	}
	if outputType != "" {
		cfg.Output = outputType
	}

	log := logrus.StandardLogger()
	app := tapline.NewApp(cfg, log)

	if err := app.Ingest(cmd.Context(), os.Stdin); err != nil {
		return err
	}

	result, err := app.Query(query)
	if err != nil {
		return err
	}

	formatter := output.Type(cfg.Output)
	if formatter == "" {
		formatter = output.Table
	}
	if err := output.Render(os.Stdout, formatter, result); err != nil {
		return fmt.Errorf("tapline: rendering output: %w", err)
	}
	return nil
}
