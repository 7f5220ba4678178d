package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	outputTable = "table"
	outputJSON  = "json"
)

var positionsCmd = &cobra.Command{
	Use:   "positions",
	Short: "List the job positions with reference skills",
	Run: func(cmd *cobra.Command, _ []string) {
		log, config := setup()
		format, err := outputFormat(cmd)
		if err != nil {
			log.Fatal("parsing flags", zap.Error(err))
		}
		positions := newEngine(config, log).Positions()

		if format == outputJSON {
			printJSON(map[string]any{"positions": positions}, log)
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tTITLE\tSKILLS")
		for _, p := range positions {
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.ID, p.Title, strings.Join(p.Skills, ", "))
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(positionsCmd)
	addOutputFlag(positionsCmd)
}

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", outputTable, "output format for stdout: table or json")
}

// outputFormat returns the stdout format chosen with --output.
func outputFormat(cmd *cobra.Command) (string, error) {
	format, err := cmd.Flags().GetString("output")
	if err != nil {
		return "", err
	}

	switch format = strings.ToLower(strings.TrimSpace(format)); format {
	case outputTable, outputJSON:
		return format, nil
	default:
		return "", fmt.Errorf("unknown output format %q (use %s or %s)", format, outputTable, outputJSON)
	}
}
