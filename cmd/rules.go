package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Show the recommendation rules in evaluation order and whether they are enabled",
	Run: func(cmd *cobra.Command, _ []string) {
		log, config := setup()
		format, err := outputFormat(cmd)
		if err != nil {
			log.Fatal("parsing flags", zap.Error(err))
		}
		rules := newEngine(config, log).Rules()

		if format == outputJSON {
			printJSON(rules, log)
			return
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "RULE\tENABLED\tDESCRIPTION")
		for _, r := range rules {
			enabled := "yes"
			if !r.Enabled {
				enabled = "no (" + r.Reason + ")"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", r.Name, enabled, r.Description)
		}
		w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	addOutputFlag(rulesCmd)
}
