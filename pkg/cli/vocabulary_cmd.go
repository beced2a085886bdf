package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"sales-analytics/internal/schema"
	"sales-analytics/internal/service/analytics"
)

func newVocabularyCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "vocabulary",
		Aliases: []string{"vocab"},
		Short:   "List the metrics and dimensions requests may use",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			v := svc.Vocabulary()
			if getOutputFormat(cmd) == "json" {
				return PrintJSON(os.Stdout, v)
			}

			metricRows := make([][]string, len(v.Metrics))
			for i, m := range v.Metrics {
				metricRows[i] = []string{string(m.ID), strings.Join(m.Tables, ","), m.Description}
			}
			_, _ = fmt.Fprintln(os.Stdout, "Metrics:")
			PrintTable(os.Stdout, []string{"id", "tables", "description"}, metricRows)

			dimRows := make([][]string, len(v.Dimensions))
			for i, d := range v.Dimensions {
				dimRows[i] = []string{string(d.ID), string(d.Type), strings.Join(d.Tables, ","), d.Expression}
			}
			_, _ = fmt.Fprintln(os.Stdout)
			_, _ = fmt.Fprintln(os.Stdout, "Dimensions:")
			PrintTable(os.Stdout, []string{"id", "type", "tables", "expression"}, dimRows)
			return nil
		},
	}
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify that the vocabulary matches the schema graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			graph, err := schema.NewSalesGraph()
			if err != nil {
				return err
			}
			reg, err := analytics.NewDefaultRegistry()
			if err != nil {
				return err
			}

			summary := map[string]string{
				"status":     "ok",
				"root":       string(graph.Root()),
				"tables":     fmt.Sprint(len(graph.Tables())),
				"relations":  fmt.Sprint(len(graph.Relations())),
				"metrics":    fmt.Sprint(len(reg.Metrics())),
				"dimensions": fmt.Sprint(len(reg.Dimensions())),
			}
			if getOutputFormat(cmd) == "json" {
				return PrintJSON(os.Stdout, summary)
			}
			PrintDetail(os.Stdout, summary)
			return nil
		},
	}
}
