package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"sales-analytics/internal/domain"
)

// requestFlags builds a request from command-line flags.
type requestFlags struct {
	metric     string
	dimensions []string
	filters    []string
	orderBy    string
	order      string
	limit      int
}

func (f *requestFlags) register(fs *pflag.FlagSet) {
	fs.StringVarP(&f.metric, "metric", "m", "", "Metric to compute (see 'analytics vocabulary')")
	fs.StringArrayVarP(&f.dimensions, "dimension", "d", nil, "Dimension to group by (repeatable)")
	fs.StringArrayVarP(&f.filters, "filter", "f", nil, "Filter as campo:operador:valor; in, not_in and between take comma-separated values (repeatable)")
	fs.StringVar(&f.orderBy, "order-by", "", `Order by "metrica" or a selected dimension (default "metrica")`)
	fs.StringVar(&f.order, "order", "", "Sort direction: ASC or DESC (default DESC)")
	fs.IntVar(&f.limit, "limit", 0, "Maximum number of rows (default from ANALYTICS_DEFAULT_LIMIT)")
}

func (f *requestFlags) used(fs *pflag.FlagSet) bool {
	for _, name := range []string{"metric", "dimension", "filter", "order-by", "order", "limit"} {
		if fs.Changed(name) {
			return true
		}
	}
	return false
}

func (f *requestFlags) request(fs *pflag.FlagSet) (domain.AnalyticsRequest, error) {
	req := domain.AnalyticsRequest{
		Metric:  domain.Metric(f.metric),
		OrderBy: f.orderBy,
		Order:   domain.SortOrder(f.order),
	}
	for _, d := range f.dimensions {
		req.Dimensions = append(req.Dimensions, domain.Dimension(d))
	}
	for _, s := range f.filters {
		filter, err := parseFilterFlag(s)
		if err != nil {
			return req, err
		}
		req.Filters = append(req.Filters, filter)
	}
	if fs.Changed("limit") {
		limit := f.limit
		req.Limit = &limit
	}
	return req, nil
}

func newCompileCmd(a *app) *cobra.Command {
	var (
		flags requestFlags
		batch bool
	)

	cmd := &cobra.Command{
		Use:   "compile [file|-]",
		Short: "Compile an analytics request into SQL",
		Long: `Compile an analytics request into parameterized SQL.

The request is read from a JSON or YAML file, from stdin ("-" or no argument),
or built from flags. With --batch every argument is a request file and the
files are compiled concurrently.`,
		Example: `  analytics compile request.yaml
  analytics compile -m total_pedidos -d canal_nome -f status_venda:eq:COMPLETED --limit 7
  analytics compile --batch daily.json weekly.yaml`,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			if batch {
				if len(args) == 0 {
					return fmt.Errorf("--batch requires at least one request file")
				}
				if flags.used(cmd.Flags()) {
					return fmt.Errorf("request flags cannot be combined with --batch")
				}
				reqs := make([]domain.AnalyticsRequest, len(args))
				for i, path := range args {
					if reqs[i], err = readRequestFile(path, cmd.InOrStdin()); err != nil {
						return err
					}
				}
				out, err := svc.ExplainBatch(cmd.Context(), reqs)
				if err != nil {
					return err
				}
				if getOutputFormat(cmd) == "json" {
					return PrintJSON(os.Stdout, out)
				}
				for i, q := range out {
					if i > 0 {
						_, _ = fmt.Fprintln(os.Stdout)
					}
					_, _ = fmt.Fprintf(os.Stdout, "-- %s\n", args[i])
					printCompiled(os.Stdout, q)
				}
				return nil
			}

			if len(args) > 1 {
				return fmt.Errorf("expected at most one request file, got %d (use --batch)", len(args))
			}

			var req domain.AnalyticsRequest
			switch {
			case len(args) == 1:
				if flags.used(cmd.Flags()) {
					return fmt.Errorf("request flags cannot be combined with a request file")
				}
				req, err = readRequestFile(args[0], cmd.InOrStdin())
			case flags.used(cmd.Flags()):
				req, err = flags.request(cmd.Flags())
			default:
				req, err = readRequestFile("-", cmd.InOrStdin())
			}
			if err != nil {
				return err
			}

			q, err := svc.Explain(cmd.Context(), req)
			if err != nil {
				return err
			}
			if getOutputFormat(cmd) == "json" {
				return PrintJSON(os.Stdout, q)
			}
			printCompiled(os.Stdout, q)
			return nil
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().BoolVar(&batch, "batch", false, "Compile every argument as a separate request file")
	return cmd
}

// printCompiled writes the SQL followed by a table of bound arguments.
func printCompiled(w io.Writer, q *domain.CompiledQuery) {
	_, _ = fmt.Fprintln(w, q.SQL)
	if len(q.Args) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w)
	rows := make([][]string, len(q.Args))
	for i, arg := range q.Args {
		rows[i] = []string{strconv.Itoa(i + 1), formatArg(arg), fmt.Sprintf("%T", arg)}
	}
	PrintTable(w, []string{"#", "value", "type"}, rows)
}
