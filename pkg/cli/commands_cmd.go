package cli

import (
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// CommandEntry describes one leaf command for the commands listing.
type CommandEntry struct {
	Path    string      `json:"path"`
	Short   string      `json:"short"`
	Args    string      `json:"args,omitempty"`
	Example string      `json:"example,omitempty"`
	Flags   []FlagEntry `json:"flags,omitempty"`
}

// FlagEntry describes one local flag of a command.
type FlagEntry struct {
	Name    string `json:"name"`
	Short   string `json:"shorthand,omitempty"`
	Type    string `json:"type"`
	Default string `json:"default,omitempty"`
	Usage   string `json:"usage,omitempty"`
}

func newCommandsCmd() *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "commands",
		Short: "List every command with its flags",
		Example: `  analytics commands
  analytics commands --filter compile --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			entries := listCommands(cmd.Root(), "")
			if filter != "" {
				needle := strings.ToLower(filter)
				kept := entries[:0]
				for _, e := range entries {
					if strings.Contains(strings.ToLower(e.Path+" "+e.Short), needle) {
						kept = append(kept, e)
					}
				}
				entries = kept
			}

			if getOutputFormat(cmd) == "json" {
				return PrintJSON(os.Stdout, entries)
			}
			rows := make([][]string, len(entries))
			for i, e := range entries {
				rows[i] = []string{e.Path, e.Args, e.Short}
			}
			PrintTable(os.Stdout, []string{"command", "args", "description"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&filter, "filter", "", "Only list commands whose path or description contains this text")
	return cmd
}

// listCommands collects the leaf commands under cmd, sorted by path.
func listCommands(cmd *cobra.Command, prefix string) []CommandEntry {
	var out []CommandEntry
	for _, child := range cmd.Commands() {
		if child.Hidden || child.Name() == "help" || child.Name() == "completion" {
			continue
		}
		path := strings.TrimSpace(prefix + " " + child.Name())
		if child.HasSubCommands() {
			out = append(out, listCommands(child, path)...)
			continue
		}

		entry := CommandEntry{Path: path, Short: child.Short, Example: child.Example}
		if fields := strings.Fields(child.Use); len(fields) > 1 {
			entry.Args = strings.Join(fields[1:], " ")
		}
		child.LocalFlags().VisitAll(func(f *pflag.Flag) {
			if f.Hidden || f.Name == "help" {
				return
			}
			entry.Flags = append(entry.Flags, FlagEntry{
				Name:    f.Name,
				Short:   f.Shorthand,
				Type:    f.Value.Type(),
				Default: f.DefValue,
				Usage:   f.Usage,
			})
		})
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
