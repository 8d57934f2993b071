package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"scopeline/workbench/internal/printer"
	"scopeline/workbench/internal/search"
)

var (
	searchType  string
	searchLimit int
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search entities and questions in the workspace",
	Long: `Search runs a text query over the loaded workspace. With a reachable
Meilisearch the query goes there; otherwise it scans the freshly
loaded snapshot in memory.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := newRuntime()
		if err != nil {
			return err
		}
		defer rt.Close()
		if err := rt.load(cmd); err != nil {
			return err
		}

		resp := rt.search.Search(search.Query{
			ProjectID:  projectID,
			Text:       strings.Join(args, " "),
			FilterType: searchType,
			Limit:      searchLimit,
		})
		if len(resp.Results) == 0 {
			printer.Println("no results")
			return nil
		}
		for _, record := range resp.Results {
			printer.Printf("%-12s %-10s %s\n", record.Type, record.ID, record.Title)
			if record.Body != "" {
				printer.Muted("             %s", record.Body)
			}
		}
		printer.Muted("%d result(s)", resp.Total)
		return nil
	},
}

func init() {
	searchCmd.Flags().StringVar(&searchType, "type", "", "restrict to one entity type")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 20, "max results")
	rootCmd.AddCommand(searchCmd)
}
