package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/pkordes/farm-logbook/backend/internal/domain"
	"github.com/pkordes/farm-logbook/backend/internal/service"
)

// SearchOptions holds flags for the search command.
type SearchOptions struct {
	Type     string
	Category string
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SearchOptions{}

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search every record collection",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			query := strings.Join(args, " ")
			res, err := a.Aggregator.Search(cmd.Context(), query, opts.Type, opts.Category)
			if err != nil {
				return err
			}
			return writeSearch(rootOpts.formatter(cmd), query, res)
		},
	}

	cmd.Flags().StringVarP(&opts.Type, "type", "t", service.TypeAll, "record kind to search (all|equipment|building|location|maintenance)")
	cmd.Flags().StringVarP(&opts.Category, "category", "c", "", "only equipment in this category")

	return cmd
}

// searchOutput is the JSON output of the search command.
type searchOutput struct {
	Query      string              `json:"query"`
	Results    []domain.Suggestion `json:"results"`
	Categories []string            `json:"categories"`
}

func writeSearch(out *OutputFormatter, query string, res service.SearchResults) error {
	switch out.Format {
	case "json":
		return out.JSON(searchOutput{
			Query:      query,
			Results:    nonNil(res.Results),
			Categories: nonNil(res.Categories),
		})
	case "csv":
		records := make([][]string, 0, len(res.Results))
		for _, s := range res.Results {
			records = append(records, suggestionRecord(s))
		}
		return out.CSV(suggestionCSVHeaders, records)
	}

	if len(res.Results) == 0 {
		return out.Line("no results for %q", query)
	}
	for _, s := range res.Results {
		if err := out.Line("%s", suggestionLine(s)); err != nil {
			return err
		}
	}
	if len(res.Categories) > 0 {
		return out.Line("categories: %s", strings.Join(res.Categories, ", "))
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
