package cli

import (
	"bufio"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/pkordes/farm-logbook/backend/internal/domain"
	"github.com/pkordes/farm-logbook/backend/internal/service"
)

// NewTypeaheadCommand creates the typeahead command.
func NewTypeaheadCommand(rootOpts *RootOptions) *cobra.Command {
	var category string

	cmd := &cobra.Command{
		Use:   "typeahead [kind]",
		Short: "Live search over keystroke buffers read from stdin",
		Long: `Read one search-box state per line from stdin and print suggestions.

Each line replaces the previous one, as if typed into a search box. Results
for a line that has been superseded by a later one are never printed. With
no kind, every collection is searched.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var kind domain.Kind
			if len(args) == 1 && args[0] != service.TypeAll {
				k, err := domain.ParseKind(args[0])
				if err != nil {
					return WrapExitError(ExitCommandError, "invalid kind", err)
				}
				kind = k
			}

			a, err := rootOpts.open(cmd)
			if err != nil {
				return err
			}
			defer a.Close()

			out := rootOpts.formatter(cmd)
			var mu sync.Mutex
			var writeErr error
			if out.Format == "csv" {
				writeErr = out.CSV(append([]string{"seq", "query"}, suggestionCSVHeaders...), nil)
			}
			onResult := func(r service.Result) {
				mu.Lock()
				defer mu.Unlock()
				if writeErr == nil {
					writeErr = writeLive(out, r)
				}
			}

			live, err := a.LiveSearch(kind, onResult)
			if err != nil {
				return err
			}

			scanner := bufio.NewScanner(cmd.InOrStdin())
			for scanner.Scan() {
				live.Update(service.Request{Query: strings.TrimRight(scanner.Text(), "\r"), Category: category})
			}
			live.Wait()
			live.Close()

			if err := scanner.Err(); err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			return writeErr
		},
	}

	cmd.Flags().StringVarP(&category, "category", "c", "", "only equipment in this category (all-collection search only)")

	return cmd
}

// liveOutput is one JSON line of typeahead output.
type liveOutput struct {
	Seq         uint64              `json:"seq"`
	Query       string              `json:"query"`
	Suggestions []domain.Suggestion `json:"suggestions"`
	Error       string              `json:"error,omitempty"`
}

func writeLive(out *OutputFormatter, r service.Result) error {
	switch out.Format {
	case "json":
		o := liveOutput{Seq: r.Seq, Query: r.Request.Query, Suggestions: nonNil(r.Suggestions)}
		if r.Err != nil {
			o.Error = r.Err.Error()
		}
		return out.JSONLine(o)
	case "csv":
		records := make([][]string, 0, len(r.Suggestions))
		for _, s := range r.Suggestions {
			records = append(records, append([]string{itoa(int(r.Seq)), r.Request.Query}, suggestionRecord(s)...))
		}
		return out.CSVRows(records)
	}

	if err := out.Line("[%d] %q: %d suggestion(s)", r.Seq, r.Request.Query, len(r.Suggestions)); err != nil {
		return err
	}
	for _, s := range r.Suggestions {
		if err := out.Line("  %s", suggestionLine(s)); err != nil {
			return err
		}
	}
	return nil
}
