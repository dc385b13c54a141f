package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/aislemap/backend/internal/domain"
	"github.com/spf13/cobra"
)

var (
	quick        bool
	showProgress bool
)

var categorizeCmd = &cobra.Command{
	Use:   "categorize [items...]",
	Short: "Categorize items and print the result as JSON",
	Long: `Categorizes the given items, or one item per line from stdin when no
arguments are passed, and prints a JSON array of {product, aisle, notes}.

Example:
  aislemap categorize "2 milk" apple "paper towels"
  cat list.txt | aislemap categorize --quick`,
	RunE: runCategorize,
}

func init() {
	categorizeCmd.Flags().BoolVar(&quick, "quick", false, "skip the cache and backend; put everything in the default aisle")
	categorizeCmd.Flags().BoolVar(&showProgress, "progress", false, "print progress messages to stderr")
}

func runCategorize(cmd *cobra.Command, args []string) error {
	items := args
	if len(items) == 0 {
		var err error
		items, err = readItems(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read items: %w", err)
		}
	}

	p, err := buildPipeline(cfg, logger)
	if err != nil {
		return err
	}

	var results []domain.CategorizedItem
	if quick {
		results = p.service.CategorizeQuick(items)
	} else {
		results = p.service.CategorizeBatch(cmd.Context(), items, func(message string) {
			if showProgress {
				fmt.Fprintln(cmd.ErrOrStderr(), message)
			}
		})
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(results)
}

// readItems returns the non-blank lines of r
func readItems(r io.Reader) ([]string, error) {
	var items []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			items = append(items, line)
		}
	}
	return items, scanner.Err()
}
