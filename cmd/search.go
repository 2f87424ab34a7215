package cmd

import (
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Find employees whose tags overlap the keywords of a free-text query",
	Run: func(cmd *cobra.Command, args []string) {
		search(cmd, args)
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)
}

func search(cmd *cobra.Command, args []string) {
	ctx := cmd.Context()

	a := mustBootstrap(ctx)
	defer a.Close()

	res, err := a.search.Search(ctx, strings.Join(args, " "))
	if err != nil {
		a.fail("search failed", err, zap.String("hint", hintFor(err)))
		return
	}

	printSearch(cmd.OutOrStdout(), res)
}
