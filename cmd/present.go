package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spigell/skillmatch/internal/workflow"
)

const noneLabel = "(none)"

func joinTags(tags []string) string {
	if len(tags) == 0 {
		return noneLabel
	}
	return strings.Join(tags, ", ")
}

func printRegistration(w io.Writer, res *workflow.RegistrationResult) {
	fmt.Fprintf(w, "%s was registered.\n\n", res.Record.Name)
	fmt.Fprintf(w, "Extracted tags: %s\n\n", joinTags(res.Record.Tags))
	fmt.Fprintf(w, "Structured profile:\n%s\n", res.Record.StructuredDescription)
	printWarnings(w, res.Warnings)
}

func printSearch(w io.Writer, res *workflow.SearchResult) {
	fmt.Fprintf(w, "Search keywords: %s\n\n", joinTags(res.QueryTags))

	if res.NoMatch() {
		fmt.Fprintln(w, "No employees matched the query.")
		printWarnings(w, res.Warnings)
		return
	}

	fmt.Fprintf(w, "Matched employees: %d\n", len(res.Results))
	for i, r := range res.Results {
		fmt.Fprintf(w, "\n#%d %s (matches: %d)\n", i+1, r.Name, r.MatchCount)
		fmt.Fprintf(w, "  Matched keywords: %s\n", joinTags(r.MatchedKeywords))
		fmt.Fprintf(w, "  All tags: %s\n", joinTags(r.Tags))
		fmt.Fprintf(w, "  Profile:\n%s\n", indent(r.Description, "    "))
	}
	printWarnings(w, res.Warnings)
}

func printWarnings(w io.Writer, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	fmt.Fprintln(w)
	for _, warning := range warnings {
		fmt.Fprintf(w, "Warning: %s\n", warning)
	}
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n")
}
