package taskreg

import (
	"fmt"
	"strings"
)

const (
	listingColumnWidthConstant      = 22
	listingRowTemplateConstant      = "%-*s %s\n"
	listingHeaderLineConstant       = "Available tasks:"
	listingTruncationSuffixConstant = "…"
)

// RenderListing formats documented tasks into two aligned columns. Task names
// longer than the column width are truncated so descriptions stay aligned.
func RenderListing(summaries []TaskSummary) string {
	if len(summaries) == 0 {
		return ""
	}

	builder := &strings.Builder{}
	builder.WriteString(listingHeaderLineConstant)
	builder.WriteString("\n")
	for _, summary := range summaries {
		displayName := summary.Name
		if len(displayName) > listingColumnWidthConstant {
			displayName = displayName[:listingColumnWidthConstant-1] + listingTruncationSuffixConstant
		}
		fmt.Fprintf(builder, listingRowTemplateConstant, listingColumnWidthConstant, displayName, summary.Description)
	}
	return builder.String()
}
