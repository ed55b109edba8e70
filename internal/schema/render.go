package schema

import (
	"fmt"
	"strings"
)

// Render serializes a Summary into the line-oriented textual context shared
// by all three generation payloads. The format is fixed: every payload must
// see an identical view of the schema, so this is rendered once per run and
// reused verbatim.
func Render(resourceType string, summary *Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are generating Terraform code for resource %s.\n", resourceType)
	b.WriteString("Arguments:\n")
	for _, arg := range summary.Arguments {
		fmt.Fprintf(&b, "- %s (%s)\n", arg.Name, requiredTag(arg.Required))
	}
	b.WriteString("\nNested Block Tree:\n")
	b.WriteString(strings.Join(renderBlocks(summary.BlockTree, 0), "\n"))
	return b.String()
}

func renderBlocks(blocks []BlockNode, indent int) []string {
	var lines []string
	for _, block := range blocks {
		lines = append(lines, fmt.Sprintf("%s- %s (min_items=%d)",
			strings.Repeat("  ", indent), block.Name, block.MinItems))
		for _, attr := range block.Attributes {
			lines = append(lines, fmt.Sprintf("%s- %s (%s)",
				strings.Repeat("  ", indent+1), attr.Name, requiredTag(attr.Required)))
		}
		if len(block.Blocks) > 0 {
			lines = append(lines, renderBlocks(block.Blocks, indent+1)...)
		}
	}
	return lines
}

func requiredTag(required bool) string {
	if required {
		return "required"
	}
	return "optional"
}
