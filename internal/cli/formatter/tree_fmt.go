package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/crudforge/internal/contract"
	"github.com/alexanderramin/crudforge/internal/tree"
)

// FormatTree renders a tree result with a summary line and the node tree.
func FormatTree(res *contract.TreeResult, now time.Time) string {
	var b strings.Builder
	b.WriteString(Header(string(res.Kind) + " tree"))
	b.WriteString("\n")

	meta := []string{}
	if res.ScopeID != "" {
		meta = append(meta, "scope "+res.ScopeID)
	}
	meta = append(meta,
		Plural(res.NodeCount, "node"),
		string(res.View)+" view",
		originText(res.Origin, res.FetchedAt, now),
	)
	b.WriteString(Dim(strings.Join(meta, " · ")))
	b.WriteString("\n\n")

	if len(res.Roots) == 0 {
		b.WriteString(Dim("No nodes."))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(RenderTree(NodeItems(res.Roots, false)))
	return b.String()
}

// FormatSelection renders a package's feature tree with enabled marks.
func FormatSelection(res *contract.SelectionResult, now time.Time) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("package %s features", res.PackageID)))
	b.WriteString("\n")

	total := tree.Count(res.Roots)
	meta := fmt.Sprintf("%d of %d enabled · %s",
		len(res.EnabledIDs), total, originText(res.Origin, time.Time{}, now))
	b.WriteString(Dim(meta))
	b.WriteString("\n\n")

	if total == 0 {
		b.WriteString(Dim("No features."))
		b.WriteString("\n")
		return b.String()
	}
	b.WriteString(RenderTree(NodeItems(res.Roots, true)))
	return b.String()
}

func originText(origin contract.Origin, fetchedAt, now time.Time) string {
	if origin != contract.OriginSnapshot {
		return "live"
	}
	if fetchedAt.IsZero() {
		return "snapshot"
	}
	return "snapshot from " + HumanTimestampFrom(fetchedAt, now)
}
