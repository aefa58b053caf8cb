package formatter

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/alexanderramin/crudforge/internal/contract"
)

// FormatSync renders the refreshed resources and the replay outcome.
func FormatSync(resp *contract.SyncResponse) string {
	var b strings.Builder
	b.WriteString(Header("sync"))
	b.WriteString("\n")

	rows := make([][]string, 0, len(resp.Resources))
	for _, r := range resp.Resources {
		kind := string(r.Kind)
		if kind == "" {
			kind = "selection"
		}
		rows = append(rows, []string{r.Path, kind, strconv.Itoa(r.Items)})
	}
	if len(rows) > 0 {
		b.WriteString(RenderTable([]string{"PATH", "KIND", "ITEMS"}, rows))
		b.WriteString("\n")
	}

	summary := fmt.Sprintf("%s refreshed · %s replayed · %d pending",
		Plural(len(resp.Resources), "resource"), Plural(resp.Replayed, "write"), resp.Pending)
	if resp.Pending > 0 {
		b.WriteString(StyleYellow.Render(summary))
	} else {
		b.WriteString(StyleGreen.Render("✔ ") + summary)
	}
	b.WriteString("\n")

	for _, f := range resp.Failures {
		b.WriteString(StyleRed.Render("✖ "))
		b.WriteString(fmt.Sprintf("%s %s", f.Path, Dim(f.Error)))
		b.WriteString("\n")
	}
	return b.String()
}

// FormatEdit renders the outcome of an edit with the payload that was (or
// would be) sent.
func FormatEdit(res *contract.EditResult) string {
	var b strings.Builder
	b.WriteString(Header(fmt.Sprintf("edit %s #%s", res.Kind, res.ID)))
	b.WriteString("\n")
	b.WriteString(Dim("PUT " + res.Path))
	b.WriteString("\n\n")

	body, err := json.MarshalIndent(res.Payload, "", "  ")
	if err != nil {
		body = []byte(fmt.Sprint(res.Payload))
	}
	b.WriteString(RenderBox("", string(body)))
	b.WriteString("\n\n")

	switch {
	case res.DryRun:
		b.WriteString(Dim("Dry run: nothing was sent."))
	case res.Queued:
		b.WriteString(StyleYellow.Render("○ Backend unreachable, queued for the next sync."))
	default:
		b.WriteString(StyleGreen.Render("✔ Saved."))
	}
	b.WriteString("\n")
	return b.String()
}

// FormatSave renders the outcome of a selection save.
func FormatSave(res *contract.SaveResult) string {
	msg := fmt.Sprintf("%s for package %s", Plural(len(res.IDs), "feature"), res.PackageID)
	if res.Queued {
		return StyleYellow.Render("○ Queued "+msg+" for the next sync.") + "\n"
	}
	return StyleGreen.Render("✔ ") + "Saved " + msg + ".\n"
}
