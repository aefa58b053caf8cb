package formatter

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"
	"time"

	"github.com/alexanderramin/crudforge/internal/contract"
	"github.com/alexanderramin/crudforge/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ansiPattern matches ANSI escape sequences for stripping before golden comparison.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// stripANSI removes ANSI escape codes from a string so golden files
// are terminal-independent.
func stripANSI(s string) string {
	return ansiPattern.ReplaceAllString(s, "")
}

// goldenTest compares got against a golden file in testdata/<name>.golden.
// Set GOLDEN_UPDATE=1 to regenerate golden files.
func goldenTest(t *testing.T, name, got string) {
	t.Helper()

	goldenPath := filepath.Join("testdata", name+".golden")
	stripped := stripANSI(got)

	if os.Getenv("GOLDEN_UPDATE") == "1" {
		require.NoError(t, os.MkdirAll("testdata", 0o755))
		require.NoError(t, os.WriteFile(goldenPath, []byte(stripped), 0o644))
		t.Logf("updated golden file: %s", goldenPath)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	if os.IsNotExist(err) {
		t.Fatalf("golden file %s does not exist; run with GOLDEN_UPDATE=1 to create it", goldenPath)
	}
	require.NoError(t, err)

	assert.Equal(t, string(expected), stripped,
		"output does not match golden file %s; run with GOLDEN_UPDATE=1 to update", goldenPath)
}

func gnode(id, name string, kind domain.NodeKind, kids ...*domain.Node) *domain.Node {
	return &domain.Node{ID: id, Name: name, Kind: kind, IsActive: true, Children: kids}
}

func TestFormatTree_Golden_MenuActiveView(t *testing.T) {
	roles := gnode("22", "Roles", domain.NodeModule)
	roles.IsActive = false
	res := &contract.TreeResult{
		Kind:      domain.TreeMenu,
		View:      domain.ViewActive,
		NodeCount: 4,
		Origin:    contract.OriginBackend,
		Roots: []*domain.Node{
			gnode("2", "Settings", domain.NodeGroup,
				gnode("21", "Users", domain.NodeModule),
				roles,
			),
			gnode("1", "Home", domain.NodeGroup),
		},
	}

	goldenTest(t, "menu_tree", FormatTree(res, time.Now()))
}

func TestFormatSelection_Golden(t *testing.T) {
	invoices := gnode("10", "Invoices", domain.NodeFeature)
	invoices.Enabled = true
	export := gnode("12", "Export", domain.NodeSubfeature)
	export.Enabled = true
	res := &contract.SelectionResult{
		PackageID:  "7",
		EnabledIDs: []int64{10, 12},
		Origin:     contract.OriginBackend,
		Roots: []*domain.Node{
			gnode("1", "Billing", domain.NodeCategory,
				invoices,
				gnode("11", "Reports", domain.NodeFeature, export),
			),
			gnode("2", "Users", domain.NodeCategory,
				gnode("20", "Roles", domain.NodeFeature),
			),
		},
	}

	goldenTest(t, "package_selection", FormatSelection(res, time.Now()))
}
