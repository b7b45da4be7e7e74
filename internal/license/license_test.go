package license

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/StinkyLord/sbom-license-exporter/internal/model"
)

func TestSplit(t *testing.T) {
	tests := []struct {
		name       string
		expression string
		want       []string
	}{
		{"single identifier", "MIT", []string{"MIT"}},
		{"or", "MIT OR Apache-2.0", []string{"MIT", "Apache-2.0"}},
		{"and", "MIT AND BSD-3-Clause", []string{"MIT", "BSD-3-Clause"}},
		{"nested", "MIT OR (Apache-2.0 AND Custom-1)", []string{"MIT", "Apache-2.0", "Custom-1"}},
		{"leading group", "(A OR B) AND C", []string{"A", "B", "C"}},
		{"mixed precedence keeps order", "A AND B OR C", []string{"A", "B", "C"}},
		{"with clause stays attached", "GPL-2.0-only WITH Classpath-exception-2.0 OR MIT",
			[]string{"GPL-2.0-only WITH Classpath-exception-2.0", "MIT"}},
		{"operators are case-sensitive", "MIT or Apache-2.0", []string{"MIT or Apache-2.0"}},
		{"operator needs surrounding spaces", "LicenseRef-ORACLE", []string{"LicenseRef-ORACLE"}},
		{"surrounding whitespace trimmed", "  MIT OR  Apache-2.0  ", []string{"MIT", "Apache-2.0"}},
		{"empty tokens discarded", "MIT OR () OR Apache-2.0", []string{"MIT", "Apache-2.0"}},
		{"empty", "", nil},
		{"whitespace only", "   ", nil},
		{"parens only", "()", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Split(tt.expression)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Split(%q) mismatch (-want +got):\n%s", tt.expression, diff)
			}
		})
	}
}

// Without AND, joining the identifiers back with " OR " reproduces the
// paren-stripped expression up to whitespace.
func TestSplit_LosslessOverOr(t *testing.T) {
	expressions := []string{
		"MIT",
		"MIT OR Apache-2.0",
		"(MIT OR Apache-2.0)",
		"MIT OR (Apache-2.0 OR (BSD-2-Clause OR ISC))",
		"LicenseRef-A OR LicenseRef-B OR LicenseRef-C",
		"GPL-2.0-or-later WITH Bison-exception-2.2 OR MIT",
	}

	normalize := func(s string) string {
		return strings.Join(strings.Fields(s), " ")
	}

	for _, expr := range expressions {
		t.Run(expr, func(t *testing.T) {
			joined := strings.Join(Split(expr), orOperator)
			want := normalize(parens.Replace(expr))
			if normalize(joined) != want {
				t.Errorf("join(Split(%q)) = %q, want %q", expr, joined, want)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	table := NewTable([]model.SPDXExtractedLicense{
		{LicenseID: "Custom-1", Name: "My Custom License", ExtractedText: "text"},
		{LicenseID: "LicenseRef-NoName"},
		{LicenseID: "Custom-1", Name: "Shadowed Duplicate"},
		{LicenseID: "LicenseRef-NoName", Name: "Named Later"},
	})

	tests := []struct {
		id   string
		want string
	}{
		{"Custom-1", "My Custom License"},
		{"MIT", "MIT"},
		// first match has no name: the id is returned, later entries are not consulted
		{"LicenseRef-NoName", "LicenseRef-NoName"},
		{"custom-1", "custom-1"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			if got := Resolve(tt.id, table); got != tt.want {
				t.Errorf("Resolve(%q) = %q, want %q", tt.id, got, tt.want)
			}
		})
	}
}

func TestResolve_Idempotent(t *testing.T) {
	table := NewTable([]model.SPDXExtractedLicense{
		{LicenseID: "LicenseRef-A", Name: "License A"},
		{LicenseID: "LicenseRef-B", Name: "License B"},
	})

	for _, id := range []string{"LicenseRef-A", "LicenseRef-B", "MIT", "Unknown"} {
		once := table.Resolve(id)
		twice := table.Resolve(once)
		if once != twice {
			t.Errorf("Resolve(Resolve(%q)) = %q, want %q", id, twice, once)
		}
	}
}

func TestResolve_EmptyTable(t *testing.T) {
	if got := NewTable(nil).Resolve("LicenseRef-X"); got != "LicenseRef-X" {
		t.Errorf("Resolve on empty table = %q, want LicenseRef-X", got)
	}
	var nilTable Table
	if got := nilTable.Resolve("MIT"); got != "MIT" {
		t.Errorf("Resolve on nil table = %q, want MIT", got)
	}
}
