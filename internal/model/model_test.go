package model

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// testdataDir returns the absolute path to testdata/sbom.
func testdataDir() string {
	_, file, _, _ := runtime.Caller(0)
	// file = .../internal/model/model_test.go
	root := filepath.Join(filepath.Dir(file), "..", "..")
	return filepath.Join(root, "testdata", "sbom")
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(testdataDir(), name))
	if err != nil {
		t.Fatalf("cannot read fixture %s: %v", name, err)
	}
	return data
}

// ============================================================
// Optional
// ============================================================

func TestOptional_ThreeStates(t *testing.T) {
	type holder struct {
		Value Optional[CDXLicense] `json:"value"`
	}

	tests := []struct {
		name    string
		input   string
		wantSet bool
		wantID  string
	}{
		{"absent", `{}`, false, ""},
		{"explicit null", `{"value": null}`, false, ""},
		{"present", `{"value": {"id": "MIT"}}`, true, "MIT"},
		{"present but empty", `{"value": {}}`, true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var h holder
			if err := json.Unmarshal([]byte(tt.input), &h); err != nil {
				t.Fatalf("Unmarshal(%s) error = %v", tt.input, err)
			}
			lic, ok := h.Value.Get()
			if ok != tt.wantSet {
				t.Errorf("IsSet = %v, want %v", ok, tt.wantSet)
			}
			if lic.ID != tt.wantID {
				t.Errorf("ID = %q, want %q", lic.ID, tt.wantID)
			}
			if h.Value.OrZero().ID != tt.wantID {
				t.Errorf("OrZero().ID = %q, want %q", h.Value.OrZero().ID, tt.wantID)
			}
		})
	}
}

func TestOptional_MarshalRoundTrip(t *testing.T) {
	data, err := json.Marshal(Some("x"))
	if err != nil || string(data) != `"x"` {
		t.Errorf("Marshal(Some) = %s, %v; want \"x\"", data, err)
	}

	data, err = json.Marshal(Optional[string]{})
	if err != nil || string(data) != "null" {
		t.Errorf("Marshal(unset) = %s, %v; want null", data, err)
	}
}

// ============================================================
// CycloneDX
// ============================================================

func TestParseCycloneDX_Sample(t *testing.T) {
	doc, err := ParseCycloneDX(readFixture(t, "cdx_sample.json"))
	if err != nil {
		t.Fatalf("ParseCycloneDX failed: %v", err)
	}

	if doc.SerialNumber != "urn:uuid:3e671687-395b-41f5-a30f-a58921a69b79" {
		t.Errorf("SerialNumber = %q", doc.SerialNumber)
	}

	root, ok := doc.Root()
	if !ok {
		t.Fatal("Root() not set")
	}
	if root.Name != "acme-app" || root.Group != "com.acme" || root.Version != "2.1.0" {
		t.Errorf("Root = %+v, want acme-app com.acme 2.1.0", root)
	}

	comps := doc.Components.OrZero()
	if len(comps) != 7 {
		t.Fatalf("len(components) = %d, want 7", len(comps))
	}

	bar := comps[1]
	if bar.CPE != "cpe:2.3:a:example:bar:2.0:*:*:*:*:*:*:*" {
		t.Errorf("bar.CPE = %q", bar.CPE)
	}
	if len(bar.Licenses) != 3 {
		t.Fatalf("len(bar.Licenses) = %d, want 3", len(bar.Licenses))
	}
	if bar.Licenses[0].Expression != "MIT OR Apache-2.0" {
		t.Errorf("bar.Licenses[0].Expression = %q", bar.Licenses[0].Expression)
	}
	if bar.Licenses[0].License.IsSet() {
		t.Error("bar.Licenses[0].License should be unset")
	}

	// "licenses": null and "version": null both collapse to the zero value
	nulls := comps[4]
	if nulls.Licenses != nil {
		t.Errorf("nulls.Licenses = %v, want nil", nulls.Licenses)
	}
	if nulls.Version != "" {
		t.Errorf("nulls.Version = %q, want empty", nulls.Version)
	}

	empty := comps[5]
	for i, e := range empty.Licenses {
		if e.License.IsSet() || e.Expression != "" {
			t.Errorf("empty.Licenses[%d] = %+v, want nothing set", i, e)
		}
	}
}

func TestParseCycloneDX_Errors(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantMissing bool
	}{
		{"not JSON", `{"components": [`, false},
		{"top-level array", `[]`, false},
		{"components absent", `{"bomFormat": "CycloneDX"}`, true},
		{"components null", `{"components": null}`, true},
		{"document null", `null`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCycloneDX([]byte(tt.input))
			if err == nil {
				t.Fatal("expected an error")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not a *ParseError", err)
			}
			if pe.Format != FormatCycloneDX {
				t.Errorf("Format = %q, want %q", pe.Format, FormatCycloneDX)
			}
			if got := errors.Is(err, ErrMissingField); got != tt.wantMissing {
				t.Errorf("errors.Is(ErrMissingField) = %v, want %v (err: %v)", got, tt.wantMissing, err)
			}
		})
	}
}

func TestParseCycloneDX_MinimalDocument(t *testing.T) {
	doc, err := ParseCycloneDX([]byte(`{"components": []}`))
	if err != nil {
		t.Fatalf("ParseCycloneDX failed: %v", err)
	}
	if _, ok := doc.Root(); ok {
		t.Error("Root() should be unset when metadata is absent")
	}
	if n := len(doc.Components.OrZero()); n != 0 {
		t.Errorf("len(components) = %d, want 0", n)
	}
}

// ============================================================
// SPDX
// ============================================================

func TestParseSPDX_Sample(t *testing.T) {
	doc, err := ParseSPDX(readFixture(t, "spdx_sample.json"))
	if err != nil {
		t.Fatalf("ParseSPDX failed: %v", err)
	}

	if doc.Name != "acme-sbom" {
		t.Errorf("Name = %q, want acme-sbom", doc.Name)
	}
	if doc.DocumentNamespace != "https://acme.example/spdx/acme-sbom-1" {
		t.Errorf("DocumentNamespace = %q", doc.DocumentNamespace)
	}

	pkgs := doc.Packages.OrZero()
	if len(pkgs) != 5 {
		t.Fatalf("len(packages) = %d, want 5", len(pkgs))
	}
	if pkgs[0].LicenseDeclared != "MIT OR (Apache-2.0 AND LicenseRef-Custom-1)" {
		t.Errorf("alpha.LicenseDeclared = %q", pkgs[0].LicenseDeclared)
	}
	if len(pkgs[0].ExternalRefs) != 2 {
		t.Errorf("len(alpha.ExternalRefs) = %d, want 2", len(pkgs[0].ExternalRefs))
	}
	if pkgs[4].LicenseDeclared != "" || pkgs[4].ExternalRefs != nil {
		t.Errorf("epsilon = %+v, want null fields collapsed", pkgs[4])
	}

	if len(doc.ExtractedLicenses) != 2 {
		t.Fatalf("len(hasExtractedLicensingInfos) = %d, want 2", len(doc.ExtractedLicenses))
	}
	custom := doc.ExtractedLicenses[0]
	if custom.LicenseID != "LicenseRef-Custom-1" || custom.Name != "My Custom License" {
		t.Errorf("extracted[0] = %+v", custom)
	}
	if custom.Comment != "Found in LICENSE.txt" {
		t.Errorf("extracted[0].Comment = %q", custom.Comment)
	}
}

func TestParseSPDX_Errors(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantMissing bool
	}{
		{"not JSON", `{"packages": [}`, false},
		{"packages absent", `{"name": "doc", "hasExtractedLicensingInfos": []}`, true},
		{"packages null", `{"packages": null}`, true},
		{"packages wrong type", `{"packages": "nope"}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSPDX([]byte(tt.input))
			if err == nil {
				t.Fatal("expected an error")
			}
			var pe *ParseError
			if !errors.As(err, &pe) {
				t.Fatalf("error %T is not a *ParseError", err)
			}
			if pe.Format != FormatSPDX {
				t.Errorf("Format = %q, want %q", pe.Format, FormatSPDX)
			}
			if got := errors.Is(err, ErrMissingField); got != tt.wantMissing {
				t.Errorf("errors.Is(ErrMissingField) = %v, want %v (err: %v)", got, tt.wantMissing, err)
			}
		})
	}
}

func TestParseSPDX_NoExtractedLicenses(t *testing.T) {
	doc, err := ParseSPDX([]byte(`{"packages": [{"name": "a"}], "hasExtractedLicensingInfos": null}`))
	if err != nil {
		t.Fatalf("ParseSPDX failed: %v", err)
	}
	if doc.ExtractedLicenses != nil {
		t.Errorf("ExtractedLicenses = %v, want nil", doc.ExtractedLicenses)
	}
}

// ============================================================
// Format and records
// ============================================================

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"cdx", FormatCycloneDX, false},
		{"CycloneDX", FormatCycloneDX, false},
		{"spdx", FormatSPDX, false},
		{" SPDX ", FormatSPDX, false},
		{"swid", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParseFormat(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if got != tt.expected {
				t.Errorf("ParseFormat(%q) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestRecordValuesMatchColumns(t *testing.T) {
	r := Record{
		DocumentName:       "doc",
		Namespace:          "ns",
		RootGroup:          "rg",
		RootVersion:        "rv",
		ComponentName:      "name",
		Group:              "group",
		Version:            "version",
		PackageReference:   "purl",
		AlternateReference: "alt",
		LicenseID:          "id",
		LicenseName:        "lname",
		LicenseURL:         "url",
		LicenseExpression:  "expr",
	}

	values := r.Values()
	if len(values) != len(RecordColumns) {
		t.Fatalf("len(Values) = %d, len(RecordColumns) = %d", len(values), len(RecordColumns))
	}

	// The JSON tags name the columns, so marshalling must agree with Values.
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var byColumn map[string]string
	if err := json.Unmarshal(data, &byColumn); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	for i, col := range RecordColumns {
		if byColumn[col] != values[i] {
			t.Errorf("column %q: json = %q, Values()[%d] = %q", col, byColumn[col], i, values[i])
		}
	}

	if n := len(Record{}.Values()); n != len(RecordColumns) {
		t.Errorf("empty record has %d values, want %d", n, len(RecordColumns))
	}
}

func TestLicenseRefValuesMatchColumns(t *testing.T) {
	r := LicenseRef{LicenseID: "a", Name: "b", ExtractedText: "c", Comment: "d"}
	values := r.Values()
	if len(values) != len(LicenseRefColumns) {
		t.Fatalf("len(Values) = %d, want %d", len(values), len(LicenseRefColumns))
	}
	want := []string{"a", "b", "c", "d"}
	for i := range want {
		if values[i] != want[i] {
			t.Errorf("Values()[%d] = %q, want %q", i, values[i], want[i])
		}
	}
}
