// Package model defines the Document Model for the two supported SBOM formats
// and the flat records the exporter produces from them.
package model

import (
	"fmt"
	"strings"
)

// Format identifies the SBOM format of an input document.
type Format string

const (
	FormatCycloneDX Format = "cdx"
	FormatSPDX      Format = "spdx"
)

// ParseFormat parses a format flag value. The format is never auto-detected.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "cdx", "cyclonedx":
		return FormatCycloneDX, nil
	case "spdx":
		return FormatSPDX, nil
	default:
		return "", fmt.Errorf("unsupported SBOM type %q (supported: cdx, spdx)", s)
	}
}

// Record is one output row: one license of one component or package.
//
// Every field is a plain string and absent values are empty strings, so the
// column set is the same no matter how sparse the input was. The first four
// fields are document-level and repeat on every row of a document.
type Record struct {
	DocumentName       string `json:"document_name"`
	Namespace          string `json:"namespace"`
	RootGroup          string `json:"root_group"`
	RootVersion        string `json:"root_version"`
	ComponentName      string `json:"component_name"`
	Group              string `json:"group"`
	Version            string `json:"version"`
	PackageReference   string `json:"package_reference"`
	AlternateReference string `json:"alternate_reference"`
	LicenseID          string `json:"license_id"`
	LicenseName        string `json:"license_name"`
	LicenseURL         string `json:"license_url"`
	LicenseExpression  string `json:"license_expression"`
}

// RecordColumns is the header row for Record tables, in Values order.
var RecordColumns = []string{
	"document_name",
	"namespace",
	"root_group",
	"root_version",
	"component_name",
	"group",
	"version",
	"package_reference",
	"alternate_reference",
	"license_id",
	"license_name",
	"license_url",
	"license_expression",
}

// Values returns the record's fields in RecordColumns order.
func (r Record) Values() []string {
	return []string{
		r.DocumentName,
		r.Namespace,
		r.RootGroup,
		r.RootVersion,
		r.ComponentName,
		r.Group,
		r.Version,
		r.PackageReference,
		r.AlternateReference,
		r.LicenseID,
		r.LicenseName,
		r.LicenseURL,
		r.LicenseExpression,
	}
}

// LicenseRef is one row of the SPDX extracted-license-info table.
type LicenseRef struct {
	LicenseID     string `json:"license_id"`
	Name          string `json:"name"`
	ExtractedText string `json:"extracted_text"`
	Comment       string `json:"comment"`
}

// LicenseRefColumns is the header row for LicenseRef tables.
var LicenseRefColumns = []string{"license_id", "name", "extracted_text", "comment"}

func (r LicenseRef) Values() []string {
	return []string{r.LicenseID, r.Name, r.ExtractedText, r.Comment}
}
