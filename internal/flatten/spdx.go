package flatten

import (
	"fmt"
	"strings"

	"github.com/StinkyLord/sbom-license-exporter/internal/license"
	"github.com/StinkyLord/sbom-license-exporter/internal/model"
)

// SPDXMode is the row policy for SPDX packages.
type SPDXMode string

const (
	// PerIdentifier emits one record per atomic identifier of the declared
	// license expression, each resolved against the extracted-license table.
	PerIdentifier SPDXMode = "per-identifier"

	// WholeExpression emits exactly one record per package carrying the
	// entire unsplit declared expression.
	WholeExpression SPDXMode = "whole-expression"
)

// ParseSPDXMode parses a mode name. The empty string selects PerIdentifier.
func ParseSPDXMode(s string) (SPDXMode, error) {
	switch SPDXMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", PerIdentifier:
		return PerIdentifier, nil
	case WholeExpression:
		return WholeExpression, nil
	default:
		return "", fmt.Errorf("unknown SPDX mode %q (supported: %s, %s)", s, PerIdentifier, WholeExpression)
	}
}

const purlRefType = "purl"

// classifyRefs picks the package reference and the alternate reference out of
// a package's externalRefs. The last purl-typed entry wins; every other
// locator is joined with a single space in encounter order.
func classifyRefs(refs []model.SPDXExternalRef) (purl, alternate string) {
	var others []string
	for _, ref := range refs {
		locator := strings.TrimSpace(ref.ReferenceLocator)
		if locator == "" {
			continue
		}
		if ref.ReferenceType == purlRefType {
			purl = locator
			continue
		}
		others = append(others, locator)
	}
	return purl, strings.Join(others, " ")
}

// SPDX flattens the package list of an SPDX document. Packages without a
// declared license produce no records.
func SPDX(doc *model.SPDXDocument, opts Options) []model.Record {
	mode := opts.SPDXMode
	if mode == "" {
		mode = PerIdentifier
	}

	prefix := docPrefix{name: doc.Name, namespace: doc.DocumentNamespace}
	table := license.NewTable(doc.ExtractedLicenses)

	var records []model.Record
	for _, pkg := range doc.Packages.OrZero() {
		declared := strings.TrimSpace(pkg.LicenseDeclared)
		if declared == "" {
			continue
		}

		purl, alternate := classifyRefs(pkg.ExternalRefs)
		base := prefix.record()
		base.ComponentName = pkg.Name
		base.Group = purlNamespace(purl)
		base.Version = pkg.VersionInfo
		base.PackageReference = purl
		base.AlternateReference = alternate
		base.LicenseExpression = declared

		switch mode {
		case WholeExpression:
			rec := base
			rec.LicenseName = table.Resolve(declared)
			records = append(records, rec)
		default:
			for _, id := range license.Split(declared) {
				rec := base
				rec.LicenseID = id
				rec.LicenseName = table.Resolve(id)
				records = append(records, rec)
			}
		}
	}
	return records
}

// LicenseRefs transcribes hasExtractedLicensingInfos verbatim, independent of
// which packages reference each entry.
func LicenseRefs(doc *model.SPDXDocument) []model.LicenseRef {
	refs := make([]model.LicenseRef, 0, len(doc.ExtractedLicenses))
	for _, info := range doc.ExtractedLicenses {
		refs = append(refs, model.LicenseRef{
			LicenseID:     info.LicenseID,
			Name:          info.Name,
			ExtractedText: info.ExtractedText,
			Comment:       info.Comment,
		})
	}
	return refs
}
