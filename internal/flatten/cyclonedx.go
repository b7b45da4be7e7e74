package flatten

import (
	"strings"

	"github.com/StinkyLord/sbom-license-exporter/internal/model"
)

// carry is the state threaded from one license entry to the next within a
// component. The last non-empty expression seen applies to every later
// license row of the same component, mirroring producers that state the
// component expression once and expect it repeated.
type carry struct {
	expression string
}

// flattenEntry consumes one license entry. It returns the carry for the next
// entry and the record this entry produces, if any.
//
//   - structured license: one record with the license's id, name and url and
//     the carried expression (including this entry's own expression)
//   - expression only: one record with empty license id and name
//   - neither: no record, carry unchanged
func flattenEntry(c carry, base model.Record, entry model.CDXLicenseEntry) (carry, model.Record, bool) {
	expression := strings.TrimSpace(entry.Expression)
	if expression != "" {
		c.expression = expression
	}

	if lic, ok := entry.License.Get(); ok {
		rec := base
		rec.LicenseID = lic.ID
		rec.LicenseName = lic.Name
		rec.LicenseURL = lic.URL
		rec.LicenseExpression = c.expression
		return c, rec, true
	}

	if expression != "" {
		rec := base
		rec.LicenseExpression = expression
		return c, rec, true
	}

	return c, model.Record{}, false
}

// flattenComponent emits the records for one component. Components without
// license entries or without a purl produce nothing.
func flattenComponent(prefix docPrefix, comp model.CDXComponent, licenses []model.CDXLicenseEntry) []model.Record {
	purl := strings.TrimSpace(comp.PURL)
	if len(licenses) == 0 || purl == "" {
		return nil
	}

	base := prefix.record()
	base.ComponentName = comp.Name
	base.Group = firstNonEmpty(comp.Group, purlNamespace(purl))
	base.Version = comp.Version
	base.PackageReference = purl
	base.AlternateReference = strings.TrimSpace(comp.CPE)

	var (
		c       carry
		records []model.Record
	)
	for _, entry := range licenses {
		var (
			rec model.Record
			ok  bool
		)
		c, rec, ok = flattenEntry(c, base, entry)
		if ok {
			records = append(records, rec)
		}
	}
	return records
}

// CycloneDX flattens a CycloneDX document in a single pass over its
// component list. Nested components are not visited.
func CycloneDX(doc *model.CycloneDXDocument, opts Options) []model.Record {
	prefix := docPrefix{namespace: doc.SerialNumber}
	root, hasRoot := doc.Root()
	if hasRoot {
		prefix.name = root.Name
		prefix.rootGroup = root.Group
		prefix.rootVersion = root.Version
	}

	var records []model.Record

	if opts.IncludeRoot && hasRoot {
		licenses := root.Licenses
		if len(licenses) == 0 {
			licenses = doc.Metadata.OrZero().Licenses
		}
		records = append(records, flattenComponent(prefix, root, licenses)...)
	}

	for _, comp := range doc.Components.OrZero() {
		records = append(records, flattenComponent(prefix, comp, comp.Licenses)...)
	}

	return records
}
