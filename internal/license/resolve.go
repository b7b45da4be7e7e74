package license

import "github.com/StinkyLord/sbom-license-exporter/internal/model"

// Entry maps one extracted-license identifier to its display name.
type Entry struct {
	ID   string
	Name string
}

// Table is the lookup table built from an SPDX document's
// hasExtractedLicensingInfos. Table order breaks ties: the first entry with a
// matching identifier wins.
type Table []Entry

// NewTable builds a Table from extracted license infos, keeping their order.
func NewTable(infos []model.SPDXExtractedLicense) Table {
	t := make(Table, 0, len(infos))
	for _, info := range infos {
		t = append(t, Entry{ID: info.LicenseID, Name: info.Name})
	}
	return t
}

// Resolve returns the display name for id. Identifiers that are not in the
// table, or whose entry has no name, come back unchanged.
func (t Table) Resolve(id string) string {
	for _, e := range t {
		if e.ID != id {
			continue
		}
		if e.Name == "" {
			return id
		}
		return e.Name
	}
	return id
}

// Resolve looks up id in table. See Table.Resolve.
func Resolve(id string, table Table) string {
	return table.Resolve(id)
}
