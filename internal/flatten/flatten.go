// Package flatten turns parsed SBOM documents into flat license records,
// one row per license per component.
package flatten

import (
	"strings"

	packageurl "github.com/package-url/packageurl-go"

	"github.com/StinkyLord/sbom-license-exporter/internal/model"
)

// Options selects the flattening policies that differ between exporter tools.
type Options struct {
	// SPDXMode chooses between one row per split identifier and one row per
	// package carrying the whole expression. Empty means PerIdentifier.
	SPDXMode SPDXMode

	// IncludeRoot flattens the CycloneDX metadata component as the first
	// component of the document.
	IncludeRoot bool
}

// docPrefix holds the document-level columns repeated on every record.
type docPrefix struct {
	name        string
	namespace   string
	rootGroup   string
	rootVersion string
}

func (p docPrefix) record() model.Record {
	return model.Record{
		DocumentName: p.name,
		Namespace:    p.namespace,
		RootGroup:    p.rootGroup,
		RootVersion:  p.rootVersion,
	}
}

// purlNamespace returns the namespace segment of a package URL, or "" when
// the purl is absent or malformed.
func purlNamespace(purl string) string {
	if purl == "" {
		return ""
	}
	p, err := packageurl.FromString(purl)
	if err != nil {
		return ""
	}
	return p.Namespace
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
