package model

import "encoding/json"

// ---- CycloneDX JSON schema subset ----
//
// Only the fields the license export reads are modelled. Unknown fields are
// ignored so documents from any 1.x spec version decode.

// CycloneDXDocument is the top level of a CycloneDX JSON BOM.
type CycloneDXDocument struct {
	BOMFormat    string                   `json:"bomFormat"`
	SpecVersion  string                   `json:"specVersion"`
	SerialNumber string                   `json:"serialNumber"`
	Metadata     Optional[CDXMetadata]    `json:"metadata"`
	Components   Optional[[]CDXComponent] `json:"components"`
}

// CDXMetadata is the BOM's own identity: the declared top-level component and
// any document-level licenses.
type CDXMetadata struct {
	Component Optional[CDXComponent] `json:"component"`
	Licenses  []CDXLicenseEntry      `json:"licenses"`
}

type CDXComponent struct {
	BOMRef   string            `json:"bom-ref"`
	Type     string            `json:"type"`
	Group    string            `json:"group"`
	Name     string            `json:"name"`
	Version  string            `json:"version"`
	PURL     string            `json:"purl"`
	CPE      string            `json:"cpe"`
	Licenses []CDXLicenseEntry `json:"licenses"`
}

// CDXLicenseEntry is one element of a "licenses" array. CycloneDX allows
// either a structured license or a free-text SPDX expression; producers
// sometimes emit both or neither.
type CDXLicenseEntry struct {
	License    Optional[CDXLicense] `json:"license"`
	Expression string               `json:"expression"`
}

type CDXLicense struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// Root returns the declared top-level component, if any.
func (d *CycloneDXDocument) Root() (CDXComponent, bool) {
	meta, ok := d.Metadata.Get()
	if !ok {
		return CDXComponent{}, false
	}
	return meta.Component.Get()
}

// ParseCycloneDX decodes a CycloneDX JSON document. The "components" array is
// the only field whose absence is fatal.
func ParseCycloneDX(data []byte) (*CycloneDXDocument, error) {
	var doc CycloneDXDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Format: FormatCycloneDX, Reason: "decoding JSON", Err: err}
	}

	if !doc.Components.IsSet() {
		return nil, missingField(FormatCycloneDX, "components")
	}

	return &doc, nil
}
