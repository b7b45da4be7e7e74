package model

import "encoding/json"

// ---- SPDX 2.x JSON schema subset ----

// SPDXDocument is the top level of an SPDX JSON document.
type SPDXDocument struct {
	SPDXVersion       string                  `json:"spdxVersion"`
	SPDXID            string                  `json:"SPDXID"`
	Name              string                  `json:"name"`
	DocumentNamespace string                  `json:"documentNamespace"`
	Packages          Optional[[]SPDXPackage] `json:"packages"`
	ExtractedLicenses []SPDXExtractedLicense  `json:"hasExtractedLicensingInfos"`
}

type SPDXPackage struct {
	SPDXID           string            `json:"SPDXID"`
	Name             string            `json:"name"`
	VersionInfo      string            `json:"versionInfo"`
	LicenseDeclared  string            `json:"licenseDeclared"`
	LicenseConcluded string            `json:"licenseConcluded"`
	ExternalRefs     []SPDXExternalRef `json:"externalRefs"`
}

// SPDXExternalRef locates a package outside the document (purl, cpe23Type, ...).
type SPDXExternalRef struct {
	ReferenceCategory string `json:"referenceCategory"`
	ReferenceType     string `json:"referenceType"`
	ReferenceLocator  string `json:"referenceLocator"`
}

// SPDXExtractedLicense is one entry of hasExtractedLicensingInfos: a license
// that is not on the SPDX list, keyed by a LicenseRef-style identifier.
type SPDXExtractedLicense struct {
	LicenseID     string   `json:"licenseId"`
	Name          string   `json:"name"`
	ExtractedText string   `json:"extractedText"`
	Comment       string   `json:"comment"`
	SeeAlsos      []string `json:"seeAlsos"`
}

// ParseSPDX decodes an SPDX JSON document. The "packages" array is the only
// field whose absence is fatal.
func ParseSPDX(data []byte) (*SPDXDocument, error) {
	var doc SPDXDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Format: FormatSPDX, Reason: "decoding JSON", Err: err}
	}

	if !doc.Packages.IsSet() {
		return nil, missingField(FormatSPDX, "packages")
	}

	return &doc, nil
}
