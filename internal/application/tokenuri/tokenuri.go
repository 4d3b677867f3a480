// Package tokenuri builds self-contained certificate metadata: an SVG
// certificate image and a base64 JSON metadata document, both as data URIs.
// Used when an issuance request supplies no external metadata locator.
package tokenuri

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"html"
)

// CertificateData are the display attributes rendered onto the certificate.
type CertificateData struct {
	Name   string
	Course string
	Date   string
	Issuer string
	ID     string
}

type metadataDocument struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Image       string      `json:"image"`
	Attributes  []attribute `json:"attributes"`
}

type attribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

// SVG renders the certificate image. Field values are escaped so student
// input cannot break out of the markup.
func SVG(d CertificateData) string {
	name := html.EscapeString(d.Name)
	course := html.EscapeString(d.Course)
	date := html.EscapeString(d.Date)
	issuer := html.EscapeString(d.Issuer)
	id := html.EscapeString(d.ID)

	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="800" height="600" viewBox="0 0 800 600">
  <defs>
    <linearGradient id="grad1" x1="0%%" y1="0%%" x2="100%%" y2="100%%">
      <stop offset="0%%" style="stop-color:#1a1a2e;stop-opacity:1"/>
      <stop offset="100%%" style="stop-color:#16213e;stop-opacity:1"/>
    </linearGradient>
    <pattern id="grid" width="40" height="40" patternUnits="userSpaceOnUse">
      <path d="M 40 0 L 0 0 0 40" fill="none" stroke="rgba(255,255,255,0.05)" stroke-width="1"/>
    </pattern>
  </defs>
  <rect width="100%%" height="100%%" fill="url(#grad1)"/>
  <rect width="100%%" height="100%%" fill="url(#grid)"/>
  <rect x="20" y="20" width="760" height="560" rx="15" ry="15" fill="none" stroke="#4cc9f0" stroke-width="2" stroke-dasharray="10 5"/>
  <text x="400" y="100" font-family="Arial, sans-serif" font-size="40" font-weight="bold" fill="#4cc9f0" text-anchor="middle" letter-spacing="2">CERTIFICATE OF COMPLETION</text>
  <circle cx="400" cy="180" r="40" fill="rgba(76, 201, 240, 0.1)" stroke="#4cc9f0" stroke-width="2"/>
  <text x="400" y="260" font-family="Arial, sans-serif" font-size="18" fill="#a0a0a0" text-anchor="middle">This certifies that</text>
  <text x="400" y="310" font-family="Arial, sans-serif" font-size="48" font-weight="bold" fill="#ffffff" text-anchor="middle">%s</text>
  <text x="400" y="360" font-family="Arial, sans-serif" font-size="18" fill="#a0a0a0" text-anchor="middle">has successfully completed the course</text>
  <text x="400" y="410" font-family="Arial, sans-serif" font-size="32" font-weight="bold" fill="#4cc9f0" text-anchor="middle">%s</text>
  <line x1="200" y1="480" x2="600" y2="480" stroke="#4cc9f0" stroke-width="1" stroke-opacity="0.3"/>
  <text x="250" y="520" font-family="Arial, sans-serif" font-size="16" fill="#a0a0a0" text-anchor="middle">Date Issued</text>
  <text x="250" y="545" font-family="Arial, sans-serif" font-size="18" fill="#ffffff" text-anchor="middle">%s</text>
  <text x="550" y="520" font-family="Arial, sans-serif" font-size="16" fill="#a0a0a0" text-anchor="middle">Issuer</text>
  <text x="550" y="545" font-family="Arial, sans-serif" font-size="18" fill="#ffffff" text-anchor="middle">%s</text>
  <text x="400" y="580" font-family="monospace" font-size="12" fill="#505050" text-anchor="middle">ID: %s</text>
</svg>`, name, course, date, issuer, id)
}

// ImageURI returns the SVG as a base64 data URI.
func ImageURI(d CertificateData) string {
	svg := SVG(d)
	return "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))
}

// TokenURI builds the inline metadata document for a certificate and returns
// it as a data:application/json;base64 locator.
func TokenURI(d CertificateData) (string, error) {
	doc := metadataDocument{
		Name:        fmt.Sprintf("Certificate: %s", d.Course),
		Description: fmt.Sprintf("Certificate awarded to %s for completing %s.", d.Name, d.Course),
		Image:       ImageURI(d),
		Attributes: []attribute{
			{TraitType: "Student Name", Value: d.Name},
			{TraitType: "Course", Value: d.Course},
			{TraitType: "Date", Value: d.Date},
			{TraitType: "Issuer", Value: d.Issuer},
			{TraitType: "ID", Value: d.ID},
		},
	}
	b, err := json.Marshal(doc)
	if err != nil {
		return "", err
	}
	return "data:application/json;base64," + base64.StdEncoding.EncodeToString(b), nil
}
