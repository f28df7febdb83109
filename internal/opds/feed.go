// Package opds renders a catalog as an OPDS 1.2 acquisition feed.
// OPDS (Open Publication Distribution System) is a syndication format for
// electronic publications based on Atom (RFC 4287).
package opds

import "encoding/xml"

// Namespaces
const (
	NamespaceAtom = "http://www.w3.org/2005/Atom"
	NamespaceDC   = "http://purl.org/dc/terms/"
	NamespaceOPDS = "http://opds-spec.org/2010/catalog"
)

// Media types
const (
	TypeNavigation  = "application/atom+xml;profile=opds-catalog;kind=navigation"
	TypeAcquisition = "application/atom+xml;profile=opds-catalog;kind=acquisition"
)

// Link relations
const (
	RelSelf            = "self"
	RelStart           = "start"
	RelAcquisitionOpen = "http://opds-spec.org/acquisition/open-access"
	RelImage           = "http://opds-spec.org/image"
	RelImageThumbnail  = "http://opds-spec.org/image/thumbnail"
)

type feed struct {
	XMLName   xml.Name   `xml:"feed"`
	Xmlns     string     `xml:"xmlns,attr"`
	XmlnsDC   string     `xml:"xmlns:dc,attr"`
	XmlnsOPDS string     `xml:"xmlns:opds,attr"`
	ID        string     `xml:"id"`
	Title     string     `xml:"title"`
	Updated   string     `xml:"updated"`
	Author    *person    `xml:"author,omitempty"`
	Generator *generator `xml:"generator,omitempty"`
	Links     []link     `xml:"link"`
	Entries   []entry    `xml:"entry"`
}

type entry struct {
	Title      string     `xml:"title"`
	ID         string     `xml:"id"`
	Updated    string     `xml:"updated"`
	Published  string     `xml:"published"`
	Issued     string     `xml:"dc:issued"`
	Author     *person    `xml:"author,omitempty"`
	Summary    *text      `xml:"summary,omitempty"`
	Rights     []string   `xml:"rights,omitempty"`
	Languages  []string   `xml:"dc:language,omitempty"`
	Identifier string     `xml:"dc:identifier,omitempty"`
	Requires   []string   `xml:"dc:requires,omitempty"`
	Categories []category `xml:"category,omitempty"`
	Links      []link     `xml:"link"`
}

type person struct {
	Name string `xml:"name"`
	URI  string `xml:"uri,omitempty"`
}

type generator struct {
	Name string `xml:",chardata"`
}

type text struct {
	Type  string `xml:"type,attr"`
	Value string `xml:",chardata"`
}

type category struct {
	Term  string `xml:"term,attr"`
	Label string `xml:"label,attr,omitempty"`
}

type link struct {
	Rel    string `xml:"rel,attr"`
	Href   string `xml:"href,attr"`
	Type   string `xml:"type,attr,omitempty"`
	Length int64  `xml:"length,attr,omitempty"`
}
