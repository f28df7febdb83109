package opds

import (
	"bytes"
	"encoding/xml"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/blackwell-systems/opdsgen/internal/catalog"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

// Options holds the feed identity. Zero values are filled in at render time:
// RootURL defaults to the feed URL, Updated to Now() and FeedID to NewID().
type Options struct {
	RootURL string
	Updated time.Time
	FeedID  string

	// Now and NewID default to the system clock and random UUIDs.
	Now   func() time.Time
	NewID func() string
}

func (o Options) withDefaults(feedURL string) Options {
	if o.RootURL == "" {
		o.RootURL = feedURL
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.NewID == nil {
		o.NewID = uuid.NewString
	}
	if o.Updated.IsZero() {
		o.Updated = o.Now()
	}
	if o.FeedID == "" {
		o.FeedID = o.NewID()
	}
	return o
}

// Render serializes cat as an OPDS acquisition feed served at feedURL.
// Entries appear in catalog order; acquisition links within an entry are
// sorted by mimetype so identical input always yields identical output.
func Render(cat *catalog.Catalog, feedURL string, opts Options) (string, error) {
	data, err := Marshal(cat, feedURL, opts)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Marshal is Render returning bytes.
func Marshal(cat *catalog.Catalog, feedURL string, opts Options) ([]byte, error) {
	if cat == nil {
		return nil, &RenderError{Entry: -1, Reason: "nil catalog"}
	}
	if !isAbsoluteURL(feedURL) {
		return nil, &RenderError{Entry: -1, Reason: "feed url " + strconv.Quote(feedURL) + " is not an absolute URL"}
	}
	if strings.TrimSpace(cat.Title) == "" {
		return nil, &RenderError{Entry: -1, Reason: "catalog title is empty"}
	}
	opts = opts.withDefaults(feedURL)
	if !isAbsoluteURL(opts.RootURL) {
		return nil, &RenderError{Entry: -1, Reason: "root url " + strconv.Quote(opts.RootURL) + " is not an absolute URL"}
	}

	f := feed{
		Xmlns:     NamespaceAtom,
		XmlnsDC:   NamespaceDC,
		XmlnsOPDS: NamespaceOPDS,
		ID:        urnID(opts.FeedID),
		Title:     cat.Title,
		Updated:   timestamp(opts.Updated),
		Author:    newPerson(cat.AuthorName, cat.AuthorURI),
		Links: []link{
			{Rel: RelSelf, Href: feedURL, Type: TypeAcquisition},
			{Rel: RelStart, Href: opts.RootURL, Type: TypeNavigation},
		},
		Entries: make([]entry, 0, len(cat.Entries)),
	}
	if cat.PackagerName != "" {
		f.Generator = &generator{Name: cat.PackagerName}
	}

	for i, e := range cat.Entries {
		if err := e.Validate(); err != nil {
			return nil, &RenderError{Entry: i, Reason: "invalid entry " + strconv.Quote(e.ID), Err: err}
		}
		f.Entries = append(f.Entries, newEntry(e))
	}

	var buf bytes.Buffer
	buf.WriteString(xml.Header)
	enc := xml.NewEncoder(&buf)
	enc.Indent("", "  ")
	if err := enc.Encode(f); err != nil {
		return nil, &RenderError{Entry: -1, Reason: "encoding XML", Err: err}
	}
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}

func newEntry(e catalog.Entry) entry {
	out := entry{
		Title:     e.Title,
		ID:        urnID(e.ID),
		Updated:   timestamp(e.Updated),
		Published: timestamp(e.Issued),
		Issued:    timestamp(e.Issued),
		Author:    newPerson(e.AuthorName, e.AuthorURI),
		Rights:    e.Rights,
		Languages: e.Languages,
		Requires:  e.RequiresMimetypes,
		Categories: lo.Map(e.Tags, func(tag string, _ int) category {
			return category{Term: tag, Label: tag}
		}),
	}
	if e.Summary != "" {
		out.Summary = &text{Type: "text", Value: e.Summary}
	}
	if e.Checksum != "" {
		out.Identifier = "urn:" + strings.ToLower(e.ChecksumAlgorithm) + ":" + e.Checksum
	}

	mimetypes := lo.Keys(e.URLs)
	sort.Strings(mimetypes)
	for _, mt := range mimetypes {
		l := link{Rel: RelAcquisitionOpen, Href: e.URLs[mt], Type: mt}
		// FileSize describes one file; with several formats it fits none of them.
		if len(mimetypes) == 1 {
			l.Length = e.FileSize
		}
		out.Links = append(out.Links, l)
	}
	if e.Image != "" {
		out.Links = append(out.Links, link{Rel: RelImage, Href: e.Image, Type: imageType(e.Image)})
	}
	if e.Thumbnail != "" {
		out.Links = append(out.Links, link{Rel: RelImageThumbnail, Href: e.Thumbnail, Type: imageType(e.Thumbnail)})
	}
	return out
}

func newPerson(name, uri string) *person {
	if name == "" && uri == "" {
		return nil
	}
	return &person{Name: name, URI: uri}
}

// urnID prefixes bare UUIDs with urn:uuid: and leaves other ids untouched.
func urnID(id string) string {
	if strings.HasPrefix(strings.ToLower(id), "urn:") {
		return id
	}
	if u, err := uuid.Parse(id); err == nil {
		return u.URN()
	}
	return id
}

func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

// imageType guesses from the path of ref so query strings do not hide the
// extension.
func imageType(ref string) string {
	if u, err := url.Parse(ref); err == nil && u.Path != "" {
		return GuessImageMimetype(u.Path)
	}
	return GuessImageMimetype(ref)
}

func isAbsoluteURL(s string) bool {
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && (u.Host != "" || u.Opaque != "" || u.Path != "")
}
