package catalog

import (
	"net/url"
	"strings"
	"time"
)

// AddEntry validates the given fields, applies the documented defaults and
// appends the resulting entry. urls maps mimetypes to absolute URLs and must
// not be empty.
func (c *Catalog) AddEntry(title string, issued time.Time, urls map[string]string, opts EntryOptions) error {
	e := Entry{
		ID:                opts.ID,
		Title:             title,
		Issued:            issued,
		Updated:           opts.Updated,
		URLs:              copyURLs(urls),
		Summary:           opts.Summary,
		AuthorName:        opts.AuthorName,
		AuthorURI:         opts.AuthorURI,
		Checksum:          opts.Checksum,
		ChecksumAlgorithm: opts.ChecksumAlgorithm,
		FileSize:          opts.FileSize,
		Tags:              copyStrings(opts.Tags),
		RequiresMimetypes: copyStrings(opts.RequiresMimetypes),
		Image:             opts.Image,
		Thumbnail:         opts.Thumbnail,
		Languages:         copyStrings(opts.Languages),
		Rights:            copyStrings(opts.Rights),
	}

	if e.Updated.IsZero() {
		e.Updated = e.Issued
	}
	if e.ChecksumAlgorithm == "" {
		e.ChecksumAlgorithm = DefaultChecksumAlgorithm
	}
	if opts.Languages == nil {
		e.Languages = DefaultLanguages()
	}

	if err := e.Validate(); err != nil {
		return err
	}

	if e.ID == "" {
		e.ID = c.generateID()
	} else if c.hasID(e.ID) {
		return invalid("id", "%q is already used by another entry", e.ID)
	}

	c.Entries = append(c.Entries, e)
	return nil
}

// Validate checks the fields every rendered entry depends on.
func (e Entry) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return invalid("title", "must not be empty")
	}
	if e.Issued.IsZero() {
		return invalid("issued", "must be a valid date/time")
	}
	if len(e.URLs) == 0 {
		return invalid("urls", "at least one mimetype/url pair is required")
	}
	for mt, u := range e.URLs {
		if strings.TrimSpace(mt) == "" {
			return invalid("urls", "empty mimetype for %q", u)
		}
		if !isAbsoluteURI(u) {
			return invalid("urls", "%q is not an absolute URL", u)
		}
	}
	if e.FileSize < 0 {
		return invalid("file_size", "must not be negative, got %d", e.FileSize)
	}
	for _, ref := range []struct{ field, value string }{
		{"image", e.Image},
		{"thumbnail", e.Thumbnail},
		{"author_uri", e.AuthorURI},
	} {
		if ref.value == "" {
			continue
		}
		if _, err := url.Parse(ref.value); err != nil {
			return invalid(ref.field, "%q is not a valid URI", ref.value)
		}
	}
	return nil
}

func (c *Catalog) generateID() string {
	if c.newID == nil {
		return defaultIDGenerator()
	}
	return c.newID()
}

func (c *Catalog) hasID(id string) bool {
	for i := range c.Entries {
		if c.Entries[i].ID == id {
			return true
		}
	}
	return false
}

func isAbsoluteURI(s string) bool {
	if strings.TrimSpace(s) != s || s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil || u.Scheme == "" {
		return false
	}
	return u.Opaque != "" || u.Host != "" || u.Path != ""
}

func copyURLs(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func copyStrings(in []string) []string {
	if in == nil {
		return []string{}
	}
	return append([]string{}, in...)
}
