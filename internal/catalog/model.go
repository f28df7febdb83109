package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultChecksumAlgorithm is used when an entry has no explicit algorithm.
const DefaultChecksumAlgorithm = "sha256"

// DefaultLanguages returns the language list applied when an entry has none.
func DefaultLanguages() []string {
	return []string{"eng"}
}

// Catalog holds feed-level metadata and the ordered entries of one feed.
type Catalog struct {
	Title        string
	PackagerName string
	AuthorName   string
	AuthorURI    string
	Entries      []Entry

	newID func() string
}

// Entry is one distributed resource. Entries are built by AddEntry and never
// modified afterwards.
type Entry struct {
	ID                string
	Title             string
	Issued            time.Time
	Updated           time.Time
	URLs              map[string]string // mimetype -> url
	Summary           string
	AuthorName        string
	AuthorURI         string
	Checksum          string
	ChecksumAlgorithm string
	FileSize          int64 // size of the download; rendered only for single-format entries
	Tags              []string
	RequiresMimetypes []string
	Image             string
	Thumbnail         string
	Languages         []string
	Rights            []string
}

// EntryOptions carries the optional fields of AddEntry. Zero values select
// the defaults:
//
//	ID                generated UUID
//	Updated           Issued
//	ChecksumAlgorithm "sha256"
//	Languages         ["eng"]
//	Tags, RequiresMimetypes, Rights   empty
type EntryOptions struct {
	ID                string
	Updated           time.Time
	Summary           string
	AuthorName        string
	AuthorURI         string
	Checksum          string
	ChecksumAlgorithm string
	FileSize          int64
	Tags              []string
	RequiresMimetypes []string
	Image             string
	Thumbnail         string
	Languages         []string
	Rights            []string
}

// Option configures a Catalog at construction time.
type Option func(*Catalog)

// WithAuthor sets the feed author.
func WithAuthor(name, uri string) Option {
	return func(c *Catalog) {
		c.AuthorName = name
		c.AuthorURI = uri
	}
}

// WithIDGenerator replaces the UUID source used for entries without an ID.
func WithIDGenerator(fn func() string) Option {
	return func(c *Catalog) {
		if fn != nil {
			c.newID = fn
		}
	}
}

// New creates an empty catalog. title and packagerName are required.
func New(title, packagerName string, opts ...Option) (*Catalog, error) {
	if strings.TrimSpace(title) == "" {
		return nil, &ConfigurationError{Field: "title", Reason: "must not be empty"}
	}
	if strings.TrimSpace(packagerName) == "" {
		return nil, &ConfigurationError{Field: "packager_name", Reason: "must not be empty"}
	}
	c := &Catalog{
		Title:        title,
		PackagerName: packagerName,
		Entries:      []Entry{},
		newID:        defaultIDGenerator,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Len returns the number of entries.
func (c *Catalog) Len() int {
	return len(c.Entries)
}

func defaultIDGenerator() string {
	return uuid.NewString()
}
