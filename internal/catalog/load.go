package catalog

import (
	"fmt"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Record is one resource as listed under the "all" key of a catalog.yml file.
type Record struct {
	Key       string   `yaml:"-"`
	Name      string   `yaml:"name"`
	Version   string   `yaml:"version"`
	URL       string   `yaml:"url"`
	Size      int64    `yaml:"size,omitempty"`
	SHA256Sum string   `yaml:"sha256sum,omitempty"`
	Type      string   `yaml:"type,omitempty"`
	Summary   string   `yaml:"summary,omitempty"`
	Author    string   `yaml:"author,omitempty"`
	AuthorURI string   `yaml:"author_uri,omitempty"`
	Tags      []string `yaml:"tags,omitempty"`
	Languages []string `yaml:"languages,omitempty"`
	Rights    []string `yaml:"rights,omitempty"`
	Image     string   `yaml:"image,omitempty"`
	Thumbnail string   `yaml:"thumbnail,omitempty"`
	Path      string   `yaml:"path,omitempty"` // local copy, used to fill in size/checksum
}

type recordFile struct {
	All yaml.Node `yaml:"all"`
}

// Load reads a records file through fs.
func Load(fs afero.Fs, path string) ([]Record, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML bytes into records, keeping the document order of the
// "all" mapping.
func Parse(data []byte) ([]Record, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return []Record{}, nil
	}
	var f recordFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing catalog YAML: %w", err)
	}
	if f.All.Kind == 0 {
		return []Record{}, nil
	}
	if f.All.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("parsing catalog YAML: line %d: \"all\" must be a mapping", f.All.Line)
	}

	records := make([]Record, 0, len(f.All.Content)/2)
	for i := 0; i+1 < len(f.All.Content); i += 2 {
		key, val := f.All.Content[i], f.All.Content[i+1]
		var r Record
		if err := val.Decode(&r); err != nil {
			return nil, fmt.Errorf("parsing record %q: %w", key.Value, err)
		}
		r.Key = key.Value
		records = append(records, r)
	}
	return records, nil
}

// RecordMimetype maps a record type to the mimetype of its download.
func RecordMimetype(kind string) string {
	switch kind {
	case "static-site":
		return "application/zip+html"
	case "zim", "kiwix":
		return "application/zim"
	default:
		return "application/unknown"
	}
}

// minIssuedYear rejects dateparse results for strings such as "1.2.3",
// which it reads as a time of day in year 0.
const minIssuedYear = 1970

var strictLayouts = []string{time.DateOnly, time.RFC3339, time.DateTime}

// ParseTime parses a record version string such as "2016-05-01" or
// "2016-05-01T10:00:00Z". Values without a zone are taken as UTC.
func ParseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, invalid("issued", "empty date")
	}
	for _, layout := range strictLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return time.Time{}, invalid("issued", "cannot parse %q: %v", s, err)
	}
	if t.Year() < minIssuedYear {
		return time.Time{}, invalid("issued", "%q is not a date (parsed as year %d)", s, t.Year())
	}
	return t, nil
}

// AddRecords appends one entry per record, in order.
func (c *Catalog) AddRecords(records []Record) error {
	for _, r := range records {
		issued, err := ParseTime(r.Version)
		if err != nil {
			return fmt.Errorf("record %q: %w", r.Key, err)
		}
		opts := EntryOptions{
			ID:                r.Key,
			Summary:           r.Summary,
			AuthorName:        r.Author,
			AuthorURI:         r.AuthorURI,
			Checksum:          r.SHA256Sum,
			ChecksumAlgorithm: DefaultChecksumAlgorithm,
			FileSize:          r.Size,
			Tags:              r.Tags,
			Image:             r.Image,
			Thumbnail:         r.Thumbnail,
			Languages:         r.Languages,
			Rights:            r.Rights,
		}
		urls := map[string]string{RecordMimetype(r.Type): r.URL}
		if err := c.AddEntry(r.Name, issued, urls, opts); err != nil {
			return fmt.Errorf("record %q: %w", r.Key, err)
		}
	}
	return nil
}
