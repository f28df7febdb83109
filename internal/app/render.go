package app

import (
	"fmt"

	"github.com/blackwell-systems/opdsgen/internal/catalog"
	"github.com/blackwell-systems/opdsgen/internal/config"
	"github.com/blackwell-systems/opdsgen/internal/opds"
	"github.com/blackwell-systems/opdsgen/internal/util"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type renderFlags struct {
	input      string
	title      string
	url        string
	rootURL    string
	packager   string
	authorName string
	authorURI  string
	output     string
	filter     catalog.Filter
}

func (rf *renderFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&rf.input, "input", "", "Location of the yaml input file (default: catalog.yml)")
	f.StringVar(&rf.title, "title", "", "Title of the OPDS feed")
	f.StringVar(&rf.url, "url", "", "The URL where the catalog will be served at")
	f.StringVar(&rf.rootURL, "root-url", "", "URL of the root catalog (default: --url)")
	f.StringVar(&rf.packager, "packager", "", "Name of the entity generating the feed")
	f.StringVar(&rf.authorName, "author-name", "", "Feed author name")
	f.StringVar(&rf.authorURI, "author-uri", "", "Feed author URI")
	f.StringVarP(&rf.output, "output", "o", "", "Write the feed to a file instead of stdout")
	f.StringVar(&rf.filter.Tag, "tag", "", "Only include records with this tag")
	f.StringVar(&rf.filter.Type, "type", "", "Only include records of this type (zim, static-site, ...)")
	f.StringVar(&rf.filter.Search, "search", "", "Only include records whose name, summary or tags match")
}

// resolve layers flags over the loaded config.
func (rf renderFlags) resolve(cmd *cobra.Command) renderFlags {
	out := rf
	feed := cfg.Feed
	pick := func(name, flagVal, cfgVal string) string {
		if cmd.Flags().Changed(name) {
			return flagVal
		}
		return cfgVal
	}
	out.input = pick("input", rf.input, feed.Input)
	out.title = pick("title", rf.title, feed.Title)
	out.url = pick("url", rf.url, feed.URL)
	eff := config.FeedConfig{URL: out.url, RootURL: pick("root-url", rf.rootURL, feed.RootURL)}
	out.rootURL = eff.EffectiveRootURL()
	out.packager = pick("packager", rf.packager, feed.Packager)
	out.authorName = pick("author-name", rf.authorName, feed.AuthorName)
	out.authorURI = pick("author-uri", rf.authorURI, feed.AuthorURI)
	return out
}

func runRender(cmd *cobra.Command, rf renderFlags) error {
	rf = rf.resolve(cmd)

	records, err := catalog.Load(appFs, rf.input)
	if err != nil {
		return err
	}
	log.Debugf("loaded %d records from %s", len(records), rf.input)

	if !rf.filter.IsZero() {
		records = rf.filter.Apply(records)
		log.Debugf("%d records match filter", len(records))
	}
	if len(records) == 0 {
		warn("No records in %s; the feed will have no entries.", rf.input)
	}

	if err := fillFromLocalFiles(appFs, records); err != nil {
		return err
	}

	cat, err := catalog.New(rf.title, rf.packager, catalog.WithAuthor(rf.authorName, rf.authorURI))
	if err != nil {
		return err
	}
	if err := cat.AddRecords(records); err != nil {
		return err
	}

	data, err := opds.Marshal(cat, rf.url, opds.Options{RootURL: rf.rootURL})
	if err != nil {
		return err
	}

	if rf.output == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := util.WriteFileAtomic(rf.output, data); err != nil {
		return fmt.Errorf("writing feed: %w", err)
	}
	ok("Wrote %s (%d entries)", rf.output, cat.Len())
	return nil
}

// fillFromLocalFiles computes size and sha256 for records that point at a
// local copy but leave those fields empty, and verifies the sha256 of those
// that declare one.
func fillFromLocalFiles(fs afero.Fs, records []catalog.Record) error {
	for i := range records {
		r := &records[i]
		if r.Path == "" {
			continue
		}
		if r.Size == 0 {
			size, err := util.FileSize(fs, r.Path)
			if err != nil {
				return fmt.Errorf("record %q: %w", r.Key, err)
			}
			r.Size = size
		}
		if r.SHA256Sum != "" {
			if err := util.VerifyFile(fs, r.Path, r.SHA256Sum); err != nil {
				return fmt.Errorf("record %q: %s: %w", r.Key, r.Path, err)
			}
			continue
		}
		log.Debugf("hashing %s", r.Path)
		sum, err := util.SHA256File(fs, r.Path)
		if err != nil {
			return fmt.Errorf("record %q: hashing %s: %w", r.Key, r.Path, err)
		}
		r.SHA256Sum = sum
	}
	return nil
}
