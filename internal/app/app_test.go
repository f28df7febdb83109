package app

import (
	"bytes"
	"encoding/xml"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/blackwell-systems/opdsgen/internal/catalog"
	"github.com/blackwell-systems/opdsgen/internal/config"
	"github.com/spf13/afero"
)

const testCatalog = `
all:
  0e5c9a3e-7f0d-4b8e-9a55-1d2c3b4a5f60:
    name: Wikipedia
    version: 2016-05-01
    url: http://mirror.example/wikipedia.zim
    size: 1024
    sha256sum: aaaa
    type: zim
    tags: [reference]
  site-docs:
    name: Docs
    version: 2017-02-03
    url: http://mirror.example/docs.zip
    type: static-site
    tags: [docs]
`

type feedDoc struct {
	Title string `xml:"title"`
	Links []struct {
		Rel  string `xml:"rel,attr"`
		Href string `xml:"href,attr"`
	} `xml:"link"`
	Entries []struct {
		ID    string `xml:"id"`
		Title string `xml:"title"`
		Links []struct {
			Type string `xml:"type,attr"`
			Href string `xml:"href,attr"`
		} `xml:"link"`
		Identifier string `xml:"http://purl.org/dc/terms/ identifier"`
	} `xml:"entry"`
}

// run executes the command tree against an in-memory input file.
func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	return runFs(t, afero.NewMemMapFs(), input, args...)
}

func runFs(t *testing.T, fs afero.Fs, input string, args ...string) (string, error) {
	t.Helper()
	if err := afero.WriteFile(fs, "catalog.yml", []byte(input), 0644); err != nil {
		t.Fatal(err)
	}
	prev := appFs
	appFs = fs
	t.Cleanup(func() { appFs = prev })

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--no-color", "--config", filepath.Join(t.TempDir(), "none.yml")}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func decode(t *testing.T, out string) feedDoc {
	t.Helper()
	var f feedDoc
	if err := xml.Unmarshal([]byte(out), &f); err != nil {
		t.Fatalf("output is not XML: %v\n%s", err, out)
	}
	return f
}

func TestRender_Stdout(t *testing.T) {
	out, err := run(t, testCatalog, "--title", "Offline", "--url", "http://mirror.example/catalog.opds")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	f := decode(t, out)
	if f.Title != "Offline" {
		t.Errorf("title = %q, want %q", f.Title, "Offline")
	}
	if len(f.Entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(f.Entries))
	}
	if f.Entries[0].Title != "Wikipedia" || f.Entries[1].Title != "Docs" {
		t.Errorf("entry order = %q, %q", f.Entries[0].Title, f.Entries[1].Title)
	}
	if f.Entries[0].ID != "urn:uuid:0e5c9a3e-7f0d-4b8e-9a55-1d2c3b4a5f60" {
		t.Errorf("entry id = %q", f.Entries[0].ID)
	}
	if f.Entries[1].ID != "site-docs" {
		t.Errorf("entry id = %q, want %q", f.Entries[1].ID, "site-docs")
	}
	if f.Entries[1].Links[0].Type != "application/zip+html" {
		t.Errorf("static-site link type = %q", f.Entries[1].Links[0].Type)
	}
	if f.Entries[0].Identifier != "urn:sha256:aaaa" {
		t.Errorf("identifier = %q", f.Entries[0].Identifier)
	}
}

func TestRender_ConfigDefaults(t *testing.T) {
	out, err := run(t, testCatalog)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	f := decode(t, out)
	if f.Title != config.DefaultTitle {
		t.Errorf("title = %q, want %q", f.Title, config.DefaultTitle)
	}
	if len(f.Links) < 2 || f.Links[0].Href != config.DefaultURL || f.Links[1].Href != config.DefaultURL {
		t.Errorf("self/start links = %+v, want %s", f.Links, config.DefaultURL)
	}
}

func TestRender_RootURL(t *testing.T) {
	out, err := run(t, testCatalog, "--root-url", "http://mirror.example/index.opds")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	f := decode(t, out)
	if f.Links[1].Rel != "start" || f.Links[1].Href != "http://mirror.example/index.opds" {
		t.Errorf("start link = %+v", f.Links[1])
	}
}

func TestRender_RootURLFollowsURLFlag(t *testing.T) {
	out, err := run(t, testCatalog, "--url", "http://mirror.example/all.opds")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	f := decode(t, out)
	if f.Links[1].Rel != "start" || f.Links[1].Href != "http://mirror.example/all.opds" {
		t.Errorf("start link = %+v, want --url", f.Links[1])
	}
}

func TestRender_Filter(t *testing.T) {
	out, err := run(t, testCatalog, "--tag", "docs")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	f := decode(t, out)
	if len(f.Entries) != 1 || f.Entries[0].Title != "Docs" {
		t.Errorf("filtered entries = %+v", f.Entries)
	}
}

func TestRender_EmptyInput(t *testing.T) {
	out, err := run(t, "")
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if f := decode(t, out); len(f.Entries) != 0 {
		t.Errorf("expected no entries, got %d", len(f.Entries))
	}
}

func TestRender_OutputFile(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "public", "catalog.opds")
	out, err := run(t, testCatalog, "--output", dst)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if strings.Contains(out, "<feed") {
		t.Error("feed written to stdout despite --output")
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("reading output: %v", err)
	}
	if f := decode(t, string(data)); len(f.Entries) != 2 {
		t.Errorf("expected 2 entries in output file, got %d", len(f.Entries))
	}
}

func TestRender_MissingInput(t *testing.T) {
	_, err := run(t, testCatalog, "--input", "nope.yml")
	if err == nil {
		t.Error("expected error for missing input, got nil")
	}
}

func TestRender_EmptyTitle(t *testing.T) {
	_, err := run(t, testCatalog, "--title", "")
	if !errors.Is(err, catalog.ErrConfiguration) {
		t.Errorf("error = %v, want ErrConfiguration", err)
	}
}

func TestRender_BadRecord(t *testing.T) {
	_, err := run(t, "all:\n  x:\n    name: X\n    version: garbage\n    url: http://ex/x\n")
	if !errors.Is(err, catalog.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
	_, err = run(t, "all:\n  x:\n    name: X\n    version: 2020-01-01\n    url: not-a-url\n")
	if !errors.Is(err, catalog.ErrValidation) {
		t.Errorf("error = %v, want ErrValidation", err)
	}
}

func TestFillFromLocalFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	const path = "/srv/hello.zim"
	if err := afero.WriteFile(fs, path, []byte("hello world"), 0644); err != nil {
		t.Fatal(err)
	}
	const want = "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	records := []catalog.Record{
		{Key: "local", Path: path},
		{Key: "explicit", Path: path, Size: 7, SHA256Sum: want},
		{Key: "remote"},
	}
	if err := fillFromLocalFiles(fs, records); err != nil {
		t.Fatalf("fillFromLocalFiles: %v", err)
	}
	if records[0].SHA256Sum != want || records[0].Size != 11 {
		t.Errorf("local record = %d/%q", records[0].Size, records[0].SHA256Sum)
	}
	if records[1].SHA256Sum != want || records[1].Size != 7 {
		t.Errorf("explicit values overwritten: %d/%q", records[1].Size, records[1].SHA256Sum)
	}
	if records[2].SHA256Sum != "" {
		t.Errorf("remote record hashed: %q", records[2].SHA256Sum)
	}
}

func TestFillFromLocalFiles_ChecksumMismatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/srv/hello.zim", []byte("hello world"), 0644); err != nil {
		t.Fatal(err)
	}
	err := fillFromLocalFiles(fs, []catalog.Record{{Key: "bad", Path: "/srv/hello.zim", SHA256Sum: "0000"}})
	if err == nil || !strings.Contains(err.Error(), "checksum mismatch") {
		t.Errorf("error = %v, want checksum mismatch", err)
	}
}

func TestFillFromLocalFiles_Missing(t *testing.T) {
	err := fillFromLocalFiles(afero.NewMemMapFs(), []catalog.Record{{Key: "gone", Path: "/no/such/file.zim"}})
	if err == nil {
		t.Error("expected error for missing local file, got nil")
	}
}

const localCatalog = `
all:
  local:
    name: Local
    version: 2016-05-01
    url: http://mirror.example/local.zim
    type: zim
    path: /srv/local.zim
`

func TestRender_LocalPath(t *testing.T) {
	fs := afero.NewMemMapFs()
	if err := afero.WriteFile(fs, "/srv/local.zim", []byte("hello world"), 0644); err != nil {
		t.Fatal(err)
	}
	out, err := runFs(t, fs, localCatalog)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	const want = "urn:sha256:b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	f := decode(t, out)
	if len(f.Entries) != 1 || f.Entries[0].Identifier != want {
		t.Errorf("entries = %+v, want identifier %s", f.Entries, want)
	}
	if !strings.Contains(out, `length="11"`) {
		t.Errorf("missing length=\"11\" in output:\n%s", out)
	}
}

func TestVersionCmd(t *testing.T) {
	SetVersion("1.2.3")
	t.Cleanup(func() { appVersion = "dev" })
	out, err := run(t, "", "version")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != "opdsgen 1.2.3" {
		t.Errorf("version output = %q", out)
	}
}

func TestConfigCmd(t *testing.T) {
	out, err := run(t, "", "config")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "title: "+config.DefaultTitle) {
		t.Errorf("config output = %q", out)
	}
}
