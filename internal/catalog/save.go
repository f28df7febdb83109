package catalog

import (
	"bytes"
	"fmt"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"
)

// Marshal encodes records to YAML bytes under an "all" mapping, in order.
func Marshal(records []Record) ([]byte, error) {
	all := &yaml.Node{Kind: yaml.MappingNode}
	for _, r := range records {
		var val yaml.Node
		if err := val.Encode(r); err != nil {
			return nil, fmt.Errorf("encoding record %q: %w", r.Key, err)
		}
		all.Content = append(all.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: r.Key},
			&val,
		)
	}
	doc := &yaml.Node{Kind: yaml.MappingNode, Content: []*yaml.Node{
		{Kind: yaml.ScalarNode, Tag: "!!str", Value: "all"},
		all,
	}}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, fmt.Errorf("encoding catalog: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("encoding catalog: %w", err)
	}
	return buf.Bytes(), nil
}

// Save writes the records to path through fs.
func Save(fs afero.Fs, path string, records []Record) error {
	data, err := Marshal(records)
	if err != nil {
		return err
	}
	return afero.WriteFile(fs, path, data, 0600)
}
