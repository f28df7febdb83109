package config

// Config is the top-level opdsgen configuration.
type Config struct {
	Feed FeedConfig `mapstructure:"feed" yaml:"feed"`
}

// FeedConfig holds the defaults for one rendered feed. Command-line flags
// take precedence over these values.
type FeedConfig struct {
	Input      string `mapstructure:"input" yaml:"input"`
	Title      string `mapstructure:"title" yaml:"title"`
	URL        string `mapstructure:"url" yaml:"url"`
	RootURL    string `mapstructure:"root_url" yaml:"root_url,omitempty"`
	Packager   string `mapstructure:"packager" yaml:"packager"`
	AuthorName string `mapstructure:"author_name" yaml:"author_name,omitempty"`
	AuthorURI  string `mapstructure:"author_uri" yaml:"author_uri,omitempty"`
}

// EffectiveRootURL returns the root catalog URL or falls back to the feed URL.
func (f *FeedConfig) EffectiveRootURL() string {
	if f.RootURL != "" {
		return f.RootURL
	}
	return f.URL
}
