package types

import "time"

// QueryParameters holds the optional OAI-PMH ListRecords arguments. An empty
// field is absent and contributes nothing to the request URL.
type QueryParameters struct {
	// MetadataPrefix selects the metadata format (e.g. "pmc", "oai_dc").
	MetadataPrefix string `json:"metadata_prefix,omitempty" yaml:"metadata_prefix,omitempty"`

	// From is the start of the datestamp range, passed through verbatim.
	From string `json:"from,omitempty" yaml:"from,omitempty"`

	// Until is the end of the datestamp range, passed through verbatim.
	Until string `json:"until,omitempty" yaml:"until,omitempty"`

	// Set restricts the harvest to one record set (e.g. "bmj").
	Set string `json:"set,omitempty" yaml:"set,omitempty"`
}

// IsEmpty reports whether no parameter is present.
func (q QueryParameters) IsEmpty() bool {
	return q.MetadataPrefix == "" && q.From == "" && q.Until == "" && q.Set == ""
}

// HTTPConfig holds settings for the single request made per run.
type HTTPConfig struct {
	// Timeout bounds the whole request (default 10s).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with the request
	// (e.g. "pubmed-search/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`
}

// OutputFormat selects the file-mode serialization.
type OutputFormat string

const (
	FormatTSV  OutputFormat = "tsv"
	FormatJSON OutputFormat = "json"
	FormatYAML OutputFormat = "yaml"
)

// OutputConfig selects where and how records are written. An empty Path
// means console mode.
type OutputConfig struct {
	// Path is the destination file; "" prints to the console.
	Path string `json:"path,omitempty" yaml:"path,omitempty"`

	// Format applies to file mode only (default tsv).
	Format OutputFormat `json:"format" yaml:"format"`
}

// ArchiveType identifies the archive backend.
type ArchiveType string

const (
	ArchiveSQLite ArchiveType = "sqlite"
	ArchiveBBolt  ArchiveType = "bbolt"
)

// ArchiveConfig selects the optional local harvest archive. An empty Path
// disables archiving.
type ArchiveConfig struct {
	Type ArchiveType `json:"type" yaml:"type"`
	Path string      `json:"path,omitempty" yaml:"path,omitempty"`
}

// Config is the complete run configuration. It is built once from flags,
// environment and config file, then passed by value.
type Config struct {
	Query QueryParameters `json:"query" yaml:"query"`

	Output OutputConfig `json:"output" yaml:"output"`

	// InputPath, when set, is a saved OAI response read instead of fetching.
	InputPath string `json:"input_path,omitempty" yaml:"input_path,omitempty"`

	HTTP HTTPConfig `json:"http" yaml:"http"`

	Archive ArchiveConfig `json:"archive" yaml:"archive"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level" yaml:"log_level"`
}
