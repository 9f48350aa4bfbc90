package output

import (
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pubmed-search/pkg/types"
)

// CSLItem is a bibliographic entry in CSL (Citation Style Language) form,
// so output is consumable by Pandoc and reference managers. Only the
// fields present in file output are carried.
type CSLItem struct {
	ID    string `yaml:"id"`
	Type  string `yaml:"type"`
	Title string `yaml:"title"`
	PMID  string `yaml:"PMID,omitempty"`
	URL   string `yaml:"URL"`
}

// FormatCSL writes records as a CSL-YAML list to w.
func FormatCSL(records []types.ArticleRecord, w io.Writer) error {
	items := make([]CSLItem, len(records))
	for i, r := range records {
		items[i] = toCSLItem(r)
	}
	enc := yaml.NewEncoder(w)
	if err := enc.Encode(items); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// toCSLItem keys the item by PMID, or by URL when the PMID is missing.
func toCSLItem(r types.ArticleRecord) CSLItem {
	item := CSLItem{
		ID:    r.PMID,
		Type:  "article-journal",
		Title: r.Title,
		PMID:  r.PMID,
		URL:   r.URL,
	}
	if item.ID == "" {
		item.ID = r.URL
	}
	return item
}
