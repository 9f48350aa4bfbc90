// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"encoding/json"
	"io"

	"github.com/pdiddy/pubmed-search/pkg/types"
)

type jsonRecord struct {
	Title string `json:"title"`
	PMID  string `json:"pmid"`
	URL   string `json:"url"`
}

// FormatJSON writes records as an indented JSON array of title/pmid/url
// objects. An empty result is [].
func FormatJSON(records []types.ArticleRecord, w io.Writer) error {
	out := make([]jsonRecord, len(records))
	for i, r := range records {
		out[i] = jsonRecord{Title: r.Title, PMID: r.PMID, URL: r.URL}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
