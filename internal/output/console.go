// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/pubmed-search/pkg/types"
)

var separator = strings.Repeat("*", 80)

// FormatConsole prints each record as a separator line followed by its
// title, PMID and abstract.
func FormatConsole(records []types.ArticleRecord, w io.Writer) error {
	for _, r := range records {
		if _, err := fmt.Fprintf(w, "%s\nTitle: %s\nPMID: %s\nAbstract: %s\n",
			separator, r.Title, r.PMID, r.Abstract); err != nil {
			return err
		}
	}
	return nil
}
