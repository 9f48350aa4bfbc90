// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package output

import (
	"io"
	"strings"

	"github.com/pdiddy/pubmed-search/pkg/types"
)

// FormatTSV writes a header row of fieldNames and one row per record with
// title, PMID and URL. Fields are not quoted; a tab or newline inside a
// value breaks the row.
func FormatTSV(records []types.ArticleRecord, fieldNames []string, w io.Writer) error {
	if err := writeRow(w, fieldNames); err != nil {
		return err
	}
	for _, r := range records {
		if err := writeRow(w, []string{r.Title, r.PMID, r.URL}); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(w io.Writer, fields []string) error {
	_, err := io.WriteString(w, strings.Join(fields, "\t")+"\n")
	return err
}
