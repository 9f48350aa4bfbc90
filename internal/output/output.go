// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package output renders ArticleRecords to a file or to the console.
// File formats carry title, PMID and URL only; the abstract is shown on
// the console and kept in the archive, never written to an output file.
package output

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/pubmed-search/pkg/types"
)

// FieldNames is the file-mode header.
var FieldNames = []string{"title", "pmid", "url"}

// ErrUnknownFormat is returned for a file format other than tsv, json or yaml.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat maps a flag value to an OutputFormat. "" selects tsv.
func ParseFormat(s string) (types.OutputFormat, error) {
	switch types.OutputFormat(s) {
	case "", types.FormatTSV:
		return types.FormatTSV, nil
	case types.FormatJSON:
		return types.FormatJSON, nil
	case types.FormatYAML:
		return types.FormatYAML, nil
	}
	return "", fmt.Errorf("%w %q (want tsv, json or yaml)", ErrUnknownFormat, s)
}

// Write sends records to cfg.Path in cfg.Format, or to console when
// cfg.Path is empty. fieldNames heads the tsv output.
func Write(records []types.ArticleRecord, fieldNames []string, cfg types.OutputConfig, console io.Writer) error {
	if cfg.Path == "" {
		return FormatConsole(records, console)
	}
	format, err := ParseFormat(string(cfg.Format))
	if err != nil {
		return err
	}
	return writeFile(cfg.Path, func(w io.Writer) error {
		switch format {
		case types.FormatJSON:
			return FormatJSON(records, w)
		case types.FormatYAML:
			return FormatCSL(records, w)
		default:
			return FormatTSV(records, fieldNames, w)
		}
	})
}

// writeFile creates path and closes it on every exit path. A failed close
// is reported when the write itself succeeded.
func writeFile(path string, write func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output file: %w", cerr)
		}
	}()

	bw := bufio.NewWriter(f)
	if err := write(bw); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
