// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package oai builds PMC OAI-PMH request URLs and inspects the protocol
// envelope of their responses.
package oai

import (
	"strings"

	"github.com/pdiddy/pubmed-search/pkg/types"
)

// BaseURL is the PMC OAI-PMH endpoint with the ListRecords verb selected.
const BaseURL = "https://www.ncbi.nlm.nih.gov/pmc/oai/oai.cgi?verb=ListRecords"

// BuildURL appends each present parameter to BaseURL in the fixed order
// from, until, metadataPrefix, set. Values are not URL-encoded; the
// callers pass ISO dates and short identifiers.
func BuildURL(params types.QueryParameters) string {
	var b strings.Builder
	b.WriteString(BaseURL)

	maybeAdd := func(k, v string) {
		if v != "" {
			b.WriteString("&")
			b.WriteString(k)
			b.WriteString("=")
			b.WriteString(v)
		}
	}

	maybeAdd("from", params.From)
	maybeAdd("until", params.Until)
	maybeAdd("metadataPrefix", params.MetadataPrefix)
	maybeAdd("set", params.Set)
	return b.String()
}
