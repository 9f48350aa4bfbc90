// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for pubmed-search.
// ArticleRecord is what the extractor produces and every writer consumes;
// Config carries the settings assembled once by the CLI.
package types

// PubMedURLPrefix and PubMedURLSuffix frame the PMID in an article's
// reference URL.
const (
	PubMedURLPrefix = "https://pubmed.ncbi.nlm.nih.gov/"
	PubMedURLSuffix = "/#abstract"
)

// ArticleRecord holds the fields extracted from one article-meta element.
// Every field is a plain string; a field that was not found is "".
type ArticleRecord struct {
	// Title is the article title with tab characters replaced by spaces.
	Title string `json:"title" yaml:"title"`

	// PMID is the PubMed identifier, kept as opaque text.
	PMID string `json:"pmid" yaml:"pmid"`

	// URL is the PubMed abstract page for PMID. It is built even when PMID
	// is empty.
	URL string `json:"url" yaml:"url"`

	// Abstract is the raw text content of the abstract element, whitespace
	// included.
	Abstract string `json:"abstract" yaml:"abstract"`
}

// PubMedURL returns the reference URL for pmid.
func PubMedURL(pmid string) string {
	return PubMedURLPrefix + pmid + PubMedURLSuffix
}
