// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract pulls ArticleRecords out of a JATS/PMC XML tree.
// All element matching is by local tag name, so a record reads the same
// whether its elements carry a namespace prefix, a default namespace or
// none at all.
package extract

import (
	"fmt"
	"strings"

	"github.com/beevik/etree"

	"github.com/pdiddy/pubmed-search/pkg/types"
)

const (
	tagArticleMeta  = "article-meta"
	tagTitleGroup   = "title-group"
	tagArticleTitle = "article-title"
	tagArticleID    = "article-id"
	tagAbstract     = "abstract"

	attrPubIDType = "pub-id-type"
	pubIDTypePMID = "pmid"
)

// Parse reads a complete XML document from data. Whitespace-only
// character data is kept so abstracts come out byte for byte.
func Parse(data []byte) (*etree.Document, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("parsing XML: document has no root element")
	}
	if err := checkSingleRoot(doc); err != nil {
		return nil, fmt.Errorf("parsing XML: %w", err)
	}
	return doc, nil
}

// checkSingleRoot rejects content after the document element. Comments,
// processing instructions and whitespace may surround the root.
func checkSingleRoot(doc *etree.Document) error {
	roots := 0
	for _, tok := range doc.Child {
		switch t := tok.(type) {
		case *etree.Element:
			roots++
			if roots > 1 {
				return fmt.Errorf("junk after document element: <%s>", t.FullTag())
			}
		case *etree.CharData:
			if strings.TrimSpace(t.Data) != "" {
				return fmt.Errorf("junk after document element: text %q", truncate(strings.TrimSpace(t.Data), 20))
			}
		}
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}

// Records returns one ArticleRecord per article-meta element below root,
// in document order. root itself is not a candidate.
func Records(root *etree.Element) []types.ArticleRecord {
	if root == nil {
		return nil
	}
	var records []types.ArticleRecord
	for _, meta := range descendants(root, tagArticleMeta) {
		records = append(records, record(meta))
	}
	return records
}

func record(meta *etree.Element) types.ArticleRecord {
	var r types.ArticleRecord

	if title := articleTitle(meta); title != nil {
		r.Title = strings.ReplaceAll(title.Text(), "\t", " ")
	}

	// Last pmid wins when a record lists several.
	for _, id := range children(meta, tagArticleID) {
		if attrValue(id, attrPubIDType) == pubIDTypePMID {
			r.PMID = id.Text()
		}
	}

	if abstract := firstChild(meta, tagAbstract); abstract != nil {
		r.Abstract = allText(abstract)
	}

	r.URL = types.PubMedURL(r.PMID)
	return r
}

// matches compares local names only. etree keeps the prefix in Space.
func matches(e *etree.Element, local string) bool {
	return e.Tag == local
}

// descendants walks below e in pre-order, so nested matches follow their
// enclosing match.
func descendants(e *etree.Element, local string) []*etree.Element {
	var found []*etree.Element
	var walk func(*etree.Element)
	walk = func(p *etree.Element) {
		for _, c := range p.ChildElements() {
			if matches(c, local) {
				found = append(found, c)
			}
			walk(c)
		}
	}
	walk(e)
	return found
}

func children(e *etree.Element, local string) []*etree.Element {
	var found []*etree.Element
	for _, c := range e.ChildElements() {
		if matches(c, local) {
			found = append(found, c)
		}
	}
	return found
}

func firstChild(e *etree.Element, local string) *etree.Element {
	for _, c := range e.ChildElements() {
		if matches(c, local) {
			return c
		}
	}
	return nil
}

// articleTitle resolves title-group/article-title, trying every
// title-group until one has an article-title.
func articleTitle(meta *etree.Element) *etree.Element {
	for _, group := range children(meta, tagTitleGroup) {
		if t := firstChild(group, tagArticleTitle); t != nil {
			return t
		}
	}
	return nil
}

// attrValue returns the value of the unprefixed attribute key, or "".
func attrValue(e *etree.Element, key string) string {
	for _, a := range e.Attr {
		if a.Space == "" && a.Key == key {
			return a.Value
		}
	}
	return ""
}

// allText concatenates the character data of e and everything below it in
// document order. Comments and processing instructions contribute nothing.
func allText(e *etree.Element) string {
	var b strings.Builder
	var walk func(*etree.Element)
	walk = func(p *etree.Element) {
		for _, tok := range p.Child {
			switch t := tok.(type) {
			case *etree.CharData:
				b.WriteString(t.Data)
			case *etree.Element:
				walk(t)
			}
		}
	}
	walk(e)
	return b.String()
}
