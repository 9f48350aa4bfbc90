// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pubmed-search/pkg/types"
)

// --- helpers ---

func recordsFrom(t *testing.T, xml string) []types.ArticleRecord {
	t.Helper()
	doc, err := Parse([]byte(xml))
	require.NoError(t, err)
	return Records(doc.Root())
}

func wrap(metas ...string) string {
	return `<root><front>` + strings.Join(metas, "") + `</front></root>`
}

// --- fixture ---

func TestRecords_PMCFixture(t *testing.T) {
	data, err := os.ReadFile("testdata/pmc_156895.xml")
	require.NoError(t, err)

	doc, err := Parse(data)
	require.NoError(t, err)

	got := Records(doc.Root())
	require.Len(t, got, 1)

	r := got[0]
	assert.True(t, strings.HasPrefix(r.Title, "Wnt/Wingless signaling through"), "title = %q", r.Title)
	assert.Equal(t, "12729465", r.PMID)
	assert.Equal(t, "https://pubmed.ncbi.nlm.nih.gov/12729465/#abstract", r.URL)
	assert.True(t, strings.HasPrefix(r.Abstract,
		"\n        \n          Background\n          Wnt/Wingless (Wg) signals are transduced"),
		"abstract starts with %q", r.Abstract[:min(len(r.Abstract), 80)])
	assert.True(t, strings.HasSuffix(r.Abstract, "genes through Dishevelled.\n        \n      "),
		"abstract ends with %q", r.Abstract[max(0, len(r.Abstract)-40):])
	assert.Contains(t, r.Abstract, "\n          Results\n          Loss of Dishevelled")
	assert.Contains(t, r.Title, "β-catenin")
}

// --- field rules ---

func TestRecords_Fields(t *testing.T) {
	tests := []struct {
		name string
		xml  string
		want types.ArticleRecord
	}{
		{
			name: "missing identifier keeps empty URL segment",
			xml: wrap(`<article-meta><title-group><article-title>A</article-title></title-group>` +
				`<article-id pub-id-type="doi">10.1/x</article-id></article-meta>`),
			want: types.ArticleRecord{Title: "A", URL: "https://pubmed.ncbi.nlm.nih.gov//#abstract"},
		},
		{
			name: "last pmid wins",
			xml: wrap(`<article-meta><article-id pub-id-type="pmid">111</article-id>` +
				`<article-id pub-id-type="pmcid">PMC1</article-id>` +
				`<article-id pub-id-type="pmid">222</article-id></article-meta>`),
			want: types.ArticleRecord{PMID: "222", URL: "https://pubmed.ncbi.nlm.nih.gov/222/#abstract"},
		},
		{
			name: "tab in title becomes space",
			xml:  wrap("<article-meta><title-group><article-title>One\tTwo\t\tThree</article-title></title-group></article-meta>"),
			want: types.ArticleRecord{Title: "One Two  Three", URL: "https://pubmed.ncbi.nlm.nih.gov//#abstract"},
		},
		{
			name: "empty title element is empty string",
			xml:  wrap(`<article-meta><title-group><article-title/></title-group></article-meta>`),
			want: types.ArticleRecord{URL: "https://pubmed.ncbi.nlm.nih.gov//#abstract"},
		},
		{
			name: "title text stops at first child element",
			xml:  wrap(`<article-meta><title-group><article-title>Gene <italic>wg</italic> study</article-title></title-group></article-meta>`),
			want: types.ArticleRecord{Title: "Gene ", URL: "https://pubmed.ncbi.nlm.nih.gov//#abstract"},
		},
		{
			name: "article-title outside title-group is ignored",
			xml:  wrap(`<article-meta><article-title>Loose</article-title></article-meta>`),
			want: types.ArticleRecord{URL: "https://pubmed.ncbi.nlm.nih.gov//#abstract"},
		},
		{
			name: "second title-group used when first has no article-title",
			xml: wrap(`<article-meta><title-group><subtitle>S</subtitle></title-group>` +
				`<title-group><article-title>Found</article-title></title-group></article-meta>`),
			want: types.ArticleRecord{Title: "Found", URL: "https://pubmed.ncbi.nlm.nih.gov//#abstract"},
		},
		{
			name: "article-id without pub-id-type is skipped",
			xml:  wrap(`<article-meta><article-id>999</article-id></article-meta>`),
			want: types.ArticleRecord{URL: "https://pubmed.ncbi.nlm.nih.gov//#abstract"},
		},
		{
			name: "empty pmid element",
			xml:  wrap(`<article-meta><article-id pub-id-type="pmid"></article-id></article-meta>`),
			want: types.ArticleRecord{URL: "https://pubmed.ncbi.nlm.nih.gov//#abstract"},
		},
		{
			name: "nested article-id is not a direct child",
			xml:  wrap(`<article-meta><related><article-id pub-id-type="pmid">5</article-id></related></article-meta>`),
			want: types.ArticleRecord{URL: "https://pubmed.ncbi.nlm.nih.gov//#abstract"},
		},
		{
			name: "abstract text kept verbatim with CDATA and without comments",
			xml:  wrap("<article-meta><abstract>\n  <p>a <b>b</b> c</p><!-- note --><![CDATA[<d>]]>\n</abstract></article-meta>"),
			want: types.ArticleRecord{Abstract: "\n  a b c<d>\n", URL: "https://pubmed.ncbi.nlm.nih.gov//#abstract"},
		},
		{
			name: "only first abstract is used",
			xml:  wrap(`<article-meta><abstract>first</abstract><abstract abstract-type="short">second</abstract></article-meta>`),
			want: types.ArticleRecord{Abstract: "first", URL: "https://pubmed.ncbi.nlm.nih.gov//#abstract"},
		},
		{
			name: "entities are decoded",
			xml:  wrap(`<article-meta><title-group><article-title>A &amp; B &lt;C&gt;</article-title></title-group></article-meta>`),
			want: types.ArticleRecord{Title: "A & B <C>", URL: "https://pubmed.ncbi.nlm.nih.gov//#abstract"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := recordsFrom(t, tt.xml)
			require.Len(t, got, 1)
			assert.Equal(t, tt.want, got[0])
		})
	}
}

// --- document order and count ---

func TestRecords_OnePerArticleMetaInOrder(t *testing.T) {
	xml := `<OAI-PMH><ListRecords>` +
		`<record><metadata><article><front><article-meta><article-id pub-id-type="pmid">1</article-id></article-meta></front></article></metadata></record>` +
		`<record><metadata><article><front><article-meta/></front></article></metadata></record>` +
		`<record><metadata><article><front><article-meta><article-id pub-id-type="pmid">1</article-id></article-meta></front></article></metadata></record>` +
		`<record><metadata><article><front><article-meta><article-id pub-id-type="pmid">3</article-id>` +
		`<nested><article-meta><article-id pub-id-type="pmid">4</article-id></article-meta></nested>` +
		`</article-meta></front></article></metadata></record>` +
		`</ListRecords></OAI-PMH>`

	got := recordsFrom(t, xml)
	require.Len(t, got, 5)

	var pmids []string
	for _, r := range got {
		pmids = append(pmids, r.PMID)
	}
	// Duplicates are kept; nested matches follow their parent.
	assert.Equal(t, []string{"1", "", "1", "3", "4"}, pmids)
}

func TestRecords_RootIsNotACandidate(t *testing.T) {
	got := recordsFrom(t, `<article-meta><article-id pub-id-type="pmid">1</article-id></article-meta>`)
	assert.Empty(t, got)
}

func TestRecords_NoMatches(t *testing.T) {
	got := recordsFrom(t, `<OAI-PMH><error code="noRecordsMatch">none</error></OAI-PMH>`)
	assert.Empty(t, got)
	assert.Empty(t, Records(nil))
}

// --- namespaces ---

func TestRecords_NamespaceIndependence(t *testing.T) {
	plain := `<root><article-meta>` +
		`<title-group><article-title>T</article-title></title-group>` +
		`<article-id pub-id-type="pmid">42</article-id>` +
		`<abstract><p>text</p></abstract>` +
		`</article-meta></root>`
	defaultNS := `<root xmlns="https://jats.nlm.nih.gov/ns/archiving/1.3/"><article-meta>` +
		`<title-group><article-title>T</article-title></title-group>` +
		`<article-id pub-id-type="pmid">42</article-id>` +
		`<abstract><p>text</p></abstract>` +
		`</article-meta></root>`
	prefixed := `<j:root xmlns:j="https://jats.nlm.nih.gov/ns/archiving/1.3/"><j:article-meta>` +
		`<j:title-group><j:article-title>T</j:article-title></j:title-group>` +
		`<j:article-id pub-id-type="pmid">42</j:article-id>` +
		`<j:abstract><j:p>text</j:p></j:abstract>` +
		`</j:article-meta></j:root>`
	mixed := `<root xmlns:a="urn:a" xmlns:b="urn:b"><a:article-meta>` +
		`<b:title-group><article-title>T</article-title></b:title-group>` +
		`<a:article-id pub-id-type="pmid">42</a:article-id>` +
		`<b:abstract><p>text</p></b:abstract>` +
		`</a:article-meta></root>`

	want := recordsFrom(t, plain)
	require.Len(t, want, 1)
	assert.Equal(t, types.ArticleRecord{
		Title:    "T",
		PMID:     "42",
		URL:      "https://pubmed.ncbi.nlm.nih.gov/42/#abstract",
		Abstract: "text",
	}, want[0])

	for name, doc := range map[string]string{"default": defaultNS, "prefixed": prefixed, "mixed": mixed} {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, want, recordsFrom(t, doc))
		})
	}
}

// --- Parse ---

func TestParse_SurroundingMarkup(t *testing.T) {
	data := "<?xml version=\"1.0\"?>\n<!-- harvested -->\n<root><front><article-meta/></front></root>\n<!-- end -->\n"
	doc, err := Parse([]byte(data))
	require.NoError(t, err)
	assert.Len(t, Records(doc.Root()), 1)
}

func TestParse_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unclosed element", `<root><article-meta>`},
		{"mismatched tags", `<root></other>`},
		{"plain text body", `Bad Gateway`},
		{"empty", ``},
		{"second root element", `<root><a/></root><root2><front><article-meta/></front></root2>`},
		{"text after root", `<root><front><article-meta/></front></root>trailing garbage`},
		{"text before root", `garbage<root/>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}
