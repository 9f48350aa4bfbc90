// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package oai

import "github.com/beevik/etree"

// Error is an OAI-PMH protocol error reported inside a 200 response
// (e.g. noRecordsMatch, badArgument). It is logged, never returned:
// the records in the body are still written.
type Error struct {
	Code    string
	Message string
}

// ResumptionToken is OAI flow control (3.5). pubmed-search never follows
// it; its presence means the harvest holds only the first page.
type ResumptionToken struct {
	Value string
	// Cursor counts the records returned so far, starting at 0.
	Cursor string
	// CompleteListSize may be only an estimate.
	CompleteListSize string
}

// Envelope is what Inspect finds in the OAI-PMH wrapper around the records.
type Envelope struct {
	ResponseDate string
	Error        *Error
	Token        *ResumptionToken
}

// Truncated reports whether the server has more pages than were fetched.
func (e Envelope) Truncated() bool {
	return e.Token != nil && e.Token.Value != ""
}

// Inspect reads the protocol elements of an OAI-PMH response. Elements are
// matched by local name. A missing element leaves its field empty; Inspect
// never fails.
func Inspect(root *etree.Element) Envelope {
	var env Envelope
	if root == nil {
		return env
	}
	for _, c := range root.ChildElements() {
		switch c.Tag {
		case "responseDate":
			env.ResponseDate = c.Text()
		case "error":
			env.Error = &Error{Code: c.SelectAttrValue("code", ""), Message: c.Text()}
		case "ListRecords", "ListIdentifiers", "ListSets":
			for _, t := range c.ChildElements() {
				if t.Tag != "resumptionToken" {
					continue
				}
				env.Token = &ResumptionToken{
					Value:            t.Text(),
					Cursor:           t.SelectAttrValue("cursor", ""),
					CompleteListSize: t.SelectAttrValue("completeListSize", ""),
				}
			}
		}
	}
	return env
}
