package checks

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/ixanadu/saa/internal/model"
)

// Page is a successfully fetched page prepared for checking: the crawl
// record plus its DOM, parsed once and shared by every check.
type Page struct {
	Record model.PageRecord

	// Doc is the parsed document. Nil only if the HTML failed to parse,
	// which goquery effectively never reports for string input; checks
	// still guard against it.
	Doc *goquery.Document
}

// NewPage parses a successful crawl record for checking. Failed
// records have no document and must not be passed here.
func NewPage(rec model.PageRecord) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rec.HTML))
	if err != nil {
		return nil, err
	}
	return &Page{Record: rec, Doc: doc}, nil
}

// Title returns the parsed page title.
func (p *Page) Title() string {
	return p.Record.Title
}

// Meta returns a head metadata value by name, empty when absent.
func (p *Page) Meta(name string) string {
	return p.Record.Meta[name]
}
