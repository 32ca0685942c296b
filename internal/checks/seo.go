package checks

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/ixanadu/saa/internal/model"
)

const (
	// Title length bounds in characters. Search engines truncate
	// around 60; below 30 the title is usually too generic to rank.
	minTitleLength = 30
	maxTitleLength = 60

	// Meta description bounds. Truncation starts near 160 characters.
	minDescriptionLength = 50
	maxDescriptionLength = 160

	// maxEvidenceItems caps how many offending elements a finding
	// lists, so one template bug does not flood the report.
	maxEvidenceItems = 5
)

// MissingTitle flags pages without a <title> element.
type MissingTitle struct{}

func (MissingTitle) ID() string { return "missing_title" }

func (c MissingTitle) Run(page *Page) []model.Finding {
	if page.Title() != "" {
		return nil
	}
	return []model.Finding{newFinding(c.ID(), page.Record.URL,
		"page has no title", "")}
}

// TitleLength flags titles outside the useful length band.
type TitleLength struct{}

func (TitleLength) ID() string { return "title_length" }

func (c TitleLength) Run(page *Page) []model.Finding {
	title := page.Title()
	if title == "" {
		return nil // missing_title owns the empty case
	}
	n := utf8.RuneCountInString(title)
	switch {
	case n < minTitleLength:
		return []model.Finding{newFinding(c.ID(), page.Record.URL,
			fmt.Sprintf("title is %d characters, shorter than %d", n, minTitleLength),
			title)}
	case n > maxTitleLength:
		return []model.Finding{newFinding(c.ID(), page.Record.URL,
			fmt.Sprintf("title is %d characters, longer than %d", n, maxTitleLength),
			title)}
	}
	return nil
}

// MissingMetaDescription flags pages without a meta description.
type MissingMetaDescription struct{}

func (MissingMetaDescription) ID() string { return "missing_meta_description" }

func (c MissingMetaDescription) Run(page *Page) []model.Finding {
	if strings.TrimSpace(page.Meta("description")) != "" {
		return nil
	}
	return []model.Finding{newFinding(c.ID(), page.Record.URL,
		"page has no meta description", "")}
}

// MetaDescriptionLength flags descriptions outside the useful band.
type MetaDescriptionLength struct{}

func (MetaDescriptionLength) ID() string { return "meta_description_length" }

func (c MetaDescriptionLength) Run(page *Page) []model.Finding {
	desc := strings.TrimSpace(page.Meta("description"))
	if desc == "" {
		return nil
	}
	n := utf8.RuneCountInString(desc)
	switch {
	case n < minDescriptionLength:
		return []model.Finding{newFinding(c.ID(), page.Record.URL,
			fmt.Sprintf("meta description is %d characters, shorter than %d", n, minDescriptionLength),
			desc)}
	case n > maxDescriptionLength:
		return []model.Finding{newFinding(c.ID(), page.Record.URL,
			fmt.Sprintf("meta description is %d characters, longer than %d", n, maxDescriptionLength),
			truncate(desc, maxDescriptionLength))}
	}
	return nil
}

// MissingH1 flags pages without a top-level heading.
type MissingH1 struct{}

func (MissingH1) ID() string { return "missing_h1" }

func (c MissingH1) Run(page *Page) []model.Finding {
	if page.Doc.Find("h1").Length() > 0 {
		return nil
	}
	return []model.Finding{newFinding(c.ID(), page.Record.URL,
		"page has no h1 heading", "")}
}

// MultipleH1 flags pages with more than one h1.
type MultipleH1 struct{}

func (MultipleH1) ID() string { return "multiple_h1" }

func (c MultipleH1) Run(page *Page) []model.Finding {
	count := page.Doc.Find("h1").Length()
	if count <= 1 {
		return nil
	}
	var headings []string
	page.Doc.Find("h1").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		headings = append(headings, strings.TrimSpace(s.Text()))
		return len(headings) < maxEvidenceItems
	})
	return []model.Finding{newFinding(c.ID(), page.Record.URL,
		fmt.Sprintf("page has %d h1 headings", count),
		strings.Join(headings, " | "))}
}

// ImgMissingAlt flags images without an alt attribute. An empty alt is
// accepted: it is the correct markup for decorative images.
type ImgMissingAlt struct{}

func (ImgMissingAlt) ID() string { return "img_missing_alt" }

func (c ImgMissingAlt) Run(page *Page) []model.Finding {
	var missing []string
	total := 0
	page.Doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		if _, ok := s.Attr("alt"); ok {
			return
		}
		total++
		if len(missing) < maxEvidenceItems {
			src, _ := s.Attr("src")
			if src == "" {
				src = "(no src)"
			}
			missing = append(missing, src)
		}
	})
	if total == 0 {
		return nil
	}
	return []model.Finding{newFinding(c.ID(), page.Record.URL,
		fmt.Sprintf("%d images have no alt attribute", total),
		strings.Join(missing, ", "))}
}

// NoindexDirective flags pages that ask search engines to skip them.
// On an own-site audit this is usually a deploy mistake; on a
// competitor scan it explains why a page is invisible in search.
type NoindexDirective struct{}

func (NoindexDirective) ID() string { return "noindex_directive" }

func (c NoindexDirective) Run(page *Page) []model.Finding {
	robots := strings.ToLower(page.Meta("robots"))
	if !strings.Contains(robots, "noindex") {
		return nil
	}
	return []model.Finding{newFinding(c.ID(), page.Record.URL,
		"page carries a noindex robots directive", page.Meta("robots"))}
}

// MissingCanonical flags pages without a canonical link.
type MissingCanonical struct{}

func (MissingCanonical) ID() string { return "missing_canonical" }

func (c MissingCanonical) Run(page *Page) []model.Finding {
	if page.Meta("canonical") != "" {
		return nil
	}
	return []model.Finding{newFinding(c.ID(), page.Record.URL,
		"page has no canonical link", "")}
}

// MixedContent flags HTTPS pages that load subresources over plain
// HTTP, which browsers block or warn about.
type MixedContent struct{}

func (MixedContent) ID() string { return "mixed_content" }

func (c MixedContent) Run(page *Page) []model.Finding {
	if !strings.HasPrefix(page.Record.URL, "https://") {
		return nil
	}

	var insecure []string
	total := 0
	page.Doc.Find("img[src], script[src], iframe[src], link[href], source[src], video[src], audio[src]").
		Each(func(_ int, s *goquery.Selection) {
			ref, ok := s.Attr("src")
			if !ok {
				ref, _ = s.Attr("href")
			}
			if !strings.HasPrefix(ref, "http://") {
				return
			}
			total++
			if len(insecure) < maxEvidenceItems {
				insecure = append(insecure, ref)
			}
		})
	if total == 0 {
		return nil
	}
	return []model.Finding{newFinding(c.ID(), page.Record.URL,
		fmt.Sprintf("%d subresources load over plain HTTP", total),
		strings.Join(insecure, ", "))}
}

// truncate shortens s to at most n runes for evidence display.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
