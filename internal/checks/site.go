package checks

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/ixanadu/saa/internal/model"
)

// DuplicateTitle flags groups of pages sharing the same title. Titles
// are compared after Unicode normalization, case folding, and
// whitespace collapsing, so cosmetic variants still count as
// duplicates.
type DuplicateTitle struct{}

func (DuplicateTitle) ID() string { return "duplicate_title" }

func (c DuplicateTitle) RunSite(site *Site) []model.Finding {
	groups := groupBy(site.Pages, func(p *Page) string {
		return normalizeForComparison(p.Title())
	})

	var findings []model.Finding
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		findings = append(findings, newFinding(c.ID(), group[0].Record.URL,
			fmt.Sprintf("title %q is shared by %d pages", group[0].Title(), len(group)),
			joinURLs(group[1:])))
	}
	return findings
}

// DuplicateMetaDescription flags pages sharing a meta description.
type DuplicateMetaDescription struct{}

func (DuplicateMetaDescription) ID() string { return "duplicate_meta_description" }

func (c DuplicateMetaDescription) RunSite(site *Site) []model.Finding {
	groups := groupBy(site.Pages, func(p *Page) string {
		return normalizeForComparison(p.Meta("description"))
	})

	var findings []model.Finding
	for _, group := range groups {
		if len(group) < 2 {
			continue
		}
		findings = append(findings, newFinding(c.ID(), group[0].Record.URL,
			fmt.Sprintf("meta description is shared by %d pages", len(group)),
			joinURLs(group[1:])))
	}
	return findings
}

// BrokenInternalLink flags pages linking to same-site URLs the crawl
// tried and failed to fetch. Links the crawl never attempted (beyond
// the depth or page limits) are not judged: absence of evidence is
// not a broken link.
type BrokenInternalLink struct{}

func (BrokenInternalLink) ID() string { return "broken_internal_link" }

func (c BrokenInternalLink) RunSite(site *Site) []model.Finding {
	if len(site.Failed) == 0 {
		return nil
	}

	var findings []model.Finding
	for _, page := range site.Pages {
		for _, link := range page.Record.Links {
			cause, ok := site.Failed[link]
			if !ok {
				continue
			}
			findings = append(findings, newFinding(c.ID(), page.Record.URL,
				fmt.Sprintf("links to %s, which failed to load", link),
				cause))
		}
	}
	return findings
}

// groupBy buckets pages by a derived key, skipping empty keys, and
// returns the groups in first-occurrence order so site findings stay
// deterministic.
func groupBy(pages []*Page, key func(*Page) string) [][]*Page {
	index := make(map[string]int)
	var groups [][]*Page
	for _, p := range pages {
		k := key(p)
		if k == "" {
			continue
		}
		if i, ok := index[k]; ok {
			groups[i] = append(groups[i], p)
			continue
		}
		index[k] = len(groups)
		groups = append(groups, []*Page{p})
	}
	return groups
}

// normalizeForComparison canonicalizes text for duplicate detection:
// NFC normalization, lowercasing, and whitespace collapsing.
func normalizeForComparison(s string) string {
	s = norm.NFC.String(s)
	s = strings.ToLower(s)
	return strings.Join(strings.Fields(s), " ")
}

func joinURLs(pages []*Page) string {
	urls := make([]string, 0, len(pages))
	for _, p := range pages {
		urls = append(urls, p.Record.URL)
	}
	return strings.Join(urls, ", ")
}
