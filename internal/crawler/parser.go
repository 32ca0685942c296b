package crawler

import (
	"strings"

	"golang.org/x/net/html"
)

// HeadInfo is the semantic content of a document's head section.
type HeadInfo struct {
	// Title is the text of the <title> element.
	Title string

	// Meta maps meta names (or OpenGraph property names) to content
	// values. The canonical link, if present, is stored under
	// "canonical", and the root element's lang attribute under "lang".
	Meta map[string]string
}

// ParseHead extracts the title and meta fields from rendered HTML.
//
// Design decision: We use golang.org/x/net/html rather than regex
// because it correctly handles the malformed markup common on the web,
// and rather than a full DOM library because only the head section is
// needed here; checks that query the body build their own document.
func ParseHead(rendered string) HeadInfo {
	info := HeadInfo{Meta: make(map[string]string)}

	doc, err := html.Parse(strings.NewReader(rendered))
	if err != nil {
		// html.Parse only fails on reader errors; a strings.Reader
		// cannot produce one, but keep the empty result path anyway.
		return info
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "html":
				if lang := getAttr(n, "lang"); lang != "" {
					info.Meta["lang"] = lang
				}
			case "title":
				if info.Title == "" && n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					info.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			case "meta":
				name := getAttr(n, "name")
				if name == "" {
					name = getAttr(n, "property") // OpenGraph uses property
				}
				content := getAttr(n, "content")
				if name != "" && content != "" {
					if _, exists := info.Meta[name]; !exists {
						info.Meta[name] = content
					}
				}
			case "link":
				if strings.EqualFold(getAttr(n, "rel"), "canonical") {
					if href := getAttr(n, "href"); href != "" {
						info.Meta["canonical"] = href
					}
				}
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)

	return info
}

// NormalizeLinks canonicalizes a harvested link list: each URL is
// normalized, unparseable ones are dropped, and duplicates are removed
// preserving first-occurrence order. Cross-domain links are kept;
// they are excluded at enqueue time, not here, because checks want to
// see them.
func NormalizeLinks(hrefs []string) []string {
	seen := make(map[string]struct{}, len(hrefs))
	links := make([]string, 0, len(hrefs))
	for _, href := range hrefs {
		normalized, err := NormalizeURL(href)
		if err != nil {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		links = append(links, normalized)
	}
	return links
}

// getAttr retrieves an attribute value from an HTML node.
func getAttr(n *html.Node, key string) string {
	for _, attr := range n.Attr {
		if attr.Key == key {
			return attr.Val
		}
	}
	return ""
}
