package checks

import (
	"fmt"
	"net/url"
	"strings"
	"sync"

	readability "github.com/go-shiori/go-readability"
	"github.com/pemistahl/lingua-go"

	"github.com/ixanadu/saa/internal/model"
)

const (
	// thinContentWords is the minimum word count for a page to count
	// as substantive. Below this, search engines tend to treat the
	// page as thin or doorway content.
	thinContentWords = 150

	// langDetectMinChars is the minimum extracted text length before
	// language detection is trusted. Short snippets misdetect easily.
	langDetectMinChars = 200
)

// ThinContent flags pages whose readable text is too short to be
// useful. Boilerplate (navigation, footers, scripts) is stripped with
// a readability extraction first, so a page wrapped in a heavy
// template is judged on its actual content.
type ThinContent struct{}

// NewThinContent creates the thin-content check.
func NewThinContent() ThinContent { return ThinContent{} }

func (ThinContent) ID() string { return "thin_content" }

func (c ThinContent) Run(page *Page) []model.Finding {
	text := extractText(page)
	words := len(strings.Fields(text))
	if words >= thinContentWords {
		return nil
	}
	return []model.Finding{newFinding(c.ID(), page.Record.URL,
		fmt.Sprintf("readable content is %d words, below %d", words, thinContentWords),
		truncate(strings.TrimSpace(text), 120))}
}

// LanguageMismatch flags pages whose declared language (html lang
// attribute) disagrees with the language the content is actually
// written in. A mismatch confuses search engines and screen readers.
//
// The detector is built lazily on first use: constructing the language
// models is expensive and competitor scans never run this check.
type LanguageMismatch struct {
	once     sync.Once
	detector lingua.LanguageDetector
}

// NewLanguageMismatch creates the language-mismatch check.
func NewLanguageMismatch() *LanguageMismatch {
	return &LanguageMismatch{}
}

func (*LanguageMismatch) ID() string { return "language_mismatch" }

func (c *LanguageMismatch) Run(page *Page) []model.Finding {
	declared := declaredLanguage(page.Meta("lang"))
	if declared == "" {
		return nil // nothing declared, nothing to contradict
	}

	text := extractText(page)
	if len(text) < langDetectMinChars {
		return nil
	}

	c.once.Do(func() {
		c.detector = lingua.NewLanguageDetectorBuilder().
			FromAllSpokenLanguages().
			WithLowAccuracyMode().
			Build()
	})

	detected, ok := c.detector.DetectLanguageOf(text)
	if !ok {
		return nil
	}
	detectedCode := strings.ToLower(detected.IsoCode639_1().String())
	if detectedCode == declared {
		return nil
	}

	return []model.Finding{newFinding(c.ID(), page.Record.URL,
		fmt.Sprintf("page declares language %q but content reads as %q", declared, detectedCode),
		fmt.Sprintf("lang=%s detected=%s", page.Meta("lang"), detected.String()))}
}

// declaredLanguage reduces an html lang attribute to its primary
// ISO 639-1 subtag: "en-US" becomes "en".
func declaredLanguage(lang string) string {
	lang = strings.ToLower(strings.TrimSpace(lang))
	if lang == "" {
		return ""
	}
	if i := strings.IndexByte(lang, '-'); i > 0 {
		lang = lang[:i]
	}
	if len(lang) != 2 {
		return ""
	}
	return lang
}

// extractText pulls the readable text out of a page, preferring a
// readability extraction and falling back to the raw body text when
// extraction fails.
func extractText(page *Page) string {
	u, err := url.Parse(page.Record.URL)
	if err == nil {
		article, rerr := readability.FromReader(strings.NewReader(page.Record.HTML), u)
		if rerr == nil && strings.TrimSpace(article.TextContent) != "" {
			return article.TextContent
		}
	}
	return page.Doc.Find("body").Text()
}
