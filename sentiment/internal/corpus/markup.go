package corpus

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// StripMarkup returns the text content of an HTML fragment. Line breaks
// become spaces so words on either side of a <br> stay apart, and runs of
// whitespace collapse to one space. Text that fails to parse is returned
// unchanged.
func StripMarkup(text string) string {
	if !strings.Contains(text, "<") {
		return text
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return text
	}

	doc.Find("script, style").Remove()
	doc.Find("br").ReplaceWithHtml(" ")
	doc.Find("p, div").AppendHtml(" ")

	content := doc.Find("body").Text()
	return strings.Join(strings.Fields(content), " ")
}
