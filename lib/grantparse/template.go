package grantparse

import (
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// ParseTemplate returns the names of the documents listed in a grant's
// template html.
func ParseTemplate(templateHtml string) ([]string, error) {
	if templateHtml == "" {
		return nil, nil
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(templateHtml))
	if err != nil {
		return nil, err
	}
	doc.Find(`div[style="display:none"]`).Remove()

	var docs []string
	doc.Find("li").Each(func(_ int, li *goquery.Selection) {
		name := strings.TrimSpace(leadingText(li.Get(0)))
		if utf8.RuneCountInString(name) <= 3 || strings.Contains(name, "style=") {
			return
		}
		docs = append(docs, name)
	})
	return docs, nil
}

// leadingText is the text at the very start of a list item, looking through
// a leading link.
func leadingText(li *html.Node) string {
	first := li.FirstChild
	if first != nil && first.Type == html.ElementNode && first.DataAtom == atom.A {
		first = first.FirstChild
	}
	if first == nil || first.Type != html.TextNode {
		return ""
	}
	return first.Data
}
