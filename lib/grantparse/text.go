package grantparse

import (
	"grantsync-backend/lib/htmlutil"
	"grantsync-backend/lib/textutil"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var tagRegex = regexp.MustCompile(`<[^>]*>`)

// StripHtml reduces an html snippet to its text on a single line.
//
// The api double escapes newlines in some fields, so literal `\n` sequences
// are treated as line breaks before the markup is removed.
func StripHtml(s string) string {
	s = strings.ReplaceAll(s, `\n`, "\n")
	node, err := htmlutil.ParseFragment(s)
	if err != nil {
		return textutil.CollapseWhitespace(html.UnescapeString(tagRegex.ReplaceAllString(s, " ")))
	}
	return textutil.CollapseWhitespace(htmlutil.GetText(node))
}

const (
	maxObjectives  = 2000
	maxWhoCanApply = 2000
	maxWhenToApply = 1000
	maxFundingInfo = 1000
)

var (
	whoHeading     = regexp.MustCompile(`(?i)who can apply\??`)
	whenHeading    = regexp.MustCompile(`(?i)when (?:can i|to) apply\??`)
	fundingHeading = regexp.MustCompile(`(?i)how much funding[^?]*\??`)
	anyHeading     = regexp.MustCompile(`(?i)who can apply|when (?:can|to) apply|how much`)

	whoEnd     = regexp.MustCompile(`(?i)when|how much`)
	whenEnd    = regexp.MustCompile(`(?i)how much|who`)
	fundingEnd = regexp.MustCompile(`(?i)who|when`)
)

// Guideline holds the sections of a grant's guideline page.
type Guideline struct {
	Objectives  string
	WhoCanApply string
	WhenToApply string
	FundingInfo string
}

// section returns the text after `heading` up to the first match of `end`.
func section(text string, heading, end *regexp.Regexp) string {
	loc := heading.FindStringIndex(text)
	if loc == nil {
		return ""
	}
	rest := text[loc[1]:]
	endLoc := end.FindStringIndex(rest)
	if endLoc != nil {
		rest = rest[:endLoc[0]]
	}
	return rest
}

// ParseGuideline splits the guideline html into its sections by looking
// for the headings the site uses. Everything before the first heading is
// taken as the objectives.
func ParseGuideline(guidelineHtml string) Guideline {
	var guideline Guideline

	if who := section(guidelineHtml, whoHeading, whoEnd); who != "" {
		guideline.WhoCanApply = textutil.Truncate(StripHtml(who), maxWhoCanApply)
	}
	if when := section(guidelineHtml, whenHeading, whenEnd); when != "" {
		guideline.WhenToApply = textutil.Truncate(StripHtml(when), maxWhenToApply)
	}
	if funding := section(guidelineHtml, fundingHeading, fundingEnd); funding != "" {
		guideline.FundingInfo = textutil.Truncate(StripHtml(funding), maxFundingInfo)
	}

	objectives := guidelineHtml
	first := anyHeading.FindStringIndex(guidelineHtml)
	if first != nil && first[0] > 0 {
		objectives = guidelineHtml[:first[0]]
	}
	guideline.Objectives = textutil.Truncate(StripHtml(objectives), maxObjectives)

	return guideline
}
