package grantparse

import (
	"encoding/json"
	"grantsync-backend/lib/timezone"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestStripHtml(t *testing.T) {
	cases := []struct {
		in       string
		expected string
	}{
		{"", ""},
		{"<p>Hello</p><p>world</p>", "Hello world"},
		{`line one\nline two`, "line one line two"},
		{"Tom &amp; Jerry &lt;3 &quot;quoted&quot; &#39;single&#39;", `Tom & Jerry <3 "quoted" 'single'`},
		{"  <div>\n\t<b>Block</b>   123 Street </div>  ", "Block 123 Street"},
	}
	for _, c := range cases {
		require.Equal(t, c.expected, StripHtml(c.in), c.in)
	}
}

func TestParseGuideline(t *testing.T) {
	guideline := ParseGuideline(
		"<p>Support local businesses.</p>" +
			"<h3>Who can apply?</h3><p>Registered companies.</p>" +
			"<h3>When can I apply?</h3><p>All year round.</p>" +
			"<h3>How much funding can I receive?</h3><p>Up to 70% of costs.</p>",
	)
	expected := Guideline{
		Objectives:  "Support local businesses.",
		WhoCanApply: "Registered companies.",
		WhenToApply: "All year round.",
		FundingInfo: "Up to 70% of costs.",
	}
	if diff := cmp.Diff(expected, guideline); diff != "" {
		t.Fatalf("(-want +got)\n%s", diff)
	}
}

func TestParseGuidelineNoHeadings(t *testing.T) {
	guideline := ParseGuideline("<p>Just a description.</p>")
	require.Equal(t, Guideline{Objectives: "Just a description."}, guideline)

	// a heading at the very start leaves the whole text as the objectives
	guideline = ParseGuideline("Who can apply? Everyone.")
	require.Equal(t, "Who can apply? Everyone.", guideline.Objectives)
	require.Equal(t, "Everyone.", guideline.WhoCanApply)
}

func TestParseGuidelineTruncates(t *testing.T) {
	long := strings.Repeat("a", 5000)
	guideline := ParseGuideline(long + " when to apply? " + long)
	require.Len(t, guideline.Objectives, maxObjectives)
	require.Len(t, guideline.WhenToApply, maxWhenToApply)
}

func TestParseTemplate(t *testing.T) {
	docs, err := ParseTemplate(
		`<ul>` +
			`<li>Company ACRA profile</li>` +
			`<li><a href="/form.pdf">Application form</a></li>` +
			`<li>CV</li>` +
			`<li><b>Bold</b> is not leading text</li>` +
			`</ul>` +
			`<div style="display:none"><ul><li>Hidden document</li></ul></div>`,
	)
	require.NoError(t, err)
	require.Equal(t, []string{"Company ACRA profile", "Application form"}, docs)

	docs, err = ParseTemplate("")
	require.NoError(t, err)
	require.Empty(t, docs)
}

func TestParseClosingDate(t *testing.T) {
	expected := time.Date(2024, time.March, 31, 0, 0, 0, 0, timezone.Location)

	cases := []struct {
		dates    map[string]any
		expected *time.Time
	}{
		{nil, nil},
		{map[string]any{"organisation": "31 Mar 2024"}, &expected},
		{map[string]any{"organisation": "", "individual": "31 March 2024"}, &expected},
		{map[string]any{"organisation": "2024-03-31"}, &expected},
		{map[string]any{"organisation": "Open for Applications"}, nil},
		{map[string]any{"organisation": "sometime soon"}, nil},
		{map[string]any{"organisation": 12}, nil},
	}
	for _, c := range cases {
		got := ParseClosingDate(c.dates)
		if c.expected == nil {
			require.Nil(t, got, c.dates)
			continue
		}
		require.NotNil(t, got, c.dates)
		require.True(t, c.expected.Equal(*got), "%v: %v", c.dates, got)
	}
}

func ptr(n int64) *int64 {
	return &n
}

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in       any
		expected AmountRange
	}{
		{nil, AmountRange{}},
		{"", AmountRange{}},
		{json.Number("0"), AmountRange{}},
		{"Varies", AmountRange{}},
		{"$50,000 - $100,000", AmountRange{Min: ptr(50000), Max: ptr(100000)}},
		{"$100,000 or $20,000", AmountRange{Min: ptr(20000), Max: ptr(100000)}},
		{"Up to $20,000", AmountRange{Max: ptr(20000)}},
		{"$5,000", AmountRange{Min: ptr(5000), Max: ptr(5000)}},
		{json.Number("3000"), AmountRange{Min: ptr(3000), Max: ptr(3000)}},
		{float64(750), AmountRange{Min: ptr(750), Max: ptr(750)}},
	}
	for _, c := range cases {
		if diff := cmp.Diff(c.expected, ParseAmount(c.in)); diff != "" {
			t.Errorf("%v: (-want +got)\n%s", c.in, diff)
		}
	}
}

func TestGrantUrl(t *testing.T) {
	require.Equal(t, "https://oursggrants.gov.sg/grants/abc", GrantUrl("https://oursggrants.gov.sg/", "abc"))
}
