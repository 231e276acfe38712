package grantstore

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"grantsync-backend/lib/grantparse"
	"grantsync-backend/lib/grantstore/db"
	"grantsync-backend/lib/scrapers/oursg"
	"time"
)

// Grant is an open grant as it is kept in the store, parsed from the
// listing entry and the detail record attached by the scraper.
type Grant struct {
	SourceId    string
	Value       string
	Title       string
	Agency      string
	Description string
	// the amount as the site shows it, "Varies" when it does not
	Amount      string
	AmountRange grantparse.AmountRange
	Deadline    *time.Time
	Url         string
	Status      string

	Tags         []string
	ApplicableTo []string
	Deliverables []string

	Guideline    grantparse.Guideline
	RequiredDocs []string

	GuidelineHtml string
	TemplateHtml  string

	Email   string
	Phone   string
	Address string

	ScrapedAt time.Time
}

func stringList(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	var out []string
	for _, item := range items {
		str, ok := item.(string)
		if ok {
			out = append(out, str)
		}
	}
	return out
}

func detailString(details map[string]any, key string) string {
	switch v := details[key].(type) {
	case string:
		return v
	case json.Number:
		return v.String()
	case float64:
		return fmt.Sprint(v)
	}
	return ""
}

// FromListing builds a store record out of a scraped grant. `baseUrl` is the
// site the grant was scraped from. Grants without a listing id are keyed by
// their value instead.
func FromListing(g oursg.Grant, baseUrl string, scrapedAt time.Time) (Grant, error) {
	value, err := g.Value()
	if err != nil {
		return Grant{}, err
	}
	sourceId, err := g.Id()
	var fieldErr *oursg.FieldError
	if errors.As(err, &fieldErr) && fieldErr.Missing {
		sourceId = value
	} else if err != nil {
		return Grant{}, err
	}
	title, err := g.Name()
	if err != nil {
		return Grant{}, err
	}

	amount := grantparse.AmountText(g["grant_amount"])
	if amount == "" {
		amount = "Varies"
	}
	applicableTo := stringList(g["applicable_to"])
	if applicableTo == nil {
		applicableTo = []string{"organisation"}
	}
	closingDates, _ := g["closing_dates"].(map[string]any)

	grant := Grant{
		SourceId:     sourceId,
		Value:        value,
		Title:        title,
		Agency:       g.StringOr("agency_name", ""),
		Description:  g.StringOr("desc", ""),
		Amount:       amount,
		AmountRange:  grantparse.ParseAmount(g["grant_amount"]),
		Deadline:     grantparse.ParseClosingDate(closingDates),
		Url:          grantparse.GrantUrl(baseUrl, value),
		Status:       g.StringOr(oursg.FieldStatus, ""),
		Tags:         stringList(g["explorable_categories"]),
		ApplicableTo: applicableTo,
		Deliverables: stringList(g["deliverables"]),
		ScrapedAt:    scrapedAt,
	}

	details, ok := g.Details()
	if !ok {
		return grant, nil
	}
	grant.GuidelineHtml = detailString(details, "guideline_html")
	grant.TemplateHtml = detailString(details, "template_html")
	grant.Guideline = grantparse.ParseGuideline(grant.GuidelineHtml)
	grant.RequiredDocs, err = grantparse.ParseTemplate(grant.TemplateHtml)
	if err != nil {
		return Grant{}, fmt.Errorf("grant %s: parse template: %w", sourceId, err)
	}
	grant.Email = detailString(details, "email")
	grant.Phone = detailString(details, "phone")
	if address := detailString(details, "address"); address != "" {
		grant.Address = grantparse.StripHtml(address)
	}

	return grant, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n *int64) sql.NullInt64 {
	if n == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *n, Valid: true}
}

func jsonList(list []string) string {
	if list == nil {
		list = []string{}
	}
	out, _ := json.Marshal(list)
	return string(out)
}

func (g Grant) upsertParams() db.UpsertGrantParams {
	var deadline sql.NullInt64
	if g.Deadline != nil {
		deadline = sql.NullInt64{Int64: g.Deadline.Unix(), Valid: true}
	}
	var requiredDocs sql.NullString
	if len(g.RequiredDocs) > 0 {
		requiredDocs = nullString(jsonList(g.RequiredDocs))
	}

	return db.UpsertGrantParams{
		SourceID:      g.SourceId,
		Value:         g.Value,
		Title:         g.Title,
		Agency:        g.Agency,
		Description:   g.Description,
		Amount:        g.Amount,
		AmountMin:     nullInt(g.AmountRange.Min),
		AmountMax:     nullInt(g.AmountRange.Max),
		Deadline:      deadline,
		Url:           g.Url,
		Status:        g.Status,
		Tags:          jsonList(g.Tags),
		ApplicableTo:  jsonList(g.ApplicableTo),
		Deliverables:  jsonList(g.Deliverables),
		Objectives:    nullString(g.Guideline.Objectives),
		WhoCanApply:   nullString(g.Guideline.WhoCanApply),
		WhenToApply:   nullString(g.Guideline.WhenToApply),
		FundingInfo:   nullString(g.Guideline.FundingInfo),
		RequiredDocs:  requiredDocs,
		GuidelineHtml: nullString(g.GuidelineHtml),
		TemplateHtml:  nullString(g.TemplateHtml),
		Email:         nullString(g.Email),
		Phone:         nullString(g.Phone),
		Address:       nullString(g.Address),
		ScrapedAt:     g.ScrapedAt.Unix(),
	}
}

func decodeList(s string) ([]string, error) {
	if s == "" {
		return nil, nil
	}
	var list []string
	err := json.Unmarshal([]byte(s), &list)
	return list, err
}

func fromRow(row db.Grant) (Grant, error) {
	grant := Grant{
		SourceId:    row.SourceID,
		Value:       row.Value,
		Title:       row.Title,
		Agency:      row.Agency,
		Description: row.Description,
		Amount:      row.Amount,
		Url:         row.Url,
		Status:      row.Status,
		Guideline: grantparse.Guideline{
			Objectives:  row.Objectives.String,
			WhoCanApply: row.WhoCanApply.String,
			WhenToApply: row.WhenToApply.String,
			FundingInfo: row.FundingInfo.String,
		},
		GuidelineHtml: row.GuidelineHtml.String,
		TemplateHtml:  row.TemplateHtml.String,
		Email:         row.Email.String,
		Phone:         row.Phone.String,
		Address:       row.Address.String,
		ScrapedAt:     time.Unix(row.ScrapedAt, 0),
	}
	if row.AmountMin.Valid {
		min := row.AmountMin.Int64
		grant.AmountRange.Min = &min
	}
	if row.AmountMax.Valid {
		max := row.AmountMax.Int64
		grant.AmountRange.Max = &max
	}
	if row.Deadline.Valid {
		deadline := time.Unix(row.Deadline.Int64, 0)
		grant.Deadline = &deadline
	}

	var err error
	grant.Tags, err = decodeList(row.Tags)
	if err != nil {
		return Grant{}, fmt.Errorf("grant %s: tags: %w", row.SourceID, err)
	}
	grant.ApplicableTo, err = decodeList(row.ApplicableTo)
	if err != nil {
		return Grant{}, fmt.Errorf("grant %s: applicable_to: %w", row.SourceID, err)
	}
	grant.Deliverables, err = decodeList(row.Deliverables)
	if err != nil {
		return Grant{}, fmt.Errorf("grant %s: deliverables: %w", row.SourceID, err)
	}
	grant.RequiredDocs, err = decodeList(row.RequiredDocs.String)
	if err != nil {
		return Grant{}, fmt.Errorf("grant %s: required_docs: %w", row.SourceID, err)
	}
	return grant, nil
}
