package grantstore

import (
	"context"
	"encoding/json"
	"fmt"
	"grantsync-backend/lib/grantstore/db"
	"grantsync-backend/lib/scrapers/oursg"
	"grantsync-backend/lib/testutil"
	"grantsync-backend/lib/timezone"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (Store, func()) {
	res, cleanup := testutil.SetupService(t, testutil.ServiceParams{
		Name:     "lib/grantstore",
		DbSchema: db.Schema,
	})
	return NewStore(res.DB, "https://example.com"), cleanup
}

func decodeGrants(t *testing.T, body string) []oursg.Grant {
	grants, err := oursg.DecodeGrants(strings.NewReader(body))
	require.NoError(t, err)
	return grants
}

const scraped = `[
	{
		"id": 101,
		"value": "edg",
		"name": "Enterprise Development Grant",
		"agency_name": "Enterprise Singapore",
		"desc": "Helps companies grow.",
		"status": "green",
		"grant_amount": "Up to $500,000",
		"closing_dates": {"organisation": "31 Mar 2030"},
		"explorable_categories": ["Business", "Innovation"],
		"deliverables": ["Report"],
		"grants_details": {
			"guideline_html": "<p>Grow.</p><h3>Who can apply?</h3><p>SMEs.</p>",
			"template_html": "<ul><li>Financial statements</li></ul>",
			"email": "edg@example.com",
			"phone": 61234567,
			"address": "<p>1 Fusionopolis</p>"
		}
	},
	{
		"id": "102",
		"value": "arts",
		"name": "Arts Creation Fund",
		"agency_name": "National Arts Council",
		"status": "green",
		"closing_dates": {"organisation": "Open for Applications"},
		"grants_details": {}
	},
	{
		"id": 103,
		"value": "closed",
		"name": "Closed Grant",
		"status": "red"
	},
	{
		"value": "noid",
		"name": "Grant Without Id",
		"status": "green"
	}
]`

func TestImport(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	now := time.Date(2030, time.January, 1, 9, 0, 0, 0, timezone.Location)

	summary, err := store.Import(ctx, decodeGrants(t, scraped), now)
	require.NoError(t, err)
	require.Equal(t, ImportSummary{Imported: 3, Skipped: 1}, summary)

	summary, err = store.Import(ctx, decodeGrants(t, scraped), now)
	require.NoError(t, err)
	require.Equal(t, ImportSummary{Updated: 3, Skipped: 1}, summary)

	edg, err := store.Get(ctx, "101")
	require.NoError(t, err)
	require.Equal(t, "Enterprise Development Grant", edg.Title)
	require.Equal(t, "Enterprise Singapore", edg.Agency)
	require.Equal(t, "Up to $500,000", edg.Amount)
	require.Nil(t, edg.AmountRange.Min)
	require.Equal(t, int64(500000), *edg.AmountRange.Max)
	require.NotNil(t, edg.Deadline)
	require.True(t, edg.Deadline.Equal(time.Date(2030, time.March, 31, 0, 0, 0, 0, timezone.Location)))
	require.Equal(t, "https://example.com/grants/edg", edg.Url)
	require.Equal(t, []string{"Business", "Innovation"}, edg.Tags)
	require.Equal(t, []string{"organisation"}, edg.ApplicableTo)
	require.Equal(t, []string{"Report"}, edg.Deliverables)
	require.Equal(t, "Grow.", edg.Guideline.Objectives)
	require.Equal(t, "SMEs.", edg.Guideline.WhoCanApply)
	require.Equal(t, []string{"Financial statements"}, edg.RequiredDocs)
	require.Equal(t, "edg@example.com", edg.Email)
	require.Equal(t, "61234567", edg.Phone)
	require.Equal(t, "1 Fusionopolis", edg.Address)
	require.Equal(t, now.Unix(), edg.ScrapedAt.Unix())

	arts, err := store.Get(ctx, "102")
	require.NoError(t, err)
	require.Equal(t, "Varies", arts.Amount)
	require.Nil(t, arts.Deadline)
	require.Empty(t, arts.RequiredDocs)

	_, err = store.Get(ctx, "103")
	require.Error(t, err)

	noid, err := store.Get(ctx, "noid")
	require.NoError(t, err)
	require.Equal(t, "Grant Without Id", noid.Title)
}

func TestImportUpdatesRecord(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	grant := oursg.Grant{"id": "1", "value": "v", "name": "Old name", "status": "green"}
	_, err := store.Import(ctx, []oursg.Grant{grant}, timezone.Now())
	require.NoError(t, err)

	grant[oursg.FieldName] = "New name"
	summary, err := store.Import(ctx, []oursg.Grant{grant}, timezone.Now())
	require.NoError(t, err)
	require.Equal(t, 1, summary.Updated)

	grants, err := store.List(ctx, ListOptions{})
	require.NoError(t, err)
	require.Len(t, grants, 1)
	require.Equal(t, "New name", grants[0].Title)
}

func grantClosing(id string, title string, deadline string) oursg.Grant {
	closing := map[string]any{}
	if deadline != "" {
		closing["organisation"] = deadline
	}
	return oursg.Grant{
		"id":            id,
		"value":         id,
		"name":          title,
		"status":        "green",
		"closing_dates": closing,
	}
}

func TestListAndSearch(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	_, err := store.Import(ctx, []oursg.Grant{
		grantClosing("1", "Market Readiness Assistance", "30 Jun 2030"),
		grantClosing("2", "Enterprise Development Grant", "31 Mar 2030"),
		grantClosing("3", "Productivity Solutions Grant", ""),
		grantClosing("4", "Arts Creation Fund", "15 Jan 2030"),
	}, timezone.Now())
	require.NoError(t, err)

	grants, err := store.List(ctx, ListOptions{})
	require.NoError(t, err)
	var titles []string
	for _, g := range grants {
		titles = append(titles, g.Title)
	}
	require.Equal(t, []string{
		"Arts Creation Fund",
		"Enterprise Development Grant",
		"Market Readiness Assistance",
		"Productivity Solutions Grant",
	}, titles)

	grants, err = store.List(ctx, ListOptions{Limit: 2})
	require.NoError(t, err)
	require.Len(t, grants, 2)

	grants, err = store.List(ctx, ListOptions{Search: "development"})
	require.NoError(t, err)
	require.Len(t, grants, 1)
	require.Equal(t, "Enterprise Development Grant", grants[0].Title)

	// close enough to be listed without being a substring
	grants, err = store.List(ctx, ListOptions{Search: "Arts Creation Funds"})
	require.NoError(t, err)
	require.NotEmpty(t, grants)
	require.Equal(t, "Arts Creation Fund", grants[0].Title)

	grants, err = store.List(ctx, ListOptions{Search: "zzzzzz"})
	require.NoError(t, err)
	require.Empty(t, grants)
}

func TestClosingWithin(t *testing.T) {
	store, cleanup := setupStore(t)
	defer cleanup()
	ctx := context.Background()

	now := time.Date(2030, time.March, 1, 8, 0, 0, 0, timezone.Location)
	var grants []oursg.Grant
	for i, date := range []string{"28 Feb 2030", "3 Mar 2030", "8 Mar 2030", "9 Mar 2030", ""} {
		grants = append(grants, grantClosing(fmt.Sprint(i), fmt.Sprintf("Grant %d", i), date))
	}
	_, err := store.Import(ctx, grants, now)
	require.NoError(t, err)

	closing, err := store.ClosingWithin(ctx, now, 7)
	require.NoError(t, err)
	var titles []string
	for _, g := range closing {
		titles = append(titles, g.Title)
	}
	require.Equal(t, []string{"Grant 1", "Grant 2"}, titles)
}

func TestFromListingIds(t *testing.T) {
	_, err := FromListing(oursg.Grant{"name": "n"}, "", timezone.Now())
	var fieldErr *oursg.FieldError
	require.ErrorAs(t, err, &fieldErr)
	require.Equal(t, oursg.FieldValue, fieldErr.Field)

	_, err = FromListing(oursg.Grant{"id": true, "value": "v", "name": "n"}, "", timezone.Now())
	require.ErrorAs(t, err, &fieldErr)
	require.Equal(t, oursg.FieldId, fieldErr.Field)

	grant, err := FromListing(oursg.Grant{"value": "v", "name": "n"}, "", timezone.Now())
	require.NoError(t, err)
	require.Equal(t, "v", grant.SourceId)

	grant, err = FromListing(oursg.Grant{
		"id":    json.Number("5"),
		"value": "v",
		"name":  "n",
	}, "https://example.com", timezone.Now())
	require.NoError(t, err)
	require.Equal(t, "5", grant.SourceId)
}
