package grantstore

import (
	"context"
	"database/sql"
	"grantsync-backend/lib/grantstore/db"
	"grantsync-backend/lib/scrapers/oursg"
	"grantsync-backend/lib/sqliteutil"
	"grantsync-backend/lib/textutil"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/antzucaro/matchr"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// titles at least this similar to a search query are listed even if they
// do not contain it
const minSimilarity = 0.85

type Store struct {
	db  *sql.DB
	qry *db.Queries
	// the site grant urls are built from
	baseUrl string
}

func NewStore(database *sql.DB, baseUrl string) Store {
	if baseUrl == "" {
		baseUrl = oursg.DefaultBaseUrl
	}
	return Store{
		db:      database,
		qry:     db.New(database),
		baseUrl: baseUrl,
	}
}

// Open opens (and creates if needed) the store described by `config`.
func Open(config sqliteutil.Config, baseUrl string) (Store, error) {
	database, err := config.OpenDB(db.Schema)
	if err != nil {
		return Store{}, err
	}
	return NewStore(database, baseUrl), nil
}

func (s Store) Close() error {
	return s.db.Close()
}

type ImportSummary struct {
	// grants that were not in the store before
	Imported int
	// grants that replaced an existing record
	Updated int
	// grants that are not open or could not be read
	Skipped int
}

// Import upserts every open grant by its listing id in a single
// transaction. A grant that cannot be read is skipped, a database error
// rolls back the whole import.
func (s Store) Import(ctx context.Context, grants []oursg.Grant, now time.Time) (ImportSummary, error) {
	ctx, span := tracer.Start(ctx, "Import")
	defer span.End()

	var summary ImportSummary

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return summary, err
	}
	defer tx.Rollback()
	txqry := s.qry.WithTx(tx)

	for i, g := range grants {
		isOpen, err := g.IsOpen()
		if err != nil || !isOpen {
			summary.Skipped++
			continue
		}

		grant, err := FromListing(g, s.baseUrl, now)
		if err != nil {
			slog.WarnContext(ctx, "skipping unreadable grant", "index", i, "err", err)
			summary.Skipped++
			continue
		}

		exists, err := txqry.GrantExists(ctx, grant.SourceId)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to look up grant")
			return ImportSummary{}, err
		}
		err = txqry.UpsertGrant(ctx, grant.upsertParams())
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to upsert grant")
			return ImportSummary{}, err
		}

		if exists {
			summary.Updated++
			slog.DebugContext(ctx, "updated grant", "title", grant.Title)
		} else {
			summary.Imported++
			slog.DebugContext(ctx, "imported grant", "title", grant.Title)
		}
	}

	err = tx.Commit()
	if err != nil {
		return ImportSummary{}, err
	}

	span.SetAttributes(
		attribute.Int("imported", summary.Imported),
		attribute.Int("updated", summary.Updated),
		attribute.Int("skipped", summary.Skipped),
	)
	return summary, nil
}

func (s Store) Get(ctx context.Context, sourceId string) (Grant, error) {
	row, err := s.qry.GetGrant(ctx, sourceId)
	if err != nil {
		return Grant{}, err
	}
	return fromRow(row)
}

func (s Store) fromRows(ctx context.Context, rows []db.Grant) []Grant {
	grants := make([]Grant, 0, len(rows))
	for _, r := range rows {
		grant, err := fromRow(r)
		if err != nil {
			slog.WarnContext(ctx, "failed to read stored grant", "err", err)
			continue
		}
		grants = append(grants, grant)
	}
	return grants
}

type ListOptions struct {
	// if specified, only grants with a title matching the query are listed,
	// most similar first
	Search string
	// zero means no limit
	Limit int
}

type scoredGrant struct {
	grant Grant
	score float64
}

// List returns the stored grants, by default ordered by deadline with the
// grants without one last.
func (s Store) List(ctx context.Context, opts ListOptions) ([]Grant, error) {
	ctx, span := tracer.Start(ctx, "List")
	defer span.End()

	rows, err := s.qry.ListGrants(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list grants")
		return nil, err
	}
	grants := s.fromRows(ctx, rows)

	query := strings.TrimSpace(opts.Search)
	if query != "" {
		grants = search(grants, query)
	}
	if opts.Limit > 0 && len(grants) > opts.Limit {
		grants = grants[:opts.Limit]
	}
	return grants, nil
}

func search(grants []Grant, query string) []Grant {
	lowerQuery := strings.ToLower(query)
	matchers := []string{textutil.NormalizeName(query)}

	var scored []scoredGrant
	for _, g := range grants {
		score := matchr.JaroWinkler(lowerQuery, strings.ToLower(g.Title), false)
		if score < minSimilarity && !textutil.MatchName(g.Title, matchers) {
			continue
		}
		scored = append(scored, scoredGrant{grant: g, score: score})
	}
	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].score > scored[j].score
	})

	out := make([]Grant, len(scored))
	for i, s := range scored {
		out[i] = s.grant
	}
	return out
}

// ClosingWithin returns the grants with a deadline between `now` and `days`
// days after it, soonest first.
func (s Store) ClosingWithin(ctx context.Context, now time.Time, days int) ([]Grant, error) {
	ctx, span := tracer.Start(ctx, "ClosingWithin")
	defer span.End()

	rows, err := s.qry.ListGrantsClosingBetween(ctx, db.ListGrantsClosingBetweenParams{
		After:  now.Unix(),
		Before: now.AddDate(0, 0, days).Unix(),
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list closing grants")
		return nil, err
	}
	return s.fromRows(ctx, rows), nil
}
