package db

import (
	"context"
	"database/sql"
)

const grantColumns = `id, source_id, value, title, agency, description, amount, amount_min, amount_max, deadline, url, status, tags, applicable_to, deliverables, objectives, who_can_apply, when_to_apply, funding_info, required_docs, guideline_html, template_html, email, phone, address, scraped_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanGrant(row scanner) (Grant, error) {
	var i Grant
	err := row.Scan(
		&i.ID,
		&i.SourceID,
		&i.Value,
		&i.Title,
		&i.Agency,
		&i.Description,
		&i.Amount,
		&i.AmountMin,
		&i.AmountMax,
		&i.Deadline,
		&i.Url,
		&i.Status,
		&i.Tags,
		&i.ApplicableTo,
		&i.Deliverables,
		&i.Objectives,
		&i.WhoCanApply,
		&i.WhenToApply,
		&i.FundingInfo,
		&i.RequiredDocs,
		&i.GuidelineHtml,
		&i.TemplateHtml,
		&i.Email,
		&i.Phone,
		&i.Address,
		&i.ScrapedAt,
	)
	return i, err
}

func (q *Queries) scanGrants(ctx context.Context, query string, args ...interface{}) ([]Grant, error) {
	rows, err := q.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Grant
	for rows.Next() {
		i, err := scanGrant(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const grantExists = `select exists (
    select 1 from grants where source_id = ?
)`

func (q *Queries) GrantExists(ctx context.Context, sourceID string) (bool, error) {
	row := q.db.QueryRowContext(ctx, grantExists, sourceID)
	var exists int64
	err := row.Scan(&exists)
	return exists != 0, err
}

type UpsertGrantParams struct {
	SourceID      string
	Value         string
	Title         string
	Agency        string
	Description   string
	Amount        string
	AmountMin     sql.NullInt64
	AmountMax     sql.NullInt64
	Deadline      sql.NullInt64
	Url           string
	Status        string
	Tags          string
	ApplicableTo  string
	Deliverables  string
	Objectives    sql.NullString
	WhoCanApply   sql.NullString
	WhenToApply   sql.NullString
	FundingInfo   sql.NullString
	RequiredDocs  sql.NullString
	GuidelineHtml sql.NullString
	TemplateHtml  sql.NullString
	Email         sql.NullString
	Phone         sql.NullString
	Address       sql.NullString
	ScrapedAt     int64
}

const upsertGrant = `insert into grants (
    source_id, value, title, agency, description, amount, amount_min, amount_max, deadline, url, status, tags, applicable_to, deliverables, objectives, who_can_apply, when_to_apply, funding_info, required_docs, guideline_html, template_html, email, phone, address, scraped_at
) values (
    ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?
)
on conflict (source_id) do update set
    value = excluded.value,
    title = excluded.title,
    agency = excluded.agency,
    description = excluded.description,
    amount = excluded.amount,
    amount_min = excluded.amount_min,
    amount_max = excluded.amount_max,
    deadline = excluded.deadline,
    url = excluded.url,
    status = excluded.status,
    tags = excluded.tags,
    applicable_to = excluded.applicable_to,
    deliverables = excluded.deliverables,
    objectives = excluded.objectives,
    who_can_apply = excluded.who_can_apply,
    when_to_apply = excluded.when_to_apply,
    funding_info = excluded.funding_info,
    required_docs = excluded.required_docs,
    guideline_html = excluded.guideline_html,
    template_html = excluded.template_html,
    email = excluded.email,
    phone = excluded.phone,
    address = excluded.address,
    scraped_at = excluded.scraped_at`

func (q *Queries) UpsertGrant(ctx context.Context, arg UpsertGrantParams) error {
	_, err := q.db.ExecContext(ctx, upsertGrant,
		arg.SourceID,
		arg.Value,
		arg.Title,
		arg.Agency,
		arg.Description,
		arg.Amount,
		arg.AmountMin,
		arg.AmountMax,
		arg.Deadline,
		arg.Url,
		arg.Status,
		arg.Tags,
		arg.ApplicableTo,
		arg.Deliverables,
		arg.Objectives,
		arg.WhoCanApply,
		arg.WhenToApply,
		arg.FundingInfo,
		arg.RequiredDocs,
		arg.GuidelineHtml,
		arg.TemplateHtml,
		arg.Email,
		arg.Phone,
		arg.Address,
		arg.ScrapedAt,
	)
	return err
}

const getGrant = `select ` + grantColumns + ` from grants where source_id = ?`

func (q *Queries) GetGrant(ctx context.Context, sourceID string) (Grant, error) {
	row := q.db.QueryRowContext(ctx, getGrant, sourceID)
	return scanGrant(row)
}

const listGrants = `select ` + grantColumns + ` from grants
order by deadline is null, deadline, title`

func (q *Queries) ListGrants(ctx context.Context) ([]Grant, error) {
	return q.scanGrants(ctx, listGrants)
}

type ListGrantsClosingBetweenParams struct {
	After  int64
	Before int64
}

const listGrantsClosingBetween = `select ` + grantColumns + ` from grants
where deadline is not null and deadline >= ? and deadline <= ?
order by deadline, title`

func (q *Queries) ListGrantsClosingBetween(ctx context.Context, arg ListGrantsClosingBetweenParams) ([]Grant, error) {
	return q.scanGrants(ctx, listGrantsClosingBetween, arg.After, arg.Before)
}
