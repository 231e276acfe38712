package db

import (
	"database/sql"
)

type Grant struct {
	ID            int64
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
