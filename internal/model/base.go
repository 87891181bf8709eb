package model

import "time"

// Base carries the columns shared by every persisted entity.  Id is the
// surrogate key generated by the database, CreateDate is set on insert and
// IsActive is the soft-delete marker: rows are never removed for most
// entities, they are deactivated and excluded from active-set queries.
//
// Fields:
//  ID         – primary key identifier.
//  CreateDate – timestamp of insertion.
//  IsActive   – false once the row has been soft-deleted.
type Base struct {
	ID         uint64    // <table>.id
	CreateDate time.Time // <table>.create_date
	IsActive   bool      // <table>.is_active
}
