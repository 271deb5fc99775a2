// Package store defines the entity store: one repository per entity type
// with identity assignment, full-replace updates and unbounded scans, plus
// the paginated list path used by the query engine.
//
// Repositories hold no business rules. Existence of referenced rows is
// checked by the caller; the only constraints a store enforces itself are
// its unique indexes (subscriber email, organization/course pair), which it
// must enforce atomically and report as ErrDuplicate.
package store
