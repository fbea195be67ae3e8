package specification

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ApplyCriteria narrows db to the rows matched by spec, ignoring includes,
// ordering and paging. Count queries use it.
func ApplyCriteria[T any](db *gorm.DB, spec Specification[T]) *gorm.DB {
	query := db.Model(new(T))
	if spec == nil {
		return query
	}
	for _, c := range spec.Criteria() {
		query = query.Where(c.Query, c.Args...)
	}
	return query
}

// Apply builds the full query for spec: criteria, preloads, ordering and
// skip/take.
func Apply[T any](db *gorm.DB, spec Specification[T]) *gorm.DB {
	query := ApplyCriteria[T](db, spec)
	if spec == nil {
		return query
	}
	for _, include := range spec.Includes() {
		query = query.Preload(include)
	}
	for _, o := range spec.Ordering() {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: o.Column}, Desc: o.Desc})
	}
	if spec.IsPagingEnabled() {
		query = query.Offset(spec.Skip()).Limit(spec.Take())
	}
	return query
}
