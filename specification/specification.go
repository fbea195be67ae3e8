// Package specification describes entity queries as data: filter criteria,
// related entities to load, ordering and paging. A specification is turned
// into a gorm query by Apply and ApplyCriteria.
package specification

// Criterion is a single SQL condition with its bound arguments. All
// criteria of a specification are AND-ed together.
type Criterion struct {
	Query string
	Args  []any
}

type OrderBy struct {
	Column string
	Desc   bool
}

// Specification is parameterised by the entity type it queries so that a
// Repository[T] only accepts specifications written for T.
type Specification[T any] interface {
	Criteria() []Criterion
	Includes() []string
	Ordering() []OrderBy
	Skip() int
	Take() int
	IsPagingEnabled() bool
}

// Base is the embeddable implementation of Specification.
type Base[T any] struct {
	criteria []Criterion
	includes []string
	ordering []OrderBy
	skip     int
	take     int
	paging   bool
}

var _ Specification[struct{}] = (*Base[struct{}])(nil)

func New[T any]() *Base[T] {
	return &Base[T]{}
}

func (s *Base[T]) Where(query string, args ...any) *Base[T] {
	s.criteria = append(s.criteria, Criterion{Query: query, Args: args})
	return s
}

func (s *Base[T]) Include(association string) *Base[T] {
	s.includes = append(s.includes, association)
	return s
}

func (s *Base[T]) OrderBy(column string) *Base[T] {
	s.ordering = append(s.ordering, OrderBy{Column: column})
	return s
}

func (s *Base[T]) OrderByDescending(column string) *Base[T] {
	s.ordering = append(s.ordering, OrderBy{Column: column, Desc: true})
	return s
}

func (s *Base[T]) ApplyPaging(skip, take int) *Base[T] {
	s.skip = skip
	s.take = take
	s.paging = true
	return s
}

func (s *Base[T]) Criteria() []Criterion { return s.criteria }
func (s *Base[T]) Includes() []string    { return s.includes }
func (s *Base[T]) Ordering() []OrderBy   { return s.ordering }
func (s *Base[T]) Skip() int             { return s.skip }
func (s *Base[T]) Take() int             { return s.take }
func (s *Base[T]) IsPagingEnabled() bool { return s.paging }
