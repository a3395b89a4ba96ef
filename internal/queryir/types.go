package queryir

// Query is a sealed interface; Select is the only query node.
type Query interface {
	queryNode()
}

// Predicate is a sealed interface for row filters.
type Predicate interface {
	predicateNode()
}

// Select reads slides.
//
//	SELECT <fields> FROM slides WHERE <filter> ORDER BY number <dir> LIMIT <limit>
//
// Fields empty means every slide column. Limit 0 means no limit.
// Results are always ordered by number (then id) so reads are deterministic.
type Select struct {
	Fields     []string
	Filter     Predicate
	Descending bool
	Limit      int
}

func (Select) queryNode() {}

// Equals matches rows where Field = Value.
type Equals struct {
	Field string
	Value any
}

func (Equals) predicateNode() {}

// Greater matches rows where Field > Value.
type Greater struct {
	Field string
	Value any
}

func (Greater) predicateNode() {}

// Less matches rows where Field < Value.
type Less struct {
	Field string
	Value any
}

func (Less) predicateNode() {}

// And matches rows satisfying every predicate. An empty And matches all rows.
type And struct {
	Predicates []Predicate
}

func (And) predicateNode() {}

// ActiveSlide selects the active slide.
func ActiveSlide() Select {
	return Select{Filter: Equals{Field: "active", Value: true}, Limit: 1}
}

// SlideAt selects the slide with the given number.
func SlideAt(number int64) Select {
	return Select{Filter: Equals{Field: "number", Value: number}, Limit: 1}
}

// FirstFrom selects the lowest-numbered slide with number >= from.
func FirstFrom(from int64) Select {
	return Select{Filter: Greater{Field: "number", Value: from - 1}, Limit: 1}
}

// LastBefore selects the highest-numbered slide with number < before.
func LastBefore(before int64) Select {
	return Select{Filter: Less{Field: "number", Value: before}, Descending: true, Limit: 1}
}

// Last selects the highest-numbered slide.
func Last() Select {
	return Select{Descending: true, Limit: 1}
}

// Ordering selects the id/number projection of the whole deck.
func Ordering() Select {
	return Select{Fields: []string{"id", "number"}}
}
