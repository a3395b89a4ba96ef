// Package queryir is the filter and projection IR for slide collection queries.
//
// Engine code describes what it wants from the collection store (the active
// slide, the slide at a number, the id/number projection) as a Select value;
// backends compile it. querysql is the SQLite backend.
//
//	[engine] → [queryir.Select] → [querysql] → SELECT ... FROM slides
//
// Query and Predicate are sealed with marker methods so backends can switch
// exhaustively:
//
//	switch p := pred.(type) {
//	case Equals:
//	case Greater:
//	case Less:
//	case And:
//	}
//
// Literal values are restricted to string, int64 and bool. Floats and nil
// are rejected by Validate, so comparisons are exact on every backend.
package queryir
