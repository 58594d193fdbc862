package client

// CQL2 JSON expressions for the search filters the workflows issue:
// spatial intersection with the AOI combined with datetime bounds.
//
// Expressions are plain maps so they embed directly in a search payload:
//
//	{"op": "and", "args": [
//	  {"op": "s_intersects", "args": [{"property": "geometry"}, <geojson>]},
//	  {"op": ">=", "args": [{"property": "datetime"}, "2024-01-01"]}
//	]}

// Expr is a CQL2 JSON expression node.
type Expr map[string]any

// Property references a queryable property.
func Property(name string) map[string]any {
	return map[string]any{"property": name}
}

// SIntersects builds a spatial intersection predicate against a GeoJSON
// geometry object.
func SIntersects(property string, geometry any) Expr {
	return Expr{"op": "s_intersects", "args": []any{Property(property), geometry}}
}

// Gte builds a >= comparison predicate.
func Gte(property string, value any) Expr {
	return Expr{"op": ">=", "args": []any{Property(property), value}}
}

// Lte builds a <= comparison predicate.
func Lte(property string, value any) Expr {
	return Expr{"op": "<=", "args": []any{Property(property), value}}
}

// Eq builds an equality predicate.
func Eq(property string, value any) Expr {
	return Expr{"op": "=", "args": []any{Property(property), value}}
}

// And combines predicates; a single predicate is returned unwrapped and
// nil predicates are skipped.
func And(exprs ...Expr) Expr {
	args := make([]any, 0, len(exprs))
	for _, e := range exprs {
		if e != nil {
			args = append(args, e)
		}
	}
	switch len(args) {
	case 0:
		return nil
	case 1:
		return args[0].(Expr)
	default:
		return Expr{"op": "and", "args": args}
	}
}
