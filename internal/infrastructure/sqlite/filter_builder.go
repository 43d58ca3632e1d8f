package sqlite

import (
	"fmt"
	"strings"

	"github.com/martijn/clientreg/internal/core/query"
)

var comparisons = map[query.Operator]string{
	query.OpEq:  "=",
	query.OpNe:  "!=",
	query.OpGt:  ">",
	query.OpGte: ">=",
	query.OpLt:  "<",
	query.OpLte: "<=",
}

// buildWhere renders filters as an AND-joined WHERE clause. columns maps
// public field names to column names; unknown fields are an error so that no
// caller-supplied text reaches the SQL.
func buildWhere(filters []query.Filter, columns map[string]string) (string, []interface{}, error) {
	if len(filters) == 0 {
		return "", nil, nil
	}

	clauses := make([]string, 0, len(filters))
	var args []interface{}

	for _, f := range filters {
		column, ok := columns[f.Field]
		if !ok {
			return "", nil, fmt.Errorf("unknown filter field: %s", f.Field)
		}

		switch f.Operator {
		case query.OpIn, query.OpNin:
			placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(f.Values)), ", ")
			keyword := "IN"
			if f.Operator == query.OpNin {
				keyword = "NOT IN"
			}
			clauses = append(clauses, fmt.Sprintf("%s %s (%s)", column, keyword, placeholders))
			for _, v := range f.Values {
				args = append(args, v)
			}
		default:
			cmp, ok := comparisons[f.Operator]
			if !ok {
				return "", nil, fmt.Errorf("unsupported operator: %s", f.Operator)
			}
			clauses = append(clauses, fmt.Sprintf("%s %s ?", column, cmp))
			args = append(args, f.Values[0])
		}
	}

	return " WHERE " + strings.Join(clauses, " AND "), args, nil
}

func buildOrder(orders []query.Order, columns map[string]string, defaultOrder string) (string, error) {
	if len(orders) == 0 {
		return " ORDER BY " + defaultOrder, nil
	}

	parts := make([]string, 0, len(orders))
	for _, o := range orders {
		column, ok := columns[o.Field]
		if !ok {
			return "", fmt.Errorf("unknown order field: %s", o.Field)
		}
		direction := "ASC"
		if o.Direction == query.Desc {
			direction = "DESC"
		}
		parts = append(parts, column+" "+direction)
	}
	return " ORDER BY " + strings.Join(parts, ", "), nil
}
