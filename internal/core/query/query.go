// Package query parses the filter and order expressions accepted by list
// endpoints.
//
// Filter syntax (comma separated conditions):
//
//	field|value             equality
//	field|operator|value    explicit operator
//
// Values of in/nin are separated by ';'. Order syntax is field|asc or
// field|desc, comma separated.
package query

import (
	"fmt"
	"strings"
)

type Operator string

const (
	OpEq  Operator = "eq"
	OpNe  Operator = "ne"
	OpGt  Operator = "gt"
	OpGte Operator = "gte"
	OpLt  Operator = "lt"
	OpLte Operator = "lte"
	OpIn  Operator = "in"
	OpNin Operator = "nin"
)

var operators = map[string]Operator{
	"eq":  OpEq,
	"ne":  OpNe,
	"gt":  OpGt,
	"gte": OpGte,
	"lt":  OpLt,
	"lte": OpLte,
	"in":  OpIn,
	"nin": OpNin,
}

// Filter is a single condition. Values has exactly one element except for
// in/nin.
type Filter struct {
	Field    string
	Operator Operator
	Values   []string
}

type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

type Order struct {
	Field     string
	Direction Direction
}

// List is the parsed form of a list request.
type List struct {
	Filters []Filter
	Order   []Order
}

// Empty reports whether the list applies no filtering and no explicit order.
func (l List) Empty() bool {
	return len(l.Filters) == 0 && len(l.Order) == 0
}

// Parse parses both expressions and checks every referenced field against
// allowed.
func Parse(filterExpr, orderExpr string, allowed []string) (List, error) {
	filters, err := ParseFilters(filterExpr)
	if err != nil {
		return List{}, err
	}
	orders, err := ParseOrder(orderExpr)
	if err != nil {
		return List{}, err
	}

	fields := make(map[string]bool, len(allowed))
	for _, f := range allowed {
		fields[f] = true
	}
	for _, f := range filters {
		if !fields[f.Field] {
			return List{}, fmt.Errorf("invalid query field: %s (valid fields: %s)", f.Field, strings.Join(allowed, ", "))
		}
	}
	for _, o := range orders {
		if !fields[o.Field] {
			return List{}, fmt.Errorf("invalid order field: %s (valid fields: %s)", o.Field, strings.Join(allowed, ", "))
		}
	}

	return List{Filters: filters, Order: orders}, nil
}

func ParseFilters(expr string) ([]Filter, error) {
	var filters []Filter

	for _, cond := range strings.Split(expr, ",") {
		cond = strings.TrimSpace(cond)
		if cond == "" {
			continue
		}

		parts := strings.Split(cond, "|")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		var f Filter
		switch len(parts) {
		case 2:
			f = Filter{Field: parts[0], Operator: OpEq, Values: []string{parts[1]}}
		case 3:
			op, ok := operators[strings.ToLower(parts[1])]
			if !ok {
				return nil, fmt.Errorf("invalid operator: %s", parts[1])
			}
			f = Filter{Field: parts[0], Operator: op, Values: []string{parts[2]}}
			if op == OpIn || op == OpNin {
				f.Values = splitList(parts[2])
			}
		default:
			return nil, fmt.Errorf("invalid query format: %s (expected field|value or field|operator|value)", cond)
		}

		if f.Field == "" || len(f.Values) == 0 {
			return nil, fmt.Errorf("invalid query format: %s", cond)
		}
		filters = append(filters, f)
	}

	return filters, nil
}

func ParseOrder(expr string) ([]Order, error) {
	var orders []Order

	for _, clause := range strings.Split(expr, ",") {
		clause = strings.TrimSpace(clause)
		if clause == "" {
			continue
		}

		parts := strings.Split(clause, "|")
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid order format: %s (expected field|direction)", clause)
		}

		dir := Direction(strings.ToLower(strings.TrimSpace(parts[1])))
		if dir != Asc && dir != Desc {
			return nil, fmt.Errorf("invalid order direction: %s (expected asc or desc)", parts[1])
		}
		orders = append(orders, Order{Field: strings.TrimSpace(parts[0]), Direction: dir})
	}

	return orders, nil
}

func splitList(s string) []string {
	var values []string
	for _, v := range strings.Split(s, ";") {
		if v = strings.TrimSpace(v); v != "" {
			values = append(values, v)
		}
	}
	return values
}
