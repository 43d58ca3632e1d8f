package validation

import (
	"sort"
	"strings"
)

// Canonical field names, as they appear in responses and rejection details.
const (
	FieldName      = "name"
	FieldAge       = "age"
	FieldStateCode = "state_code"
)

// fieldAliases lists, per canonical field, the accepted body keys in priority
// order. The mobile front end sends the Portuguese capitalised keys, older
// drafts sent them lowercase.
var fieldAliases = map[string][]string{
	FieldName:      {"name", "Nome", "nome"},
	FieldAge:       {"age", "Idade", "idade"},
	FieldStateCode: {"state_code", "UF", "uf"},
}

// resolve returns the value for field from raw. Exact alias matches win in
// table order; failing that, any key equal to an alias ignoring case is used,
// lexicographically smallest key first. A nil value counts as absent.
func resolve(raw map[string]any, field string) (any, bool) {
	aliases := fieldAliases[field]

	for _, alias := range aliases {
		if v, ok := raw[alias]; ok && v != nil {
			return v, true
		}
	}

	var folded []string
	for key, v := range raw {
		if v == nil {
			continue
		}
		for _, alias := range aliases {
			if strings.EqualFold(key, alias) {
				folded = append(folded, key)
				break
			}
		}
	}
	if len(folded) == 0 {
		return nil, false
	}

	sort.Strings(folded)
	return raw[folded[0]], true
}
