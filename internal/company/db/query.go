package db

import (
	"strings"
)

// Sortable columns per entity, keyed by lower-cased JSON property name.
var (
	companyColumns = map[string]string{
		"name":    "name",
		"address": "address",
		"country": "country",
	}
	employeeColumns = map[string]string{
		"name":     "name",
		"age":      "age",
		"position": "position",
	}
)

// orderClause turns an orderBy query such as "name desc, age" into an
// ORDER BY clause restricted to the given columns. Unknown properties are
// skipped; if nothing remains, fallback is used.
func orderClause(orderBy string, columns map[string]string, fallback string) string {
	var parts []string
	for _, term := range strings.Split(orderBy, ",") {
		fields := strings.Fields(term)
		if len(fields) == 0 {
			continue
		}
		column, ok := columns[strings.ToLower(fields[0])]
		if !ok {
			continue
		}
		direction := "asc"
		if len(fields) > 1 && strings.EqualFold(fields[1], "desc") {
			direction = "desc"
		}
		parts = append(parts, column+" "+direction)
	}
	if len(parts) == 0 {
		return fallback
	}
	return strings.Join(parts, ", ")
}

// likePattern builds a case-insensitive contains pattern for a search term.
func likePattern(term string) string {
	return "%" + strings.ToLower(strings.TrimSpace(term)) + "%"
}
