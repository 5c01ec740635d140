package repo

import (
	"strings"

	"github.com/google/uuid"
)

// Op is a predicate operator.
type Op int

const (
	// OpContains matches when the field contains Value, case-insensitively.
	OpContains Op = iota
	// OpTokens matches when the field contains every token in order,
	// case-insensitively, with anything in between.
	OpTokens
	// OpEquals matches when the field equals Value exactly.
	OpEquals
	// OpIDEquals matches the record whose id is ID. Field is ignored.
	OpIDEquals
	// OpRefEquals matches records whose reference field holds ID.
	OpRefEquals
)

// Order selects the sort applied to a query's results.
type Order int

const (
	// OrderByName sorts by display name, then id.
	OrderByName Order = iota
	// OrderByRecent sorts newest first. Only collections with a date
	// support it.
	OrderByRecent
)

// Predicate is one condition on a logical collection field.
type Predicate struct {
	Field  string
	Op     Op
	Value  string
	Tokens []string
	ID     uuid.UUID
}

// Query selects records matching any of its predicates, ordered by display
// name then id unless Order says otherwise. An empty AnyOf selects every
// record. Limit <= 0 means no cap.
type Query struct {
	AnyOf []Predicate
	Order Order
	Limit int
}

// Contains builds an OpContains predicate.
func Contains(field, value string) Predicate {
	return Predicate{Field: field, Op: OpContains, Value: value}
}

// Tokens builds an OpTokens predicate.
func Tokens(field string, tokens []string) Predicate {
	return Predicate{Field: field, Op: OpTokens, Tokens: tokens}
}

// Equals builds an OpEquals predicate.
func Equals(field, value string) Predicate {
	return Predicate{Field: field, Op: OpEquals, Value: value}
}

// IDEquals builds an OpIDEquals predicate.
func IDEquals(id uuid.UUID) Predicate {
	return Predicate{Op: OpIDEquals, ID: id}
}

// RefEquals builds an OpRefEquals predicate on a reference field.
func RefEquals(field string, id uuid.UUID) Predicate {
	return Predicate{Field: field, Op: OpRefEquals, ID: id}
}

// ContainsAny returns one OpContains predicate per field, for OR-combined
// substring search across several fields.
func ContainsAny(value string, fields ...string) []Predicate {
	preds := make([]Predicate, 0, len(fields))
	for _, f := range fields {
		preds = append(preds, Contains(f, value))
	}
	return preds
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes LIKE wildcards so user input matches literally.
// Patterns built from it must use ESCAPE '\'.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// containsPattern returns %s% with s escaped.
func containsPattern(s string) string {
	return "%" + escapeLike(s) + "%"
}

// tokensPattern returns %t1%t2%...% with every token escaped.
func tokensPattern(tokens []string) string {
	var b strings.Builder
	b.WriteByte('%')
	for _, t := range tokens {
		b.WriteString(escapeLike(t))
		b.WriteByte('%')
	}
	return b.String()
}
