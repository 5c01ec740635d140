package repo

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// dialect holds the SQL differences between the supported drivers.
type dialect struct {
	name string
	// like is the case-insensitive pattern match operator.
	like string
	// idArg converts an id into the argument type the driver compares
	// against the id column.
	idArg func(uuid.UUID) any
}

var (
	postgresDialect = dialect{
		name:  "postgres",
		like:  "ILIKE",
		idArg: func(id uuid.UUID) any { return id },
	}
	// SQLite LIKE is case-insensitive for ASCII only. Ids are stored as text.
	sqliteDialect = dialect{
		name:  "sqlite",
		like:  "LIKE",
		idArg: func(id uuid.UUID) any { return id.String() },
	}
)

// namedArg is a placeholder name and its value. Both drivers accept @name
// placeholders.
type namedArg struct {
	name  string
	value any
}

// statement is a built SELECT and its arguments.
type statement struct {
	sql  string
	args []namedArg
}

// buildSelect renders a query against table t for dialect d.
func buildSelect(d dialect, t *table, q Query) (statement, error) {
	var (
		st    statement
		conds []string
	)
	for _, p := range q.AnyOf {
		cond, arg, ok, err := buildPredicate(d, t, p, len(st.args))
		if err != nil {
			return statement{}, err
		}
		if !ok {
			continue
		}
		conds = append(conds, cond)
		st.args = append(st.args, arg)
	}

	// Every predicate was a no-op (e.g. no tokens): the query matches nothing
	// rather than degrading into a full scan.
	if len(q.AnyOf) > 0 && len(conds) == 0 {
		conds = append(conds, "1 = 0")
	}

	var b strings.Builder
	b.WriteString("SELECT ")
	b.WriteString(t.columns)
	b.WriteString(" FROM ")
	b.WriteString(t.from)
	if len(conds) > 0 {
		b.WriteString(" WHERE (")
		b.WriteString(strings.Join(conds, " OR "))
		b.WriteString(")")
	}
	switch q.Order {
	case OrderByName:
		fmt.Fprintf(&b, " ORDER BY lower(COALESCE(%s, '')), %s", t.fields[FieldName], t.id)
	case OrderByRecent:
		if t.recent == "" {
			return statement{}, fmt.Errorf("repo: %s has no date to order by", t.kind)
		}
		fmt.Fprintf(&b, " ORDER BY %s, %s", t.recent, t.id)
	default:
		return statement{}, fmt.Errorf("repo: unsupported order %d", q.Order)
	}
	if q.Limit > 0 {
		fmt.Fprintf(&b, " LIMIT %d", q.Limit)
	}
	st.sql = b.String()
	return st, nil
}

func buildPredicate(d dialect, t *table, p Predicate, n int) (string, namedArg, bool, error) {
	name := fmt.Sprintf("p%d", n)
	if p.Op == OpIDEquals {
		return fmt.Sprintf("%s = @%s", t.id, name), namedArg{name, d.idArg(p.ID)}, true, nil
	}

	col, ok := t.fields[p.Field]
	if !ok {
		return "", namedArg{}, false, fmt.Errorf("repo: %s has no field %q", t.kind, p.Field)
	}

	switch p.Op {
	case OpContains:
		return fmt.Sprintf(`COALESCE(%s, '') %s @%s ESCAPE '\'`, col, d.like, name),
			namedArg{name, containsPattern(p.Value)}, true, nil
	case OpTokens:
		if len(p.Tokens) == 0 {
			return "", namedArg{}, false, nil
		}
		return fmt.Sprintf(`COALESCE(%s, '') %s @%s ESCAPE '\'`, col, d.like, name),
			namedArg{name, tokensPattern(p.Tokens)}, true, nil
	case OpEquals:
		return fmt.Sprintf("%s = @%s", col, name), namedArg{name, p.Value}, true, nil
	case OpRefEquals:
		return fmt.Sprintf("%s = @%s", col, name), namedArg{name, d.idArg(p.ID)}, true, nil
	}
	return "", namedArg{}, false, fmt.Errorf("repo: unsupported operator %d", p.Op)
}
