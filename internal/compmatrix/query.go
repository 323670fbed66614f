package compmatrix

import (
	"strings"
)

// installedSum counts the currently installed rows of a group.
const installedSum = "SUM(CASE WHEN installed THEN 1 ELSE 0 END)"

// Query is a SQL statement with ? placeholders and its arguments in
// placeholder order.
type Query struct {
	SQL  string
	Args []any
}

// queryBuilder accumulates SQL text and arguments side by side so that
// argument order always follows placeholder order.
type queryBuilder struct {
	sb   strings.Builder
	args []any
}

func (b *queryBuilder) write(sql string, args ...any) *queryBuilder {
	b.sb.WriteString(sql)
	b.args = append(b.args, args...)
	return b
}

// notIn writes "col NOT IN (?, ...)", or an always-true predicate when ids
// is empty.
func (b *queryBuilder) notIn(col string, ids []int64) *queryBuilder {
	if len(ids) == 0 {
		return b.write("TRUE")
	}
	b.write(col + " NOT IN (")
	for i, id := range ids {
		if i > 0 {
			b.write(", ")
		}
		b.write("?", id)
	}
	return b.write(")")
}

// embed writes a sub-query in parentheses.
func (b *queryBuilder) embed(q Query) *queryBuilder {
	return b.write("("+q.SQL+")", q.Args...)
}

func (b *queryBuilder) query() Query {
	return Query{SQL: b.sb.String(), Args: b.args}
}

// unionApps deduplicates the app ids of several sub-queries.
func unionApps(parts ...Query) Query {
	var b queryBuilder
	b.write("SELECT app_id FROM (")
	for i, p := range parts {
		if i > 0 {
			b.write(" UNION ALL ")
		}
		b.write(p.SQL, p.Args...)
	}
	b.write(") AS unioned GROUP BY app_id")
	return b.query()
}

// idleApps selects apps that have association rows but none installed.
func idleApps() string {
	return "SELECT app_id FROM app_sdk GROUP BY app_id HAVING " + installedSum + " = 0"
}
