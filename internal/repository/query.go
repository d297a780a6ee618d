package repository

import (
	"fmt"
	"strings"

	"go-gin-event-registration/internal/model"
)

// listQuery assembles a filtered, sorted SELECT from request parameters.
// Column names never come from input: sort fields are looked up in sortable.
type listQuery struct {
	base     string
	where    []string
	args     []interface{}
	sortable map[string]string
	natural  string
}

func newListQuery(base string, sortable map[string]string, natural string) *listQuery {
	return &listQuery{
		base:     base,
		sortable: sortable,
		natural:  natural,
	}
}

func (q *listQuery) arg(value interface{}) string {
	q.args = append(q.args, value)
	return fmt.Sprintf("$%d", len(q.args))
}

// Where adds a condition; each %s in cond is replaced with a placeholder for the matching value.
func (q *listQuery) Where(cond string, values ...interface{}) *listQuery {
	placeholders := make([]interface{}, 0, len(values))
	for _, v := range values {
		placeholders = append(placeholders, q.arg(v))
	}
	q.where = append(q.where, fmt.Sprintf(cond, placeholders...))
	return q
}

// Search adds a case-insensitive substring match over columns, OR-ed together.
func (q *listQuery) Search(term string, columns ...string) *listQuery {
	if term == "" || len(columns) == 0 {
		return q
	}
	p := q.arg("%" + term + "%")
	parts := make([]string, 0, len(columns))
	for _, c := range columns {
		parts = append(parts, fmt.Sprintf("%s ILIKE %s", c, p))
	}
	q.where = append(q.where, "("+strings.Join(parts, " OR ")+")")
	return q
}

func (q *listQuery) SQL(params model.ListParams) (string, []interface{}) {
	var sb strings.Builder
	sb.WriteString(q.base)
	if len(q.where) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(q.where, " AND "))
	}
	sb.WriteString(" ORDER BY ")
	sb.WriteString(q.orderBy(params))
	return sb.String(), q.args
}

func (q *listQuery) orderBy(params model.ListParams) string {
	column, ok := q.sortable[params.SortBy]
	if !ok {
		return q.natural
	}
	direction := "ASC"
	if params.SortDesc {
		direction = "DESC"
	}
	// tie-break on the natural order so equal keys keep a stable position
	return fmt.Sprintf("%s %s NULLS LAST, %s", column, direction, q.natural)
}
