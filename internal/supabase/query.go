package supabase

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

var columnPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

type filter struct {
	column string
	op     string
	value  string
}

// Query is a typed PostgREST filter set. Column names are checked against a strict
// identifier pattern and values are always URL-encoded, so callers never
// concatenate query strings by hand.
type Query struct {
	columns string
	filters []filter
	order   []string
	limit   int
	offset  int
	limited bool
	offsetS bool
	err     error
}

func NewQuery() *Query {
	return &Query{}
}

func (q *Query) Select(columns string) *Query {
	q.columns = strings.ReplaceAll(columns, " ", "")
	return q
}

func (q *Query) where(column, op, value string) *Query {
	if !columnPattern.MatchString(column) {
		if q.err == nil {
			q.err = fmt.Errorf("invalid column name %q", column)
		}
		return q
	}
	q.filters = append(q.filters, filter{column: column, op: op, value: value})
	return q
}

func (q *Query) Eq(column string, value interface{}) *Query {
	return q.where(column, "eq", formatValue(value))
}

func (q *Query) Neq(column string, value interface{}) *Query {
	return q.where(column, "neq", formatValue(value))
}

func (q *Query) Gte(column string, value interface{}) *Query {
	return q.where(column, "gte", formatValue(value))
}

func (q *Query) Lte(column string, value interface{}) *Query {
	return q.where(column, "lte", formatValue(value))
}

// ILike matches a case-insensitive substring.
func (q *Query) ILike(column, substring string) *Query {
	return q.where(column, "ilike", "*"+strings.ReplaceAll(substring, "*", "")+"*")
}

// Is compares against null, true or false.
func (q *Query) Is(column, value string) *Query {
	return q.where(column, "is", value)
}

func (q *Query) In(column string, values []string) *Query {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
	}
	return q.where(column, "in", "("+strings.Join(quoted, ",")+")")
}

func (q *Query) Order(column string, ascending bool) *Query {
	if !columnPattern.MatchString(column) {
		if q.err == nil {
			q.err = fmt.Errorf("invalid order column %q", column)
		}
		return q
	}
	dir := "desc"
	if ascending {
		dir = "asc"
	}
	q.order = append(q.order, column+"."+dir)
	return q
}

func (q *Query) Limit(n int) *Query {
	q.limit = n
	q.limited = true
	return q
}

func (q *Query) Offset(n int) *Query {
	q.offset = n
	q.offsetS = true
	return q
}

func (q *Query) Err() error {
	if q == nil {
		return nil
	}
	return q.err
}

// Values renders the query as PostgREST parameters.
func (q *Query) Values() (url.Values, error) {
	v := url.Values{}
	if q == nil {
		return v, nil
	}
	if q.err != nil {
		return nil, q.err
	}
	if q.columns != "" {
		v.Set("select", q.columns)
	}
	for _, f := range q.filters {
		v.Add(f.column, f.op+"."+f.value)
	}
	if len(q.order) > 0 {
		v.Set("order", strings.Join(q.order, ","))
	}
	if q.limited {
		v.Set("limit", strconv.Itoa(q.limit))
	}
	if q.offsetS {
		v.Set("offset", strconv.Itoa(q.offset))
	}
	return v, nil
}

func formatValue(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
