package supabase

import (
	"context"
	"fmt"
	"net/http"
)

func tablePath(table string) string {
	return "/rest/v1/" + table
}

// Select reads rows from a table with the service-role key.
func (c *Client) Select(ctx context.Context, table string, q *Query) (*Response, error) {
	values, err := q.Values()
	if err != nil {
		return nil, err
	}
	return c.do(ctx, request{
		method: http.MethodGet,
		path:   tablePath(table),
		query:  values,
		key:    serviceKey,
	})
}

// SelectWithCount is Select plus an exact row count in the Content-Range header.
func (c *Client) SelectWithCount(ctx context.Context, table string, q *Query) (*Response, error) {
	values, err := q.Values()
	if err != nil {
		return nil, err
	}
	return c.do(ctx, request{
		method:  http.MethodGet,
		path:    tablePath(table),
		query:   values,
		key:     serviceKey,
		headers: map[string]string{"Prefer": "count=exact"},
	})
}

// Count returns the number of rows matching q without transferring them.
func (c *Client) Count(ctx context.Context, table string, q *Query) (int, error) {
	if q == nil {
		q = NewQuery()
	}
	values, err := q.Values()
	if err != nil {
		return 0, err
	}
	if values.Get("select") == "" {
		values.Set("select", "id")
	}
	resp, err := c.do(ctx, request{
		method:  http.MethodHead,
		path:    tablePath(table),
		query:   values,
		key:     serviceKey,
		headers: map[string]string{"Prefer": "count=exact"},
	})
	if err != nil {
		return 0, err
	}
	total, ok := resp.Total()
	if !ok {
		return 0, fmt.Errorf("backend returned no usable Content-Range for %s", table)
	}
	return total, nil
}

// Insert writes rows and asks for the stored representation back.
func (c *Client) Insert(ctx context.Context, table string, rows interface{}) (*Response, error) {
	body, err := jsonBody(rows)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, request{
		method:      http.MethodPost,
		path:        tablePath(table),
		body:        body,
		contentType: "application/json",
		key:         serviceKey,
		headers:     map[string]string{"Prefer": "return=representation"},
	})
}

func (c *Client) Update(ctx context.Context, table string, q *Query, patch interface{}) (*Response, error) {
	values, err := q.Values()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("refusing unfiltered update on %s", table)
	}
	body, err := jsonBody(patch)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, request{
		method:      http.MethodPatch,
		path:        tablePath(table),
		query:       values,
		body:        body,
		contentType: "application/json",
		key:         serviceKey,
		headers:     map[string]string{"Prefer": "return=representation"},
	})
}

func (c *Client) Delete(ctx context.Context, table string, q *Query) (*Response, error) {
	values, err := q.Values()
	if err != nil {
		return nil, err
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("refusing unfiltered delete on %s", table)
	}
	return c.do(ctx, request{
		method:  http.MethodDelete,
		path:    tablePath(table),
		query:   values,
		key:     serviceKey,
		headers: map[string]string{"Prefer": "return=representation"},
	})
}
