// Package supabasetest runs an in-memory stand-in for the backend's REST, Auth
// and Storage HTTP APIs, good enough for handler and repository tests.
package supabasetest

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Row map[string]interface{}

type authUser struct {
	ID       string
	Email    string
	Password string
	Metadata map[string]interface{}
}

type failure struct {
	status int
	body   string
}

// Server is a fake backend. All methods are safe for concurrent use.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	tables   map[string][]Row
	unique   map[string][][]string
	users    map[string]*authUser
	tokens   map[string]string
	refresh  map[string]string
	objects  map[string][]byte
	requests []*http.Request
	fail     *failure
	failPath string
}

func NewServer() *Server {
	s := &Server{
		tables:  make(map[string][]Row),
		unique:  make(map[string][][]string),
		users:   make(map[string]*authUser),
		tokens:  make(map[string]string),
		refresh: make(map[string]string),
		objects: make(map[string][]byte),
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// Seed appends rows to table, filling id and created_at when absent.
func (s *Server) Seed(table string, rows ...Row) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range rows {
		s.tables[table] = append(s.tables[table], withDefaults(r))
	}
}

func (s *Server) Rows(table string) []Row {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Row, len(s.tables[table]))
	for i, r := range s.tables[table] {
		out[i] = copyRow(r)
	}
	return out
}

// Unique declares a unique index; violating inserts answer 409 with code 23505.
func (s *Server) Unique(table string, columns ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.unique[table] = append(s.unique[table], columns)
}

// AddUser registers an auth user and returns a valid access token for it.
func (s *Server) AddUser(id, email, password string, metadata map[string]interface{}) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[email] = &authUser{ID: id, Email: email, Password: password, Metadata: metadata}
	token := "token-" + id
	s.tokens[token] = email
	return token
}

func (s *Server) Object(bucket, name string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.objects[bucket+"/"+name]
	return b, ok
}

// FailNext makes the next request whose path starts with pathPrefix answer status and body.
func (s *Server) FailNext(pathPrefix string, status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = &failure{status: status, body: body}
	s.failPath = pathPrefix
}

func (s *Server) Requests() []*http.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*http.Request(nil), s.requests...)
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	body, _ := io.ReadAll(r.Body)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r.Clone(r.Context()))

	if s.fail != nil && strings.HasPrefix(r.URL.Path, s.failPath) {
		f := s.fail
		s.fail = nil
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(f.body))
		return
	}

	switch {
	case strings.HasPrefix(r.URL.Path, "/rest/v1/"):
		s.serveREST(w, r, strings.TrimPrefix(r.URL.Path, "/rest/v1/"), body)
	case strings.HasPrefix(r.URL.Path, "/auth/v1/"):
		s.serveAuth(w, r, strings.TrimPrefix(r.URL.Path, "/auth/v1/"), body)
	case strings.HasPrefix(r.URL.Path, "/storage/v1/object/"):
		s.serveStorage(w, r, strings.TrimPrefix(r.URL.Path, "/storage/v1/object/"), body)
	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "not found"})
	}
}

func (s *Server) serveREST(w http.ResponseWriter, r *http.Request, table string, body []byte) {
	q := r.URL.Query()
	match := func(row Row) bool { return matches(row, q) }

	switch r.Method {
	case http.MethodGet, http.MethodHead:
		var selected []Row
		for _, row := range s.tables[table] {
			if match(row) {
				selected = append(selected, row)
			}
		}
		sortRows(selected, q.Get("order"))
		total := len(selected)
		offset, _ := strconv.Atoi(q.Get("offset"))
		if offset > len(selected) {
			offset = len(selected)
		}
		selected = selected[offset:]
		if l := q.Get("limit"); l != "" {
			if n, err := strconv.Atoi(l); err == nil && n < len(selected) {
				selected = selected[:n]
			}
		}
		if strings.Contains(r.Header.Get("Prefer"), "count=exact") {
			if len(selected) == 0 {
				w.Header().Set("Content-Range", fmt.Sprintf("*/%d", total))
			} else {
				w.Header().Set("Content-Range", fmt.Sprintf("%d-%d/%d", offset, offset+len(selected)-1, total))
			}
		}
		out := make([]Row, 0, len(selected))
		for _, row := range selected {
			out = append(out, project(row, q.Get("select")))
		}
		writeJSON(w, http.StatusOK, out)

	case http.MethodPost:
		rows, err := decodeRows(body)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"code": "PGRST102", "message": err.Error()})
			return
		}
		for i := range rows {
			rows[i] = withDefaults(rows[i])
			if cols, dup := s.violates(table, rows[i]); dup {
				writeJSON(w, http.StatusConflict, map[string]string{
					"code":    "23505",
					"message": fmt.Sprintf("duplicate key value violates unique constraint on (%s)", strings.Join(cols, ", ")),
				})
				return
			}
		}
		s.tables[table] = append(s.tables[table], rows...)
		writeJSON(w, http.StatusCreated, rows)

	case http.MethodPatch:
		var patch Row
		if err := json.Unmarshal(body, &patch); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"message": err.Error()})
			return
		}
		updated := []Row{}
		for _, row := range s.tables[table] {
			if match(row) {
				for k, v := range patch {
					row[k] = v
				}
				updated = append(updated, copyRow(row))
			}
		}
		writeJSON(w, http.StatusOK, updated)

	case http.MethodDelete:
		kept := s.tables[table][:0]
		removed := []Row{}
		for _, row := range s.tables[table] {
			if match(row) {
				removed = append(removed, row)
			} else {
				kept = append(kept, row)
			}
		}
		s.tables[table] = kept
		writeJSON(w, http.StatusOK, removed)

	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "method not allowed"})
	}
}

func (s *Server) violates(table string, row Row) ([]string, bool) {
	for _, cols := range s.unique[table] {
		for _, existing := range s.tables[table] {
			same := true
			for _, c := range cols {
				if fmt.Sprint(existing[c]) != fmt.Sprint(row[c]) {
					same = false
					break
				}
			}
			if same {
				return cols, true
			}
		}
	}
	return nil, false
}

func (s *Server) serveAuth(w http.ResponseWriter, r *http.Request, path string, body []byte) {
	var in map[string]interface{}
	_ = json.Unmarshal(body, &in)
	str := func(k string) string { v, _ := in[k].(string); return v }

	switch {
	case path == "health":
		writeJSON(w, http.StatusOK, map[string]string{"name": "fake", "version": "test"})

	case path == "token" && r.URL.Query().Get("grant_type") == "password":
		u, ok := s.users[str("email")]
		if !ok || u.Password != str("password") {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant", "error_description": "Invalid login credentials"})
			return
		}
		writeJSON(w, http.StatusOK, s.session(u))

	case path == "token" && r.URL.Query().Get("grant_type") == "refresh_token":
		email, ok := s.refresh[str("refresh_token")]
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid_grant", "error_description": "Invalid Refresh Token"})
			return
		}
		writeJSON(w, http.StatusOK, s.session(s.users[email]))

	case path == "signup":
		email := str("email")
		if _, exists := s.users[email]; exists {
			writeJSON(w, http.StatusUnprocessableEntity, map[string]interface{}{"code": 422, "msg": "User already registered"})
			return
		}
		meta, _ := in["data"].(map[string]interface{})
		u := &authUser{ID: uuid.NewString(), Email: email, Password: str("password"), Metadata: meta}
		s.users[email] = u
		writeJSON(w, http.StatusOK, s.userJSON(u))

	case path == "user":
		u := s.bearerUser(r)
		if u == nil {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"code": 401, "msg": "invalid JWT"})
			return
		}
		writeJSON(w, http.StatusOK, s.userJSON(u))

	case path == "logout":
		token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if _, ok := s.tokens[token]; !ok {
			writeJSON(w, http.StatusUnauthorized, map[string]interface{}{"code": 401, "msg": "invalid JWT"})
			return
		}
		delete(s.tokens, token)
		w.WriteHeader(http.StatusNoContent)

	default:
		writeJSON(w, http.StatusNotFound, map[string]string{"msg": "not found"})
	}
}

func (s *Server) bearerUser(r *http.Request) *authUser {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	email, ok := s.tokens[token]
	if !ok {
		return nil
	}
	return s.users[email]
}

func (s *Server) session(u *authUser) map[string]interface{} {
	access := "token-" + u.ID
	refresh := "refresh-" + uuid.NewString()
	s.tokens[access] = u.Email
	s.refresh[refresh] = u.Email
	return map[string]interface{}{
		"access_token":  access,
		"token_type":    "bearer",
		"expires_in":    3600,
		"refresh_token": refresh,
		"user":          s.userJSON(u),
	}
}

func (s *Server) userJSON(u *authUser) map[string]interface{} {
	return map[string]interface{}{
		"id":            u.ID,
		"email":         u.Email,
		"role":          "authenticated",
		"user_metadata": u.Metadata,
	}
}

func (s *Server) serveStorage(w http.ResponseWriter, r *http.Request, key string, body []byte) {
	key, _ = url.PathUnescape(key)
	switch r.Method {
	case http.MethodPost, http.MethodPut:
		if _, exists := s.objects[key]; exists && r.Header.Get("x-upsert") != "true" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"statusCode": "409", "error": "Duplicate", "message": "The resource already exists"})
			return
		}
		s.objects[key] = body
		writeJSON(w, http.StatusOK, map[string]string{"Key": key})
	case http.MethodDelete:
		if _, exists := s.objects[key]; !exists {
			writeJSON(w, http.StatusNotFound, map[string]string{"statusCode": "404", "error": "not_found", "message": "Object not found"})
			return
		}
		delete(s.objects, key)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Successfully deleted"})
	default:
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"message": "method not allowed"})
	}
}

var reserved = map[string]bool{"select": true, "order": true, "limit": true, "offset": true}

func matches(row Row, q url.Values) bool {
	for col, conds := range q {
		if reserved[col] {
			continue
		}
		for _, cond := range conds {
			op, val, _ := strings.Cut(cond, ".")
			got, present := row[col]
			gotS := fmt.Sprint(got)
			switch op {
			case "eq":
				if !present || gotS != val {
					return false
				}
			case "neq":
				if present && gotS == val {
					return false
				}
			case "is":
				switch val {
				case "null":
					if present && got != nil {
						return false
					}
				default:
					if gotS != val {
						return false
					}
				}
			case "in":
				found := false
				for _, m := range strings.Split(strings.Trim(val, "()"), ",") {
					if strings.Trim(m, `"`) == gotS {
						found = true
					}
				}
				if !found {
					return false
				}
			case "ilike":
				needle := strings.ToLower(strings.Trim(val, "*"))
				if !strings.Contains(strings.ToLower(gotS), needle) {
					return false
				}
			case "gte":
				if gotS < val {
					return false
				}
			case "lte":
				if gotS > val {
					return false
				}
			}
		}
	}
	return true
}

func sortRows(rows []Row, order string) {
	if order == "" {
		return
	}
	col, dir, _ := strings.Cut(strings.Split(order, ",")[0], ".")
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := fmt.Sprint(rows[i][col]), fmt.Sprint(rows[j][col])
		if dir == "desc" {
			return a > b
		}
		return a < b
	})
}

func project(row Row, sel string) Row {
	if sel == "" || sel == "*" {
		return copyRow(row)
	}
	out := Row{}
	for _, c := range strings.Split(sel, ",") {
		if c == "*" {
			return copyRow(row)
		}
		if v, ok := row[c]; ok {
			out[c] = v
		}
	}
	return out
}

func decodeRows(body []byte) ([]Row, error) {
	trimmed := strings.TrimSpace(string(body))
	if strings.HasPrefix(trimmed, "[") {
		var rows []Row
		err := json.Unmarshal(body, &rows)
		return rows, err
	}
	var row Row
	if err := json.Unmarshal(body, &row); err != nil {
		return nil, err
	}
	return []Row{row}, nil
}

func withDefaults(r Row) Row {
	out := copyRow(r)
	if v, ok := out["id"]; !ok || v == nil || v == "" {
		out["id"] = uuid.NewString()
	}
	if _, ok := out["created_at"]; !ok {
		out["created_at"] = time.Now().UTC().Format(time.RFC3339Nano)
	}
	return out
}

func copyRow(r Row) Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
