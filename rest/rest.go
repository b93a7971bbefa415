// Package rest reaches the store through a PostgREST endpoint. PostgREST has
// no transaction spanning several requests, so a failed write returns the
// ids it already created.
package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"accessbench/bench"
	"accessbench/model"
	"accessbench/store"
)

const graphSelect = store.InstructorColumns +
	",profile:instructor_profile(" + store.ProfileColumns + ")" +
	",books:instructor_book(instructor_id,book_id,book:book(" + store.BookColumns + "))" +
	",keywords:instructor_keyword(instructor_id,keyword_id,order,keyword:keyword(" + store.KeywordColumns + "))" +
	",courses:course(" + store.CourseColumns + ")"

// APIError is a non-2xx PostgREST response.
type APIError struct {
	Method string
	Table  string
	Status int
	Body   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s /%s: status %d: %s", e.Method, e.Table, e.Status, e.Body)
}

type Path struct {
	base   string
	key    string
	client *http.Client
}

func New(baseURL, apiKey string, timeout time.Duration) *Path {
	return &Path{
		base: strings.TrimRight(baseURL, "/"),
		key:  apiKey,
		client: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				Proxy:               http.ProxyFromEnvironment,
				MaxIdleConnsPerHost: 4,
				IdleConnTimeout:     30 * time.Second,
			},
		},
	}
}

func (p *Path) Kind() bench.Kind { return bench.KindREST }

func (p *Path) do(ctx context.Context, method, table string, query url.Values, body any, prefer string, dst any) error {
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s: %w", table, err)
		}
		r = bytes.NewReader(raw)
	}

	u := p.base + "/" + table
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, r)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}
	if p.key != "" {
		req.Header.Set("apikey", p.key)
		req.Header.Set("Authorization", "Bearer "+p.key)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &APIError{Method: method, Table: table, Status: resp.StatusCode, Body: strings.TrimSpace(string(msg))}
	}
	if dst == nil {
		_, err = io.Copy(io.Discard, resp.Body)
		return err
	}
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		return fmt.Errorf("decode %s: %w", table, err)
	}
	return nil
}

func latest(columns string, limit int) url.Values {
	return url.Values{
		"select": {strings.ReplaceAll(columns, " ", "")},
		"order":  {"created_at.desc"},
		"limit":  {strconv.Itoa(limit)},
	}
}

func (p *Path) ListInstructors(ctx context.Context, limit int) (int, error) {
	var rows []model.Instructor
	if err := p.do(ctx, http.MethodGet, "instructor", latest(store.InstructorColumns, limit), nil, "", &rows); err != nil {
		return 0, fmt.Errorf("list instructors: %w", err)
	}
	return len(rows), nil
}

func (p *Path) ListBooks(ctx context.Context, limit int) (int, error) {
	var rows []model.Book
	if err := p.do(ctx, http.MethodGet, "book", latest(store.BookColumns, limit), nil, "", &rows); err != nil {
		return 0, fmt.Errorf("list books: %w", err)
	}
	return len(rows), nil
}

// ListInstructorGraphs fetches instructors with every relation embedded in
// one request.
func (p *Path) ListInstructorGraphs(ctx context.Context, limit int) (int, error) {
	q := latest(graphSelect, limit)
	q.Set("books.order", "book_id.asc")
	q.Set("keywords.order", "order.asc")
	q.Set("courses.order", "id.asc")

	var rows []model.Instructor
	if err := p.do(ctx, http.MethodGet, "instructor", q, nil, "", &rows); err != nil {
		return 0, fmt.Errorf("list instructor graphs: %w", err)
	}
	return len(rows), nil
}

func (p *Path) insert(ctx context.Context, table string, rows any, want int) ([]int64, error) {
	var out []model.IDRow
	q := url.Values{"select": {"id"}}
	if err := p.do(ctx, http.MethodPost, table, q, rows, "return=representation", &out); err != nil {
		return nil, err
	}
	if len(out) != want {
		return model.IDs(out), fmt.Errorf("inserted %d rows, got %d ids", want, len(out))
	}
	return model.IDs(out), nil
}

// CreateGraph writes the graph with one request per table. On failure the
// returned ids hold whatever was created before the failing request.
func (p *Path) CreateGraph(ctx context.Context, seed string) (bench.GraphIDs, error) {
	g := model.NewGraph(seed, time.Now())

	var ids bench.GraphIDs
	var err error

	if ids.KeywordIDs, err = p.insert(ctx, "keyword", g.Keywords, len(g.Keywords)); err != nil {
		return ids, fmt.Errorf("insert keywords: %w", err)
	}
	if ids.BookIDs, err = p.insert(ctx, "book", g.Books, len(g.Books)); err != nil {
		return ids, fmt.Errorf("insert books: %w", err)
	}
	instructorIDs, err := p.insert(ctx, "instructor", []model.Instructor{g.Instructor}, 1)
	if len(instructorIDs) > 0 {
		ids.InstructorID = instructorIDs[0]
	}
	if err != nil {
		return ids, fmt.Errorf("insert instructor: %w", err)
	}

	links := model.BookLinks(ids.InstructorID, ids.BookIDs)
	if err := p.do(ctx, http.MethodPost, "instructor_book", nil, links, "return=minimal", nil); err != nil {
		return ids, fmt.Errorf("link books: %w", err)
	}
	kwLinks := model.KeywordLinks(ids.InstructorID, ids.KeywordIDs)
	if err := p.do(ctx, http.MethodPost, "instructor_keyword", nil, kwLinks, "return=minimal", nil); err != nil {
		return ids, fmt.Errorf("link keywords: %w", err)
	}
	return ids, nil
}

func eq(id int64) string { return "eq." + strconv.FormatInt(id, 10) }

func in(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return "in.(" + strings.Join(parts, ",") + ")"
}

func (p *Path) remove(ctx context.Context, table, column, filter string) error {
	return p.do(ctx, http.MethodDelete, table, url.Values{column: {filter}}, nil, "return=minimal", nil)
}

func (p *Path) DeleteBookLinks(ctx context.Context, instructorID int64) error {
	return p.remove(ctx, "instructor_book", "instructor_id", eq(instructorID))
}

func (p *Path) DeleteKeywordLinks(ctx context.Context, instructorID int64) error {
	return p.remove(ctx, "instructor_keyword", "instructor_id", eq(instructorID))
}

func (p *Path) DeleteInstructor(ctx context.Context, id int64) error {
	return p.remove(ctx, "instructor", "id", eq(id))
}

func (p *Path) DeleteKeywords(ctx context.Context, ids []int64) error {
	return p.remove(ctx, "keyword", "id", in(ids))
}

func (p *Path) DeleteBooks(ctx context.Context, ids []int64) error {
	return p.remove(ctx, "book", "id", in(ids))
}

func (p *Path) Close() error {
	p.client.CloseIdleConnections()
	return nil
}
