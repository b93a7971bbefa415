// Package sqlb reads through the squirrel query builder over database/sql
// and writes with hand-written SQL in a database/sql transaction.
package sqlb

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"accessbench/bench"
	"accessbench/model"
	"accessbench/store"

	sq "github.com/Masterminds/squirrel"
)

type Path struct {
	store   *store.DB
	db      *sql.DB
	dialect store.Dialect
	builder sq.StatementBuilderType
}

func New(db *store.DB) *Path {
	return &Path{
		store:   db,
		db:      db.SQL,
		dialect: db.Dialect,
		builder: sq.StatementBuilder.PlaceholderFormat(db.Dialect.Placeholder).RunWith(db.SQL),
	}
}

func (p *Path) Kind() bench.Kind { return bench.KindQueryBuilder }

func (p *Path) latest(table, columns string, limit int) sq.SelectBuilder {
	return p.builder.Select(columns).From(table).OrderBy("created_at DESC").Limit(uint64(limit))
}

func (p *Path) ListInstructors(ctx context.Context, limit int) (int, error) {
	rows, err := p.latest("instructor", store.InstructorColumns, limit).QueryContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("list instructors: %w", err)
	}
	items, err := store.ScanInstructors(rows)
	if err != nil {
		return 0, fmt.Errorf("scan instructors: %w", err)
	}
	return len(items), nil
}

func (p *Path) ListBooks(ctx context.Context, limit int) (int, error) {
	rows, err := p.latest("book", store.BookColumns, limit).QueryContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("list books: %w", err)
	}
	items, err := store.ScanBooks(rows)
	if err != nil {
		return 0, fmt.Errorf("scan books: %w", err)
	}
	return len(items), nil
}

func (p *Path) ListInstructorGraphs(ctx context.Context, limit int) (int, error) {
	rows, err := p.latest("instructor", store.InstructorColumns, limit).QueryContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("list instructors: %w", err)
	}
	instructors, err := store.ScanInstructors(rows)
	if err != nil {
		return 0, fmt.Errorf("scan instructors: %w", err)
	}
	if len(instructors) == 0 {
		return 0, nil
	}
	ids := model.InstructorIDs(instructors)

	rows, err = p.builder.Select(store.ProfileColumns).
		From("instructor_profile").
		Where(sq.Eq{"instructor_id": ids}).
		QueryContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("load profiles: %w", err)
	}
	profiles, err := store.ScanProfiles(rows)
	if err != nil {
		return 0, fmt.Errorf("scan profiles: %w", err)
	}

	rows, err = p.builder.Select("ib.instructor_id", "ib.book_id", "b.id", "b.title", "b.isbn", "b.created_at").
		From("instructor_book ib").
		Join("book b ON b.id = ib.book_id").
		Where(sq.Eq{"ib.instructor_id": ids}).
		OrderBy("ib.instructor_id", "ib.book_id").
		QueryContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("load books: %w", err)
	}
	books, err := store.ScanBookLinks(rows)
	if err != nil {
		return 0, fmt.Errorf("scan books: %w", err)
	}

	order := "ik." + p.dialect.Quote("order")
	rows, err = p.builder.Select("ik.instructor_id", "ik.keyword_id", order, "k.id", "k.name", "k.created_at").
		From("instructor_keyword ik").
		Join("keyword k ON k.id = ik.keyword_id").
		Where(sq.Eq{"ik.instructor_id": ids}).
		OrderBy("ik.instructor_id", order).
		QueryContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("load keywords: %w", err)
	}
	keywords, err := store.ScanKeywordLinks(rows)
	if err != nil {
		return 0, fmt.Errorf("scan keywords: %w", err)
	}

	rows, err = p.builder.Select(store.CourseColumns).
		From("course").
		Where(sq.Eq{"instructor_id": ids}).
		OrderBy("id").
		QueryContext(ctx)
	if err != nil {
		return 0, fmt.Errorf("load courses: %w", err)
	}
	courses, err := store.ScanCourses(rows)
	if err != nil {
		return 0, fmt.Errorf("scan courses: %w", err)
	}

	model.Attach(instructors, profiles, books, keywords, courses)
	return len(instructors), nil
}

func (p *Path) insert(ctx context.Context, tx *sql.Tx, stmt func(n int) string, width int, args []any) ([]int64, error) {
	n := len(args) / width
	if p.dialect.Returning {
		rows, err := tx.QueryContext(ctx, p.dialect.Rebind(stmt(n)), args...)
		if err != nil {
			return nil, err
		}
		ids, err := store.ScanIDs(rows)
		if err != nil {
			return nil, err
		}
		if len(ids) != n {
			return nil, fmt.Errorf("inserted %d rows, got %d ids", n, len(ids))
		}
		slices.Sort(ids)
		return ids, nil
	}

	ids := make([]int64, 0, n)
	for i := range n {
		res, err := tx.ExecContext(ctx, p.dialect.Rebind(stmt(1)), args[i*width:(i+1)*width]...)
		if err != nil {
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// CreateGraph writes the graph with raw SQL inside one transaction.
func (p *Path) CreateGraph(ctx context.Context, seed string) (ids bench.GraphIDs, err error) {
	g := model.NewGraph(seed, time.Now())
	d := p.dialect

	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return bench.GraphIDs{}, fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
			ids = bench.GraphIDs{}
		}
	}()

	keywordIDs, err := p.insert(ctx, tx, d.InsertKeywordsSQL, 2, store.KeywordArgs(g.Keywords))
	if err != nil {
		return ids, fmt.Errorf("insert keywords: %w", err)
	}
	bookIDs, err := p.insert(ctx, tx, d.InsertBooksSQL, 3, store.BookArgs(g.Books))
	if err != nil {
		return ids, fmt.Errorf("insert books: %w", err)
	}
	instructorIDs, err := p.insert(ctx, tx, func(int) string { return d.InsertInstructorSQL() }, 5, store.InstructorArgs(g.Instructor))
	if err != nil {
		return ids, fmt.Errorf("insert instructor: %w", err)
	}
	instructorID := instructorIDs[0]

	links := model.BookLinks(instructorID, bookIDs)
	if _, err = tx.ExecContext(ctx, d.Rebind(d.InsertBookLinksSQL(len(links))), store.BookLinkArgs(links)...); err != nil {
		return ids, fmt.Errorf("link books: %w", err)
	}
	kwLinks := model.KeywordLinks(instructorID, keywordIDs)
	if _, err = tx.ExecContext(ctx, d.Rebind(d.InsertKeywordLinksSQL(len(kwLinks))), store.KeywordLinkArgs(kwLinks)...); err != nil {
		return ids, fmt.Errorf("link keywords: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return ids, fmt.Errorf("commit: %w", err)
	}
	return bench.GraphIDs{InstructorID: instructorID, KeywordIDs: keywordIDs, BookIDs: bookIDs}, nil
}

func (p *Path) delete(ctx context.Context, table string, where sq.Eq) error {
	_, err := p.builder.Delete(table).Where(where).ExecContext(ctx)
	return err
}

func (p *Path) DeleteBookLinks(ctx context.Context, instructorID int64) error {
	return p.delete(ctx, "instructor_book", sq.Eq{"instructor_id": instructorID})
}

func (p *Path) DeleteKeywordLinks(ctx context.Context, instructorID int64) error {
	return p.delete(ctx, "instructor_keyword", sq.Eq{"instructor_id": instructorID})
}

func (p *Path) DeleteInstructor(ctx context.Context, id int64) error {
	return p.delete(ctx, "instructor", sq.Eq{"id": id})
}

func (p *Path) DeleteKeywords(ctx context.Context, ids []int64) error {
	return p.delete(ctx, "keyword", sq.Eq{"id": ids})
}

func (p *Path) DeleteBooks(ctx context.Context, ids []int64) error {
	return p.delete(ctx, "book", sq.Eq{"id": ids})
}

func (p *Path) Close() error {
	return p.store.Close()
}
