// Package pgnative runs the scenarios on a pgx pool with hand-written SQL.
// The nested read is one statement that aggregates each relation to JSON.
package pgnative

import (
	"context"
	"errors"
	"fmt"
	"time"

	"accessbench/bench"
	"accessbench/model"
	"accessbench/store"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const graphSQL = `
SELECT i.id, i.slug, i.external_id, i.name, i.bio, i.created_at,
	(SELECT row_to_json(p)
		FROM (SELECT instructor_id, website, headline
			FROM instructor_profile WHERE instructor_id = i.id) p) AS profile,
	COALESCE((SELECT json_agg(json_build_object(
			'instructor_id', ib.instructor_id,
			'book_id', ib.book_id,
			'book', json_build_object('id', b.id, 'title', b.title, 'isbn', b.isbn, 'created_at', b.created_at)
		) ORDER BY ib.book_id)
		FROM instructor_book ib JOIN book b ON b.id = ib.book_id
		WHERE ib.instructor_id = i.id), '[]') AS books,
	COALESCE((SELECT json_agg(json_build_object(
			'instructor_id', ik.instructor_id,
			'keyword_id', ik.keyword_id,
			'order', ik."order",
			'keyword', json_build_object('id', k.id, 'name', k.name, 'created_at', k.created_at)
		) ORDER BY ik."order")
		FROM instructor_keyword ik JOIN keyword k ON k.id = ik.keyword_id
		WHERE ik.instructor_id = i.id), '[]') AS keywords,
	COALESCE((SELECT json_agg(c ORDER BY c.id)
		FROM (SELECT id, instructor_id, title, created_at
			FROM course WHERE instructor_id = i.id) c), '[]') AS courses
FROM (SELECT id, slug, external_id, name, bio, created_at
	FROM instructor ORDER BY created_at DESC LIMIT $1) i
ORDER BY i.created_at DESC`

type Path struct {
	store   *store.DB
	pool    *pgxpool.Pool
	dialect store.Dialect
}

func New(db *store.DB) (*Path, error) {
	if db.Pool == nil {
		return nil, errors.New("pgx path needs a postgres pool")
	}
	return &Path{store: db, pool: db.Pool, dialect: db.Dialect}, nil
}

func (p *Path) Kind() bench.Kind { return bench.KindPgx }

func (p *Path) ListInstructors(ctx context.Context, limit int) (int, error) {
	rows, err := p.pool.Query(ctx, p.dialect.Rebind(p.dialect.ListInstructorsSQL()), limit)
	if err != nil {
		return 0, fmt.Errorf("list instructors: %w", err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Instructor])
	if err != nil {
		return 0, fmt.Errorf("scan instructors: %w", err)
	}
	return len(items), nil
}

func (p *Path) ListBooks(ctx context.Context, limit int) (int, error) {
	rows, err := p.pool.Query(ctx, p.dialect.Rebind(p.dialect.ListBooksSQL()), limit)
	if err != nil {
		return 0, fmt.Errorf("list books: %w", err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Book])
	if err != nil {
		return 0, fmt.Errorf("scan books: %w", err)
	}
	return len(items), nil
}

func scanGraph(row pgx.CollectableRow) (model.Instructor, error) {
	var i model.Instructor
	err := row.Scan(&i.ID, &i.Slug, &i.ExternalID, &i.Name, &i.Bio, &i.CreatedAt,
		&i.Profile, &i.Books, &i.Keywords, &i.Courses)
	return i, err
}

func (p *Path) ListInstructorGraphs(ctx context.Context, limit int) (int, error) {
	rows, err := p.pool.Query(ctx, graphSQL, limit)
	if err != nil {
		return 0, fmt.Errorf("list instructor graphs: %w", err)
	}
	items, err := pgx.CollectRows(rows, scanGraph)
	if err != nil {
		return 0, fmt.Errorf("scan instructor graphs: %w", err)
	}
	return len(items), nil
}

func insert(ctx context.Context, tx pgx.Tx, query string, args []any) ([]int64, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, pgx.RowTo[int64])
}

// CreateGraph writes the graph inside one pgx transaction.
func (p *Path) CreateGraph(ctx context.Context, seed string) (bench.GraphIDs, error) {
	g := model.NewGraph(seed, time.Now())
	d := p.dialect

	var ids bench.GraphIDs
	err := pgx.BeginFunc(ctx, p.pool, func(tx pgx.Tx) error {
		keywordIDs, err := insert(ctx, tx, d.Rebind(d.InsertKeywordsSQL(len(g.Keywords))), store.KeywordArgs(g.Keywords))
		if err != nil {
			return fmt.Errorf("insert keywords: %w", err)
		}
		bookIDs, err := insert(ctx, tx, d.Rebind(d.InsertBooksSQL(len(g.Books))), store.BookArgs(g.Books))
		if err != nil {
			return fmt.Errorf("insert books: %w", err)
		}

		var instructorID int64
		err = tx.QueryRow(ctx, d.Rebind(d.InsertInstructorSQL()), store.InstructorArgs(g.Instructor)...).Scan(&instructorID)
		if err != nil {
			return fmt.Errorf("insert instructor: %w", err)
		}

		links := model.BookLinks(instructorID, bookIDs)
		if _, err := tx.Exec(ctx, d.Rebind(d.InsertBookLinksSQL(len(links))), store.BookLinkArgs(links)...); err != nil {
			return fmt.Errorf("link books: %w", err)
		}
		kwLinks := model.KeywordLinks(instructorID, keywordIDs)
		if _, err := tx.Exec(ctx, d.Rebind(d.InsertKeywordLinksSQL(len(kwLinks))), store.KeywordLinkArgs(kwLinks)...); err != nil {
			return fmt.Errorf("link keywords: %w", err)
		}

		ids = bench.GraphIDs{InstructorID: instructorID, KeywordIDs: keywordIDs, BookIDs: bookIDs}
		return nil
	})
	if err != nil {
		return bench.GraphIDs{}, err
	}
	return ids, nil
}

func (p *Path) exec(ctx context.Context, query string, args ...any) error {
	_, err := p.pool.Exec(ctx, query, args...)
	return err
}

func (p *Path) DeleteBookLinks(ctx context.Context, instructorID int64) error {
	return p.exec(ctx, "DELETE FROM instructor_book WHERE instructor_id = $1", instructorID)
}

func (p *Path) DeleteKeywordLinks(ctx context.Context, instructorID int64) error {
	return p.exec(ctx, "DELETE FROM instructor_keyword WHERE instructor_id = $1", instructorID)
}

func (p *Path) DeleteInstructor(ctx context.Context, id int64) error {
	return p.exec(ctx, "DELETE FROM instructor WHERE id = $1", id)
}

func (p *Path) DeleteKeywords(ctx context.Context, ids []int64) error {
	return p.exec(ctx, "DELETE FROM keyword WHERE id = ANY($1)", ids)
}

func (p *Path) DeleteBooks(ctx context.Context, ids []int64) error {
	return p.exec(ctx, "DELETE FROM book WHERE id = ANY($1)", ids)
}

func (p *Path) Close() error {
	return p.store.Close()
}
