package orm

import (
	"context"
	"database/sql"
	"fmt"
	"slices"
	"time"

	"accessbench/bench"
	"accessbench/model"
	"accessbench/store"

	"gorm.io/gorm"
)

// RawPath sends hand-written SQL through gorm.Raw and gorm.Exec.
type RawPath struct {
	store   *store.DB
	db      *gorm.DB
	dialect store.Dialect
}

func NewRaw(db *store.DB) (*RawPath, error) {
	g, err := Open(db)
	if err != nil {
		return nil, err
	}
	return &RawPath{store: db, db: g, dialect: db.Dialect}, nil
}

func (p *RawPath) Kind() bench.Kind { return bench.KindORMRaw }

func (p *RawPath) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	return p.db.WithContext(ctx).Raw(query, args...).Rows()
}

func (p *RawPath) ListInstructors(ctx context.Context, limit int) (int, error) {
	rows, err := p.query(ctx, p.dialect.ListInstructorsSQL(), limit)
	if err != nil {
		return 0, fmt.Errorf("list instructors: %w", err)
	}
	items, err := store.ScanInstructors(rows)
	if err != nil {
		return 0, fmt.Errorf("scan instructors: %w", err)
	}
	return len(items), nil
}

func (p *RawPath) ListBooks(ctx context.Context, limit int) (int, error) {
	rows, err := p.query(ctx, p.dialect.ListBooksSQL(), limit)
	if err != nil {
		return 0, fmt.Errorf("list books: %w", err)
	}
	items, err := store.ScanBooks(rows)
	if err != nil {
		return 0, fmt.Errorf("scan books: %w", err)
	}
	return len(items), nil
}

// ListInstructorGraphs loads the parents, then each relation with one
// IN query, the way Preload does.
func (p *RawPath) ListInstructorGraphs(ctx context.Context, limit int) (int, error) {
	rows, err := p.query(ctx, p.dialect.ListInstructorsSQL(), limit)
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
	args := store.IDArgs(ids)
	d := p.dialect

	rows, err = p.query(ctx, d.ProfilesSQL(len(ids)), args...)
	if err != nil {
		return 0, fmt.Errorf("load profiles: %w", err)
	}
	profiles, err := store.ScanProfiles(rows)
	if err != nil {
		return 0, fmt.Errorf("scan profiles: %w", err)
	}

	rows, err = p.query(ctx, d.BookLinksSQL(len(ids)), args...)
	if err != nil {
		return 0, fmt.Errorf("load books: %w", err)
	}
	books, err := store.ScanBookLinks(rows)
	if err != nil {
		return 0, fmt.Errorf("scan books: %w", err)
	}

	rows, err = p.query(ctx, d.KeywordLinksSQL(len(ids)), args...)
	if err != nil {
		return 0, fmt.Errorf("load keywords: %w", err)
	}
	keywords, err := store.ScanKeywordLinks(rows)
	if err != nil {
		return 0, fmt.Errorf("scan keywords: %w", err)
	}

	rows, err = p.query(ctx, d.CoursesSQL(len(ids)), args...)
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

// insert runs a multi-row INSERT and returns the new ids in ascending
// order. Without RETURNING each row is inserted on its own and its id read
// back with LAST_INSERT_ID.
func (p *RawPath) insert(tx *gorm.DB, stmt func(n int) string, width int, args []any) ([]int64, error) {
	n := len(args) / width
	if p.dialect.Returning {
		var rows []model.IDRow
		if err := tx.Raw(stmt(n), args...).Scan(&rows).Error; err != nil {
			return nil, err
		}
		if len(rows) != n {
			return nil, fmt.Errorf("inserted %d rows, got %d ids", n, len(rows))
		}
		ids := model.IDs(rows)
		slices.Sort(ids)
		return ids, nil
	}

	ids := make([]int64, 0, n)
	for i := range n {
		if err := tx.Exec(stmt(1), args[i*width:(i+1)*width]...).Error; err != nil {
			return nil, err
		}
		var id int64
		if err := tx.Raw("SELECT LAST_INSERT_ID()").Scan(&id).Error; err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func (p *RawPath) CreateGraph(ctx context.Context, seed string) (bench.GraphIDs, error) {
	g := model.NewGraph(seed, time.Now())
	d := p.dialect

	var ids bench.GraphIDs
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		keywordIDs, err := p.insert(tx, d.InsertKeywordsSQL, 2, store.KeywordArgs(g.Keywords))
		if err != nil {
			return fmt.Errorf("insert keywords: %w", err)
		}
		bookIDs, err := p.insert(tx, d.InsertBooksSQL, 3, store.BookArgs(g.Books))
		if err != nil {
			return fmt.Errorf("insert books: %w", err)
		}
		instructorIDs, err := p.insert(tx, func(int) string { return d.InsertInstructorSQL() }, 5, store.InstructorArgs(g.Instructor))
		if err != nil {
			return fmt.Errorf("insert instructor: %w", err)
		}
		instructorID := instructorIDs[0]

		links := model.BookLinks(instructorID, bookIDs)
		if err := tx.Exec(d.InsertBookLinksSQL(len(links)), store.BookLinkArgs(links)...).Error; err != nil {
			return fmt.Errorf("link books: %w", err)
		}
		kwLinks := model.KeywordLinks(instructorID, keywordIDs)
		if err := tx.Exec(d.InsertKeywordLinksSQL(len(kwLinks)), store.KeywordLinkArgs(kwLinks)...).Error; err != nil {
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

func (p *RawPath) exec(ctx context.Context, query string, args ...any) error {
	return p.db.WithContext(ctx).Exec(query, args...).Error
}

func (p *RawPath) DeleteBookLinks(ctx context.Context, instructorID int64) error {
	return p.exec(ctx, p.dialect.DeleteBookLinksSQL(), instructorID)
}

func (p *RawPath) DeleteKeywordLinks(ctx context.Context, instructorID int64) error {
	return p.exec(ctx, p.dialect.DeleteKeywordLinksSQL(), instructorID)
}

func (p *RawPath) DeleteInstructor(ctx context.Context, id int64) error {
	return p.exec(ctx, p.dialect.DeleteInstructorSQL(), id)
}

func (p *RawPath) DeleteKeywords(ctx context.Context, ids []int64) error {
	return p.exec(ctx, p.dialect.DeleteKeywordsSQL(len(ids)), store.IDArgs(ids)...)
}

func (p *RawPath) DeleteBooks(ctx context.Context, ids []int64) error {
	return p.exec(ctx, p.dialect.DeleteBooksSQL(len(ids)), store.IDArgs(ids)...)
}

func (p *RawPath) Close() error {
	return p.store.Close()
}
