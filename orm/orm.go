// Package orm runs the scenarios through gorm: the query builder with
// Preload chains, hand-written SQL through gorm.Raw, and the query builder
// behind a Redis read cache.
package orm

import (
	"context"
	"fmt"
	"time"

	"accessbench/bench"
	"accessbench/cache"
	"accessbench/model"
	"accessbench/store"

	gormmysql "gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Open wraps an open store handle in gorm. Columns are always listed
// explicitly so the selected payload matches the raw SQL paths.
func Open(db *store.DB) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch db.Dialect.Name {
	case store.Postgres.Name:
		dialector = postgres.New(postgres.Config{Conn: db.SQL})
	case store.MySQL.Name:
		dialector = gormmysql.New(gormmysql.Config{Conn: db.SQL})
	case store.SQLite.Name:
		dialector = &sqlite.Dialector{Conn: db.SQL}
	default:
		return nil, fmt.Errorf("gorm: unsupported dialect %q", db.Dialect.Name)
	}

	g, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		QueryFields:            true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("gorm open: %w", err)
	}
	return g, nil
}

// Path is the gorm query builder path.
type Path struct {
	store *store.DB
	db    *gorm.DB
	kind  bench.Kind

	cache *cache.Store
	ttl   time.Duration
}

func New(db *store.DB) (*Path, error) {
	g, err := Open(db)
	if err != nil {
		return nil, err
	}
	return &Path{store: db, db: g, kind: bench.KindORM}, nil
}

// NewCached returns the query builder path with reads served through c for
// ttl. Writes and deletes bypass the cache.
func NewCached(db *store.DB, c *cache.Store, ttl time.Duration) (*Path, error) {
	p, err := New(db)
	if err != nil {
		return nil, err
	}
	p.kind = bench.KindORMCached
	p.cache = c
	p.ttl = ttl
	return p, nil
}

func (p *Path) Kind() bench.Kind { return p.kind }

func (p *Path) remember(ctx context.Context, key string, dst any, load func() error) error {
	if p.cache == nil {
		return load()
	}
	return p.cache.Remember(ctx, key, p.ttl, dst, load)
}

func (p *Path) ListInstructors(ctx context.Context, limit int) (int, error) {
	var rows []model.Instructor
	err := p.remember(ctx, fmt.Sprintf("instructors:%d", limit), &rows, func() error {
		return p.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error
	})
	if err != nil {
		return 0, fmt.Errorf("list instructors: %w", err)
	}
	return len(rows), nil
}

func (p *Path) ListBooks(ctx context.Context, limit int) (int, error) {
	var rows []model.Book
	err := p.remember(ctx, fmt.Sprintf("books:%d", limit), &rows, func() error {
		return p.db.WithContext(ctx).Order("created_at DESC").Limit(limit).Find(&rows).Error
	})
	if err != nil {
		return 0, fmt.Errorf("list books: %w", err)
	}
	return len(rows), nil
}

func (p *Path) ListInstructorGraphs(ctx context.Context, limit int) (int, error) {
	var rows []model.Instructor
	err := p.remember(ctx, fmt.Sprintf("instructor-graph:%d", limit), &rows, func() error {
		return p.db.WithContext(ctx).
			Preload("Profile").
			Preload("Books", func(tx *gorm.DB) *gorm.DB { return tx.Order("book_id") }).
			Preload("Books.Book").
			Preload("Keywords", func(tx *gorm.DB) *gorm.DB {
				return tx.Order(clause.OrderByColumn{Column: clause.Column{Name: "order"}})
			}).
			Preload("Keywords.Keyword").
			Preload("Courses", func(tx *gorm.DB) *gorm.DB { return tx.Order("id") }).
			Order("created_at DESC").
			Limit(limit).
			Find(&rows).Error
	})
	if err != nil {
		return 0, fmt.Errorf("list instructor graphs: %w", err)
	}
	return len(rows), nil
}

// CreateGraph inserts the graph in one transaction through the builder.
func (p *Path) CreateGraph(ctx context.Context, seed string) (bench.GraphIDs, error) {
	g := model.NewGraph(seed, time.Now())

	var ids bench.GraphIDs
	err := p.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&g.Keywords).Error; err != nil {
			return fmt.Errorf("insert keywords: %w", err)
		}
		if err := tx.Omit(clause.Associations).Create(&g.Books).Error; err != nil {
			return fmt.Errorf("insert books: %w", err)
		}
		if err := tx.Omit(clause.Associations).Create(&g.Instructor).Error; err != nil {
			return fmt.Errorf("insert instructor: %w", err)
		}

		ids = bench.GraphIDs{InstructorID: g.Instructor.ID}
		for _, k := range g.Keywords {
			ids.KeywordIDs = append(ids.KeywordIDs, k.ID)
		}
		for _, b := range g.Books {
			ids.BookIDs = append(ids.BookIDs, b.ID)
		}

		bookLinks := model.BookLinks(ids.InstructorID, ids.BookIDs)
		if err := tx.Omit(clause.Associations).Create(&bookLinks).Error; err != nil {
			return fmt.Errorf("link books: %w", err)
		}
		keywordLinks := model.KeywordLinks(ids.InstructorID, ids.KeywordIDs)
		if err := tx.Omit(clause.Associations).Create(&keywordLinks).Error; err != nil {
			return fmt.Errorf("link keywords: %w", err)
		}
		return nil
	})
	if err != nil {
		return bench.GraphIDs{}, err
	}
	return ids, nil
}

func (p *Path) DeleteBookLinks(ctx context.Context, instructorID int64) error {
	return p.db.WithContext(ctx).Where("instructor_id = ?", instructorID).Delete(&model.InstructorBook{}).Error
}

func (p *Path) DeleteKeywordLinks(ctx context.Context, instructorID int64) error {
	return p.db.WithContext(ctx).Where("instructor_id = ?", instructorID).Delete(&model.InstructorKeyword{}).Error
}

func (p *Path) DeleteInstructor(ctx context.Context, id int64) error {
	return p.db.WithContext(ctx).Delete(&model.Instructor{}, id).Error
}

func (p *Path) DeleteKeywords(ctx context.Context, ids []int64) error {
	return p.db.WithContext(ctx).Delete(&model.Keyword{}, ids).Error
}

func (p *Path) DeleteBooks(ctx context.Context, ids []int64) error {
	return p.db.WithContext(ctx).Delete(&model.Book{}, ids).Error
}

func (p *Path) Close() error {
	return p.store.Close()
}
