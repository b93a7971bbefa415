package store

import (
	"database/sql"

	"accessbench/model"
)

func collect[T any](rows *sql.Rows, scan func(*sql.Rows, *T) error) ([]T, error) {
	defer rows.Close()
	var out []T
	for rows.Next() {
		var v T
		if err := scan(rows, &v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

// ScanInstructors reads rows selected with InstructorColumns and closes them.
func ScanInstructors(rows *sql.Rows) ([]model.Instructor, error) {
	return collect(rows, func(r *sql.Rows, i *model.Instructor) error {
		return r.Scan(&i.ID, &i.Slug, &i.ExternalID, &i.Name, &i.Bio, &i.CreatedAt)
	})
}

func ScanBooks(rows *sql.Rows) ([]model.Book, error) {
	return collect(rows, func(r *sql.Rows, b *model.Book) error {
		return r.Scan(&b.ID, &b.Title, &b.ISBN, &b.CreatedAt)
	})
}

func ScanProfiles(rows *sql.Rows) ([]model.Profile, error) {
	return collect(rows, func(r *sql.Rows, p *model.Profile) error {
		return r.Scan(&p.InstructorID, &p.Website, &p.Headline)
	})
}

func ScanCourses(rows *sql.Rows) ([]model.Course, error) {
	return collect(rows, func(r *sql.Rows, c *model.Course) error {
		return r.Scan(&c.ID, &c.InstructorID, &c.Title, &c.CreatedAt)
	})
}

// ScanBookLinks reads rows shaped like BookLinksSQL.
func ScanBookLinks(rows *sql.Rows) ([]model.InstructorBook, error) {
	return collect(rows, func(r *sql.Rows, l *model.InstructorBook) error {
		l.Book = &model.Book{}
		return r.Scan(&l.InstructorID, &l.BookID, &l.Book.ID, &l.Book.Title, &l.Book.ISBN, &l.Book.CreatedAt)
	})
}

// ScanKeywordLinks reads rows shaped like KeywordLinksSQL.
func ScanKeywordLinks(rows *sql.Rows) ([]model.InstructorKeyword, error) {
	return collect(rows, func(r *sql.Rows, l *model.InstructorKeyword) error {
		l.Keyword = &model.Keyword{}
		return r.Scan(&l.InstructorID, &l.KeywordID, &l.Order, &l.Keyword.ID, &l.Keyword.Name, &l.Keyword.CreatedAt)
	})
}

// ScanIDs reads an INSERT ... RETURNING id result.
func ScanIDs(rows *sql.Rows) ([]int64, error) {
	ids, err := collect(rows, func(r *sql.Rows, id *model.IDRow) error {
		return r.Scan(&id.ID)
	})
	if err != nil {
		return nil, err
	}
	return model.IDs(ids), nil
}
