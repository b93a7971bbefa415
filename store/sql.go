package store

import (
	"strings"

	"accessbench/model"
)

// Column lists, in model field order.
const (
	InstructorColumns = "id, slug, external_id, name, bio, created_at"
	ProfileColumns    = "instructor_id, website, headline"
	BookColumns       = "id, title, isbn, created_at"
	KeywordColumns    = "id, name, created_at"
	CourseColumns     = "id, instructor_id, title, created_at"
)

func list(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func tuples(n, width int) string {
	t := "(" + list(width) + ")"
	return strings.TrimSuffix(strings.Repeat(t+", ", n), ", ")
}

func (d Dialect) returning(q string) string {
	if d.Returning {
		return q + " RETURNING id"
	}
	return q
}

// Statements written with ? placeholders. gorm rewrites them itself;
// database/sql and pgx callers pass them through Rebind.

func (d Dialect) ListInstructorsSQL() string {
	return "SELECT " + InstructorColumns + " FROM instructor ORDER BY created_at DESC LIMIT ?"
}

func (d Dialect) ListBooksSQL() string {
	return "SELECT " + BookColumns + " FROM book ORDER BY created_at DESC LIMIT ?"
}

func (d Dialect) ProfilesSQL(n int) string {
	return "SELECT " + ProfileColumns + " FROM instructor_profile WHERE instructor_id IN (" + list(n) + ")"
}

func (d Dialect) BookLinksSQL(n int) string {
	return "SELECT ib.instructor_id, ib.book_id, b.id, b.title, b.isbn, b.created_at" +
		" FROM instructor_book ib JOIN book b ON b.id = ib.book_id" +
		" WHERE ib.instructor_id IN (" + list(n) + ") ORDER BY ib.instructor_id, ib.book_id"
}

func (d Dialect) KeywordLinksSQL(n int) string {
	order := d.Quote("order")
	return "SELECT ik.instructor_id, ik.keyword_id, ik." + order + ", k.id, k.name, k.created_at" +
		" FROM instructor_keyword ik JOIN keyword k ON k.id = ik.keyword_id" +
		" WHERE ik.instructor_id IN (" + list(n) + ") ORDER BY ik.instructor_id, ik." + order
}

func (d Dialect) CoursesSQL(n int) string {
	return "SELECT " + CourseColumns + " FROM course WHERE instructor_id IN (" + list(n) + ") ORDER BY id"
}

func (d Dialect) InsertKeywordsSQL(n int) string {
	return d.returning("INSERT INTO keyword (name, created_at) VALUES " + tuples(n, 2))
}

func (d Dialect) InsertBooksSQL(n int) string {
	return d.returning("INSERT INTO book (title, isbn, created_at) VALUES " + tuples(n, 3))
}

func (d Dialect) InsertInstructorSQL() string {
	return d.returning("INSERT INTO instructor (slug, external_id, name, bio, created_at) VALUES " + tuples(1, 5))
}

func (d Dialect) InsertBookLinksSQL(n int) string {
	return "INSERT INTO instructor_book (instructor_id, book_id) VALUES " + tuples(n, 2)
}

func (d Dialect) InsertKeywordLinksSQL(n int) string {
	return "INSERT INTO instructor_keyword (instructor_id, keyword_id, " + d.Quote("order") + ") VALUES " + tuples(n, 3)
}

func (d Dialect) DeleteBookLinksSQL() string {
	return "DELETE FROM instructor_book WHERE instructor_id = ?"
}

func (d Dialect) DeleteKeywordLinksSQL() string {
	return "DELETE FROM instructor_keyword WHERE instructor_id = ?"
}

func (d Dialect) DeleteInstructorSQL() string {
	return "DELETE FROM instructor WHERE id = ?"
}

func (d Dialect) DeleteKeywordsSQL(n int) string {
	return "DELETE FROM keyword WHERE id IN (" + list(n) + ")"
}

func (d Dialect) DeleteBooksSQL(n int) string {
	return "DELETE FROM book WHERE id IN (" + list(n) + ")"
}

func KeywordArgs(ks []model.Keyword) []any {
	args := make([]any, 0, len(ks)*2)
	for _, k := range ks {
		args = append(args, k.Name, k.CreatedAt)
	}
	return args
}

func BookArgs(bs []model.Book) []any {
	args := make([]any, 0, len(bs)*3)
	for _, b := range bs {
		args = append(args, b.Title, b.ISBN, b.CreatedAt)
	}
	return args
}

func InstructorArgs(i model.Instructor) []any {
	return []any{i.Slug, i.ExternalID, i.Name, i.Bio, i.CreatedAt}
}

func BookLinkArgs(links []model.InstructorBook) []any {
	args := make([]any, 0, len(links)*2)
	for _, l := range links {
		args = append(args, l.InstructorID, l.BookID)
	}
	return args
}

func KeywordLinkArgs(links []model.InstructorKeyword) []any {
	args := make([]any, 0, len(links)*3)
	for _, l := range links {
		args = append(args, l.InstructorID, l.KeywordID, l.Order)
	}
	return args
}

func IDArgs(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}
