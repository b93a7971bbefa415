// Package model holds the typed row projections every client path reads and
// writes. Field order is the column order selected on every path, so
// payload sizes stay comparable.
package model

import (
	"fmt"
	"time"
)

type Instructor struct {
	ID         int64     `json:"id,omitempty" db:"id" gorm:"primaryKey"`
	Slug       string    `json:"slug" db:"slug"`
	ExternalID string    `json:"external_id" db:"external_id"`
	Name       string    `json:"name" db:"name"`
	Bio        string    `json:"bio" db:"bio"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`

	Profile  *Profile            `json:"profile,omitempty" db:"-" gorm:"foreignKey:InstructorID"`
	Books    []InstructorBook    `json:"books,omitempty" db:"-" gorm:"foreignKey:InstructorID"`
	Keywords []InstructorKeyword `json:"keywords,omitempty" db:"-" gorm:"foreignKey:InstructorID"`
	Courses  []Course            `json:"courses,omitempty" db:"-" gorm:"foreignKey:InstructorID"`
}

func (Instructor) TableName() string { return "instructor" }

type Profile struct {
	InstructorID int64  `json:"instructor_id" db:"instructor_id" gorm:"primaryKey;autoIncrement:false"`
	Website      string `json:"website" db:"website"`
	Headline     string `json:"headline" db:"headline"`
}

func (Profile) TableName() string { return "instructor_profile" }

type Keyword struct {
	ID        int64     `json:"id,omitempty" db:"id" gorm:"primaryKey"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (Keyword) TableName() string { return "keyword" }

type Book struct {
	ID        int64     `json:"id,omitempty" db:"id" gorm:"primaryKey"`
	Title     string    `json:"title" db:"title"`
	ISBN      string    `json:"isbn" db:"isbn" gorm:"column:isbn"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

func (Book) TableName() string { return "book" }

type Course struct {
	ID           int64     `json:"id,omitempty" db:"id" gorm:"primaryKey"`
	InstructorID int64     `json:"instructor_id" db:"instructor_id"`
	Title        string    `json:"title" db:"title"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

func (Course) TableName() string { return "course" }

// InstructorBook is a row of the instructor/book join table.
type InstructorBook struct {
	InstructorID int64 `json:"instructor_id" db:"instructor_id" gorm:"primaryKey;autoIncrement:false"`
	BookID       int64 `json:"book_id" db:"book_id" gorm:"primaryKey;autoIncrement:false"`

	Book *Book `json:"book,omitempty" db:"-"`
}

func (InstructorBook) TableName() string { return "instructor_book" }

// InstructorKeyword is a row of the instructor/keyword join table. Order is
// the zero-based position of the keyword on the instructor.
type InstructorKeyword struct {
	InstructorID int64 `json:"instructor_id" db:"instructor_id" gorm:"primaryKey;autoIncrement:false"`
	KeywordID    int64 `json:"keyword_id" db:"keyword_id" gorm:"primaryKey;autoIncrement:false"`
	Order        int   `json:"order" db:"order" gorm:"column:order"`

	Keyword *Keyword `json:"keyword,omitempty" db:"-"`
}

func (InstructorKeyword) TableName() string { return "instructor_keyword" }

// IDRow is the projection of an INSERT ... RETURNING id statement.
type IDRow struct {
	ID int64 `json:"id" db:"id" gorm:"column:id"`
}

// IDs flattens rows into their identifiers, keeping order.
func IDs(rows []IDRow) []int64 {
	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

// Graph is the placeholder entity graph one write inserts.
type Graph struct {
	Keywords   []Keyword
	Books      []Book
	Instructor Instructor
}

// GraphSize is the number of keyword and book rows per graph.
const GraphSize = 2

// NewGraph builds the placeholder rows for one write. The seed lands in every
// column that carries a unique constraint.
func NewGraph(seed string, now time.Time) Graph {
	now = now.UTC().Truncate(time.Microsecond)
	g := Graph{
		Instructor: Instructor{
			Slug:       "bench-" + seed,
			ExternalID: "bench-ext-" + seed,
			Name:       "Benchmark Instructor",
			Bio:        "Placeholder row written by accessbench",
			CreatedAt:  now,
		},
	}
	for i := range GraphSize {
		g.Keywords = append(g.Keywords, Keyword{
			Name:      fmt.Sprintf("bench-kw-%s-%d", seed, i),
			CreatedAt: now,
		})
		g.Books = append(g.Books, Book{
			Title:     fmt.Sprintf("Benchmark Book %d", i+1),
			ISBN:      fmt.Sprintf("bench-%s-%d", seed, i),
			CreatedAt: now,
		})
	}
	return g
}

// BookLinks returns the join rows tying an instructor to books.
func BookLinks(instructorID int64, bookIDs []int64) []InstructorBook {
	links := make([]InstructorBook, len(bookIDs))
	for i, id := range bookIDs {
		links[i] = InstructorBook{InstructorID: instructorID, BookID: id}
	}
	return links
}

// KeywordLinks returns the join rows tying an instructor to keywords, ordered
// by insertion sequence.
func KeywordLinks(instructorID int64, keywordIDs []int64) []InstructorKeyword {
	links := make([]InstructorKeyword, len(keywordIDs))
	for i, id := range keywordIDs {
		links[i] = InstructorKeyword{InstructorID: instructorID, KeywordID: id, Order: i}
	}
	return links
}
