package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttach(t *testing.T) {
	rows := []Instructor{{ID: 1}, {ID: 2}}
	Attach(rows,
		[]Profile{{InstructorID: 2, Website: "w"}},
		[]InstructorBook{{InstructorID: 1, BookID: 10}, {InstructorID: 1, BookID: 11}, {InstructorID: 9, BookID: 12}},
		[]InstructorKeyword{{InstructorID: 2, KeywordID: 20, Order: 0}},
		[]Course{{ID: 30, InstructorID: 1}},
	)

	assert.Nil(t, rows[0].Profile)
	require.NotNil(t, rows[1].Profile)
	assert.Equal(t, "w", rows[1].Profile.Website)
	assert.Len(t, rows[0].Books, 2)
	assert.Empty(t, rows[1].Books)
	assert.Len(t, rows[1].Keywords, 1)
	assert.Len(t, rows[0].Courses, 1)
	assert.Equal(t, []int64{1, 2}, InstructorIDs(rows))
}
