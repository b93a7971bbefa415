package model

// InstructorIDs returns the ids of rows, keeping order.
func InstructorIDs(rows []Instructor) []int64 {
	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	return ids
}

// Attach hangs child rows fetched by separate queries onto their
// instructors. Children of unknown instructors are dropped.
func Attach(instructors []Instructor, profiles []Profile, books []InstructorBook, keywords []InstructorKeyword, courses []Course) {
	idx := make(map[int64]int, len(instructors))
	for i := range instructors {
		idx[instructors[i].ID] = i
	}
	for _, p := range profiles {
		if j, ok := idx[p.InstructorID]; ok {
			instructors[j].Profile = &p
		}
	}
	for _, b := range books {
		if j, ok := idx[b.InstructorID]; ok {
			instructors[j].Books = append(instructors[j].Books, b)
		}
	}
	for _, k := range keywords {
		if j, ok := idx[k.InstructorID]; ok {
			instructors[j].Keywords = append(instructors[j].Keywords, k)
		}
	}
	for _, c := range courses {
		if j, ok := idx[c.InstructorID]; ok {
			instructors[j].Courses = append(instructors[j].Courses, c)
		}
	}
}
