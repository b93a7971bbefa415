package bench

import "time"

// ConnConfig describes one store endpoint when no DSN is given.
type ConnConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

// Kind tags a client path.
type Kind string

const (
	KindREST         Kind = "rest"
	KindORM          Kind = "orm"
	KindORMRaw       Kind = "orm-raw"
	KindORMCached    Kind = "orm-cached"
	KindQueryBuilder Kind = "sqlb"
	KindPgx          Kind = "pgx"
)

type Params struct {
	RowLimit     int
	ReadRepeats  int
	WriteRepeats int
}

// Result is one timed scenario execution. Value is the row count for reads
// and the instructor id for writes.
type Result struct {
	Label    string
	Scenario string
	Path     Kind
	Repeat   int
	Duration time.Duration
	Value    int64
}

// GraphIDs identifies the rows one write inserted.
type GraphIDs struct {
	InstructorID int64
	KeywordIDs   []int64
	BookIDs      []int64
}

func (g GraphIDs) Empty() bool {
	return g.InstructorID == 0 && len(g.KeywordIDs) == 0 && len(g.BookIDs) == 0
}

// Stats aggregates the repeats of one scenario on one path.
type Stats struct {
	Scenario string
	Path     Kind
	Runs     int
	Avg      time.Duration
	Min      time.Duration
	Max      time.Duration
	P50      time.Duration
}
