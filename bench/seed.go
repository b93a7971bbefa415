package bench

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewSeed returns a uniqueness token for one write: the current unix
// milliseconds followed by eight random hex characters.
func NewSeed() string {
	random := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strconv.FormatInt(time.Now().UnixMilli(), 10) + "-" + random[:8]
}
