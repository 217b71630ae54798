package report

import (
	"github.com/google/uuid"

	"github.com/DjordjeVuckovic/microbench/internal/domain"
)

// Ranked is a task result placed in the ops/sec ranking of its run.
type Ranked struct {
	domain.TaskResult
	// Ratio is how many times faster the fastest task is; 1 for the fastest.
	Ratio float64 `json:"ratio"`
}

// Summary ranks the results of one run, fastest first.
type Summary struct {
	Entries []Ranked `json:"entries"`
}

func (s Summary) Fastest() (Ranked, bool) {
	if len(s.Entries) == 0 {
		return Ranked{}, false
	}
	return s.Entries[0], true
}

// Change compares one task across two runs. Percentages are relative to
// the base run; a positive OpsChange means the head run is faster.
type Change struct {
	Name       string            `json:"name"`
	Base       domain.TaskResult `json:"base"`
	Head       domain.TaskResult `json:"head"`
	OpsChange  float64           `json:"opsChange"`
	MeanChange float64           `json:"meanChange"`
}

type Comparison struct {
	BaseID  uuid.UUID `json:"baseId"`
	HeadID  uuid.UUID `json:"headId"`
	Changes []Change  `json:"changes"`
	// Added lists tasks only present in the head run, Removed those only in the base run.
	Added   []string `json:"added,omitempty"`
	Removed []string `json:"removed,omitempty"`
}
