package types

import "fmt"

type SortKey string

const (
	ScoreDesc SortKey = "score-desc"
	ScoreAsc  SortKey = "score-asc"
	Newest    SortKey = "newest"
	Oldest    SortKey = "oldest"
	Alpha     SortKey = "alpha"
)

const DefaultSortKey = ScoreDesc

var sortKeys = []SortKey{ScoreDesc, ScoreAsc, Newest, Oldest, Alpha}

// SortKeys returns the recognized sort keys in the order the UI lists them.
func SortKeys() []SortKey {
	ret := make([]SortKey, len(sortKeys))
	copy(ret, sortKeys)
	return ret
}

func (k SortKey) IsValid() bool {
	for _, known := range sortKeys {
		if k == known {
			return true
		}
	}
	return false
}

func ParseSortKey(value string) (SortKey, error) {
	key := SortKey(value)
	if !key.IsValid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownSortKey, value)
	}
	return key, nil
}
