package watched

import "popcorn-watchlist-service/internal/model"

// Summary is the aggregate line above the watched list
type Summary struct {
	Count             int     `json:"count"`
	AvgExternalRating float64 `json:"avgImdbRating"`
	AvgUserRating     float64 `json:"avgUserRating"`
	AvgRuntimeMinutes float64 `json:"avgRuntime"`
}

// Summarize computes the averages over entries. An empty list gives zeros.
func Summarize(entries []model.WatchedEntry) Summary {
	s := Summary{Count: len(entries)}
	if len(entries) == 0 {
		return s
	}

	var ext, user, runtime float64
	for _, e := range entries {
		ext += e.ExternalRating
		user += float64(e.UserRating)
		runtime += float64(e.RuntimeMinutes)
	}
	n := float64(len(entries))
	s.AvgExternalRating = ext / n
	s.AvgUserRating = user / n
	s.AvgRuntimeMinutes = runtime / n
	return s
}
