package root

import (
	"fmt"
	"io"
	"text/tabwriter"

	"popcorn-watchlist-service/internal/model"
	"popcorn-watchlist-service/internal/watched"
)

func printResults(w io.Writer, results []model.SearchResult) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.ID, r.Title, r.Year)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Found %d results\n", len(results))
	return err
}

func printDetail(w io.Writer, d *model.MovieDetail) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "%s (%s)\n", d.Title, d.Year)
	fmt.Fprintf(tw, "Released:\t%s\n", d.ReleaseDate)
	fmt.Fprintf(tw, "Runtime:\t%s\n", d.Runtime)
	fmt.Fprintf(tw, "Genre:\t%s\n", d.Genre)
	fmt.Fprintf(tw, "IMDb rating:\t⭐ %s\n", d.ExternalRating)
	fmt.Fprintf(tw, "Director:\t%s\n", d.Director)
	fmt.Fprintf(tw, "Starring:\t%s\n", d.Actors)
	fmt.Fprintf(tw, "\n%s\n", d.Plot)
	return tw.Flush()
}

func printWatched(w io.Writer, entries []model.WatchedEntry) error {
	sum := watched.Summarize(entries)
	fmt.Fprintf(w, "%d movies, ⭐ %.2f imdb, 🌟 %.2f yours, ⏳ %.0f min\n",
		sum.Count, sum.AvgExternalRating, sum.AvgUserRating, sum.AvgRuntimeMinutes)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, e := range entries {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%.1f\t%d\t%d min\n",
			e.ID, e.Title, e.Year, e.ExternalRating, e.UserRating, e.RuntimeMinutes)
	}
	return tw.Flush()
}
