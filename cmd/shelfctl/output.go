package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"

	"home-library/internal/catalog"
	"home-library/internal/library"
	"home-library/internal/model"
	"home-library/internal/stats"
)

func (a *cli) printJSON(v any) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *cli) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

func stars(rating int) string {
	if rating <= 0 {
		return "-"
	}
	return strings.Repeat("*", rating)
}

func status(b model.BookResponse) string {
	switch {
	case b.Reading:
		return "reading"
	case b.Read:
		return "read"
	default:
		return ""
	}
}

func (a *cli) printPage(p catalog.Page[model.BookResponse]) error {
	if a.json {
		return a.printJSON(p)
	}
	w := a.table()
	fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tGENRE\tYEAR\tSTATUS\tRATING")
	for _, b := range p.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%d\t%s\t%s\n",
			b.ID, b.Title, b.Author, b.Genre, b.Year, status(b), stars(b.Rating))
	}
	if err := w.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(a.out, "page %d/%d, %d books\n", p.Page, p.TotalPages, p.Total)
	return err
}

func (a *cli) printBook(b model.BookResponse) error {
	if a.json {
		return a.printJSON(b)
	}
	w := a.table()
	fmt.Fprintf(w, "ID\t%d\n", b.ID)
	fmt.Fprintf(w, "Title\t%s\n", b.Title)
	fmt.Fprintf(w, "Author\t%s\n", b.Author)
	fmt.Fprintf(w, "Genre\t%s\n", b.Genre)
	fmt.Fprintf(w, "Year\t%d\n", b.Year)
	fmt.Fprintf(w, "Pages\t%d\n", b.Pages)
	fmt.Fprintf(w, "Read\t%t\n", b.Read)
	fmt.Fprintf(w, "Rating\t%s\n", stars(b.Rating))
	fmt.Fprintf(w, "Reading\t%t\n", b.Reading)
	return w.Flush()
}

func (a *cli) printProgress(views []library.ProgressView) error {
	if a.json {
		return a.printJSON(views)
	}
	if len(views) == 0 {
		_, err := fmt.Fprintln(a.out, "Nothing in progress.")
		return err
	}
	w := a.table()
	fmt.Fprintln(w, "ID\tTITLE\tPAGES\tPROGRESS\tSTARTED")
	for _, v := range views {
		fmt.Fprintf(w, "%d\t%s\t%d/%d\t%.0f%%\t%s\n",
			v.Book.ID, v.Book.Title, v.PagesRead, v.Book.Pages, v.Percent, v.StartDate)
	}
	return w.Flush()
}

func (a *cli) printStats(s stats.Summary) error {
	if a.json {
		return a.printJSON(s)
	}
	w := a.table()
	fmt.Fprintf(w, "Books\t%d\n", s.TotalBooks)
	fmt.Fprintf(w, "Read\t%d\n", s.ReadCount)
	fmt.Fprintf(w, "Pages read\t%d\n", s.PagesRead)
	fmt.Fprintf(w, "Average rating\t%.1f (%d rated)\n", s.AverageRating, s.RatedCount)
	fmt.Fprintf(w, "Currently reading\t%d\n", s.Reading.CurrentlyReading)
	fmt.Fprintf(w, "Top genres\t%s\n", joinCounts(s.TopGenres))
	fmt.Fprintf(w, "Top authors\t%s\n", joinCounts(s.TopAuthors))
	return w.Flush()
}

func joinCounts(counts []stats.Count) string {
	if len(counts) == 0 {
		return "-"
	}
	parts := make([]string, len(counts))
	for i, c := range counts {
		parts[i] = fmt.Sprintf("%s (%d)", c.Name, c.Count)
	}
	return strings.Join(parts, ", ")
}
