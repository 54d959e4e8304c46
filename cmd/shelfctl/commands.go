package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"home-library/internal/catalog"
	"home-library/internal/model"
	"home-library/internal/recommend"
)

func (a *cli) booksCmd() *cobra.Command {
	var (
		filter        catalog.Filter
		status        string
		page, perPage int
	)
	cmd := &cobra.Command{
		Use:   "books",
		Short: "List the catalog, optionally filtered",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.lib.Begin()
			if err != nil {
				return err
			}
			filter.Status = catalog.ParseStatus(status)
			return a.printPage(s.Browse(filter, page, perPage))
		},
	}
	cmd.Flags().StringVarP(&filter.Search, "query", "q", "", "Match title")
	cmd.Flags().StringSliceVar(&filter.Genres, "genre", nil, "Genres to include (repeatable)")
	cmd.Flags().StringSliceVar(&filter.Authors, "author", nil, "Authors to include (repeatable)")
	cmd.Flags().StringVar(&status, "status", "", "all|read|unread")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&perPage, "per-page", catalog.DefaultPerPage, "Books per page")
	return cmd
}

func (a *cli) addCmd() *cobra.Command {
	var b model.Book
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a book to the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			added, err := a.lib.Catalog.Add(b)
			if err != nil {
				return err
			}
			return a.printBook(added.ToResponse(nil))
		},
	}
	cmd.Flags().StringVar(&b.Title, "title", "", "Title (required)")
	cmd.Flags().StringVar(&b.Author, "author", "", "Author (required)")
	cmd.Flags().StringVar(&b.Genre, "genre", "", "Genre (required)")
	cmd.Flags().StringVar(&b.Description, "description", "", "Description (required)")
	cmd.Flags().IntVar(&b.Year, "year", 0, "Publication year (required)")
	cmd.Flags().IntVar(&b.Pages, "pages", 0, "Page count (required)")
	cmd.Flags().StringVar(&b.Cover, "cover", "", "Cover image URL")
	return cmd
}

// stateCmd builds a command that applies one reading-state change to the
// book given as first argument, then prints the book.
func (a *cli) stateCmd(use, short string, apply func(id int) error) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <book_id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args[0])
			if err != nil {
				return err
			}
			if err := apply(id); err != nil {
				return err
			}
			return a.printCurrent(id)
		},
	}
}

func (a *cli) readCmd() *cobra.Command {
	return a.stateCmd("read", "Mark a book as read", func(id int) error {
		_, err := a.lib.Tracker.MarkRead(id)
		return err
	})
}

func (a *cli) unreadCmd() *cobra.Command {
	return a.stateCmd("unread", "Mark a book as unread and drop its rating", func(id int) error {
		_, err := a.lib.Tracker.MarkUnread(id)
		return err
	})
}

func (a *cli) startCmd() *cobra.Command {
	return a.stateCmd("start", "Start reading a book", func(id int) error {
		_, err := a.lib.Tracker.StartReading(id)
		return err
	})
}

func (a *cli) finishCmd() *cobra.Command {
	return a.stateCmd("finish", "Finish a book in progress and mark it read", func(id int) error {
		_, err := a.lib.Tracker.FinishReading(id)
		return err
	})
}

func (a *cli) abandonCmd() *cobra.Command {
	return a.stateCmd("abandon", "Stop reading a book without marking it read", func(id int) error {
		_, err := a.lib.Tracker.AbandonReading(id)
		return err
	})
}

func (a *cli) rateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rate <book_id> <1-5>",
		Short: "Rate a read book, or 0 to clear the rating",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args[0])
			if err != nil {
				return err
			}
			rating, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid rating %q", args[1])
			}
			if _, err := a.lib.Tracker.SetRating(id, rating); err != nil {
				return err
			}
			return a.printCurrent(id)
		},
	}
}

func (a *cli) progressCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "progress <book_id> <pages_read>",
		Short: "Record pages read for a book in progress",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := idArg(args[0])
			if err != nil {
				return err
			}
			pages, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid page count %q", args[1])
			}
			if _, err := a.lib.Tracker.UpdateProgress(id, pages); err != nil {
				return err
			}
			return a.printReading()
		},
	}
}

func (a *cli) readingCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reading",
		Short: "List books in progress",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.printReading()
		},
	}
}

func (a *cli) recommendCmd() *cobra.Command {
	var limit, page, perPage int
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Suggest unread books from the genres you rate highest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.lib.Begin()
			if err != nil {
				return err
			}
			if len(s.State().ReadBooks) == 0 && !a.json {
				fmt.Fprintln(a.out, "No books marked as read yet, showing the catalog in order.")
			}
			return a.printPage(s.Recommendations(limit, page, perPage))
		},
	}
	cmd.Flags().IntVar(&limit, "limit", recommend.DefaultLimit, "Maximum number of suggestions")
	cmd.Flags().IntVar(&page, "page", 1, "Page number")
	cmd.Flags().IntVar(&perPage, "per-page", catalog.DefaultPerPage, "Books per page")
	return cmd
}

func (a *cli) statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show reading statistics",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.lib.Begin()
			if err != nil {
				return err
			}
			return a.printStats(s.Stats())
		},
	}
}

// printCurrent prints the book as it is after a change.
func (a *cli) printCurrent(id int) error {
	s, err := a.lib.Begin()
	if err != nil {
		return err
	}
	book, err := s.Book(id)
	if err != nil {
		return err
	}
	return a.printBook(book)
}

func (a *cli) printReading() error {
	s, err := a.lib.Begin()
	if err != nil {
		return err
	}
	return a.printProgress(s.InProgress())
}
