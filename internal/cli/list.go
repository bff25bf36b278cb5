package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vertextoedge/photo-catalog/internal/console"
	"github.com/vertextoedge/photo-catalog/internal/domain"
	"github.com/vertextoedge/photo-catalog/internal/domain/vo"
)

func newListCommand(s *session) *cobra.Command {
	var (
		minRating int
		after     string
		largest   bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print catalog records as a table",
		Example: `  photo-catalog list
  photo-catalog list --min-rating 4
  photo-catalog list --after 2024-05-01
  photo-catalog list --largest`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			set := 0
			for _, on := range []bool{minRating != 0, after != "", largest} {
				if on {
					set++
				}
			}
			if set > 1 {
				return errors.New("use only one of --min-rating, --after, --largest")
			}

			store := s.app.Store
			var photos []domain.Photo

			switch {
			case minRating != 0:
				if _, err := vo.ParseRating(minRating); err != nil {
					return fmt.Errorf("--min-rating: %w", err)
				}
				photos = store.ByMinRating(minRating)
			case after != "":
				day, err := time.ParseInLocation(time.DateOnly, after, time.Local)
				if err != nil {
					return fmt.Errorf("--after: expected a date like 2006-01-02: %w", err)
				}
				photos = store.TakenAfter(console.EndOfDay(day))
			case largest:
				if p, ok := store.Largest(); ok {
					photos = []domain.Photo{p}
				}
			default:
				photos = store.All()
			}

			out := cmd.OutOrStdout()
			if len(photos) == 0 {
				fmt.Fprintln(out, "No photos found.")
				return nil
			}
			if err := console.RenderPhotos(out, photos, s.app.Config.Console.DateLayout); err != nil {
				return err
			}
			fmt.Fprintf(out, "%d of %d photo(s)\n", len(photos), store.Count())
			return nil
		},
	}

	cmd.Flags().IntVar(&minRating, "min-rating", 0, "only photos rated at least N (1-5)")
	cmd.Flags().StringVar(&after, "after", "", "only photos taken after this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&largest, "largest", false, "only the largest photo")

	return cmd
}
