package console

import (
	"io"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/vertextoedge/photo-catalog/internal/domain"
)

const maxDescription = 40

var photoHeaders = []string{"ID", "File", "Description", "Taken", "Size (MB)", "Rating"}

var photoAlignment = []tw.Align{
	tw.AlignRight, tw.AlignLeft, tw.AlignLeft, tw.AlignLeft, tw.AlignRight, tw.AlignLeft,
}

// RenderPhotos writes photos as a table using dateLayout for the Taken column
func RenderPhotos(w io.Writer, photos []domain.Photo, dateLayout string) error {
	config := tablewriter.Config{}
	config.Header.Alignment = tw.CellAlignment{PerColumn: photoAlignment}
	config.Row.Alignment = tw.CellAlignment{PerColumn: photoAlignment}

	table := tablewriter.NewTable(w, tablewriter.WithConfig(config))

	headers := make([]any, len(photoHeaders))
	for i, h := range photoHeaders {
		headers[i] = h
	}
	table.Header(headers...)

	for _, p := range photos {
		if err := table.Append(photoRow(p, dateLayout)...); err != nil {
			return err
		}
	}

	return table.Render()
}

func photoRow(p domain.Photo, dateLayout string) []any {
	description := p.Description
	if r := []rune(description); len(r) > maxDescription {
		description = string(r[:maxDescription-3]) + "..."
	}
	if description == "" {
		description = "-"
	}

	return []any{
		strconv.Itoa(p.ID),
		p.FileName,
		description,
		p.DateTaken.Format(dateLayout),
		humanize.FtoaWithDigits(p.FileSizeMB, 2),
		p.Stars(),
	}
}
