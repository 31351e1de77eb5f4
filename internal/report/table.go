// internal/report/table.go
// Package: report

// Package report turns a finished sweep dataset into tables, charts and
// exported files.
package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mwiater/spmvsweep/internal/harness"
)

const failedCell = "FAILED"

var tableHeaders = []string{
	"Size", "Sparsity", "Procs",
	"Build (s)", "Comm (s)", "Calc (s)", "Total CSR (s)", "Total Dense (s)",
	"Runs", "Speedup",
}

// Rows returns one row per grid cell, in grid order, as rendered by
// RenderTable.
func Rows(ds *harness.Dataset) [][]string {
	cells := ds.Cells()
	rows := make([][]string, 0, len(cells))
	for _, c := range cells {
		p := c.Point()
		row := []string{
			strconv.Itoa(p.Size),
			harness.FormatSparsity(p.Sparsity),
			strconv.Itoa(p.ProcessCount),
		}
		if c.Record == nil {
			row = append(row,
				failedCell, failedCell, failedCell, failedCell, failedCell,
				fmt.Sprintf("0/%d", c.Failed.Attempts),
				"-",
			)
			rows = append(rows, row)
			continue
		}
		r := c.Record
		row = append(row,
			seconds(r.Mean.Build),
			seconds(r.Mean.Comm),
			seconds(r.Mean.Calc),
			seconds(r.Mean.TotalCSR),
			seconds(r.Mean.TotalDense),
			fmt.Sprintf("%d/%d", r.SuccessfulRuns, r.Repeats),
			r.Speedup.String(),
		)
		rows = append(rows, row)
	}
	return rows
}

func seconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// RenderTable writes the result table followed by a one-line summary.
func RenderTable(w io.Writer, ds *harness.Dataset) error {
	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1).Align(lipgloss.Center)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	numStyle := cellStyle.Align(lipgloss.Right)
	failStyle := cellStyle.Foreground(lipgloss.Color("9")).Align(lipgloss.Right)

	rows := Rows(ds)
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("8"))).
		Headers(tableHeaders...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(rows) && rows[row][col] == failedCell:
				return failStyle
			case col == len(tableHeaders)-1:
				return cellStyle
			default:
				return numStyle
			}
		})

	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "%d/%d points completed, %d failed (run %s, %d repeats, %d iterations)\n",
		len(ds.Records), ds.GridSize, len(ds.Failed), ds.RunID, ds.Repeats, ds.Iterations)
	return err
}
