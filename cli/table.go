package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"
)

var (
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#BCBCBC", Dark: "#585858"})
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	tableErrorStyle  = tableCellStyle.Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
)

// renderTable draws rows under headers. Rows whose errorColumn cell is set are highlighted;
// pass -1 to disable.
func renderTable(w io.Writer, headers []string, rows [][]string, errorColumn int) {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(tableBorderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			if errorColumn >= 0 && row < len(rows) && errorColumn < len(rows[row]) && rows[row][errorColumn] != "" {
				return tableErrorStyle
			}
			return tableCellStyle
		})

	_, _ = fmt.Fprintln(w, t.Render())
}

// field is one line of a key/value block.
type field struct {
	key   string
	value string
}

// renderFields prints an indented block with values aligned after the widest key. Widths
// are measured in terminal cells so symbols like ₹ line up.
func renderFields(w io.Writer, fields []field) {
	width := 0
	for _, f := range fields {
		if n := runewidth.StringWidth(f.key); n > width {
			width = n
		}
	}

	var buf strings.Builder
	for _, f := range fields {
		buf.WriteString("  ")
		buf.WriteString(runewidth.FillRight(f.key, width))
		buf.WriteString("  ")
		buf.WriteString(f.value)
		buf.WriteByte('\n')
	}
	_, _ = io.WriteString(w, buf.String())
}

// trimColumns drops trailing columns that are blank in every row, such as the error column of
// a report without failed sells.
func trimColumns(headers []string, rows [][]string) ([]string, [][]string) {
	keep := len(headers)
	for keep > 0 {
		blank := true
		for _, row := range rows {
			if keep-1 < len(row) && row[keep-1] != "" {
				blank = false
				break
			}
		}
		if !blank {
			break
		}
		keep--
	}
	if keep == len(headers) || len(rows) == 0 {
		return headers, rows
	}

	out := make([][]string, len(rows))
	for i, row := range rows {
		if len(row) > keep {
			row = row[:keep]
		}
		out[i] = row
	}
	return headers[:keep], out
}
