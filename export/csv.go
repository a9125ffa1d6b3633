package export

import (
	"encoding/csv"
	"io"

	"github.com/robinvdvleuten/cryptofifo/report"
)

// WriteCSV writes the FIFO report rows with a header line. Blank cells are empty fields.
func WriteCSV(w io.Writer, rows []report.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(report.RowHeaders); err != nil {
		return err
	}
	for _, row := range rows {
		if err := cw.Write(row.Cells()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
