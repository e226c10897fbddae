package reports

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/yeremiapane/table-reservation/models"
	"github.com/yeremiapane/table-reservation/scheduling"
)

// DailySheet is the input of the printable list of one day's reservations.
type DailySheet struct {
	Day             string
	Location        *time.Location
	DurationMinutes int
	GeneratedAt     time.Time
	Tables          []models.Table
	Reservations    []models.Reservation
}

var columns = []struct {
	title string
	width float64
}{
	{"Time", 28},
	{"Client", 48},
	{"Contact", 40},
	{"Party", 14},
	{"Status", 22},
	{"Notes", 38},
}

// WriteDailySheet renders sheet as an A4 PDF, one block per table in table
// number order. Tables without reservations are listed as free.
func WriteDailySheet(w io.Writer, sheet DailySheet) error {
	loc := sheet.Location
	if loc == nil {
		loc = time.UTC
	}

	byTable := make(map[int][]models.Reservation)
	for _, r := range sheet.Reservations {
		byTable[r.TableNumber] = append(byTable[r.TableNumber], r)
	}
	tables := append([]models.Table(nil), sheet.Tables...)
	sort.Slice(tables, func(i, j int) bool { return tables[i].Number < tables[j].Number })

	pdf := fpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Reservations "+sheet.Day, true)
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, tr("Reservations for "+sheet.Day), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, tr(fmt.Sprintf("Generated %s (%s), %d minute windows",
		sheet.GeneratedAt.In(loc).Format("2006-01-02 15:04"), loc, sheet.DurationMinutes)), "", 1, "L", false, 0, "")
	pdf.Ln(4)

	for _, table := range tables {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(0, 8, tr(fmt.Sprintf("Table %d  |  %s  |  %d seats", table.Number, table.Location, table.Capacity)),
			"1", 1, "L", true, 0, "")

		reservations := byTable[table.Number]
		if len(reservations) == 0 {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 7, "No reservations", "LRB", 1, "L", false, 0, "")
			pdf.Ln(3)
			continue
		}

		pdf.SetFont("Helvetica", "B", 9)
		for _, col := range columns {
			pdf.CellFormat(col.width, 7, col.title, "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)

		pdf.SetFont("Helvetica", "", 9)
		for _, r := range reservations {
			start, end := scheduling.Window(r.StartTime, sheet.DurationMinutes)
			notes := ""
			if r.Notes != nil {
				notes = *r.Notes
			}
			cells := []string{
				start.In(loc).Format("15:04") + " - " + end.In(loc).Format("15:04"),
				r.ClientName,
				r.Contact,
				strconv.Itoa(r.PartySize),
				string(r.Status),
				notes,
			}
			for i, col := range columns {
				pdf.CellFormat(col.width, 7, tr(truncate(pdf, cells[i], col.width-2)), "1", 0, "L", false, 0, "")
			}
			pdf.Ln(-1)
		}
		pdf.Ln(3)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("render daily sheet: %w", err)
	}
	return pdf.Output(w)
}

func truncate(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > width {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
