package bookings

import (
	"bytes"
	"fmt"
	"strings"

	"busbooking/internal/passengers"

	"github.com/phpdave11/gofpdf"
)

// RenderTicketPDF lays out a one page e-ticket with the trip, the travellers and the fare.
func RenderTicketPDF(b *Booking, travellers []passengers.Passenger) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket "+b.BookingCode, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BUS E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		"Booking code : " + b.BookingCode,
		"Route        : " + b.Source + " to " + b.Destination,
		"Travel date  : " + b.TravelDate,
		"Departure    : " + b.DepartureTime.Format("02 Jan 2006 15:04"),
		"Seats        : " + strings.Join(b.SeatNumbers(), ", "),
		"Status       : " + string(b.Status),
	}
	for _, s := range lines {
		pdf.Cell(0, 7, s)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Passengers")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(80, 7, "Name", "1", 0, "L", false, 0, "")
	pdf.CellFormat(20, 7, "Age", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 7, "Gender", "1", 0, "C", false, 0, "")
	pdf.CellFormat(30, 7, "Seat", "1", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, p := range travellers {
		pdf.CellFormat(80, 7, p.Name, "1", 0, "L", false, 0, "")
		pdf.CellFormat(20, 7, fmt.Sprintf("%d", p.Age), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, string(p.Gender), "1", 0, "C", false, 0, "")
		pdf.CellFormat(30, 7, p.SeatNumber, "1", 1, "C", false, 0, "")
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Fare")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 11)
	fares := [][2]string{
		{"Base fare", formatRupees(b.BaseFare)},
		{"Service fee", formatRupees(b.ServiceFee)},
		{"GST", formatRupees(b.GSTAmount)},
	}
	for _, f := range fares {
		pdf.CellFormat(60, 7, f[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, f[1], "", 1, "R", false, 0, "")
	}
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(60, 8, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(40, 8, formatRupees(b.TotalPrice), "T", 1, "R", false, 0, "")

	if len(b.Payments) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "I", 10)
		pdf.Cell(0, 6, "Transaction: "+b.Payments[0].TransactionID)
		pdf.Ln(6)
	}

	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please carry a valid photo ID and report at the boarding point 15 minutes before departure.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render ticket: %w", err)
	}
	return buf.Bytes(), nil
}

// gofpdf core fonts have no rupee glyph
func formatRupees(amount int64) string {
	return fmt.Sprintf("Rs. %d", amount)
}
