package notification

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
)

// ReceiptData is everything a receipt PDF and its email need.
type ReceiptData struct {
	Title     string
	Code      string
	Recipient string
	Email     string
	Building  string
	Room      string
	Period    string
	Lines     []ReceiptLine
	Total     int64
	PaidAt    time.Time
}

// ReceiptLine is one labeled row on the receipt.
type ReceiptLine struct {
	Label string
	Value string
}

// RenderReceiptPDF lays out the receipt on a single A4 page.
func RenderReceiptPDF(data ReceiptData) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Dormitory Payment Receipt", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, data.Title, "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "", 11)
	rows := append([]ReceiptLine{
		{Label: "Receipt code", Value: data.Code},
		{Label: "Paid by", Value: data.Recipient},
	}, data.Lines...)
	if data.Building != "" {
		rows = append(rows, ReceiptLine{Label: "Building", Value: data.Building})
	}
	if data.Room != "" {
		rows = append(rows, ReceiptLine{Label: "Room", Value: data.Room})
	}
	if data.Period != "" {
		rows = append(rows, ReceiptLine{Label: "Period", Value: data.Period})
	}
	rows = append(rows,
		ReceiptLine{Label: "Paid at", Value: data.PaidAt.Format("2006-01-02 15:04")},
	)

	for _, row := range rows {
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(50, 8, row.Label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 11)
		pdf.CellFormat(0, 8, row.Value, "", 1, "L", false, 0, "")
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(50, 10, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(0, 10, fmt.Sprintf("%d VND", data.Total), "T", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render receipt pdf: %w", err)
	}
	return buf.Bytes(), nil
}
