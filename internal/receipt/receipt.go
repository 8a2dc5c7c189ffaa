// Package receipt renders PDF receipts for verified payments.
package receipt

import (
	"bytes"
	"fmt"

	"rental-backend/internal/models"
	"rental-backend/internal/timeutil"

	"github.com/jung-kurt/gofpdf/v2"
)

// Data is everything printed on a receipt
type Data struct {
	Payment    *models.Payment
	Tenant     *models.User
	RoomNumber string
	Property   string
}

// Number is the printed receipt number for a payment
func Number(p *models.Payment) string {
	return fmt.Sprintf("RCPT-%06d", p.ID)
}

// Render builds an A4 receipt. The payment must already be verified.
func Render(d Data) ([]byte, error) {
	if d.Payment == nil || d.Tenant == nil {
		return nil, fmt.Errorf("receipt needs a payment and a tenant")
	}
	if d.Payment.Status != models.PaymentStatusVerified || d.Payment.VerifiedAt == nil {
		return nil, fmt.Errorf("payment %d is not verified", d.Payment.ID)
	}

	p := d.Payment
	verifiedAt := timeutil.ToNPT(*p.VerifiedAt)
	property := d.Property
	if property == "" {
		property = "Rental Property"
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()

	// Header
	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(190, 10, property+" - Payment Receipt", "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(190, 6, fmt.Sprintf("Generated: %s", timeutil.Now().Format(timeutil.DisplayLayout)), "", 1, "C", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(240, 240, 240)
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Tenant", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "", 11)
	pdf.CellFormat(95, 7, fmt.Sprintf("Name: %s", d.Tenant.Name), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Email: %s", d.Tenant.Email), "RB", 1, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Phone: %s", d.Tenant.Phone), "LB", 0, "L", false, 0, "")
	pdf.CellFormat(95, 7, fmt.Sprintf("Room: %s", d.RoomNumber), "RB", 1, "L", false, 0, "")
	pdf.Ln(5)

	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(190, 8, "Payment", "1", 1, "L", true, 0, "")

	pdf.SetFont("Arial", "B", 10)
	pdf.SetFillColor(200, 200, 200)
	pdf.CellFormat(50, 7, "Receipt #", "1", 0, "C", true, 0, "")
	pdf.CellFormat(45, 7, "Verified (AD)", "1", 0, "C", true, 0, "")
	pdf.CellFormat(45, 7, "Verified (BS)", "1", 0, "C", true, 0, "")
	pdf.CellFormat(50, 7, "Amount", "1", 1, "C", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.CellFormat(50, 6, Number(p), "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, verifiedAt.Format(timeutil.DateLayout), "1", 0, "C", false, 0, "")
	pdf.CellFormat(45, 6, timeutil.FormatBS(verifiedAt), "1", 0, "C", false, 0, "")
	pdf.CellFormat(50, 6, "Rs. "+p.Amount.StringFixed(2), "1", 1, "R", false, 0, "")
	pdf.Ln(5)

	pdf.SetFillColor(200, 255, 200)
	pdf.SetFont("Arial", "B", 14)
	pdf.CellFormat(190, 10, "All dues cleared", "1", 1, "C", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
