// Package payslip renders employee payslips as PDF documents.
package payslip

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// Data is one employee's payslip content for a single period.
type Data struct {
	CompanyName  string
	EmployeeName string
	EmployeeCode string
	TRN          string
	Period       string
	GrossSalary  decimal.Decimal
	Deductions   decimal.Decimal
	NIS          decimal.Decimal
	NHT          decimal.Decimal
	EdTax        decimal.Decimal
	PAYE         decimal.Decimal
	TotalTax     decimal.Decimal
	NetSalary    decimal.Decimal
}

type Renderer interface {
	Render(data Data) ([]byte, error)
}

type pdfRenderer struct{}

func NewRenderer() Renderer {
	return &pdfRenderer{}
}

func (r *pdfRenderer) Render(data Data) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(0, 10, data.CompanyName)
	pdf.Ln(10)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, fmt.Sprintf("Payslip - %s", data.Period))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	pdf.Cell(0, 7, fmt.Sprintf("Employee: %s (%s)", data.EmployeeName, data.EmployeeCode))
	pdf.Ln(6)
	if data.TRN != "" {
		pdf.Cell(0, 7, fmt.Sprintf("TRN: %s", data.TRN))
		pdf.Ln(6)
	}
	pdf.Ln(6)

	line := func(label string, amount decimal.Decimal) {
		pdf.CellFormat(110, 7, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(60, 7, amount.StringFixed(2), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 11)
	line("Gross Pay", data.GrossSalary)
	pdf.SetFont("Helvetica", "", 11)
	line("Other Deductions", data.Deductions)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 7, "Statutory Deductions")
	pdf.Ln(8)
	pdf.SetFont("Helvetica", "", 11)
	line("NIS", data.NIS)
	line("NHT", data.NHT)
	line("Education Tax", data.EdTax)
	line("PAYE", data.PAYE)
	pdf.SetFont("Helvetica", "B", 11)
	line("Total Statutory", data.TotalTax)
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 13)
	line("Net Pay", data.NetSalary)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render payslip pdf: %w", err)
	}
	return buf.Bytes(), nil
}
