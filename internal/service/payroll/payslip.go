package payroll

import (
	"bytes"
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/employee"
	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/jwt"
	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
)

// selfEmployee resolves the employee linked to the caller's account.
func (s *PayrollServiceImpl) selfEmployee(ctx context.Context) (employee.Employee, error) {
	actor, err := jwt.ActorFromContext(ctx)
	if err != nil {
		return employee.Employee{}, err
	}
	if actor.EmployeeID == nil {
		return employee.Employee{}, payroll.ErrNoEmployeeLink
	}
	return s.employeeRepo.GetByID(ctx, *actor.EmployeeID)
}

func payslipEmployee(e employee.Employee) payroll.PayslipEmployee {
	return payroll.PayslipEmployee{
		ID:           e.ID,
		EmployeeCode: e.EmployeeCode,
		FullName:     e.FullName,
	}
}

// ListMyPayslips implements payroll.PayrollService.
func (s *PayrollServiceImpl) ListMyPayslips(ctx context.Context, periodKey *string) (payroll.ListPayslipResponse, error) {
	emp, err := s.selfEmployee(ctx)
	if err != nil {
		return payroll.ListPayslipResponse{}, err
	}

	details, err := s.payrollRepo.ListDetailsByEmployee(ctx, emp.ID, periodKey)
	if err != nil {
		return payroll.ListPayslipResponse{}, err
	}

	slips := make([]payroll.DetailResponse, 0, len(details))
	for _, d := range details {
		slips = append(slips, s.detailResponse(d))
	}

	return payroll.ListPayslipResponse{
		Employee: payslipEmployee(emp),
		Slips:    slips,
	}, nil
}

// GetMyPayslip implements payroll.PayrollService.
func (s *PayrollServiceImpl) GetMyPayslip(ctx context.Context, periodID string) (payroll.PayslipResponse, error) {
	emp, err := s.selfEmployee(ctx)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	d, err := s.payrollRepo.GetDetailByEmployeeAndPeriod(ctx, emp.ID, periodID)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	slip, err := s.detailWithComponents(ctx, d)
	if err != nil {
		return payroll.PayslipResponse{}, err
	}

	return payroll.PayslipResponse{
		Employee: payslipEmployee(emp),
		Slip:     slip,
	}, nil
}

// RenderMyPayslipPDF implements payroll.PayrollService.
func (s *PayrollServiceImpl) RenderMyPayslipPDF(ctx context.Context, periodID string) (payroll.PayslipDocument, error) {
	slip, err := s.GetMyPayslip(ctx, periodID)
	if err != nil {
		return payroll.PayslipDocument{}, err
	}

	content, err := renderPayslip(slip)
	if err != nil {
		return payroll.PayslipDocument{}, err
	}

	period := slip.Slip.PeriodID
	if slip.Slip.PeriodKey != nil {
		period = *slip.Slip.PeriodKey
	}
	return payroll.PayslipDocument{
		Filename:    fmt.Sprintf("payslip-%s-%s.pdf", slip.Employee.EmployeeCode, period),
		ContentType: "application/pdf",
		Content:     content,
	}, nil
}

func formatAmount(v decimal.Decimal) string {
	return "Rp " + v.StringFixed(2)
}

func renderPayslip(p payroll.PayslipResponse) ([]byte, error) {
	slip := p.Slip

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 11)
	header := [][2]string{
		{"Employee", fmt.Sprintf("%s (%s)", p.Employee.FullName, p.Employee.EmployeeCode)},
	}
	if slip.PeriodKey != nil {
		header = append(header, [2]string{"Period", *slip.PeriodKey})
	}
	if slip.JobTitleName != nil {
		header = append(header, [2]string{"Job title", *slip.JobTitleName})
	}
	if slip.BankName != nil && slip.BankAccountNumber != nil {
		header = append(header, [2]string{"Bank account", *slip.BankName + " " + *slip.BankAccountNumber})
	}
	for _, row := range header {
		pdf.CellFormat(40, 7, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, row[1], "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(120, 8, "Item", "B", 0, "L", false, 0, "")
	pdf.CellFormat(0, 8, "Amount", "B", 1, "R", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)

	line := func(label string, amount decimal.Decimal) {
		pdf.CellFormat(120, 7, label, "", 0, "L", false, 0, "")
		pdf.CellFormat(0, 7, formatAmount(amount), "", 1, "R", false, 0, "")
	}
	line("Base salary", slip.BaseSalary)
	for _, c := range slip.Components {
		if c.Kind == string(payroll.ComponentAllowance) {
			line("  + "+c.Name, c.Amount)
		}
	}
	line("Allowances", slip.Allowances)
	for _, c := range slip.Components {
		if c.Kind == string(payroll.ComponentDeduction) {
			line("  - "+c.Name, c.Amount)
		}
	}
	line("Deductions", slip.Deductions)
	line("Income tax (PPh21)", slip.Tax)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(120, 9, "Take-home pay", "T", 0, "L", false, 0, "")
	pdf.CellFormat(0, 9, formatAmount(slip.Total), "T", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render payslip: %w", err)
	}
	return buf.Bytes(), nil
}
