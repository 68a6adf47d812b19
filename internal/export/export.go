// Package export renders ledger data as spreadsheet workbooks.
package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/alioucisse7/truck-management/internal/models"
)

var financeHeaders = []string{"Date", "Type", "Category", "Description", "Amount"}

// FinanceWorkbook builds an xlsx workbook with one row per ledger record and
// income/expense totals at the bottom.
func FinanceWorkbook(records []models.FinanceRecord) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Finances"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	for col, header := range financeHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, err
		}
	}

	var income, expenses float64
	for i, record := range records {
		row := i + 2
		values := []interface{}{
			record.Date.Format("2006-01-02"),
			string(record.Type),
			record.Category,
			record.Description,
			record.Amount,
		}
		for col, value := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheet, cell, value); err != nil {
				return nil, err
			}
		}

		switch record.Type {
		case models.FinanceIncome:
			income += record.Amount
		case models.FinanceExpense:
			expenses += record.Amount
		}
	}

	totalsRow := len(records) + 3
	totals := []struct {
		label  string
		amount float64
	}{
		{"Total income", income},
		{"Total expenses", expenses},
		{"Profit", income - expenses},
	}
	for i, total := range totals {
		labelCell := fmt.Sprintf("A%d", totalsRow+i)
		amountCell := fmt.Sprintf("E%d", totalsRow+i)
		if err := f.SetCellValue(sheet, labelCell, total.label); err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheet, amountCell, total.amount); err != nil {
			return nil, err
		}
	}

	return f, nil
}
