package services

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"

	"startuphub/models"
)

const (
	summarySheet  = "Summary"
	expensesSheet = "Expenses"
)

// ExportBudget renders a budget summary and its expenses into a workbook.
func ExportBudget(ctx context.Context, budgetID uint) (*excelize.File, error) {
	summary, err := SummarizeBudget(ctx, budgetID)
	if err != nil {
		return nil, err
	}

	var expenses []models.Expense
	err = models.Run(ctx, func(db *gorm.DB) error {
		return db.Preload("Category").
			Where("budget_id = ?", budgetID).
			Order("date asc, id asc").
			Find(&expenses).Error
	})
	if err != nil {
		return nil, err
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(expensesSheet); err != nil {
		f.Close()
		return nil, err
	}

	rows := [][]any{
		{"Budget", summary.Title},
		{"Currency", summary.Currency},
		{"Total", summary.Total},
		{"Allocated", summary.Allocated},
		{"Spent", summary.Spent},
		{"Pending", summary.Pending},
		{"Remaining", summary.Remaining},
		{},
		{"Category", "Allocated", "Spent", "Pending", "Remaining"},
	}
	for _, c := range summary.Categories {
		rows = append(rows, []any{c.Name, c.Allocated, c.Spent, c.Pending, c.Remaining})
	}
	if err := writeRows(f, summarySheet, rows); err != nil {
		f.Close()
		return nil, err
	}

	rows = [][]any{{"Date", "Title", "Category", "Amount", "Status", "Receipt"}}
	for _, e := range expenses {
		category := UncategorizedName
		if e.Category != nil {
			category = e.Category.Name
		}
		rows = append(rows, []any{e.Date.Format("2006-01-02"), e.Title, category, e.Amount, e.Status, e.ReceiptURL})
	}
	if err := writeRows(f, expensesSheet, rows); err != nil {
		f.Close()
		return nil, err
	}

	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
