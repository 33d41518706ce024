package services

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"startuphub/api/errs"
	"startuphub/models"
)

type CategorySummary struct {
	CategoryID *uint   `json:"category_id"`
	Name       string  `json:"name"`
	Allocated  float64 `json:"allocated"`
	Spent      float64 `json:"spent"`
	Pending    float64 `json:"pending"`
	Remaining  float64 `json:"remaining"`
}

type BudgetSummary struct {
	BudgetID   uint              `json:"budget_id"`
	Title      string            `json:"title"`
	Currency   string            `json:"currency"`
	Total      float64           `json:"total"`
	Allocated  float64           `json:"allocated"`
	Spent      float64           `json:"spent"`
	Pending    float64           `json:"pending"`
	Remaining  float64           `json:"remaining"`
	Categories []CategorySummary `json:"categories"`
}

type expenseSum struct {
	CategoryID *uint
	Status     string
	Total      float64
}

// UncategorizedName labels expenses that carry no category.
const UncategorizedName = "Uncategorized"

// SummarizeBudget totals approved and pending expenses per category of a budget.
func SummarizeBudget(ctx context.Context, budgetID uint) (*BudgetSummary, error) {
	var budget models.Budget
	var sums []expenseSum

	err := models.Run(ctx, func(db *gorm.DB) error {
		if err := db.Preload("Categories", func(db *gorm.DB) *gorm.DB {
			return db.Order("id asc")
		}).First(&budget, budgetID).Error; err != nil {
			return err
		}
		sums = nil
		return db.Model(&models.Expense{}).
			Select("category_id, status, SUM(amount) as total").
			Where("budget_id = ? AND status IN ?", budgetID, []string{models.ExpenseApproved, models.ExpensePending}).
			Group("category_id, status").
			Scan(&sums).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, errs.ErrBudgetNotFound
	}
	if err != nil {
		return nil, err
	}

	summary := &BudgetSummary{
		BudgetID:   budget.ID,
		Title:      budget.Title,
		Currency:   budget.Currency,
		Total:      budget.TotalAmount,
		Categories: make([]CategorySummary, 0, len(budget.Categories)+1),
	}

	index := make(map[uint]int, len(budget.Categories))
	for _, cat := range budget.Categories {
		id := cat.ID
		index[id] = len(summary.Categories)
		summary.Categories = append(summary.Categories, CategorySummary{
			CategoryID: &id,
			Name:       cat.Name,
			Allocated:  cat.AllocatedAmount,
		})
		summary.Allocated += cat.AllocatedAmount
	}

	uncategorized := -1
	for _, s := range sums {
		var i int
		if s.CategoryID == nil {
			if uncategorized < 0 {
				uncategorized = len(summary.Categories)
				summary.Categories = append(summary.Categories, CategorySummary{Name: UncategorizedName})
			}
			i = uncategorized
		} else {
			pos, ok := index[*s.CategoryID]
			if !ok {
				continue
			}
			i = pos
		}

		switch s.Status {
		case models.ExpenseApproved:
			summary.Categories[i].Spent += s.Total
			summary.Spent += s.Total
		case models.ExpensePending:
			summary.Categories[i].Pending += s.Total
			summary.Pending += s.Total
		}
	}

	for i := range summary.Categories {
		summary.Categories[i].Remaining = summary.Categories[i].Allocated - summary.Categories[i].Spent
	}
	summary.Remaining = summary.Total - summary.Spent
	return summary, nil
}

// CheckAllocation fails with ErrOverAllocated when giving a category amount would push the
// budget's allocations past its total. exclude is the category being replaced, or 0.
func CheckAllocation(db *gorm.DB, budget *models.Budget, exclude uint, amount float64) error {
	var allocated float64
	q := db.Model(&models.BudgetCategory{}).
		Select("COALESCE(SUM(allocated_amount), 0)").
		Where("budget_id = ?", budget.ID)
	if exclude != 0 {
		q = q.Where("id <> ?", exclude)
	}
	if err := q.Scan(&allocated).Error; err != nil {
		return err
	}
	if allocated+amount > budget.TotalAmount {
		return errs.ErrOverAllocated
	}
	return nil
}
