package controllers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"startuphub/api/errs"
	"startuphub/api/types"
	"startuphub/models"
)

func ExpenseCreate(c *gin.Context) {
	var request types.ExpenseRequest
	if !bind(c, &request) {
		return
	}
	var budget models.Budget
	if !loadBudget(c, &budget) {
		return
	}

	expense := models.Expense{
		BudgetID:      budget.ID,
		Status:        models.ExpensePending,
		SubmittedByID: currentUser(c).ID,
	}
	applyExpenseRequest(&expense, &request)
	if !checkExpenseCategory(c, &expense) {
		return
	}
	if !run(c, func(db *gorm.DB) error { return db.Omit("Category").Create(&expense).Error }) {
		return
	}
	created(c, expense)
}

func applyExpenseRequest(e *models.Expense, r *types.ExpenseRequest) {
	e.Title = r.Title
	e.Description = r.Description
	e.CategoryID = r.CategoryID
	e.Amount = r.Amount
	e.Date = r.Date
	e.ReceiptURL = r.ReceiptURL
}

func checkExpenseCategory(c *gin.Context, e *models.Expense) bool {
	if e.CategoryID == nil {
		return true
	}
	var category models.BudgetCategory
	if !find(c, &category, *e.CategoryID, errs.ErrCategoryNotFound) {
		return false
	}
	if category.BudgetID != e.BudgetID {
		c.Error(errs.ErrCategoryMismatch)
		return false
	}
	return true
}

// ExpenseList filters by status, category and an inclusive date range. A bare date as
// the upper bound takes in the whole day.
func ExpenseList(c *gin.Context) {
	budgetID, valid := paramID(c, "id")
	if !valid {
		return
	}
	categoryID, hasCategory, valid := queryID(c, "category_id")
	if !valid {
		return
	}
	from, hasFrom, valid := queryTime(c, "from")
	if !valid {
		return
	}
	to, hasTo, valid := queryTime(c, "to")
	if !valid {
		return
	}
	if hasFrom && hasTo && to.Before(from) {
		c.Error(errs.ErrInvalidQuery)
		return
	}
	toClause := "date <= ?"
	if hasTo && dateOnly(c, "to") {
		to = to.AddDate(0, 0, 1)
		toClause = "date < ?"
	}
	status := c.Query("status")

	list[models.Expense](c, func(db *gorm.DB) *gorm.DB {
		db = db.Where("budget_id = ?", budgetID)
		if status != "" {
			db = db.Where("status = ?", status)
		}
		if hasCategory {
			db = db.Where("category_id = ?", categoryID)
		}
		if hasFrom {
			db = db.Where("date >= ?", from)
		}
		if hasTo {
			db = db.Where(toClause, to)
		}
		return db
	}, "date desc", "Category")
}

func loadExpense(c *gin.Context, expense *models.Expense) bool {
	id, valid := paramID(c, "id")
	if !valid {
		return false
	}
	return find(c, expense, id, errs.ErrExpenseNotFound)
}

func ExpenseUpdate(c *gin.Context) {
	var request types.ExpenseRequest
	if !bind(c, &request) {
		return
	}
	var expense models.Expense
	if !loadExpense(c, &expense) {
		return
	}
	applyExpenseRequest(&expense, &request)
	if !checkExpenseCategory(c, &expense) {
		return
	}
	if !run(c, func(db *gorm.DB) error { return db.Omit("Category").Save(&expense).Error }) {
		return
	}
	ok(c, "updated", expense)
}

// ExpenseUpdateStatus approves or rejects a pending expense.
func ExpenseUpdateStatus(c *gin.Context) {
	var request types.StatusRequest
	if !bind(c, &request) {
		return
	}
	if request.Status != models.ExpenseApproved && request.Status != models.ExpenseRejected {
		c.Error(errs.ErrInvalidStatus)
		return
	}
	var expense models.Expense
	if !loadExpense(c, &expense) {
		return
	}
	if expense.Status != models.ExpensePending {
		c.Error(errs.ErrInvalidTransition)
		return
	}
	if !run(c, func(db *gorm.DB) error {
		res := db.Model(&models.Expense{}).
			Where("id = ? AND status = ?", expense.ID, models.ExpensePending).
			Update("status", request.Status)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errs.ErrInvalidTransition
		}
		return nil
	}) {
		return
	}
	expense.Status = request.Status
	ok(c, "updated", expense)
}

func ExpenseDelete(c *gin.Context) {
	var expense models.Expense
	if !loadExpense(c, &expense) {
		return
	}
	if !run(c, func(db *gorm.DB) error { return db.Delete(&expense).Error }) {
		return
	}
	deleted(c)
}
