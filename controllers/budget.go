package controllers

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"startuphub/api/errs"
	"startuphub/api/types"
	"startuphub/models"
	"startuphub/services"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func BudgetCreate(c *gin.Context) {
	callID, valid := paramID(c, "id")
	if !valid {
		return
	}
	var request types.BudgetRequest
	if !bind(c, &request) {
		return
	}
	var call models.StartupCall
	if !find(c, &call, callID, errs.ErrCallNotFound) {
		return
	}

	budget := models.Budget{StartupCallID: call.ID, Currency: "USD", Status: models.BudgetDraft}
	applyBudgetRequest(&budget, &request)
	if !run(c, func(db *gorm.DB) error { return db.Omit("Categories").Create(&budget).Error }) {
		return
	}
	created(c, budget)
}

func applyBudgetRequest(b *models.Budget, r *types.BudgetRequest) {
	b.Title = r.Title
	b.Description = r.Description
	b.FiscalYear = r.FiscalYear
	b.TotalAmount = r.TotalAmount
	if r.Currency != "" {
		b.Currency = r.Currency
	}
	if r.Status != "" {
		b.Status = r.Status
	}
}

func BudgetList(c *gin.Context) {
	callID, valid := paramID(c, "id")
	if !valid {
		return
	}
	status := c.Query("status")
	list[models.Budget](c, func(db *gorm.DB) *gorm.DB {
		db = db.Where("startup_call_id = ?", callID)
		if status != "" {
			db = db.Where("status = ?", status)
		}
		return db
	}, "id asc", "Categories")
}

func loadBudget(c *gin.Context, budget *models.Budget, preload ...string) bool {
	id, valid := paramID(c, "id")
	if !valid {
		return false
	}
	return find(c, budget, id, errs.ErrBudgetNotFound, preload...)
}

func BudgetGet(c *gin.Context) {
	var budget models.Budget
	if !loadBudget(c, &budget, "Categories") {
		return
	}
	ok(c, "", budget)
}

// BudgetUpdate refuses a total smaller than what the categories already hold.
func BudgetUpdate(c *gin.Context) {
	var request types.BudgetRequest
	if !bind(c, &request) {
		return
	}
	var budget models.Budget
	if !loadBudget(c, &budget) {
		return
	}
	applyBudgetRequest(&budget, &request)
	if !run(c, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if err := services.CheckAllocation(tx, &budget, 0, 0); err != nil {
				return err
			}
			return tx.Omit("Categories").Save(&budget).Error
		})
	}) {
		return
	}
	ok(c, "updated", budget)
}

func BudgetDelete(c *gin.Context) {
	var budget models.Budget
	if !loadBudget(c, &budget) {
		return
	}
	if !run(c, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.Expense{}).Where("budget_id = ?", budget.ID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return errs.ErrBudgetHasExpenses
			}
			if err := tx.Where("budget_id = ?", budget.ID).Delete(&models.BudgetCategory{}).Error; err != nil {
				return err
			}
			return tx.Delete(&budget).Error
		})
	}) {
		return
	}
	deleted(c)
}

func BudgetSummary(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	summary, err := services.SummarizeBudget(c.Request.Context(), id)
	if err != nil {
		c.Error(err)
		return
	}
	ok(c, "", summary)
}

func BudgetExport(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	f, err := services.ExportBudget(c.Request.Context(), id)
	if errors.Is(err, errs.ErrBudgetNotFound) {
		c.Error(err)
		return
	}
	if err != nil {
		log.Error().
			Err(err).
			Uint("budget_id", id).
			Msg("failed to build budget workbook")
		c.Error(errs.ErrExportFailed)
		return
	}
	defer f.Close()

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="budget-%d.xlsx"`, id))
	if err := f.Write(c.Writer); err != nil {
		log.Error().
			Err(err).
			Uint("budget_id", id).
			Msg("failed to write budget workbook")
	}
}

func CategoryCreate(c *gin.Context) {
	var request types.CategoryRequest
	if !bind(c, &request) {
		return
	}
	var budget models.Budget
	if !loadBudget(c, &budget) {
		return
	}

	category := models.BudgetCategory{
		BudgetID:        budget.ID,
		Name:            request.Name,
		Description:     request.Description,
		AllocatedAmount: request.AllocatedAmount,
	}
	if !run(c, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if err := services.CheckAllocation(tx, &budget, 0, category.AllocatedAmount); err != nil {
				return err
			}
			return tx.Create(&category).Error
		})
	}) {
		return
	}
	created(c, category)
}

func CategoryUpdate(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var request types.CategoryRequest
	if !bind(c, &request) {
		return
	}
	var category models.BudgetCategory
	if !find(c, &category, id, errs.ErrCategoryNotFound) {
		return
	}
	var budget models.Budget
	if !find(c, &budget, category.BudgetID, errs.ErrBudgetNotFound) {
		return
	}

	category.Name = request.Name
	category.Description = request.Description
	category.AllocatedAmount = request.AllocatedAmount
	if !run(c, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			if err := services.CheckAllocation(tx, &budget, category.ID, category.AllocatedAmount); err != nil {
				return err
			}
			return tx.Save(&category).Error
		})
	}) {
		return
	}
	ok(c, "updated", category)
}

func CategoryDelete(c *gin.Context) {
	id, valid := paramID(c, "id")
	if !valid {
		return
	}
	var category models.BudgetCategory
	if !find(c, &category, id, errs.ErrCategoryNotFound) {
		return
	}
	if !run(c, func(db *gorm.DB) error {
		return db.Transaction(func(tx *gorm.DB) error {
			var count int64
			if err := tx.Model(&models.Expense{}).Where("category_id = ?", category.ID).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				return errs.ErrCategoryHasExpenses
			}
			return tx.Delete(&category).Error
		})
	}) {
		return
	}
	deleted(c)
}
