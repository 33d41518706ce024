package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"startuphub/api/errs"
	"startuphub/models"
	"startuphub/testutil"
)

type budgetFixture struct {
	budget    models.Budget
	marketing models.BudgetCategory
	ops       models.BudgetCategory
}

func seedBudget(t *testing.T, db *gorm.DB) budgetFixture {
	t.Helper()
	admin := testutil.CreateUser(t, db, "admin@example.com", models.RoleAdmin)
	call := testutil.CreateCall(t, db, admin.ID)

	f := budgetFixture{budget: models.Budget{
		StartupCallID: call.ID,
		Title:         "Program 2026",
		TotalAmount:   10000,
		Currency:      "EUR",
		Status:        models.BudgetActive,
	}}
	require.NoError(t, db.Create(&f.budget).Error)

	f.marketing = models.BudgetCategory{BudgetID: f.budget.ID, Name: "Marketing", AllocatedAmount: 4000}
	f.ops = models.BudgetCategory{BudgetID: f.budget.ID, Name: "Operations", AllocatedAmount: 5000}
	require.NoError(t, db.Create(&f.marketing).Error)
	require.NoError(t, db.Create(&f.ops).Error)

	day := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	expenses := []models.Expense{
		{BudgetID: f.budget.ID, CategoryID: &f.marketing.ID, Title: "ads", Amount: 1500, Date: day, Status: models.ExpenseApproved},
		{BudgetID: f.budget.ID, CategoryID: &f.marketing.ID, Title: "print", Amount: 500, Date: day, Status: models.ExpensePending},
		{BudgetID: f.budget.ID, CategoryID: &f.ops.ID, Title: "rent", Amount: 2000, Date: day, Status: models.ExpenseApproved},
		{BudgetID: f.budget.ID, CategoryID: &f.ops.ID, Title: "party", Amount: 900, Date: day, Status: models.ExpenseRejected},
		{BudgetID: f.budget.ID, Title: "misc", Amount: 250, Date: day, Status: models.ExpenseApproved},
	}
	require.NoError(t, db.Omit("Category").Create(&expenses).Error)
	return f
}

func TestSummarizeBudget(t *testing.T) {
	db := testutil.SetupDB(t)
	f := seedBudget(t, db)

	got, err := SummarizeBudget(context.Background(), f.budget.ID)
	require.NoError(t, err)

	want := &BudgetSummary{
		BudgetID:  f.budget.ID,
		Title:     "Program 2026",
		Currency:  "EUR",
		Total:     10000,
		Allocated: 9000,
		Spent:     3750,
		Pending:   500,
		Remaining: 6250,
		Categories: []CategorySummary{
			{CategoryID: &f.marketing.ID, Name: "Marketing", Allocated: 4000, Spent: 1500, Pending: 500, Remaining: 2500},
			{CategoryID: &f.ops.ID, Name: "Operations", Allocated: 5000, Spent: 2000, Remaining: 3000},
			{Name: UncategorizedName, Spent: 250, Remaining: -250},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}

func TestSummarizeBudgetNotFound(t *testing.T) {
	testutil.SetupDB(t)

	_, err := SummarizeBudget(context.Background(), 99)
	assert.ErrorIs(t, err, errs.ErrBudgetNotFound)
}

func TestCheckAllocation(t *testing.T) {
	db := testutil.SetupDB(t)
	f := seedBudget(t, db)

	assert.NoError(t, CheckAllocation(db, &f.budget, 0, 1000))
	assert.ErrorIs(t, CheckAllocation(db, &f.budget, 0, 1000.01), errs.ErrOverAllocated)
	// replacing marketing's 4000 leaves room for up to 5000
	assert.NoError(t, CheckAllocation(db, &f.budget, f.marketing.ID, 5000))
	assert.ErrorIs(t, CheckAllocation(db, &f.budget, f.marketing.ID, 5001), errs.ErrOverAllocated)
}
