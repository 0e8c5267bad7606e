package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/javajoker/imob-backoffice/internal/models"
)

func TestMonthWindow(t *testing.T) {
	cur, prev := MonthWindow(time.Date(2025, time.January, 15, 10, 30, 0, 0, time.UTC))

	assert.Equal(t, time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC), cur.Start)
	assert.Equal(t, time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC), cur.End)
	assert.Equal(t, time.Date(2024, time.December, 1, 0, 0, 0, 0, time.UTC), prev.Start)
	assert.Equal(t, cur.Start, prev.End)
}

func TestPercentChange(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		want     float64
	}{
		{"no movement from zero", 0, 0, 0},
		{"growth from zero", 5, 0, 100},
		{"drop below zero", -5, 0, -100},
		{"growth", 15, 10, 50},
		{"decline", 5, 10, -50},
		{"negative baseline", -5, -10, 50},
		{"rounded", 1, 3, -66.67},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PercentChange(tt.current, tt.previous))
		})
	}
}

func TestTrendOf(t *testing.T) {
	direction, trend := TrendOf(12.5, false)
	assert.Equal(t, DirectionUp, direction)
	assert.Equal(t, TrendPositive, trend)

	direction, trend = TrendOf(-3, false)
	assert.Equal(t, DirectionDown, direction)
	assert.Equal(t, TrendNegative, trend)

	// Expenses going down is good news.
	direction, trend = TrendOf(-3, true)
	assert.Equal(t, DirectionDown, direction)
	assert.Equal(t, TrendPositive, trend)

	direction, trend = TrendOf(0, true)
	assert.Equal(t, DirectionStable, direction)
	assert.Equal(t, TrendNeutral, trend)
}

func seedRecord(t *testing.T, db *gorm.DB, branchID uuid.UUID, kind models.FinancialType, status models.FinancialStatus, amount float64, at time.Time) {
	t.Helper()
	record := models.FinancialRecord{
		Type:     kind,
		Category: "general",
		Amount:   amount,
		Date:     at,
		Status:   status,
		BranchID: branchID,
	}
	require.NoError(t, db.Create(&record).Error)
}

func TestDashboardAggregatesAreScoped(t *testing.T) {
	db := newTestDB(t)
	svc := NewDashboardService(db)
	ctx := context.Background()

	north := seedBranch(t, db, "Norte", "NORTE")
	south := seedBranch(t, db, "Sul", "SUL")

	march := time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC)
	february := time.Date(2025, time.February, 20, 12, 0, 0, 0, time.UTC)

	seedRecord(t, db, north.ID, models.FinancialTypeIncome, models.FinancialStatusPaid, 1000, march)
	seedRecord(t, db, north.ID, models.FinancialTypeIncome, models.FinancialStatusPaid, 500, february)
	seedRecord(t, db, north.ID, models.FinancialTypeExpense, models.FinancialStatusPaid, 200, march)
	seedRecord(t, db, north.ID, models.FinancialTypeIncome, models.FinancialStatusCancelled, 9999, march)
	seedRecord(t, db, north.ID, models.FinancialTypeIncome, models.FinancialStatusPending, 300, march)
	seedRecord(t, db, south.ID, models.FinancialTypeIncome, models.FinancialStatusPaid, 700, march)

	ref := time.Date(2025, time.March, 15, 0, 0, 0, 0, time.UTC)

	t.Run("stats", func(t *testing.T) {
		stats, err := svc.GetStats(ctx, Scope{BranchID: &north.ID}, ref)
		require.NoError(t, err)

		assert.Equal(t, 1300.0, stats.Revenue.Current)
		assert.Equal(t, 500.0, stats.Revenue.Previous)
		assert.Equal(t, 160.0, stats.Revenue.Change)
		assert.Equal(t, DirectionUp, stats.Revenue.Direction)

		assert.Equal(t, 200.0, stats.Expenses.Current)
		assert.Equal(t, 100.0, stats.Expenses.Change)
		assert.Equal(t, TrendNegative, stats.Expenses.Trend)

		assert.Len(t, stats.LeadsByStatus, len(models.LeadStatuses))
	})

	t.Run("financial dashboard", func(t *testing.T) {
		dash, err := svc.GetFinancialDashboard(ctx, Scope{BranchID: &north.ID}, ref)
		require.NoError(t, err)

		assert.Equal(t, 1300.0, dash.Summary.Income.Current)
		assert.Equal(t, 1100.0, dash.Summary.Balance.Current)
		assert.Equal(t, 300.0, dash.Summary.PendingReceivables)

		require.Len(t, dash.Monthly, 6)
		assert.Equal(t, "2024-10", dash.Monthly[0].Month)
		assert.Equal(t, "2025-03", dash.Monthly[5].Month)
		assert.Equal(t, 500.0, dash.Monthly[4].Income)

		require.Len(t, dash.RecentTransactions, 5)
		for _, tx := range dash.RecentTransactions {
			require.NotNil(t, tx.Branch)
			assert.Equal(t, "Norte", tx.Branch.Name)
		}
	})

	t.Run("no branch sees nothing", func(t *testing.T) {
		dash, err := svc.GetFinancialDashboard(ctx, Scope{}, ref)
		require.NoError(t, err)
		assert.Zero(t, dash.Summary.Income.Current)
		assert.Empty(t, dash.RecentTransactions)
	})

	t.Run("branch summary", func(t *testing.T) {
		summary, err := svc.GetBranchSummary(ctx, Scope{All: true}, 2025, time.March)
		require.NoError(t, err)

		require.Len(t, summary.Branches, 2)
		assert.Equal(t, "Norte", summary.Branches[0].Branch.Name)
		assert.Equal(t, 1300.0, summary.Branches[0].Income)
		assert.Equal(t, 1100.0, summary.Branches[0].Balance)
		assert.Equal(t, 700.0, summary.Branches[1].Income)
		assert.Equal(t, 2000.0, summary.Totals.Income)

		_, err = svc.GetBranchSummary(ctx, Scope{All: true}, 2025, time.Month(13))
		assert.True(t, errors.Is(err, ErrValidation))
	})
}
