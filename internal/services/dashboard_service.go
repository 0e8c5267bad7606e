// internal/services/dashboard_service.go
package services

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/javajoker/imob-backoffice/internal/models"
)

const (
	DirectionUp     = "up"
	DirectionDown   = "down"
	DirectionStable = "stable"

	TrendPositive = "positive"
	TrendNegative = "negative"
	TrendNeutral  = "neutral"

	upcomingScheduleWindow = 7 * 24 * time.Hour
	recentTransactionLimit = 10
	monthlySeriesLength    = 6
)

// Window is a half-open time range [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// MonthWindow returns the calendar month containing ref and the one before
// it, both in ref's location.
func MonthWindow(ref time.Time) (current, previous Window) {
	start := time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
	current = Window{Start: start, End: start.AddDate(0, 1, 0)}
	previous = Window{Start: start.AddDate(0, -1, 0), End: start}
	return current, previous
}

// PercentChange compares current with previous. A zero baseline reports
// +100 or -100 for any movement and 0 for none.
func PercentChange(current, previous float64) float64 {
	if previous == 0 {
		switch {
		case current > 0:
			return 100
		case current < 0:
			return -100
		default:
			return 0
		}
	}
	return round2((current - previous) / math.Abs(previous) * 100)
}

// TrendOf turns a change into a direction and a sentiment. For inverse
// metrics such as expenses a decrease is the good outcome.
func TrendOf(change float64, inverse bool) (direction, sentiment string) {
	switch {
	case change > 0:
		direction, sentiment = DirectionUp, TrendPositive
	case change < 0:
		direction, sentiment = DirectionDown, TrendNegative
	default:
		return DirectionStable, TrendNeutral
	}
	if inverse {
		if sentiment == TrendPositive {
			sentiment = TrendNegative
		} else {
			sentiment = TrendPositive
		}
	}
	return direction, sentiment
}

type Metric struct {
	Current   float64 `json:"current"`
	Previous  float64 `json:"previous"`
	Change    float64 `json:"change"`
	Direction string  `json:"direction"`
	Trend     string  `json:"trend"`
}

func NewMetric(current, previous float64, inverse bool) Metric {
	change := PercentChange(current, previous)
	direction, trend := TrendOf(change, inverse)
	return Metric{
		Current:   round2(current),
		Previous:  round2(previous),
		Change:    change,
		Direction: direction,
		Trend:     trend,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type Period struct {
	Current  Window `json:"current"`
	Previous Window `json:"previous"`
}

type DashboardStats struct {
	Period            Period                      `json:"period"`
	NewLeads          Metric                      `json:"newLeads"`
	WonLeads          Metric                      `json:"wonLeads"`
	NewContracts      Metric                      `json:"newContracts"`
	ContractValue     Metric                      `json:"contractValue"`
	Revenue           Metric                      `json:"revenue"`
	Expenses          Metric                      `json:"expenses"`
	ActiveEmployees   int64                       `json:"activeEmployees"`
	UpcomingSchedules int64                       `json:"upcomingSchedules"`
	LeadsByStatus     map[models.LeadStatus]int64 `json:"leadsByStatus"`
}

type FinancialSummary struct {
	Income             Metric  `json:"income"`
	Expenses           Metric  `json:"expenses"`
	Balance            Metric  `json:"balance"`
	PendingReceivables float64 `json:"pendingReceivables"`
	PendingPayables    float64 `json:"pendingPayables"`
	OverdueCount       int64   `json:"overdueCount"`
}

type CategoryTotal struct {
	Type     models.FinancialType `json:"type"`
	Category string               `json:"category"`
	Total    float64              `json:"total"`
	Count    int64                `json:"count"`
}

type MonthTotal struct {
	Month    string  `json:"month"` // YYYY-MM
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

type RecentTransaction struct {
	ID          uuid.UUID              `json:"id"`
	Type        models.FinancialType   `json:"type"`
	Category    string                 `json:"category"`
	Description string                 `json:"description"`
	Amount      float64                `json:"amount"`
	Date        time.Time              `json:"date"`
	Status      models.FinancialStatus `json:"status"`
	Branch      *models.BranchRef      `json:"branch"`
}

type FinancialDashboard struct {
	Period             Period              `json:"period"`
	Summary            FinancialSummary    `json:"summary"`
	ByCategory         []CategoryTotal     `json:"byCategory"`
	Monthly            []MonthTotal        `json:"monthly"`
	RecentTransactions []RecentTransaction `json:"recentTransactions"`
}

type BranchTotal struct {
	Branch   *models.BranchRef `json:"branch"`
	Income   float64           `json:"income"`
	Expenses float64           `json:"expenses"`
	Balance  float64           `json:"balance"`
}

type BranchSummary struct {
	Year     int           `json:"year"`
	Month    int           `json:"month"`
	Branches []BranchTotal `json:"branches"`
	Totals   BranchTotal   `json:"totals"`
}

// DashboardService computes every aggregate from scratch on each call, always
// through the caller's scope.
type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

func (s *DashboardService) scoped(ctx context.Context, scope Scope, model interface{}) *gorm.DB {
	return scope.Apply(s.db.WithContext(ctx).Model(model), "branch_id")
}

func (s *DashboardService) count(db *gorm.DB) (int64, error) {
	var n int64
	err := db.Count(&n).Error
	return n, err
}

func (s *DashboardService) sum(db *gorm.DB, column string) (float64, error) {
	var total float64
	err := db.Select("COALESCE(SUM(" + column + "), 0)").Scan(&total).Error
	return total, err
}

func (s *DashboardService) countIn(ctx context.Context, scope Scope, model interface{}, column string, w Window, where ...interface{}) (int64, error) {
	db := s.scoped(ctx, scope, model).Where(column+" >= ? AND "+column+" < ?", w.Start, w.End)
	if len(where) > 0 {
		db = db.Where(where[0], where[1:]...)
	}
	return s.count(db)
}

func (s *DashboardService) financialIn(ctx context.Context, scope Scope, kind models.FinancialType, w Window) (float64, error) {
	db := s.scoped(ctx, scope, &models.FinancialRecord{}).
		Where("type = ? AND status <> ?", kind, models.FinancialStatusCancelled).
		Where("transaction_date >= ? AND transaction_date < ?", w.Start, w.End)
	return s.sum(db, "amount")
}

func (s *DashboardService) contractValueIn(ctx context.Context, scope Scope, w Window) (float64, error) {
	db := s.scoped(ctx, scope, &models.Contract{}).
		Where("status <> ?", models.ContractStatusCancelled).
		Where("created_at >= ? AND created_at < ?", w.Start, w.End)
	return s.sum(db, "value")
}

// countPair runs fn for both windows.
func countPair(fn func(Window) (float64, error), cur, prev Window) (float64, float64, error) {
	c, err := fn(cur)
	if err != nil {
		return 0, 0, err
	}
	p, err := fn(prev)
	if err != nil {
		return 0, 0, err
	}
	return c, p, nil
}

func (s *DashboardService) GetStats(ctx context.Context, scope Scope, ref time.Time) (*DashboardStats, error) {
	ref = ref.UTC()
	cur, prev := MonthWindow(ref)
	stats := &DashboardStats{Period: Period{Current: cur, Previous: prev}}

	counters := []struct {
		into    *Metric
		inverse bool
		fn      func(Window) (float64, error)
	}{
		{&stats.NewLeads, false, func(w Window) (float64, error) {
			n, err := s.countIn(ctx, scope, &models.Lead{}, "created_at", w)
			return float64(n), err
		}},
		{&stats.WonLeads, false, func(w Window) (float64, error) {
			n, err := s.countIn(ctx, scope, &models.Lead{}, "updated_at", w, "status = ?", models.LeadStatusWon)
			return float64(n), err
		}},
		{&stats.NewContracts, false, func(w Window) (float64, error) {
			n, err := s.countIn(ctx, scope, &models.Contract{}, "created_at", w, "status <> ?", models.ContractStatusCancelled)
			return float64(n), err
		}},
		{&stats.ContractValue, false, func(w Window) (float64, error) {
			return s.contractValueIn(ctx, scope, w)
		}},
		{&stats.Revenue, false, func(w Window) (float64, error) {
			return s.financialIn(ctx, scope, models.FinancialTypeIncome, w)
		}},
		{&stats.Expenses, true, func(w Window) (float64, error) {
			return s.financialIn(ctx, scope, models.FinancialTypeExpense, w)
		}},
	}

	for _, c := range counters {
		current, previous, err := countPair(c.fn, cur, prev)
		if err != nil {
			return nil, fmt.Errorf("failed to compute dashboard stats: %w", err)
		}
		*c.into = NewMetric(current, previous, c.inverse)
	}

	var err error
	stats.ActiveEmployees, err = s.count(s.scoped(ctx, scope, &models.Employee{}).Where("active = ?", true))
	if err != nil {
		return nil, fmt.Errorf("failed to count employees: %w", err)
	}

	stats.UpcomingSchedules, err = s.count(s.scoped(ctx, scope, &models.Schedule{}).
		Where("status = ?", models.ScheduleStatusScheduled).
		Where("start_time >= ? AND start_time < ?", ref, ref.Add(upcomingScheduleWindow)))
	if err != nil {
		return nil, fmt.Errorf("failed to count schedules: %w", err)
	}

	stats.LeadsByStatus, err = s.leadsByStatus(ctx, scope)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *DashboardService) leadsByStatus(ctx context.Context, scope Scope) (map[models.LeadStatus]int64, error) {
	var rows []struct {
		Status models.LeadStatus
		Total  int64
	}
	err := s.scoped(ctx, scope, &models.Lead{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group leads: %w", err)
	}

	out := make(map[models.LeadStatus]int64, len(models.LeadStatuses))
	for _, status := range models.LeadStatuses {
		out[status] = 0
	}
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}

func (s *DashboardService) GetFinancialDashboard(ctx context.Context, scope Scope, ref time.Time) (*FinancialDashboard, error) {
	ref = ref.UTC()
	cur, prev := MonthWindow(ref)
	dash := &FinancialDashboard{Period: Period{Current: cur, Previous: prev}}

	income, prevIncome, err := countPair(func(w Window) (float64, error) {
		return s.financialIn(ctx, scope, models.FinancialTypeIncome, w)
	}, cur, prev)
	if err != nil {
		return nil, fmt.Errorf("failed to sum income: %w", err)
	}
	expenses, prevExpenses, err := countPair(func(w Window) (float64, error) {
		return s.financialIn(ctx, scope, models.FinancialTypeExpense, w)
	}, cur, prev)
	if err != nil {
		return nil, fmt.Errorf("failed to sum expenses: %w", err)
	}

	dash.Summary = FinancialSummary{
		Income:   NewMetric(income, prevIncome, false),
		Expenses: NewMetric(expenses, prevExpenses, true),
		Balance:  NewMetric(income-expenses, prevIncome-prevExpenses, false),
	}

	open := []models.FinancialStatus{models.FinancialStatusPending, models.FinancialStatusOverdue}
	if dash.Summary.PendingReceivables, err = s.sum(s.scoped(ctx, scope, &models.FinancialRecord{}).
		Where("type = ? AND status IN ?", models.FinancialTypeIncome, open), "amount"); err != nil {
		return nil, fmt.Errorf("failed to sum receivables: %w", err)
	}
	if dash.Summary.PendingPayables, err = s.sum(s.scoped(ctx, scope, &models.FinancialRecord{}).
		Where("type = ? AND status IN ?", models.FinancialTypeExpense, open), "amount"); err != nil {
		return nil, fmt.Errorf("failed to sum payables: %w", err)
	}
	if dash.Summary.OverdueCount, err = s.count(s.scoped(ctx, scope, &models.FinancialRecord{}).
		Where("status = ?", models.FinancialStatusOverdue)); err != nil {
		return nil, fmt.Errorf("failed to count overdue records: %w", err)
	}

	if dash.ByCategory, err = s.byCategory(ctx, scope, cur); err != nil {
		return nil, err
	}
	if dash.Monthly, err = s.monthly(ctx, scope, cur); err != nil {
		return nil, err
	}
	if dash.RecentTransactions, err = s.recent(ctx, scope); err != nil {
		return nil, err
	}

	return dash, nil
}

func (s *DashboardService) byCategory(ctx context.Context, scope Scope, w Window) ([]CategoryTotal, error) {
	rows := []CategoryTotal{}
	err := s.scoped(ctx, scope, &models.FinancialRecord{}).
		Select("type, category, COALESCE(SUM(amount), 0) AS total, COUNT(*) AS count").
		Where("status <> ?", models.FinancialStatusCancelled).
		Where("transaction_date >= ? AND transaction_date < ?", w.Start, w.End).
		Group("type, category").
		Order("total DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to group by category: %w", err)
	}
	return rows, nil
}

// monthly returns the series ending with the month of w, oldest first.
func (s *DashboardService) monthly(ctx context.Context, scope Scope, w Window) ([]MonthTotal, error) {
	series := make([]MonthTotal, 0, monthlySeriesLength)
	for i := monthlySeriesLength - 1; i >= 0; i-- {
		month := Window{Start: w.Start.AddDate(0, -i, 0), End: w.Start.AddDate(0, -i+1, 0)}

		income, err := s.financialIn(ctx, scope, models.FinancialTypeIncome, month)
		if err != nil {
			return nil, fmt.Errorf("failed to build monthly series: %w", err)
		}
		expenses, err := s.financialIn(ctx, scope, models.FinancialTypeExpense, month)
		if err != nil {
			return nil, fmt.Errorf("failed to build monthly series: %w", err)
		}

		series = append(series, MonthTotal{
			Month:    month.Start.Format("2006-01"),
			Income:   round2(income),
			Expenses: round2(expenses),
			Balance:  round2(income - expenses),
		})
	}
	return series, nil
}

func (s *DashboardService) recent(ctx context.Context, scope Scope) ([]RecentTransaction, error) {
	var records []models.FinancialRecord
	err := s.scoped(ctx, scope, &models.FinancialRecord{}).
		Preload("Branch").
		Order("transaction_date DESC").Order("created_at DESC").
		Limit(recentTransactionLimit).
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load recent transactions: %w", err)
	}

	out := make([]RecentTransaction, len(records))
	for i, r := range records {
		out[i] = RecentTransaction{
			ID:          r.ID,
			Type:        r.Type,
			Category:    r.Category,
			Description: r.Description,
			Amount:      r.Amount,
			Date:        r.Date,
			Status:      r.Status,
			Branch:      r.Branch.Ref(),
		}
	}
	return out, nil
}

// GetBranchSummary totals income and expenses per visible branch for one
// calendar month.
func (s *DashboardService) GetBranchSummary(ctx context.Context, scope Scope, year int, month time.Month) (*BranchSummary, error) {
	if month < time.January || month > time.December {
		return nil, invalidField("month", "range", "month must be between 1 and 12")
	}
	if year < 1900 || year > 9999 {
		return nil, invalidField("year", "range", "year is out of range")
	}

	start := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	w := Window{Start: start, End: start.AddDate(0, 1, 0)}

	var rows []struct {
		BranchID uuid.UUID
		Type     models.FinancialType
		Total    float64
	}
	err := s.scoped(ctx, scope, &models.FinancialRecord{}).
		Select("branch_id, type, COALESCE(SUM(amount), 0) AS total").
		Where("status <> ?", models.FinancialStatusCancelled).
		Where("transaction_date >= ? AND transaction_date < ?", w.Start, w.End).
		Group("branch_id, type").
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarise branches: %w", err)
	}

	var branches []models.Branch
	if err := scope.Apply(s.db.WithContext(ctx), "id").Order("name").Find(&branches).Error; err != nil {
		return nil, fmt.Errorf("failed to load branches: %w", err)
	}

	totals := make(map[uuid.UUID]*BranchTotal, len(branches))
	summary := &BranchSummary{Year: year, Month: int(month), Branches: make([]BranchTotal, 0, len(branches))}
	for i := range branches {
		totals[branches[i].ID] = &BranchTotal{Branch: branches[i].Ref()}
	}
	for _, row := range rows {
		t, ok := totals[row.BranchID]
		if !ok {
			continue
		}
		switch row.Type {
		case models.FinancialTypeIncome:
			t.Income += row.Total
		case models.FinancialTypeExpense:
			t.Expenses += row.Total
		}
	}

	for i := range branches {
		t := totals[branches[i].ID]
		t.Income, t.Expenses = round2(t.Income), round2(t.Expenses)
		t.Balance = round2(t.Income - t.Expenses)
		summary.Branches = append(summary.Branches, *t)
		summary.Totals.Income += t.Income
		summary.Totals.Expenses += t.Expenses
	}
	sort.SliceStable(summary.Branches, func(i, j int) bool {
		return summary.Branches[i].Balance > summary.Branches[j].Balance
	})
	summary.Totals.Income = round2(summary.Totals.Income)
	summary.Totals.Expenses = round2(summary.Totals.Expenses)
	summary.Totals.Balance = round2(summary.Totals.Income - summary.Totals.Expenses)

	return summary, nil
}
