package stock

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warestock/internal/core/apperror"
	"warestock/internal/core/id"
	"warestock/internal/core/security"
)

type fakeRepo struct {
	Repository

	expiringWindow ExpirationWindow
	semToday       time.Time
	semOneMonth    time.Time
	semSixMonths   time.Time
	historyFilter  HistoryFilter
	mismatches     []Mismatch
	verifyErr      error
}

func (f *fakeRepo) PositionsExpiring(_ context.Context, w ExpirationWindow, _, _ int) ([]Position, int64, error) {
	f.expiringWindow = w
	return nil, 0, nil
}

func (f *fakeRepo) SemaphoreTotals(_ context.Context, today, inOneMonth, inSixMonths time.Time) (Semaphore, error) {
	f.semToday = today
	f.semOneMonth = inOneMonth
	f.semSixMonths = inSixMonths
	return Semaphore{}, nil
}

func (f *fakeRepo) History(_ context.Context, filter HistoryFilter) ([]HistoryEntry, int64, error) {
	f.historyFilter = filter
	return nil, 0, nil
}

func (f *fakeRepo) VerifyProjection(_ context.Context) ([]Mismatch, error) {
	return f.mismatches, f.verifyErr
}

var (
	stockAdminID = id.MustParse("018f0000-0000-7000-8000-000000000001")
	stockUserID  = id.MustParse("018f0000-0000-7000-8000-000000000002")
)

func newStockService() (*Service, *fakeRepo) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	svc.now = func() time.Time {
		return time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)
	}
	return svc, repo
}

func stockAdminCtx() context.Context {
	return security.WithActor(context.Background(), security.Actor{
		ID: stockAdminID, Name: "Admin", Role: security.RoleAdmin,
	})
}

func stockUserCtx() context.Context {
	return security.WithActor(context.Background(), security.Actor{
		ID: stockUserID, Name: "User", Role: security.RoleUser,
	})
}

func TestExpiringRelative_Validation(t *testing.T) {
	tests := []struct {
		name        string
		fromMonths  int
		rangeMonths int
	}{
		{name: "negative from", fromMonths: -1, rangeMonths: 1},
		{name: "zero range", fromMonths: 0, rangeMonths: 0},
		{name: "negative range", fromMonths: 2, rangeMonths: -3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _ := newStockService()

			_, _, err := svc.ExpiringRelative(context.Background(), tt.fromMonths, tt.rangeMonths, 10, 0)

			appErr, ok := apperror.AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, apperror.CodeValidation, appErr.Code)
		})
	}
}

func TestExpiringRelative_WindowComputation(t *testing.T) {
	svc, repo := newStockService()

	_, _, err := svc.ExpiringRelative(context.Background(), 1, 3, 10, 0)

	require.NoError(t, err)
	assert.Equal(t, date(2025, time.July, 15), repo.expiringWindow.Start)
	assert.Equal(t, date(2025, time.October, 15), repo.expiringWindow.End)
}

func TestExpiringRelative_ZeroFromStartsToday(t *testing.T) {
	svc, repo := newStockService()

	_, _, err := svc.ExpiringRelative(context.Background(), 0, 1, 10, 0)

	require.NoError(t, err)
	assert.Equal(t, date(2025, time.June, 15), repo.expiringWindow.Start)
	assert.Equal(t, date(2025, time.July, 15), repo.expiringWindow.End)
}

func TestExpiringBetween_RejectsInvertedRange(t *testing.T) {
	svc, _ := newStockService()

	_, _, err := svc.ExpiringBetween(context.Background(),
		date(2025, time.August, 1), date(2025, time.July, 1), 10, 0)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestAvailableLots_RequiresBothIDs(t *testing.T) {
	svc, _ := newStockService()

	_, err := svc.AvailableLots(context.Background(), id.Nil(), id.New())

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestSemaphoreTotals_BucketBoundaries(t *testing.T) {
	svc, repo := newStockService()

	_, err := svc.SemaphoreTotals(context.Background())

	require.NoError(t, err)
	assert.Equal(t, date(2025, time.June, 15), repo.semToday)
	assert.Equal(t, date(2025, time.July, 15), repo.semOneMonth)
	assert.Equal(t, date(2025, time.December, 15), repo.semSixMonths)
}

func TestHistory_RegularUserScopedToOwnLines(t *testing.T) {
	svc, repo := newStockService()
	other := stockAdminID

	_, _, err := svc.History(stockUserCtx(), HistoryFilter{UserID: &other, Limit: 10})

	require.NoError(t, err)
	require.NotNil(t, repo.historyFilter.UserID)
	assert.Equal(t, stockUserID, *repo.historyFilter.UserID)
}

func TestHistory_AdminFilterPassedThrough(t *testing.T) {
	svc, repo := newStockService()
	target := stockUserID

	_, _, err := svc.History(stockAdminCtx(), HistoryFilter{UserID: &target, Limit: 10})

	require.NoError(t, err)
	require.NotNil(t, repo.historyFilter.UserID)
	assert.Equal(t, stockUserID, *repo.historyFilter.UserID)
}

func TestHistory_NoActor(t *testing.T) {
	svc, _ := newStockService()

	_, _, err := svc.History(context.Background(), HistoryFilter{})

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestVerifyProjection_AdminOnly(t *testing.T) {
	svc, _ := newStockService()

	_, err := svc.VerifyProjection(stockUserCtx())

	assert.True(t, apperror.IsForbidden(err))
}

func TestVerifyProjection_CleanLedger(t *testing.T) {
	svc, _ := newStockService()

	report, err := svc.VerifyProjection(stockAdminCtx())

	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.NotNil(t, report.Mismatches)
	assert.Empty(t, report.Mismatches)
}

func TestVerifyProjection_ReportsMismatches(t *testing.T) {
	svc, repo := newStockService()
	repo.mismatches = []Mismatch{
		{WarehouseID: id.New(), ProductID: id.New(), Lot: "NO_LOT", Projected: 10, Replayed: 7},
	}

	report, err := svc.VerifyProjection(stockAdminCtx())

	require.NoError(t, err)
	assert.False(t, report.Consistent)
	require.Len(t, report.Mismatches, 1)
	assert.Equal(t, int64(7), report.Mismatches[0].Replayed)
}
