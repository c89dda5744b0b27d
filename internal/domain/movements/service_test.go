package movements

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"warestock/internal/core/apperror"
	"warestock/internal/core/id"
	"warestock/internal/core/security"
)

// --- Fakes ---

type fakeRepo struct {
	header    *Movement
	lines     []Line
	applied   bool
	appliedAs Kind

	insertErr error
	linesErr  error
	applyErr  error

	byKind     map[Kind]int64
	listed     []Movement
	lastFilter ListFilter
}

func (f *fakeRepo) Insert(_ context.Context, m *Movement) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.header = m
	return nil
}

func (f *fakeRepo) InsertLines(_ context.Context, lines []Line) error {
	if f.linesErr != nil {
		return f.linesErr
	}
	f.lines = lines
	return nil
}

func (f *fakeRepo) ApplyToStock(_ context.Context, kind Kind, _ []Line) error {
	if f.applyErr != nil {
		return f.applyErr
	}
	f.applied = true
	f.appliedAs = kind
	return nil
}

func (f *fakeRepo) GetByID(_ context.Context, moveID id.ID) (*Movement, error) {
	if f.header == nil || f.header.MoveID != moveID {
		return nil, apperror.NewNotFound("movement", moveID)
	}
	m := *f.header
	m.UserName = "Test User"
	return &m, nil
}

func (f *fakeRepo) GetLines(_ context.Context, moveID id.ID) ([]Line, error) {
	var out []Line
	for _, l := range f.lines {
		if l.MoveID == moveID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeRepo) List(_ context.Context, filter ListFilter) ([]Movement, int64, error) {
	f.lastFilter = filter
	return f.listed, int64(len(f.listed)), nil
}

func (f *fakeRepo) ListSince(_ context.Context, _, _ time.Time, _ *id.ID) ([]Movement, error) {
	return f.listed, nil
}

func (f *fakeRepo) LineDetails(_ context.Context, _ id.ID, _, _ int) ([]LineDetail, int64, error) {
	return nil, 0, nil
}

func (f *fakeRepo) CountByKind(_ context.Context, _ *id.ID) (map[Kind]int64, error) {
	return f.byKind, nil
}

type fakeGate struct {
	inactiveWarehouses map[id.ID]bool
	inactiveProducts   map[id.ID]bool
}

func (f *fakeGate) ActiveWarehouseIDs(_ context.Context, ids []id.ID) ([]id.ID, error) {
	return filterActive(ids, f.inactiveWarehouses), nil
}

func (f *fakeGate) ActiveProductIDs(_ context.Context, ids []id.ID) ([]id.ID, error) {
	return filterActive(ids, f.inactiveProducts), nil
}

func filterActive(ids []id.ID, inactive map[id.ID]bool) []id.ID {
	out := make([]id.ID, 0, len(ids))
	for _, v := range ids {
		if !inactive[v] {
			out = append(out, v)
		}
	}
	return out
}

type fakeNotifier struct {
	messages []string
}

func (f *fakeNotifier) Publish(msg string) {
	f.messages = append(f.messages, msg)
}

// fakeTxManager runs fn directly; a returned error means rollback.
type fakeTxManager struct {
	commits int
}

func (f *fakeTxManager) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	f.commits++
	return nil
}

// --- Fixtures ---

var (
	testNow     = time.Date(2025, 6, 15, 10, 30, 0, 0, time.UTC)
	adminID     = id.MustParse("018f0000-0000-7000-8000-000000000001")
	regularID   = id.MustParse("018f0000-0000-7000-8000-000000000002")
	warehouseID = id.MustParse("018f0000-0000-7000-8000-0000000000a1")
	productID   = id.MustParse("018f0000-0000-7000-8000-0000000000b1")
)

func newTestService() (*Service, *fakeRepo, *fakeGate, *fakeNotifier, *fakeTxManager) {
	repo := &fakeRepo{}
	gate := &fakeGate{}
	notifier := &fakeNotifier{}
	txm := &fakeTxManager{}
	svc := NewService(repo, gate, notifier, txm)
	svc.now = func() time.Time { return testNow }
	return svc, repo, gate, notifier, txm
}

func adminCtx() context.Context {
	return security.WithActor(context.Background(), security.Actor{
		ID: adminID, Name: "Admin", Role: security.RoleAdmin,
	})
}

func userCtx() context.Context {
	return security.WithActor(context.Background(), security.Actor{
		ID: regularID, Name: "User", Role: security.RoleUser,
	})
}

func validInput(owner id.ID, kind Kind, lineCount int) CreateInput {
	lines := make([]LineInput, lineCount)
	for i := range lines {
		lines[i] = LineInput{
			WarehouseID: warehouseID,
			ProductID:   productID,
			Lot:         "LOT-A",
			Quantity:    5,
		}
	}
	return CreateInput{Kind: kind, UserID: owner, Lines: lines}
}

// --- Create ---

func TestCreate_NoActor(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.Create(context.Background(), validInput(regularID, KindIncoming, 1))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
}

func TestCreate_OwnershipEnforcedForRegularUser(t *testing.T) {
	svc, repo, _, _, _ := newTestService()

	_, err := svc.Create(userCtx(), validInput(adminID, KindIncoming, 1))

	assert.True(t, apperror.IsForbidden(err))
	assert.Nil(t, repo.header)
}

func TestCreate_AdminMayRecordForAnotherUser(t *testing.T) {
	svc, repo, _, _, _ := newTestService()

	created, err := svc.Create(adminCtx(), validInput(regularID, KindIncoming, 1))

	require.NoError(t, err)
	assert.Equal(t, regularID, created.UserID)
	assert.NotNil(t, repo.header)
}

func TestCreate_EmptyLines(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.Create(userCtx(), validInput(regularID, KindIncoming, 0))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreate_LineCountBoundary(t *testing.T) {
	tests := []struct {
		name    string
		count   int
		wantErr bool
	}{
		{name: "at limit", count: 100, wantErr: false},
		{name: "over limit", count: 101, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, _, _ := newTestService()

			_, err := svc.Create(userCtx(), validInput(regularID, KindIncoming, tt.count))

			if tt.wantErr {
				appErr, ok := apperror.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, apperror.CodeValidation, appErr.Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreate_InvalidKind(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	in := validInput(regularID, Kind("transfer"), 1)

	_, err := svc.Create(userCtx(), in)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreate_ZeroQuantity(t *testing.T) {
	svc, _, _, _, _ := newTestService()
	in := validInput(regularID, KindIncoming, 1)
	in.Lines[0].Quantity = 0

	_, err := svc.Create(userCtx(), in)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestCreate_IncomingExpirationWindow(t *testing.T) {
	yesterday := testNow.AddDate(0, 0, -1)
	today := testNow
	tomorrow := testNow.AddDate(0, 0, 1)

	tests := []struct {
		name       string
		kind       Kind
		expiration *time.Time
		wantErr    bool
	}{
		{name: "incoming already expired", kind: KindIncoming, expiration: &yesterday, wantErr: true},
		{name: "incoming expires today", kind: KindIncoming, expiration: &today, wantErr: true},
		{name: "incoming expires tomorrow", kind: KindIncoming, expiration: &tomorrow, wantErr: false},
		{name: "incoming without expiration", kind: KindIncoming, expiration: nil, wantErr: false},
		{name: "outgoing with past expiration", kind: KindOutgoing, expiration: &yesterday, wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _, _, _ := newTestService()
			in := validInput(regularID, tt.kind, 1)
			in.Lines[0].ExpirationDate = tt.expiration

			_, err := svc.Create(userCtx(), in)

			if tt.wantErr {
				appErr, ok := apperror.AsAppError(err)
				require.True(t, ok)
				assert.Equal(t, apperror.CodeValidation, appErr.Code)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCreate_InactiveReferencesReportedTogether(t *testing.T) {
	svc, repo, gate, _, _ := newTestService()

	badWh := id.MustParse("018f0000-0000-7000-8000-0000000000a2")
	gate.inactiveWarehouses = map[id.ID]bool{badWh: true}

	in := validInput(regularID, KindIncoming, 2)
	in.Lines[1].WarehouseID = badWh

	_, err := svc.Create(userCtx(), in)

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
	assert.Equal(t, []string{badWh.String()}, appErr.Details["warehouse_ids"])
	assert.Nil(t, repo.header)
}

func TestCreate_InactiveProduct(t *testing.T) {
	svc, _, gate, _, _ := newTestService()
	gate.inactiveProducts = map[id.ID]bool{productID: true}

	_, err := svc.Create(userCtx(), validInput(regularID, KindOutgoing, 1))

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, []string{productID.String()}, appErr.Details["product_ids"])
}

func TestCreate_LinesNumberedInRequestOrder(t *testing.T) {
	svc, repo, _, _, _ := newTestService()

	in := validInput(regularID, KindIncoming, 3)
	in.Lines[0].Lot = "FIRST"
	in.Lines[1].Lot = "" // defaults
	in.Lines[2].Lot = "THIRD"

	created, err := svc.Create(userCtx(), in)

	require.NoError(t, err)
	require.Len(t, repo.lines, 3)
	assert.Equal(t, 1, repo.lines[0].LineNo)
	assert.Equal(t, 2, repo.lines[1].LineNo)
	assert.Equal(t, 3, repo.lines[2].LineNo)
	assert.Equal(t, "FIRST", repo.lines[0].Lot)
	assert.Equal(t, DefaultLot, repo.lines[1].Lot)
	assert.Equal(t, "THIRD", repo.lines[2].Lot)
	assert.Equal(t, created.MoveID, repo.lines[0].MoveID)
}

func TestCreate_AppliesToStockInSameTransaction(t *testing.T) {
	svc, repo, _, _, txm := newTestService()

	_, err := svc.Create(userCtx(), validInput(regularID, KindOutgoing, 1))

	require.NoError(t, err)
	assert.True(t, repo.applied)
	assert.Equal(t, KindOutgoing, repo.appliedAs)
	assert.Equal(t, 1, txm.commits)
}

func TestCreate_RepoFailureSkipsNotification(t *testing.T) {
	tests := []struct {
		name string
		prep func(r *fakeRepo)
	}{
		{name: "header insert fails", prep: func(r *fakeRepo) { r.insertErr = errors.New("boom") }},
		{name: "line insert fails", prep: func(r *fakeRepo) { r.linesErr = errors.New("boom") }},
		{name: "stock apply fails", prep: func(r *fakeRepo) { r.applyErr = errors.New("boom") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _, notifier, txm := newTestService()
			tt.prep(repo)

			_, err := svc.Create(userCtx(), validInput(regularID, KindIncoming, 1))

			assert.Error(t, err)
			assert.Empty(t, notifier.messages)
			assert.Equal(t, 0, txm.commits)
		})
	}
}

func TestCreate_NotifiesAfterCommit(t *testing.T) {
	svc, _, _, notifier, _ := newTestService()

	created, err := svc.Create(userCtx(), validInput(regularID, KindIncoming, 1))

	require.NoError(t, err)
	require.Len(t, notifier.messages, 1)
	assert.Contains(t, notifier.messages[0], created.MoveID.String())
	assert.Contains(t, notifier.messages[0], string(KindIncoming))
}

// --- Reads ---

func TestGetByID_OwnershipEnforced(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	moveID := id.New()
	repo.header = &Movement{MoveID: moveID, Kind: KindIncoming, UserID: adminID, CreatedAt: testNow}

	_, err := svc.GetByID(userCtx(), moveID)

	assert.True(t, apperror.IsForbidden(err))
}

func TestGetByID_AdminSeesAnyMovement(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	moveID := id.New()
	repo.header = &Movement{MoveID: moveID, Kind: KindIncoming, UserID: regularID, CreatedAt: testNow}
	repo.lines = []Line{{MoveID: moveID, LineNo: 1, WarehouseID: warehouseID, ProductID: productID, Lot: DefaultLot, Quantity: 3}}

	got, err := svc.GetByID(adminCtx(), moveID)

	require.NoError(t, err)
	assert.Equal(t, moveID, got.MoveID)
	require.Len(t, got.Lines, 1)
	assert.Equal(t, int64(3), got.Lines[0].Quantity)
}

func TestGetByID_NotFound(t *testing.T) {
	svc, _, _, _, _ := newTestService()

	_, err := svc.GetByID(adminCtx(), id.New())

	assert.True(t, apperror.IsNotFound(err))
}

func TestList_RegularUserScopedToOwnMovements(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	other := adminID

	_, _, err := svc.List(userCtx(), ListFilter{UserID: &other, Limit: 10})

	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.UserID)
	assert.Equal(t, regularID, *repo.lastFilter.UserID)
}

func TestList_AdminFilterHonored(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	target := regularID

	_, _, err := svc.List(adminCtx(), ListFilter{UserID: &target, Limit: 10})

	require.NoError(t, err)
	require.NotNil(t, repo.lastFilter.UserID)
	assert.Equal(t, regularID, *repo.lastFilter.UserID)
}

func TestSummary_ZeroFillsBothKinds(t *testing.T) {
	svc, repo, _, _, _ := newTestService()
	repo.byKind = map[Kind]int64{KindIncoming: 4}

	counts, err := svc.Summary(adminCtx())

	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, KindCount{Kind: KindIncoming, Quantity: 4}, counts[0])
	assert.Equal(t, KindCount{Kind: KindOutgoing, Quantity: 0}, counts[1])
}
