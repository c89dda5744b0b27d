package movements

import (
	"context"
	"fmt"
	"time"

	"warestock/internal/core/apperror"
	"warestock/internal/core/id"
	"warestock/internal/core/security"
	"warestock/internal/core/tx"
	"warestock/pkg/logger"
)

// Service validates and records stock movements.
//
// All admission checks run before any mutation; once the ledger write
// begins it is all-or-nothing. The only effect allowed to fail silently
// is the post-commit notification.
type Service struct {
	repo      Repository
	gate      ReferenceGate
	notifier  Notifier
	txManager tx.Manager

	// now is the clock; replaceable in tests.
	now func() time.Time
}

// NewService creates a movement service.
func NewService(repo Repository, gate ReferenceGate, notifier Notifier, txManager tx.Manager) *Service {
	return &Service{
		repo:      repo,
		gate:      gate,
		notifier:  notifier,
		txManager: txManager,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Create validates the input and atomically records the movement: header,
// lines, and the stock position deltas, in one transaction. On success the
// notifier is informed (best-effort) and the created movement is returned
// with its lines and the owner's display name.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Movement, error) {
	actor, ok := security.GetActor(ctx)
	if !ok {
		return nil, apperror.NewUnauthorized("no authenticated actor")
	}

	// A regular user can only register movements for themselves.
	if !actor.IsAdmin() && in.UserID != actor.ID {
		return nil, apperror.NewForbidden("You cannot register a movement for another user.")
	}

	if len(in.Lines) == 0 {
		return nil, apperror.NewValidation("The movement must contain at least one line.")
	}

	if len(in.Lines) > MaxLines {
		return nil, apperror.NewValidation(fmt.Sprintf("The maximum number of allowed lines is %d.", MaxLines))
	}

	if err := in.validate(); err != nil {
		return nil, err
	}

	// An incoming lot may not already be expired or expire the day it
	// arrives. Outgoing movements are exempt: the goods already exist in
	// stock.
	if in.Kind == KindIncoming {
		today := dateOnly(s.now())
		for _, line := range in.Lines {
			if line.ExpirationDate == nil {
				continue
			}
			if !dateOnly(*line.ExpirationDate).After(today) {
				lot := line.Lot
				if lot == "" {
					lot = DefaultLot
				}
				return nil, apperror.NewValidation(fmt.Sprintf(
					"The line with product %s, lot '%s', has an expired or same-day expiration date: %s.",
					line.ProductID, lot, line.ExpirationDate.Format("2006-01-02"),
				))
			}
		}
	}

	if err := s.checkReferences(ctx, in.Lines); err != nil {
		return nil, err
	}

	movement := &Movement{
		MoveID:    id.New(),
		CreatedAt: s.now(),
		Kind:      in.Kind,
		UserID:    in.UserID,
	}

	lines := make([]Line, len(in.Lines))
	for i, li := range in.Lines {
		lot := li.Lot
		if lot == "" {
			lot = DefaultLot
		}
		lines[i] = Line{
			MoveID:         movement.MoveID,
			LineNo:         i + 1,
			WarehouseID:    li.WarehouseID,
			ProductID:      li.ProductID,
			Lot:            lot,
			ExpirationDate: li.ExpirationDate,
			Quantity:       li.Quantity,
		}
	}

	err := s.txManager.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := s.repo.Insert(ctx, movement); err != nil {
			return err
		}
		if err := s.repo.InsertLines(ctx, lines); err != nil {
			return err
		}
		return s.repo.ApplyToStock(ctx, movement.Kind, lines)
	})
	if err != nil {
		return nil, err
	}

	movement.Lines = lines

	// Best-effort: a notification failure must not fail the commit.
	s.notifier.Publish(fmt.Sprintf("New stock movement recorded: %s (%s)", movement.MoveID, movement.Kind))

	logger.Info(ctx, "stock movement recorded",
		"move_id", movement.MoveID,
		"move_type", movement.Kind,
		"lines", len(lines),
	)

	// Re-read the header to resolve the owner's display name.
	created, err := s.repo.GetByID(ctx, movement.MoveID)
	if err != nil {
		return nil, err
	}
	created.Lines = lines
	return created, nil
}

// checkReferences batches the active-entity checks: every distinct
// warehouse, then every distinct product, must exist and be active.
// Offending ids are reported together, not line by line.
func (s *Service) checkReferences(ctx context.Context, lines []LineInput) error {
	warehouses := make([]id.ID, 0, len(lines))
	products := make([]id.ID, 0, len(lines))
	seenWh := make(map[id.ID]struct{}, len(lines))
	seenPr := make(map[id.ID]struct{}, len(lines))
	for _, li := range lines {
		if _, ok := seenWh[li.WarehouseID]; !ok {
			seenWh[li.WarehouseID] = struct{}{}
			warehouses = append(warehouses, li.WarehouseID)
		}
		if _, ok := seenPr[li.ProductID]; !ok {
			seenPr[li.ProductID] = struct{}{}
			products = append(products, li.ProductID)
		}
	}

	activeWh, err := s.gate.ActiveWarehouseIDs(ctx, warehouses)
	if err != nil {
		return err
	}
	if diff := difference(warehouses, activeWh); len(diff) > 0 {
		return apperror.NewValidation("The following warehouses are inactive or do not exist").
			WithDetail("warehouse_ids", idStrings(diff))
	}

	activePr, err := s.gate.ActiveProductIDs(ctx, products)
	if err != nil {
		return err
	}
	if diff := difference(products, activePr); len(diff) > 0 {
		return apperror.NewValidation("The following products are inactive or do not exist").
			WithDetail("product_ids", idStrings(diff))
	}

	return nil
}

// GetByID returns a movement with its lines. Regular users can only view
// their own movements.
func (s *Service) GetByID(ctx context.Context, moveID id.ID) (*Movement, error) {
	actor, ok := security.GetActor(ctx)
	if !ok {
		return nil, apperror.NewUnauthorized("no authenticated actor")
	}

	movement, err := s.repo.GetByID(ctx, moveID)
	if err != nil {
		return nil, err
	}

	if !actor.IsAdmin() && movement.UserID != actor.ID {
		return nil, apperror.NewForbidden("You do not have permission to view this movement.")
	}

	lines, err := s.repo.GetLines(ctx, moveID)
	if err != nil {
		return nil, err
	}
	movement.Lines = lines

	return movement, nil
}

// List returns movements matching the filter, including their lines.
// Non-admin actors see only their own; the user filter is honored only
// for admins.
func (s *Service) List(ctx context.Context, f ListFilter) ([]Movement, int64, error) {
	actor, ok := security.GetActor(ctx)
	if !ok {
		return nil, 0, apperror.NewUnauthorized("no authenticated actor")
	}

	if !actor.IsAdmin() {
		owner := actor.ID
		f.UserID = &owner
	}

	results, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	for i := range results {
		lines, err := s.repo.GetLines(ctx, results[i].MoveID)
		if err != nil {
			return nil, 0, err
		}
		results[i].Lines = lines
	}

	return results, total, nil
}

// ListLastYear returns the headers of movements created in the trailing
// twelve months, newest first, scoped to the actor unless admin.
func (s *Service) ListLastYear(ctx context.Context) ([]Movement, error) {
	actor, ok := security.GetActor(ctx)
	if !ok {
		return nil, apperror.NewUnauthorized("no authenticated actor")
	}

	until := s.now()
	since := until.AddDate(-1, 0, 0)

	var userID *id.ID
	if !actor.IsAdmin() {
		owner := actor.ID
		userID = &owner
	}

	return s.repo.ListSince(ctx, since, until, userID)
}

// LineDetails returns a page of a movement's lines with display names.
// Subject to the same ownership rule as GetByID.
func (s *Service) LineDetails(ctx context.Context, moveID id.ID, limit, offset int) ([]LineDetail, int64, error) {
	actor, ok := security.GetActor(ctx)
	if !ok {
		return nil, 0, apperror.NewUnauthorized("no authenticated actor")
	}

	movement, err := s.repo.GetByID(ctx, moveID)
	if err != nil {
		return nil, 0, err
	}

	if !actor.IsAdmin() && movement.UserID != actor.ID {
		return nil, 0, apperror.NewForbidden("You do not have permission to view this movement.")
	}

	return s.repo.LineDetails(ctx, moveID, limit, offset)
}

// Summary counts movements per kind, zero-filling both kinds so the
// response shape is stable.
func (s *Service) Summary(ctx context.Context) ([]KindCount, error) {
	actor, ok := security.GetActor(ctx)
	if !ok {
		return nil, apperror.NewUnauthorized("no authenticated actor")
	}

	var userID *id.ID
	if !actor.IsAdmin() {
		owner := actor.ID
		userID = &owner
	}

	counts, err := s.repo.CountByKind(ctx, userID)
	if err != nil {
		return nil, err
	}

	return []KindCount{
		{Kind: KindIncoming, Quantity: counts[KindIncoming]},
		{Kind: KindOutgoing, Quantity: counts[KindOutgoing]},
	}, nil
}

// dateOnly truncates t to its UTC calendar date.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// difference returns the ids in requested that are missing from active.
func difference(requested, active []id.ID) []id.ID {
	activeSet := make(map[id.ID]struct{}, len(active))
	for _, a := range active {
		activeSet[a] = struct{}{}
	}
	var diff []id.ID
	for _, r := range requested {
		if _, ok := activeSet[r]; !ok {
			diff = append(diff, r)
		}
	}
	return diff
}

func idStrings(ids []id.ID) []string {
	out := make([]string, len(ids))
	for i, v := range ids {
		out[i] = v.String()
	}
	return out
}
