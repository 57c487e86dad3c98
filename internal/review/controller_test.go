package review

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/lendstack/backoffice/internal/domain"
	"github.com/lendstack/backoffice/internal/repository"
)

type stubChangeRepo struct {
	changes map[uuid.UUID]domain.PendingChange
}

func newStubChangeRepo() *stubChangeRepo {
	return &stubChangeRepo{changes: map[uuid.UUID]domain.PendingChange{}}
}

func (s *stubChangeRepo) Create(_ context.Context, change domain.PendingChange) (domain.PendingChange, error) {
	s.changes[change.ID] = change
	return change, nil
}

func (s *stubChangeRepo) GetByID(_ context.Context, id uuid.UUID) (domain.PendingChange, error) {
	change, ok := s.changes[id]
	if !ok {
		return domain.PendingChange{}, domain.ErrNotFound
	}
	return change, nil
}

func (s *stubChangeRepo) ClaimApproved(_ context.Context, id, reviewerID uuid.UUID, approvedAt time.Time) (bool, error) {
	change, ok := s.changes[id]
	if !ok || change.Status != domain.ChangeStatusPending {
		return false, nil
	}
	change.Status = domain.ChangeStatusApproved
	change.ApprovedByID = &reviewerID
	change.ApprovedAt = &approvedAt
	s.changes[id] = change
	return true, nil
}

func (s *stubChangeRepo) ClaimRejected(_ context.Context, id, reviewerID uuid.UUID, reason string) (bool, error) {
	change, ok := s.changes[id]
	if !ok || change.Status != domain.ChangeStatusPending {
		return false, nil
	}
	change.Status = domain.ChangeStatusRejected
	change.ApprovedByID = &reviewerID
	change.RejectionReason = reason
	s.changes[id] = change
	return true, nil
}

func (s *stubChangeRepo) List(_ context.Context, status *domain.ChangeStatus, _, _ int) ([]domain.PendingChange, error) {
	var out []domain.PendingChange
	for _, change := range s.changes {
		if status == nil || change.Status == *status {
			out = append(out, change)
		}
	}
	return out, nil
}

type stubTaxRepo struct {
	statusUpdates map[uuid.UUID]string
}

func (s *stubTaxRepo) Create(_ context.Context, tax domain.Tax) (domain.Tax, error) { return tax, nil }
func (s *stubTaxRepo) Update(context.Context, domain.Tax) error                     { return nil }
func (s *stubTaxRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	s.statusUpdates[id] = status
	return nil
}
func (s *stubTaxRepo) Delete(context.Context, uuid.UUID) error { return nil }

// stubTx rebinds nothing: it hands the same repositories to fn and
// replays the pre-transaction change rows when fn fails, imitating a
// rollback.
type stubTx struct {
	changes *stubChangeRepo
	repos   repository.Repositories
}

func (s *stubTx) WithinTx(_ context.Context, fn func(repository.Repositories) error) error {
	snapshot := make(map[uuid.UUID]domain.PendingChange, len(s.changes.changes))
	for id, change := range s.changes.changes {
		snapshot[id] = change
	}
	if err := fn(s.repos); err != nil {
		s.changes.changes = snapshot
		return err
	}
	return nil
}

type stubDispatcher struct {
	applyErr error
	applied  []uuid.UUID
	summary  domain.DiffSummary
}

func (s *stubDispatcher) Dispatch(_ context.Context, _ repository.Repositories, change domain.PendingChange) error {
	if s.applyErr != nil {
		return s.applyErr
	}
	s.applied = append(s.applied, change.ID)
	return nil
}

func (s *stubDispatcher) Summarize(domain.PendingChange) (domain.DiffSummary, error) {
	return s.summary, nil
}

type fixture struct {
	changes    *stubChangeRepo
	taxes      *stubTaxRepo
	dispatcher *stubDispatcher
	controller *Controller
}

func newFixture() *fixture {
	changes := newStubChangeRepo()
	taxes := &stubTaxRepo{statusUpdates: map[uuid.UUID]string{}}
	repos := repository.Repositories{PendingChanges: changes, Taxes: taxes}
	dispatcher := &stubDispatcher{}
	controller := NewController(changes, &stubTx{changes: changes, repos: repos}, dispatcher, nil)
	return &fixture{changes: changes, taxes: taxes, dispatcher: dispatcher, controller: controller}
}

func stageTaxUpdate(f *fixture, proposerID uuid.UUID) domain.PendingChange {
	entityID := uuid.New()
	change, err := f.controller.Submit(
		context.Background(),
		domain.EntityTypeTax,
		&entityID,
		domain.ChangeTypeUpdate,
		domain.ChangePayload{
			Original: map[string]any{"rate": float64(5), "status": "Disabled"},
			Updated:  map[string]any{"rate": float64(7)},
		},
		proposerID,
	)
	if err != nil {
		panic(err)
	}
	return change
}

func TestSubmitValidatesPayloadShape(t *testing.T) {
	f := newFixture()

	_, err := f.controller.Submit(
		context.Background(),
		domain.EntityTypeTax,
		nil,
		domain.ChangeTypeCreate,
		domain.ChangePayload{Updated: map[string]any{"rate": float64(7)}},
		uuid.New(),
	)
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(f.changes.changes) != 0 {
		t.Fatalf("invalid changes must not be stored")
	}
}

func TestApproveAppliesAndMarksApproved(t *testing.T) {
	f := newFixture()
	change := stageTaxUpdate(f, uuid.New())
	reviewerID := uuid.New()

	approved, err := f.controller.Approve(context.Background(), change.ID, reviewerID)
	if err != nil {
		t.Fatalf("approve returned error: %v", err)
	}
	if approved.Status != domain.ChangeStatusApproved {
		t.Fatalf("expected APPROVED, got %s", approved.Status)
	}
	if len(f.dispatcher.applied) != 1 || f.dispatcher.applied[0] != change.ID {
		t.Fatalf("expected the change to be applied exactly once")
	}
	stored := f.changes.changes[change.ID]
	if stored.Status != domain.ChangeStatusApproved || stored.ApprovedByID == nil || *stored.ApprovedByID != reviewerID {
		t.Fatalf("unexpected stored change: %+v", stored)
	}
}

func TestApproveTwiceReturnsAlreadyProcessed(t *testing.T) {
	f := newFixture()
	change := stageTaxUpdate(f, uuid.New())
	reviewerID := uuid.New()

	if _, err := f.controller.Approve(context.Background(), change.ID, reviewerID); err != nil {
		t.Fatalf("first approve returned error: %v", err)
	}
	_, err := f.controller.Approve(context.Background(), change.ID, reviewerID)
	if !errors.Is(err, domain.ErrAlreadyProcessed) {
		t.Fatalf("expected already processed, got %v", err)
	}
	if len(f.dispatcher.applied) != 1 {
		t.Fatalf("the mutation must execute exactly once, got %d", len(f.dispatcher.applied))
	}
}

func TestApproveOwnChangeForbidden(t *testing.T) {
	f := newFixture()
	proposerID := uuid.New()
	change := stageTaxUpdate(f, proposerID)

	_, err := f.controller.Approve(context.Background(), change.ID, proposerID)
	if !errors.Is(err, domain.ErrSelfApprovalForbidden) {
		t.Fatalf("expected self approval error, got %v", err)
	}
	if len(f.dispatcher.applied) != 0 {
		t.Fatalf("nothing may be applied")
	}
}

func TestApplyFailureLeavesChangePending(t *testing.T) {
	f := newFixture()
	change := stageTaxUpdate(f, uuid.New())
	f.dispatcher.applyErr = errors.New("constraint violation")

	_, err := f.controller.Approve(context.Background(), change.ID, uuid.New())
	if err == nil {
		t.Fatalf("expected apply error to propagate")
	}
	if f.changes.changes[change.ID].Status != domain.ChangeStatusPending {
		t.Fatalf("a failed apply must leave the change PENDING")
	}
}

func TestRejectRequiresReason(t *testing.T) {
	f := newFixture()
	change := stageTaxUpdate(f, uuid.New())

	_, err := f.controller.Reject(context.Background(), change.ID, uuid.New(), "")
	if !domain.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if f.changes.changes[change.ID].Status != domain.ChangeStatusPending {
		t.Fatalf("change must stay PENDING without a reason")
	}
}

func TestRejectRestoresOriginalStatus(t *testing.T) {
	f := newFixture()
	change := stageTaxUpdate(f, uuid.New())

	rejected, err := f.controller.Reject(context.Background(), change.ID, uuid.New(), "wrong rate")
	if err != nil {
		t.Fatalf("reject returned error: %v", err)
	}
	if rejected.Status != domain.ChangeStatusRejected || rejected.RejectionReason != "wrong rate" {
		t.Fatalf("unexpected rejected change: %+v", rejected)
	}
	if got := f.taxes.statusUpdates[*change.EntityID]; got != "Disabled" {
		t.Fatalf("expected status restored to Disabled, got %q", got)
	}
}

func TestRejectDefaultsStatusToActive(t *testing.T) {
	f := newFixture()
	entityID := uuid.New()
	change, err := f.controller.Submit(
		context.Background(),
		domain.EntityTypeTax,
		&entityID,
		domain.ChangeTypeUpdate,
		domain.ChangePayload{
			Original: map[string]any{"rate": float64(5)},
			Updated:  map[string]any{"rate": float64(7)},
		},
		uuid.New(),
	)
	if err != nil {
		t.Fatalf("submit returned error: %v", err)
	}

	if _, err := f.controller.Reject(context.Background(), change.ID, uuid.New(), "no"); err != nil {
		t.Fatalf("reject returned error: %v", err)
	}
	if got := f.taxes.statusUpdates[entityID]; got != domain.StatusActive {
		t.Fatalf("expected status to default to Active, got %q", got)
	}
}

func TestRejectProcessedChange(t *testing.T) {
	f := newFixture()
	change := stageTaxUpdate(f, uuid.New())

	if _, err := f.controller.Approve(context.Background(), change.ID, uuid.New()); err != nil {
		t.Fatalf("approve returned error: %v", err)
	}
	_, err := f.controller.Reject(context.Background(), change.ID, uuid.New(), "too late")
	if !errors.Is(err, domain.ErrAlreadyProcessed) {
		t.Fatalf("expected already processed, got %v", err)
	}
}

func TestListFiltersByStatus(t *testing.T) {
	f := newFixture()
	stageTaxUpdate(f, uuid.New())
	approved := stageTaxUpdate(f, uuid.New())
	if _, err := f.controller.Approve(context.Background(), approved.ID, uuid.New()); err != nil {
		t.Fatalf("approve returned error: %v", err)
	}

	pending := domain.ChangeStatusPending
	changes, err := f.controller.List(context.Background(), &pending, 10, 0)
	if err != nil {
		t.Fatalf("list returned error: %v", err)
	}
	if len(changes) != 1 || changes[0].Status != domain.ChangeStatusPending {
		t.Fatalf("unexpected list result: %+v", changes)
	}
}
