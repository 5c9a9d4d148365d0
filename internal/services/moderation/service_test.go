package moderation

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/domain/enums"
	"github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/domain/model"
	pgrepo "github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/repo/postgres"
	authsvc "github.com/sylveur65/Projet-goodyfans-sub001/backend/internal/services/auth"
)

type fakeRecordStore struct {
	byContentID map[string]model.ModerationRecord
	byID        map[string]model.ModerationRecord
	insertErrs  int
	insertCalls int
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{
		byContentID: map[string]model.ModerationRecord{},
		byID:        map[string]model.ModerationRecord{},
	}
}

func (f *fakeRecordStore) GetByContentID(_ context.Context, contentID string) (model.ModerationRecord, error) {
	record, ok := f.byContentID[contentID]
	if !ok {
		return model.ModerationRecord{}, pgrepo.ErrModerationRecordNotFound
	}
	return record, nil
}

func (f *fakeRecordStore) GetByID(_ context.Context, id string) (model.ModerationRecord, error) {
	record, ok := f.byID[id]
	if !ok {
		return model.ModerationRecord{}, pgrepo.ErrModerationRecordNotFound
	}
	return record, nil
}

func (f *fakeRecordStore) Insert(_ context.Context, record model.ModerationRecord) (model.ModerationRecord, error) {
	f.insertCalls++
	if f.insertErrs > 0 {
		f.insertErrs--
		return model.ModerationRecord{}, fmt.Errorf("datastore write failed")
	}
	f.byContentID[record.ContentID] = record
	f.byID[record.ID] = record
	return record, nil
}

func (f *fakeRecordStore) ApplyHumanReview(_ context.Context, id string, status enums.ModerationStatus, review model.HumanReview, updatedAt time.Time) (model.ModerationRecord, error) {
	record, ok := f.byID[id]
	if !ok {
		return model.ModerationRecord{}, pgrepo.ErrModerationRecordNotFound
	}
	record.Status = status
	record.HumanReview = &review
	record.UpdatedAt = updatedAt
	f.byID[id] = record
	f.byContentID[record.ContentID] = record
	return record, nil
}

func (f *fakeRecordStore) CountByStatus(_ context.Context) (int, int, int, int, error) {
	var total, approved, rejected, pending int
	for _, record := range f.byID {
		total++
		switch record.Status {
		case enums.ModerationStatusApproved:
			approved++
		case enums.ModerationStatusRejected:
			rejected++
		default:
			pending++
		}
	}
	return total, approved, rejected, pending, nil
}

type fakeClassifier struct {
	textResult  model.ModerationResult
	imageResult model.ModerationResult
	textCalls   int
	imageCalls  int
}

func (f *fakeClassifier) ClassifyText(_ context.Context, _ string) model.ModerationResult {
	f.textCalls++
	return f.textResult
}

func (f *fakeClassifier) ClassifyImage(_ context.Context, _ string) model.ModerationResult {
	f.imageCalls++
	return f.imageResult
}

func approvedResult() model.ModerationResult {
	return model.ModerationResult{
		IsApproved: true,
		Confidence: 0.4,
		Categories: model.CategoryScore{Adult: 0.6, Violence: 0.05, Hate: 0.02, SelfHarm: 0.02},
	}
}

func TestModerateApprovesAndPersists(t *testing.T) {
	store := newFakeRecordStore()
	classifier := &fakeClassifier{textResult: approvedResult(), imageResult: approvedResult()}
	svc := NewService(store, classifier, nil)

	record, err := svc.Moderate(context.Background(), "content-1", enums.ContentTypeImage, EvaluationInput{
		Title:       "beach set",
		Description: "new drop",
		MediaURL:    "https://cdn.local/a.jpg",
	})
	if err != nil {
		t.Fatalf("moderate: %v", err)
	}

	if record.Status != enums.ModerationStatusApproved {
		t.Fatalf("unexpected status: %s", record.Status)
	}
	if record.ID == "" || record.ContentID != "content-1" {
		t.Fatalf("record identity not set: %+v", record)
	}
	if classifier.textCalls != 2 || classifier.imageCalls != 1 {
		t.Fatalf("unexpected classifier usage: text=%d image=%d", classifier.textCalls, classifier.imageCalls)
	}
}

func TestModerateIsIdempotentPerContentID(t *testing.T) {
	store := newFakeRecordStore()
	classifier := &fakeClassifier{textResult: approvedResult(), imageResult: approvedResult()}
	svc := NewService(store, classifier, nil)

	first, err := svc.Moderate(context.Background(), "content-1", enums.ContentTypeText, EvaluationInput{Title: "hello"})
	if err != nil {
		t.Fatalf("first moderate: %v", err)
	}

	second, err := svc.Moderate(context.Background(), "content-1", enums.ContentTypeText, EvaluationInput{Title: "hello"})
	if err != nil {
		t.Fatalf("second moderate: %v", err)
	}

	if first.ID != second.ID {
		t.Fatalf("expected identical record, got %s and %s", first.ID, second.ID)
	}
	if classifier.textCalls != 1 {
		t.Fatalf("content must not be re-classified, got %d text calls", classifier.textCalls)
	}
	if store.insertCalls != 1 {
		t.Fatalf("expected a single insert, got %d", store.insertCalls)
	}
}

func TestModerateRejectDerivesRejectedStatus(t *testing.T) {
	store := newFakeRecordStore()
	classifier := &fakeClassifier{textResult: model.ModerationResult{
		Categories: model.CategoryScore{Adult: 0.3, Violence: 0.5},
		Reason:     "violent content detected",
	}}
	svc := NewService(store, classifier, nil)

	record, err := svc.Moderate(context.Background(), "content-2", enums.ContentTypeText, EvaluationInput{Title: "bad"})
	if err != nil {
		t.Fatalf("moderate: %v", err)
	}
	if record.Status != enums.ModerationStatusRejected {
		t.Fatalf("unexpected status: %s", record.Status)
	}
}

func TestModerateEmptyInputsForceHumanReview(t *testing.T) {
	store := newFakeRecordStore()
	svc := NewService(store, &fakeClassifier{}, nil)

	record, err := svc.Moderate(context.Background(), "content-3", enums.ContentTypeText, EvaluationInput{})
	if err != nil {
		t.Fatalf("moderate: %v", err)
	}

	if record.Status != enums.ModerationStatusPending {
		t.Fatalf("unexpected status: %s", record.Status)
	}
	if !record.AutoResult.RequiresHumanReview {
		t.Fatalf("expected human review requirement")
	}
}

func TestModerateInsertFailureDegradesToErrorRecord(t *testing.T) {
	store := newFakeRecordStore()
	store.insertErrs = 1
	svc := NewService(store, &fakeClassifier{textResult: approvedResult()}, nil)

	record, err := svc.Moderate(context.Background(), "content-4", enums.ContentTypeText, EvaluationInput{Title: "hello"})
	if err != nil {
		t.Fatalf("pipeline must not propagate persistence failures, got %v", err)
	}

	if record.Status != enums.ModerationStatusPending {
		t.Fatalf("unexpected status: %s", record.Status)
	}
	if !record.AutoResult.RequiresHumanReview {
		t.Fatalf("error record must require human review")
	}
	if !hasFlag(record.AutoResult.Flags, FlagModerationFailed) {
		t.Fatalf("moderation_error flag missing: %v", record.AutoResult.Flags)
	}
	if store.insertCalls != 2 {
		t.Fatalf("expected best-effort error record insert, got %d calls", store.insertCalls)
	}
}

func TestModerateDoubleInsertFailureStillReturnsRecord(t *testing.T) {
	store := newFakeRecordStore()
	store.insertErrs = 2
	svc := NewService(store, &fakeClassifier{textResult: approvedResult()}, nil)

	record, err := svc.Moderate(context.Background(), "content-5", enums.ContentTypeText, EvaluationInput{Title: "hello"})
	if err != nil {
		t.Fatalf("pipeline must not propagate persistence failures, got %v", err)
	}
	if record.Status != enums.ModerationStatusPending {
		t.Fatalf("unexpected status: %s", record.Status)
	}
}

func TestSubmitHumanReviewRequiresIdentity(t *testing.T) {
	store := newFakeRecordStore()
	svc := NewService(store, &fakeClassifier{textResult: approvedResult()}, nil)

	_, err := svc.SubmitHumanReview(context.Background(), "record-1", enums.ReviewDecisionApprove, nil)
	if !errors.Is(err, authsvc.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestSubmitHumanReviewApprovesPendingRecord(t *testing.T) {
	store := newFakeRecordStore()
	classifier := &fakeClassifier{textResult: model.ModerationResult{
		Categories:          model.CategoryScore{Adult: 0.5, Violence: 0.15},
		RequiresHumanReview: true,
	}}
	svc := NewService(store, classifier, nil)

	pending, err := svc.Moderate(context.Background(), "content-6", enums.ContentTypeText, EvaluationInput{Title: "edge case"})
	if err != nil {
		t.Fatalf("moderate: %v", err)
	}
	if pending.Status != enums.ModerationStatusPending {
		t.Fatalf("expected pending record, got %s", pending.Status)
	}

	ctx := authsvc.WithIdentity(context.Background(), authsvc.Identity{UserID: 42, Role: "MODERATOR"})
	reason := "looks fine"
	updated, err := svc.SubmitHumanReview(ctx, pending.ID, enums.ReviewDecisionApprove, &reason)
	if err != nil {
		t.Fatalf("submit review: %v", err)
	}

	if updated.Status != enums.ModerationStatusApproved {
		t.Fatalf("unexpected status: %s", updated.Status)
	}
	if updated.HumanReview == nil || updated.HumanReview.ReviewerID != 42 {
		t.Fatalf("human review not stamped: %+v", updated.HumanReview)
	}
	if updated.HumanReview.Decision != enums.ReviewDecisionApprove {
		t.Fatalf("unexpected decision: %s", updated.HumanReview.Decision)
	}
}

func TestSubmitHumanReviewRejectsInvalidDecision(t *testing.T) {
	svc := NewService(newFakeRecordStore(), &fakeClassifier{}, nil)

	ctx := authsvc.WithIdentity(context.Background(), authsvc.Identity{UserID: 42, Role: "MODERATOR"})
	_, err := svc.SubmitHumanReview(ctx, "record-1", enums.ReviewDecision("escalate"), nil)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestStatsComputesAutoApprovalRate(t *testing.T) {
	store := newFakeRecordStore()
	svc := NewService(store, &fakeClassifier{}, nil)

	seed := func(id string, status enums.ModerationStatus) {
		record := model.ModerationRecord{ID: id, ContentID: id, Status: status}
		store.byID[id] = record
		store.byContentID[id] = record
	}
	seed("a", enums.ModerationStatusApproved)
	seed("b", enums.ModerationStatusApproved)
	seed("c", enums.ModerationStatusRejected)
	seed("d", enums.ModerationStatusPending)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	if stats.Total != 4 || stats.Approved != 2 || stats.Rejected != 1 || stats.Pending != 1 {
		t.Fatalf("unexpected counts: %+v", stats)
	}
	if stats.AutoApprovalRate != 50 {
		t.Fatalf("unexpected auto approval rate: %v", stats.AutoApprovalRate)
	}
}

func TestStatsZeroTotalHasZeroRate(t *testing.T) {
	svc := NewService(newFakeRecordStore(), &fakeClassifier{}, nil)

	stats, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats.Total != 0 || stats.AutoApprovalRate != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
