package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vallmere/sitetrack-backend/internal/types"
)

func newProgressFixture(t *testing.T) (*fakeProgressEntryRepo, *fakeScheduleItemRepo, *fakeActivityRepo, ProgressService) {
	t.Helper()
	log := testLogger(t)
	entryRepo := &fakeProgressEntryRepo{failFor: map[uuid.UUID]error{}}
	itemRepo := &fakeScheduleItemRepo{failUpdateFor: map[uuid.UUID]error{}}
	activityRepo := &fakeActivityRepo{}
	svc := NewProgressService(log, entryRepo, itemRepo, activityRepo)
	return entryRepo, itemRepo, activityRepo, svc
}

func TestUpsertEntryRejectsNegativeQuantities(t *testing.T) {
	_, _, _, svc := newProgressFixture(t)
	day := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	_, err := svc.UpsertEntry(context.Background(), uuid.New(), day, fptr(-1), fptr(10))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative actual: got %v, want ErrInvalidInput", err)
	}
	_, err = svc.UpsertEntry(context.Background(), uuid.New(), day, fptr(1), fptr(-10))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("negative planned: got %v, want ErrInvalidInput", err)
	}
}

func TestUpsertEntryOverwritesSameDate(t *testing.T) {
	_, _, activityRepo, svc := newProgressFixture(t)
	activity := seedActivity(activityRepo)
	day := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)

	if _, err := svc.UpsertEntry(context.Background(), activity.ID, day, fptr(5), fptr(10)); err != nil {
		t.Fatalf("first upsert: %v", err)
	}
	if _, err := svc.UpsertEntry(context.Background(), activity.ID, day, fptr(8), fptr(10)); err != nil {
		t.Fatalf("second upsert: %v", err)
	}

	entries, err := svc.ListEntries(context.Background(), activity.ID)
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("entries: want=1 got=%d", len(entries))
	}
	if entries[0].ActualQty == nil || *entries[0].ActualQty != 8 {
		t.Fatalf("actual_qty after overwrite: want=8 got=%v", entries[0].ActualQty)
	}
}

func TestUpsertEntryRefreshesActivityFigures(t *testing.T) {
	_, _, activityRepo, svc := newProgressFixture(t)
	activity := &types.Activity{ID: uuid.New(), ProjectID: uuid.New(), Name: "slab", TotalQty: fptr(40)}
	activityRepo.activities = append(activityRepo.activities, activity)

	day1 := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2026, 8, 4, 0, 0, 0, 0, time.UTC)
	if _, err := svc.UpsertEntry(context.Background(), activity.ID, day1, fptr(8), fptr(10)); err != nil {
		t.Fatalf("upsert day1: %v", err)
	}
	if _, err := svc.UpsertEntry(context.Background(), activity.ID, day2, fptr(12), fptr(10)); err != nil {
		t.Fatalf("upsert day2: %v", err)
	}

	got := activityRepo.get(activity.ID)
	if got.PPC != 100 {
		t.Fatalf("ppc: want=100 got=%v", got.PPC)
	}
	if got.Progress != 50 {
		t.Fatalf("progress: want=50 got=%v", got.Progress)
	}
}

func TestUpsertEntryLeavesRollupOwnedFiguresAlone(t *testing.T) {
	_, itemRepo, activityRepo, svc := newProgressFixture(t)
	activity := seedActivity(activityRepo)
	seedItem(itemRepo, &types.ScheduleItem{ActivityID: activity.ID, Name: "child", PercentComplete: 30})

	day := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	if _, err := svc.UpsertEntry(context.Background(), activity.ID, day, fptr(5), fptr(10)); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if activityRepo.updateCalls != 0 {
		t.Fatalf("entry-based refresh ran despite schedule items: %d calls", activityRepo.updateCalls)
	}
}

func TestDeleteEntryRefreshesFigures(t *testing.T) {
	entryRepo, _, activityRepo, svc := newProgressFixture(t)
	activity := &types.Activity{ID: uuid.New(), ProjectID: uuid.New(), Name: "pipe", TotalQty: fptr(10)}
	activityRepo.activities = append(activityRepo.activities, activity)

	day := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	row, err := svc.UpsertEntry(context.Background(), activity.ID, day, fptr(10), fptr(10))
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := svc.DeleteEntry(context.Background(), row.ID); err != nil {
		t.Fatalf("DeleteEntry: %v", err)
	}
	if len(entryRepo.entries) != 0 {
		t.Fatalf("entry not deleted")
	}
	got := activityRepo.get(activity.ID)
	if got.PPC != 0 || got.Progress != 0 {
		t.Fatalf("figures after delete: want 0/0 got ppc=%v progress=%v", got.PPC, got.Progress)
	}
}

func TestDeleteEntryUnknownID(t *testing.T) {
	_, _, _, svc := newProgressFixture(t)
	if err := svc.DeleteEntry(context.Background(), uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("DeleteEntry(unknown): got %v, want ErrNotFound", err)
	}
}
