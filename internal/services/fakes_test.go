package services

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vallmere/sitetrack-backend/internal/types"
)

// In-memory repo fakes. Reads hand out copies and writes apply field maps, so
// they behave like a real store: in-memory mutation inside a service never
// leaks into the "database" without an explicit update call.

type fakeScheduleItemRepo struct {
	mu            sync.Mutex
	items         []*types.ScheduleItem
	updateCalls   int
	failUpdateFor map[uuid.UUID]error
	failGet       error
}

func (f *fakeScheduleItemRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.ScheduleItem) ([]*types.ScheduleItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range rows {
		cp := *r
		f.items = append(f.items, &cp)
	}
	return rows, nil
}

func (f *fakeScheduleItemRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ScheduleItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet != nil {
		return nil, f.failGet
	}
	var out []*types.ScheduleItem
	for _, it := range f.items {
		for _, id := range ids {
			if it.ID == id {
				cp := copyItem(it)
				out = append(out, cp)
			}
		}
	}
	return out, nil
}

func (f *fakeScheduleItemRepo) GetByActivityID(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) ([]*types.ScheduleItem, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGet != nil {
		return nil, f.failGet
	}
	var out []*types.ScheduleItem
	for _, it := range f.items {
		if it.ActivityID == activityID {
			out = append(out, copyItem(it))
		}
	}
	return out, nil
}

func (f *fakeScheduleItemRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failUpdateFor[id]; ok {
		return err
	}
	f.updateCalls++
	for _, it := range f.items {
		if it.ID != id {
			continue
		}
		applyItemFields(it, fields)
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeScheduleItemRepo) CountByPredecessorID(ctx context.Context, tx *gorm.DB, predecessorID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, it := range f.items {
		if it.PredecessorID != nil && *it.PredecessorID == predecessorID {
			count++
		}
	}
	return count, nil
}

func (f *fakeScheduleItemRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []*types.ScheduleItem
	for _, it := range f.items {
		remove := false
		for _, id := range ids {
			if it.ID == id {
				remove = true
			}
		}
		if !remove {
			kept = append(kept, it)
		}
	}
	f.items = kept
	return nil
}

func (f *fakeScheduleItemRepo) get(id uuid.UUID) *types.ScheduleItem {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, it := range f.items {
		if it.ID == id {
			return copyItem(it)
		}
	}
	return nil
}

func copyItem(it *types.ScheduleItem) *types.ScheduleItem {
	cp := *it
	if it.StartDate != nil {
		d := *it.StartDate
		cp.StartDate = &d
	}
	if it.EndDate != nil {
		d := *it.EndDate
		cp.EndDate = &d
	}
	if it.DurationDays != nil {
		n := *it.DurationDays
		cp.DurationDays = &n
	}
	if it.PredecessorID != nil {
		p := *it.PredecessorID
		cp.PredecessorID = &p
	}
	return &cp
}

func applyItemFields(it *types.ScheduleItem, fields map[string]interface{}) {
	for key, val := range fields {
		switch key {
		case "name":
			it.Name = val.(string)
		case "order_index":
			it.OrderIndex = val.(int)
		case "percent_complete":
			it.PercentComplete = val.(float64)
		case "start_date":
			it.StartDate = asTimePtr(val)
		case "end_date":
			it.EndDate = asTimePtr(val)
		case "duration_days":
			it.DurationDays = asIntPtr(val)
		case "predecessor_id":
			it.PredecessorID = asUUIDPtr(val)
		}
	}
}

func asTimePtr(val interface{}) *time.Time {
	switch v := val.(type) {
	case *time.Time:
		if v == nil {
			return nil
		}
		d := *v
		return &d
	case time.Time:
		return &v
	default:
		return nil
	}
}

func asIntPtr(val interface{}) *int {
	switch v := val.(type) {
	case *int:
		if v == nil {
			return nil
		}
		n := *v
		return &n
	case int:
		return &v
	default:
		return nil
	}
}

func asUUIDPtr(val interface{}) *uuid.UUID {
	switch v := val.(type) {
	case *uuid.UUID:
		if v == nil {
			return nil
		}
		id := *v
		return &id
	case uuid.UUID:
		return &v
	default:
		return nil
	}
}

type fakeActivityRepo struct {
	mu          sync.Mutex
	activities  []*types.Activity
	updateCalls int
	lastFields  map[string]interface{}
	failGetAll  error
}

func (f *fakeActivityRepo) Create(ctx context.Context, tx *gorm.DB, rows []*types.Activity) ([]*types.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range rows {
		cp := *r
		f.activities = append(f.activities, &cp)
	}
	return rows, nil
}

func (f *fakeActivityRepo) GetAll(ctx context.Context, tx *gorm.DB) ([]*types.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failGetAll != nil {
		return nil, f.failGetAll
	}
	out := make([]*types.Activity, 0, len(f.activities))
	for _, a := range f.activities {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (f *fakeActivityRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Activity
	for _, a := range f.activities {
		for _, id := range ids {
			if a.ID == id {
				cp := *a
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (f *fakeActivityRepo) GetByProjectID(ctx context.Context, tx *gorm.DB, projectID uuid.UUID) ([]*types.Activity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.Activity
	for _, a := range f.activities {
		if a.ProjectID == projectID {
			cp := *a
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeActivityRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, fields map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++
	f.lastFields = fields
	for _, a := range f.activities {
		if a.ID != id {
			continue
		}
		for key, val := range fields {
			switch key {
			case "progress":
				a.Progress = val.(float64)
			case "ppc":
				a.PPC = val.(float64)
			case "schedule_percent_complete":
				v := val.(float64)
				a.SchedulePercentComplete = &v
			}
		}
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (f *fakeActivityRepo) get(id uuid.UUID) *types.Activity {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.activities {
		if a.ID == id {
			cp := *a
			return &cp
		}
	}
	return nil
}

type fakeProgressEntryRepo struct {
	mu      sync.Mutex
	entries []*types.ProgressEntry
	failFor map[uuid.UUID]error
}

func (f *fakeProgressEntryRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.ProgressEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.ProgressEntry
	for _, e := range f.entries {
		for _, id := range ids {
			if e.ID == id {
				cp := *e
				out = append(out, &cp)
			}
		}
	}
	return out, nil
}

func (f *fakeProgressEntryRepo) GetByActivityID(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) ([]*types.ProgressEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failFor[activityID]; ok {
		return nil, err
	}
	var out []*types.ProgressEntry
	for _, e := range f.entries {
		if e.ActivityID == activityID {
			cp := *e
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeProgressEntryRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.ProgressEntry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.ActivityID == row.ActivityID && e.EntryDate.Equal(row.EntryDate) {
			e.ActualQty = row.ActualQty
			e.PlannedQty = row.PlannedQty
			row.ID = e.ID
			return nil
		}
	}
	cp := *row
	f.entries = append(f.entries, &cp)
	return nil
}

func (f *fakeProgressEntryRepo) DeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var kept []*types.ProgressEntry
	for _, e := range f.entries {
		remove := false
		for _, id := range ids {
			if e.ID == id {
				remove = true
			}
		}
		if !remove {
			kept = append(kept, e)
		}
	}
	f.entries = kept
	return nil
}

type fakeRiskSnapshotRepo struct {
	mu         sync.Mutex
	snapshots  []*types.RiskSnapshot
	inserts    int
	updates    int
	failUpsert map[uuid.UUID]error
}

func (f *fakeRiskSnapshotRepo) GetByActivityID(ctx context.Context, tx *gorm.DB, activityID uuid.UUID) ([]*types.RiskSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*types.RiskSnapshot
	for _, s := range f.snapshots {
		if s.ActivityID == activityID {
			cp := *s
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (f *fakeRiskSnapshotRepo) GetByActivityAndPeriod(ctx context.Context, tx *gorm.DB, activityID uuid.UUID, periodKey string) (*types.RiskSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.snapshots {
		if s.ActivityID == activityID && s.PeriodKey == periodKey {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeRiskSnapshotRepo) Upsert(ctx context.Context, tx *gorm.DB, row *types.RiskSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.failUpsert[row.ActivityID]; ok {
		return err
	}
	for _, s := range f.snapshots {
		if s.ActivityID == row.ActivityID && s.PeriodKey == row.PeriodKey {
			s.RiskPct = row.RiskPct
			s.Classification = row.Classification
			s.Metadata = row.Metadata
			f.updates++
			return nil
		}
	}
	cp := *row
	f.snapshots = append(f.snapshots, &cp)
	f.inserts++
	return nil
}
