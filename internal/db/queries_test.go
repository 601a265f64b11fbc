package db

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/hpungsan/scout/internal/application"
	"github.com/hpungsan/scout/internal/errors"
)

// newTestApplication creates an application with default values for testing.
func newTestApplication(name string, submitterID, referrerID int64) *application.Application {
	return &application.Application{
		FullName:           name,
		DateOfBirth:        "01.02.1999",
		EnglishLevel:       "B2",
		CPU:                "Ryzen 5 5600",
		GPU:                "RTX 3060",
		ConnectivityAnswer: "Yes",
		Phone:              "79991234567",
		ContactHandle:      "@" + name,
		Status:             application.StatusNew,
		SubmittedAt:        time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		ReferrerID:         referrerID,
		SubmitterID:        submitterID,
	}
}

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func TestInsertAndGetByID(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	a := newTestApplication("alice", 555, 111)
	id, err := Insert(ctx, database, a)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if id <= 0 {
		t.Fatalf("Insert id = %d, want positive", id)
	}

	got, err := GetByID(ctx, database, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}

	if !got.SubmittedAt.Equal(a.SubmittedAt) {
		t.Errorf("SubmittedAt = %v, want %v", got.SubmittedAt, a.SubmittedAt)
	}

	want := *a
	want.ID = id
	want.SubmittedAt = time.Time{}
	gotCopy := *got
	gotCopy.SubmittedAt = time.Time{}
	if gotCopy != want {
		t.Errorf("GetByID = %+v, want %+v", gotCopy, want)
	}
}

func TestInsert_DefaultsStatusToNew(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	a := newTestApplication("bob", 1, 0)
	a.Status = ""
	id, err := Insert(ctx, database, a)
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := GetByID(ctx, database, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != application.StatusNew {
		t.Errorf("Status = %q, want %q", got.Status, application.StatusNew)
	}
}

func TestInsert_DuplicateSubmitter(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	if _, err := Insert(ctx, database, newTestApplication("alice", 555, 0)); err != nil {
		t.Fatalf("first Insert failed: %v", err)
	}

	_, err := Insert(ctx, database, newTestApplication("alice again", 555, 111))
	if err != ErrUniqueConstraint {
		t.Errorf("second Insert error = %v, want ErrUniqueConstraint", err)
	}

	n, err := Count(ctx, database)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestGetByID_NotFound(t *testing.T) {
	database := openTestDB(t)

	_, err := GetByID(context.Background(), database, 42)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetByID error = %v, want NOT_FOUND", err)
	}
}

func TestGetBySubmitter(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	id, err := Insert(ctx, database, newTestApplication("alice", 555, 0))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := GetBySubmitter(ctx, database, 555)
	if err != nil {
		t.Fatalf("GetBySubmitter failed: %v", err)
	}
	if got.ID != id {
		t.Errorf("ID = %d, want %d", got.ID, id)
	}

	_, err = GetBySubmitter(ctx, database, 999)
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetBySubmitter(999) error = %v, want NOT_FOUND", err)
	}

	exists, err := CheckSubmitterExists(ctx, database, 555)
	if err != nil || !exists {
		t.Errorf("CheckSubmitterExists(555) = %v, %v; want true, nil", exists, err)
	}
	exists, err = CheckSubmitterExists(ctx, database, 999)
	if err != nil || exists {
		t.Errorf("CheckSubmitterExists(999) = %v, %v; want false, nil", exists, err)
	}
}

func TestList_Order(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	var ids []int64
	for i, name := range []string{"first", "second", "third"} {
		id, err := Insert(ctx, database, newTestApplication(name, int64(100+i), 0))
		if err != nil {
			t.Fatalf("Insert %s failed: %v", name, err)
		}
		ids = append(ids, id)
	}

	items, err := List(ctx, database, ListFilter{})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(items) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(items))
	}
	for i, want := range []int64{ids[2], ids[1], ids[0]} {
		if items[i].ID != want {
			t.Errorf("items[%d].ID = %d, want %d", i, items[i].ID, want)
		}
	}
}

func TestList_ByReferrer(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	seed := []struct {
		name     string
		referrer int64
	}{
		{"a", 111},
		{"b", 222},
		{"c", 111},
		{"d", 0},
	}
	for i, s := range seed {
		if _, err := Insert(ctx, database, newTestApplication(s.name, int64(i+1), s.referrer)); err != nil {
			t.Fatalf("Insert %s failed: %v", s.name, err)
		}
	}

	tests := []struct {
		referrer int64
		want     []string
	}{
		{111, []string{"c", "a"}},
		{222, []string{"b"}},
		{0, []string{"d"}},
		{333, nil},
	}

	for _, tt := range tests {
		ref := tt.referrer
		items, err := List(ctx, database, ListFilter{ReferrerID: &ref})
		if err != nil {
			t.Fatalf("List(%d) failed: %v", tt.referrer, err)
		}
		var names []string
		for _, it := range items {
			names = append(names, it.FullName)
		}
		if len(names) != len(tt.want) {
			t.Errorf("List(%d) = %v, want %v", tt.referrer, names, tt.want)
			continue
		}
		for i := range names {
			if names[i] != tt.want[i] {
				t.Errorf("List(%d) = %v, want %v", tt.referrer, names, tt.want)
				break
			}
		}
	}
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	id, err := Insert(ctx, database, newTestApplication("alice", 555, 0))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := UpdateStatus(ctx, database, id, application.StatusInterview); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	// Re-applying the same status succeeds
	if err := UpdateStatus(ctx, database, id, application.StatusInterview); err != nil {
		t.Fatalf("UpdateStatus (repeat) failed: %v", err)
	}

	got, err := GetByID(ctx, database, id)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Status != application.StatusInterview {
		t.Errorf("Status = %q, want %q", got.Status, application.StatusInterview)
	}
}

func TestUpdateStatus_Errors(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	id, err := Insert(ctx, database, newTestApplication("alice", 555, 0))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := UpdateStatus(ctx, database, id+100, application.StatusWorking); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("UpdateStatus(missing) error = %v, want NOT_FOUND", err)
	}
	if err := UpdateStatus(ctx, database, id, application.Status("hired")); !errors.Is(err, errors.ErrInvalidStatus) {
		t.Errorf("UpdateStatus(hired) error = %v, want INVALID_STATUS", err)
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	database := openTestDB(t)

	id, err := Insert(ctx, database, newTestApplication("alice", 555, 0))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	if err := Delete(ctx, database, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := GetByID(ctx, database, id); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetByID after Delete error = %v, want NOT_FOUND", err)
	}
	if err := Delete(ctx, database, id); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("second Delete error = %v, want NOT_FOUND", err)
	}

	// The submitter may apply again once their record is gone
	if _, err := Insert(ctx, database, newTestApplication("alice", 555, 0)); err != nil {
		t.Errorf("Insert after Delete failed: %v", err)
	}
}

func TestStore(t *testing.T) {
	ctx := context.Background()
	store := NewStore(openTestDB(t))

	id, err := store.Insert(ctx, newTestApplication("alice", 555, 111))
	if err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := store.Insert(ctx, newTestApplication("bob", 556, 0)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	if _, err := store.Insert(ctx, newTestApplication("bob twice", 556, 0)); !errors.Is(err, errors.ErrAlreadyApplied) {
		t.Fatalf("duplicate Insert error = %v, want ALREADY_APPLIED", err)
	}

	got, err := store.FindBySubmitter(ctx, 555)
	if err != nil || got.ID != id {
		t.Fatalf("FindBySubmitter = %v, %v", got, err)
	}
	if exists, err := store.ExistsBySubmitter(ctx, 555); err != nil || !exists {
		t.Fatalf("ExistsBySubmitter(555) = %v, %v; want true", exists, err)
	}
	if exists, err := store.ExistsBySubmitter(ctx, 999); err != nil || exists {
		t.Fatalf("ExistsBySubmitter(999) = %v, %v; want false", exists, err)
	}
	if _, err := store.FindByID(ctx, id); err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}

	all, err := store.ListAll(ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("ListAll = %d items, %v; want 2", len(all), err)
	}
	mine, err := store.ListByReferrer(ctx, 111)
	if err != nil || len(mine) != 1 || mine[0].ID != id {
		t.Fatalf("ListByReferrer = %v, %v", mine, err)
	}

	if err := store.UpdateStatus(ctx, id, application.StatusTraining); err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if err := store.Delete(ctx, id); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := store.FindByID(ctx, id); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("FindByID after Delete error = %v, want NOT_FOUND", err)
	}
}
