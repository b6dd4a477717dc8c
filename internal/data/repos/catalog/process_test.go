package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/processhub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/processhub-backend/internal/domain"
	"github.com/yungbote/processhub-backend/internal/platform/dbctx"
)

func TestProcessAndVersionRepos(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	logg := testutil.Logger(t)

	processes := NewProcessRepo(db, logg)
	versions := NewVersionRepo(db, logg)
	owner := testutil.SeedUser(t, ctx, tx, "alice")

	older := &types.Process{
		Name: "a", Description: "d", Type: types.ProcessTypeML,
		RepositoryURL: "https://x/a", UserID: owner.ID,
		CreatedAt: time.Now().UTC().Add(-time.Hour),
	}
	newer := &types.Process{
		Name: "b", Description: "d", Type: types.ProcessTypeLLM,
		RepositoryURL: "https://x/b", UserID: owner.ID,
	}
	if _, err := processes.Create(dbc, []*types.Process{older, newer}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if string(newer.Metadata) != "{}" {
		t.Fatalf("expected default metadata {}, got %q", string(newer.Metadata))
	}

	list, err := processes.List(dbc)
	if err != nil || len(list) != 2 {
		t.Fatalf("List: err=%v len=%d", err, len(list))
	}
	if list[0].ID != newer.ID {
		t.Fatalf("List: expected newest first")
	}

	got, err := processes.GetByID(dbc, older.ID)
	if err != nil || got == nil || got.Type != types.ProcessTypeML {
		t.Fatalf("GetByID: err=%v got=%v", err, got)
	}
	if missing, err := processes.GetByID(dbc, uuid.New()); err != nil || missing != nil {
		t.Fatalf("GetByID(missing): err=%v got=%v", err, missing)
	}

	// duplicate version labels are allowed
	v1 := &types.Version{ProcessID: older.ID, Version: "1.0.0", CommitHash: "aaa"}
	v2 := &types.Version{ProcessID: older.ID, Version: "1.0.0", CommitHash: "bbb"}
	if _, err := versions.Create(dbc, []*types.Version{v1, v2}); err != nil {
		t.Fatalf("Version Create: %v", err)
	}
	vs, err := versions.GetByProcessID(dbc, older.ID)
	if err != nil || len(vs) != 2 {
		t.Fatalf("GetByProcessID: err=%v len=%d", err, len(vs))
	}
	if none, err := versions.GetByProcessID(dbc, newer.ID); err != nil || len(none) != 0 {
		t.Fatalf("GetByProcessID(empty): err=%v len=%d", err, len(none))
	}
	if got, err := versions.GetByID(dbc, v2.ID); err != nil || got == nil || got.CommitHash != "bbb" {
		t.Fatalf("Version GetByID: err=%v got=%v", err, got)
	}
}
