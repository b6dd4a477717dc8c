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

func TestDeploymentRepoScopesByOwner(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewDeploymentRepo(db, testutil.Logger(t))
	alice := testutil.SeedUser(t, ctx, tx, "alice")
	bob := testutil.SeedUser(t, ctx, tx, "bob")
	p := testutil.SeedProcess(t, ctx, tx, alice.ID)
	v := testutil.SeedVersion(t, ctx, tx, p.ID, "1.0.0")

	d := &types.Deployment{Name: "prod", VersionID: v.ID, UserID: alice.ID}
	if _, err := repo.Create(dbc, []*types.Deployment{d}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if d.Status != types.DeploymentStatusActive {
		t.Fatalf("expected default status active, got %q", d.Status)
	}
	testutil.SeedDeployment(t, ctx, tx, v.ID, bob.ID)

	if got, err := repo.GetByIDForUser(dbc, d.ID, alice.ID); err != nil || got == nil {
		t.Fatalf("GetByIDForUser(owner): err=%v got=%v", err, got)
	}
	if got, err := repo.GetByIDForUser(dbc, d.ID, bob.ID); err != nil || got != nil {
		t.Fatalf("GetByIDForUser(foreign): err=%v got=%v", err, got)
	}

	if rows, err := repo.GetByUserID(dbc, alice.ID); err != nil || len(rows) != 1 {
		t.Fatalf("GetByUserID: err=%v len=%d", err, len(rows))
	}
	if rows, err := repo.GetByVersionIDForUser(dbc, v.ID, bob.ID); err != nil || len(rows) != 1 {
		t.Fatalf("GetByVersionIDForUser: err=%v len=%d", err, len(rows))
	}

	if ok, err := repo.UpdateStatus(dbc, d.ID, bob.ID, types.DeploymentStatusInactive); err != nil || ok {
		t.Fatalf("UpdateStatus(foreign): ok=%v err=%v", ok, err)
	}
	if ok, err := repo.UpdateStatus(dbc, d.ID, alice.ID, types.DeploymentStatusInactive); err != nil || !ok {
		t.Fatalf("UpdateStatus(owner): ok=%v err=%v", ok, err)
	}
	got, _ := repo.GetByIDForUser(dbc, d.ID, alice.ID)
	if got == nil || got.Status != types.DeploymentStatusInactive {
		t.Fatalf("expected inactive, got %v", got)
	}

	if ok, err := repo.DeleteForUser(dbc, d.ID, bob.ID); err != nil || ok {
		t.Fatalf("DeleteForUser(foreign): ok=%v err=%v", ok, err)
	}
	if ok, err := repo.DeleteForUser(dbc, d.ID, alice.ID); err != nil || !ok {
		t.Fatalf("DeleteForUser(owner): ok=%v err=%v", ok, err)
	}
	if ok, err := repo.DeleteForUser(dbc, uuid.New(), alice.ID); err != nil || ok {
		t.Fatalf("DeleteForUser(missing): ok=%v err=%v", ok, err)
	}
}

func TestExecutionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewExecutionRepo(db, testutil.Logger(t))
	alice := testutil.SeedUser(t, ctx, tx, "alice")
	bob := testutil.SeedUser(t, ctx, tx, "bob")
	p := testutil.SeedProcess(t, ctx, tx, alice.ID)
	v := testutil.SeedVersion(t, ctx, tx, p.ID, "1.0.0")
	d := testutil.SeedDeployment(t, ctx, tx, v.ID, alice.ID)

	now := time.Now().UTC()
	first := testutil.SeedExecution(t, ctx, tx, d.ID, alice.ID, now.Add(-time.Minute))

	pending := &types.Execution{
		DeploymentID: testutil.PtrUUID(d.ID),
		UserID:       alice.ID,
		Status:       types.ExecutionStatusPending,
		InputType:    types.InputTypeBigQuery,
		InputSource:  "proj.ds.table",
		StartedAt:    now,
	}
	if _, err := repo.Create(dbc, []*types.Execution{pending}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.UpdateFields(dbc, pending.ID, map[string]any{
		"status":       types.ExecutionStatusCompleted,
		"completed_at": now,
	}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	got, err := repo.GetByIDForUser(dbc, pending.ID, alice.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByIDForUser: err=%v got=%v", err, got)
	}
	if got.Status != types.ExecutionStatusCompleted || got.CompletedAt == nil {
		t.Fatalf("expected completed with completedAt, got %+v", got)
	}
	if foreign, err := repo.GetByIDForUser(dbc, pending.ID, bob.ID); err != nil || foreign != nil {
		t.Fatalf("GetByIDForUser(foreign): err=%v got=%v", err, foreign)
	}

	rows, err := repo.GetByDeploymentID(dbc, d.ID)
	if err != nil || len(rows) != 2 {
		t.Fatalf("GetByDeploymentID: err=%v len=%d", err, len(rows))
	}
	if rows[0].ID != pending.ID || rows[1].ID != first.ID {
		t.Fatalf("GetByDeploymentID: expected newest first")
	}

	n, err := repo.DeleteByDeploymentID(dbc, d.ID)
	if err != nil || n != 2 {
		t.Fatalf("DeleteByDeploymentID: n=%d err=%v", n, err)
	}
	if gone, err := repo.GetByID(dbc, first.ID); err != nil || gone != nil {
		t.Fatalf("expected execution deleted: err=%v got=%v", err, gone)
	}
}
