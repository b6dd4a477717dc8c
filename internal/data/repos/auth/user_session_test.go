package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/processhub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/processhub-backend/internal/domain"
	"github.com/yungbote/processhub-backend/internal/platform/dbctx"
)

func TestUserSessionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}

	repo := NewUserSessionRepo(db, testutil.Logger(t))
	u := testutil.SeedUser(t, ctx, tx, "alice")
	now := time.Now().UTC()

	live := &types.UserSession{UserID: u.ID, ExpiresAt: now.Add(time.Hour)}
	stale := &types.UserSession{UserID: u.ID, ExpiresAt: now.Add(-time.Hour)}
	if _, err := repo.Create(dbc, []*types.UserSession{live, stale}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.GetByID(dbc, live.ID)
	if err != nil || got == nil {
		t.Fatalf("GetByID: err=%v got=%v", err, got)
	}
	if !got.Active(now) {
		t.Fatalf("expected live session to be active")
	}
	if missing, err := repo.GetByID(dbc, uuid.New()); err != nil || missing != nil {
		t.Fatalf("GetByID(missing): err=%v got=%v", err, missing)
	}

	if err := repo.Revoke(dbc, live.ID, now); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	got, err = repo.GetByID(dbc, live.ID)
	if err != nil || got == nil || got.RevokedAt == nil {
		t.Fatalf("GetByID after revoke: err=%v got=%v", err, got)
	}
	if got.Active(now) {
		t.Fatalf("revoked session reported active")
	}

	n, err := repo.DeleteExpiredByUserID(dbc, u.ID, now)
	if err != nil || n != 1 {
		t.Fatalf("DeleteExpiredByUserID: n=%d err=%v", n, err)
	}
	if gone, err := repo.GetByID(dbc, stale.ID); err != nil || gone != nil {
		t.Fatalf("expected stale session deleted: err=%v got=%v", err, gone)
	}
}
