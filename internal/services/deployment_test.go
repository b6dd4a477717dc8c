package services

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/processhub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/processhub-backend/internal/domain"
	"github.com/yungbote/processhub-backend/internal/platform/apierr"
	"github.com/yungbote/processhub-backend/internal/platform/dbctx"
	"github.com/yungbote/processhub-backend/internal/platform/eventbus"
)

func TestDeploymentCreateAndList(t *testing.T) {
	f := newFixture(t)
	alice, v, _ := f.seedChain(t, "alice")
	bob := testutil.SeedUser(t, context.Background(), f.db, "bob")

	d, err := f.deployments.Create(as(alice), v.ID, CreateDeploymentInput{
		Name:   "staging",
		Config: json.RawMessage(`{"replicas":2}`),
	})
	require.NoError(t, err)
	assert.Equal(t, types.DeploymentStatusActive, d.Status)
	assert.Equal(t, alice.ID, d.UserID)
	assert.JSONEq(t, `{"replicas":2}`, string(d.Config))

	mine, err := f.deployments.List(as(alice))
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := f.deployments.List(as(bob))
	require.NoError(t, err)
	assert.Empty(t, theirs)

	byVersion, err := f.deployments.ListForVersion(as(bob), v.ID)
	require.NoError(t, err)
	assert.Empty(t, byVersion)

	evts := f.bus.Events()
	require.NotEmpty(t, evts)
	assert.Equal(t, eventbus.EventDeploymentCreated, evts[len(evts)-1].Type)
	assert.Equal(t, alice.ID.String(), evts[len(evts)-1].Channel)
}

func TestDeploymentCreateValidation(t *testing.T) {
	f := newFixture(t)
	alice, v, _ := f.seedChain(t, "alice")

	_, err := f.deployments.Create(as(alice), v.ID, CreateDeploymentInput{Name: ""})
	assert.True(t, apierr.IsStatus(err, http.StatusBadRequest))

	_, err = f.deployments.Create(as(alice), v.ID, CreateDeploymentInput{Name: "x", Config: json.RawMessage(`[1,2]`)})
	assert.True(t, apierr.IsStatus(err, http.StatusBadRequest))

	_, err = f.deployments.Create(as(alice), uuid.New(), CreateDeploymentInput{Name: "x"})
	assert.True(t, apierr.IsStatus(err, http.StatusNotFound))
}

func TestDeploymentUpdateStatus(t *testing.T) {
	f := newFixture(t)
	alice, _, d := f.seedChain(t, "alice")
	bob := testutil.SeedUser(t, context.Background(), f.db, "bob")

	_, err := f.deployments.UpdateStatus(as(alice), d.ID, "paused")
	assert.True(t, apierr.IsStatus(err, http.StatusBadRequest))

	_, err = f.deployments.UpdateStatus(as(bob), d.ID, "inactive")
	assert.True(t, apierr.IsStatus(err, http.StatusNotFound))

	got, err := f.deployments.UpdateStatus(as(alice), d.ID, "inactive")
	require.NoError(t, err)
	assert.Equal(t, types.DeploymentStatusInactive, got.Status)

	got, err = f.deployments.UpdateStatus(as(alice), d.ID, "active")
	require.NoError(t, err)
	assert.Equal(t, types.DeploymentStatusActive, got.Status)
}

func TestDeploymentDeleteRemovesExecutions(t *testing.T) {
	f := newFixture(t)
	alice, _, d := f.seedChain(t, "alice")
	bob := testutil.SeedUser(t, context.Background(), f.db, "bob")
	e := testutil.SeedExecution(t, context.Background(), f.db, d.ID, alice.ID, time.Now().UTC())

	err := f.deployments.Delete(as(bob), d.ID)
	assert.True(t, apierr.IsStatus(err, http.StatusNotFound))

	require.NoError(t, f.deployments.Delete(as(alice), d.ID))

	gone, err := f.execRepo.GetByID(dbctx.Context{Ctx: context.Background()}, e.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)

	err = f.deployments.Delete(as(alice), d.ID)
	assert.True(t, apierr.IsStatus(err, http.StatusNotFound))
}
