package services

import (
	"context"
	"testing"

	"gorm.io/gorm"

	"github.com/yungbote/processhub-backend/internal/data/repos"
	"github.com/yungbote/processhub-backend/internal/data/repos/testutil"
	types "github.com/yungbote/processhub-backend/internal/domain"
	"github.com/yungbote/processhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/processhub-backend/internal/platform/eventbus"
	"github.com/yungbote/processhub-backend/internal/platform/objectstore"
)

type fixture struct {
	db          *gorm.DB
	bus         *eventbus.Memory
	store       objectstore.Store
	uploadDir   string
	auth        AuthService
	processes   ProcessService
	deployments DeploymentService
	executions  ExecutionService
	execRepo    repos.ExecutionRepo
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.DB(t)
	logg := testutil.Logger(t)

	dir := t.TempDir()
	store, err := objectstore.NewLocalStore(logg, dir)
	if err != nil {
		t.Fatalf("local store: %v", err)
	}
	bus := eventbus.NewMemory()

	userRepo := repos.NewUserRepo(db, logg)
	sessionRepo := repos.NewUserSessionRepo(db, logg)
	processRepo := repos.NewProcessRepo(db, logg)
	versionRepo := repos.NewVersionRepo(db, logg)
	deploymentRepo := repos.NewDeploymentRepo(db, logg)
	executionRepo := repos.NewExecutionRepo(db, logg)

	return &fixture{
		db:          db,
		bus:         bus,
		store:       store,
		uploadDir:   dir,
		auth:        NewAuthService(db, logg, userRepo, sessionRepo, "test-secret", 0),
		processes:   NewProcessService(db, logg, processRepo, versionRepo),
		deployments: NewDeploymentService(db, logg, versionRepo, deploymentRepo, executionRepo, bus),
		executions:  NewExecutionService(db, logg, processRepo, deploymentRepo, executionRepo, store, bus),
		execRepo:    executionRepo,
	}
}

// as returns a context authenticated as u.
func as(u *types.User) context.Context {
	return ctxutil.WithRequestData(context.Background(), &ctxutil.RequestData{UserID: u.ID})
}

// seedChain creates owner -> process -> version -> deployment.
func (f *fixture) seedChain(t *testing.T, username string) (*types.User, *types.Version, *types.Deployment) {
	t.Helper()
	ctx := context.Background()
	u := testutil.SeedUser(t, ctx, f.db, username)
	p := testutil.SeedProcess(t, ctx, f.db, u.ID)
	v := testutil.SeedVersion(t, ctx, f.db, p.ID, "1.0.0")
	d := testutil.SeedDeployment(t, ctx, f.db, v.ID, u.ID)
	return u, v, d
}
