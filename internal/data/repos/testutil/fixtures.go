package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/processhub-backend/internal/domain"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:       uuid.New(),
		Username: username,
		Password: "pw",
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedProcess(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID) *types.Process {
	tb.Helper()
	p := &types.Process{
		ID:            uuid.New(),
		Name:          "sentiment",
		Description:   "scores text",
		Type:          types.ProcessTypeLLM,
		RepositoryURL: "https://github.com/example/sentiment",
		Metadata:      datatypes.JSON([]byte("{}")),
		UserID:        userID,
	}
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed process: %v", err)
	}
	return p
}

func SeedVersion(tb testing.TB, ctx context.Context, tx *gorm.DB, processID uuid.UUID, version string) *types.Version {
	tb.Helper()
	v := &types.Version{
		ID:         uuid.New(),
		ProcessID:  processID,
		Version:    version,
		CommitHash: "abc123",
		Metadata:   datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(v).Error; err != nil {
		tb.Fatalf("seed version: %v", err)
	}
	return v
}

func SeedDeployment(tb testing.TB, ctx context.Context, tx *gorm.DB, versionID, userID uuid.UUID) *types.Deployment {
	tb.Helper()
	d := &types.Deployment{
		ID:        uuid.New(),
		Name:      "prod",
		VersionID: versionID,
		UserID:    userID,
		Status:    types.DeploymentStatusActive,
		Config:    datatypes.JSON([]byte("{}")),
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed deployment: %v", err)
	}
	return d
}

func SeedExecution(tb testing.TB, ctx context.Context, tx *gorm.DB, deploymentID, userID uuid.UUID, startedAt time.Time) *types.Execution {
	tb.Helper()
	completedAt := startedAt.Add(time.Second)
	e := &types.Execution{
		ID:            uuid.New(),
		DeploymentID:  PtrUUID(deploymentID),
		UserID:        userID,
		Status:        types.ExecutionStatusCompleted,
		InputType:     types.InputTypeDirect,
		InputSource:   `{"text":"hi"}`,
		InputMetadata: datatypes.JSON([]byte("{}")),
		Output:        datatypes.JSON([]byte(`{"result":"ok"}`)),
		StartedAt:     startedAt,
		CompletedAt:   &completedAt,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed execution: %v", err)
	}
	return e
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
