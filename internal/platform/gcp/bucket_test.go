package gcp

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yungbote/processhub-backend/internal/platform/logger"
	"github.com/yungbote/processhub-backend/internal/platform/objectstore"
)

func TestObjectPath(t *testing.T) {
	require.Equal(t, "gs://inputs/executions/x.csv", ObjectPath("inputs", "/executions/x.csv"))
}

func TestNewBucketStoreRejectsLocalMode(t *testing.T) {
	_, _, err := NewBucketStore(context.Background(), logger.Nop(), objectstore.Config{Mode: objectstore.ModeLocal, LocalDir: "uploads"})
	require.Error(t, err)
}

func TestNewBucketStoreRequiresBucket(t *testing.T) {
	_, _, err := NewBucketStore(context.Background(), logger.Nop(), objectstore.Config{Mode: objectstore.ModeGCS})
	require.Error(t, err)
}

func TestStorageClientOptions(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", "")
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	opts, err := storageClientOptions(objectstore.Config{Mode: objectstore.ModeGCSEmulator})
	require.NoError(t, err)
	require.Len(t, opts, 1)

	// application default credentials plus the scope
	opts, err = storageClientOptions(objectstore.Config{Mode: objectstore.ModeGCS})
	require.NoError(t, err)
	require.Len(t, opts, 1)

	_, err = storageClientOptions(objectstore.Config{Mode: objectstore.ModeLocal})
	require.Error(t, err)
}

func TestCredentialOptions(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", "")
	key := filepath.Join(t.TempDir(), "sa.json")
	require.NoError(t, os.WriteFile(key, []byte(`{}`), 0o600))

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", key)
	opts, err := credentialOptions()
	require.NoError(t, err)
	require.Len(t, opts, 1)

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", filepath.Join(t.TempDir(), "missing.json"))
	_, err = credentialOptions()
	require.Error(t, err)

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", "not-json")
	_, err = credentialOptions()
	require.Error(t, err)

	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS_JSON", `{"type":"service_account"}`)
	opts, err = credentialOptions()
	require.NoError(t, err)
	require.Len(t, opts, 1)
}
