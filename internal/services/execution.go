package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/yungbote/processhub-backend/internal/data/repos"
	types "github.com/yungbote/processhub-backend/internal/domain"
	"github.com/yungbote/processhub-backend/internal/platform/apierr"
	"github.com/yungbote/processhub-backend/internal/platform/ctxutil"
	"github.com/yungbote/processhub-backend/internal/platform/dbctx"
	"github.com/yungbote/processhub-backend/internal/platform/eventbus"
	"github.com/yungbote/processhub-backend/internal/platform/logger"
	"github.com/yungbote/processhub-backend/internal/platform/objectstore"
)

// Upload is a multipart attachment as received; Body is read once.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

type ExecuteRequest struct {
	InputType     string
	InputSource   string
	InputMetadata string
	File          *Upload
}

type ExecutionService interface {
	Execute(ctx context.Context, deploymentID uuid.UUID, req ExecuteRequest) (*types.Execution, error)
	ExecuteProcess(ctx context.Context, processID uuid.UUID, body []byte) (*types.Execution, error)
	ListForDeployment(ctx context.Context, deploymentID uuid.UUID) ([]*types.Execution, error)
	Get(ctx context.Context, executionID uuid.UUID) (*types.Execution, error)
	OpenInput(ctx context.Context, executionID uuid.UUID) (*InputFile, error)
}

// InputFile is a stored execution upload opened for reading. The caller
// closes Body.
type InputFile struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.ReadCloser
}

type executionService struct {
	db             *gorm.DB
	log            *logger.Logger
	processRepo    repos.ProcessRepo
	deploymentRepo repos.DeploymentRepo
	executionRepo  repos.ExecutionRepo
	store          objectstore.Store
	bus            eventbus.Bus
	now            func() time.Time
}

func NewExecutionService(
	db *gorm.DB,
	log *logger.Logger,
	processRepo repos.ProcessRepo,
	deploymentRepo repos.DeploymentRepo,
	executionRepo repos.ExecutionRepo,
	store objectstore.Store,
	bus eventbus.Bus,
) ExecutionService {
	serviceLog := log.With("service", "ExecutionService")
	if bus == nil {
		bus = eventbus.Nop()
	}
	return &executionService{
		db:             db,
		log:            serviceLog,
		processRepo:    processRepo,
		deploymentRepo: deploymentRepo,
		executionRepo:  executionRepo,
		store:          store,
		bus:            bus,
		now:            func() time.Time { return time.Now().UTC() },
	}
}

func (s *executionService) Execute(ctx context.Context, deploymentID uuid.UUID, req ExecuteRequest) (*types.Execution, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthenticated()
	}

	dep, err := s.deploymentRepo.GetByIDForUser(dbctx.Context{Ctx: ctx}, deploymentID, userID)
	if err != nil {
		return nil, fmt.Errorf("load deployment: %w", err)
	}
	if dep == nil {
		return nil, apierr.NotFound()
	}

	var stored *StoredUpload
	if req.File != nil && types.InputType(strings.TrimSpace(req.InputType)) == types.InputTypeFile {
		stored, err = s.storeUpload(ctx, deploymentID, req.File)
		if err != nil {
			return nil, err
		}
	}

	in, err := ValidateExecutionInput(ExecutionInput{
		InputType:     req.InputType,
		InputSource:   req.InputSource,
		InputMetadata: req.InputMetadata,
		Upload:        stored,
	})
	if err != nil {
		s.discardUpload(ctx, stored)
		return nil, err
	}

	exec := &types.Execution{
		ID:            uuid.New(),
		DeploymentID:  &dep.ID,
		UserID:        userID,
		Status:        types.ExecutionStatusPending,
		InputType:     in.InputType,
		InputSource:   in.InputSource,
		InputMetadata: in.InputMetadata,
		StartedAt:     s.now(),
	}
	out, err := s.run(ctx, exec, placeholderOutput(fmt.Sprintf("Simulated execution result for %s input", in.InputType)))
	if err != nil {
		s.discardUpload(ctx, stored)
		return nil, err
	}

	s.log.Info("Execution completed",
		"execution_id", out.ID,
		"deployment_id", deploymentID,
		"input_type", out.InputType,
	)
	publishEvent(ctx, s.log, s.bus, eventbus.EventExecutionCompleted, userID, out)
	return out, nil
}

// ExecuteProcess records a direct-input execution against a process with no
// deployment, using the request body verbatim as input.
func (s *executionService) ExecuteProcess(ctx context.Context, processID uuid.UUID, body []byte) (*types.Execution, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthenticated()
	}

	p, err := s.processRepo.GetByID(dbctx.Context{Ctx: ctx}, processID)
	if err != nil {
		return nil, fmt.Errorf("load process: %w", err)
	}
	if p == nil {
		return nil, apierr.NotFound()
	}

	source := strings.TrimSpace(string(body))
	if source == "" {
		source = "{}"
	}
	if !json.Valid([]byte(source)) {
		return nil, apierr.InvalidInput(msgInvalidJSONInput)
	}

	exec := &types.Execution{
		ID:            uuid.New(),
		ProcessID:     &p.ID,
		UserID:        userID,
		Status:        types.ExecutionStatusPending,
		InputType:     types.InputTypeDirect,
		InputSource:   source,
		InputMetadata: datatypes.JSON([]byte("{}")),
		StartedAt:     s.now(),
	}
	out, err := s.run(ctx, exec, placeholderOutput("Simulated execution result"))
	if err != nil {
		return nil, err
	}

	s.log.Info("Process execution completed", "execution_id", out.ID, "process_id", processID)
	publishEvent(ctx, s.log, s.bus, eventbus.EventExecutionCompleted, userID, out)
	return out, nil
}

func (s *executionService) ListForDeployment(ctx context.Context, deploymentID uuid.UUID) ([]*types.Execution, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthenticated()
	}
	dbc := dbctx.Context{Ctx: ctx}
	dep, err := s.deploymentRepo.GetByIDForUser(dbc, deploymentID, userID)
	if err != nil {
		return nil, fmt.Errorf("load deployment: %w", err)
	}
	if dep == nil {
		return nil, apierr.NotFound()
	}
	rows, err := s.executionRepo.GetByDeploymentID(dbc, deploymentID)
	if err != nil {
		return nil, fmt.Errorf("list executions: %w", err)
	}
	return rows, nil
}

func (s *executionService) Get(ctx context.Context, executionID uuid.UUID) (*types.Execution, error) {
	userID := ctxutil.UserID(ctx)
	if userID == uuid.Nil {
		return nil, apierr.Unauthenticated()
	}
	e, err := s.executionRepo.GetByIDForUser(dbctx.Context{Ctx: ctx}, executionID, userID)
	if err != nil {
		return nil, fmt.Errorf("load execution: %w", err)
	}
	if e == nil {
		return nil, apierr.NotFound()
	}
	return e, nil
}

// OpenInput streams back the upload of a file execution the caller owns.
// Executions of other input types have no stored object and report not found.
func (s *executionService) OpenInput(ctx context.Context, executionID uuid.UUID) (*InputFile, error) {
	e, err := s.Get(ctx, executionID)
	if err != nil {
		return nil, err
	}
	if e.InputType != types.InputTypeFile || s.store == nil {
		return nil, apierr.NotFound()
	}
	var meta struct {
		StorageKey   string `json:"storageKey"`
		OriginalName string `json:"originalName"`
		MimeType     string `json:"mimeType"`
		SizeBytes    int64  `json:"sizeBytes"`
	}
	if err := json.Unmarshal(e.InputMetadata, &meta); err != nil || meta.StorageKey == "" {
		return nil, apierr.NotFound()
	}
	body, err := s.store.Open(ctx, meta.StorageKey)
	if errors.Is(err, objectstore.ErrNotFound) {
		s.log.Warn("Execution input missing from store", "execution_id", e.ID, "key", meta.StorageKey)
		return nil, apierr.NotFound()
	}
	if err != nil {
		return nil, fmt.Errorf("open execution input: %w", err)
	}
	return &InputFile{
		Name:        meta.OriginalName,
		ContentType: meta.MimeType,
		Size:        meta.SizeBytes,
		Body:        body,
	}, nil
}

// run inserts exec as pending and completes it with output in one
// transaction, returning the committed row.
func (s *executionService) run(ctx context.Context, exec *types.Execution, output datatypes.JSON) (*types.Execution, error) {
	var out *types.Execution
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		dbc := dbctx.Context{Ctx: ctx, Tx: tx}
		if _, err := s.executionRepo.Create(dbc, []*types.Execution{exec}); err != nil {
			return err
		}
		if err := s.executionRepo.UpdateFields(dbc, exec.ID, map[string]any{
			"status":       types.ExecutionStatusCompleted,
			"output":       output,
			"completed_at": s.now(),
		}); err != nil {
			return err
		}
		row, err := s.executionRepo.GetByID(dbc, exec.ID)
		if err != nil {
			return err
		}
		if row == nil {
			return fmt.Errorf("execution %s vanished after update", exec.ID)
		}
		out = row
		return nil
	})
	if err != nil {
		return nil, mapStoreError(err)
	}
	return out, nil
}

func (s *executionService) storeUpload(ctx context.Context, deploymentID uuid.UUID, f *Upload) (*StoredUpload, error) {
	if s.store == nil {
		return nil, fmt.Errorf("object store not configured")
	}
	name := uploadName(f.Filename)
	key := fmt.Sprintf("executions/%s/%s-%s", deploymentID, uuid.NewString(), name)

	counter := &countingReader{r: f.Body}
	p, err := s.store.Put(ctx, key, counter, f.ContentType)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}
	size := f.Size
	if size <= 0 {
		size = counter.n
	}
	mime := strings.TrimSpace(f.ContentType)
	if mime == "" {
		mime = "application/octet-stream"
	}
	return &StoredUpload{
		Key:          key,
		Path:         p,
		OriginalName: name,
		MimeType:     mime,
		SizeBytes:    size,
	}, nil
}

func (s *executionService) discardUpload(ctx context.Context, u *StoredUpload) {
	if u == nil || s.store == nil {
		return
	}
	// the request context may already be canceled
	cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()
	if err := s.store.Delete(cleanupCtx, u.Key); err != nil {
		s.log.Warn("Failed to remove rejected upload", "key", u.Key, "error", err)
	}
}

func placeholderOutput(result string) datatypes.JSON {
	raw, _ := json.Marshal(map[string]string{"result": result})
	return datatypes.JSON(raw)
}

// uploadName keeps only the base name of a client-supplied filename.
func uploadName(filename string) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if name == "" || name == "." || name == "/" || name == ".." {
		return "upload"
	}
	return strings.ReplaceAll(name, " ", "_")
}

type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}
