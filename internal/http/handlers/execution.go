package handlers

import (
	"encoding/json"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/processhub-backend/internal/http/response"
	"github.com/yungbote/processhub-backend/internal/observability"
	"github.com/yungbote/processhub-backend/internal/platform/apierr"
	"github.com/yungbote/processhub-backend/internal/platform/logger"
	"github.com/yungbote/processhub-backend/internal/services"
)

const defaultMaxUploadBytes int64 = 32 << 20

type ExecutionHandlerDeps struct {
	Log            *logger.Logger
	Executions     services.ExecutionService
	Metrics        *observability.Metrics
	MaxUploadBytes int64
}

type ExecutionHandler struct {
	log            *logger.Logger
	executions     services.ExecutionService
	metrics        *observability.Metrics
	maxUploadBytes int64
}

func NewExecutionHandlerWithDeps(deps ExecutionHandlerDeps) *ExecutionHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	maxBytes := deps.MaxUploadBytes
	if maxBytes <= 0 {
		maxBytes = defaultMaxUploadBytes
	}
	return &ExecutionHandler{
		log:            log.With("handler", "ExecutionHandler"),
		executions:     deps.Executions,
		metrics:        deps.Metrics,
		maxUploadBytes: maxBytes,
	}
}

// POST /api/deployments/:id/execute
// multipart fields: inputType, inputSource, inputMetadata (JSON text), file
func (eh *ExecutionHandler) Execute(c *gin.Context) {
	deploymentID, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, eh.log, err)
		return
	}

	req, closeFile, err := eh.readExecuteRequest(c)
	if closeFile != nil {
		defer closeFile()
	}
	if err != nil {
		response.RespondAPIError(c, eh.log, err)
		return
	}

	e, err := eh.executions.Execute(c.Request.Context(), deploymentID, req)
	if err != nil {
		if apierr.IsStatus(err, http.StatusBadRequest) {
			eh.metrics.IncExecution(req.InputType, "rejected")
		}
		response.RespondAPIError(c, eh.log, err)
		return
	}
	eh.metrics.IncExecution(string(e.InputType), "completed")
	response.RespondOK(c, e)
}

// GET /api/deployments/:id/executions
func (eh *ExecutionHandler) ListDeploymentExecutions(c *gin.Context) {
	deploymentID, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, eh.log, err)
		return
	}
	rows, err := eh.executions.ListForDeployment(c.Request.Context(), deploymentID)
	if err != nil {
		response.RespondAPIError(c, eh.log, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/executions/:id
func (eh *ExecutionHandler) GetExecution(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, eh.log, err)
		return
	}
	e, err := eh.executions.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, eh.log, err)
		return
	}
	response.RespondOK(c, e)
}

// GET /api/executions/:id/input
// Streams the stored upload of a file execution.
func (eh *ExecutionHandler) DownloadInput(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, eh.log, err)
		return
	}
	in, err := eh.executions.OpenInput(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, eh.log, err)
		return
	}
	defer in.Body.Close()

	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	size := in.Size
	if size <= 0 {
		size = -1
	}
	c.DataFromReader(http.StatusOK, size, contentType, in.Body, map[string]string{
		"Content-Disposition": mime.FormatMediaType("attachment", map[string]string{"filename": in.Name}),
	})
}

// readExecuteRequest accepts multipart (the normal case) or a JSON body
// carrying the same fields without a file.
func (eh *ExecutionHandler) readExecuteRequest(c *gin.Context) (services.ExecuteRequest, func(), error) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, eh.maxUploadBytes)

	if strings.HasPrefix(c.ContentType(), "application/json") {
		var body struct {
			InputType     string          `json:"inputType"`
			InputSource   json.RawMessage `json:"inputSource"`
			InputMetadata json.RawMessage `json:"inputMetadata"`
		}
		if err := c.ShouldBindJSON(&body); err != nil {
			return services.ExecuteRequest{}, nil, uploadError(err)
		}
		return services.ExecuteRequest{
			InputType:     body.InputType,
			InputSource:   rawString(body.InputSource),
			InputMetadata: string(body.InputMetadata),
		}, nil, nil
	}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.Request.ParseMultipartForm(eh.maxUploadBytes); err != nil {
			return services.ExecuteRequest{}, nil, uploadError(err)
		}
	}
	req := services.ExecuteRequest{
		InputType:     c.PostForm("inputType"),
		InputSource:   c.PostForm("inputSource"),
		InputMetadata: c.PostForm("inputMetadata"),
	}

	fh, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return req, nil, nil
		}
		return req, nil, uploadError(err)
	}
	f, err := fh.Open()
	if err != nil {
		return req, nil, uploadError(err)
	}
	req.File = &services.Upload{
		Filename:    fh.Filename,
		ContentType: partContentType(fh),
		Size:        fh.Size,
		Body:        f,
	}
	return req, func() { _ = f.Close() }, nil
}

// rawString unwraps a JSON string; any other JSON value is kept verbatim so
// direct input may be sent as an object.
func rawString(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func partContentType(fh *multipart.FileHeader) string {
	if fh == nil {
		return ""
	}
	return strings.TrimSpace(fh.Header.Get("Content-Type"))
}

func uploadError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apierr.InvalidInput("Upload exceeds maximum size")
	}
	return apierr.InvalidInput("Invalid request body")
}
