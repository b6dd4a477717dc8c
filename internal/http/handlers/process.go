package handlers

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/processhub-backend/internal/http/response"
	"github.com/yungbote/processhub-backend/internal/platform/apierr"
	"github.com/yungbote/processhub-backend/internal/platform/logger"
	"github.com/yungbote/processhub-backend/internal/services"
)

// maxProcessInputBytes bounds the raw JSON body of the legacy execute call.
const maxProcessInputBytes int64 = 1 << 20

type ProcessHandler struct {
	log              *logger.Logger
	processService   services.ProcessService
	executionService services.ExecutionService
}

func NewProcessHandler(log *logger.Logger, processService services.ProcessService, executionService services.ExecutionService) *ProcessHandler {
	return &ProcessHandler{
		log:              log.With("handler", "ProcessHandler"),
		processService:   processService,
		executionService: executionService,
	}
}

// GET /api/processes
func (ph *ProcessHandler) ListProcesses(c *gin.Context) {
	rows, err := ph.processService.List(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, ph.log, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/processes/:id
func (ph *ProcessHandler) GetProcess(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, ph.log, err)
		return
	}
	detail, err := ph.processService.Get(c.Request.Context(), id)
	if err != nil {
		response.RespondAPIError(c, ph.log, err)
		return
	}
	response.RespondOK(c, detail)
}

// POST /api/processes
func (ph *ProcessHandler) CreateProcess(c *gin.Context) {
	var req services.CreateProcessInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, ph.log, badJSON())
		return
	}
	p, err := ph.processService.Create(c.Request.Context(), req)
	if err != nil {
		response.RespondAPIError(c, ph.log, err)
		return
	}
	response.RespondCreated(c, p)
}

// POST /api/processes/:id/versions
func (ph *ProcessHandler) CreateVersion(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, ph.log, err)
		return
	}
	var req services.CreateVersionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, ph.log, badJSON())
		return
	}
	v, err := ph.processService.CreateVersion(c.Request.Context(), id, req)
	if err != nil {
		response.RespondAPIError(c, ph.log, err)
		return
	}
	response.RespondCreated(c, v)
}

// POST /api/processes/:id/execute
// The raw JSON body is the execution input.
func (ph *ProcessHandler) ExecuteProcess(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, ph.log, err)
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxProcessInputBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.RespondAPIError(c, ph.log, apierr.InvalidInput("Request body too large"))
			return
		}
		response.RespondAPIError(c, ph.log, badJSON())
		return
	}
	e, err := ph.executionService.ExecuteProcess(c.Request.Context(), id, body)
	if err != nil {
		response.RespondAPIError(c, ph.log, err)
		return
	}
	response.RespondOK(c, e)
}
