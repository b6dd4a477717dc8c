package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/processhub-backend/internal/http/response"
	"github.com/yungbote/processhub-backend/internal/platform/logger"
	"github.com/yungbote/processhub-backend/internal/services"
)

type DeploymentHandler struct {
	log               *logger.Logger
	deploymentService services.DeploymentService
}

func NewDeploymentHandler(log *logger.Logger, deploymentService services.DeploymentService) *DeploymentHandler {
	return &DeploymentHandler{
		log:               log.With("handler", "DeploymentHandler"),
		deploymentService: deploymentService,
	}
}

// POST /api/versions/:id/deploy
func (dh *DeploymentHandler) Deploy(c *gin.Context) {
	versionID, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, dh.log, err)
		return
	}
	var req services.CreateDeploymentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, dh.log, badJSON())
		return
	}
	d, err := dh.deploymentService.Create(c.Request.Context(), versionID, req)
	if err != nil {
		response.RespondAPIError(c, dh.log, err)
		return
	}
	response.RespondCreated(c, d)
}

// GET /api/versions/:id/deployments
func (dh *DeploymentHandler) ListVersionDeployments(c *gin.Context) {
	versionID, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, dh.log, err)
		return
	}
	rows, err := dh.deploymentService.ListForVersion(c.Request.Context(), versionID)
	if err != nil {
		response.RespondAPIError(c, dh.log, err)
		return
	}
	response.RespondOK(c, rows)
}

// GET /api/deployments
func (dh *DeploymentHandler) ListDeployments(c *gin.Context) {
	rows, err := dh.deploymentService.List(c.Request.Context())
	if err != nil {
		response.RespondAPIError(c, dh.log, err)
		return
	}
	response.RespondOK(c, rows)
}

// PATCH /api/deployments/:id/status
// body: { "status": "active" | "inactive" }
func (dh *DeploymentHandler) UpdateStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, dh.log, err)
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondAPIError(c, dh.log, badJSON())
		return
	}
	d, err := dh.deploymentService.UpdateStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		response.RespondAPIError(c, dh.log, err)
		return
	}
	response.RespondOK(c, d)
}

// DELETE /api/deployments/:id
func (dh *DeploymentHandler) DeleteDeployment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		response.RespondAPIError(c, dh.log, err)
		return
	}
	if err := dh.deploymentService.Delete(c.Request.Context(), id); err != nil {
		response.RespondAPIError(c, dh.log, err)
		return
	}
	response.RespondNoContent(c)
}
