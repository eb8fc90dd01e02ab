package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/sangkips/shopfront-pos/internal/application/service"
	"github.com/sangkips/shopfront-pos/internal/presentation/http/dto/request"
	"github.com/sangkips/shopfront-pos/internal/presentation/http/dto/response"
)

// SyncHandler triggers vendor sync sweeps.
type SyncHandler struct {
	sync *service.SyncService
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(sync *service.SyncService) *SyncHandler {
	return &SyncHandler{sync: sync}
}

// Sweep syncs every unsynced record, optionally requeueing pending ones.
func (h *SyncHandler) Sweep(c *gin.Context) {
	var req request.SweepRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, "Invalid request body: "+err.Error())
			return
		}
	}

	res, err := h.sync.Sweep(c.Request.Context(), req.Requeue)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Sweep finished", res)
}

// Requeue moves pending records back for the next sweep.
func (h *SyncHandler) Requeue(c *gin.Context) {
	moved, err := h.sync.Requeue()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Pending records requeued", gin.H{"requeued": moved})
}
