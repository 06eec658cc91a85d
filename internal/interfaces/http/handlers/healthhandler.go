package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/auralist-app/auralist/internal/shared/utils"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Check reports liveness and database reachability
func (h *HealthHandler) Check(c *gin.Context) {
	if h.db != nil {
		sqlDB, err := h.db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			utils.ErrorResponse(c, http.StatusServiceUnavailable, "database unreachable")
			return
		}
	}

	utils.SuccessResponse(c, http.StatusOK, "ok", gin.H{
		"status": "ok",
	})
}
