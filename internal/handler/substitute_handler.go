package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/grocery_api/internal/service"
	"github.com/GTDGit/grocery_api/internal/utils"
)

// SubstituteHandler serves replacement suggestions for partly picked orders.
type SubstituteHandler struct {
	substitutes *service.SubstituteService
}

func NewSubstituteHandler(substitutes *service.SubstituteService) *SubstituteHandler {
	return &SubstituteHandler{substitutes: substitutes}
}

type substituteRequest struct {
	Lines   []service.OrderLine `json:"lines" binding:"required,dive"`
	PerLine int                 `json:"perLine" binding:"gte=0,lte=50"`
}

// Create handles POST /v1/substitutes.
func (h *SubstituteHandler) Create(c *gin.Context) {
	var req substituteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, http.StatusBadRequest, "INVALID_REQUEST", err.Error())
		return
	}

	items := h.substitutes.ForOrderLines(c.Request.Context(), req.Lines, req.PerLine)
	utils.Success(c, http.StatusOK, "Substitutes retrieved successfully", gin.H{
		"missingItems": items,
	})
}
