package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"ledgerly/internal/config"
)

// MetaHandler serves client-facing application metadata.
type MetaHandler struct{}

// NewMetaHandler creates a new MetaHandler.
func NewMetaHandler() *MetaHandler {
	return &MetaHandler{}
}

// GetMeta returns application metadata for clients.
// @Summary     Get application metadata
// @Description Get client-facing metadata such as the optional donation link
// @Tags        meta
// @Produce     json
// @Success     200 {object} map[string]interface{} "Application metadata"
// @Router      /meta [get]
func (h *MetaHandler) GetMeta(c *gin.Context) {
	meta := gin.H{}
	if url := config.Get().SupportURL; url != "" {
		meta["support_url"] = url
	}
	c.JSON(http.StatusOK, gin.H{"meta": meta})
}
