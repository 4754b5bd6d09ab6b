package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// parseIDParam parses the :id path parameter as a UUID. On failure it writes
// a 400 response and reports false.
func (h *BaseHandler) parseIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}
