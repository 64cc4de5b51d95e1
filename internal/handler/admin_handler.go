package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medicare-api/internal/model"
)

func (h *Handler) AdminStats(c *gin.Context) {
	st, err := h.svc.Stats(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}

func (h *Handler) AdminListUsers(c *gin.Context) {
	users, err := h.svc.GetUsers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]model.User, len(users))
	for i, u := range users {
		out[i] = u.Public()
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) AdminDeleteUser(c *gin.Context) {
	if err := h.svc.DeleteUser(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
}
