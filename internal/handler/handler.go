package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"medicare-api/internal/service"
)

type Handler struct {
	svc    *service.Service
	log    *logrus.Logger
	secret string
}

func New(svc *service.Service, log *logrus.Logger, secret string) *Handler {
	return &Handler{svc: svc, log: log, secret: secret}
}

// fail maps service errors to status codes. Storage failures surface as
// a generic 500; the details stay in the log.
func (h *Handler) fail(c *gin.Context, err error) {
	var vErr *service.ValidationError
	var cErr *service.ConflictError
	switch {
	case errors.As(err, &vErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Reason})
	case errors.As(err, &cErr):
		c.JSON(http.StatusConflict, gin.H{"error": "slot already booked"})
	case errors.Is(err, service.ErrEmailTaken):
		c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
	case errors.Is(err, service.ErrAppointmentNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrDoctorNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		h.log.WithError(err).Error("request failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
