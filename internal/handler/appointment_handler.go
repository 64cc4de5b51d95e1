package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"medicare-api/internal/middleware"
	"medicare-api/internal/model"
	"medicare-api/internal/service"
)

func (h *Handler) ListAppointments(c *gin.Context) {
	f := service.Filters{
		PatientID: c.Query("patientId"),
		DoctorID:  c.Query("doctorId"),
		Status:    model.Status(c.Query("status")),
		DateFrom:  c.Query("dateFrom"),
		DateTo:    c.Query("dateTo"),
	}

	// patients only ever see their own records
	if middleware.Role(c) == model.RolePatient {
		f.PatientID = middleware.UserID(c)
	}

	out, err := h.svc.GetFiltered(c.Request.Context(), f)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

type createAppointmentRequest struct {
	DoctorID    string `json:"doctorId"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Description string `json:"description"`
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req createAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.DoctorID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "doctorId required"})
		return
	}

	// denormalize name/specialty from the directory at creation time
	doc, err := h.svc.GetDoctor(c.Request.Context(), req.DoctorID)
	if err != nil {
		h.fail(c, err)
		return
	}

	apt, err := h.svc.Create(c.Request.Context(), service.CreateInput{
		PatientID:   middleware.UserID(c),
		DoctorID:    doc.ID,
		DoctorName:  doc.Name,
		Specialty:   doc.Specialty,
		Date:        req.Date,
		Time:        req.Time,
		Description: req.Description,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, apt)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	apt, err := h.svc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	// 404 not 403 to hide existence from other patients
	if middleware.Role(c) == model.RolePatient && apt.PatientID != middleware.UserID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, apt)
}

type updateStatusRequest struct {
	Status model.Status `json:"status"`
}

// UpdateAppointmentStatus lets the owning patient or an admin overwrite
// the status. Any valid status can replace any other; there is no
// enforced state machine.
func (h *Handler) UpdateAppointmentStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	if !h.canMutate(c, c.Param("id")) {
		return
	}

	apt, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, apt)
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	if !h.canMutate(c, c.Param("id")) {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "appointment deleted"})
}

func (h *Handler) UpcomingAppointments(c *gin.Context) {
	patientID := c.Query("patientId")
	if middleware.Role(c) == model.RolePatient {
		patientID = middleware.UserID(c)
	}
	out, err := h.svc.GetUpcoming(c.Request.Context(), patientID)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) ListDoctors(c *gin.Context) {
	out, err := h.svc.GetDoctors(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) AvailableSlots(c *gin.Context) {
	slots, err := h.svc.GetAvailableSlots(c.Request.Context(), c.Param("id"), c.Query("date"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slots": slots})
}

// canMutate enforces ownership: the booking patient or an admin. It
// writes the response itself when access is denied.
func (h *Handler) canMutate(c *gin.Context, id string) bool {
	if middleware.Role(c) == model.RoleAdmin {
		return true
	}
	apt, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.fail(c, err)
		return false
	}
	if apt.PatientID != middleware.UserID(c) {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return false
	}
	return true
}
