package record

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group) {
	g.GET("/patients/:patientId/records", h.ListPatientRecords)
	g.GET("/patients/:patientId/records/details", h.GetPatientRecordDetails)
	g.POST("/patients/:patientId/records", h.CreateRecord)
	g.GET("/records/:recordId", h.GetRecord)
	g.PUT("/records/:recordId", h.UpdateRecord)
	g.DELETE("/records/:recordId", h.DeleteRecord)
}

func (h *Handler) CreateRecord(c echo.Context) error {
	var r PatientRecord
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	// The path segment is authoritative; a patient id in the body is ignored.
	r.PatientID = c.Param("patientId")

	created, err := h.svc.CreateRecord(c.Request().Context(), &r)
	if err != nil {
		var pnf *PatientNotFoundError
		if errors.As(err, &pnf) {
			return echo.NewHTTPError(http.StatusNotFound, pnf.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	c.Response().Header().Set("Location", "/records/"+strconv.Itoa(created.ID))
	return c.JSON(http.StatusCreated, created)
}

func (h *Handler) GetRecord(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("recordId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid record id")
	}
	rec, err := h.svc.GetRecord(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, rec)
}

func (h *Handler) ListPatientRecords(c echo.Context) error {
	records, err := h.svc.ListRecordsForPatient(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, records)
}

func (h *Handler) UpdateRecord(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("recordId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid record id")
	}
	var r PatientRecord
	if err := c.Bind(&r); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if r.ID != 0 && r.ID != id {
		return echo.NewHTTPError(http.StatusBadRequest, "body id does not match path id")
	}
	r.ID = id

	updated, err := h.svc.UpdateRecord(c.Request().Context(), &r)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "record not found")
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteRecord(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("recordId"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid record id")
	}
	found, err := h.svc.DeleteRecord(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	if !found {
		return echo.NewHTTPError(http.StatusNotFound, "record not found")
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) GetPatientRecordDetails(c echo.Context) error {
	details, err := h.svc.GetPatientRecordDetails(c.Request().Context(), c.Param("patientId"))
	if err != nil {
		var pnf *PatientNotFoundError
		if errors.As(err, &pnf) {
			return echo.NewHTTPError(http.StatusNotFound, pnf.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, details)
}
