package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/carhive/rental-service/internal/errs"
	"github.com/carhive/rental-service/internal/model"
	"github.com/carhive/rental-service/pkg/validate"
)

type Handler struct {
	reservationSvc ReservationService
	log            *zap.Logger
}

func New(reservationSvc ReservationService, log *zap.Logger) *Handler {
	return &Handler{
		reservationSvc: reservationSvc,
		log:            log,
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", newRateLimiterMW(baseRPS))
	base.GET("/manage/health", h.Health)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(requestLoggerConfig(h.log)),
		middleware.RequestID(),
		newRateLimiterMW(apiRPS),
	)

	api.GET("/reservations", h.GetUserReservations, userIDContext)
	api.POST("/reservations", h.CreateReservation, userIDContext)
	api.POST("/reservations/:id/cancel", h.CancelReservation)
	api.GET("/reservations/all", h.GetAll)
	api.GET("/vehicles/:vehicleId/availability", h.IsAvailable)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	status := "OK"
	if h.reservationSvc.Degraded() {
		status = "DEGRADED"
	}
	return c.JSON(http.StatusOK, echo.Map{"status": status})
}

func (h *Handler) GetUserReservations(c echo.Context) error {
	userID, err := getUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	items, err := h.reservationSvc.GetUserReservations(c.Request().Context(), userID)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) GetAll(c echo.Context) error {
	items, err := h.reservationSvc.GetAll(c.Request().Context())
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, items)
}

func (h *Handler) IsAvailable(c echo.Context) error {
	vehicleID, err := strconv.ParseInt(c.Param("vehicleId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid vehicleId")
	}
	start, err := time.Parse(time.RFC3339, c.QueryParam("startDate"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid startDate")
	}
	end, err := time.Parse(time.RFC3339, c.QueryParam("endDate"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid endDate")
	}
	available, err := h.reservationSvc.IsAvailable(c.Request().Context(), vehicleID, start, end)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusOK, echo.Map{"available": available})
}

func (h *Handler) CreateReservation(c echo.Context) error {
	var req model.CreateReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	userID, err := getUserID(c)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	req.UserID = userID

	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	res, err := h.reservationSvc.CreateReservation(c.Request().Context(), &req)
	if err != nil {
		return httpError(err)
	}
	return c.JSON(http.StatusCreated, res)
}

func (h *Handler) CancelReservation(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid reservation id")
	}
	var req model.CancelReservationRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	ok, err := h.reservationSvc.CancelReservation(c.Request().Context(), id, req.Reason)
	if err != nil {
		return httpError(err)
	}
	if !ok {
		return echo.NewHTTPError(http.StatusNotFound, errs.ErrNotFound.Error())
	}
	return c.NoContent(http.StatusOK)
}

func httpError(err error) *echo.HTTPError {
	switch errs.KindOf(err) {
	case errs.KindConflict:
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errs.KindValidation:
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errs.KindCancelled:
		return echo.NewHTTPError(http.StatusRequestTimeout, err.Error())
	default:
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
}
