package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/kod2ulz/worldpay-iadmin/client"
	"github.com/pkg/errors"
)

const (
	HeaderRequestID   = "X-Request-ID"
	ParamFuturePayID  = "futurePayId"
	ParamRequestID    = "requestId"
	DefaultCallsLimit = 20
)

func (s *futurePay) Routes(r gin.IRouter) {
	g := r.Group("/futurepay")
	g.Use(requestID)
	g.POST("/:futurePayId/cancel", s.handleCancel)
	g.POST("/:futurePayId/start-date", s.handleStartDate)
	g.POST("/:futurePayId/amount", s.handleChangeAmount)
	g.POST("/:futurePayId/debit", s.handleDebit)
	g.GET("/:futurePayId/calls", s.handleCalls)

	e := r.Group("/exchanges")
	e.Use(requestID)
	e.GET("/:requestId", s.handleExchange)
}

// requestID propagates the caller's X-Request-ID, or a fresh one, into the
// request context so the iadmin audit trail can be correlated.
func requestID(c *gin.Context) {
	id, err := uuid.Parse(c.GetHeader(HeaderRequestID))
	if err != nil {
		id = uuid.New()
	}
	c.Set(ParamRequestID, id)
	c.Header(HeaderRequestID, id.String())
	c.Request = c.Request.WithContext(client.WithRequestID(c.Request.Context(), id))
	c.Next()
}

func (s *futurePay) handleCancel(c *gin.Context) {
	req := CancelAgreementRequest{FuturePayID: c.Param(ParamFuturePayID)}
	res, err := s.CancelAgreement(c.Request.Context(), req)
	s.respond(c, res, err)
}

func (s *futurePay) handleStartDate(c *gin.Context) {
	var req ModifyStartDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	req.FuturePayID = c.Param(ParamFuturePayID)
	res, err := s.ModifyStartDate(c.Request.Context(), req)
	s.respond(c, res, err)
}

func (s *futurePay) handleChangeAmount(c *gin.Context) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	req.FuturePayID = c.Param(ParamFuturePayID)
	res, err := s.ChangeAmount(c.Request.Context(), req)
	s.respond(c, res, err)
}

func (s *futurePay) handleDebit(c *gin.Context) {
	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.fail(c, http.StatusBadRequest, err)
		return
	}
	req.FuturePayID = c.Param(ParamFuturePayID)
	res, err := s.Debit(c.Request.Context(), req)
	s.respond(c, res, err)
}

func (s *futurePay) handleCalls(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultCallsLimit)))
	if err != nil || limit <= 0 {
		s.fail(c, http.StatusBadRequest, errors.Wrap(ErrInvalidRequest, "limit must be a positive number"))
		return
	}
	calls, err := s.client.AgreementCalls(c.Request.Context(), c.Param(ParamFuturePayID), int32(limit))
	if err != nil {
		s.fail(c, lookupStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, calls)
}

func (s *futurePay) handleExchange(c *gin.Context) {
	requestId, err := uuid.Parse(c.Param(ParamRequestID))
	if err != nil {
		s.fail(c, http.StatusBadRequest, errors.Wrap(ErrInvalidRequest, "requestId must be a uuid"))
		return
	}
	day, err := time.Parse(client.DateLayout, c.Query("date"))
	if err != nil {
		s.fail(c, http.StatusBadRequest, errors.Wrap(ErrInvalidRequest, "date must be YYYY-MM-DD"))
		return
	}
	exchange, err := s.client.LoadExchange(c.Request.Context(), requestId, day)
	if err != nil {
		s.fail(c, lookupStatus(err), err)
		return
	}
	c.JSON(http.StatusOK, exchange)
}

func (s *futurePay) respond(c *gin.Context, res AgreementResponse, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		s.fail(c, http.StatusBadRequest, err)
	case errors.Is(err, ErrConnection):
		c.JSON(http.StatusBadGateway, res)
	case err != nil:
		s.fail(c, http.StatusInternalServerError, err)
	case !res.Success:
		c.JSON(http.StatusUnprocessableEntity, res)
	default:
		c.JSON(http.StatusOK, res)
	}
}

func (s *futurePay) fail(c *gin.Context, status int, err error) {
	out := ErrorResponse{Error: err.Error()}
	if id, ok := c.Get(ParamRequestID); ok {
		out.RequestID, _ = id.(uuid.UUID)
	}
	if status >= http.StatusInternalServerError {
		s.log.WithError(err).WithField("requestId", out.RequestID).Error("futurepay request failed")
	}
	c.AbortWithStatusJSON(status, out)
}

func lookupStatus(err error) int {
	if errors.Is(err, client.ErrNotConfigured) {
		return http.StatusNotImplemented
	}
	return http.StatusInternalServerError
}
