package client

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgtype"
	"github.com/kod2ulz/gostart/logr"
	"github.com/kod2ulz/worldpay-iadmin/sql/db"
	dbi "github.com/kod2ulz/worldpay-iadmin/sql/db/iadmin"
	"github.com/pkg/errors"
)

type contextKey string

const RequestIDKey contextKey = "iadmin.requestId"

func WithRequestID(ctx context.Context, requestId uuid.UUID) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestId)
}

// RequestID returns the request id carried by ctx. A new one is generated when
// ctx has none or it cannot be parsed.
func RequestID(ctx context.Context) (out uuid.UUID) {
	var ok bool
	var err error
	if val := ctx.Value(RequestIDKey); val != nil {
		if out, ok = val.(uuid.UUID); ok && out != uuid.Nil {
			return
		} else if out, err = uuid.Parse(fmt.Sprint(val)); err == nil {
			return
		}
	}
	return uuid.New()
}

// Exchange is the archived record of one iadmin call. The password is never
// part of Request.
type Exchange struct {
	RequestID   uuid.UUID  `json:"requestId"`
	Operation   Operation  `json:"operation"`
	FuturePayID string     `json:"futurePayId"`
	Url         string     `json:"url"`
	TestMode    bool       `json:"testMode"`
	Request     url.Values `json:"request"`
	StatusCode  int        `json:"statusCode,omitempty"`
	Response    string     `json:"response"`
	Ok          bool       `json:"ok"`
	Error       string     `json:"error,omitempty"`
	StartedAt   time.Time  `json:"startedAt"`
	CompletedAt time.Time  `json:"completedAt"`
}

func ExchangeKey(folder string, requestId uuid.UUID, startedAt time.Time) string {
	return fmt.Sprintf("%s/%s/%s.json", folder, startedAt.UTC().Format(DateLayout), requestId)
}

type iadminLogger struct {
	*logr.Logger
	ia *Iadmin
}

func (l *iadminLogger) Request(ctx context.Context, res *Result, form url.Values) {
	l.WithField("requestId", res.RequestID).
		WithField("operation", res.Operation).
		WithField("url", res.Url).
		WithField("form", form.Encode()).
		Debug("sending iadmin command")
	if l.ia.db == nil {
		return
	}
	var request pgtype.JSONB
	if err := request.Set(form); err != nil {
		l.WithError(err).WithField("requestId", res.RequestID).Error("failed to encode api request")
		return
	}
	if _, err := l.ia.db.LogApiRequest(ctx, dbi.LogApiRequestParams{
		RequestID:   res.RequestID,
		Operation:   string(res.Operation),
		FuturePayID: res.FuturePayID,
		TestMode:    res.TestMode,
		Url:         res.Url,
		Request:     request,
	}); err != nil {
		l.WithError(err).WithField("requestId", res.RequestID).Error("failed to save api request")
	}
}

func (l *iadminLogger) Response(ctx context.Context, res Result, form url.Values, startedAt time.Time) {
	log := l.WithField("requestId", res.RequestID).
		WithField("operation", res.Operation).
		WithField("futurePayId", res.FuturePayID).
		WithField("status", res.StatusCode)
	if res.Err != nil {
		log.WithError(res.Err).Error("iadmin command failed to complete")
	} else {
		log.WithField("ok", res.Ok).WithField("response", res.Response).Info("iadmin command completed")
	}
	if l.ia.db != nil {
		l.saveResponse(ctx, res)
	}
	if l.ia.archive != nil {
		l.archive(ctx, res, form, startedAt)
	}
}

func (l *iadminLogger) saveResponse(ctx context.Context, res Result) {
	params := dbi.LogApiResponseParams{
		ResponseCode: pgtype.Int4{Int: int32(res.StatusCode), Status: pgtype.Present},
		Response:     pgtype.Text{String: res.Response, Status: pgtype.Present},
		Success:      pgtype.Bool{Bool: res.Ok, Status: pgtype.Present},
		RequestID:    res.RequestID,
	}
	if res.StatusCode == 0 {
		params.ResponseCode.Status = pgtype.Null
	}
	if _, err := l.ia.db.LogApiResponse(ctx, params); db.IsSqlNoRows(err) {
		l.WithField("requestId", res.RequestID).Warn("no api request saved for this response")
	} else if err != nil {
		l.WithError(err).WithField("requestId", res.RequestID).Error("failed to save api response")
	}
}

func (l *iadminLogger) archive(ctx context.Context, res Result, form url.Values, startedAt time.Time) {
	exchange := Exchange{
		RequestID:   res.RequestID,
		Operation:   res.Operation,
		FuturePayID: res.FuturePayID,
		Url:         res.Url,
		TestMode:    res.TestMode,
		Request:     form,
		StatusCode:  res.StatusCode,
		Response:    res.Response,
		Ok:          res.Ok,
		StartedAt:   startedAt,
		CompletedAt: time.Now(),
	}
	if res.Err != nil {
		exchange.Error = res.Err.Error()
	}
	key := ExchangeKey(l.ia.conf.ArchiveFolder, res.RequestID, startedAt)
	if err := l.ia.archive.PutJSON(ctx, l.ia.conf.ArchiveBucket, key, exchange); err != nil {
		l.WithError(errors.Wrap(err, "failed to archive exchange")).WithField("key", key).Error()
	}
}
