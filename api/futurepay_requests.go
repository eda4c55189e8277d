package api

import (
	"strings"
	"time"

	"github.com/kod2ulz/worldpay-iadmin/client"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrConnection     = errors.New("iadmin connection error")
)

type CancelAgreementRequest struct {
	FuturePayID string `json:"futurePayId"`
}

func (r CancelAgreementRequest) Validate() error {
	return validateAgreement(r.FuturePayID)
}

type ModifyStartDateRequest struct {
	FuturePayID string `json:"futurePayId"`
	StartDate   string `json:"startDate" binding:"required"`
}

func (r ModifyStartDateRequest) Command() (out *client.ModifyStartDate, err error) {
	var startDate time.Time
	if err = validateAgreement(r.FuturePayID); err != nil {
		return
	} else if startDate, err = time.Parse(client.DateLayout, r.StartDate); err != nil {
		return nil, errors.Wrapf(ErrInvalidRequest, "startDate %q is not YYYY-MM-DD", r.StartDate)
	}
	return client.NewModifyStartDate(r.FuturePayID, startDate), nil
}

type AmountRequest struct {
	FuturePayID string          `json:"futurePayId"`
	Amount      decimal.Decimal `json:"amount"`
}

func (r AmountRequest) Validate() (err error) {
	if err = validateAgreement(r.FuturePayID); err != nil {
		return
	} else if !r.Amount.IsPositive() {
		return errors.Wrapf(ErrInvalidRequest, "amount %s must be positive", r.Amount)
	}
	return
}

func validateAgreement(futurePayId string) error {
	if strings.TrimSpace(futurePayId) == "" {
		return errors.Wrap(ErrInvalidRequest, "futurePayId is required")
	}
	return nil
}
