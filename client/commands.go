package client

import (
	"net/url"
	"time"

	"github.com/google/go-querystring/query"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const (
	DateLayout = "2006-01-02"

	FieldInstallationID = "instId"
	FieldPassword       = "authPW"
	FieldTestMode       = "testMode"
	FieldFuturePayID    = "futurePayId"
	FieldStartDate      = "startDate"
	FieldAmount         = "amount"

	TestModeMarker = "100"
)

type Operation string

const (
	OperationCancel          Operation = "cancel"
	OperationModifyStartDate Operation = "modify_start_date"
	OperationChangeAmount    Operation = "change_amount"
	OperationDebit           Operation = "debit"
)

// Selector is the form field that tells iadmin which operation to run. It is
// always sent with an empty value.
func (o Operation) Selector() string {
	switch o {
	case OperationCancel:
		return "op-cancelFP"
	case OperationModifyStartDate:
		return "op-startDateRFP"
	case OperationChangeAmount:
		return "op-adjustRFP"
	case OperationDebit:
		return "op-paymentLFP"
	}
	return ""
}

// Command is a single iadmin operation against one FuturePay agreement.
type Command interface {
	Operation() Operation
	AgreementID() string
	GenerateForm() (url.Values, error)
}

// Date is a calendar date sent as YYYY-MM-DD in its own location.
type Date time.Time

func (d Date) EncodeValues(key string, v *url.Values) error {
	v.Set(key, time.Time(d).Format(DateLayout))
	return nil
}

type Amount struct {
	decimal.Decimal
}

func (a Amount) EncodeValues(key string, v *url.Values) error {
	v.Set(key, a.String())
	return nil
}

type credentialParams struct {
	InstallationID string `url:"instId"`
	Password       string `url:"authPW"`
	TestMode       string `url:"testMode,omitempty"`
}

type agreementParams struct {
	FuturePayID string `url:"futurePayId"`
}

func (p agreementParams) AgreementID() string {
	return p.FuturePayID
}

type CancelAgreement struct {
	agreementParams
}

func NewCancelAgreement(futurePayId string) *CancelAgreement {
	return &CancelAgreement{agreementParams{FuturePayID: futurePayId}}
}

func (CancelAgreement) Operation() Operation { return OperationCancel }

func (c *CancelAgreement) GenerateForm() (url.Values, error) {
	return commandForm(c, c.Operation())
}

type ModifyStartDate struct {
	agreementParams
	StartDate Date `url:"startDate"`
}

func NewModifyStartDate(futurePayId string, startDate time.Time) *ModifyStartDate {
	return &ModifyStartDate{agreementParams{FuturePayID: futurePayId}, Date(startDate)}
}

func (ModifyStartDate) Operation() Operation { return OperationModifyStartDate }

func (c *ModifyStartDate) GenerateForm() (url.Values, error) {
	return commandForm(c, c.Operation())
}

type ChangeAmount struct {
	agreementParams
	Amount Amount `url:"amount"`
}

func NewChangeAmount(futurePayId string, amount decimal.Decimal) *ChangeAmount {
	return &ChangeAmount{agreementParams{FuturePayID: futurePayId}, Amount{amount}}
}

func (ChangeAmount) Operation() Operation { return OperationChangeAmount }

func (c *ChangeAmount) GenerateForm() (url.Values, error) {
	return commandForm(c, c.Operation())
}

type Debit struct {
	agreementParams
	Amount Amount `url:"amount"`
}

func NewDebit(futurePayId string, amount decimal.Decimal) *Debit {
	return &Debit{agreementParams{FuturePayID: futurePayId}, Amount{amount}}
}

func (Debit) Operation() Operation { return OperationDebit }

func (c *Debit) GenerateForm() (url.Values, error) {
	return commandForm(c, c.Operation())
}

func commandForm(params any, op Operation) (out url.Values, err error) {
	if out, err = query.Values(params); err != nil {
		return nil, errors.Wrapf(err, "failed to encode %s command", op)
	}
	out.Set(op.Selector(), "")
	return
}

// buildForm merges the credentials into the command's own fields.
func buildForm(installationId, password string, testMode bool, cmd Command) (out url.Values, err error) {
	creds := credentialParams{InstallationID: installationId, Password: password}
	if testMode {
		creds.TestMode = TestModeMarker
	}
	if out, err = query.Values(creds); err != nil {
		return nil, errors.Wrap(err, "failed to encode credentials")
	}
	var fields url.Values
	if fields, err = cmd.GenerateForm(); err != nil {
		return
	}
	for k, v := range fields {
		out[k] = v
	}
	return
}

// redactForm returns a copy of the form that is safe to log or persist.
func redactForm(form url.Values) url.Values {
	out := make(url.Values, len(form))
	for k, v := range form {
		out[k] = append([]string(nil), v...)
	}
	if out.Has(FieldPassword) {
		out.Set(FieldPassword, "*****")
	}
	return out
}
