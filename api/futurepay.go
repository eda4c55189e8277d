package api

import (
	"context"

	"github.com/kod2ulz/gostart/logr"
	"github.com/kod2ulz/worldpay-iadmin/client"
	"github.com/pkg/errors"
)

type FuturePayApi interface {
	CancelAgreement(context.Context, CancelAgreementRequest) (AgreementResponse, error)
	ModifyStartDate(context.Context, ModifyStartDateRequest) (AgreementResponse, error)
	ChangeAmount(context.Context, AmountRequest) (AgreementResponse, error)
	Debit(context.Context, AmountRequest) (AgreementResponse, error)
}

type FuturePayApiOption func(*futurePay)

func WithIadminClientConfig(conf *client.IadminConfig) FuturePayApiOption {
	return func(p *futurePay) {
		var err error
		if p.client, err = client.IadminClient(p.ctx, p.log, client.WithIadminConfig(conf)); err != nil {
			p.log.WithError(err).Fatal("failed to initialise iadmin client using config")
		}
	}
}

func WithIadminClient(client *client.Iadmin) FuturePayApiOption {
	return func(p *futurePay) {
		p.client = client
	}
}

var _ FuturePayApi = (*futurePay)(nil)

type futurePay struct {
	client *client.Iadmin
	ctx    context.Context
	log    *logr.Logger
}

func FuturePay(ctx context.Context, log *logr.Logger, opts ...FuturePayApiOption) (out *futurePay, err error) {
	out = &futurePay{log: log, ctx: ctx}
	for i := range opts {
		opts[i](out)
	}
	if out.client == nil {
		return nil, errors.Errorf("iadmin client not initialised")
	}
	return
}

func (s *futurePay) CancelAgreement(ctx context.Context, req CancelAgreementRequest) (out AgreementResponse, err error) {
	if err = req.Validate(); err != nil {
		return
	}
	return s.execute(ctx, client.NewCancelAgreement(req.FuturePayID))
}

func (s *futurePay) ModifyStartDate(ctx context.Context, req ModifyStartDateRequest) (out AgreementResponse, err error) {
	var cmd *client.ModifyStartDate
	if cmd, err = req.Command(); err != nil {
		return
	}
	return s.execute(ctx, cmd)
}

func (s *futurePay) ChangeAmount(ctx context.Context, req AmountRequest) (out AgreementResponse, err error) {
	if err = req.Validate(); err != nil {
		return
	}
	return s.execute(ctx, client.NewChangeAmount(req.FuturePayID, req.Amount))
}

func (s *futurePay) Debit(ctx context.Context, req AmountRequest) (out AgreementResponse, err error) {
	if err = req.Validate(); err != nil {
		return
	}
	return s.execute(ctx, client.NewDebit(req.FuturePayID, req.Amount))
}

func (s *futurePay) execute(ctx context.Context, cmd client.Command) (out AgreementResponse, err error) {
	res := s.client.Execute(ctx, cmd)
	out = responseFromResult(res)
	if res.Outcome() == client.OutcomeConnectionError {
		err = errors.Wrapf(ErrConnection, "%s %s", res.Operation, res.FuturePayID)
	}
	return
}
