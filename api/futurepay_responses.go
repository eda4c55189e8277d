package api

import (
	"github.com/google/uuid"
	"github.com/kod2ulz/worldpay-iadmin/client"
)

type AgreementResponse struct {
	RequestID   uuid.UUID        `json:"requestId"`
	Operation   client.Operation `json:"operation"`
	FuturePayID string           `json:"futurePayId"`
	TestMode    bool             `json:"testMode"`
	Success     bool             `json:"success"`
	Response    string           `json:"response"`
}

func responseFromResult(res client.Result) AgreementResponse {
	return AgreementResponse{
		RequestID:   res.RequestID,
		Operation:   res.Operation,
		FuturePayID: res.FuturePayID,
		TestMode:    res.TestMode,
		Success:     res.Ok,
		Response:    res.Response,
	}
}

type ErrorResponse struct {
	RequestID uuid.UUID `json:"requestId,omitempty"`
	Error     string    `json:"error"`
}
