package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/kod2ulz/worldpay-iadmin/api"
	"github.com/kod2ulz/worldpay-iadmin/client"
)

var _ = Describe("FuturePay Api", func() {

	var mu sync.Mutex
	var reply string
	var form url.Values
	var iadminServer *httptest.Server
	var iadmin *client.Iadmin
	var router *gin.Engine

	setReply := func(body string) {
		mu.Lock()
		defer mu.Unlock()
		reply = body
	}

	sentForm := func() url.Values {
		mu.Lock()
		defer mu.Unlock()
		return form
	}

	perform := func(method, path, body string, headers ...string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		for i := 0; i+1 < len(headers); i += 2 {
			req.Header.Set(headers[i], headers[i+1])
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	decode := func(w *httptest.ResponseRecorder) (out api.AgreementResponse) {
		Expect(json.Unmarshal(w.Body.Bytes(), &out)).To(Succeed())
		return
	}

	BeforeEach(func() {
		setReply("Y,OK")
		mu.Lock()
		form = nil
		mu.Unlock()
		iadminServer = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.ParseForm()
			mu.Lock()
			defer mu.Unlock()
			form = r.PostForm
			w.Write([]byte(reply))
		}))
		iadmin = client.NewIadmin("123434", "password", true)
		iadmin.SetTestUrl(iadminServer.URL)

		futurePay, err := api.FuturePay(context.Background(), client.DefaultLogger(), api.WithIadminClient(iadmin))
		Expect(err).To(BeNil())
		router = gin.New()
		futurePay.Routes(router)
	})

	AfterEach(func() {
		iadminServer.Close()
	})

	It("requires a client", func() {
		_, err := api.FuturePay(context.Background(), client.DefaultLogger())
		Expect(err).NotTo(BeNil())
	})

	It("builds its own client from config", func() {
		futurePay, err := api.FuturePay(context.Background(), client.DefaultLogger(),
			api.WithIadminClientConfig(&client.IadminConfig{
				InstallationID: "123434",
				Password:       "password",
				TestMode:       true,
				ProductionUrl:  client.DefaultProductionUrl,
				TestUrl:        iadminServer.URL,
			}))
		Expect(err).To(BeNil())
		setReply("Y,Amount updated")
		res, err := futurePay.ChangeAmount(context.Background(), api.AmountRequest{
			FuturePayID: "232323", Amount: decimal.RequireFromString("9.99"),
		})
		Expect(err).To(BeNil())
		Expect(res.Success).To(BeTrue())
		Expect(sentForm().Get("testMode")).To(Equal("100"))
	})

	Context("Service", func() {

		It("returns the iadmin reply with the outcome", func() {
			futurePay, _ := api.FuturePay(context.Background(), client.DefaultLogger(), api.WithIadminClient(iadmin))
			setReply("Y,transId,A,rawAuthMessage,Payment successful")
			res, err := futurePay.Debit(context.Background(), api.AmountRequest{
				FuturePayID: "232323", Amount: decimal.RequireFromString("9.99"),
			})
			Expect(err).To(BeNil())
			Expect(res.Success).To(BeTrue())
			Expect(res.Operation).To(Equal(client.OperationDebit))
			Expect(res.Response).To(Equal("Y,transId,A,rawAuthMessage,Payment successful"))
		})

		It("rejects a missing agreement id before calling iadmin", func() {
			futurePay, _ := api.FuturePay(context.Background(), client.DefaultLogger(), api.WithIadminClient(iadmin))
			_, err := futurePay.CancelAgreement(context.Background(), api.CancelAgreementRequest{FuturePayID: " "})
			Expect(err).To(MatchError(api.ErrInvalidRequest))
			Expect(sentForm()).To(BeNil())
		})
	})

	Context("Routes", func() {

		It("cancels an agreement", func() {
			setReply("Y,Agreement cancelled")
			w := perform(http.MethodPost, "/futurepay/232323/cancel", "")
			Expect(w.Code).To(Equal(http.StatusOK))
			res := decode(w)
			Expect(res.Success).To(BeTrue())
			Expect(res.FuturePayID).To(Equal("232323"))
			Expect(res.TestMode).To(BeTrue())
			Expect(sentForm()).To(HaveKey("op-cancelFP"))
		})

		It("maps a remote rejection to unprocessable entity", func() {
			setReply("E,Problem cancelling agreement")
			w := perform(http.MethodPost, "/futurepay/232323/cancel", "")
			Expect(w.Code).To(Equal(http.StatusUnprocessableEntity))
			Expect(decode(w).Response).To(Equal("E,Problem cancelling agreement"))
		})

		It("modifies the start date", func() {
			w := perform(http.MethodPost, "/futurepay/232323/start-date", `{"startDate":"2024-03-07"}`)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(sentForm().Get("startDate")).To(Equal("2024-03-07"))
		})

		It("rejects a malformed start date", func() {
			w := perform(http.MethodPost, "/futurepay/232323/start-date", `{"startDate":"07/03/2024"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(sentForm()).To(BeNil())
		})

		It("changes the amount", func() {
			setReply("Y,Amount updated")
			w := perform(http.MethodPost, "/futurepay/232323/amount", `{"amount":"9.99"}`)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(sentForm().Get("amount")).To(Equal("9.99"))
			Expect(sentForm()).To(HaveKey("op-adjustRFP"))
		})

		It("debits the agreement", func() {
			w := perform(http.MethodPost, "/futurepay/232323/debit", `{"amount":9.99}`)
			Expect(w.Code).To(Equal(http.StatusOK))
			Expect(sentForm()).To(HaveKey("op-paymentLFP"))
		})

		It("rejects a non positive amount", func() {
			w := perform(http.MethodPost, "/futurepay/232323/debit", `{"amount":"0"}`)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(sentForm()).To(BeNil())
		})

		It("maps a connection error to bad gateway", func() {
			iadminServer.Close()
			w := perform(http.MethodPost, "/futurepay/232323/cancel", "")
			Expect(w.Code).To(Equal(http.StatusBadGateway))
			Expect(decode(w).Response).To(Equal(client.ConnectionError))
		})

		It("echoes the caller's request id", func() {
			requestId := uuid.New()
			w := perform(http.MethodPost, "/futurepay/232323/cancel", "", api.HeaderRequestID, requestId.String())
			Expect(w.Header().Get(api.HeaderRequestID)).To(Equal(requestId.String()))
			Expect(decode(w).RequestID).To(Equal(requestId))
		})

		It("reports audit lookups as not implemented without a store", func() {
			Expect(perform(http.MethodGet, "/futurepay/232323/calls", "").Code).To(Equal(http.StatusNotImplemented))
			path := "/exchanges/" + uuid.NewString() + "?date=2024-03-07"
			Expect(perform(http.MethodGet, path, "").Code).To(Equal(http.StatusNotImplemented))
		})

		It("validates audit lookup parameters", func() {
			Expect(perform(http.MethodGet, "/futurepay/232323/calls?limit=-1", "").Code).To(Equal(http.StatusBadRequest))
			Expect(perform(http.MethodGet, "/exchanges/not-a-uuid?date=2024-03-07", "").Code).To(Equal(http.StatusBadRequest))
			Expect(perform(http.MethodGet, "/exchanges/"+uuid.NewString(), "").Code).To(Equal(http.StatusBadRequest))
		})
	})
})
