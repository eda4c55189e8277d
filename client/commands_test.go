package client_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/shopspring/decimal"

	"github.com/kod2ulz/worldpay-iadmin/client"
)

var _ = Describe("Commands", func() {

	DescribeTable("form fields",
		func(cmd client.Command, selector string, fields map[string]string) {
			form, err := cmd.GenerateForm()
			Expect(err).To(BeNil())
			Expect(cmd.Operation().Selector()).To(Equal(selector))
			Expect(cmd.AgreementID()).To(Equal("98765"))
			Expect(form).To(HaveLen(len(fields) + 1))
			Expect(form).To(HaveKeyWithValue(selector, []string{""}))
			for k, v := range fields {
				Expect(form.Get(k)).To(Equal(v), k)
			}
		},
		Entry("cancel", client.NewCancelAgreement("98765"), "op-cancelFP",
			map[string]string{"futurePayId": "98765"}),
		Entry("modify start date", client.NewModifyStartDate("98765", time.Date(2025, time.December, 31, 23, 59, 0, 0, time.UTC)), "op-startDateRFP",
			map[string]string{"futurePayId": "98765", "startDate": "2025-12-31"}),
		Entry("change amount", client.NewChangeAmount("98765", decimal.RequireFromString("12.50")), "op-adjustRFP",
			map[string]string{"futurePayId": "98765", "amount": "12.5"}),
		Entry("debit", client.NewDebit("98765", decimal.NewFromFloat(0.99)), "op-paymentLFP",
			map[string]string{"futurePayId": "98765", "amount": "0.99"}),
	)

	It("classifies only the leading token", func() {
		Expect(client.IsSuccess("Y,")).To(BeTrue())
		Expect(client.IsSuccess("Y,transId,A,rawAuthMessage,Payment successful")).To(BeTrue())
		Expect(client.IsSuccess("E,Y,")).To(BeFalse())
		Expect(client.IsSuccess(" Y,")).To(BeFalse())
	})
})
