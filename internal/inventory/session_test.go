package inventory

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/receiptflow/receipt-flow/internal/extraction"
)

var _ = Describe("Session", func() {
	var (
		extractor *mockExtractor
		looker    *mockLooker
		session   *Session
	)

	BeforeEach(func() {
		extractor = &mockExtractor{receipt: &extraction.Receipt{
			Items: []extraction.Item{
				{Name: "Milk", PricePaid: "$4.00", PredictedExpiry: "2024-05-11"},
				{Name: "Bread", PricePaid: "$2.50", PredictedExpiry: "2024-05-06"},
			},
			Total: "$6.50",
		}}
		looker = newMockLooker()
		service := NewServiceWithDeps(extractor, looker, &mockIDGenerator{id: "batch-1"}, &mockTimeSource{now: time.Now()})
		session = NewSession(service)
	})

	Describe("ProcessReceipt", func() {
		var view View

		JustBeforeEach(func() {
			view = session.ProcessReceipt([]byte("image"), "image/jpeg")
		})

		It("should return one row per inventory item in column order", func() {
			Expect(view.Rows).To(Equal([]Row{
				{Item: "Milk", PricePaid: "$4.00", PredictedExpiry: "2024-05-11"},
				{Item: "Bread", PricePaid: "$2.50", PredictedExpiry: "2024-05-06"},
			}))
		})

		It("should return the receipt total", func() {
			Expect(view.Total).To(Equal("$6.50"))
		})

		It("should render a comparison summary", func() {
			Expect(view.SummaryHTML).To(ContainSubstring("Latest Receipt"))
		})

		It("should offer an export", func() {
			Expect(view.ExportAvailable).To(BeTrue())
		})

		When("processing fails", func() {
			BeforeEach(func() {
				extractor.receipt = &extraction.Receipt{Total: "Error: bad json"}
			})

			It("should surface the error as the total", func() {
				Expect(view.Total).To(Equal("Error: bad json"))
			})

			It("should not render a summary", func() {
				Expect(view.SummaryHTML).To(BeEmpty())
			})

			It("should not offer an export", func() {
				Expect(view.ExportAvailable).To(BeFalse())
			})
		})
	})

	Describe("ClearInventory", func() {
		var view View

		JustBeforeEach(func() {
			session.ProcessReceipt([]byte("image"), "image/jpeg")
			view = session.ClearInventory()
		})

		It("should empty the table", func() {
			Expect(view.Rows).To(BeEmpty())
		})

		It("should display Cleared", func() {
			Expect(view.Total).To(Equal("Cleared"))
		})

		It("should clear the summary", func() {
			Expect(view.SummaryHTML).To(BeEmpty())
		})

		It("should withdraw the export", func() {
			Expect(view.ExportAvailable).To(BeFalse())
			Expect(session.Export()).To(BeNil())
		})
	})

	Describe("PrepareForNext", func() {
		var (
			processed View
			view      View
		)

		JustBeforeEach(func() {
			processed = session.ProcessReceipt([]byte("image"), "image/jpeg")
			view = session.PrepareForNext()
		})

		It("should reproduce the same table rows", func() {
			Expect(view.Rows).To(Equal(processed.Rows))
		})

		It("should clear the total and comparison", func() {
			Expect(view.Total).To(BeEmpty())
			Expect(view.SummaryHTML).To(BeEmpty())
		})

		It("should not invoke the aggregator again", func() {
			Expect(looker.calls).To(HaveLen(2))
		})

		It("should keep the inventory intact", func() {
			Expect(session.Rows()).To(Equal(processed.Rows))
		})
	})
})

var _ = Describe("ExportCSV", func() {
	When("the inventory is empty", func() {
		It("should return nil", func() {
			Expect(ExportCSV(nil)).To(BeNil())
		})
	})

	When("the inventory has items", func() {
		var data []byte

		BeforeEach(func() {
			data = ExportCSV([]Item{
				{Name: "Milk", PricePaid: "$4.00", PredictedExpiry: "2024-05-11"},
				{Name: "Salad, bagged", PricePaid: "$3.00", PredictedExpiry: "2024-05-04"},
			})
		})

		It("should start with the fixed header", func() {
			Expect(string(data)).To(HavePrefix("Item,Price Paid,Predicted Expiry Date\n"))
		})

		It("should write one row per item", func() {
			Expect(string(data)).To(ContainSubstring("Milk,$4.00,2024-05-11\n"))
		})

		It("should quote fields containing commas", func() {
			Expect(string(data)).To(ContainSubstring(`"Salad, bagged",$3.00,2024-05-04`))
		})
	})
})
