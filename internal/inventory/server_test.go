package inventory

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/onsi/gomega/ghttp"

	"github.com/receiptflow/receipt-flow/internal/extraction"
)

var _ = Describe("Server", func() {
	var (
		extractor   *mockExtractor
		session     *Session
		server      *Server
		ghttpServer *ghttp.Server
	)

	// ghttp consumes one appended handler per request, so every helper
	// appends before issuing its request
	doGet := func(path string) *http.Response {
		ghttpServer.AppendHandlers(server.ServeHTTP)
		resp, err := http.Get(ghttpServer.URL() + path)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	doPost := func(path, contentType string, body io.Reader) *http.Response {
		ghttpServer.AppendHandlers(server.ServeHTTP)
		resp, err := http.Post(ghttpServer.URL()+path, contentType, body)
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	uploadReceipt := func(filename string, content []byte) *http.Response {
		var body bytes.Buffer
		writer := multipart.NewWriter(&body)
		part, err := writer.CreateFormFile("file", filename)
		Expect(err).NotTo(HaveOccurred())
		_, err = part.Write(content)
		Expect(err).NotTo(HaveOccurred())
		Expect(writer.Close()).NotTo(HaveOccurred())

		return doPost("/api/receipts", writer.FormDataContentType(), &body)
	}

	BeforeEach(func() {
		extractor = &mockExtractor{receipt: &extraction.Receipt{
			Items: []extraction.Item{{Name: "Milk", PricePaid: "$4.00", PredictedExpiry: "2024-05-11"}},
			Total: "$4.00",
		}}
		service := NewServiceWithDeps(extractor, newMockLooker(), &mockIDGenerator{id: "batch-1"}, &mockTimeSource{now: time.Now()})
		session = NewSession(service)
		server = NewServerWithMux(session, http.NewServeMux())

		ghttpServer = ghttp.NewServer()
	})

	AfterEach(func() {
		if ghttpServer != nil {
			ghttpServer.Close()
		}
	})

	Describe("handleIndex", func() {
		It("should return status OK", func() {
			resp := doGet("/")
			Expect(resp.StatusCode).To(Equal(http.StatusOK))
			resp.Body.Close()
		})

		It("should return HTML containing Receipt Flow", func() {
			resp := doGet("/")
			defer resp.Body.Close()
			body, err := io.ReadAll(resp.Body)
			Expect(err).NotTo(HaveOccurred())
			Expect(string(body)).To(ContainSubstring("Receipt Flow"))
		})
	})

	Describe("handleProcessReceipt", func() {
		When("a receipt is uploaded", func() {
			var view View

			JustBeforeEach(func() {
				resp := uploadReceipt("receipt.jpg", []byte("fake image data"))
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				Expect(json.NewDecoder(resp.Body).Decode(&view)).NotTo(HaveOccurred())
			})

			It("should return the inventory rows", func() {
				Expect(view.Rows).To(HaveLen(1))
				Expect(view.Rows[0].Item).To(Equal("Milk"))
			})

			It("should return the receipt total", func() {
				Expect(view.Total).To(Equal("$4.00"))
			})

			It("should return a comparison summary", func() {
				Expect(view.SummaryHTML).To(ContainSubstring("Latest Receipt"))
			})

			It("should offer an export", func() {
				Expect(view.ExportAvailable).To(BeTrue())
			})
		})

		When("no file is attached", func() {
			It("should return status Bad Request", func() {
				var body bytes.Buffer
				writer := multipart.NewWriter(&body)
				Expect(writer.Close()).NotTo(HaveOccurred())

				resp := doPost("/api/receipts", writer.FormDataContentType(), &body)
				defer resp.Body.Close()
				Expect(resp.StatusCode).To(Equal(http.StatusBadRequest))
			})
		})
	})

	Describe("handleGetInventory", func() {
		When("no receipts have been processed", func() {
			It("should return an empty array", func() {
				resp := doGet("/api/inventory")
				defer resp.Body.Close()

				var rows []Row
				Expect(json.NewDecoder(resp.Body).Decode(&rows)).NotTo(HaveOccurred())
				Expect(rows).To(BeEmpty())
			})
		})

		When("a receipt has been processed", func() {
			JustBeforeEach(func() {
				uploadReceipt("receipt.jpg", []byte("fake image data")).Body.Close()
			})

			It("should return the rows", func() {
				resp := doGet("/api/inventory")
				defer resp.Body.Close()

				var rows []Row
				Expect(json.NewDecoder(resp.Body).Decode(&rows)).NotTo(HaveOccurred())
				Expect(rows).To(HaveLen(1))
			})
		})
	})

	Describe("handleExportInventory", func() {
		When("the inventory is empty", func() {
			It("should return status Not Found", func() {
				resp := doGet("/api/inventory/export")
				Expect(resp.StatusCode).To(Equal(http.StatusNotFound))
				resp.Body.Close()
			})
		})

		When("the inventory has items", func() {
			JustBeforeEach(func() {
				uploadReceipt("receipt.jpg", []byte("fake image data")).Body.Close()
			})

			It("should serve a CSV download", func() {
				resp := doGet("/api/inventory/export")
				defer resp.Body.Close()

				Expect(resp.StatusCode).To(Equal(http.StatusOK))
				Expect(resp.Header.Get("Content-Type")).To(Equal("text/csv"))

				body, err := io.ReadAll(resp.Body)
				Expect(err).NotTo(HaveOccurred())
				Expect(string(body)).To(HavePrefix("Item,Price Paid,Predicted Expiry Date\n"))
				Expect(string(body)).To(ContainSubstring("Milk"))
			})
		})
	})

	Describe("handleClearInventory", func() {
		JustBeforeEach(func() {
			uploadReceipt("receipt.jpg", []byte("fake image data")).Body.Close()
		})

		It("should reset the session", func() {
			resp := doPost("/api/inventory/clear", "application/json", nil)
			defer resp.Body.Close()

			var view View
			Expect(json.NewDecoder(resp.Body).Decode(&view)).NotTo(HaveOccurred())
			Expect(view.Rows).To(BeEmpty())
			Expect(view.Total).To(Equal("Cleared"))
		})
	})

	Describe("handleNextReceipt", func() {
		JustBeforeEach(func() {
			uploadReceipt("receipt.jpg", []byte("fake image data")).Body.Close()
		})

		It("should keep the table but clear the per-receipt displays", func() {
			resp := doPost("/api/inventory/next", "application/json", nil)
			defer resp.Body.Close()

			var view View
			Expect(json.NewDecoder(resp.Body).Decode(&view)).NotTo(HaveOccurred())
			Expect(view.Rows).To(HaveLen(1))
			Expect(view.Total).To(BeEmpty())
			Expect(view.SummaryHTML).To(BeEmpty())
		})
	})
})
