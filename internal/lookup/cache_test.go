package lookup

import (
	"context"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

// countingLooker records how many lookups reached it
type countingLooker struct {
	calls  int
	result Result
}

func (c *countingLooker) LookupPrice(ctx context.Context, itemName string) Result {
	c.calls++
	return c.result
}

var _ = Describe("BoltCache", func() {
	var (
		next  *countingLooker
		cache *BoltCache
	)

	BeforeEach(func() {
		price := 3.49
		next = &countingLooker{
			result: Result{Status: StatusFound, Price: &price, Details: "$3.49 at Walmart", URL: "https://walmart.com/milk"},
		}

		var err error
		cache, err = NewBoltCache(filepath.Join(GinkgoT().TempDir(), "prices.db"), next)
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		if cache != nil {
			cache.Close()
		}
	})

	When("an item is looked up twice", func() {
		var first, second Result

		JustBeforeEach(func() {
			first = cache.LookupPrice(context.Background(), "Milk")
			second = cache.LookupPrice(context.Background(), "Milk")
		})

		It("should only reach the wrapped looker once", func() {
			Expect(next.calls).To(Equal(1))
		})

		It("should return the same result both times", func() {
			Expect(second).To(Equal(first))
		})
	})

	When("item names differ only in case and spacing", func() {
		JustBeforeEach(func() {
			cache.LookupPrice(context.Background(), "Milk")
			cache.LookupPrice(context.Background(), "  milk ")
		})

		It("should treat them as the same item", func() {
			Expect(next.calls).To(Equal(1))
		})
	})

	When("the wrapped looker returns an error result", func() {
		BeforeEach(func() {
			next.result = Result{Status: StatusError, Details: "Error contacting price service"}
		})

		JustBeforeEach(func() {
			cache.LookupPrice(context.Background(), "Milk")
			cache.LookupPrice(context.Background(), "Milk")
		})

		It("should not cache the error", func() {
			Expect(next.calls).To(Equal(2))
		})
	})

	When("a not-found result is cached", func() {
		BeforeEach(func() {
			next.result = Result{Status: StatusNotFound, Details: "Not Found via Online Retailers"}
		})

		JustBeforeEach(func() {
			cache.LookupPrice(context.Background(), "Obscure Item")
			cache.LookupPrice(context.Background(), "Obscure Item")
		})

		It("should serve the second lookup from the cache", func() {
			Expect(next.calls).To(Equal(1))
		})
	})
})
