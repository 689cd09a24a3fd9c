package inventory

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ParsePrice", func() {
	DescribeTable("recovers the numeric value from price strings",
		func(input string, expected float64) {
			value, ok := ParsePrice(input)
			Expect(ok).To(BeTrue())
			Expect(value).To(Equal(expected))
		},
		Entry("plain dollar amount", "$3.99", 3.99),
		Entry("no currency symbol", "4.50", 4.50),
		Entry("integer amount", "$12", 12.0),
		Entry("thousands separator", "$1,234.56", 1234.56),
		Entry("surrounding whitespace", "  $2.00  ", 2.0),
	)

	DescribeTable("reports false for non-numeric input",
		func(input string) {
			_, ok := ParsePrice(input)
			Expect(ok).To(BeFalse())
		},
		Entry("empty string", ""),
		Entry("placeholder", "N/A"),
		Entry("words", "two dollars"),
		Entry("lone symbol", "$"),
		Entry("scientific notation", "1e3"),
		Entry("infinity", "Inf"),
		Entry("trailing junk", "$3.99 approx"),
	)
})
