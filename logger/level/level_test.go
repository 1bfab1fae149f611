package level_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/foundation/logger/level"
)

func TestLevel(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "level suite")
}

var _ = Describe("Level", func() {
	It("orders TRACE < DEBUG < INFO < WARN < ERROR < CRITICAL", func() {
		Expect(level.TRACE).To(BeNumerically("<", level.DEBUG))
		Expect(level.DEBUG).To(BeNumerically("<", level.INFO))
		Expect(level.INFO).To(BeNumerically("<", level.WARN))
		Expect(level.WARN).To(BeNumerically("<", level.ERROR))
		Expect(level.ERROR).To(BeNumerically("<", level.CRITICAL))
	})

	It("keeps the documented numeric values stable", func() {
		Expect(level.TRACE).To(Equal(level.Level(5)))
		Expect(level.DEBUG).To(Equal(level.Level(10)))
		Expect(level.INFO).To(Equal(level.Level(20)))
		Expect(level.WARN).To(Equal(level.Level(30)))
		Expect(level.ERROR).To(Equal(level.Level(40)))
		Expect(level.CRITICAL).To(Equal(level.Level(50)))
	})

	DescribeTable("parses case-insensitively",
		func(in string, want level.Level) {
			got, ok := level.Parse(in)
			Expect(ok).To(BeTrue())
			Expect(got).To(Equal(want))
		},
		Entry("lower", "info", level.INFO),
		Entry("upper", "CRITICAL", level.CRITICAL),
		Entry("mixed warn", "Warn", level.WARN),
		Entry("warning alias", "warning", level.WARN),
	)

	It("fails loudly on unknown input rather than defaulting", func() {
		_, ok := level.Parse("bogus")
		Expect(ok).To(BeFalse())
	})

	It("reports Enabled relative to a threshold", func() {
		Expect(level.ERROR.Enabled(level.INFO)).To(BeTrue())
		Expect(level.DEBUG.Enabled(level.INFO)).To(BeFalse())
	})
})
