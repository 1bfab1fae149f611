package context_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libctx "github.com/nabbar/foundation/context"
)

var _ = Describe("WithSpan", func() {
	It("installs a trace frame for the dynamic scope and clears it on exit", func() {
		c := libctx.New[string](nil)

		var traceID, spanID string
		libctx.WithSpan(c, 1.0, func() {
			traceID, spanID = libctx.ActiveTrace(c)
		})

		Expect(traceID).To(HaveLen(32))
		Expect(spanID).To(HaveLen(16))

		after, _ := libctx.ActiveTrace(c)
		Expect(after).To(BeEmpty())
	})

	It("keeps the trace id across nested spans and restores the parent span id", func() {
		c := libctx.New[string](nil)

		libctx.WithSpan(c, 1.0, func() {
			outerTrace, outerSpan := libctx.ActiveTrace(c)

			libctx.WithSpan(c, 1.0, func() {
				innerTrace, innerSpan := libctx.ActiveTrace(c)
				Expect(innerTrace).To(Equal(outerTrace))
				Expect(innerSpan).NotTo(Equal(outerSpan))
			})

			restoredTrace, restoredSpan := libctx.ActiveTrace(c)
			Expect(restoredTrace).To(Equal(outerTrace))
			Expect(restoredSpan).To(Equal(outerSpan))
		})
	})

	It("restores the previous frame even when fn panics", func() {
		c := libctx.New[string](nil)

		Expect(func() {
			libctx.WithSpan(c, 1.0, func() { panic("boom") })
		}).To(PanicWith("boom"))

		traceID, _ := libctx.ActiveTrace(c)
		Expect(traceID).To(BeEmpty())
	})

	It("runs fn with no frame installed when the root draw is not sampled", func() {
		c := libctx.New[string](nil)

		libctx.WithSpan(c, 0.0, func() {
			traceID, spanID := libctx.ActiveTrace(c)
			Expect(traceID).To(BeEmpty())
			Expect(spanID).To(BeEmpty())
		})
	})
})
