package context_test

import (
	"context"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	libctx "github.com/nabbar/foundation/context"
)

func TestContext(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "context suite")
}

var _ = Describe("Config", func() {
	It("stores and loads values", func() {
		c := libctx.New[string](nil)
		c.Store("a", 1)
		v, ok := c.Load("a")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(1))
	})

	It("clones without sharing storage", func() {
		c := libctx.New[string](nil)
		c.Store("a", 1)

		clone := c.Clone(nil)
		clone.Store("a", 2)

		v, _ := c.Load("a")
		Expect(v).To(Equal(1))
	})

	It("merges another config's entries", func() {
		a := libctx.New[string](nil)
		b := libctx.New[string](nil)
		b.Store("x", "y")

		Expect(a.Merge(b)).To(BeTrue())

		v, ok := a.Load("x")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal("y"))
	})

	It("cleans storage once the underlying context is cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		c := libctx.New[string](ctx)
		c.Store("a", 1)
		cancel()

		c.Store("b", 2)
		_, ok := c.Load("b")
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("WithContext", func() {
	It("restores the previous field map on normal exit", func() {
		c := libctx.New[string](nil)
		libctx.WithContext(c, map[string]any{"outer": 1}, func() {
			Expect(libctx.ActiveFields(c)).To(HaveKeyWithValue("outer", 1))

			libctx.WithContext(c, map[string]any{"inner": 2}, func() {
				f := libctx.ActiveFields(c)
				Expect(f).To(HaveKeyWithValue("outer", 1))
				Expect(f).To(HaveKeyWithValue("inner", 2))
			})

			Expect(libctx.ActiveFields(c)).NotTo(HaveKey("inner"))
		})

		Expect(libctx.ActiveFields(c)).To(BeNil())
	})

	It("restores the previous field map even when fn panics", func() {
		c := libctx.New[string](nil)

		func() {
			defer func() { _ = recover() }()
			libctx.WithContext(c, map[string]any{"a": 1}, func() {
				panic("boom")
			})
		}()

		Expect(libctx.ActiveFields(c)).To(BeNil())
	})
})
