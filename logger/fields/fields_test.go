package fields_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/foundation/logger/fields"
)

func TestFields(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "fields suite")
}

var _ = Describe("Fields", func() {
	It("preserves insertion order across Add", func() {
		f := fields.New().Add("b", 1).Add("a", 2).Add("c", 3)
		Expect(f.Keys()).To(Equal([]string{"b", "a", "c"}))
	})

	It("keeps the original position when a key is re-added", func() {
		f := fields.New().Add("a", 1).Add("b", 2).Add("a", 9)
		Expect(f.Keys()).To(Equal([]string{"a", "b"}))
		v, ok := f.Get("a")
		Expect(ok).To(BeTrue())
		Expect(v).To(Equal(9))
	})

	It("is immutable: Add returns a new Fields, doesn't mutate the receiver", func() {
		base := fields.New().Add("a", 1)
		_ = base.Add("b", 2)
		Expect(base.Keys()).To(Equal([]string{"a"}))
	})

	It("merges another Fields' entries after its own, in the other's order", func() {
		a := fields.New().Add("a", 1)
		b := fields.New().Add("x", 1).Add("y", 2)
		merged := a.Merge(b)
		Expect(merged.Keys()).To(Equal([]string{"a", "x", "y"}))
	})

	It("removes the named keys on Clean", func() {
		f := fields.New().Add("a", 1).Add("b", 2).Add("c", 3)
		cleaned := f.Clean("b")
		Expect(cleaned.Keys()).To(Equal([]string{"a", "c"}))
	})
})
