package eventbus_test

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/foundation/eventbus"
)

func TestEventBus(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "eventbus suite")
}

var _ = Describe("Bus", func() {
	It("calls subscribers in registration order", func() {
		b := eventbus.New()
		var order []int

		b.Subscribe("topic", func(string, any) { order = append(order, 1) })
		b.Subscribe("topic", func(string, any) { order = append(order, 2) })
		b.Subscribe("topic", func(string, any) { order = append(order, 3) })

		b.Emit("topic", nil)

		Expect(order).To(Equal([]int{1, 2, 3}))
	})

	It("delivers the payload unchanged", func() {
		b := eventbus.New()
		var got any

		b.Subscribe("t", func(_ string, payload any) { got = payload })
		b.Emit("t", map[string]string{"dimension": "component", "name": "db"})

		Expect(got).To(Equal(map[string]string{"dimension": "component", "name": "db"}))
	})

	It("never calls a handler subscribed to a different topic", func() {
		b := eventbus.New()
		called := false

		b.Subscribe("other", func(string, any) { called = true })
		b.Emit("topic", nil)

		Expect(called).To(BeFalse())
	})

	It("recovers a panicking handler without affecting later handlers", func() {
		b := eventbus.New()
		secondCalled := false

		b.Subscribe("t", func(string, any) { panic("boom") })
		b.Subscribe("t", func(string, any) { secondCalled = true })

		Expect(func() { b.Emit("t", nil) }).NotTo(Panic())
		Expect(secondCalled).To(BeTrue())
	})

	It("stops calling a handler after it unsubscribes", func() {
		b := eventbus.New()
		count := 0

		unsub := b.Subscribe("t", func(string, any) { count++ })
		b.Emit("t", nil)
		unsub()
		b.Emit("t", nil)

		Expect(count).To(Equal(1))
	})
})
