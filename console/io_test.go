package console_test

import (
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nabbar/foundation/console"
)

func TestConsole(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "console suite")
}

var _ = Describe("JSONMode", func() {
	It("is off by default", func() {
		_ = os.Unsetenv(console.JSONModeEnv)
		Expect(console.JSONMode()).To(BeFalse())
	})

	It("is on when the flag is set to a truthy value", func() {
		_ = os.Setenv(console.JSONModeEnv, "1")
		defer os.Unsetenv(console.JSONModeEnv)
		Expect(console.JSONMode()).To(BeTrue())
	})

	It("is off when the flag is explicitly false", func() {
		_ = os.Setenv(console.JSONModeEnv, "false")
		defer os.Unsetenv(console.JSONModeEnv)
		Expect(console.JSONMode()).To(BeFalse())
	})
})

var _ = Describe("Color registry", func() {
	It("returns an uncolored default for an unset ColorType", func() {
		console.DelColor(console.ColorStdout)
		c := console.GetColor(console.ColorStdout)
		Expect(c).NotTo(BeNil())
	})
})
