package gain_test

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/coralstore/diskctl/gain"
)

var _ = Describe("Model", func() {
	var m *gain.Model

	BeforeEach(func() {
		m = gain.NewModel(2, 3, 105)
	})

	It("starts at zero gain with no requests", func() {
		Expect(m.Gain(1, 1)).To(BeZero())
	})

	It("increases gain when a request is added", func() {
		m.AddRequest(1, 2, 7, 4)
		Expect(m.Gain(1, 2)).To(BeNumerically(">", 0))
	})

	It("is idempotent for the same request id in one bucket", func() {
		m.AddRequest(1, 2, 7, 4)
		g1 := m.Gain(1, 2)
		m.AddRequest(1, 2, 7, 4)
		Expect(m.Gain(1, 2)).To(Equal(g1))
	})

	It("decays weight as buckets age across Advance calls", func() {
		m.AddRequest(1, 1, 1, 10)
		fresh := m.Gain(1, 1)
		for t := 1; t <= 5; t++ {
			m.Advance(t)
		}
		aged := m.Gain(1, 1)
		Expect(aged).To(BeNumerically("<", fresh))
	})

	It("removes a request's contribution via RemoveRequest", func() {
		m.AddRequest(1, 1, 5, 10)
		m.RemoveRequest(1, 1, 5, 0, 10)
		Expect(m.Gain(1, 1)).To(BeZero())
	})

	It("tolerates removing a request that was never added", func() {
		Expect(func() { m.RemoveRequest(1, 1, 999, 0, 10) }).NotTo(Panic())
	})

	It("prunes buckets older than the horizon", func() {
		m.AddRequest(2, 1, 1, 1)
		m.Advance(200)
		Expect(m.Gain(2, 1)).To(BeZero())
	})

	It("dampens a slice's gain until the next Advance", func() {
		m.AddRequest(1, 3, 1, 10)
		Expect(m.Gain(1, 3)).To(BeNumerically(">", 0))
		m.Dampen(1, 3)
		Expect(m.Gain(1, 3)).To(BeZero())
		m.Advance(1)
		Expect(m.Gain(1, 3)).To(BeNumerically(">", 0))
	})

	It("keeps disks and slices independent", func() {
		m.AddRequest(1, 1, 1, 10)
		Expect(m.Gain(1, 2)).To(BeZero())
		Expect(m.Gain(2, 1)).To(BeZero())
	})
})
