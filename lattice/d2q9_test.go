package lattice

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("D2Q9", func() {
	var d Descriptor

	BeforeEach(func() {
		d = D2Q9()
	})

	It("should have weights summing to one", func() {
		sum := 0.0
		for k := 0; k < Q; k++ {
			Expect(d.W[k]).To(BeNumerically(">", 0))
			sum += d.W[k]
		}

		Expect(sum).To(BeNumerically("~", 1, 1e-15))
	})

	It("should have direction 0 at rest", func() {
		Expect(d.Cx[0]).To(Equal(0))
		Expect(d.Cy[0]).To(Equal(0))
		Expect(d.Opp[0]).To(Equal(0))
	})

	It("should have an opposite map that is an involution", func() {
		for k := 0; k < Q; k++ {
			Expect(d.Opp[d.Opp[k]]).To(Equal(k))
			Expect(d.Cx[d.Opp[k]]).To(Equal(-d.Cx[k]))
			Expect(d.Cy[d.Opp[k]]).To(Equal(-d.Cy[k]))
			Expect(d.W[d.Opp[k]]).To(Equal(d.W[k]))
		}
	})

	It("should have isotropic second moments", func() {
		sxx, syy, sxy := 0.0, 0.0, 0.0
		for k := 0; k < Q; k++ {
			sxx += d.W[k] * float64(d.Cx[k]*d.Cx[k])
			syy += d.W[k] * float64(d.Cy[k]*d.Cy[k])
			sxy += d.W[k] * float64(d.Cx[k]*d.Cy[k])
		}

		Expect(sxx).To(BeNumerically("~", Cs2, 1e-15))
		Expect(syy).To(BeNumerically("~", Cs2, 1e-15))
		Expect(sxy).To(BeNumerically("~", 0, 1e-15))
	})

	It("should reduce to the weights at rest", func() {
		for k := 0; k < Q; k++ {
			Expect(d.Equilibrium(k, 1, 0, 0)).To(Equal(d.W[k]))
		}
	})

	It("should reproduce density and momentum in equilibrium", func() {
		rho, ux, uy := 1.02, 0.04, -0.03
		m0, mx, my := 0.0, 0.0, 0.0
		for k := 0; k < Q; k++ {
			feq := d.Equilibrium(k, rho, ux, uy)
			m0 += feq
			mx += feq * float64(d.Cx[k])
			my += feq * float64(d.Cy[k])
		}

		Expect(m0).To(BeNumerically("~", rho, 1e-14))
		Expect(mx).To(BeNumerically("~", rho*ux, 1e-14))
		Expect(my).To(BeNumerically("~", rho*uy, 1e-14))
	})
})
