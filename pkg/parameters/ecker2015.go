package parameters

import (
	"math"

	"github.com/edp1096/toy-cell/internal/consts"
)

// Ecker, M. et al. "Parameterization of a physico-chemical model of a lithium-ion
// battery I/II." J. Electrochem. Soc. 162.9 (2015): A1836-A1857.
const (
	eckerReactionRateRef = 5.196e-11 // k_ref (m2.5 mol-0.5 s-1)
	eckerDiffusivityMax  = 3.7e-13   // m2 s-1
	eckerDiffusivityDip  = 3.4e-13   // m2 s-1
	eckerDiffusivityPeak = 0.62      // stoichiometry of the diffusivity minimum
	eckerDiffusivityBand = 12.0
)

// NcoDiffusivityEcker2015 is the NCO solid diffusivity [m2.s-1] as a function of
// stoichiometry. Tinf is accepted for the function parameter contract; the
// measurements were taken at consts.TREF, which is the Arrhenius reference.
func NcoDiffusivityEcker2015(sto, T, Tinf, EDs, Rg float64) float64 {
	d := sto - eckerDiffusivityPeak
	dRef := eckerDiffusivityMax - eckerDiffusivityDip*math.Exp(-eckerDiffusivityBand*d*d)
	return dRef * Arrhenius(EDs, Rg, T, consts.TREF)
}

// NcoElectrolyteReactionRateEcker2015 is the Butler-Volmer reaction rate between
// NCO and LiPF6 in EC:DMC.
func NcoElectrolyteReactionRateEcker2015(T, Tinf, Er, Rg float64) float64 {
	mRef := consts.FARADAY * eckerReactionRateRef
	return mRef * Arrhenius(Er, Rg, T, consts.TREF)
}

func NcoDiffusivityEcker2015Vec(sto, T []float64, Tinf, EDs, Rg float64) ([]float64, error) {
	if err := checkTemperatures(T); err != nil {
		return nil, err
	}
	return broadcast2(sto, T, func(s, t float64) float64 {
		return NcoDiffusivityEcker2015(s, t, Tinf, EDs, Rg)
	})
}

func NcoElectrolyteReactionRateEcker2015Vec(T []float64, Tinf, Er, Rg float64) ([]float64, error) {
	if err := checkTemperatures(T); err != nil {
		return nil, err
	}
	out := make([]float64, len(T))
	for i, t := range T {
		out[i] = NcoElectrolyteReactionRateEcker2015(t, Tinf, Er, Rg)
	}
	return out, nil
}
