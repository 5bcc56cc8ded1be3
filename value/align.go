package value

import "math"

// AlignCrossSections outer-joins two CrossSection values on symbol label:
// symbols present in only one operand get NaN on the other
// side. The resulting symbol order is a's symbols first, then any of b's
// symbols not already present in a.
func AlignCrossSections(a, b Value) (symbols []string, av, bv []float64) {
	aSyms, aVec := a.CrossSectionData()
	bSyms, bVec := b.CrossSectionData()

	aIdx := make(map[string]int, len(aSyms))
	for i, s := range aSyms {
		aIdx[s] = i
	}
	bIdx := make(map[string]int, len(bSyms))
	for i, s := range bSyms {
		bIdx[s] = i
	}

	symbols = make([]string, 0, len(aSyms)+len(bSyms))
	symbols = append(symbols, aSyms...)
	for _, s := range bSyms {
		if _, ok := aIdx[s]; !ok {
			symbols = append(symbols, s)
		}
	}

	av = make([]float64, len(symbols))
	bv = make([]float64, len(symbols))
	for i, s := range symbols {
		if j, ok := aIdx[s]; ok {
			av[i] = aVec[j]
		} else {
			av[i] = math.NaN()
		}
		if j, ok := bIdx[s]; ok {
			bv[i] = bVec[j]
		} else {
			bv[i] = math.NaN()
		}
	}
	return symbols, av, bv
}
