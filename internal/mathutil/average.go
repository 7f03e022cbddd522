package mathutil

import "gonum.org/v1/gonum/mat"

// AverageRots returns the weighted mean rotation: the eigenvector of the
// largest eigenvalue of Σ wᵢ qᵢqᵢᵀ. Nil weights mean uniform weighting.
// An empty or zero-weight input yields the identity.
func AverageRots(rots []Rot, weights []float64) Rot {
	switch len(rots) {
	case 0:
		return Identity()
	case 1:
		if weights != nil && weights[0] <= 0 {
			return Identity()
		}
		return rots[0]
	}

	var acc [16]float64
	total := 0.0
	for i, r := range rots {
		w := 1.0
		if weights != nil {
			w = weights[i]
		}
		if w <= 0 {
			continue
		}
		total += w
		q := [4]float64{r.q.W, r.q.V[0], r.q.V[1], r.q.V[2]}
		for a := 0; a < 4; a++ {
			for b := 0; b < 4; b++ {
				acc[a*4+b] += w * q[a] * q[b]
			}
		}
	}
	if total <= 0 {
		return Identity()
	}

	sym := mat.NewSymDense(4, acc[:])
	var eig mat.EigenSym
	if ok := eig.Factorize(sym, true); !ok {
		return rots[0]
	}
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// Eigenvalues come back in ascending order.
	v := vecs.ColView(3)
	return fromComponents(v.AtVec(0), v.AtVec(1), v.AtVec(2), v.AtVec(3))
}

func fromComponents(w, x, y, z float64) Rot {
	return FromQuat(quatOf(w, x, y, z))
}
