package mathutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApproxEqualIsAbsoluteNearZero(t *testing.T) {
	tests := []struct {
		name string
		a, b Vec3
		want bool
	}{
		{"rounding noise on zero", V3(0, 1, 0), V3(2.2e-16, 1, -8.9e-16), true},
		{"exact", V3(1, 2, 3), V3(1, 2, 3), true},
		{"just inside", V3(0, 0, 0), V3(1e-9, 0, 0), true},
		{"outside", V3(0, 0, 0), V3(1e-6, 0, 0), false},
		{"large values", V3(1e6, 0, 0), V3(1e6+1e-3, 0, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ApproxEqual(tt.a, tt.b, 1e-9))
		})
	}
}
