package punch

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		priorCount int
		want       Role
	}{
		{0, RoleFirstIn},
		{1, RoleFirstOut},
		{2, RoleSecondIn},
		{3, RoleSecondOut},
		{4, RoleOverflow},
		{5, RoleOverflow},
		{100, RoleOverflow},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.priorCount), "priorCount=%d", tt.priorCount)
	}
}

func TestClassify_TotalOverNonNegative(t *testing.T) {
	// every non-negative count maps to exactly one of the five roles
	valid := map[Role]bool{
		RoleFirstIn: true, RoleFirstOut: true,
		RoleSecondIn: true, RoleSecondOut: true,
		RoleOverflow: true,
	}
	for n := 0; n < 1000; n++ {
		assert.True(t, valid[Classify(n)], "n=%d", n)
	}
}
