package quantity_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tosh-hamburg/cookbookApp/internal/quantity"
)

func TestFormatNumberIntegers(t *testing.T) {
	t.Parallel()
	for n := 1; n <= 500; n++ {
		assert.Equal(t, strconv.Itoa(n), quantity.FormatNumber(float64(n)))
	}
}

func TestFormatNumber(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   float64
		want string
	}{
		{0, ""},
		{0.5, "½"},
		{2.5, "2½"},
		{0.25, "¼"},
		{0.75, "¾"},
		{0.333, "⅓"},
		{1.666, "1⅔"},
		{0.54, "½"},
		{3.004, "3"},
		{1.4, "1,4"},
		{2.98, "3"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, quantity.FormatNumber(tt.in), "FormatNumber(%v)", tt.in)
	}
}

func TestFormatUnitGroup(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "200 g", quantity.FormatUnitGroup("g", 200))
	assert.Equal(t, "1½ EL", quantity.FormatUnitGroup("EL", 1.5))
	assert.Equal(t, "2", quantity.FormatUnitGroup("", 2))
	assert.Equal(t, "etwas", quantity.FormatUnitGroup("etwas", 0))
	assert.Equal(t, "", quantity.FormatUnitGroup("", 0))
}
