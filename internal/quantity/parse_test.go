package quantity_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tosh-hamburg/cookbookApp/internal/quantity"
)

func TestParseIntegers(t *testing.T) {
	t.Parallel()
	for n := 0; n <= 1000; n++ {
		q := quantity.Parse(fmt.Sprintf("%d g", n))
		if q.Value != float64(n) || q.Unit != "g" {
			t.Fatalf("parse %d g: got %+v", n, q)
		}
	}
}

func TestParse(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in   string
		want quantity.Quantity
	}{
		{"1/2 TL", quantity.Quantity{Value: 0.5, Unit: "TL"}},
		{"1 1/2 EL", quantity.Quantity{Value: 1.5, Unit: "EL"}},
		{"3/4", quantity.Quantity{Value: 0.75, Unit: ""}},
		{"2,5 kg", quantity.Quantity{Value: 2.5, Unit: "kg"}},
		{"2.5 kg", quantity.Quantity{Value: 2.5, Unit: "kg"}},
		{"200g", quantity.Quantity{Value: 200, Unit: "g"}},
		{"  250 ml  ", quantity.Quantity{Value: 250, Unit: "ml"}},
		{"1½ EL", quantity.Quantity{Value: 1.5, Unit: "EL"}},
		{"½ Bund Petersilie", quantity.Quantity{Value: 0.5, Unit: "Bund Petersilie"}},
		{"3/0 Stück", quantity.Quantity{Value: 3, Unit: "Stück"}},
		{"1.000,5 g", quantity.Quantity{Value: 0, Unit: "g"}},
		{"etwas Salz", quantity.Quantity{Value: 0, Unit: "etwas Salz"}},
		{"nach Geschmack", quantity.Quantity{Value: 0, Unit: "nach Geschmack"}},
		{"", quantity.Quantity{}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := quantity.Parse(tt.in)
			assert.InDelta(t, tt.want.Value, got.Value, 1e-9)
			assert.Equal(t, tt.want.Unit, got.Unit)
		})
	}
}
