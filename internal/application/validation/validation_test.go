package validation

import (
	"testing"

	"github.com/edusuite/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type line struct {
	Name   string          `json:"name" validate:"required,max=10"`
	Amount decimal.Decimal `json:"amount" validate:"money"`
}

type order struct {
	Kind  string `json:"kind" validate:"required,oneof=internal external"`
	Lines []line `json:"lines" validate:"required,min=1,dive"`
}

func TestStruct(t *testing.T) {
	ok := order{Kind: "internal", Lines: []line{{Name: "Tuition", Amount: decimal.RequireFromString("0")}}}
	assert.NoError(t, Struct(ok))

	tests := []struct {
		name  string
		input order
		want  string
	}{
		{"bad kind", order{Kind: "weekly", Lines: ok.Lines}, "kind: must be one of: internal external"},
		{"no lines", order{Kind: "internal", Lines: []line{}}, "lines: must have at least 1 entries"},
		{"nil lines", order{Kind: "internal"}, "lines: is required"},
		{"negative amount", order{Kind: "internal", Lines: []line{{Name: "Trip", Amount: decimal.RequireFromString("-1")}}}, "lines[0].amount: must be a non-negative amount"},
		{"long name", order{Kind: "internal", Lines: []line{{Name: "Extra curricular", Amount: decimal.Zero}}}, "lines[0].name: must be at most 10 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.input)
			require.Error(t, err)
			assert.ErrorIs(t, err, shared.ErrInvalidInput)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}
