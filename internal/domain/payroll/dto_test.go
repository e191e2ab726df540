package payroll

import (
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestUpdateDetailRequest_AmountPrecision(t *testing.T) {
	tests := []struct {
		name    string
		req     UpdateDetailRequest
		wantErr map[string]string
	}{
		{
			name: "cents accepted",
			req:  UpdateDetailRequest{Allowances: amount("150000.25"), Deductions: amount("0.10")},
		},
		{
			name: "sub-cent rejected",
			req:  UpdateDetailRequest{Allowances: amount("0.004"), Deductions: amount("0.006")},
			wantErr: map[string]string{
				"allowances": "must have at most 2 decimal places",
				"deductions": "must have at most 2 decimal places",
			},
		},
		{
			name:    "negative rejected",
			req:     UpdateDetailRequest{Deductions: amount("-1")},
			wantErr: map[string]string{"deductions": "must be non-negative"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.ErrorAs(t, err, &verrs)
			assert.Equal(t, tt.wantErr, verrs.ToMap())
		})
	}
}

func TestComponentRequests_AmountPrecision(t *testing.T) {
	create := CreateComponentRequest{Kind: "allowance", Name: "Transport", Amount: *amount("12.345")}
	var verrs validator.ValidationErrors
	require.ErrorAs(t, create.Validate(), &verrs)
	assert.Equal(t, "must have at most 2 decimal places", verrs.ToMap()["amount"])

	create.Amount = *amount("12.34")
	assert.NoError(t, create.Validate())

	update := UpdateComponentRequest{Amount: amount("0.001")}
	require.ErrorAs(t, update.Validate(), &verrs)
	assert.Equal(t, "must have at most 2 decimal places", verrs.ToMap()["amount"])
}
