package employee

import (
	"testing"

	"github.com/cmlabs-hris/hris-payroll-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestCreateEmployeeRequest_TaxID(t *testing.T) {
	tests := []struct {
		name    string
		taxID   *string
		want    *string
		wantErr bool
	}{
		{"absent", nil, nil, false},
		{"formatted npwp", strPtr("09.254.294.3-407.000"), strPtr("092542943407000"), false},
		{"nik", strPtr("3201012345678901"), strPtr("3201012345678901"), false},
		{"blank clears", strPtr("  "), nil, false},
		{"letters", strPtr("09.254.294.3-407.ABC"), nil, true},
		{"too short", strPtr("12345"), nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := CreateEmployeeRequest{
				EmployeeCode: "EMP-001",
				FullName:     "Siti Rahma",
				HireDate:     "2024-01-15",
				TaxID:        tt.taxID,
			}

			err := req.Validate()
			if tt.wantErr {
				var verrs validator.ValidationErrors
				require.ErrorAs(t, err, &verrs)
				assert.Contains(t, verrs.ToMap(), "tax_id")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.TaxID)
		})
	}
}

func TestUpdateEmployeeRequest_EmptyTaxIDClears(t *testing.T) {
	req := UpdateEmployeeRequest{TaxID: strPtr("")}

	require.NoError(t, req.Validate())
	require.NotNil(t, req.TaxID)
	assert.Empty(t, *req.TaxID)
}
