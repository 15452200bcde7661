package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTarget_Validate(t *testing.T) {
	tests := []struct {
		name    string
		target  Target
		wantErr bool
	}{
		{
			name:   "valid target",
			target: Target{Name: "Acme", URL: "https://www.ycombinator.com/companies/acme"},
		},
		{
			name:    "missing name",
			target:  Target{URL: "https://www.ycombinator.com/companies/acme"},
			wantErr: true,
		},
		{
			name:    "empty URL",
			target:  Target{Name: "Acme"},
			wantErr: true,
		},
		{
			name:    "malformed URL",
			target:  Target{Name: "Acme", URL: "not a url"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.target.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
