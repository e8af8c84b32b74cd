package phone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		region  string
		want    string
		wantErr bool
	}{
		{
			name:   "already e164",
			raw:    "+919876543210",
			region: "IN",
			want:   "+919876543210",
		},
		{
			name:   "national format with default region",
			raw:    "9876543210",
			region: "IN",
			want:   "+919876543210",
		},
		{
			name:   "spaces and dashes stripped",
			raw:    "98765-43210",
			region: "IN",
			want:   "+919876543210",
		},
		{
			name:   "explicit country code overrides region",
			raw:    "+14155552671",
			region: "IN",
			want:   "+14155552671",
		},
		{
			name:    "too short",
			raw:     "12345",
			region:  "IN",
			wantErr: true,
		},
		{
			name:    "empty",
			raw:     "",
			region:  "IN",
			wantErr: true,
		},
		{
			name:    "whitespace only",
			raw:     "   ",
			region:  "IN",
			wantErr: true,
		},
		{
			name:    "not a number",
			raw:     "call me maybe",
			region:  "IN",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.raw, tt.region)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
