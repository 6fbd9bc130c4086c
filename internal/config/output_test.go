package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOutput_Validate(t *testing.T) {
	tests := []struct {
		name    string
		output  Output
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid stdout output",
			output:  Output{Type: OutputTypeStdout},
			wantErr: false,
		},
		{
			name:    "valid nop output",
			output:  Output{Type: OutputTypeNop},
			wantErr: false,
		},
		{
			name:    "empty output type",
			output:  Output{Type: ""},
			wantErr: false,
		},
		{
			name:    "invalid output type",
			output:  Output{Type: "tcp"},
			wantErr: true,
			errMsg:  "invalid output type: tcp, must be one of: nop, stdout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.output.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				if tt.errMsg != "" {
					assert.Contains(t, err.Error(), tt.errMsg)
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
