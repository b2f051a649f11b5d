package timex

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{name: "string minutes", in: `"15m"`, want: 15 * time.Minute},
		{name: "string hours", in: `"168h"`, want: 7 * 24 * time.Hour},
		{name: "nanoseconds", in: `1000000000`, want: time.Second},
		{name: "null", in: `null`, want: 0},
		{name: "bad string", in: `"soon"`, wantErr: true},
		{name: "bool", in: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := json.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Duration)
		})
	}
}

func TestDuration_RoundTripInStruct(t *testing.T) {
	type cfg struct {
		TTL Duration `json:"ttl"`
	}
	b, err := json.Marshal(cfg{TTL: Duration{15 * time.Minute}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ttl":"15m0s"}`, string(b))

	var back cfg
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, 15*time.Minute, back.TTL.Duration)
}
