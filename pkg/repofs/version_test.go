package repofs

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	hash := strings.Repeat("0123456789", 4)

	tests := []struct {
		name    string
		in      string
		want    Version
		wantErr bool
	}{
		{name: "live sentinel", in: "live", want: LiveVersion()},
		{name: "full hash", in: hash, want: mustHistorical(t, hash)},
		{name: "short string", in: "0123456789", wantErr: true},
		{name: "empty", in: "", wantErr: true},
		{name: "uppercase hex", in: strings.ToUpper(hash), wantErr: true},
		{name: "non-hex characters", in: strings.Repeat("g", 40), wantErr: true},
		{name: "almost live", in: "Live", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := ParseVersion(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidVersion)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, v)
		})
	}
}

func TestVersionAccessors(t *testing.T) {
	hash := testHash('a')

	live := LiveVersion()
	assert.True(t, live.IsLive())
	assert.Equal(t, Live, live.Kind())
	assert.Equal(t, "live", live.String())
	assert.Empty(t, live.Hash())

	hist := mustHistorical(t, hash)
	assert.False(t, hist.IsLive())
	assert.Equal(t, Historical, hist.Kind())
	assert.Equal(t, hash, hist.String())
	assert.Equal(t, hash, hist.Hash())
}

func mustHistorical(t *testing.T, hash string) Version {
	t.Helper()
	v, err := HistoricalVersion(hash)
	require.NoError(t, err)
	return v
}
