package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseProfile(t *testing.T) {
	tests := []struct {
		in      string
		want    Profile
		wantErr bool
	}{
		{"baseline", ProfileBaseline, false},
		{"restricted", ProfileRestricted, false},
		{"", ProfileRestricted, false},
		{"privileged", "", true},
		{"Baseline", "", true},
	}

	for _, tt := range tests {
		got, err := ParseProfile(tt.in)
		if tt.wantErr {
			require.Error(t, err, "input %q", tt.in)
			assert.Contains(t, err.Error(), tt.in)
			continue
		}
		require.NoError(t, err, "input %q", tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestProfileIncludes(t *testing.T) {
	assert.True(t, ProfileBaseline.Includes(ProfileBaseline))
	assert.True(t, ProfileRestricted.Includes(ProfileRestricted))
	assert.True(t, ProfileRestricted.Includes(ProfileBaseline))
	assert.False(t, ProfileBaseline.Includes(ProfileRestricted))
}

func TestContainerSpecFieldPath(t *testing.T) {
	c := ContainerSpec{Origin: OriginInitContainers, Index: 2}
	assert.Equal(t, "initContainers[2].securityContext.privileged", c.FieldPath("securityContext.privileged"))
}

func TestTypedErrors(t *testing.T) {
	underlying := errors.New("yaml: line 3: mapping values are not allowed")
	parseErr := &ParseError{DocIndex: 1, Err: underlying}

	assert.Contains(t, parseErr.Error(), "document 1")
	assert.ErrorIs(t, parseErr, underlying)

	kindErr := &UnsupportedKindError{DocIndex: 2, Kind: "ConfigMap"}
	assert.Contains(t, kindErr.Error(), `"ConfigMap"`)

	var empty *EmptyManifestError
	assert.ErrorAs(t, error(&EmptyManifestError{}), &empty)
}
