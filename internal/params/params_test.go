package params

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   ParameterSet
	}{
		{
			name:   "empty",
			tokens: nil,
			want:   ParameterSet{},
		},
		{
			name:   "simple pairs",
			tokens: []string{"email=example@example.com", "zone=Z1", "count=1000"},
			want:   ParameterSet{"email": "example@example.com", "zone": "Z1", "count": "1000"},
		},
		{
			name:   "value containing equals",
			tokens: []string{"key=abc==", "destination=a=b.gz"},
			want:   ParameterSet{"key": "abc==", "destination": "a=b.gz"},
		},
		{
			name:   "empty value",
			tokens: []string{"count="},
			want:   ParameterSet{"count": ""},
		},
		{
			name:   "empty key is kept",
			tokens: []string{"=value", "zone=Z1"},
			want:   ParameterSet{"": "value", "zone": "Z1"},
		},
		{
			name:   "last write wins",
			tokens: []string{"zone=first", "zone=second"},
			want:   ParameterSet{"zone": "second"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.tokens)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseInvalid(t *testing.T) {
	for _, token := range []string{"email", "", "zone"} {
		t.Run(token, func(t *testing.T) {
			_, err := Parse([]string{"zone=Z1", token})
			require.Error(t, err)

			var invalid *InvalidArgumentError
			require.True(t, errors.As(err, &invalid))
			assert.Equal(t, token, invalid.Token)
		})
	}
}

func TestCheckRequired(t *testing.T) {
	complete := ParameterSet{
		"email": "a@b.com",
		"key":   "XYZ",
		"zone":  "Z1",
		"start": "100",
		"end":   "",
	}

	got, err := CheckRequired(complete, Required)
	require.NoError(t, err)
	assert.Equal(t, complete, got)

	for _, key := range Required {
		t.Run("missing "+key, func(t *testing.T) {
			set := ParameterSet{}
			for k, v := range complete {
				if k != key {
					set[k] = v
				}
			}

			_, err := CheckRequired(set, Required)
			var missing *MissingArgumentError
			require.True(t, errors.As(err, &missing))
			assert.Equal(t, []string{key}, missing.Missing)
			assert.Contains(t, err.Error(), key)
		})
	}
}

func TestCheckRequiredListsAllMissing(t *testing.T) {
	_, err := CheckRequired(ParameterSet{"zone": "Z1", "destination": "out.gz"}, Required)

	var missing *MissingArgumentError
	require.True(t, errors.As(err, &missing))
	assert.Equal(t, []string{"email", "key", "start", "end"}, missing.Missing)
}

func TestParameterSetHas(t *testing.T) {
	set := ParameterSet{"count": ""}
	assert.True(t, set.Has("count"))
	assert.False(t, set.Has("destination"))
	assert.Equal(t, "", set.Get("destination"))
}
