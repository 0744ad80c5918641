package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChannels(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []int
	}{
		{"single", "118", []int{118}},
		{"list", "4,7,10", []int{4, 7, 10}},
		{"range", "5-9", []int{5, 6, 7, 8, 9}},
		{"mixed_with_spaces", " 23, 5-7 ,150", []int{23, 5, 6, 7, 150}},
		{"trailing_comma", "1,2,", []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseChannels(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseChannels_Invalid(t *testing.T) {
	for _, input := range []string{"", ",", "abc", "9-5", "3-x", "1,,two"} {
		_, err := parseChannels(input)
		assert.Error(t, err, "input %q", input)
	}
}
