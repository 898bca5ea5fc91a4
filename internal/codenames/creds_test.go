/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package codenames_test

import (
	"testing"

	"github.com/Seednode/codenames/internal/codenames"
	"github.com/stretchr/testify/assert"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{header: "", want: ""},
		{header: "abc123", want: "abc123"},
		{header: "Bearer abc123", want: "abc123"},
		{header: "bearer abc123", want: "abc123"},
		{header: "  Bearer   abc123 ", want: "abc123"},
		{header: "Bearer", want: "Bearer"},
	}

	for _, tt := range tests {
		t.Run(tt.header, func(t *testing.T) {
			assert.Equal(t, tt.want, codenames.BearerToken(tt.header))
		})
	}
}

func TestIsRetryable(t *testing.T) {
	assert.True(t, codenames.IsRetryable(codenames.ErrResourceExhausted))
	assert.True(t, codenames.IsRetryable(codenames.ErrCapacityExceeded))
	assert.False(t, codenames.IsRetryable(codenames.ErrUnauthorized))
	assert.False(t, codenames.IsRetryable(nil))
}
