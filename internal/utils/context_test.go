package utils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/MKhiriev/bsdr/internal/auth"
)

func TestGetCallerFromContext(t *testing.T) {
	caller := auth.Caller{Role: auth.RoleAgency, Scope: auth.Partition{ApxID: 3}, UsrID: 3}
	ctx := context.WithValue(context.Background(), CallerCtxKey, caller)

	got, ok := GetCallerFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, caller, got)

	_, ok = GetCallerFromContext(context.Background())
	assert.False(t, ok)

	wrongType := context.WithValue(context.Background(), CallerCtxKey, "not a caller")
	_, ok = GetCallerFromContext(wrongType)
	assert.False(t, ok)
}
