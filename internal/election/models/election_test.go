package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "electoral/pkg/domain-errors"
)

func TestParseElectionType(t *testing.T) {
	got, err := ParseElectionType(" municipal ")
	require.NoError(t, err)
	assert.Equal(t, ElectionTypeMunicipal, got)

	got, err = ParseElectionType("ASSEMBLY")
	require.NoError(t, err)
	assert.Equal(t, ElectionTypeAssembly, got)

	_, err = ParseElectionType("Municipal Corporation")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	_, err = ParseElectionType("Panchayat")
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestClassifyStoredType(t *testing.T) {
	assert.Equal(t, ElectionTypeMunicipal, ClassifyStoredType("Municipal Corporation"))
	assert.Equal(t, ElectionTypeAssembly, ClassifyStoredType("state ASSEMBLY"))
	assert.Equal(t, ElectionTypeOther, ClassifyStoredType("Panchayat"))
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, StatusUpcoming.CanTransitionTo(StatusActive))
	assert.True(t, StatusUpcoming.CanTransitionTo(StatusClosed))
	assert.True(t, StatusActive.CanTransitionTo(StatusClosed))
	assert.False(t, StatusActive.CanTransitionTo(StatusUpcoming))
	assert.False(t, StatusClosed.CanTransitionTo(StatusActive))
}

func TestCreateWardBoothDefaultsRadius(t *testing.T) {
	req := CreateWardBoothRequest{ElectionID: 1, WardID: 2, BoothName: " Hall "}
	require.NoError(t, req.Validate())
	assert.Equal(t, DefaultBoothRadius, req.Radius)
	assert.Equal(t, "Hall", req.BoothName)
}
