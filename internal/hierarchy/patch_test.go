package hierarchy_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"project-workspaces/backend/internal/hierarchy"
)

func TestUpdateInputDistinguishesAbsentNullAndValue(t *testing.T) {
	var in hierarchy.UpdateInput
	require.NoError(t, json.Unmarshal([]byte(`{"content":"x"}`), &in))
	assert.False(t, in.Name.Set)
	assert.True(t, in.Content.Set)
	assert.True(t, in.Content.Valid)
	assert.Equal(t, "x", in.Content.Value)

	in = hierarchy.UpdateInput{}
	require.NoError(t, json.Unmarshal([]byte(`{"name":null}`), &in))
	assert.True(t, in.Name.Set)
	assert.False(t, in.Name.Valid)
	assert.False(t, in.Content.Set)

	in = hierarchy.UpdateInput{}
	require.NoError(t, json.Unmarshal([]byte(`{"name":""}`), &in))
	assert.True(t, in.Name.Set)
	assert.True(t, in.Name.Valid)
	assert.Equal(t, "", in.Name.Value)
}

func TestUpdateInputRejectsWrongType(t *testing.T) {
	var in hierarchy.UpdateInput
	assert.Error(t, json.Unmarshal([]byte(`{"name":42}`), &in))
}
