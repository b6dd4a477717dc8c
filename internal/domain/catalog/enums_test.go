package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnumsAreClosed(t *testing.T) {
	assert.True(t, ProcessTypeLLM.Valid())
	assert.True(t, ProcessTypeML.Valid())
	assert.False(t, ProcessType("LLM").Valid())

	assert.True(t, DeploymentStatusActive.Valid())
	assert.True(t, DeploymentStatusInactive.Valid())
	assert.False(t, DeploymentStatus("paused").Valid())

	for _, s := range []ExecutionStatus{ExecutionStatusPending, ExecutionStatusRunning, ExecutionStatusCompleted, ExecutionStatusFailed} {
		assert.True(t, s.Valid(), s)
	}
	assert.False(t, ExecutionStatus("done").Valid())

	assert.True(t, InputTypeBigQuery.Valid())
	assert.False(t, InputType("s3").Valid())
}

func TestExecutionStatusTerminal(t *testing.T) {
	assert.False(t, ExecutionStatusPending.Terminal())
	assert.False(t, ExecutionStatusRunning.Terminal())
	assert.True(t, ExecutionStatusCompleted.Terminal())
	assert.True(t, ExecutionStatusFailed.Terminal())
}
