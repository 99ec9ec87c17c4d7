package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	contextutils "civiccare/internal/utils"
)

func TestComputeTransition_StatusChanged(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	tr, err := ComputeTransition(StatusSubmitted, StatusInProgress, now)
	require.NoError(t, err)
	assert.Equal(t, TransitionStatusChanged, tr.Kind)
	assert.Equal(t, StatusInProgress, tr.NewStatus)
	assert.False(t, tr.ResolvedAt.Valid, "non-resolved status must clear resolved_at")
}

func TestComputeTransition_Resolve(t *testing.T) {
	now := time.Date(2025, 3, 14, 12, 0, 0, 0, time.UTC)

	tr, err := ComputeTransition(StatusInProgress, StatusResolved, now)
	require.NoError(t, err)
	assert.Equal(t, TransitionStatusChanged, tr.Kind)
	require.True(t, tr.ResolvedAt.Valid)
	assert.Equal(t, now, tr.ResolvedAt.Time)
}

func TestComputeTransition_Reopen(t *testing.T) {
	now := time.Now()

	// Moving off resolved clears the timestamp
	tr, err := ComputeTransition(StatusResolved, StatusInProgress, now)
	require.NoError(t, err)
	assert.Equal(t, TransitionStatusChanged, tr.Kind)
	assert.False(t, tr.ResolvedAt.Valid)
}

func TestComputeTransition_NotesOnly(t *testing.T) {
	now := time.Now()

	tr, err := ComputeTransition(StatusInProgress, StatusInProgress, now)
	require.NoError(t, err)
	assert.Equal(t, TransitionNotesOnly, tr.Kind)
	assert.False(t, tr.ResolvedAt.Valid)
}

func TestComputeTransition_ResolvedToResolvedRefreshesTimestamp(t *testing.T) {
	now := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)

	tr, err := ComputeTransition(StatusResolved, StatusResolved, now)
	require.NoError(t, err)
	assert.Equal(t, TransitionNotesOnly, tr.Kind, "same status is notes-only even when resolved")
	require.True(t, tr.ResolvedAt.Valid)
	assert.Equal(t, now, tr.ResolvedAt.Time)
}

func TestComputeTransition_InvalidStatus(t *testing.T) {
	_, err := ComputeTransition(StatusSubmitted, ComplaintStatus("closed"), time.Now())
	require.Error(t, err)
	assert.Equal(t, contextutils.ErrorCodeInvalidStatus, contextutils.GetErrorCode(err))
}

func TestComplaintStatus_IsValid(t *testing.T) {
	assert.True(t, StatusSubmitted.IsValid())
	assert.True(t, StatusInProgress.IsValid())
	assert.True(t, StatusResolved.IsValid())
	assert.False(t, ComplaintStatus("").IsValid())
	assert.False(t, ComplaintStatus("SUBMITTED").IsValid())
	assert.False(t, ComplaintStatus("pending").IsValid())
}

func TestSeverity_IsValid(t *testing.T) {
	assert.True(t, SeverityLow.IsValid())
	assert.True(t, SeverityMedium.IsValid())
	assert.True(t, SeverityHigh.IsValid())
	assert.False(t, Severity("critical").IsValid())
}

func TestComplaintStatus_Display(t *testing.T) {
	assert.Equal(t, "SUBMITTED", StatusSubmitted.Display())
	assert.Equal(t, "IN PROGRESS", StatusInProgress.Display())
	assert.Equal(t, "RESOLVED", StatusResolved.Display())
}
