package convert

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crmdesk/internal/crm"
)

func TestSelectSeedsTermsFromLead(t *testing.T) {
	w := New(nil)
	w.Select(crm.Lead{ID: 4, ExpectedRevenue: 5000, ConversionProbability: 70})

	assert.Equal(t, StateConfirmPending, w.State())
	assert.Equal(t, float64(5000), w.Terms().ExpectedRevenue)
	assert.Equal(t, float64(70), w.Terms().ConversionProbability)
}

func TestSelectDefaultsProbability(t *testing.T) {
	w := New(nil)
	w.Select(crm.Lead{ID: 4})
	assert.Equal(t, float64(crm.DefaultConversionProbability), w.Terms().ConversionProbability)
	assert.Equal(t, float64(0), w.Terms().ExpectedRevenue)

	// An intended 0% survives when set explicitly.
	w.SetTerms(crm.ConversionTerms{ExpectedRevenue: 100, ConversionProbability: 0})
	assert.Equal(t, float64(0), w.Terms().ConversionProbability)
}

func TestCancelMakesNoCall(t *testing.T) {
	called := false
	w := New(func(ctx context.Context, leadID int64, terms crm.ConversionTerms) error {
		called = true
		return nil
	})
	w.Select(crm.Lead{ID: 4})
	w.Cancel()

	assert.Equal(t, StateIdle, w.State())
	assert.False(t, called)
}

func TestConfirmPassesTermsThrough(t *testing.T) {
	var gotID int64
	var gotTerms crm.ConversionTerms
	w := New(func(ctx context.Context, leadID int64, terms crm.ConversionTerms) error {
		gotID = leadID
		gotTerms = terms
		return nil
	})
	w.Select(crm.Lead{ID: 12, ExpectedRevenue: 5000, ConversionProbability: 70})
	require.NoError(t, w.Confirm(context.Background()))

	assert.Equal(t, StateDone, w.State())
	assert.Equal(t, int64(12), gotID)
	assert.Equal(t, crm.ConversionTerms{ExpectedRevenue: 5000, ConversionProbability: 70}, gotTerms)
}

func TestBeginHandsBackTheCallWithoutRunningIt(t *testing.T) {
	calls := 0
	w := New(func(ctx context.Context, leadID int64, terms crm.ConversionTerms) error {
		calls++
		return nil
	})
	w.Select(crm.Lead{ID: 9, ExpectedRevenue: 100})

	call, ok := w.Begin()
	require.True(t, ok)
	assert.Equal(t, StateConverting, w.State())
	assert.Zero(t, calls)

	require.NoError(t, call(context.Background()))
	assert.Equal(t, 1, calls)

	w.Finish(nil)
	assert.Equal(t, StateDone, w.State())
}

func TestBeginRequiresPendingConfirmation(t *testing.T) {
	w := New(nil)
	_, ok := w.Begin()
	assert.False(t, ok)
	assert.Equal(t, StateIdle, w.State())
}

func TestFinishRecordsFailure(t *testing.T) {
	w := New(func(ctx context.Context, leadID int64, terms crm.ConversionTerms) error {
		return errors.New("boom")
	})
	w.Select(crm.Lead{ID: 9})
	call, ok := w.Begin()
	require.True(t, ok)

	w.Finish(call(context.Background()))
	assert.Equal(t, StateFailed, w.State())
	assert.Equal(t, "conversion failed, please try again", w.Err())

	// Finish outside Converting is a no-op.
	w.Finish(nil)
	assert.Equal(t, StateFailed, w.State())
}

func TestConfirmFailure(t *testing.T) {
	w := New(func(ctx context.Context, leadID int64, terms crm.ConversionTerms) error {
		return errors.New("boom")
	})
	w.Select(crm.Lead{ID: 12})
	require.Error(t, w.Confirm(context.Background()))

	assert.Equal(t, StateFailed, w.State())
	assert.Equal(t, "conversion failed, please try again", w.Err())

	w.Reset()
	assert.Equal(t, StateIdle, w.State())
}
