package cmd

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/bnema/rsessions/internal/application"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanSpinnerViewShowsProgress(t *testing.T) {
	model := newScanSpinnerModel("Scanning session scopes...", nil)
	assert.Contains(t, model.View(), "Scanning session scopes...")
	assert.NotContains(t, model.View(), "scopes,")

	updated, _ := model.Update(scanProgressMsg{Scopes: 12, Scanned: 3, Sessions: 1})
	view := updated.(scanSpinnerModel).View()
	assert.Contains(t, view, "3/12 scopes, 1 session found")

	updated, _ = updated.Update(scanProgressMsg{Scopes: 12, Scanned: 12, Sessions: 7})
	assert.Contains(t, updated.(scanSpinnerModel).View(), "12/12 scopes, 7 sessions found")

	updated, cmd := updated.Update(scanDoneMsg{})
	assert.Empty(t, updated.(scanSpinnerModel).View())
	assert.NotNil(t, cmd)
}

func TestRunScanSpinnerReturnsScanResult(t *testing.T) {
	var reported []application.ScanProgress
	err := runScanSpinner(context.Background(), &bytes.Buffer{}, "Scanning", func(_ context.Context, report func(application.ScanProgress)) error {
		for i := 1; i <= 3; i++ {
			progress := application.ScanProgress{Scopes: 3, Scanned: i}
			reported = append(reported, progress)
			report(progress)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, reported, 3)

	errScan := errors.New("scan failed")
	err = runScanSpinner(context.Background(), &bytes.Buffer{}, "Scanning", func(context.Context, func(application.ScanProgress)) error {
		return errScan
	})
	require.ErrorIs(t, err, errScan)
}
