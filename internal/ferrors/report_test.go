package ferrors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/BenSimner/starling-tool/internal/ferrors"
)

func TestWrapAndRecoverReport(t *testing.T) {
	r := ferrors.New(ferrors.StageModel, ferrors.CodeUnknownIdentifier, "unknown identifier: x").
		WithData("name", "x")

	err := ferrors.WrapReport(r)
	wrapped := fmt.Errorf("model stage failed: %w", err)

	got, ok := ferrors.AsReport(wrapped)
	require.True(t, ok)
	require.Equal(t, r, got)
	require.Equal(t, "x", got.Data["name"])
}

func TestAsReportMissing(t *testing.T) {
	_, ok := ferrors.AsReport(errors.New("plain error"))
	require.False(t, ok)
}

func TestReportsError(t *testing.T) {
	rs := ferrors.Reports{
		ferrors.New(ferrors.StageParse, ferrors.CodeParseSyntax, "first"),
		ferrors.New(ferrors.StageParse, ferrors.CodeParseSyntax, "second"),
	}
	require.Contains(t, rs.Error(), "and 1 more")
	require.Len(t, rs.AsErrors(), 2)
}

func TestReportToJSON(t *testing.T) {
	r := ferrors.New(ferrors.StageGraph, ferrors.CodeMalformedBody, "missing view")
	js, err := r.ToJSON(true)
	require.NoError(t, err)
	require.Contains(t, js, `"code":"GRF001"`)
}
