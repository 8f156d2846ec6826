package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/stretchr/testify/require"

	"github.com/iotaledger/qfunding/qf"
)

func newFinalizedRound(t *testing.T) (*qf.FundingRound, *qf.Allocation) {
	round := qf.NewFundingRound()
	require.NoError(t, round.SetMatchingPool(100))
	require.NoError(t, round.AddProject(qf.NewProject(1)))
	require.NoError(t, round.AddProject(qf.NewProject(0)))
	require.NoError(t, round.AddContribution(qf.NewContribution(1, 0, 100)))
	require.NoError(t, round.AddContribution(qf.NewContribution(2, 0, 100)))
	require.NoError(t, round.AddContribution(qf.NewContribution(1, 1, 4)))

	allocation, err := round.Finalize()
	require.NoError(t, err)

	return round, allocation
}

func TestReport(t *testing.T) {
	round, allocation := newFinalizedRound(t)
	r := New(round, allocation)

	require.Equal(t, 100.0, r.MatchingPool)
	require.Equal(t, 404.0, r.IdealTotal)
	require.True(t, r.Constrained)
	require.InDelta(t, 100, r.Allocated, 1e-9)
	require.Equal(t, allocation.Digest().String(), r.Digest)

	require.Len(t, r.Projects, 2)
	require.Equal(t, qf.ProjectID(0), r.Projects[0].ID)
	require.Equal(t, 2, r.Projects[0].Contributors)
	require.Equal(t, 200.0, r.Projects[0].TotalContribution)
	require.Equal(t, 400.0, r.Projects[0].MatchingAmount)
	require.InDelta(t, 400*100/404.0, r.Projects[0].Allocation, 1e-9)
	require.Equal(t, qf.ProjectID(1), r.Projects[1].ID)
	require.InDelta(t, 4*100/404.0, r.Projects[1].Allocation, 1e-9)
}

func TestReport_Write(t *testing.T) {
	round, allocation := newFinalizedRound(t)
	r := New(round, allocation)

	var textOutput bytes.Buffer
	require.NoError(t, r.Write(&textOutput, FormatText))
	require.Contains(t, textOutput.String(), "FundingRound {\n")
	require.Contains(t, textOutput.String(), "    Project 0\n        Contributors: 2\n")
	require.Contains(t, textOutput.String(), "Constrained: true")

	var jsonOutput bytes.Buffer
	require.NoError(t, r.Write(&jsonOutput, FormatJSON))

	decoded := new(Report)
	require.NoError(t, json.Unmarshal(jsonOutput.Bytes(), decoded))
	require.Equal(t, r.Digest, decoded.Digest)
	require.Len(t, decoded.Projects, 2)

	require.True(t, ierrors.Is(r.Write(&bytes.Buffer{}, "xml"), ErrUnknownFormat))
}
