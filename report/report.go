// Package report renders the outcome of a funding round for operators.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/kr/text"

	"github.com/iotaledger/qfunding/qf"
)

const (
	FormatText = "text"
	FormatJSON = "json"

	indentation = "    "
)

// ErrUnknownFormat is returned if a report is requested in an unsupported format.
var ErrUnknownFormat = ierrors.New("unknown report format")

// Report summarizes an Allocation together with the statistics of the projects it was computed from.
type Report struct {
	MatchingPool  float64          `json:"matchingPool"`
	IdealTotal    float64          `json:"idealTotal"`
	ScalingFactor float64          `json:"scalingFactor"`
	Constrained   bool             `json:"constrained"`
	Allocated     float64          `json:"allocated"`
	Digest        string           `json:"digest"`
	Projects      []*ProjectReport `json:"projects"`
}

// ProjectReport holds the figures of a single project.
type ProjectReport struct {
	ID                qf.ProjectID `json:"id"`
	Contributors      int          `json:"contributors"`
	TotalContribution float64      `json:"totalContribution"`
	MatchingAmount    float64      `json:"matchingAmount"`
	Allocation        float64      `json:"allocation"`
}

// New creates a Report for the given Allocation. Projects are listed in ascending id order.
func New(round *qf.FundingRound, allocation *qf.Allocation) *Report {
	r := &Report{
		MatchingPool:  allocation.MatchingPool(),
		IdealTotal:    allocation.IdealTotal(),
		ScalingFactor: allocation.ScalingFactor(),
		Constrained:   allocation.Constrained(),
		Allocated:     allocation.Total(),
		Digest:        allocation.Digest().String(),
		Projects:      make([]*ProjectReport, 0, allocation.Size()),
	}

	allocation.ForEach(func(projectID qf.ProjectID, amount float64) bool {
		projectReport := &ProjectReport{
			ID:         projectID,
			Allocation: amount,
		}

		if project, exists := round.Project(projectID); exists {
			projectReport.Contributors = project.ContributorCount()
			projectReport.TotalContribution = project.TotalContribution()
			projectReport.MatchingAmount = project.MatchingAmount()
		}

		r.Projects = append(r.Projects, projectReport)

		return true
	})

	return r
}

// Text renders the Report as an indented, human-readable block.
func (r *Report) Text() string {
	var projects strings.Builder
	for _, project := range r.Projects {
		fmt.Fprintf(&projects, "Project %d\n", project.ID)
		projects.WriteString(text.Indent(fmt.Sprintf(
			"Contributors: %d\nTotalContribution: %g\nMatchingAmount: %g\nAllocation: %g\n",
			project.Contributors, project.TotalContribution, project.MatchingAmount, project.Allocation,
		), indentation))
	}

	var result strings.Builder
	result.WriteString("FundingRound {\n")
	result.WriteString(text.Indent(fmt.Sprintf(
		"MatchingPool: %g\nIdealTotal: %g\nScalingFactor: %g\nConstrained: %t\nAllocated: %g\nDigest: %s\n",
		r.MatchingPool, r.IdealTotal, r.ScalingFactor, r.Constrained, r.Allocated, r.Digest,
	), indentation))
	result.WriteString(text.Indent(projects.String(), indentation))
	result.WriteString("}\n")

	return result.String()
}

// JSON renders the Report as indented JSON.
func (r *Report) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}

// Write renders the Report in the given format to the writer.
func (r *Report) Write(writer io.Writer, format string) error {
	var output []byte

	switch format {
	case FormatText:
		output = []byte(r.Text())
	case FormatJSON:
		jsonBytes, err := r.JSON()
		if err != nil {
			return ierrors.Wrap(err, "failed to marshal report")
		}
		output = append(jsonBytes, '\n')
	default:
		return ierrors.Wrapf(ErrUnknownFormat, "format %q", format)
	}

	if _, err := writer.Write(output); err != nil {
		return ierrors.Wrap(err, "failed to write report")
	}

	return nil
}
