// Package roundfile reads the definition of a funding round (matching pool, projects and contributions) from a JSON,
// YAML or TOML file and turns it into a qf.FundingRound.
package roundfile

import (
	"math"
	"os"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/iotaledger/hive.go/runtime/options"
	"github.com/knadh/koanf"
	"github.com/spf13/cast"

	"github.com/iotaledger/qfunding/configuration"
	"github.com/iotaledger/qfunding/qf"
)

const (
	keyMatchingPool  = "matchingpool"
	keyProjects      = "projects"
	keyContributions = "contributions"
	keyFrom          = "from"
	keyTo            = "to"
	keyAmount        = "amount"
)

// ErrInvalidDefinition is returned if a round definition can not be decoded.
var ErrInvalidDefinition = ierrors.New("invalid round definition")

// Definition is the decoded content of a round file.
type Definition struct {
	// MatchingPool is zero if the file does not set it.
	MatchingPool  float64
	Projects      []qf.ProjectID
	Contributions []*qf.Contribution
}

// Load reads the round definition from the given file. The format is derived from the file extension.
func Load(filePath string) (*Definition, error) {
	parser, err := configuration.ParserForFile(filePath)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, ierrors.Wrapf(err, "unable to read round file %s", filePath)
	}

	definition, err := Parse(data, parser)
	if err != nil {
		return nil, ierrors.Wrapf(err, "unable to parse round file %s", filePath)
	}

	return definition, nil
}

// Parse decodes a round definition with the given parser. Numbers may also be given as numeric strings.
func Parse(data []byte, parser koanf.Parser) (*Definition, error) {
	raw, err := parser.Unmarshal(data)
	if err != nil {
		return nil, ierrors.Join(ErrInvalidDefinition, err)
	}

	definition := new(Definition)

	if matchingPool, exists := raw[keyMatchingPool]; exists {
		if definition.MatchingPool, err = cast.ToFloat64E(matchingPool); err != nil {
			return nil, ierrors.Wrapf(ErrInvalidDefinition, "matchingPool: %s", err)
		}
	}

	projects, err := cast.ToSliceE(orEmptyList(raw[keyProjects]))
	if err != nil {
		return nil, ierrors.Wrapf(ErrInvalidDefinition, "projects: %s", err)
	}

	for i, project := range projects {
		projectID, err := parseID(project)
		if err != nil {
			return nil, ierrors.Wrapf(ErrInvalidDefinition, "projects[%d]: %s", i, err)
		}

		definition.Projects = append(definition.Projects, qf.ProjectID(projectID))
	}

	contributions, err := cast.ToSliceE(orEmptyList(raw[keyContributions]))
	if err != nil {
		return nil, ierrors.Wrapf(ErrInvalidDefinition, "contributions: %s", err)
	}

	for i, rawContribution := range contributions {
		contribution, err := parseContribution(rawContribution)
		if err != nil {
			return nil, ierrors.Wrapf(ErrInvalidDefinition, "contributions[%d]: %s", i, err)
		}

		definition.Contributions = append(definition.Contributions, contribution)
	}

	return definition, nil
}

// Build creates a FundingRound from the Definition. Errors of the round (duplicate projects, contributions to unknown
// projects, invalid amounts) are returned unchanged so they can be matched with ierrors.Is.
func (d *Definition) Build(opts ...options.Option[qf.FundingRound]) (*qf.FundingRound, error) {
	round := qf.NewFundingRound(opts...)

	if d.MatchingPool != 0 {
		if err := round.SetMatchingPool(d.MatchingPool); err != nil {
			return nil, err
		}
	}

	for _, projectID := range d.Projects {
		if err := round.AddProject(qf.NewProject(projectID)); err != nil {
			return nil, err
		}
	}

	for _, contribution := range d.Contributions {
		if err := round.AddContribution(contribution); err != nil {
			return nil, err
		}
	}

	return round, nil
}

func parseContribution(rawContribution interface{}) (*qf.Contribution, error) {
	fields, err := cast.ToStringMapE(rawContribution)
	if err != nil {
		return nil, err
	}

	for _, key := range []string{keyFrom, keyTo, keyAmount} {
		if _, exists := fields[key]; !exists {
			return nil, ierrors.Errorf("missing field %q", key)
		}
	}

	from, err := parseID(fields[keyFrom])
	if err != nil {
		return nil, ierrors.Wrap(err, "from")
	}

	to, err := parseID(fields[keyTo])
	if err != nil {
		return nil, ierrors.Wrap(err, "to")
	}

	amount, err := cast.ToFloat64E(fields[keyAmount])
	if err != nil {
		return nil, ierrors.Wrap(err, "amount")
	}

	return qf.NewContribution(qf.ContributorID(from), qf.ProjectID(to), amount), nil
}

// parseID accepts integral values in the range of uint32, given as numbers or numeric strings.
func parseID(value interface{}) (uint32, error) {
	id, err := cast.ToFloat64E(value)
	if err != nil {
		return 0, err
	}

	if id != math.Trunc(id) || id < 0 || id > math.MaxUint32 {
		return 0, ierrors.Errorf("%v is not a valid id", value)
	}

	return uint32(id), nil
}

// orEmptyList maps a missing list to an empty one.
func orEmptyList(value interface{}) interface{} {
	if value == nil {
		return []interface{}{}
	}

	return value
}
