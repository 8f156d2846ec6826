package configuration

import (
	"strings"

	"github.com/iotaledger/hive.go/ierrors"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/maps"
	"github.com/spf13/pflag"
)

// lowerPosflag implements a pflag command line provider with lower-cased keys.
type lowerPosflag struct {
	delim   string
	flagset *pflag.FlagSet
	ko      *koanf.Koanf
}

// lowerPosflagProvider returns a commandline flags provider that returns a nested map[string]interface{} of the
// flags, where the nesting hierarchy of keys is defined by delim.
//
// Default values of flags that were not set on the command line are only merged if the key does not exist in ko
// yet, so they never override values of other providers.
func lowerPosflagProvider(f *pflag.FlagSet, delim string, ko *koanf.Koanf) *lowerPosflag {
	return &lowerPosflag{
		flagset: f,
		delim:   delim,
		ko:      ko,
	}
}

// Read reads the flag variables and returns a nested conf map.
func (p *lowerPosflag) Read() (map[string]interface{}, error) {
	mp := make(map[string]interface{})
	p.flagset.VisitAll(func(f *pflag.Flag) {
		key := strings.ToLower(f.Name)
		if !f.Changed && p.ko != nil && p.ko.Exists(key) {
			return
		}

		var v interface{}
		switch f.Value.Type() {
		case "int":
			i, _ := p.flagset.GetInt(f.Name)
			v = int64(i)
		case "int64":
			v, _ = p.flagset.GetInt64(f.Name)
		case "uint32":
			i, _ := p.flagset.GetUint32(f.Name)
			v = int64(i)
		case "float64":
			v, _ = p.flagset.GetFloat64(f.Name)
		case "bool":
			v, _ = p.flagset.GetBool(f.Name)
		case "stringSlice":
			v, _ = p.flagset.GetStringSlice(f.Name)
		default:
			v = f.Value.String()
		}

		mp[key] = v
	})

	return maps.Unflatten(mp, p.delim), nil
}

// ReadBytes is not supported by the flag provider.
func (p *lowerPosflag) ReadBytes() ([]byte, error) {
	return nil, ierrors.New("pflag provider does not support this method")
}
