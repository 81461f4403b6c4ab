package camera

import (
	_ "embed"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed dialects.yaml
var dialectsYAML []byte

// Dialect describes one vendor's control API layout.
type Dialect struct {
	// Name is the identifier used in the configuration file
	Name string `yaml:"name"`

	// Description is shown by the status command
	Description string `yaml:"description"`

	// Status is a read-only query used as the reachability probe
	Status string `yaml:"status"`

	// GetProfile reads the active video input profile
	GetProfile string `yaml:"get_profile"`

	// SetProfile selects a profile; contains {profile}
	SetProfile string `yaml:"set_profile"`

	// SetInfrared sets the IR-cut filter mode; contains {infrared}
	SetInfrared string `yaml:"set_infrared"`

	// InfraredDay and InfraredNight are the filter values for each mode
	InfraredDay   int `yaml:"infrared_day"`
	InfraredNight int `yaml:"infrared_night"`
}

// SetProfilePath renders SetProfile for a profile id.
func (d *Dialect) SetProfilePath(profile int) string {
	return strings.ReplaceAll(d.SetProfile, "{profile}", strconv.Itoa(profile))
}

// SetInfraredPath renders SetInfrared for a filter mode.
func (d *Dialect) SetInfraredPath(mode int) string {
	return strings.ReplaceAll(d.SetInfrared, "{infrared}", strconv.Itoa(mode))
}

type dialectCatalog struct {
	Dialects []*Dialect `yaml:"dialects"`
}

var (
	dialects     map[string]*Dialect
	dialectsOnce sync.Once
	dialectsErr  error
)

// loadDialects parses the embedded catalog once.
func loadDialects() (map[string]*Dialect, error) {
	dialectsOnce.Do(func() {
		var catalog dialectCatalog
		if err := yaml.Unmarshal(dialectsYAML, &catalog); err != nil {
			dialectsErr = fmt.Errorf("failed to parse dialect catalog: %w", err)
			return
		}

		dialects = make(map[string]*Dialect, len(catalog.Dialects))
		for _, d := range catalog.Dialects {
			if d.Name == "" || d.Status == "" || d.SetProfile == "" || d.SetInfrared == "" {
				dialectsErr = fmt.Errorf("dialect catalog entry %q is incomplete", d.Name)
				return
			}
			dialects[d.Name] = d
		}
	})
	return dialects, dialectsErr
}

// LookupDialect returns the named dialect.
func LookupDialect(name string) (*Dialect, error) {
	all, err := loadDialects()
	if err != nil {
		return nil, err
	}
	d, ok := all[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown camera dialect %q (known: %s)", name, strings.Join(DialectNames(), ", "))
	}
	return d, nil
}

// DialectNames lists the catalog entries in alphabetical order.
func DialectNames() []string {
	all, _ := loadDialects()
	names := make([]string, 0, len(all))
	for name := range all {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
