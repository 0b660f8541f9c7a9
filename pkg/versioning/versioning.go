// Package versioning expands a configuration code filter into every stored
// code it should match, so a filter on a newer revision also selects
// entities tagged with the revisions it supersedes.
package versioning

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type Family string

const (
	FamilyPlatform    Family = "platform"
	FamilyODD         Family = "odd"
	FamilyEnvironment Family = "environment"
	FamilyTrailer     Family = "trailer"
)

// Lattice is an inclusion graph: a code includes every code reachable from it
// through Includes. Codes with Prefix that have no entry of their own
// include Base.
type Lattice struct {
	Prefix   string              `yaml:"prefix"`
	Base     string              `yaml:"base"`
	Includes map[string][]string `yaml:"includes"`
}

func DefaultODDLattice() Lattice {
	return Lattice{
		Prefix: "CFG-ODD-",
		Base:   "CFG-ODD-1",
		Includes: map[string][]string{
			"CFG-ODD-1.1": {"CFG-ODD-1"},
			"CFG-ODD-2":   {"CFG-ODD-1.1"},
		},
	}
}

func DefaultEnvironmentLattice() Lattice {
	return Lattice{
		Includes: map[string][]string{
			"CFG-ENV-2.1": {"CFG-ENV-1.1"},
		},
	}
}

type Matcher struct {
	lattices map[Family]Lattice
}

type Option func(*Matcher)

// WithLattice replaces the inclusion graph of a lattice-backed family.
func WithLattice(family Family, lattice Lattice) Option {
	return func(m *Matcher) {
		m.lattices[family] = lattice
	}
}

func NewMatcher(opts ...Option) *Matcher {
	m := &Matcher{
		lattices: map[Family]Lattice{
			FamilyODD:         DefaultODDLattice(),
			FamilyEnvironment: DefaultEnvironmentLattice(),
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func DefaultMatcher() *Matcher {
	return NewMatcher()
}

// LatticeFile is the YAML layout read by LoadLatticeFile.
type LatticeFile struct {
	ODD         *Lattice `yaml:"odd"`
	Environment *Lattice `yaml:"environment"`
}

// LoadLatticeFile reads lattice overrides from a YAML file. Families missing
// from the file keep their defaults.
func LoadLatticeFile(path string) ([]Option, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lattice file: %w", err)
	}

	var file LatticeFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse lattice file %s: %w", path, err)
	}

	var opts []Option
	if file.ODD != nil {
		opts = append(opts, WithLattice(FamilyODD, *file.ODD))
	}
	if file.Environment != nil {
		opts = append(opts, WithLattice(FamilyEnvironment, *file.Environment))
	}
	return opts, nil
}

// Expand returns the sorted set of codes matched by a filter on code. The set
// always contains code. An empty code means no constraint and returns nil.
func (m *Matcher) Expand(family Family, code string) []string {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil
	}

	var codes []string
	switch family {
	case FamilyPlatform:
		codes = expandPlatform(code)
	case FamilyODD, FamilyEnvironment:
		codes = m.lattices[family].expand(code)
	default:
		codes = []string{code}
	}

	return dedupe(codes)
}

const maxMinor = 1000

// expandPlatform handles <name>-<major>[.<minor>]: minor N of a major
// includes the bare major and minors 1..N.
func expandPlatform(code string) []string {
	idx := strings.LastIndex(code, "-")
	if idx <= 0 || idx == len(code)-1 {
		return []string{code}
	}
	name, version := code[:idx], code[idx+1:]

	major, minor, hasMinor := strings.Cut(version, ".")
	if _, err := strconv.Atoi(major); err != nil {
		return []string{code}
	}
	if !hasMinor {
		return []string{code}
	}
	n, err := strconv.Atoi(minor)
	if err != nil || n < 0 || n > maxMinor {
		return []string{code}
	}

	codes := []string{code, name + "-" + major}
	for i := 1; i <= n; i++ {
		codes = append(codes, fmt.Sprintf("%s-%s.%d", name, major, i))
	}
	return codes
}

func (l Lattice) expand(code string) []string {
	codes := []string{code}
	seen := map[string]bool{code: true}

	queue := append([]string{}, l.Includes[code]...)
	if _, ok := l.Includes[code]; !ok && l.Prefix != "" && l.Base != "" && strings.HasPrefix(code, l.Prefix) {
		queue = append(queue, l.Base)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if seen[current] {
			continue
		}
		seen[current] = true
		codes = append(codes, current)
		queue = append(queue, l.Includes[current]...)
	}
	return codes
}

func dedupe(codes []string) []string {
	seen := make(map[string]bool, len(codes))
	out := make([]string, 0, len(codes))
	for _, code := range codes {
		if !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}
	sort.Strings(out)
	return out
}
