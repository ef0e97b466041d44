package parameters

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"github.com/edp1096/toy-cell/internal/consts"
)

var (
	ErrUnknownParameter = errors.New("unknown parameter")
	ErrUnknownFunction  = errors.New("unknown parameter function")
)

// Parameter names
const (
	ReferenceTemperature = "Reference temperature [K]"
	GasConstant          = "Ideal gas constant [J.K-1.mol-1]"

	PositiveDiffusivity           = "Positive electrode diffusivity [m2.s-1]"
	PositiveReactionRate          = "Positive electrode reaction rate"
	PositiveDiffusivityActivation = "Positive electrode diffusivity activation energy [J.mol-1]"
	PositiveReactionActivation    = "Positive electrode reaction rate activation energy [J.mol-1]"
	PositiveParticleRadius        = "Positive particle radius [m]"
	PositiveMaxConcentration      = "Maximum concentration in positive electrode [mol.m-3]"
	PositiveInitialStoichiometry  = "Initial stoichiometry in positive electrode"
	ElectrolyteConcentration      = "Initial concentration in electrolyte [mol.m-3]"
)

type Inputs struct {
	Sto float64 // electrode stoichiometry
	T   float64 // temperature (K)
}

// Function is a parameter that depends on the model state. Scalars it needs
// (activation energies etc.) are read from the set it is evaluated against.
type Function func(in Inputs, set *Set) (float64, error)

var registry = map[string]Function{
	"nco_diffusivity_Ecker2015": func(in Inputs, set *Set) (float64, error) {
		tinf, eds, rg, err := set.values3(ReferenceTemperature, PositiveDiffusivityActivation, GasConstant)
		if err != nil {
			return 0, err
		}
		return NcoDiffusivityEcker2015(in.Sto, in.T, tinf, eds, rg), nil
	},
	"nco_electrolyte_reaction_rate_Ecker2015": func(in Inputs, set *Set) (float64, error) {
		tinf, er, rg, err := set.values3(ReferenceTemperature, PositiveReactionActivation, GasConstant)
		if err != nil {
			return 0, err
		}
		return NcoElectrolyteReactionRateEcker2015(in.T, tinf, er, rg), nil
	},
}

func Register(name string, fn Function) {
	registry[name] = fn
}

func Lookup(name string) (Function, bool) {
	fn, ok := registry[name]
	return fn, ok
}

func FunctionNames() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Set is a named parameter set. Functions maps a parameter name to the name of
// a registered Function.
type Set struct {
	Name      string             `yaml:"name"`
	Values    map[string]float64 `yaml:"values"`
	Functions map[string]string  `yaml:"functions"`
}

func NewSet(name string) *Set {
	return &Set{
		Name:      name,
		Values:    make(map[string]float64),
		Functions: make(map[string]string),
	}
}

// Ecker2015 returns the LiNiCoO2 positive electrode set.
func Ecker2015() *Set {
	s := NewSet("Ecker2015")
	s.Values[ReferenceTemperature] = consts.TREF
	s.Values[GasConstant] = consts.GAS
	s.Values[PositiveDiffusivityActivation] = 8.06e4
	s.Values[PositiveReactionActivation] = 4.36e4
	s.Values[PositiveParticleRadius] = 6.5e-6
	s.Values[PositiveMaxConcentration] = 48580
	s.Values[PositiveInitialStoichiometry] = 0.6
	s.Values[ElectrolyteConcentration] = 1000

	s.Functions[PositiveDiffusivity] = "nco_diffusivity_Ecker2015"
	s.Functions[PositiveReactionRate] = "nco_electrolyte_reaction_rate_Ecker2015"
	return s
}

func Load(r io.Reader) (*Set, error) {
	s := NewSet("")
	if err := yaml.NewDecoder(r).Decode(s); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decoding parameter set: %w", err)
	}
	if s.Values == nil {
		s.Values = make(map[string]float64)
	}
	if s.Functions == nil {
		s.Functions = make(map[string]string)
	}
	for param, fnName := range s.Functions {
		if _, ok := Lookup(fnName); !ok {
			return nil, fmt.Errorf("%w: %q for %q", ErrUnknownFunction, fnName, param)
		}
	}
	return s, nil
}

func LoadFile(path string) (*Set, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening parameter set: %w", err)
	}
	defer f.Close()
	return Load(f)
}

// Update overwrites s with every value and function defined in other.
func (s *Set) Update(other *Set) {
	if other.Name != "" {
		s.Name = other.Name
	}
	for k, v := range other.Values {
		s.Values[k] = v
	}
	for k, v := range other.Functions {
		s.Functions[k] = v
	}
}

func (s *Set) Value(name string) (float64, error) {
	v, ok := s.Values[name]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParameter, name)
	}
	return v, nil
}

func (s *Set) values3(a, b, c string) (float64, float64, float64, error) {
	va, err := s.Value(a)
	if err != nil {
		return 0, 0, 0, err
	}
	vb, err := s.Value(b)
	if err != nil {
		return 0, 0, 0, err
	}
	vc, err := s.Value(c)
	if err != nil {
		return 0, 0, 0, err
	}
	return va, vb, vc, nil
}

// Evaluate resolves a function parameter by name. Plain values are returned
// as constants.
func (s *Set) Evaluate(name string, in Inputs) (float64, error) {
	if err := CheckTemperature(in.T); err != nil {
		return 0, err
	}
	fnName, ok := s.Functions[name]
	if !ok {
		return s.Value(name)
	}
	fn, ok := Lookup(fnName)
	if !ok {
		return 0, fmt.Errorf("%w: %q for %q", ErrUnknownFunction, fnName, name)
	}
	v, err := fn(in, s)
	if err != nil {
		return 0, fmt.Errorf("evaluating %q: %w", name, err)
	}
	return v, nil
}
