/*
Copyright © 2024 the gasblend authors.
This file is part of gasblend.

gasblend is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

gasblend is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with gasblend.  If not, see <http://www.gnu.org/licenses/>.
*/

package gasutil

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/scubalib/gasblend"
	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

// CylinderSpec describes a cylinder in a catalog file. Either
// InternalVolume or Capacity must be given.
type CylinderSpec struct {
	Name string

	// Units is "imperial" or "metric".
	Units string

	// InternalVolume is the physical volume in cuft or L.
	InternalVolume float64

	// Capacity is the rated capacity at ServicePressure in cuft or L.
	Capacity float64

	ServicePressure float64
}

// Cylinder returns the cylinder described by s. Rated capacities are
// converted to internal volumes with equation of state st.
func (s CylinderSpec) Cylinder(st gasblend.State) (*gasblend.Cylinder, error) {
	u, err := gasblend.ParseUnitSystem(s.Units)
	if err != nil {
		return nil, fmt.Errorf("gasblend: cylinder %q: %v", s.Name, err)
	}
	var c *gasblend.Cylinder
	switch {
	case s.InternalVolume > 0:
		c = gasblend.NewCylinder(u, s.InternalVolume, s.ServicePressure)
	case s.Capacity > 0 && s.ServicePressure > 0:
		c, err = gasblend.CylinderFromCapacity(u, s.Capacity, s.ServicePressure, st)
		if err != nil {
			return nil, fmt.Errorf("gasblend: cylinder %q: %v", s.Name, err)
		}
	default:
		c = gasblend.NewCylinder(u, 0, s.ServicePressure)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("gasblend: cylinder %q: %w", s.Name, err)
	}
	return c, nil
}

// Catalog holds cylinder descriptions indexed by lower-case name.
type Catalog map[string]CylinderSpec

// ReadCatalog reads a TOML catalog of [[Cylinder]] tables from r.
func ReadCatalog(r io.Reader) (Catalog, error) {
	var f struct {
		Cylinder []CylinderSpec
	}
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("gasblend: reading cylinder catalog: %v", err)
	}
	c := make(Catalog, len(f.Cylinder))
	for _, s := range f.Cylinder {
		key := strings.ToLower(strings.TrimSpace(s.Name))
		if key == "" {
			return nil, fmt.Errorf("gasblend: cylinder catalog: cylinder without a name")
		}
		if _, ok := c[key]; ok {
			return nil, fmt.Errorf("gasblend: cylinder catalog: duplicate cylinder %q", s.Name)
		}
		c[key] = s
	}
	return c, nil
}

// LoadCatalog reads the cylinder catalog at path, which can contain
// environment variables.
func LoadCatalog(path string) (Catalog, error) {
	f, err := os.Open(os.ExpandEnv(path))
	if err != nil {
		return nil, fmt.Errorf("gasblend: opening cylinder catalog: %v", err)
	}
	defer f.Close()
	return ReadCatalog(f)
}

// Cylinder returns the named cylinder.
func (c Catalog) Cylinder(name string, st gasblend.State) (*gasblend.Cylinder, error) {
	s, ok := c[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("gasblend: cylinder %q is not in the catalog", name)
	}
	return s.Cylinder(st)
}

// ParseMix parses a gas description: "air", "oxygen" or "o2", "helium" or
// "he", "nitrogen" or "n2", a nitrox oxygen percentage such as "32", or an
// oxygen/helium trimix such as "18/45".
func ParseMix(s string) (gasblend.Mix, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "air":
		return gasblend.Air, nil
	case "oxygen", "o2":
		return gasblend.Oxygen, nil
	case "helium", "he":
		return gasblend.Helium, nil
	case "nitrogen", "n2":
		return gasblend.Nitrogen, nil
	}
	parts := strings.Split(strings.TrimSuffix(strings.TrimSpace(s), "%"), "/")
	if len(parts) > 2 || strings.TrimSpace(s) == "" {
		return gasblend.Mix{}, fmt.Errorf("gasblend: invalid mix %q", s)
	}
	var pct [2]float64
	for i, p := range parts {
		v, err := cast.ToFloat64E(strings.TrimSpace(p))
		if err != nil {
			return gasblend.Mix{}, fmt.Errorf("gasblend: invalid mix %q: %v", s, err)
		}
		pct[i] = v
	}
	return gasblend.NewMix(pct[0]/100, pct[1]/100)
}

func unitsConfig(cfg *viper.Viper) (gasblend.UnitSystem, error) {
	return gasblend.ParseUnitSystem(cfg.GetString("units"))
}

func stateConfig(cfg *viper.Viper) (gasblend.State, error) {
	return gasblend.ParseState(cfg.GetString("state"))
}

// temperatureConfig returns the absolute gas temperature.
func temperatureConfig(cfg *viper.Viper, u gasblend.UnitSystem) (float64, error) {
	s := strings.TrimSpace(cfg.GetString("temperature"))
	if s == "" {
		return u.AbsTempAmbient(), nil
	}
	t, err := cast.ToFloat64E(s)
	if err != nil {
		return 0, fmt.Errorf("gasblend: invalid temperature %q: %v", s, err)
	}
	abs := u.RelTempToAbs(t)
	if abs <= 0 {
		return 0, fmt.Errorf("gasblend: temperature %g is below absolute zero", t)
	}
	return abs, nil
}

// CylinderConfig returns the cylinder described by the configuration,
// expressed in the configured unit system.
func CylinderConfig(cfg *viper.Viper) (*gasblend.Cylinder, error) {
	u, err := unitsConfig(cfg)
	if err != nil {
		return nil, err
	}
	st, err := stateConfig(cfg)
	if err != nil {
		return nil, err
	}
	if name := cfg.GetString("cylinder"); name != "" {
		path := cfg.GetString("catalog")
		if path == "" {
			return nil, fmt.Errorf("gasblend: cylinder %q was requested but no catalog was given", name)
		}
		catalog, err := LoadCatalog(path)
		if err != nil {
			return nil, err
		}
		c, err := catalog.Cylinder(name, st)
		if err != nil {
			return nil, err
		}
		if c.Units == u {
			return c, nil
		}
		return gasblend.NewCylinder(u,
			u.ConvertCapacity(c.InternalVolume, c.Units),
			u.ConvertPressure(c.ServicePressure, c.Units)), nil
	}
	return CylinderSpec{
		Name:            "command line",
		Units:           u.String(),
		InternalVolume:  cfg.GetFloat64("internal-volume"),
		Capacity:        cfg.GetFloat64("capacity"),
		ServicePressure: cfg.GetFloat64("service-pressure"),
	}.Cylinder(st)
}

// SupplyConfig returns the gas supply described by the configuration.
func SupplyConfig(cfg *viper.Viper) (*gasblend.GasSupply, error) {
	c, err := CylinderConfig(cfg)
	if err != nil {
		return nil, err
	}
	st, err := stateConfig(cfg)
	if err != nil {
		return nil, err
	}
	mix, err := ParseMix(cfg.GetString("mix"))
	if err != nil {
		return nil, err
	}
	t, err := temperatureConfig(cfg, c.Units)
	if err != nil {
		return nil, err
	}
	p := cfg.GetFloat64("pressure")
	if p < 0 {
		return nil, fmt.Errorf("gasblend: pressure=%g but should be >=0", p)
	}
	return gasblend.NewGasSupplyAt(c, mix, p, st, t), nil
}
