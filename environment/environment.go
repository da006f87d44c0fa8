// This file is part of tbsim.
//
// tbsim is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// tbsim is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with tbsim.  If not, see <https://www.gnu.org/licenses/>.

package environment

import (
	"github.com/jetsetilly/tbsim/hardware/preferences"
	"github.com/jetsetilly/tbsim/random"
)

// Label is used to name the environment.
type Label string

// Environment provides the context for a simulation instance. Nothing in a
// simulation is global so more than one instance can exist in the same
// process, each with its own environment.
type Environment struct {
	Label Label

	// any randomisation required by the simulation should be retrieved
	// through this structure
	Random *random.Random

	// the simulation preferences
	Prefs *preferences.Preferences
}

// NewEnvironment is the preferred method of initialisation for the Environment
// type. The prefs argument can be nil, in which case a new Preferences
// instance with default values is created.
func NewEnvironment(label Label, prefs *preferences.Preferences) *Environment {
	if prefs == nil {
		prefs = preferences.NewPreferences()
	}
	return &Environment{
		Label:  label,
		Random: random.NewRandom(nil),
		Prefs:  prefs,
	}
}

// Normalise ensures the environment is in a known default state. Useful for
// tests where the initial state must be the same for every run.
func (env *Environment) Normalise() {
	env.Random.ZeroSeed = true
	env.Prefs.SetDefaults()
}

func (env *Environment) String() string {
	if env.Label == "" {
		return "main"
	}
	return string(env.Label)
}
