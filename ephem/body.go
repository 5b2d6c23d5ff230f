package ephem

import (
	"fmt"
	"strings"
)

// Body identifies a solar-system body whose position can be queried.
type Body int

const (
	Mercury Body = iota
	Venus
	EarthMoonBarycenter
	Mars
	Jupiter
	Saturn
	Uranus
	Neptune
	Pluto
	Moon
	Sun
	Earth
	SolarSystemBarycenter
)

var bodyNames = [...]string{
	Mercury:               "mercury",
	Venus:                 "venus",
	EarthMoonBarycenter:   "emb",
	Mars:                  "mars",
	Jupiter:               "jupiter",
	Saturn:                "saturn",
	Uranus:                "uranus",
	Neptune:               "neptune",
	Pluto:                 "pluto",
	Moon:                  "moon",
	Sun:                   "sun",
	Earth:                 "earth",
	SolarSystemBarycenter: "ssb",
}

// Bodies returns every queryable body in enumeration order.
func Bodies() []Body {
	out := make([]Body, len(bodyNames))
	for i := range out {
		out[i] = Body(i)
	}
	return out
}

func (b Body) String() string {
	if b < 0 || int(b) >= len(bodyNames) {
		return fmt.Sprintf("Body(%d)", int(b))
	}
	return bodyNames[b]
}

// ParseBody accepts the names produced by Body.String, case-insensitively,
// plus a few common long forms.
func ParseBody(s string) (Body, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	switch key {
	case "earth-moon-barycenter", "earthmoonbarycenter", "earth-moon":
		return EarthMoonBarycenter, nil
	case "solar-system-barycenter", "solarsystembarycenter", "barycenter":
		return SolarSystemBarycenter, nil
	}
	for i, name := range bodyNames {
		if name == key {
			return Body(i), nil
		}
	}
	return 0, fmt.Errorf("unknown body %q", s)
}

// slot returns the layout slot a body is stored in. Earth and the
// solar-system barycenter are derived and have no slot.
func (b Body) slot() (Slot, bool) {
	if b >= Mercury && b <= Sun {
		return Slot(b), true
	}
	return 0, false
}

// Slot keys the per-record coefficient layout table. The first eleven slots
// hold body positions in the order the file stores them; Nutation and
// Libration are angle sets that are never queryable as positions.
type Slot int

const (
	SlotMercury Slot = iota
	SlotVenus
	SlotEarthMoonBarycenter
	SlotMars
	SlotJupiter
	SlotSaturn
	SlotUranus
	SlotNeptune
	SlotPluto
	SlotMoon
	SlotSun
	SlotNutation
	SlotLibration

	// NumSlots is untyped so byte offsets derived from it stay untyped.
	NumSlots = iota
)

var slotNames = [NumSlots]string{
	"mercury", "venus", "emb", "mars", "jupiter", "saturn", "uranus",
	"neptune", "pluto", "moon", "sun", "nutation", "libration",
}

func (s Slot) String() string {
	if s < 0 || int(s) >= NumSlots {
		return fmt.Sprintf("Slot(%d)", int(s))
	}
	return slotNames[s]
}

// Components is the number of interpolated quantities per granule:
// two nutation angles, three for everything else.
func (s Slot) Components() int {
	if s == SlotNutation {
		return 2
	}
	return 3
}
