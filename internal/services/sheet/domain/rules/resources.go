package rules

import (
	"slices"
	"strings"

	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/actor"
	"github.com/louisbranch/voidsheet/internal/services/sheet/domain/record"
)

// ResourceResult is a resolved current/max pool.
type ResourceResult struct {
	Value      int `json:"value"`
	Base       int `json:"base"`
	Modifier   int `json:"modifier"`
	OriginPath int `json:"originPath"`
	Max        int `json:"max"`
}

// Resources holds the wound and fate pools.
type Resources struct {
	Wounds ResourceResult `json:"wounds"`
	Fate   ResourceResult `json:"fate"`
}

// ResolveResources adds generic and origin-path grants to the stored maxima.
func ResolveResources(a actor.Actor, mods ModifierSet, origin OriginPathGrants) Resources {
	return Resources{
		Wounds: resolveResource(a.Wounds, mods.ResourceTotal(ResourceWounds), origin.Wounds),
		Fate:   resolveResource(a.Fate, mods.ResourceTotal(ResourceFate), origin.Fate),
	}
}

func resolveResource(r actor.Resource, modifier, origin int) ResourceResult {
	return ResourceResult{
		Value:      r.Value,
		Base:       r.Max,
		Modifier:   modifier,
		OriginPath: origin,
		Max:        r.Max + modifier + origin,
	}
}

// CharacterAptitudes returns the sorted union of aptitudes granted by
// origin-path records.
func CharacterAptitudes(records []record.Record) []string {
	var out []string
	for _, r := range records {
		if r.Kind != record.KindOriginPath {
			continue
		}
		for _, apt := range r.Aptitudes {
			apt = strings.TrimSpace(apt)
			if apt != "" && !slices.Contains(out, apt) {
				out = append(out, apt)
			}
		}
	}
	slices.Sort(out)
	return out
}
