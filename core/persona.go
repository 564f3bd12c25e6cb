package core

import (
	"fmt"
	"math/rand/v2"

	"github.com/huangsam/devpulse/schema"
)

// FilterRecords keeps the records matching every set trait, in dataset order.
// Zero traits pass everything through.
func FilterRecords(records []schema.EnrichedRecord, traits schema.Traits) []schema.EnrichedRecord {
	if traits.IsZero() {
		return records
	}
	var out []schema.EnrichedRecord
	for _, r := range records {
		if traits.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// SelectPersona draws one record uniformly from those matching traits.
// A nil seed draws from a random source; a seed makes the draw reproducible.
// When nothing matches, the match reports Found=false instead of failing.
func SelectPersona(records []schema.EnrichedRecord, traits schema.Traits, seed *uint64) schema.PersonaMatch {
	candidates := FilterRecords(records, traits)
	match := schema.PersonaMatch{Traits: traits, Candidates: len(candidates)}
	if len(candidates) == 0 {
		return match
	}

	var idx int
	if seed != nil {
		rng := rand.New(rand.NewPCG(*seed, *seed))
		idx = rng.IntN(len(candidates))
	} else {
		idx = rand.IntN(len(candidates))
	}
	match.Found = true
	match.Record = candidates[idx]
	match.Card = BuildPersonaCard(match.Record)
	return match
}

// BuildPersonaCard formats the persona summary shown next to the raw record.
func BuildPersonaCard(r schema.EnrichedRecord) schema.PersonaCard {
	engagement := "power usage"
	if r.BehaviorClass <= schema.LowEngagementMax {
		engagement = "engagement retention"
	}
	group := string(r.AgeGroup)
	if group == "" {
		group = "unclassified"
	}
	heavy := "no"
	if r.HeavyUser {
		heavy = "yes"
	}
	return schema.PersonaCard{
		Title: fmt.Sprintf("%s, %s user aged %d (%s)", r.UserID, r.OperatingSystem, r.Age, group),
		Lines: []string{
			fmt.Sprintf("Device: %s", r.DeviceModel),
			fmt.Sprintf("Gender: %s", r.Gender),
			fmt.Sprintf("Behavior class: %d", r.BehaviorClass),
			fmt.Sprintf("Heavy user: %s", heavy),
			fmt.Sprintf("App usage: %.0f min/day (%.1f hrs/day)", r.AppUsageTime, r.AppUsageTime/60),
			fmt.Sprintf("Screen on: %.1f hrs/day", r.ScreenOnTime),
			fmt.Sprintf("Data usage: %.0f MB/day", r.DataUsage),
			fmt.Sprintf("Battery drain: %.0f mAh/day", r.BatteryDrain),
			fmt.Sprintf("Battery efficiency: %.2f min/mAh", r.BatteryEfficiency),
			fmt.Sprintf("Apps installed: %d (%.1f min/app)", r.AppsInstalled, r.UsagePerApp),
		},
		Engagement: fmt.Sprintf("This persona is a good target for %s strategies.", engagement),
	}
}
