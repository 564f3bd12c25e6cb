package core

import (
	"fmt"

	"github.com/huangsam/devpulse/schema"
)

// Rule catalogue sections.
const (
	sectionDerived   = "Derived features"
	sectionAgeGroups = "Age groups"
	sectionChurn     = "Churn"
	sectionAdvice    = "Recommendations"
)

// RulesCatalogue lists every derivation, bin and rule the pipeline applies,
// with the churn rule shown for the active thresholds.
func RulesCatalogue(t schema.ChurnThresholds) schema.RulesRenderModel {
	rules := []schema.RuleDefinition{
		{Section: sectionDerived, Name: schema.ColBatteryEfficiency, Condition: "App_Usage_Time / Battery_Drain", Outcome: "minutes of usage per mAh; records with zero drain are dropped"},
		{Section: sectionDerived, Name: schema.ColUsagePerApp, Condition: "App_Usage_Time / Number_of_Apps_Installed", Outcome: "minutes per installed app; records with zero apps are dropped"},
		{Section: sectionDerived, Name: schema.ColHeavyUser, Condition: fmt.Sprintf("App_Usage_Time > %g AND Data_Usage > %g", schema.HeavyUsageMin, schema.HeavyDataMin), Outcome: "true"},
		{Section: sectionDerived, Name: "<column>" + schema.EncodedSuffix, Condition: "distinct values sorted lexicographically", Outcome: "index of the value; unclassified age group is -1"},
	}

	bounds := []string{"(0,25]", "(25,35]", "(35,45]", "(45,60]", "(60,100]"}
	for i, g := range schema.AllAgeGroups {
		rules = append(rules, schema.RuleDefinition{Section: sectionAgeGroups, Name: string(g), Condition: "Age in " + bounds[i], Outcome: string(g)})
	}
	rules = append(rules, schema.RuleDefinition{Section: sectionAgeGroups, Name: "unclassified", Condition: "Age outside (0,100]", Outcome: "no group"})

	rules = append(rules, schema.RuleDefinition{
		Section:   sectionChurn,
		Name:      string(schema.AtRiskLabel),
		Condition: fmt.Sprintf("App_Usage_Time < %g AND Screen_On_Time < %g AND Data_Usage < %g", t.Usage, t.Screen, t.Data),
		Outcome:   "flagged; values equal to a threshold stay " + string(schema.RetainedLabel),
	})

	rules = append(rules,
		schema.RuleDefinition{Section: sectionAdvice, Name: "1a", Condition: fmt.Sprintf("mean App_Usage_Time < %g", schema.LowUsageMean), Outcome: schema.AdviceReengage},
		schema.RuleDefinition{Section: sectionAdvice, Name: "1b", Condition: fmt.Sprintf("mean App_Usage_Time >= %g", schema.LowUsageMean), Outcome: schema.AdviceLoyalty},
		schema.RuleDefinition{Section: sectionAdvice, Name: "2", Condition: fmt.Sprintf("mean Battery_Drain > %g", schema.HighDrainMean), Outcome: schema.AdviceOptimizeDrain},
		schema.RuleDefinition{Section: sectionAdvice, Name: "3", Condition: fmt.Sprintf("mean Data_Usage > %g", schema.HighDataMean), Outcome: schema.AdviceDataSaving},
		schema.RuleDefinition{Section: sectionAdvice, Name: "4", Condition: fmt.Sprintf("behavior class filter set and <= %d", schema.LowEngagementMax), Outcome: schema.AdviceOnboarding},
		schema.RuleDefinition{Section: sectionAdvice, Name: "5", Condition: fmt.Sprintf("mean App_Usage_Time > %g AND mean Data_Usage < %g", schema.RichUsageMean, schema.RichDataMeanLimit), Outcome: schema.AdviceRichContent},
	)

	return schema.RulesRenderModel{
		Title:       "Pipeline Rules",
		Description: "Derivations, bins and rules applied to every dataset. Recommendation rules are evaluated in order and each may fire independently.",
		Rules:       rules,
	}
}
