package schema

// Advisory strings emitted by the recommendation rules.
const (
	AdviceReengage      = "🔔 Send re-engagement notifications during peak hours."
	AdviceLoyalty       = "💎 Offer loyalty rewards to highly engaged users."
	AdviceOptimizeDrain = "🔋 Optimize app performance for high-drain devices."
	AdviceDataSaving    = "📶 Implement data-saving modes for power users."
	AdviceOnboarding    = "🎓 Re-show onboarding tutorials to low engagement users."
	AdviceRichContent   = "📈 Encourage use of richer in-app content or features."
)

// Recommendation rule thresholds.
const (
	LowUsageMean      = 200.0  // rule 1: below is low engagement
	HighDrainMean     = 1500.0 // rule 2
	HighDataMean      = 1000.0 // rule 3
	LowEngagementMax  = 2      // rule 4: behaviour classes at or below
	RichUsageMean     = 300.0  // rule 5: usage above
	RichDataMeanLimit = 500.0  // rule 5: data below
)

// Derivation thresholds.
const (
	HeavyUsageMin = 300.0  // Heavy_User needs App_Usage_Time above this
	HeavyDataMin  = 1000.0 // Heavy_User needs Data_Usage above this
)
