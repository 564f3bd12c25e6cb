package schema

// Traits narrows a record set by exact match. Zero values pass everything through.
type Traits struct {
	OperatingSystem string   `json:"operating_system,omitempty"`
	Gender          string   `json:"gender,omitempty"`
	BehaviorClass   int      `json:"behavior_class,omitempty"`
	AgeGroup        AgeGroup `json:"age_group,omitempty"`
}

// IsZero reports whether no trait is set.
func (t Traits) IsZero() bool {
	return t == Traits{}
}

// Matches reports whether r satisfies every set trait.
func (t Traits) Matches(r EnrichedRecord) bool {
	if t.OperatingSystem != "" && r.OperatingSystem != t.OperatingSystem {
		return false
	}
	if t.Gender != "" && r.Gender != t.Gender {
		return false
	}
	if t.BehaviorClass != 0 && r.BehaviorClass != t.BehaviorClass {
		return false
	}
	if t.AgeGroup != Unclassified && r.AgeGroup != t.AgeGroup {
		return false
	}
	return true
}

// PersonaMatch is the outcome of a persona query. Found is false when nothing matched.
type PersonaMatch struct {
	Found      bool           `json:"found"`
	Candidates int            `json:"candidates"`
	Traits     Traits         `json:"traits"`
	Record     EnrichedRecord `json:"record"`
	Card       PersonaCard    `json:"card"`
}

// PersonaCard is the formatted summary of a persona.
type PersonaCard struct {
	Title      string   `json:"title"`
	Lines      []string `json:"lines"`
	Engagement string   `json:"engagement"`
}

// ChurnThresholds are the three strict upper bounds of the churn rule.
type ChurnThresholds struct {
	Usage  float64 `json:"usage"`  // App_Usage_Time, minutes per day
	Screen float64 `json:"screen"` // Screen_On_Time, hours per day
	Data   float64 `json:"data"`   // Data_Usage, MB per day
}

// ChurnRecord is an enriched record with its churn flag for one threshold set.
type ChurnRecord struct {
	EnrichedRecord
	AtRisk bool `json:"at_risk"`
}

// Label returns the display label of the flag.
func (c ChurnRecord) Label() ChurnLabel {
	if c.AtRisk {
		return AtRiskLabel
	}
	return RetainedLabel
}

// ChurnSummary counts retained and at-risk records.
type ChurnSummary struct {
	Retained int `json:"retained"`
	AtRisk   int `json:"at_risk"`
	Total    int `json:"total"`
}

// ChurnResult bundles what the churn view shows.
type ChurnResult struct {
	Thresholds ChurnThresholds `json:"thresholds"`
	Summary    ChurnSummary    `json:"summary"`
	HighRisk   []ChurnRecord   `json:"high_risk"`
	Limit      int             `json:"limit"` // 0 means unbounded
}

// ColumnStats is one column of a describe() table.
type ColumnStats struct {
	Column string  `json:"column"`
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std"`
	Min    float64 `json:"min"`
	Q25    float64 `json:"q25"`
	Median float64 `json:"median"`
	Q75    float64 `json:"q75"`
	Max    float64 `json:"max"`
}

// RecommendationResult bundles what the recommend view shows.
type RecommendationResult struct {
	Traits          Traits        `json:"traits"`
	Cluster         *int          `json:"cluster,omitempty"`
	Matched         int           `json:"matched"`
	Recommendations []string      `json:"recommendations"`
	Stats           []ColumnStats `json:"stats"`
	Empty           bool          `json:"empty"`
}

// GroupMean is the mean of a column within one category value.
type GroupMean struct {
	Group string  `json:"group"`
	Value float64 `json:"value"`
	Count int     `json:"count"`
}

// Correlate names a column and its correlation with a reference column.
type Correlate struct {
	Column      string  `json:"column"`
	Coefficient float64 `json:"coefficient"`
}

// DescribeResult holds the exploratory insights of a snapshot.
type DescribeResult struct {
	Records              int                 `json:"records"`
	Quality              DataQualityReport   `json:"quality"`
	Stats                []ColumnStats       `json:"stats"`
	Columns              []string            `json:"columns"`
	Correlation          [][]float64         `json:"correlation"`
	UsageTopCorrelate    Correlate           `json:"usage_top_correlate"`
	UsageSkew            float64             `json:"usage_skew"`
	AgeScreenCorrelation float64             `json:"age_screen_correlation"`
	DrainByOS            []GroupMean         `json:"drain_by_os"`
	DataByAgeGroup       []GroupMean         `json:"data_by_age_group"`
	UsageByClass         []GroupMean         `json:"usage_by_class"`
	DataByDevice         []GroupMean         `json:"data_by_device"`
	UsageStdByAgeGroup   []GroupMean         `json:"usage_std_by_age_group"`
	TopDrainOS           GroupMean           `json:"top_drain_os"`
	TopDataAgeGroup      GroupMean           `json:"top_data_age_group"`
	TopDataDevice        GroupMean           `json:"top_data_device"`
	MostVariedAgeGroup   GroupMean           `json:"most_varied_age_group"`
	GenderCounts         map[string]int      `json:"gender_counts"`
	HeavyUserShare       float64             `json:"heavy_user_share"`
	Encodings            map[string]Encoding `json:"encodings"`
}

// RuleDefinition is one row of the rules catalogue.
type RuleDefinition struct {
	Section   string `json:"section"`
	Name      string `json:"name"`
	Condition string `json:"condition"`
	Outcome   string `json:"outcome"`
}

// RulesRenderModel is the full rules catalogue.
type RulesRenderModel struct {
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Rules       []RuleDefinition `json:"rules"`
}
