// Package schema has models, column names and error types for all parts of devpulse.
package schema

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Record is one device/user observation from the dataset.
type Record struct {
	UserID          string  `json:"user_id"`
	DeviceModel     string  `json:"device_model"`
	OperatingSystem string  `json:"operating_system"`
	AppUsageTime    float64 `json:"app_usage_time"` // minutes per day
	ScreenOnTime    float64 `json:"screen_on_time"` // hours per day
	BatteryDrain    float64 `json:"battery_drain"`  // mAh per day
	AppsInstalled   int     `json:"apps_installed"`
	DataUsage       float64 `json:"data_usage"` // MB per day
	Age             int     `json:"age"`
	Gender          string  `json:"gender"`
	BehaviorClass   int     `json:"behavior_class"` // ordinal, 1 (light) to 5 (extreme)
}

// Validate checks that all required fields are present and usable.
func (r Record) Validate() error {
	for name, v := range map[string]string{
		ColUserID:          r.UserID,
		ColDeviceModel:     r.DeviceModel,
		ColOperatingSystem: r.OperatingSystem,
		ColGender:          r.Gender,
	} {
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: %s is empty", ErrDataQuality, name)
		}
	}
	for name, v := range map[string]float64{
		ColAppUsageTime: r.AppUsageTime,
		ColScreenOnTime: r.ScreenOnTime,
		ColBatteryDrain: r.BatteryDrain,
		ColDataUsage:    r.DataUsage,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return fmt.Errorf("%w: %s is invalid (%v)", ErrDataQuality, name, v)
		}
	}
	if r.AppsInstalled < 0 {
		return fmt.Errorf("%w: %s is negative", ErrDataQuality, ColAppsInstalled)
	}
	if r.BehaviorClass < 1 {
		return fmt.Errorf("%w: %s must be at least 1", ErrDataQuality, ColBehaviorClass)
	}
	return nil
}

// EnrichedRecord is a Record plus the fields derived from it.
type EnrichedRecord struct {
	Record
	BatteryEfficiency float64        `json:"battery_efficiency"` // minutes of usage per mAh
	UsagePerApp       float64        `json:"usage_per_app"`      // minutes per installed app
	AgeGroup          AgeGroup       `json:"age_group"`
	HeavyUser         bool           `json:"heavy_user"`
	Encoded           map[string]int `json:"encoded,omitempty"` // <column>_Encoded twins
}

// Feature returns the numeric value of the named column.
// Encoded twins are addressed as "<column>_Encoded".
func (r EnrichedRecord) Feature(name string) (float64, error) {
	switch name {
	case ColAppUsageTime:
		return r.AppUsageTime, nil
	case ColScreenOnTime:
		return r.ScreenOnTime, nil
	case ColBatteryDrain:
		return r.BatteryDrain, nil
	case ColAppsInstalled:
		return float64(r.AppsInstalled), nil
	case ColDataUsage:
		return r.DataUsage, nil
	case ColAge:
		return float64(r.Age), nil
	case ColBehaviorClass:
		return float64(r.BehaviorClass), nil
	case ColBatteryEfficiency:
		return r.BatteryEfficiency, nil
	case ColUsagePerApp:
		return r.UsagePerApp, nil
	case ColHeavyUser:
		if r.HeavyUser {
			return 1, nil
		}
		return 0, nil
	}
	if base, ok := strings.CutSuffix(name, EncodedSuffix); ok && IsCategoricalColumn(base) {
		code, ok := r.Encoded[base]
		if !ok {
			return 0, fmt.Errorf("%w: column %s has not been encoded", ErrSchema, base)
		}
		return float64(code), nil
	}
	return 0, fmt.Errorf("%w: unknown numeric column %q", ErrSchema, name)
}

// Category returns the value of the named categorical column.
func (r EnrichedRecord) Category(name string) (string, error) {
	switch name {
	case ColGender:
		return r.Gender, nil
	case ColOperatingSystem:
		return r.OperatingSystem, nil
	case ColDeviceModel:
		return r.DeviceModel, nil
	case ColAgeGroup:
		return string(r.AgeGroup), nil
	}
	return "", fmt.Errorf("%w: unknown categorical column %q", ErrSchema, name)
}

// ValidateFeatureName checks that name addresses a numeric column.
func ValidateFeatureName(name string) error {
	if base, ok := strings.CutSuffix(name, EncodedSuffix); ok && IsCategoricalColumn(base) {
		return nil
	}
	_, err := EnrichedRecord{}.Feature(name)
	return err
}

// Encoding maps the distinct values of one categorical column to integer codes.
// The code of a value is its index in Values, which is sorted lexicographically.
type Encoding struct {
	Column string   `json:"column"`
	Values []string `json:"values"`
}

// Code returns the integer code of value.
func (e Encoding) Code(value string) (int, bool) {
	if i, ok := slices.BinarySearch(e.Values, value); ok {
		return i, true
	}
	return UnclassifiedCode, false
}

// Decode returns the value behind code.
func (e Encoding) Decode(code int) (string, bool) {
	if code < 0 || code >= len(e.Values) {
		return "", false
	}
	return e.Values[code], true
}

// Snapshot is the enriched, encoded record set shared by every view of one run.
type Snapshot struct {
	Source    string              `json:"source"`
	Records   []EnrichedRecord    `json:"records"`
	Encodings map[string]Encoding `json:"encodings"`
	Quality   DataQualityReport   `json:"quality"`
}
