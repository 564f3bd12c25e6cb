package outwriter

import (
	"github.com/huangsam/devpulse/internal/contract"
	"github.com/huangsam/devpulse/schema"
)

func testRecord(id string, usage, screen, data float64, heavy bool) schema.EnrichedRecord {
	return schema.EnrichedRecord{
		Record: schema.Record{
			UserID:          id,
			DeviceModel:     "Google Pixel 5",
			OperatingSystem: "Android",
			AppUsageTime:    usage,
			ScreenOnTime:    screen,
			BatteryDrain:    1200,
			AppsInstalled:   40,
			DataUsage:       data,
			Age:             30,
			Gender:          "Female",
			BehaviorClass:   3,
		},
		BatteryEfficiency: usage / 1200,
		UsagePerApp:       usage / 40,
		AgeGroup:          schema.AgeGroup26to35,
		HeavyUser:         heavy,
		Encoded: map[string]int{
			schema.ColGender:          0,
			schema.ColOperatingSystem: 0,
			schema.ColDeviceModel:     0,
			schema.ColAgeGroup:        1,
		},
	}
}

func testSnapshot() *schema.Snapshot {
	return &schema.Snapshot{
		Source: "/tmp/users.csv",
		Records: []schema.EnrichedRecord{
			testRecord("1", 393, 6.4, 1122, true),
			testRecord("2", 268, 4.7, 944, false),
			testRecord("3", 154, 4.0, 322, false),
		},
		Encodings: map[string]schema.Encoding{
			schema.ColGender:          {Column: schema.ColGender, Values: []string{"Female", "Male"}},
			schema.ColOperatingSystem: {Column: schema.ColOperatingSystem, Values: []string{"Android", "iOS"}},
		},
		Quality: schema.DataQualityReport{Total: 3, Kept: 3},
	}
}

func testConfig(output schema.OutputMode) *contract.Config {
	return &contract.Config{
		Output:       output,
		Precision:    2,
		Width:        120,
		CacheBackend: schema.SQLiteBackend,
		Thresholds: schema.ChurnThresholds{
			Usage:  contract.DefaultUsageThreshold,
			Screen: contract.DefaultScreenThreshold,
			Data:   contract.DefaultDataThreshold,
		},
	}
}
