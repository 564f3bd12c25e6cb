package core

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/devpulse/schema"
	"github.com/stretchr/testify/require"
)

// rawRecord builds a valid record; callers override what they need.
func rawRecord(id string, usage, screen, drain float64, apps int, data float64, age int, gender, opSys string, class int) schema.Record {
	return schema.Record{
		UserID:          id,
		DeviceModel:     "Pixel 5",
		OperatingSystem: opSys,
		AppUsageTime:    usage,
		ScreenOnTime:    screen,
		BatteryDrain:    drain,
		AppsInstalled:   apps,
		DataUsage:       data,
		Age:             age,
		Gender:          gender,
		BehaviorClass:   class,
	}
}

// segmentedRecords returns three well separated usage profiles of four users each.
func segmentedRecords() []schema.Record {
	var out []schema.Record
	for i := range 4 {
		d := float64(i)
		out = append(out,
			rawRecord(fmt.Sprintf("light-%d", i), 40+d, 1.2+d/10, 400+d*5, 12, 120+d, 22+i, "Female", "iOS", 1),
			rawRecord(fmt.Sprintf("mid-%d", i), 220+d, 5.1+d/10, 1300+d*5, 45, 700+d, 38+i, "Male", "Android", 3),
			rawRecord(fmt.Sprintf("heavy-%d", i), 540+d, 10.5+d/10, 2600+d*5, 90, 2200+d, 51+i, "Male", "Android", 5),
		)
	}
	return out
}

// testSnapshot enriches and encodes records for use in tests.
func testSnapshot(t *testing.T, records []schema.Record) *schema.Snapshot {
	t.Helper()
	snap, err := BuildSnapshot("test", records, schema.DataQualityReport{})
	require.NoError(t, err)
	return snap
}

// writeDatasetCSV writes records as a dataset file and returns its path.
func writeDatasetCSV(t *testing.T, records []schema.Record) string {
	t.Helper()
	var b strings.Builder
	b.WriteString(strings.Join(schema.RequiredColumns, ",") + "\n")
	for _, r := range records {
		fmt.Fprintf(&b, "%s,%s,%s,%g,%g,%g,%d,%g,%d,%s,%d\n",
			r.UserID, r.DeviceModel, r.OperatingSystem, r.AppUsageTime, r.ScreenOnTime,
			r.BatteryDrain, r.AppsInstalled, r.DataUsage, r.Age, r.Gender, r.BehaviorClass)
	}
	path := filepath.Join(t.TempDir(), "dataset.csv")
	require.NoError(t, os.WriteFile(path, []byte(b.String()), 0o644))
	return path
}
