package dataset

import (
	"strings"
	"testing"

	"github.com/huangsam/devpulse/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "User_ID,Device_Model,Operating_System,App_Usage_Time,Screen_On_Time,Battery_Drain,Number_of_Apps_Installed,Data_Usage,Age,Gender,User_Behavior_Class"

func TestParse(t *testing.T) {
	input := header + "\n" +
		"1,Google Pixel 5,Android,393,6.4,1872,67,1122,40,Male,4\n" +
		"2,OnePlus 9,Android,268,4.7,1331,42,944,47,Female,3\n"

	records, report, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, schema.Record{
		UserID:          "1",
		DeviceModel:     "Google Pixel 5",
		OperatingSystem: "Android",
		AppUsageTime:    393,
		ScreenOnTime:    6.4,
		BatteryDrain:    1872,
		AppsInstalled:   67,
		DataUsage:       1122,
		Age:             40,
		Gender:          "Male",
		BehaviorClass:   4,
	}, records[0])
	assert.Equal(t, schema.DataQualityReport{Total: 2, Kept: 2}, report)
}

func TestParse_ColumnOrderAndExtras(t *testing.T) {
	input := "Extra,User_Behavior_Class,Gender,Age,Data_Usage,Number_of_Apps_Installed,Battery_Drain,Screen_On_Time,App_Usage_Time,Operating_System,Device_Model,User_ID\n" +
		"x,2,Female,30,500,20,900,3.5,120,iOS,iPhone 12,u1\n"

	records, _, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "u1", records[0].UserID)
	assert.Equal(t, "iPhone 12", records[0].DeviceModel)
	assert.Equal(t, 2, records[0].BehaviorClass)
	assert.Equal(t, 120.0, records[0].AppUsageTime)
}

func TestParse_DropsBadRows(t *testing.T) {
	input := header + "\n" +
		"1,Pixel 5,Android,393,6.4,1872,67,1122,40,Male,4\n" +
		"2,Pixel 5,Android,,6.4,1872,67,1122,40,Male,4\n" + // empty usage
		"3,Pixel 5,Android,abc,6.4,1872,67,1122,40,Male,4\n" + // unparseable
		"4,Pixel 5,Android,393,6.4\n" + // short row
		"5,Pixel 5,Android,393,6.4,1872,67.5,1122,40,Male,4\n" + // fractional apps
		"6,Pixel 5,Android,393,6.4,1872,67.0,1122,40,Male,4\n" // integral float is fine

	records, report, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "6", records[1].UserID)
	assert.Equal(t, 67, records[1].AppsInstalled)
	assert.Equal(t, 6, report.Total)
	assert.Equal(t, 2, report.Kept)
	assert.Equal(t, 4, report.Dropped[schema.DropUnparseable])
	assert.ErrorIs(t, report.Err(), schema.ErrDataQuality)
}

func TestParse_MissingColumns(t *testing.T) {
	input := "User_ID,Device_Model,Operating_System\n1,Pixel 5,Android\n"
	_, _, err := Parse(strings.NewReader(input))
	require.Error(t, err)
	assert.ErrorIs(t, err, schema.ErrSchema)
	assert.Contains(t, err.Error(), schema.ColAppUsageTime)
	assert.Contains(t, err.Error(), schema.ColBehaviorClass)
}

func TestParse_EmptyInput(t *testing.T) {
	_, _, err := Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, schema.ErrSchema)
}

func TestParse_ByteOrderMark(t *testing.T) {
	input := "\ufeff" + header + "\n1,Pixel 5,Android,393,6.4,1872,67,1122,40,Male,4\n"
	records, _, err := Parse(strings.NewReader(input))
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
