package schema

// Raw dataset columns.
const (
	ColUserID          = "User_ID"
	ColDeviceModel     = "Device_Model"
	ColOperatingSystem = "Operating_System"
	ColAppUsageTime    = "App_Usage_Time"
	ColScreenOnTime    = "Screen_On_Time"
	ColBatteryDrain    = "Battery_Drain"
	ColAppsInstalled   = "Number_of_Apps_Installed"
	ColDataUsage       = "Data_Usage"
	ColAge             = "Age"
	ColGender          = "Gender"
	ColBehaviorClass   = "User_Behavior_Class"
)

// Derived columns.
const (
	ColBatteryEfficiency = "Battery_Efficiency"
	ColUsagePerApp       = "Usage_Per_App"
	ColAgeGroup          = "Age_Group"
	ColHeavyUser         = "Heavy_User"
)

// EncodedSuffix is appended to a categorical column name to address its integer twin.
const EncodedSuffix = "_Encoded"

// RequiredColumns lists the columns every dataset must carry.
var RequiredColumns = []string{
	ColUserID,
	ColDeviceModel,
	ColOperatingSystem,
	ColAppUsageTime,
	ColScreenOnTime,
	ColBatteryDrain,
	ColAppsInstalled,
	ColDataUsage,
	ColAge,
	ColGender,
	ColBehaviorClass,
}

// CategoricalColumns lists the columns that can be encoded.
var CategoricalColumns = []string{ColGender, ColOperatingSystem, ColDeviceModel, ColAgeGroup}

// NumericColumns lists the raw and derived numeric columns, in display order.
var NumericColumns = []string{
	ColAppUsageTime,
	ColScreenOnTime,
	ColBatteryDrain,
	ColAppsInstalled,
	ColDataUsage,
	ColAge,
	ColBehaviorClass,
	ColBatteryEfficiency,
	ColUsagePerApp,
}

// DefaultEncodedColumns are encoded by every pipeline run.
var DefaultEncodedColumns = []string{ColGender, ColOperatingSystem, ColDeviceModel, ColAgeGroup}

// DefaultClusterFeatures are the columns used for segmentation when none are configured.
var DefaultClusterFeatures = []string{
	ColAppUsageTime,
	ColScreenOnTime,
	ColBatteryDrain,
	ColDataUsage,
	ColBatteryEfficiency,
	ColUsagePerApp,
}

// IsCategoricalColumn reports whether name is an encodable column.
func IsCategoricalColumn(name string) bool {
	for _, c := range CategoricalColumns {
		if c == name {
			return true
		}
	}
	return false
}
