package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
)

// Label constants for the churn flag and heavy users.
const (
	AtRiskValue   = "Likely to Churn"
	RetainedValue = "Retained"
	HeavyValue    = "Heavy"
	RegularValue  = "Regular"
)

// Color variables for console output.
var (
	AtRiskColor   = color.New(color.FgRed, color.Bold)     // AtRiskColor represents standard danger.
	RetainedColor = color.New(color.FgCyan)                // RetainedColor is informational.
	HeavyColor    = color.New(color.FgMagenta, color.Bold) // HeavyColor marks power users.
	ClusterColor  = color.New(color.FgYellow)              // ClusterColor marks cluster ids, not bold.
)

// GetPlainLabel returns the plain text label of a churn flag.
// This is the core logic used for CSV, JSON, and table printing.
func GetPlainLabel(atRisk bool) string {
	if atRisk {
		return AtRiskValue
	}
	return RetainedValue
}

// GetColorLabel returns a colored churn label for console output (table).
func GetColorLabel(atRisk bool) string {
	text := GetPlainLabel(atRisk)
	if atRisk {
		return AtRiskColor.Sprint(text)
	}
	return RetainedColor.Sprint(text)
}

// GetHeavyLabel returns the usage tier label, colored when requested.
func GetHeavyLabel(heavy, useColors bool) string {
	if !heavy {
		return RegularValue
	}
	if useColors {
		return HeavyColor.Sprint(HeavyValue)
	}
	return HeavyValue
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. It falls back to os.Stdout when no path is given.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".devpulse_cache.db"
	}
	return filepath.Join(homeDir, ".devpulse_cache.db")
}

// GetAnalysisDBFilePath returns the path to the SQLite DB file for analysis storage.
func GetAnalysisDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".devpulse_analysis.db"
	}
	return filepath.Join(homeDir, ".devpulse_analysis.db")
}

// TruncateText truncates text to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so there is room for the ellipsis and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}

// IsAllSentinel reports whether a filter value means "no filter".
func IsAllSentinel(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, AllSentinel)
}
