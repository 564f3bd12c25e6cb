// Package main provides a performance benchmarking tool for the devpulse CLI.
// It measures execution times across dataset sizes and command types,
// running each test multiple times, treating the first successful run as cold and averaging the rest as warm,
// generating CSV output for performance analysis and documentation.
//
// Prerequisites:
// - devpulse binary installed and available in PATH
// - Usage datasets (CSV) placed in the specified base directory
//
// Usage: go run benchmark/main.go [dataset-base-dir]
//
//	dataset-base-dir: Directory containing the benchmark datasets
package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// BenchmarkResult holds the result of a benchmark run (no-cache average, cold run and average of warm runs).
type BenchmarkResult struct {
	Dataset     string
	Command     string
	NoCacheTime string
	ColdTime    string
	WarmTime    string
}

// BenchmarkConfig holds configuration for the benchmark run.
type BenchmarkConfig struct {
	DataBase    string
	Timeout     time.Duration
	NoCacheRuns int
	CacheRuns   int
	Datasets    []string
	Commands    map[string]string
}

// commandOrder fixes the order commands run and print in.
var commandOrder = []string{"segment", "churn", "recommend", "describe"}

func main() {
	if len(os.Args) != 2 {
		fmt.Printf("Usage: %s [dataset-base-dir]\n", os.Args[0])
		os.Exit(1)
	}

	config := BenchmarkConfig{
		DataBase:    os.Args[1],
		Timeout:     5 * time.Minute,
		NoCacheRuns: 3,
		CacheRuns:   4,
		Datasets:    []string{"user_behavior_dataset.csv", "user_behavior_10k.csv", "user_behavior_100k.csv"},
		Commands: map[string]string{
			"segment":   "-k 4 --restarts 10",
			"churn":     "--limit 20",
			"recommend": "--os Android",
			"describe":  "",
		},
	}

	if err := checkPrerequisites(config); err != nil {
		fmt.Printf("Prerequisites check failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Clearing cache...\n")
	clearCmd := exec.Command("devpulse", "cache", "clear")
	if output, err := clearCmd.CombinedOutput(); err != nil {
		fmt.Printf("Warning: failed to clear cache: %v\nOutput: %s\n", err, string(output))
	} else {
		fmt.Printf("Cache cleared successfully\n")
	}

	results := runBenchmarks(config)

	if err := saveResults(results); err != nil {
		fmt.Printf("Failed to save results: %v\n", err)
		os.Exit(1)
	}

	printSummary(results)
}

// checkPrerequisites verifies that the devpulse binary and datasets exist
func checkPrerequisites(config BenchmarkConfig) error {
	if _, err := exec.LookPath("devpulse"); err != nil {
		return fmt.Errorf("devpulse binary not found in PATH")
	}

	for _, name := range config.Datasets {
		path := filepath.Join(config.DataBase, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("dataset %s not found at %s", name, path)
		}
	}

	return nil
}

// runBenchmarks executes all benchmark tests across configured datasets
func runBenchmarks(config BenchmarkConfig) []BenchmarkResult {
	var results []BenchmarkResult

	fmt.Printf("Starting benchmark: %d datasets, %v timeout, no-cache: %d runs, cache: %d runs\n",
		len(config.Datasets), config.Timeout, config.NoCacheRuns, config.CacheRuns)

	for _, name := range config.Datasets {
		fmt.Printf("Benchmarking %s\n", name)
		path := filepath.Join(config.DataBase, name)
		for _, command := range commandOrder {
			result := runBenchmarkSuite(config, name, path, command, config.Commands[command])
			results = append(results, result)
		}
	}

	return results
}

// runBenchmarkSuite runs both no-cache and cache benchmarks for a command
func runBenchmarkSuite(config BenchmarkConfig, name, path, command, extraArgs string) BenchmarkResult {
	fmt.Printf("Running %s on %s\n", command, name)

	runPhase := func(cacheBackend string, numRuns int, phaseName string) (coldTime float64, avgTime string) {
		fmt.Printf("  %s phase (%d runs)\n", phaseName, numRuns)
		cold, times := runBenchmark(config, path, command, extraArgs, cacheBackend, numRuns)
		if len(times) == 0 {
			avgTime = "TIMEOUT"
		} else {
			var sum float64
			for _, t := range times {
				sum += t
			}
			avgTime = fmt.Sprintf("%.3fs", sum/float64(len(times)))
		}
		return cold, avgTime
	}

	_, noCacheAvg := runPhase("none", config.NoCacheRuns, "No-cache")
	coldTime, warmAvg := runPhase("sqlite", config.CacheRuns, "Cache")

	coldTimeStr := "TIMEOUT"
	if coldTime > 0 {
		coldTimeStr = fmt.Sprintf("%.3fs", coldTime)
	}

	fmt.Printf("  No-cache average: %s, Cold time: %s, Warm average: %s\n", noCacheAvg, coldTimeStr, warmAvg)

	return BenchmarkResult{
		Dataset:     name,
		Command:     command,
		NoCacheTime: noCacheAvg,
		ColdTime:    coldTimeStr,
		WarmTime:    warmAvg,
	}
}

// runBenchmark executes a devpulse command multiple times with the given cache backend and returns cold time and warm times
func runBenchmark(config BenchmarkConfig, path, command, extraArgs, cacheBackend string, numRuns int) (coldTime float64, warmTimes []float64) {
	args := []string{command, path, "--cache-backend", cacheBackend}
	if extraArgs != "" {
		args = append(args, strings.Fields(extraArgs)...)
	}

	var times []float64
	for run := 1; run <= numRuns; run++ {
		start := time.Now()

		cmd := exec.Command("devpulse", args...)

		done := make(chan bool)
		var output []byte
		var cmdErr error

		go func() {
			output, cmdErr = cmd.CombinedOutput()
			done <- true
		}()

		select {
		case <-done:
			if cmdErr == nil && isSuccess(output) {
				times = append(times, time.Since(start).Seconds())
			}
		case <-time.After(config.Timeout):
			_ = cmd.Process.Kill()
		}
	}

	if len(times) > 0 {
		coldTime = times[0]
		warmTimes = times[1:]
	}
	return
}

// isSuccess checks if command output indicates successful completion
func isSuccess(output []byte) bool {
	outputStr := string(output)
	return strings.Contains(outputStr, "Analysis completed in") &&
		strings.Contains(outputStr, "Cache backend:")
}

// saveResults writes benchmark results to a timestamped CSV file
func saveResults(results []BenchmarkResult) error {
	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("/tmp/devpulse_benchmark_%s.csv", timestamp)

	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			fmt.Printf("Warning: failed to close file %s: %v\n", filename, closeErr)
		}
	}()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"dataset", "cmd", "no_cache_avg", "cold_time", "warm_avg"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, result := range results {
		if err := writer.Write([]string{result.Dataset, result.Command, result.NoCacheTime, result.ColdTime, result.WarmTime}); err != nil {
			return fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	fmt.Printf("Results saved to %s\n", filename)
	return nil
}

// printSummary displays the final benchmark results summary
func printSummary(results []BenchmarkResult) {
	fmt.Printf("Benchmark complete\n")
	for _, command := range commandOrder {
		fmt.Printf("%s:\n", command)
		for _, result := range results {
			if result.Command == command {
				fmt.Printf("  %-28s: No-cache: %s, Cold: %s, Warm: %s\n", result.Dataset, result.NoCacheTime, result.ColdTime, result.WarmTime)
			}
		}
	}
	fmt.Printf("Benchmark script completed successfully\n")
}
