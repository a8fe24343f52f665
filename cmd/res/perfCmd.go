package res

import (
	"encoding/csv"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/netfabrik/resdir/cmd/util"
	gometrics "github.com/rcrowley/go-metrics"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	perfTestCmd = &cobra.Command{
		Use:     "perf",
		Short:   "Performance testing tool for resdir servers",
		Long:    "",
		RunE:    runPerf,
		PreRunE: processPerfConfig,
	}
	perfResourceName = ""
	perfIterations   = 1000
	perfNumThreads   = 10
	perfSkip         = make([]string, 0)
)

func init() {
	// add flags
	key := "name"
	perfTestCmd.Flags().String(key, "", util.WrapString("Name of a provisioned resource to exercise (required)"))
	key = "iterations"
	perfTestCmd.Flags().Int(key, 1000, util.WrapString("Number of operations per benchmark"))
	key = "threads"
	perfTestCmd.Flags().Int(key, 10, util.WrapString("Number of threads to use for the parallel benchmarks"))
	key = "skip"
	perfTestCmd.Flags().String(key, "", util.WrapString("Benchmarks to skip (comma separated - e.g. acquire-release,info)"))
	key = "csv"
	perfTestCmd.Flags().String(key, "", util.WrapString("Optional path to save benchmark results as CSV"))
}

func processPerfConfig(cmd *cobra.Command, _ []string) error {
	if err := viper.BindPFlags(cmd.Flags()); err != nil {
		return err
	}

	// Read the configuration from the command line flags and environment variables
	perfResourceName = viper.GetString("name")
	perfIterations = viper.GetInt("iterations")
	perfNumThreads = viper.GetInt("threads")
	perfSkip = strings.Split(viper.GetString("skip"), ",")

	if perfResourceName == "" {
		return fmt.Errorf("--name is required (a resource provisioned on the target device)")
	}

	return nil
}

func runPerf(_ *cobra.Command, _ []string) error {

	fmt.Println("Performance testing tool for resdir servers")

	// Print configuration
	fmt.Println()
	fmt.Println("Configuration:")
	fmt.Println(util.GetClientConfig().String())
	fmt.Printf("Resource: %s\n", perfResourceName)
	fmt.Printf("Iterations: %d\n", perfIterations)
	fmt.Printf("Threads: %d\n", perfNumThreads)
	fmt.Println()

	fmt.Println("starting tests...")

	// Create results map
	results := make(map[string]gometrics.Timer)

	// acquire-release: sequential lock/unlock cycles on one resource. The
	// acquire and release legs are timed separately so lock contention cost
	// and unwind cost show up independently.
	acquireTimer := gometrics.NewTimer()
	releaseTimer := gometrics.NewTimer()
	if !shouldSkip("acquire-release") {
		for i := 0; i < perfIterations; i++ {
			start := time.Now()
			res, err := rpcDirectory.Acquire(perfResourceName)
			acquireTimer.UpdateSince(start)
			if err != nil {
				log.Printf("(acquire-release) - error acquiring resource: %v\n", err)
				continue
			}

			start = time.Now()
			if err := rpcDirectory.Release(res); err != nil {
				log.Printf("(acquire-release) - error releasing resource: %v\n", err)
			}
			releaseTimer.UpdateSince(start)
		}
	}

	results["acquire"] = acquireTimer
	printResult("acquire", acquireTimer)
	results["release"] = releaseTimer
	printResult("release", releaseTimer)

	// info: parallel metadata queries. Info never holds the lock, so all
	// threads can hammer the same resource without contention errors.
	infoTimer := gometrics.NewTimer()
	if !shouldSkip("info") {
		perThread := perfIterations / perfNumThreads
		if perThread == 0 {
			perThread = 1
		}

		var wg sync.WaitGroup
		for t := 0; t < perfNumThreads; t++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perThread; i++ {
					start := time.Now()
					if _, err := rpcDirectory.Info(perfResourceName); err != nil {
						log.Printf("(info) - error querying resource: %v\n", err)
					}
					infoTimer.UpdateSince(start)
				}
			}()
		}
		wg.Wait()
	}

	results["info"] = infoTimer
	printResult("info", infoTimer)

	// contended: all threads race for the same lock. Acquire failures are
	// expected here and counted as operations, this measures how fast the
	// server turns around contended requests.
	contendedTimer := gometrics.NewTimer()
	if !shouldSkip("contended") {
		perThread := perfIterations / perfNumThreads
		if perThread == 0 {
			perThread = 1
		}

		var wg sync.WaitGroup
		for t := 0; t < perfNumThreads; t++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perThread; i++ {
					start := time.Now()
					res, err := rpcDirectory.Acquire(perfResourceName)
					contendedTimer.UpdateSince(start)
					if err == nil {
						if err := rpcDirectory.Release(res); err != nil {
							log.Printf("(contended) - error releasing resource: %v\n", err)
						}
					}
				}
			}()
		}
		wg.Wait()
	}

	results["contended"] = contendedTimer
	printResult("contended", contendedTimer)

	// Write results to csv is specified
	if csvPath := viper.GetString("csv"); csvPath != "" {
		fmt.Printf("\nExporting results to CSV: %s\n", csvPath)
		if err := writeResultsToCSV(csvPath, results); err != nil {
			return fmt.Errorf("failed to export results to CSV: %v", err)
		}
		fmt.Println("Export complete")
	}

	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

func shouldSkip(test string) bool {
	// Check if the test is in the skip list
	for _, skip := range perfSkip {
		if test == skip {
			return true
		}
	}
	return false
}

// printResult prints the result of a benchmark test in a formatted way
func printResult(test string, timer gometrics.Timer) {
	if timer.Count() == 0 {
		fmt.Printf("%-20sskipped\n", test)
		return
	}

	mean := timer.Mean()
	p95 := timer.Percentile(0.95)
	opsPerSec := 0.0
	if mean > 0 {
		opsPerSec = 1.0 / (mean / 1e9)
	}

	// Print the formatted result
	fmt.Printf("%-20s%.0fns/op (%s/op)\tp95=%s\t%.0f ops/sec\n",
		test, mean, time.Duration(mean), time.Duration(p95), opsPerSec)
}

// writeResultsToCSV writes benchmark results to a CSV file
func writeResultsToCSV(csvPath string, results map[string]gometrics.Timer) error {
	file, err := os.Create(csvPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %v", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	config := util.GetClientConfig()

	// Write header
	header := []string{
		"Test", "Count", "MeanNs", "P95Ns", "OpsPerSec", "Skipped",
		"Endpoints", "TimeoutSec", "RetryCount", "ConnectionsPerEndpoint",
		"DeviceID", "Resource", "Serializer", "Transport",
		"Threads", "Iterations",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %v", err)
	}

	// Write test results
	for test, timer := range results {
		var opsPerSec float64
		skipped := timer.Count() == 0
		if mean := timer.Mean(); mean > 0 {
			opsPerSec = 1.0 / (mean / 1e9)
		}

		row := []string{
			test,
			strconv.FormatInt(timer.Count(), 10),
			fmt.Sprintf("%.0f", timer.Mean()),
			fmt.Sprintf("%.0f", timer.Percentile(0.95)),
			fmt.Sprintf("%.0f", opsPerSec),
			strconv.FormatBool(skipped),
			strings.Join(config.Transport.Endpoints, ";"),
			strconv.Itoa(config.TimeoutSecond),
			strconv.Itoa(config.Transport.RetryCount),
			strconv.Itoa(config.Transport.ConnectionsPerEndpoint),
			strconv.FormatUint(util.GetDeviceID(), 10),
			perfResourceName,
			viper.GetString("serializer"),
			viper.GetString("transport"),
			strconv.Itoa(perfNumThreads),
			strconv.Itoa(perfIterations),
		}

		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write row for test %s: %v", test, err)
		}
	}

	return nil
}
