package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

type LogStats struct {
	TotalErrors          int
	ParcelsCreated       int
	ParcelsDeleted       int
	CheckoutsCreated     int
	PaymentsConfirmed    int
	PaymentsReplayed     int
	GatewayFailures      int
	DatabaseFailures     int
	MailFailures         int
	DoublePayments       int
	RequestsByStatus     map[int]int
	SenderActivities     map[string]int
	ErrorPatterns        map[string]int
	SlowestRequestMillis int64
	SlowestRequest       string
}

var (
	emailRegex   = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	requestRegex = regexp.MustCompile(`Request: (\S+) (\S+) from \S+ - Status: (\d{3}) - Duration: (\S+)`)
	// the file logger prefixes every line with date, time and source position
	prefixRegex = regexp.MustCompile(`^[A-Z]+: \d{4}/\d{2}/\d{2} \d{2}:\d{2}:\d{2}(\.\d+)? \S+:\d+: `)
)

func newLogStats() *LogStats {
	return &LogStats{
		RequestsByStatus: make(map[int]int),
		SenderActivities: make(map[string]int),
		ErrorPatterns:    make(map[string]int),
	}
}

func main() {
	var logDir, day string

	rootCmd := &cobra.Command{
		Use:   "analyze_logs",
		Short: "Summarize one day of parcel and payment logs",
		RunE: func(cmd *cobra.Command, args []string) error {
			stats := newLogStats()

			// Analyze error logs
			if err := analyzeFile(filepath.Join(logDir, fmt.Sprintf("error-%s.log", day)), stats, analyzeErrorLogs); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error opening log file: %v\n", err)
			}

			// Analyze info logs
			if err := analyzeFile(filepath.Join(logDir, fmt.Sprintf("info-%s.log", day)), stats, analyzeInfoLogs); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "Error opening log file: %v\n", err)
			}

			printReport(cmd.OutOrStdout(), stats)
			return nil
		},
	}
	rootCmd.Flags().StringVar(&logDir, "dir", "./logs", "directory holding the daily log files")
	rootCmd.Flags().StringVar(&day, "date", time.Now().Format("2006-01-02"), "day to analyze (YYYY-MM-DD)")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func analyzeFile(logFile string, stats *LogStats, analyze func(io.Reader, *LogStats) error) error {
	file, err := os.Open(logFile)
	if err != nil {
		return err
	}
	defer file.Close()
	return analyze(file, stats)
}

func analyzeErrorLogs(r io.Reader, stats *LogStats) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		if !prefixRegex.MatchString(line) {
			// continuation of a stack trace
			continue
		}
		stats.TotalErrors++

		switch {
		case strings.Contains(line, "Payment gateway unavailable"):
			stats.GatewayFailures++
		case strings.Contains(line, "Database unavailable"), strings.Contains(line, "Failed to roll back payment"):
			stats.DatabaseFailures++
		case strings.Contains(line, "Failed to send payment confirmation"):
			stats.MailFailures++
			extractSenderActivity(line, stats)
		case strings.Contains(line, "which is already paid"):
			stats.DoublePayments++
		}

		extractErrorPattern(line, stats)
	}
	return scanner.Err()
}

func analyzeInfoLogs(r io.Reader, stats *LogStats) error {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case strings.Contains(line, "Request: "):
			extractRequest(line, stats)
		case strings.Contains(line, "Parcel ") && strings.Contains(line, " created for "):
			stats.ParcelsCreated++
			extractSenderActivity(line, stats)
		case strings.Contains(line, "Parcel ") && strings.HasSuffix(line, " deleted"):
			stats.ParcelsDeleted++
		case strings.Contains(line, "Checkout session ") && strings.Contains(line, " created for parcel "):
			stats.CheckoutsCreated++
		case strings.Contains(line, "already processed, replaying"):
			stats.PaymentsReplayed++
		case strings.Contains(line, " confirmed, tracking id "):
			stats.PaymentsConfirmed++
		}
	}
	return scanner.Err()
}

func extractRequest(line string, stats *LogStats) {
	m := requestRegex.FindStringSubmatch(line)
	if m == nil {
		return
	}
	status, _ := strconv.Atoi(m[3])
	stats.RequestsByStatus[status]++

	if d, err := time.ParseDuration(m[4]); err == nil && d.Milliseconds() > stats.SlowestRequestMillis {
		stats.SlowestRequestMillis = d.Milliseconds()
		stats.SlowestRequest = m[1] + " " + m[2]
	}
}

func extractSenderActivity(line string, stats *LogStats) {
	if email := emailRegex.FindString(line); email != "" {
		stats.SenderActivities[email]++
	}
}

// extractErrorPattern keeps the first clause of the message, which is the
// fixed text before any ids or wrapped causes.
func extractErrorPattern(line string, stats *LogStats) {
	msg := prefixRegex.ReplaceAllString(line, "")
	if i := strings.Index(msg, ": "); i > 0 {
		msg = msg[:i]
	}
	msg = strings.TrimSpace(msg)
	if msg != "" {
		stats.ErrorPatterns[msg]++
	}
}

func printReport(w io.Writer, stats *LogStats) {
	fmt.Fprintln(w, "\n=== Log Analysis Report ===")
	fmt.Fprintln(w, "Generated:", time.Now().Format("2006-01-02 15:04:05"))

	fmt.Fprintln(w, "\n1. Parcel Statistics:")
	fmt.Fprintf(w, "   Parcels Created: %d\n", stats.ParcelsCreated)
	fmt.Fprintf(w, "   Parcels Deleted: %d\n", stats.ParcelsDeleted)

	fmt.Fprintln(w, "\n2. Payment Statistics:")
	fmt.Fprintf(w, "   Checkout Sessions Created: %d\n", stats.CheckoutsCreated)
	fmt.Fprintf(w, "   Payments Confirmed: %d\n", stats.PaymentsConfirmed)
	fmt.Fprintf(w, "   Confirmations Replayed: %d\n", stats.PaymentsReplayed)
	fmt.Fprintf(w, "   Parcels Paid Twice: %d\n", stats.DoublePayments)

	fmt.Fprintln(w, "\n3. Error Statistics:")
	fmt.Fprintf(w, "   Total Errors: %d\n", stats.TotalErrors)
	fmt.Fprintf(w, "   Gateway Failures: %d\n", stats.GatewayFailures)
	fmt.Fprintf(w, "   Database Failures: %d\n", stats.DatabaseFailures)
	fmt.Fprintf(w, "   Email Failures: %d\n", stats.MailFailures)

	fmt.Fprintln(w, "\n4. Requests by Status:")
	statuses := make([]int, 0, len(stats.RequestsByStatus))
	for status := range stats.RequestsByStatus {
		statuses = append(statuses, status)
	}
	sort.Ints(statuses)
	for _, status := range statuses {
		fmt.Fprintf(w, "   %d: %d\n", status, stats.RequestsByStatus[status])
	}
	if stats.SlowestRequest != "" {
		fmt.Fprintf(w, "   Slowest: %s (%dms)\n", stats.SlowestRequest, stats.SlowestRequestMillis)
	}

	fmt.Fprintln(w, "\n5. Most Active Senders:")
	printTop(w, stats.SenderActivities, 5, "activities")

	fmt.Fprintln(w, "\n6. Most Common Errors:")
	printTop(w, stats.ErrorPatterns, 5, "occurrences")
}

func printTop(w io.Writer, counts map[string]int, limit int, unit string) {
	type entry struct {
		key   string
		count int
	}

	var entries []entry
	for key, count := range counts {
		entries = append(entries, entry{key, count})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].key < entries[j].key
	})

	for i, e := range entries {
		if i >= limit {
			break
		}
		fmt.Fprintf(w, "   %s: %d %s\n", e.key, e.count, unit)
	}
}
