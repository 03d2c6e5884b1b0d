// Command portfolio-report renders portfolio and per-property aggregates
// from an exported state snapshot.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"dwellacore/internal/infra/persistence/memory"
	"dwellacore/pkg/dashboard"
	"dwellacore/pkg/domain"
)

const dateLayout = "2006-01-02"

var exitFunc = os.Exit

// main runs the command-line interface using the program arguments and exits
// the process with the status code returned by cli.
func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("portfolio-report", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		snapshotPath string
		fromStr      string
		toStr        string
		asJSON       bool
	)
	fs.StringVar(&snapshotPath, "snapshot", "", "path to exported state snapshot (JSON)")
	fs.StringVar(&fromStr, "from", "", "period start, inclusive (YYYY-MM-DD; default unbounded)")
	fs.StringVar(&toStr, "to", "", "period end, exclusive (YYYY-MM-DD; default unbounded)")
	fs.BoolVar(&asJSON, "json", false, "emit the report as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if snapshotPath == "" {
		fmt.Fprintln(stderr, "portfolio-report: -snapshot is required")
		return 2
	}
	period, err := parsePeriod(fromStr, toStr)
	if err != nil {
		fmt.Fprintf(stderr, "portfolio-report: %v\n", err)
		return 2
	}
	store, err := loadSnapshot(snapshotPath)
	if err != nil {
		fmt.Fprintf(stderr, "portfolio-report: %v\n", err)
		return 1
	}
	report := buildReport(store, period)
	if asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			fmt.Fprintf(stderr, "portfolio-report: %v\n", err)
			return 1
		}
		return 0
	}
	printReport(stdout, report)
	return 0
}

// parsePeriod interprets missing bounds as unbounded so the default report
// covers all recorded payments.
func parsePeriod(fromStr, toStr string) (dashboard.Period, error) {
	period := dashboard.Period{End: time.Date(9999, time.December, 31, 0, 0, 0, 0, time.UTC)}
	if fromStr != "" {
		from, err := time.Parse(dateLayout, fromStr)
		if err != nil {
			return dashboard.Period{}, fmt.Errorf("invalid -from date %q: %w", fromStr, err)
		}
		period.Start = from
	}
	if toStr != "" {
		to, err := time.Parse(dateLayout, toStr)
		if err != nil {
			return dashboard.Period{}, fmt.Errorf("invalid -to date %q: %w", toStr, err)
		}
		period.End = to
	}
	if !period.End.After(period.Start) {
		return dashboard.Period{}, fmt.Errorf("period end %s is not after start %s", toStr, fromStr)
	}
	return period, nil
}

// loadSnapshot hydrates an in-memory store from an exported snapshot file.
// Import applies the usual migration, so records with dangling references
// are dropped rather than skewing the aggregates.
func loadSnapshot(path string) (dashboard.EntityStore, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return dashboard.EntityStore{}, fmt.Errorf("read snapshot: %w", err)
	}
	var snapshot memory.Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return dashboard.EntityStore{}, fmt.Errorf("decode snapshot: %w", err)
	}
	store := memory.NewStore(nil)
	store.ImportState(snapshot)
	return dashboard.EntityStore{
		Properties:          store.ListProperties(),
		Units:               store.ListUnits(),
		Tenants:             store.ListTenants(),
		Managers:            store.ListManagers(),
		Payments:            store.ListPayments(),
		MaintenanceRequests: store.ListMaintenanceRequests(),
		Documents:           store.ListDocuments(),
		Conversations:       store.ListConversations(),
		Notifications:       store.ListNotifications(),
	}, nil
}

type report struct {
	Portfolio  dashboard.PortfolioStats `json:"portfolio"`
	Properties []propertyReport         `json:"properties"`
}

type propertyReport struct {
	ID    string                  `json:"id"`
	Name  string                  `json:"name"`
	Stats dashboard.PropertyStats `json:"stats"`
}

func buildReport(store dashboard.EntityStore, period dashboard.Period) report {
	out := report{
		Portfolio: dashboard.ComputePortfolioStats(store.Properties, store.Units, store.Payments, store.MaintenanceRequests, period),
	}
	properties := make([]domain.Property, len(store.Properties))
	copy(properties, store.Properties)
	sort.SliceStable(properties, func(i, j int) bool { return properties[i].Name < properties[j].Name })
	for _, p := range properties {
		out.Properties = append(out.Properties, propertyReport{
			ID:    p.ID,
			Name:  p.Name,
			Stats: dashboard.ComputePropertyStats(p.ID, store.Units, store.Payments, store.MaintenanceRequests, period),
		})
	}
	return out
}

func printReport(w io.Writer, r report) {
	fmt.Fprintf(w, "Portfolio: %d properties, %d units, %d%% occupied\n",
		r.Portfolio.TotalProperties, r.Portfolio.TotalUnits, r.Portfolio.OccupancyPercent)
	fmt.Fprintf(w, "Rent collected: %d\n", r.Portfolio.RentCollected)
	fmt.Fprintf(w, "Overdue: %d units totaling %d\n", r.Portfolio.OverdueCount, r.Portfolio.OverdueAmount)
	fmt.Fprintf(w, "Under maintenance: %d units\n", r.Portfolio.UnitsUnderMaintenance)
	for _, p := range r.Properties {
		fmt.Fprintf(w, "- %s (%s): %d units, %d%% occupied, collected %d, overdue %d\n",
			p.Name, p.ID, p.Stats.TotalUnits, p.Stats.OccupancyPercent, p.Stats.RentCollected, p.Stats.OverdueCount)
	}
}
