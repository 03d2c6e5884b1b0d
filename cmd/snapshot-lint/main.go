// Command snapshot-lint evaluates the built-in rule set against an exported
// state snapshot and reports every violation it finds. Unlike snapshot
// import, nothing is pruned or repaired: the linter sees the file as-is.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"sort"

	"dwellacore/internal/core"
	"dwellacore/internal/infra/persistence/memory"
	"dwellacore/pkg/domain"
)

var exitFunc = os.Exit

// main runs the command-line interface using the program arguments and exits
// the process with the status code returned by cli.
func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("snapshot-lint", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var snapshotPath string
	fs.StringVar(&snapshotPath, "snapshot", "", "path to exported state snapshot (JSON)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if snapshotPath == "" {
		fmt.Fprintln(stderr, "snapshot-lint: -snapshot is required")
		return 2
	}
	result, err := lint(snapshotPath)
	if err != nil {
		fmt.Fprintf(stderr, "snapshot-lint: %v\n", err)
		return 1
	}
	if len(result.Violations) == 0 {
		fmt.Fprintln(stdout, "Snapshot is clean.")
		return 0
	}
	for _, v := range result.Violations {
		fmt.Fprintf(stdout, "%s\t%s\t%s/%s\t%s\n", v.Severity, v.Rule, v.Entity, v.EntityID, v.Message)
	}
	fmt.Fprintf(stdout, "%d violations\n", len(result.Violations))
	if result.HasBlocking() {
		return 1
	}
	return 0
}

func lint(path string) (domain.Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return domain.Result{}, fmt.Errorf("read snapshot: %w", err)
	}
	var snapshot memory.Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return domain.Result{}, fmt.Errorf("decode snapshot: %w", err)
	}

	view := snapshotView{snapshot: snapshot}
	engine := core.NewDefaultRulesEngine()
	result, err := engine.Evaluate(context.Background(), view, maintenanceChanges(view))
	if err != nil {
		return domain.Result{}, fmt.Errorf("evaluate rules: %w", err)
	}
	sort.SliceStable(result.Violations, func(i, j int) bool {
		a, b := result.Violations[i], result.Violations[j]
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		if a.Entity != b.Entity {
			return a.Entity < b.Entity
		}
		return a.EntityID < b.EntityID
	})
	return result, nil
}

// maintenanceChanges replays every stored request as a fresh change so the
// transition rule checks status validity and resolution timestamps. There is
// no before-state in a snapshot, so backwards transitions are out of reach
// here; they can only be caught at commit time.
func maintenanceChanges(view snapshotView) []domain.Change {
	requests := view.ListMaintenanceRequests()
	changes := make([]domain.Change, 0, len(requests))
	for _, r := range requests {
		changes = append(changes, domain.Change{
			Entity: domain.EntityMaintenance,
			Action: domain.ActionCreate,
			After:  r,
		})
	}
	return changes
}

// snapshotView adapts a raw snapshot to the rule view interface without the
// reference migration that snapshot import performs.
type snapshotView struct {
	snapshot memory.Snapshot
}

func sortedValues[T any](m map[string]T) []T {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]T, 0, len(m))
	for _, k := range keys {
		out = append(out, m[k])
	}
	return out
}

func (v snapshotView) ListProperties() []domain.Property       { return sortedValues(v.snapshot.Properties) }
func (v snapshotView) ListUnits() []domain.Unit                { return sortedValues(v.snapshot.Units) }
func (v snapshotView) ListTenants() []domain.Tenant            { return sortedValues(v.snapshot.Tenants) }
func (v snapshotView) ListManagers() []domain.Manager          { return sortedValues(v.snapshot.Managers) }
func (v snapshotView) ListPayments() []domain.PaymentRecord    { return sortedValues(v.snapshot.Payments) }
func (v snapshotView) ListMaintenanceRequests() []domain.MaintenanceRequest {
	return sortedValues(v.snapshot.Requests)
}
func (v snapshotView) ListDocuments() []domain.Document { return sortedValues(v.snapshot.Documents) }
func (v snapshotView) ListConversations() []domain.Conversation {
	return sortedValues(v.snapshot.Conversations)
}
func (v snapshotView) ListNotifications() []domain.Notification {
	return sortedValues(v.snapshot.Notifications)
}

func (v snapshotView) FindProperty(id string) (domain.Property, bool) {
	p, ok := v.snapshot.Properties[id]
	return p, ok
}

func (v snapshotView) FindUnit(id string) (domain.Unit, bool) {
	u, ok := v.snapshot.Units[id]
	return u, ok
}

func (v snapshotView) FindTenant(id string) (domain.Tenant, bool) {
	t, ok := v.snapshot.Tenants[id]
	return t, ok
}

func (v snapshotView) FindManager(id string) (domain.Manager, bool) {
	m, ok := v.snapshot.Managers[id]
	return m, ok
}

func (v snapshotView) FindMaintenanceRequest(id string) (domain.MaintenanceRequest, bool) {
	r, ok := v.snapshot.Requests[id]
	return r, ok
}

func (v snapshotView) FindConversation(id string) (domain.Conversation, bool) {
	c, ok := v.snapshot.Conversations[id]
	return c, ok
}
