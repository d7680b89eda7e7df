// Package kitchen holds the pure rules of the kitchen display workflow:
// which item transitions are legal, which time window counts as "today" and
// how stored orders are shaped into the board view.
package kitchen

import (
	"fmt"

	"kitchen_display/internal/models"
)

// TransitionPolicy decides whether an item may move from one status to another.
type TransitionPolicy interface {
	Allow(from, to models.ItemStatus) bool
	Name() string
}

type transition struct {
	from, to models.ItemStatus
}

// TransitionTable is an explicit (current, target) -> allow lookup.
// Pairs that are absent are denied.
type TransitionTable struct {
	name    string
	allowed map[transition]bool
}

func (t *TransitionTable) Allow(from, to models.ItemStatus) bool {
	return t.allowed[transition{from, to}]
}

func (t *TransitionTable) Name() string {
	return t.name
}

type permissivePolicy struct{}

// Allow checks only the target. The current status is ignored, so rows
// written with an unexpected status by other systems can still be moved.
func (permissivePolicy) Allow(_, to models.ItemStatus) bool {
	return to.IsValid()
}

func (permissivePolicy) Name() string { return "permissive" }

// PermissivePolicy accepts any known target regardless of the current status,
// so staff can correct a mistaken tap (served -> pending included).
func PermissivePolicy() TransitionPolicy {
	return permissivePolicy{}
}

// ForwardPolicy only allows pending -> cooking -> ready -> served and a
// cancel from any non-terminal status.
func ForwardPolicy() *TransitionTable {
	table := &TransitionTable{name: "forward", allowed: map[transition]bool{
		{models.ItemPending, models.ItemCooking}: true,
		{models.ItemCooking, models.ItemReady}:   true,
		{models.ItemReady, models.ItemServed}:    true,
	}}
	for _, from := range models.ItemStatuses {
		if !from.IsTerminal() {
			table.allowed[transition{from, models.ItemCancelled}] = true
		}
	}
	return table
}

// PolicyByName resolves the TRANSITION_POLICY setting.
func PolicyByName(name string) (TransitionPolicy, error) {
	switch name {
	case "", "permissive":
		return PermissivePolicy(), nil
	case "forward":
		return ForwardPolicy(), nil
	default:
		return nil, fmt.Errorf("unknown transition policy %q", name)
	}
}
