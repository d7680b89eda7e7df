package kds

// Lane is a live work queue on the board. Lanes are never stored; they are
// derived from item status on every refresh.
type Lane struct {
	Name   string      `json:"name"`
	Status Status      `json:"status"`
	Orders []OrderView `json:"orders"`
}

// Lanes in board order.
var Lanes = []struct {
	Name   string
	Status Status
}{
	{"New", StatusPending},
	{"Cooking", StatusCooking},
	{"Ready", StatusReady},
	{"Done", StatusServed},
}

// Board is the fully partitioned display.
type Board struct {
	Lanes []Lane `json:"lanes"`
}

// Partition returns every order holding at least one item in status, each
// with its items narrowed to that status. Input order is preserved, and an
// order may appear in more than one lane.
func Partition(orders []OrderView, status Status) []OrderView {
	out := make([]OrderView, 0)
	for _, order := range orders {
		var items []ItemView
		for _, item := range order.Items {
			if item.Status == status {
				items = append(items, item)
			}
		}
		if len(items) == 0 {
			continue
		}
		narrowed := order
		narrowed.Items = items
		out = append(out, narrowed)
	}
	return out
}

// BuildBoard partitions one kitchen view into all four lanes.
func BuildBoard(orders []OrderView) Board {
	board := Board{Lanes: make([]Lane, 0, len(Lanes))}
	for _, l := range Lanes {
		board.Lanes = append(board.Lanes, Lane{
			Name:   l.Name,
			Status: l.Status,
			Orders: Partition(orders, l.Status),
		})
	}
	return board
}

// Lane looks a lane up by status.
func (b Board) Lane(status Status) (Lane, bool) {
	for _, l := range b.Lanes {
		if l.Status == status {
			return l, true
		}
	}
	return Lane{}, false
}
