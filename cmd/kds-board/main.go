// Command kds-board is a terminal kitchen display. It logs in, polls one
// branch's kitchen view and redraws the New/Cooking/Ready/Done lanes. Typing
// "<item_id> <status>" advances an item and refreshes the board at once.
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"kitchen_display/internal/config"
	"kitchen_display/pkg/kds"

	"github.com/MonkyMars/gecho"
)

func main() {
	cfg := config.LoadClient()
	log := config.NewLogger(cfg.Environment, false)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client := kds.NewClient(cfg.ServerURL)
	if _, err := client.Login(ctx, cfg.Username, cfg.Password); err != nil {
		log.Fatal("Login failed", gecho.Field("error", err), gecho.Field("server", cfg.ServerURL))
	}

	poller := kds.NewPoller(client, kds.PollerConfig{
		BranchID:   cfg.BranchID,
		CategoryID: cfg.CategoryID,
		Interval:   cfg.PollInterval,
		OnBoard: func(board kds.Board) {
			render(os.Stdout, board, time.Now())
		},
		OnError: func(err error) {
			log.Warn("Kitchen view refresh failed, showing last board", gecho.Field("error", err))
		},
	})

	go readCommands(ctx, os.Stdin, poller, client, log)

	log.Info("Board started",
		gecho.Field("branch_id", cfg.BranchID),
		gecho.Field("interval", cfg.PollInterval.String()))
	poller.Run(ctx)
}

func readCommands(ctx context.Context, in io.Reader, poller *kds.Poller, advancer kds.ItemAdvancer, log *gecho.Logger) {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		itemID, status, err := parseCommand(scanner.Text())
		if err != nil {
			log.Warn("Unrecognised command", gecho.Field("error", err))
			continue
		}
		res, err := poller.Advance(ctx, advancer, itemID, status, nil)
		if err != nil {
			log.Error("Advance failed", gecho.Field("item_id", itemID), gecho.Field("error", err))
			continue
		}
		if res.Completion.OrderCompleted {
			log.Info("Order completed", gecho.Field("order_id", res.Item.OrderID))
		}
	}
}

// parseCommand reads "<item_id> <status>".
func parseCommand(line string) (uint, kds.Status, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return 0, "", fmt.Errorf("expected \"<item_id> <status>\", got %q", line)
	}
	id, err := strconv.ParseUint(fields[0], 10, 32)
	if err != nil || id == 0 {
		return 0, "", fmt.Errorf("invalid item id %q", fields[0])
	}
	return uint(id), kds.Status(strings.ToLower(fields[1])), nil
}

func render(w io.Writer, board kds.Board, at time.Time) {
	fmt.Fprintf(w, "\n=== Kitchen board  %s ===\n", at.Format("15:04:05"))
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, lane := range board.Lanes {
		fmt.Fprintf(tw, "[%s] (%d)\n", lane.Name, len(lane.Orders))
		for _, order := range lane.Orders {
			table := order.TableName
			if table == "" {
				table = "-"
			}
			fmt.Fprintf(tw, "  #%d\t%s\t%s\t%s\n", order.ID, table, order.CreatedAt.Local().Format("15:04"), order.Note)
			for _, item := range order.Items {
				fmt.Fprintf(tw, "    %d\t%dx %s\t%s\n", item.ID, item.Quantity, item.Name, item.Note)
			}
		}
	}
	tw.Flush()
}
