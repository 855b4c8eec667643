package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/safhaapp/safha/internal/config"
	"github.com/safhaapp/safha/internal/database"
	"github.com/safhaapp/safha/internal/database/counters"
)

// RecountCountersCommand recomputes the denormalized follower, following and
// read-book counters from the underlying rows. The same repair runs on the
// reconcile schedule; this command triggers it on demand.
type RecountCountersCommand struct {
	UserID       uint
	DatabasePath string
}

func NewRecountCountersCommand() *RecountCountersCommand {
	return &RecountCountersCommand{}
}

func (cmd *RecountCountersCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("recount-counters", flag.ExitOnError)

	var userID uint64
	fs.Uint64Var(&userID, "user", 0, "Recount a single user by ID (default: all active users)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s recount-counters [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Recompute denormalized user counters from the follow and status rows.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd.UserID = uint(userID)
	return nil
}

func (cmd *RecountCountersCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	reconciler := counters.NewReconciler(db.DB, counters.NewService())

	if cmd.UserID > 0 {
		if err := reconciler.RecountUser(cmd.UserID); err != nil {
			return fmt.Errorf("failed to recount user %d: %w", cmd.UserID, err)
		}
		fmt.Printf("Recounted counters for user %d\n", cmd.UserID)
		return nil
	}

	count, err := reconciler.RecountAll()
	if err != nil {
		return fmt.Errorf("failed to recount counters: %w", err)
	}

	fmt.Printf("Recounted counters for %d users\n", count)
	return nil
}
