package cli

import (
	"flag"
	"fmt"
	"os"

	"github.com/safhaapp/safha/internal/auth"
	"github.com/safhaapp/safha/internal/config"
	"github.com/safhaapp/safha/internal/database"
	"github.com/safhaapp/safha/internal/database/users"
	"github.com/safhaapp/safha/internal/entities"
)

// CreateUserCommand creates an account from the command line. Useful for
// bootstrapping the first account or creating one while the server is down.
type CreateUserCommand struct {
	Username     string
	Email        string
	Password     string
	FirstName    string
	LastName     string
	Admin        bool
	DatabasePath string
}

func NewCreateUserCommand() *CreateUserCommand {
	return &CreateUserCommand{}
}

func (cmd *CreateUserCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("create-user", flag.ExitOnError)

	fs.StringVar(&cmd.Username, "username", "", "Username for the new account (required)")
	fs.StringVar(&cmd.Email, "email", "", "Email for the new account (required)")
	fs.StringVar(&cmd.Password, "password", "", "Password for the new account (required)")
	fs.StringVar(&cmd.FirstName, "first-name", "", "First name")
	fs.StringVar(&cmd.LastName, "last-name", "", "Last name")
	fs.BoolVar(&cmd.Admin, "admin", false, "Grant the admin role")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s create-user -username <name> -email <email> -password <password> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Create a user account directly in the database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.Username == "" || cmd.Email == "" || cmd.Password == "" {
		return fmt.Errorf("required flags -username, -email and -password must all be provided")
	}

	return nil
}

func (cmd *CreateUserCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	cfg := config.NewConfig()
	service := auth.NewService(users.NewRepository(db.DB), cfg.Auth)

	user, err := service.Register(cmd.Username, cmd.Email, cmd.Password, cmd.FirstName, cmd.LastName)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	if cmd.Admin {
		user.Role = entities.UserRoleAdmin
		if err := db.DB.Model(user).Update("role", entities.UserRoleAdmin).Error; err != nil {
			return fmt.Errorf("failed to grant admin role: %w", err)
		}
	}

	fmt.Printf("Created user %q (id=%d, role=%s)\n", user.Username, user.ID, user.Role)
	return nil
}
