package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"regexp"
	"strings"
	"unicode/utf8"

	"innovatube/backend/internal/auth"
	"innovatube/backend/internal/database"
	"innovatube/backend/internal/models"
	"innovatube/backend/internal/repository"
	"innovatube/backend/pkg/config"

	"go.uber.org/zap"
	"golang.org/x/term"
)

var usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,30}$`)

// readInput reads a line of text from the console.
func readInput(reader *bufio.Reader, prompt string) string {
	fmt.Print(prompt)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

// readPassword reads a password from the console, masking the input.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(bytePassword)), nil
}

type accountInput struct {
	FirstName string
	LastName  string
	Username  string
	Email     string
	Password  string
}

func validName(name string) bool {
	n := utf8.RuneCountInString(name)
	return n >= 2 && n <= 50
}

// createAccount cria uma conta direto no repositório, sem passar pelo reCAPTCHA.
func createAccount(ctx context.Context, users repository.UserRepository, in accountInput) (*models.User, error) {
	username := strings.ToLower(strings.TrimSpace(in.Username))
	email := strings.ToLower(strings.TrimSpace(in.Email))
	firstName := strings.TrimSpace(in.FirstName)
	lastName := strings.TrimSpace(in.LastName)
	switch {
	case !validName(firstName):
		return nil, errors.New("first name must have 2 to 50 characters")
	case !validName(lastName):
		return nil, errors.New("last name must have 2 to 50 characters")
	case !usernamePattern.MatchString(username):
		return nil, errors.New("username must have 3 to 30 letters, numbers or underscores")
	case !strings.Contains(email, "@"):
		return nil, errors.New("invalid email address")
	case len(in.Password) < 6:
		return nil, errors.New("password must be at least 6 characters")
	}

	hash, err := auth.NewPasswordHasher().Hash(in.Password)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		FirstName:    firstName,
		LastName:     lastName,
		Username:     username,
		Email:        email,
		PasswordHash: hash,
	}
	if err := users.Create(ctx, user); err != nil {
		var dup *repository.DuplicateError
		if errors.As(err, &dup) {
			return nil, fmt.Errorf("%s already in use", dup.Field)
		}
		return nil, err
	}
	return user, nil
}

func RunSetup() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.DatabaseDriver != config.DriverPostgres {
		log.Fatalf("Setup requires DATABASE_DRIVER=postgres (got %q)", cfg.DatabaseDriver)
	}

	fmt.Println("--- InnovaTube Setup ---")

	fmt.Println("\n--- Connecting to Database ---")
	db, err := database.Connect(cfg.DSN(), false)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	fmt.Println("Successfully connected to the database.")

	fmt.Println("\n--- Running Database Migrations ---")
	logger, _ := zap.NewDevelopment()
	if err := database.Migrate(db, logger); err != nil {
		log.Fatalf("Database migration process failed: %v", err)
	}
	fmt.Println("Database migrations completed successfully.")

	reader := bufio.NewReader(os.Stdin)
	answer := readInput(reader, "\nCreate a user account now? [y/N]: ")
	if !strings.EqualFold(answer, "y") {
		fmt.Println("\n--- InnovaTube Setup Complete! ---")
		return
	}

	fmt.Println("\n--- Creating User Account ---")
	in := accountInput{
		FirstName: readInput(reader, "First name: "),
		LastName:  readInput(reader, "Last name: "),
		Username:  readInput(reader, "Username: "),
		Email:     readInput(reader, "Email: "),
	}
	for {
		in.Password, err = readPassword("Password: ")
		if err != nil {
			log.Fatalf("Failed to read password: %v", err)
		}
		confirm, err := readPassword("Confirm password: ")
		if err != nil {
			log.Fatalf("Failed to read password confirmation: %v", err)
		}
		if in.Password == confirm {
			break
		}
		fmt.Println("Passwords do not match. Please try again.")
	}

	user, err := createAccount(context.Background(), repository.NewGormUserRepository(db), in)
	if err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}
	fmt.Printf("User '%s' created successfully with ID: %s\n", user.Username, user.ID)

	fmt.Println("\n--- InnovaTube Setup Complete! ---")
	fmt.Println("You can now start the main application server.")
}

func main() {
	RunSetup()
}
