package main

import (
	"flag"
	"fmt"
	"os"
	"time"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "seed":
		seedCmd(apiURL, args)
	case "transfer":
		transferCmd(apiURL, args)
	case "remind":
		remindCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Warranty Simulator - Development tool for the warranty tracker API

USAGE:
  simulator <command> [options]

COMMANDS:
  seed      Register a user with reminders on and warranties around the reminder date
  transfer  Walk a warranty through the transfer link flow between two new users
  remind    Trigger the reminder job and print the per-user diagnostics
  help      Show this help message

ENVIRONMENT:
  API_URL      Backend API URL (default: http://localhost:8080)
  CRON_SECRET  Secret for the reminder endpoint (remind)

EXAMPLES:
  # User whose 7-day reminder matches two warranties
  simulator seed --days=7 --email=me@example.com

  # Seed, then send the reminders
  simulator seed && CRON_SECRET=dev simulator remind`)
}

func seedCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("seed", flag.ExitOnError)
	email := fs.String("email", "", "Email to register (default: a generated one)")
	days := fs.Int("days", 7, "Reminder lead time in days")
	fs.Parse(args)

	client := NewAPIClient(apiURL)

	fmt.Println("=== Warranty Simulator: Seed ===")
	fmt.Println()

	fmt.Print("Registering user... ")
	user, token, err := client.RegisterUser(*email)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (%s)\n", user.Email)

	fmt.Printf("Enabling reminders %d days ahead... ", *days)
	if err := client.SaveSettings(token, *days); err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("OK")

	today := time.Now().Truncate(24 * time.Hour)
	samples := []struct {
		name   string
		brand  string
		offset int
	}{
		{"Television", "Sony", *days},
		{"Laptop", "Lenovo", *days},
		{"Dishwasher", "Bosch", *days + 1},
		{"Headphones", "", *days - 1},
		{"Blender", "Philips", -10},
	}

	fmt.Println()
	fmt.Println("Creating warranties:")
	for _, s := range samples {
		w, err := client.CreateWarranty(token, s.name, s.brand, today.AddDate(0, 0, s.offset))
		if err != nil {
			fmt.Printf("  FAILED %s: %v\n", s.name, err)
			os.Exit(1)
		}
		fmt.Printf("  %-12s expires %s\n", w.ProductName, w.WarrantyExpires)
	}

	fmt.Println()
	fmt.Printf("  Password:     testpassword123\n")
	fmt.Printf("  Access token: %s\n", token)
}

func transferCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("transfer", flag.ExitOnError)
	fs.Parse(args)

	client := NewAPIClient(apiURL)

	fmt.Println("=== Warranty Simulator: Transfer ===")
	fmt.Println()

	owner, ownerToken, err := client.RegisterUser("")
	if err != nil {
		fmt.Printf("Failed to create owner: %v\n", err)
		os.Exit(1)
	}
	claimer, claimerToken, err := client.RegisterUser("")
	if err != nil {
		fmt.Printf("Failed to create claimer: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Owner:   %s\n", owner.Email)
	fmt.Printf("Claimer: %s\n", claimer.Email)

	w, err := client.CreateWarranty(ownerToken, "Coffee machine", "DeLonghi", time.Now().AddDate(1, 0, 0))
	if err != nil {
		fmt.Printf("Failed to create warranty: %v\n", err)
		os.Exit(1)
	}

	link, err := client.CreateTransferLink(ownerToken, w.ID)
	if err != nil {
		fmt.Printf("Failed to create link: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Link:    %s (expires %s)\n", link.ClaimURL, link.ExpiresAt.Format(time.RFC3339))
	fmt.Println()

	steps := []struct {
		label string
		run   func() (*ClaimOutcome, error)
	}{
		{"Preview as claimer", func() (*ClaimOutcome, error) { return client.PreviewClaim(claimerToken, link.Token) }},
		{"Claim as claimer", func() (*ClaimOutcome, error) { return client.Claim(claimerToken, link.Token) }},
		{"Preview again", func() (*ClaimOutcome, error) { return client.PreviewClaim(ownerToken, link.Token) }},
	}
	for _, step := range steps {
		outcome, err := step.run()
		if err != nil {
			fmt.Printf("  %-20s FAILED: %v\n", step.label, err)
			os.Exit(1)
		}
		fmt.Printf("  %-20s %s\n", step.label, outcome.Status)
	}
}

func remindCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("remind", flag.ExitOnError)
	secret := fs.String("secret", os.Getenv("CRON_SECRET"), "Cron secret (default: $CRON_SECRET)")
	fs.Parse(args)

	if *secret == "" {
		fmt.Println("Error: --secret or CRON_SECRET is required")
		os.Exit(1)
	}

	client := NewAPIClient(apiURL)

	fmt.Print("Running reminder job... ")
	result, err := client.RunReminders(*secret)
	if err != nil {
		fmt.Printf("FAILED\n  Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("OK (%d sent, %d users checked)\n", result.EmailsSent, result.UsersChecked)
	if result.Message != "" {
		fmt.Printf("  %s\n", result.Message)
	}

	for _, d := range result.Diagnostics {
		line := fmt.Sprintf("  %s  target=%s  warranties=%d  %s", d.UserID, d.TargetDate, d.Warranties, d.Outcome)
		if d.Recipient != "" {
			line += "  -> " + d.Recipient
		}
		if d.Error != "" {
			line += "  (" + d.Error + ")"
		}
		fmt.Println(line)
	}
}
