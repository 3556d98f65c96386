// ABOUTME: Entry point for the meishi business card scanner CLI
// ABOUTME: Routes subcommands for scanning, reviewing, and syncing cards to Google Contacts
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/harperreed/meishi/cli"
	"github.com/harperreed/meishi/db"
)

const version = "0.1.0"

func main() {
	// Optional .env for OAuth and Vision credentials
	_ = godotenv.Load()

	// Global flags
	showVersion := flag.Bool("version", false, "Show version and exit")
	dbPath := flag.String("db-path", "", "Database path (default: ~/.local/share/meishi/meishi.db)")

	// Parse global flags but don't fail on unknown (for subcommands)
	_ = flag.CommandLine.Parse(os.Args[1:])

	// Handle version flag
	if *showVersion {
		fmt.Printf("meishi version %s\n", version)
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		printUsage()
		os.Exit(0)
	}

	command := args[0]
	commandArgs := args[1:]

	switch command {
	case "auth":
		if len(commandArgs) == 0 {
			fmt.Println("Error: auth requires a subcommand (login, logout, status)")
			os.Exit(1)
		}
		var err error
		switch commandArgs[0] {
		case "login":
			err = cli.AuthLoginCommand(commandArgs[1:])
		case "logout":
			err = cli.AuthLogoutCommand(commandArgs[1:])
		case "status":
			err = cli.AuthStatusCommand(commandArgs[1:])
		default:
			err = fmt.Errorf("unknown auth subcommand: %s", commandArgs[0])
		}
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "scan":
		if err := cli.ScanCommand(commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "review":
		if err := cli.ReviewCommand(commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "apply":
		database := openDatabase(*dbPath)
		defer database.Close()
		if err := cli.ApplyCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "parse":
		if err := cli.ParseCommand(commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "quota":
		if len(commandArgs) == 0 {
			fmt.Println("Error: quota requires a subcommand (show, add)")
			os.Exit(1)
		}
		database := openDatabase(*dbPath)
		defer database.Close()
		var err error
		switch commandArgs[0] {
		case "show":
			err = cli.QuotaShowCommand(database, commandArgs[1:])
		case "add":
			err = cli.QuotaAddCommand(database, commandArgs[1:])
		default:
			err = fmt.Errorf("unknown quota subcommand: %s", commandArgs[0])
		}
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "logs":
		database := openDatabase(*dbPath)
		defer database.Close()
		if err := cli.LogsCommand(database, commandArgs); err != nil {
			log.Fatalf("Error: %v", err)
		}

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func openDatabase(path string) *sql.DB {
	if path == "" {
		path = db.DefaultPath()
	}
	database, err := db.OpenDatabase(path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	return database
}

func printUsage() {
	fmt.Print(`meishi - business card scanner for Google Contacts

USAGE:
  meishi [flags] <command> [args]

FLAGS:
  -version              Show version and exit
  -db-path <path>       Database path (default: ~/.local/share/meishi/meishi.db)

COMMANDS:
  auth login            Authenticate with Google (People API)
  auth logout           Remove the stored token
  auth status           Show token status

  scan <image...>       OCR and parse up to 5 card images into a draft batch
    --source <label>      Provenance label for the contact note

  review                Show the active draft batch
    --batch <id>          Review a specific batch
    --skip <n>            Mark card n as skipped
    --unskip <n>          Unmark card n
    --edit <n> --json <file>  Replace card n's record from a JSON file
    --ocr                 Show raw OCR text

  apply                 Reconcile the draft batch with Google Contacts
    --user <key>          Quota account key
    --batch <id>          Apply a specific batch
    --dry-run             Decide actions without writing anything

  parse                 Parse raw card text to a record JSON
    --text <file|->       Input text file, or '-' for stdin

  quota show --user <key>   Show balance and ledger
  quota add  --user <key> --credits <n>|--tier <i>  Add credits

  logs                  List CSV reports and recent scan log entries

EXAMPLES:
  # Authenticate, scan two cards, review, then sync
  meishi auth login
  meishi scan card1.jpg card2.jpg
  meishi review
  meishi apply --user alice@example.com
`)
}
