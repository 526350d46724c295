package main

import (
	"encoding/json"
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

	// Global settings
	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	client := NewAPIClient(apiURL)
	command := os.Args[1]
	args := os.Args[2:]

	var (
		out interface{}
		err error
	)

	switch command {
	case "register":
		out, err = registerCmd(client, args)
	case "login":
		out, err = loginCmd(client, args)
	case "refresh":
		out, err = refreshCmd(client, args)
	case "create":
		out, err = createCmd(client, args)
	case "import":
		out, err = importCmd(client, args)
	case "list":
		out, err = listCmd(client, args)
	case "balance":
		out, err = balanceCmd(client, args)
	case "demo":
		out, err = demoCmd(client, args)
	case "help", "-h", "--help":
		printUsage()
		return
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(out)
}

func printUsage() {
	fmt.Println(`walletctl - Development client for the wallet custody API

USAGE:
  walletctl <command> [options]

COMMANDS:
  register  Create an account (--email, --password)
  login     Log in and print the token pair (--email, --password)
  refresh   Trade a refresh token for a new pair (--token)
  create    Generate a custodied wallet (--token)
  import    Import an existing key (--token, --address, --key)
  list      List your wallets (--token)
  balance   Show the balance of any address (--token, --address)
  demo      Register a throwaway user, create a wallet and show its balance
  help      Show this help message

ENVIRONMENT:
  API_URL         Backend API URL (default: http://localhost:8080)
  WALLETCTL_TOKEN Access token used when --token is omitted

EXAMPLES:
  walletctl register --email=me@example.com --password=secret
  export WALLETCTL_TOKEN=$(walletctl login --email=me@example.com --password=secret | jq -r .accessToken)
  walletctl create
  walletctl balance --address=0x7E5F4552091A69125d5DfCb7b8C2659029395Bdf`)
}

func credentialFlags(name string, args []string) (email, password string, err error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	e := fs.String("email", "", "Account email")
	p := fs.String("password", "", "Account password")
	if err := fs.Parse(args); err != nil {
		return "", "", err
	}
	if *e == "" || *p == "" {
		return "", "", fmt.Errorf("--email and --password are required")
	}
	return *e, *p, nil
}

func tokenFlag(fs *flag.FlagSet) *string {
	return fs.String("token", os.Getenv("WALLETCTL_TOKEN"), "Access token")
}

func requireToken(token string) error {
	if token == "" {
		return fmt.Errorf("--token or WALLETCTL_TOKEN is required")
	}
	return nil
}

func registerCmd(client *APIClient, args []string) (interface{}, error) {
	email, password, err := credentialFlags("register", args)
	if err != nil {
		return nil, err
	}
	return client.Register(email, password)
}

func loginCmd(client *APIClient, args []string) (interface{}, error) {
	email, password, err := credentialFlags("login", args)
	if err != nil {
		return nil, err
	}
	return client.Login(email, password)
}

func refreshCmd(client *APIClient, args []string) (interface{}, error) {
	fs := flag.NewFlagSet("refresh", flag.ContinueOnError)
	token := fs.String("token", "", "Refresh token")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if *token == "" {
		return nil, fmt.Errorf("--token is required")
	}
	return client.Refresh(*token)
}

func createCmd(client *APIClient, args []string) (interface{}, error) {
	fs := flag.NewFlagSet("create", flag.ContinueOnError)
	token := tokenFlag(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := requireToken(*token); err != nil {
		return nil, err
	}
	return client.CreateWallet(*token)
}

func importCmd(client *APIClient, args []string) (interface{}, error) {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	token := tokenFlag(fs)
	address := fs.String("address", "", "Wallet address")
	key := fs.String("key", "", "Hex private key")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := requireToken(*token); err != nil {
		return nil, err
	}
	return client.ImportWallet(*token, *address, *key)
}

func listCmd(client *APIClient, args []string) (interface{}, error) {
	fs := flag.NewFlagSet("list", flag.ContinueOnError)
	token := tokenFlag(fs)
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := requireToken(*token); err != nil {
		return nil, err
	}
	return client.ListWallets(*token)
}

func balanceCmd(client *APIClient, args []string) (interface{}, error) {
	fs := flag.NewFlagSet("balance", flag.ContinueOnError)
	token := tokenFlag(fs)
	address := fs.String("address", "", "Address to query")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := requireToken(*token); err != nil {
		return nil, err
	}
	return client.Balance(*token, *address)
}

type demoResult struct {
	User    User            `json:"user"`
	Wallet  Wallet          `json:"wallet"`
	Balance string          `json:"balance"`
	Wallets []WalletSummary `json:"wallets"`
}

func demoCmd(client *APIClient, args []string) (interface{}, error) {
	fs := flag.NewFlagSet("demo", flag.ContinueOnError)
	password := fs.String("password", "demo-password-123", "Password for the throwaway user")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	email := fmt.Sprintf("demo_%d@example.com", time.Now().UnixNano()%1000000)
	auth, err := client.Register(email, *password)
	if err != nil {
		return nil, err
	}

	created, err := client.CreateWallet(auth.AccessToken)
	if err != nil {
		return nil, err
	}

	balance, err := client.Balance(auth.AccessToken, created.Wallet.Address)
	if err != nil {
		return nil, err
	}

	wallets, err := client.ListWallets(auth.AccessToken)
	if err != nil {
		return nil, err
	}

	return demoResult{
		User:    auth.User,
		Wallet:  created.Wallet,
		Balance: balance.Balance,
		Wallets: wallets,
	}, nil
}
