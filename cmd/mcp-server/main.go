package main

import (
	"context"
	"log"
	"os"

	"github.com/eshaffer321/ynab-go/pkg/ynab"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

func main() {
	token := os.Getenv("YNAB_TOKEN")
	if token == "" {
		log.Fatal("YNAB_TOKEN environment variable is required")
	}

	client, err := ynab.NewClient(&ynab.ClientOptions{
		Token:   token,
		BaseURL: os.Getenv("YNAB_BASE_URL"),
	})
	if err != nil {
		log.Fatalf("failed to initialize YNAB client: %v", err)
	}
	defer client.Close()

	impl := &mcp.Implementation{
		Name:    "ynab",
		Version: "1.0.0",
	}

	server := mcp.NewServer(impl, nil)

	registerTools(server, client)

	// stdio transport for desktop MCP hosts
	if err := server.Run(context.Background(), &mcp.StdioTransport{}); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func registerTools(server *mcp.Server, client *ynab.Client) {
	tools := newYNABTools(client)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_budgets",
		Description: "List the budgets the token can access with their currency and month range.",
	}, tools.GetBudgets)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_accounts",
		Description: "Get the accounts of a budget with their balances. Closed accounts are left out unless requested.",
	}, tools.GetAccounts)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_categories",
		Description: "Get the categories of a budget organized by group, with the current month's budgeted, activity and balance figures.",
	}, tools.GetCategories)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_transactions",
		Description: "List transactions of a budget, optionally since a date, for one account, or only uncategorized or unapproved ones.",
	}, tools.GetTransactions)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "get_month",
		Description: "Get a budget month's totals and per-category figures. Defaults to the current month.",
	}, tools.GetMonth)
}
