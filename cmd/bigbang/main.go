// Package main provides the bigbang CLI, which reconciles a Cosmos DB
// account against a declarative desired-state document.
//
// The CLI supports:
//   - migrate: Create, update and delete containers and their scripts
//   - validate: Check the document and its script files offline
//   - status: Show which containers would be created, updated or deleted
//   - doctor: Run read-only health checks against the account
//
// This tool is typically run during deployment to keep an account in step
// with the document checked into the repository.
//
// Usage:
//
//	bigbang migrate -c "AccountEndpoint=...;AccountKey=...;" -f database.json
//
// Commands that talk to the account need a connection string from
// --connection-string, BIGBANG_CONNECTION_STRING or bigbang.yaml.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	Execute(ctx)
}
