// Package bigbang reconciles an Azure Cosmos DB account against a
// declarative desired-state document.
//
// # Module Structure
//
//   - github.com/pthm/bigbang (this package): sentinel errors shared by every layer.
//   - pkg/model: the desired-state model and its validation.
//   - pkg/parser: JSON, YAML and TOML document loading, including script bodies.
//   - pkg/gateway: the Gateway interface every account read and write goes through.
//   - pkg/migrator: the reconciler, script update policy and run driver.
//   - internal/cosmos: the REST implementation of Gateway.
//   - cmd/bigbang: the command-line tool.
//
// # Reconciliation
//
// Live containers are split against the desired ones by id. Missing
// containers are created with their scripts, existing ones are fully
// replaced and their scripts converged, and live containers the document no
// longer declares are deleted with their data. Runs are sequential,
// idempotent and never transactional.
//
// # Basic Usage
//
//	client, err := cosmos.NewClient(connStr, nil)
//	if err != nil {
//	    return err
//	}
//	report, err := migrator.Migrate(ctx, client, "topology/database.json", migrator.Options{})
//	if bigbang.IsPartialMigrationErr(err) {
//	    report.Print(os.Stderr)
//	}
package bigbang
