// Package defines builds the override layer of the configuration stack from
// -D key=value flags, defines files and the defines map of pgfleet.yaml.
//
// Merge order, weakest first:
//
//	pgfleet.yaml defines < defines files (later files win) < -D flags
//
// Defines files use the manifest's key=value format:
//
//	# grant upgrades in this environment
//	pgfleet.permission.upgrade-db=true
//	pgfleet.db.orders.url=postgres://db1/orders
package defines
