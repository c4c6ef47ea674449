package pgfleet

import "context"

// Approver handles user interaction for approval workflows,
// particularly for dropping databases.
//
// Implementations:
//   - ForcedApprover: Shows countdown and automatically approves
//   - InteractiveApprover: Prompts user to type database name for confirmation
type Approver interface {
	// RequestApproval prompts for confirmation before dropping a database.
	// Returns true if approved.
	RequestApproval(ctx context.Context, dbName string) (bool, error)
}
