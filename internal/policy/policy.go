// Package policy holds the static role gate for every mutating and viewing
// operation. Handlers consume allow/deny directly; denial semantics (a soft
// redirect back to the dashboard) live in the HTTP guard middleware.
package policy

import "github.com/traintrackhq/traintrack-api/internal/models"

// Operation identifies a gated use case.
type Operation string

const (
	OpViewDashboard       Operation = "view_dashboard"
	OpSelfRegisterTrainer Operation = "self_register_trainer"
	OpIssueTrainer        Operation = "issue_trainer"
	OpEditTrainer         Operation = "edit_trainer"
	OpDeleteTrainer       Operation = "delete_trainer"
	OpManageBatches       Operation = "manage_batches"
	OpAddLog              Operation = "add_log"
	OpViewReports         Operation = "view_reports"
	OpManageUsers         Operation = "manage_users"
)

var allowed = map[Operation]map[models.Role]bool{
	OpViewDashboard:       anyAuthenticated(),
	OpSelfRegisterTrainer: anyAuthenticated(),
	OpIssueTrainer:        adminOnly(),
	// read_write may edit only its own trainer record; that ownership
	// refinement is enforced in the trainer service.
	OpEditTrainer:   {models.RoleAdmin: true, models.RoleReadWrite: true},
	OpDeleteTrainer: adminOnly(),
	OpManageBatches: {models.RoleAdmin: true, models.RoleReadWrite: true},
	OpAddLog:        {models.RoleAdmin: true, models.RoleReadWrite: true},
	OpViewReports:   anyAuthenticated(),
	OpManageUsers:   adminOnly(),
}

// Authorize reports whether the role may perform the operation. Unknown
// operations and unknown roles are denied.
func Authorize(role models.Role, op Operation) bool {
	roles, ok := allowed[op]
	if !ok {
		return false
	}
	return roles[role]
}

func adminOnly() map[models.Role]bool {
	return map[models.Role]bool{models.RoleAdmin: true}
}

func anyAuthenticated() map[models.Role]bool {
	return map[models.Role]bool{
		models.RoleAdmin:     true,
		models.RoleReadWrite: true,
		models.RoleReadOnly:  true,
	}
}
