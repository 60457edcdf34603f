package access

import (
	"github.com/souzacred/crm-backend/internal/models"
)

// Operation names a remote-callable operation for permission lookup.
type Operation string

const (
	OpAddCustomer       Operation = "addCustomer"
	OpListCustomers     Operation = "listCustomers"
	OpSearchCustomers   Operation = "searchCustomers"
	OpGetCustomer       Operation = "getCustomer"
	OpUpdateCustomer    Operation = "updateCustomer"
	OpDeleteCustomer    Operation = "deleteCustomer"
	OpMoveStage         Operation = "moveCustomerStage"
	OpListLoans         Operation = "listCustomerLoans"
	OpListAppointments  Operation = "listCustomerAppointments"
	OpCreateAppointment Operation = "createAppointment"
	OpDashboard         Operation = "dashboard"
	OpReports           Operation = "reports"
	OpSettingsRead      Operation = "settingsRead"
	OpSettingsWrite     Operation = "settingsWrite"
	OpManageUsers       Operation = "manageUsers"
	OpRecalcTerms       Operation = "recalcTerms"
)

var (
	allRoles   = []models.Role{models.RoleAdmin, models.RoleManager, models.RoleSalesperson, models.RoleSupport}
	salesRoles = []models.Role{models.RoleAdmin, models.RoleManager, models.RoleSalesperson}
	mgmtRoles  = []models.Role{models.RoleAdmin, models.RoleManager}
	adminOnly  = []models.Role{models.RoleAdmin}
)

// permissions is the static operation-to-roles table. Every operation the
// router exposes must appear here; an unknown operation denies everyone.
var permissions = map[Operation][]models.Role{
	OpAddCustomer:       salesRoles,
	OpListCustomers:     allRoles,
	OpSearchCustomers:   allRoles,
	OpGetCustomer:       allRoles,
	OpUpdateCustomer:    salesRoles,
	OpDeleteCustomer:    mgmtRoles,
	OpMoveStage:         salesRoles,
	OpListLoans:         allRoles,
	OpListAppointments:  allRoles,
	OpCreateAppointment: salesRoles,
	OpDashboard:         allRoles,
	OpReports:           mgmtRoles,
	OpSettingsRead:      mgmtRoles,
	OpSettingsWrite:     adminOnly,
	OpManageUsers:       adminOnly,
	OpRecalcTerms:       adminOnly,
}

// Allowed reports whether role may perform op.
func Allowed(op Operation, role models.Role) bool {
	for _, r := range permissions[op] {
		if r == role {
			return true
		}
	}
	return false
}
