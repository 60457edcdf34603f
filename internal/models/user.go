package models

import (
	"time"
)

// Role is one of the four enumerated user profiles. Permission checks are a
// set-membership test against a static operation-to-roles table in the access
// package; there is no dynamic role data.
type Role string

const (
	RoleAdmin       Role = "admin"
	RoleManager     Role = "gerente"
	RoleSalesperson Role = "vendedor"
	RoleSupport     Role = "suporte"
)

var Roles = []Role{RoleAdmin, RoleManager, RoleSalesperson, RoleSupport}

func (r Role) Valid() bool {
	for _, v := range Roles {
		if r == v {
			return true
		}
	}
	return false
}

type User struct {
	UID       string    `firestore:"uid" json:"uid"`
	Name      string    `firestore:"name" json:"name"`
	Email     string    `firestore:"email" json:"email"`
	Role      Role      `firestore:"role" json:"role"`
	Active    bool      `firestore:"active" json:"active"`
	CreatedAt time.Time `firestore:"createdAt" json:"createdAt"`
	CreatedBy string    `firestore:"createdBy" json:"createdBy,omitempty"`
	UpdatedAt time.Time `firestore:"updatedAt" json:"updatedAt"`
	UpdatedBy string    `firestore:"updatedBy" json:"updatedBy,omitempty"`
}
