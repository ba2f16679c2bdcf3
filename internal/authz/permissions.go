// Package authz implementa el mapa fijo rol → permisos y los chequeos
// que usan los middlewares y services. Sin jerarquías implícitas: los
// chequeos compuestos son conjunciones explícitas.
package authz

import "github.com/max31337/salesoptimizer-sub001/internal/domain/repository"

// Permission es un permiso del sistema.
type Permission string

const (
	PermManageSystem       Permission = "MANAGE_SYSTEM"
	PermManageOrganization Permission = "MANAGE_ORGANIZATION"
	PermCreateTenant       Permission = "CREATE_TENANT"
	PermCreateInvitation   Permission = "CREATE_INVITATION"
	PermManageUsers        Permission = "MANAGE_USERS"
	PermViewReports        Permission = "VIEW_REPORTS"
)

// rolePermissions es el mapa fijo de permisos por rol.
// Se construye una vez; HasPermission es un lookup puro.
var rolePermissions = map[repository.Role]map[Permission]bool{
	repository.RoleSuperAdmin: permSet(
		PermManageSystem,
		PermManageOrganization,
		PermCreateTenant,
		PermCreateInvitation,
		PermManageUsers,
		PermViewReports,
	),
	repository.RoleOrgAdmin: permSet(
		PermManageOrganization,
		PermCreateInvitation,
		PermManageUsers,
		PermViewReports,
	),
	repository.RoleManager: permSet(
		PermCreateInvitation,
		PermViewReports,
	),
	repository.RoleSalesRep: permSet(
		PermViewReports,
	),
}

func permSet(perms ...Permission) map[Permission]bool {
	m := make(map[Permission]bool, len(perms))
	for _, p := range perms {
		m[p] = true
	}
	return m
}

// HasPermission verifica si el rol tiene el permiso. Lookup puro, sin I/O.
func HasPermission(role repository.Role, perm Permission) bool {
	set, ok := rolePermissions[role]
	if !ok {
		return false
	}
	return set[perm]
}

// HasAll verifica que el rol tenga TODOS los permisos dados.
func HasAll(role repository.Role, perms ...Permission) bool {
	for _, p := range perms {
		if !HasPermission(role, p) {
			return false
		}
	}
	return true
}

// PermissionsFor retorna los permisos del rol (copia, orden no garantizado).
func PermissionsFor(role repository.Role) []Permission {
	set := rolePermissions[role]
	out := make([]Permission, 0, len(set))
	for p := range set {
		out = append(out, p)
	}
	return out
}
