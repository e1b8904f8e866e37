package rbac

// RolePermissions is the default policy. Guests only ever reach their own
// session because the session ID comes from the token subject.
var RolePermissions = map[string][]string{
	"guest": {
		"session:view",
		"session:update",
		"session:delete",
	},
	"admin": {
		"*",
	},
}
