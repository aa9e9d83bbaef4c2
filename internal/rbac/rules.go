package rbac

// Default policy for the two roles the gateway issues.
var RolePermissions = map[string][]string{
	"learner": {
		"exercise:list",
		"exercise:view",
		"session:play",
		"media:view",
	},
	"author": {
		"exercise:*",
		"session:play",
		"media:*",
	},
	"admin": {
		"*", // everything
	},
}
