package authority

// Instance is the ownership view of a domain record the oracle needs to make
// instance-scoped decisions without depending on the domain package.
type Instance interface {
	CreatorID() string
	SubjectID() string
}

// The decision engine is an opaque oracle to the rest of the service. The
// default implementation answers from session permissions; deployments with an
// external policy engine swap the Func vars at bootstrap.
var (
	IsAllowedFunc            = IsAllowed
	IsAllowedForInstanceFunc = IsAllowedForInstance
	GetAuthFilterFunc        = GetAuthFilter
)

// AuthFilter restricts list queries to the rows the caller may see.
type AuthFilter struct {
	AllowAll      bool
	CreatedByOnly string
}

func IsAllowed(action, resourceType string, perms Permissions) bool {
	return perms.HasRole(resourceType+":"+action) || perms.HasRole("agency:"+resourceType+":"+action)
}

func IsAllowedForInstance(action string, t Instance, userID string, perms Permissions) bool {
	if IsAllowed(action, "transaction", perms) {
		return true
	}
	// public users act on their own cases only, and never on admin data
	if action == "update-admin-data" {
		return false
	}
	return t.CreatorID() == userID || t.SubjectID() == userID
}

func GetAuthFilter(action, resourceType, userID string, perms Permissions) AuthFilter {
	if IsAllowed(action, resourceType, perms) {
		return AuthFilter{AllowAll: true}
	}
	return AuthFilter{CreatedByOnly: userID}
}
