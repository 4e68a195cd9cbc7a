// Package roles holds the static role model consumed by the workflow engine.
package roles

type Role string

const (
	Screener            Role = "screener"
	CreditManager       Role = "creditManager"
	SanctionHead        Role = "sanctionHead"
	DisbursalManager    Role = "disbursalManager"
	DisbursalHead       Role = "disbursalHead"
	CollectionExecutive Role = "collectionExecutive"
	AccountExecutive    Role = "accountExecutive"
	Admin               Role = "admin"
)

// All lists every role an employee can carry.
var All = []Role{
	Screener,
	CreditManager,
	SanctionHead,
	DisbursalManager,
	DisbursalHead,
	CollectionExecutive,
	AccountExecutive,
	Admin,
}

// includes maps a role to the roles it subsumes. Heads cover their manager
// role; admin covers everything.
var includes = map[Role][]Role{
	SanctionHead:  {CreditManager},
	DisbursalHead: {DisbursalManager},
	Admin:         All,
}

// Expand computes the full role set an employee's assigned roles grant.
// Pure function over the static table; recomputed per request, no
// process-wide state.
func Expand(assigned []Role) map[Role]bool {
	set := make(map[Role]bool, len(assigned))
	for _, r := range assigned {
		set[r] = true
		for _, sub := range includes[r] {
			set[sub] = true
		}
	}
	return set
}

// Allowed reports whether any of the assigned roles (after hierarchy
// expansion) matches one of the allowed roles.
func Allowed(assigned []Role, allowed ...Role) bool {
	set := Expand(assigned)
	for _, r := range allowed {
		if set[r] {
			return true
		}
	}
	return false
}

// Valid reports whether s names a known role.
func Valid(s string) bool {
	for _, r := range All {
		if Role(s) == r {
			return true
		}
	}
	return false
}
