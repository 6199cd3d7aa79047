package models

// RoleName is a capability tag. The roles table is seeded with exactly these.
type RoleName string

const (
	RoleVoter       RoleName = "VOTER"
	RoleAgent       RoleName = "AGENT"
	RoleCandidate   RoleName = "CANDIDATE"
	RoleBLO         RoleName = "BLO"
	RoleSuperAgent  RoleName = "SUPER_AGENT"
	RoleMasterAgent RoleName = "MASTER_AGENT"
	RoleObserver    RoleName = "OBSERVER"
	RoleAdmin       RoleName = "ADMIN"
	RoleSuperAdmin  RoleName = "SUPER_ADMIN"
	RoleMasterAdmin RoleName = "MASTER_ADMIN"
)

func (r RoleName) String() string { return string(r) }

// AdminRoles may manage elections and nominations.
var AdminRoles = []string{string(RoleMasterAdmin), string(RoleSuperAdmin), string(RoleAdmin)}

// photoFolders maps a role to its profile photo folder in object storage.
var photoFolders = map[RoleName]string{
	RoleVoter:       "voter",
	RoleAgent:       "agent",
	RoleBLO:         "blo",
	RoleSuperAgent:  "super-agent",
	RoleMasterAgent: "master-agent",
	RoleObserver:    "observer",
	RoleCandidate:   "candidate",
	RoleAdmin:       "admin",
	RoleSuperAdmin:  "super-admin",
	RoleMasterAdmin: "master-admin",
}

// PhotoFolder returns the storage folder for role, "others" when unmapped.
func (r RoleName) PhotoFolder() string {
	if f, ok := photoFolders[r]; ok {
		return f
	}
	return "others"
}
