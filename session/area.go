package session

import (
	"slices"
	"strings"

	"github.com/octabyte/medtrack-gommon/enums"
	"github.com/octabyte/medtrack-gommon/rbac"
)

// Area is a protected route prefix with its verification endpoint and the
// roles it admits.
type Area struct {
	Name       string
	Prefix     string
	VerifyPath string
	Roles      []enums.Role
}

var (
	AdminArea = newArea("admin", enums.RoleAdmin, enums.RoleStaff)
	UserArea  = newArea("user", enums.RolePatient)
)

func newArea(name string, roles ...enums.Role) Area {
	caps, _ := rbac.For(roles[0])
	return Area{
		Name:       name,
		Prefix:     caps.Area,
		VerifyPath: caps.Endpoints.Verify,
		Roles:      roles,
	}
}

func (a Area) Contains(path string) bool {
	return path == a.Prefix || strings.HasPrefix(path, a.Prefix+"/")
}

func (a Area) Admits(role enums.Role) bool {
	return slices.Contains(a.Roles, role)
}

// AreaFor returns the protected area path belongs to.
func AreaFor(path string) (Area, bool) {
	for _, area := range []Area{AdminArea, UserArea} {
		if area.Contains(path) {
			return area, true
		}
	}
	return Area{}, false
}
