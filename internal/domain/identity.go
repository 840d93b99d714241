package domain

type Role string

const (
	RoleShopper Role = "shopper"
	RoleStaff   Role = "staff"
)

// Identity is what the identity provider resolves a bearer token to.
type Identity struct {
	ShopperID string
	Role      Role
}

func (id Identity) IsStaff() bool {
	return id.Role == RoleStaff
}
