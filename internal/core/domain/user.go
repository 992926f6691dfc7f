package domain

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

const adminUsername = "admin"

// GuestCustomerID is sent as customer id for orders placed without a login.
const GuestCustomerID = "GUEST"

type User struct {
	AccountID  string `json:"accountId,omitempty"`
	Username   string `json:"username"`
	Role       Role   `json:"role"`
	CustomerID string `json:"customerId,omitempty"`
}

// RoleForUsername derives the session role. The upstream API has no role
// field; the account named "admin" is the administrator.
func RoleForUsername(username string) Role {
	if username == adminUsername {
		return RoleAdmin
	}
	return RoleCustomer
}

func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

func (u *User) IsCustomer() bool {
	return u != nil && u.Role == RoleCustomer
}
