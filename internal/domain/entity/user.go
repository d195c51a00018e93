package entity

import "time"

// Seller roles. A user may carry any combination.
const (
	SellerRoleChef     = "chef"
	SellerRoleGarden   = "garden"
	SellerRoleDesigner = "designer"
)

// Buyer types. At most one is selected at a time.
const (
	BuyerTypePrivate  = "private"
	BuyerTypeBusiness = "business"
)

// User is the aggregate root for the account domain.
// Passwords are stored as bcrypt hashes in Password field.
// Accounts are never hard-deleted; soft states only.
type User struct {
	ID        string
	Email     string
	Username  string
	Password  string
	FirstName string
	LastName  string

	// Display preference: "username", "fullname" or "firstname"
	DisplayNamePref string

	Bio       string
	Quote     string
	AvatarURL string

	// Address components
	Street      string
	HouseNumber string
	PostalCode  string
	City        string
	Country     string

	SellerRoles []string // subset of {chef, garden, designer}
	BuyerType   string   // one of BuyerType*, empty when seller-only

	Business *BusinessProfile
	Courier  *CourierProfile

	SocialLogin bool // account created via a social provider, no local password
	IsVerified  bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// BusinessProfile holds the commercial sub-record for selling users.
type BusinessProfile struct {
	KVKNumber    string
	VATNumber    string
	Subscription string // free, basic, premium
	TaxAcked     bool   // tax-responsibility acknowledgment from signup
}

// CourierProfile holds the delivery sub-record.
type CourierProfile struct {
	Active   bool
	Verified bool
	Rating   float64
}

// IsSeller reports whether the user carries at least one seller role.
func (u *User) IsSeller() bool {
	return len(u.SellerRoles) > 0
}

// HasSellerRole reports whether the user carries the given seller role.
func (u *User) HasSellerRole(role string) bool {
	for _, r := range u.SellerRoles {
		if r == role {
			return true
		}
	}
	return false
}

// DisplayName resolves the public name per the user's preference.
func (u *User) DisplayName() string {
	switch u.DisplayNamePref {
	case "fullname":
		if u.FirstName != "" || u.LastName != "" {
			return u.FirstName + " " + u.LastName
		}
	case "firstname":
		if u.FirstName != "" {
			return u.FirstName
		}
	}
	return u.Username
}
