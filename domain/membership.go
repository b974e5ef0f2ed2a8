package domain

// MembershipKind names a user-recipe join collection.
type MembershipKind string

const (
	MembershipFavorite     MembershipKind = "favorite"
	MembershipShoppingCart MembershipKind = "shopping_cart"
)

// Intent is the direction of a membership toggle.
type Intent string

const (
	IntentAdd    Intent = "add"
	IntentRemove Intent = "remove"
)
