package domain

type View string

const (
	ViewHome     View = "home"
	ViewMenu     View = "menu"
	ViewCart     View = "cart"
	ViewCheckout View = "checkout"
	ViewLogin    View = "login"
	ViewRegister View = "register"
	ViewAccount  View = "account"
	ViewReview   View = "review"
	ViewAdmin    View = "admin"
)

var views = map[View]bool{
	ViewHome:     true,
	ViewMenu:     true,
	ViewCart:     true,
	ViewCheckout: true,
	ViewLogin:    true,
	ViewRegister: true,
	ViewAccount:  true,
	ViewReview:   true,
	ViewAdmin:    true,
}

func (v View) Valid() bool {
	return views[v]
}

// Permits reports whether the user may see the protected content of the view.
func (v View) Permits(u *User) bool {
	switch v {
	case ViewAccount, ViewReview:
		return u.IsCustomer()
	case ViewAdmin:
		return u.IsAdmin()
	default:
		return true
	}
}

// HomeFor is the landing view after a login.
func HomeFor(u *User) View {
	if u.IsAdmin() {
		return ViewAdmin
	}
	return ViewAccount
}
