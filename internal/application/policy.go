package application

import "github.com/oksasatya/sample-social/internal/domain/entity"

// Authorization decides whether acting may modify target.
type Authorization interface {
	CanUpdate(acting, target *entity.User) bool
	CanDestroy(acting, target *entity.User) bool
}

// UserPolicy lets users edit their own profile and admins edit anyone.
// Only admins delete accounts, and never their own.
type UserPolicy struct{}

func (UserPolicy) CanUpdate(acting, target *entity.User) bool {
	if acting == nil || target == nil {
		return false
	}
	return acting.IsSame(target) || acting.IsAdmin
}

func (UserPolicy) CanDestroy(acting, target *entity.User) bool {
	if acting == nil || target == nil {
		return false
	}
	return acting.IsAdmin && !acting.IsSame(target)
}

var _ Authorization = UserPolicy{}
