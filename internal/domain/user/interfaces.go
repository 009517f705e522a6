package user

import "context"

// Repository provides persistence for users.
type Repository interface {
	Upsert(ctx context.Context, u *User) error
	List(ctx context.Context) ([]User, error)
}
