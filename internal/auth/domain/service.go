package domain

import "context"

type Service interface {
	Login(ctx context.Context, username, password string) (Session, error)
	Authenticate(ctx context.Context, token string) (Identity, error)
}
