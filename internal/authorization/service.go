package authorization

import "context"

type Service interface {
	Authorize(ctx context.Context, username, role, object, action string) error
}
