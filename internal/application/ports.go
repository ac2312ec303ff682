package application

import (
	"context"
	"time"

	"github.com/oksasatya/taskboard/internal/domain/entity"
)

// Publisher puts a JSON message on the email queue.
type Publisher interface {
	PublishJSON(ctx context.Context, body any) error
}

// UserIndexer keeps the searchable user directory in sync.
type UserIndexer interface {
	IndexUser(ctx context.Context, u *entity.User) error
	SearchUsers(ctx context.Context, q string, size int) ([]*entity.User, error)
}

// TokenRevoker records logged-out tokens until they expire.
type TokenRevoker interface {
	Revoke(ctx context.Context, jti, userID string, exp time.Time) error
}

// ClientMeta describes where a sensitive change came from.
type ClientMeta struct {
	IP        string
	UserAgent string
}
