package testutil

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskboard/internal/domain/entity"
	"github.com/oksasatya/taskboard/pkg/mailer"
)

// Publisher records published messages as email jobs.
type Publisher struct {
	mu   sync.Mutex
	Jobs []mailer.EmailJob
	Err  error
}

func (p *Publisher) PublishJSON(_ context.Context, body any) error {
	if p.Err != nil {
		return p.Err
	}
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	var job mailer.EmailJob
	if err := json.Unmarshal(b, &job); err != nil {
		return err
	}
	p.mu.Lock()
	p.Jobs = append(p.Jobs, job)
	p.mu.Unlock()
	return nil
}

// Templates lists the template names of the recorded jobs, in order.
func (p *Publisher) Templates() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.Jobs))
	for _, j := range p.Jobs {
		out = append(out, j.Template)
	}
	return out
}

// Indexer is an in-memory user directory matching on name or email.
type Indexer struct {
	mu   sync.Mutex
	docs map[string]entity.User
}

func NewIndexer() *Indexer { return &Indexer{docs: map[string]entity.User{}} }

func (ix *Indexer) IndexUser(_ context.Context, u *entity.User) error {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	doc := *u
	doc.PasswordHash = ""
	ix.docs[u.ID] = doc
	return nil
}

func (ix *Indexer) SearchUsers(_ context.Context, q string, size int) ([]*entity.User, error) {
	ix.mu.Lock()
	defer ix.mu.Unlock()
	q = strings.ToLower(q)
	out := make([]*entity.User, 0)
	for _, d := range ix.docs {
		if len(out) == size {
			break
		}
		if strings.Contains(strings.ToLower(d.Name), q) || strings.Contains(d.Email, q) {
			doc := d
			out = append(out, &doc)
		}
	}
	return out, nil
}

// Revoker keeps revoked token ids in memory.
type Revoker struct {
	mu      sync.Mutex
	revoked map[string]time.Time
}

func NewRevoker() *Revoker { return &Revoker{revoked: map[string]time.Time{}} }

func (r *Revoker) Revoke(_ context.Context, jti, _ string, exp time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.revoked[jti] = exp
	return nil
}

func (r *Revoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.revoked[jti]
	return ok, nil
}

// Logger returns a logrus logger that discards output.
func Logger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}
