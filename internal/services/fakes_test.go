package services

import (
	"context"
	"errors"
	"os"
	"sort"
	"sync"
	"testing"
	"time"

	"portfolio/internal/models"
	"portfolio/internal/repository"
	"portfolio/internal/utils"
)

func TestMain(m *testing.M) {
	utils.BcryptCost = 4
	os.Exit(m.Run())
}

var errDB = errors.New("connection reset by peer")

// --- users ---

type fakeUserRepo struct {
	mu      sync.Mutex
	users   map[string]models.User
	failAll bool
	saves   int
}

func newFakeUserRepo(users ...models.User) *fakeUserRepo {
	r := &fakeUserRepo{users: map[string]models.User{}}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) get(id string) *models.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	u := r.users[id]
	return &u
}

func (r *fakeUserRepo) find(match func(u models.User) bool) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return nil, errDB
	}
	for _, u := range r.users {
		if match(u) {
			cp := u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) FindByValidResetHash(_ context.Context, hash string, now time.Time) (*models.User, error) {
	return r.find(func(u models.User) bool {
		return u.HasPendingReset() && *u.ResetPasswordTokenHash == hash && u.ResetPasswordExpiry.After(now)
	})
}

func (r *fakeUserRepo) Save(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return errDB
	}
	if _, ok := r.users[user.ID]; !ok {
		return repository.ErrNotFound
	}
	r.saves++
	r.users[user.ID] = *user
	return nil
}

func (r *fakeUserRepo) ClearResetIfHash(_ context.Context, id, tokenHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failAll {
		return errDB
	}
	u, ok := r.users[id]
	if !ok || u.ResetPasswordTokenHash == nil || *u.ResetPasswordTokenHash != tokenHash {
		return nil
	}
	u.ClearReset()
	r.users[id] = u
	return nil
}

// --- notifier ---

type fakeNotifier struct {
	mu    sync.Mutex
	sent  []Mail
	err   error
	block chan struct{}
}

func (n *fakeNotifier) Send(_ context.Context, m Mail) error {
	if n.block != nil {
		<-n.block
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.sent = append(n.sent, m)
	return nil
}

func (n *fakeNotifier) mails() []Mail {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Mail(nil), n.sent...)
}

// --- messages ---

type fakeMessageStore struct {
	mu       sync.Mutex
	items    map[string]models.Message
	failSave bool
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{items: map[string]models.Message{}}
}

func (s *fakeMessageStore) Create(_ context.Context, m *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return errDB
	}
	s.items[m.ID] = *m
	return nil
}

func (s *fakeMessageStore) List(_ context.Context) ([]*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Message, 0, len(s.items))
	for _, m := range s.items {
		cp := m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Read != out[j].Read {
			return !out[i].Read
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *fakeMessageStore) GetByID(_ context.Context, id string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &m, nil
}

func (s *fakeMessageStore) MarkRead(_ context.Context, id string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	m.Read = true
	s.items[id] = m
	return &m, nil
}

func (s *fakeMessageStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// --- projects ---

type fakeProjectStore struct {
	mu         sync.Mutex
	items      map[string]models.Project
	failSave   bool
	failDelete bool
}

func newFakeProjectStore() *fakeProjectStore {
	return &fakeProjectStore{items: map[string]models.Project{}}
}

func (s *fakeProjectStore) Create(_ context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return errDB
	}
	s.items[p.ID] = *p
	return nil
}

func (s *fakeProjectStore) List(_ context.Context) ([]*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.Project, 0, len(s.items))
	for _, p := range s.items {
		cp := p
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *fakeProjectStore) GetByID(_ context.Context, id string) (*models.Project, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.items[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (s *fakeProjectStore) Update(_ context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failSave {
		return errDB
	}
	if _, ok := s.items[p.ID]; !ok {
		return repository.ErrNotFound
	}
	s.items[p.ID] = *p
	return nil
}

func (s *fakeProjectStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failDelete {
		return errDB
	}
	if _, ok := s.items[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.items, id)
	return nil
}

// --- media ---

type fakeMedia struct {
	mu         sync.Mutex
	stored     map[string]bool
	seq        int
	failUpload bool
	failDelete bool
}

func newFakeMedia() *fakeMedia {
	return &fakeMedia{stored: map[string]bool{}}
}

func (m *fakeMedia) Upload(_ context.Context, up models.Upload) (*models.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failUpload {
		return nil, errors.New("s3 unavailable")
	}
	m.seq++
	id := "portfolio/" + up.Filename + "-" + string(rune('a'+m.seq))
	m.stored[id] = true
	return &models.Image{PublicID: id, URL: "https://cdn.example.com/" + id}, nil
}

func (m *fakeMedia) Delete(_ context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failDelete {
		return errors.New("s3 unavailable")
	}
	delete(m.stored, publicID)
	return nil
}

func (m *fakeMedia) has(publicID string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stored[publicID]
}

func (m *fakeMedia) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.stored)
}
