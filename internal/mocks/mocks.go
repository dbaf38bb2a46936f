// Package mocks provides in-memory stand-ins for the repository interfaces
// and the mailer, so services and handlers can be tested without MySQL,
// Redis or an SMTP server.
package mocks

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/iliyamo/shoply/internal/model"
	"github.com/iliyamo/shoply/internal/repository"
)

// UserStore keeps users in a map keyed by id.
type UserStore struct {
	mu     sync.Mutex
	nextID uint64
	byID   map[uint64]*model.User

	// CreateErr, when set, is returned by Create to simulate DB failures.
	CreateErr error
	// RecordLoginErr simulates a telemetry write failure.
	RecordLoginErr error
	// Logins counts RecordLogin calls per user id.
	Logins map[uint64]int
}

func NewUserStore() *UserStore {
	return &UserStore{byID: map[uint64]*model.User{}, Logins: map[uint64]int{}}
}

// Seed inserts a user directly and returns its id.
func (s *UserStore) Seed(username, email, passwordHash, role string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	now := time.Now().UTC()
	s.byID[s.nextID] = &model.User{
		ID:           s.nextID,
		Username:     username,
		Email:        strings.ToLower(email),
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	return s.nextID
}

func (s *UserStore) Create(_ context.Context, username, email, passwordHash, role string) (uint64, error) {
	if s.CreateErr != nil {
		return 0, s.CreateErr
	}
	s.mu.Lock()
	for _, u := range s.byID {
		if u.Email == strings.ToLower(email) {
			s.mu.Unlock()
			return 0, repository.ErrEmailExists
		}
	}
	s.mu.Unlock()
	return s.Seed(username, email, passwordHash, role), nil
}

func (s *UserStore) GetByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *UserStore) GetByID(_ context.Context, id uint64) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *UserStore) GetAll(_ context.Context) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.User, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, *u)
	}
	return out, nil
}

func (s *UserStore) UpdateUsername(_ context.Context, id uint64, username string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.Username = username
	u.UpdatedAt = time.Now().UTC()
	cp := *u
	return &cp, nil
}

func (s *UserStore) UpdatePassword(_ context.Context, id uint64, passwordHash string) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	u.PasswordHash = passwordHash
	now := time.Now().UTC()
	u.PasswordChangedAt = &now
	u.UpdatedAt = now
	cp := *u
	return &cp, nil
}

func (s *UserStore) RecordLogin(_ context.Context, id uint64) error {
	if s.RecordLoginErr != nil {
		return s.RecordLoginErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	if !ok {
		return repository.ErrNotFound
	}
	u.LoginCount++
	u.IsOnline = true
	now := time.Now().UTC()
	u.LastLogin = &now
	s.Logins[id]++
	return nil
}

func (s *UserStore) MarkOffline(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.byID[id]; ok {
		u.IsOnline = false
	}
	return nil
}

type resetRow struct {
	userID    uint64
	expiresAt time.Time
}

// ResetTokenStore keeps reset tokens in a map. When Users is set, Consume
// also rewrites the owning user's password hash, mirroring the
// transactional MySQL implementation.
type ResetTokenStore struct {
	mu     sync.Mutex
	tokens map[string]resetRow

	Users     *UserStore
	InsertErr error
}

func NewResetTokenStore(users *UserStore) *ResetTokenStore {
	return &ResetTokenStore{tokens: map[string]resetRow{}, Users: users}
}

func (s *ResetTokenStore) Insert(_ context.Context, userID uint64, token string, expiresAt time.Time) error {
	if s.InsertErr != nil {
		return s.InsertErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[token] = resetRow{userID: userID, expiresAt: expiresAt}
	return nil
}

func (s *ResetTokenStore) Consume(ctx context.Context, token, newPasswordHash string) (uint64, error) {
	s.mu.Lock()
	row, ok := s.tokens[token]
	if !ok || !time.Now().UTC().Before(row.expiresAt) {
		s.mu.Unlock()
		return 0, repository.ErrTokenInvalid
	}
	delete(s.tokens, token)
	s.mu.Unlock()
	if s.Users != nil {
		if _, err := s.Users.UpdatePassword(ctx, row.userID, newPasswordHash); err != nil {
			return 0, err
		}
	}
	return row.userID, nil
}

func (s *ResetTokenStore) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	now := time.Now().UTC()
	for t, row := range s.tokens {
		if !now.Before(row.expiresAt) {
			delete(s.tokens, t)
			n++
		}
	}
	return n, nil
}

// Count reports how many tokens are currently stored.
func (s *ResetTokenStore) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tokens)
}

// ProfileStore keeps profiles keyed by user id.
type ProfileStore struct {
	mu       sync.Mutex
	nextID   uint64
	byUserID map[uint64]*model.Profile
}

func NewProfileStore() *ProfileStore {
	return &ProfileStore{byUserID: map[uint64]*model.Profile{}}
}

func (s *ProfileStore) GetByUserID(_ context.Context, userID uint64) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byUserID[userID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *ProfileStore) Upsert(_ context.Context, p *model.Profile) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	cur, ok := s.byUserID[p.UserID]
	if !ok {
		s.nextID++
		cp := *p
		cp.ID = s.nextID
		cp.CreatedAt = now
		cp.UpdatedAt = now
		s.byUserID[p.UserID] = &cp
		out := cp
		return &out, nil
	}
	cur.Firstname = p.Firstname
	cur.Lastname = p.Lastname
	cur.Bio = p.Bio
	cur.DOB = p.DOB
	cur.Phone = p.Phone
	cur.Location = p.Location
	cur.UpdatedAt = now
	out := *cur
	return &out, nil
}

func (s *ProfileStore) SetAvatar(_ context.Context, userID uint64, avatarURL string) (*model.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	cur, ok := s.byUserID[userID]
	if !ok {
		s.nextID++
		cur = &model.Profile{ID: s.nextID, UserID: userID, CreatedAt: now}
		s.byUserID[userID] = cur
	}
	cur.Avatar = &avatarURL
	cur.UpdatedAt = now
	out := *cur
	return &out, nil
}

// ProductStore keeps products keyed by id.
type ProductStore struct {
	mu     sync.Mutex
	nextID uint64
	byID   map[uint64]*model.Product
}

func NewProductStore() *ProductStore {
	return &ProductStore{byID: map[uint64]*model.Product{}}
}

func (s *ProductStore) Create(_ context.Context, p *model.Product) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	cp := *p
	cp.ID = s.nextID
	now := time.Now().UTC()
	cp.CreatedAt = now
	cp.UpdatedAt = now
	s.byID[cp.ID] = &cp
	return cp.ID, nil
}

func (s *ProductStore) GetByID(_ context.Context, id uint64) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *ProductStore) List(_ context.Context, search string) ([]model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := []model.Product{}
	q := strings.ToLower(search)
	for _, p := range s.byID {
		if q == "" || strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Category), q) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *ProductStore) Update(_ context.Context, p *model.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.byID[p.ID]
	if !ok {
		return repository.ErrNotFound
	}
	created, creator := cur.CreatedAt, cur.CreatedBy
	cp := *p
	cp.CreatedAt = created
	cp.CreatedBy = creator
	cp.UpdatedAt = time.Now().UTC()
	s.byID[p.ID] = &cp
	return nil
}

func (s *ProductStore) Delete(_ context.Context, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.byID, id)
	return nil
}

// SentMail is one recorded delivery.
type SentMail struct {
	To      string
	Subject string
	HTML    string
}

// Mailer records every send; Err, when set, makes Send fail.
type Mailer struct {
	mu   sync.Mutex
	Sent []SentMail
	Err  error
}

func (m *Mailer) Send(to, subject, html string) error {
	if m.Err != nil {
		return m.Err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, SentMail{To: to, Subject: subject, HTML: html})
	return nil
}
