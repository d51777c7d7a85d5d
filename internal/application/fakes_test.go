package application

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/sample-social/internal/domain/entity"
	repo "github.com/oksasatya/sample-social/internal/domain/repository"
	"github.com/oksasatya/sample-social/pkg/helpers"
)

type edge struct {
	follower, followee string
	seq                int
}

// memDB backs the fake repositories with the same constraints as the schema.
type memDB struct {
	mu       sync.Mutex
	seq      int
	users    map[string]*entity.User
	order    []string
	edges    []edge
	statuses []entity.Status
}

func newMemDB() *memDB {
	return &memDB{users: map[string]*entity.User{}}
}

func (db *memDB) next() int {
	db.seq++
	return db.seq
}

type memUsers struct{ db *memDB }

func (r memUsers) Create(_ context.Context, u *entity.User) error {
	db := r.db
	db.mu.Lock()
	defer db.mu.Unlock()
	email := strings.ToLower(u.Email)
	for _, existing := range db.users {
		if existing.Email == email {
			return repo.ErrDuplicateEmail
		}
	}
	u.ID = fmt.Sprintf("u%03d", db.next())
	u.Email = email
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	db.users[u.ID] = &cp
	db.order = append(db.order, u.ID)
	return nil
}

func (r memUsers) GetByID(_ context.Context, id string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.Email == strings.ToLower(email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r memUsers) Activate(_ context.Context, token string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, u := range r.db.users {
		if u.ActivationToken != "" && u.ActivationToken == token {
			u.Activated = true
			u.ActivationToken = ""
			cp := *u
			return &cp, nil
		}
	}
	return nil, repo.ErrNotFound
}

func (r memUsers) UpdateProfile(_ context.Context, id, name string, passwordHash *string) (*entity.User, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	u.Name = name
	if passwordHash != nil {
		u.Password = *passwordHash
	}
	cp := *u
	return &cp, nil
}

func (r memUsers) UpdateAvatar(_ context.Context, id, avatarURL string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	u, ok := r.db.users[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.AvatarURL = avatarURL
	return nil
}

func (r memUsers) Delete(_ context.Context, id string) error {
	db := r.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.users[id]; !ok {
		return repo.ErrNotFound
	}
	delete(db.users, id)
	order := db.order[:0]
	for _, o := range db.order {
		if o != id {
			order = append(order, o)
		}
	}
	db.order = order
	edges := db.edges[:0]
	for _, e := range db.edges {
		if e.follower != id && e.followee != id {
			edges = append(edges, e)
		}
	}
	db.edges = edges
	return nil
}

func (r memUsers) List(_ context.Context, offset, limit int) ([]entity.User, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var out []entity.User
	for i := offset; i < len(r.db.order) && len(out) < limit; i++ {
		out = append(out, *r.db.users[r.db.order[i]])
	}
	return out, len(r.db.order), nil
}

type memFollows struct{ db *memDB }

func (r memFollows) Create(_ context.Context, followerID, followeeID string) (bool, error) {
	db := r.db
	db.mu.Lock()
	defer db.mu.Unlock()
	if followerID == followeeID {
		return false, fmt.Errorf("check constraint violated")
	}
	if db.users[followerID] == nil || db.users[followeeID] == nil {
		return false, repo.ErrNotFound
	}
	for _, e := range db.edges {
		if e.follower == followerID && e.followee == followeeID {
			return false, nil
		}
	}
	db.edges = append(db.edges, edge{follower: followerID, followee: followeeID, seq: db.next()})
	return true, nil
}

func (r memFollows) Delete(_ context.Context, followerID, followeeID string) (bool, error) {
	db := r.db
	db.mu.Lock()
	defer db.mu.Unlock()
	for i, e := range db.edges {
		if e.follower == followerID && e.followee == followeeID {
			db.edges = append(db.edges[:i], db.edges[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r memFollows) Exists(_ context.Context, followerID, followeeID string) (bool, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	for _, e := range r.db.edges {
		if e.follower == followerID && e.followee == followeeID {
			return true, nil
		}
	}
	return false, nil
}

func (r memFollows) Followers(_ context.Context, userID string, offset, limit int) ([]entity.User, int, error) {
	return r.page(userID, offset, limit, func(e edge) (string, string) { return e.followee, e.follower })
}

func (r memFollows) Followings(_ context.Context, userID string, offset, limit int) ([]entity.User, int, error) {
	return r.page(userID, offset, limit, func(e edge) (string, string) { return e.follower, e.followee })
}

func (r memFollows) page(userID string, offset, limit int, side func(edge) (string, string)) ([]entity.User, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var matched []edge
	for _, e := range r.db.edges {
		if self, _ := side(e); self == userID {
			matched = append(matched, e)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].seq < matched[j].seq })
	var out []entity.User
	for i := offset; i < len(matched) && len(out) < limit; i++ {
		_, other := side(matched[i])
		out = append(out, *r.db.users[other])
	}
	return out, len(matched), nil
}

type memStatuses struct{ db *memDB }

func (r memStatuses) ListByUser(_ context.Context, userID string, offset, limit int) ([]entity.Status, int, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()
	var mine []entity.Status
	for _, s := range r.db.statuses {
		if s.UserID == userID {
			mine = append(mine, s)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].CreatedAt.After(mine[j].CreatedAt) })
	var out []entity.Status
	for i := offset; i < len(mine) && len(out) < limit; i++ {
		out = append(out, mine[i])
	}
	return out, len(mine), nil
}

type sentMail struct {
	userID, token string
}

type fakeNotifier struct {
	sent []sentMail
	err  error
}

func (n *fakeNotifier) SendConfirmationEmail(_ context.Context, u *entity.User, token string) error {
	n.sent = append(n.sent, sentMail{userID: u.ID, token: token})
	return n.err
}

type fakeSessions struct {
	issued  []string
	revoked []string
}

func (s *fakeSessions) IssueTokens(_ context.Context, u *entity.User) (TokenPair, error) {
	s.issued = append(s.issued, u.ID)
	return TokenPair{AccessToken: "access-" + u.ID, RefreshToken: "refresh-" + u.ID}, nil
}

func (s *fakeSessions) Revoke(_ context.Context, userID string) error {
	s.revoked = append(s.revoked, userID)
	return nil
}

type fakeIndex struct {
	docs map[string]*entity.User
	hits []string
}

func (x *fakeIndex) Put(_ context.Context, u *entity.User) error {
	if x.docs == nil {
		x.docs = map[string]*entity.User{}
	}
	cp := *u
	x.docs[u.ID] = &cp
	return nil
}

func (x *fakeIndex) Remove(_ context.Context, userID string) error {
	delete(x.docs, userID)
	return nil
}

func (x *fakeIndex) Search(_ context.Context, _ string, size int) ([]string, error) {
	if len(x.hits) > size {
		return x.hits[:size], nil
	}
	return x.hits, nil
}

type fakeAvatars struct{ puts int }

func (a *fakeAvatars) Put(_ context.Context, userID string, r io.Reader, filename, _ string) (string, error) {
	a.puts++
	if _, err := io.ReadAll(r); err != nil {
		return "", err
	}
	return "https://storage.googleapis.com/bucket/avatars/" + userID + "/" + filename, nil
}

type fixture struct {
	db       *memDB
	notifier *fakeNotifier
	sessions *fakeSessions
	index    *fakeIndex
	avatars  *fakeAvatars
	accounts *AccountService
	follows  *FollowService
}

func newFixture() *fixture {
	db := newMemDB()
	f := &fixture{
		db:       db,
		notifier: &fakeNotifier{},
		sessions: &fakeSessions{},
		index:    &fakeIndex{},
		avatars:  &fakeAvatars{},
	}
	logger := helpers.NewDiscardLogger()
	f.accounts = NewAccountService(memUsers{db}, memStatuses{db}, UserPolicy{}, helpers.BcryptHasher{Cost: bcrypt.MinCost}, f.notifier, f.sessions, logger)
	f.accounts.Index = f.index
	f.accounts.Avatars = f.avatars
	f.follows = NewFollowService(memUsers{db}, memFollows{db}, logger)
	return f
}

// seedUser inserts an activated user directly.
func (f *fixture) seedUser(name string, admin bool) *entity.User {
	hash, _ := helpers.BcryptHasher{Cost: bcrypt.MinCost}.Hash("secret1")
	u := &entity.User{Name: name, Email: strings.ToLower(name) + "@x.com", Password: hash, Activated: true, IsAdmin: admin}
	_ = memUsers{f.db}.Create(context.Background(), u)
	return u
}

func (f *fixture) stored(id string) *entity.User {
	u, err := memUsers{f.db}.GetByID(context.Background(), id)
	if err != nil {
		return nil
	}
	return u
}

func (f *fixture) userCount() int {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return len(f.db.users)
}

func (f *fixture) edgeCount() int {
	f.db.mu.Lock()
	defer f.db.mu.Unlock()
	return len(f.db.edges)
}
