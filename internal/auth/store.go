package auth

import (
	"errors"
	"sync"

	"github.com/prepdesk/prepdesk/internal/storage"
)

const fileName = "users.json"

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
)

// User is one account in users.json. Passwords are stored only as
// bcrypt hashes.
type User struct {
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
}

// UserStore persists accounts in the shared JSON collection store.
type UserStore struct {
	files *storage.Store

	mu sync.Mutex // serializes check-then-append on signup
}

// NewUserStore returns a store over users.json.
func NewUserStore(files *storage.Store) *UserStore {
	return &UserStore{files: files}
}

// GetByUsername looks an account up, or returns ErrUserNotFound.
func (s *UserStore) GetByUsername(username string) (User, error) {
	var all []User
	if err := s.files.Load(fileName, &all); err != nil {
		return User{}, err
	}
	for _, u := range all {
		if u.Username == username {
			return u, nil
		}
	}
	return User{}, ErrUserNotFound
}

// Create appends a new account; duplicate usernames are rejected.
func (s *UserStore) Create(user User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var all []User
	if err := s.files.Load(fileName, &all); err != nil {
		return err
	}
	for _, existing := range all {
		if existing.Username == user.Username {
			return ErrUsernameTaken
		}
	}
	all = append(all, user)
	return s.files.Save(fileName, all)
}
