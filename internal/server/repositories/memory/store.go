// Package memory keeps users, refresh records and tasks in process memory.
// It backs the "memory" store backend and the service tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/taskpulse/internal/common"
	"github.com/dmitrijs2005/taskpulse/internal/server/models"
	"github.com/google/uuid"
)

// Store is the shared state behind the in-memory repositories. Each
// repository call takes the lock once, so single operations are atomic.
type Store struct {
	mu sync.RWMutex

	users        map[string]models.User // by id
	usersByEmail map[string]string      // email -> id

	refresh map[string]models.RefreshToken // by id
	tasks   map[string]models.Task         // by id

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		users:        make(map[string]models.User),
		usersByEmail: make(map[string]string),
		refresh:      make(map[string]models.RefreshToken),
		tasks:        make(map[string]models.Task),
		now:          time.Now,
	}
}

// Users returns a users.Repository view of the store.
func (s *Store) Users() *UsersRepository { return &UsersRepository{s: s} }

// RefreshTokens returns a refreshtokens.Repository view of the store.
func (s *Store) RefreshTokens() *RefreshTokensRepository { return &RefreshTokensRepository{s: s} }

// Tasks returns a tasks.Repository view of the store.
func (s *Store) Tasks() *TasksRepository { return &TasksRepository{s: s} }

type UsersRepository struct{ s *Store }

func (r *UsersRepository) Create(ctx context.Context, user *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.usersByEmail[user.Email]; ok {
		return nil, common.ErrDuplicateUser
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	user.CreatedAt = r.s.now()

	stored := *user
	stored.PasswordHash = append([]byte(nil), user.PasswordHash...)
	r.s.users[user.ID] = stored
	r.s.usersByEmail[user.Email] = user.ID
	return user, nil
}

func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.usersByEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u := r.s.users[id]
	return &u, nil
}

func (r *UsersRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

type RefreshTokensRepository struct{ s *Store }

func (r *RefreshTokensRepository) Replace(ctx context.Context, rec *models.RefreshToken) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, old := range r.s.refresh {
		if old.UserID == rec.UserID {
			delete(r.s.refresh, id)
		}
	}

	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.s.now()
	}
	r.s.refresh[rec.ID] = *rec
	return nil
}

func (r *RefreshTokensRepository) FindByHash(ctx context.Context, tokenHash string, now time.Time) (*models.RefreshToken, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	for _, rec := range r.s.refresh {
		if rec.TokenHash == tokenHash && rec.Active(now) {
			found := rec
			return &found, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *RefreshTokensRepository) DeleteForUser(ctx context.Context, userID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for id, rec := range r.s.refresh {
		if rec.UserID == userID {
			delete(r.s.refresh, id)
		}
	}
	return nil
}

// count is used by tests to check the single-record invariant.
func (r *RefreshTokensRepository) count(userID string) int {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	n := 0
	for _, rec := range r.s.refresh {
		if rec.UserID == userID {
			n++
		}
	}
	return n
}

type TasksRepository struct{ s *Store }

func (r *TasksRepository) List(ctx context.Context, userID string) ([]*models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	result := make([]*models.Task, 0)
	for _, t := range r.s.tasks {
		if t.UserID == userID {
			item := t
			result = append(result, &item)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].ID > result[j].ID
		}
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (r *TasksRepository) Create(ctx context.Context, task *models.Task) (*models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	now := r.s.now()
	task.CreatedAt, task.UpdatedAt = now, now
	r.s.tasks[task.ID] = *task
	return task, nil
}

func (r *TasksRepository) Get(ctx context.Context, userID, id string) (*models.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tasks[id]
	if !ok || t.UserID != userID {
		return nil, common.ErrorNotFound
	}
	return &t, nil
}

func (r *TasksRepository) Update(ctx context.Context, task *models.Task) (*models.Task, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	cur, ok := r.s.tasks[task.ID]
	if !ok || cur.UserID != task.UserID {
		return nil, common.ErrorNotFound
	}
	task.CreatedAt = cur.CreatedAt
	task.UpdatedAt = r.s.now()
	r.s.tasks[task.ID] = *task
	return task, nil
}

func (r *TasksRepository) Delete(ctx context.Context, userID, id string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if t, ok := r.s.tasks[id]; ok && t.UserID == userID {
		delete(r.s.tasks, id)
	}
	return nil
}
