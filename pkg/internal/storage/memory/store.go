package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"git.solsynth.dev/hypernet/tribune/pkg/internal/models"
)

// Store keeps everything in maps. It backs the test suites and mirrors the
// contract of the postgres store, including nil-for-missing lookups.
type Store struct {
	mu          sync.RWMutex
	users       map[models.Id]models.User
	categories  map[models.Id]models.Category
	posts       map[models.Id]models.Post
	replies     map[models.Id]models.Reply
	attachments map[models.Id]models.Attachment
}

func New() *Store {
	return &Store{
		users:       make(map[models.Id]models.User),
		categories:  make(map[models.Id]models.Category),
		posts:       make(map[models.Id]models.Post),
		replies:     make(map[models.Id]models.Reply),
		attachments: make(map[models.Id]models.Attachment),
	}
}

func (s *Store) UserByID(ctx context.Context, id models.Id) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if user, ok := s.users[id]; ok {
		return &user, nil
	}
	return nil, nil
}

func (s *Store) UserByUsername(ctx context.Context, username models.Name) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, user := range s.users {
		if user.Username == username {
			return &user, nil
		}
	}
	return nil, nil
}

func (s *Store) CategoryByID(ctx context.Context, id models.Id) (*models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if category, ok := s.categories[id]; ok {
		return &category, nil
	}
	return nil, nil
}

func (s *Store) PostByID(ctx context.Context, id models.Id) (*models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if post, ok := s.posts[id]; ok {
		return &post, nil
	}
	return nil, nil
}

func (s *Store) ReplyByID(ctx context.Context, id models.Id) (*models.Reply, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if reply, ok := s.replies[id]; ok {
		return &reply, nil
	}
	return nil, nil
}

func (s *Store) AttachmentByID(ctx context.Context, id models.Id) (*models.Attachment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if attachment, ok := s.attachments[id]; ok {
		return &attachment, nil
	}
	return nil, nil
}

func (s *Store) AllCategories(ctx context.Context) ([]models.Category, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]models.Category, 0, len(s.categories))
	for _, category := range s.categories {
		items = append(items, category)
	}
	sortStable(items, func(c models.Category) (int64, models.Id) { return c.CreatedAt.UnixNano(), c.ID })
	return items, nil
}

func (s *Store) PostsByCategory(ctx context.Context, categoryID models.Id) ([]models.Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []models.Post
	for _, post := range s.posts {
		if post.CategoryID == categoryID {
			items = append(items, post)
		}
	}
	sortStable(items, func(p models.Post) (int64, models.Id) { return p.CreatedAt.UnixNano(), p.ID })
	return items, nil
}

func (s *Store) RepliesByPost(ctx context.Context, postID models.Id) ([]models.Reply, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []models.Reply
	for _, reply := range s.replies {
		if reply.PostID == postID {
			items = append(items, reply)
		}
	}
	sortStable(items, func(r models.Reply) (int64, models.Id) { return r.CreatedAt.UnixNano(), r.ID })
	return items, nil
}

func (s *Store) AllAttachments(ctx context.Context) ([]models.Attachment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]models.Attachment, 0, len(s.attachments))
	for _, attachment := range s.attachments {
		items = append(items, attachment)
	}
	sortStable(items, func(a models.Attachment) (int64, models.Id) { return a.CreatedAt.UnixNano(), a.ID })
	return items, nil
}

func (s *Store) CreateUser(ctx context.Context, user models.User) (models.Id, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[user.ID] = user
	return user.ID, nil
}

func (s *Store) CreateCategory(ctx context.Context, category models.Category) (models.Id, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[category.ID] = category
	return category.ID, nil
}

func (s *Store) CreatePost(ctx context.Context, post models.Post) (models.Id, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[post.ID] = post
	return post.ID, nil
}

func (s *Store) CreateReply(ctx context.Context, reply models.Reply) (models.Id, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.replies[reply.ID] = reply
	return reply.ID, nil
}

func (s *Store) CreateAttachment(ctx context.Context, attachment models.Attachment) (models.Id, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.attachments[attachment.ID] = attachment
	return attachment.ID, nil
}

func (s *Store) EditUser(ctx context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return fmt.Errorf("no user row with id %s", user.ID)
	}
	s.users[user.ID] = user
	return nil
}

func (s *Store) EditCategory(ctx context.Context, category models.Category) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.categories[category.ID]; !ok {
		return fmt.Errorf("no category row with id %s", category.ID)
	}
	s.categories[category.ID] = category
	return nil
}

func (s *Store) EditPost(ctx context.Context, post models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[post.ID]; !ok {
		return fmt.Errorf("no post row with id %s", post.ID)
	}
	s.posts[post.ID] = post
	return nil
}

func (s *Store) EditReply(ctx context.Context, reply models.Reply) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.replies[reply.ID]; !ok {
		return fmt.Errorf("no reply row with id %s", reply.ID)
	}
	s.replies[reply.ID] = reply
	return nil
}

// sortStable orders by creation time, then id, so enumeration stays stable
// across calls regardless of map iteration order.
func sortStable[T any](items []T, key func(T) (int64, models.Id)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if ti != tj {
			return ti < tj
		}
		return idi < idj
	})
}
