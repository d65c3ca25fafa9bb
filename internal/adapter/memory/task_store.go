package memory

import (
	"slices"
	"sync"

	"github.com/pscheid92/taskmaster/internal/domain"
)

// TaskStore holds the task list for a single process.
// Safe for concurrent use; readers share the lock, mutations take it exclusively.
type TaskStore struct {
	mu    sync.RWMutex
	tasks []string
}

var _ domain.TaskStore = (*TaskStore)(nil)

func NewTaskStore() *TaskStore {
	return &TaskStore{}
}

func (s *TaskStore) All() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.tasks)
}

func (s *TaskStore) Append(task string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = append(s.tasks, task)
}

func (s *TaskStore) RemoveFirst(task string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.Index(s.tasks, task)
	if i < 0 {
		return false
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	return true
}

func (s *TaskStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.tasks)
}
