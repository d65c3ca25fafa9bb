package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/pscheid92/taskmaster/internal/domain"
)

// TaskRecorder observes task mutations. Implemented by the metrics adapter.
type TaskRecorder interface {
	RecordAdd(outcome domain.AddOutcome, total int)
	RecordDelete(outcome domain.DeleteOutcome, total int)
}

type noopRecorder struct{}

func (noopRecorder) RecordAdd(domain.AddOutcome, int)       {}
func (noopRecorder) RecordDelete(domain.DeleteOutcome, int) {}

// Service is the application layer. It is the only component that touches
// both the task store and the hostname resolver.
type Service struct {
	tasks     domain.TaskStore
	hostnames domain.HostnameResolver
	recorder  TaskRecorder
}

// NewService creates the application layer service.
// recorder may be nil.
func NewService(tasks domain.TaskStore, hostnames domain.HostnameResolver, recorder TaskRecorder) *Service {
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Service{
		tasks:     tasks,
		hostnames: hostnames,
		recorder:  recorder,
	}
}

// Board returns every task in order plus the hostname of this node.
// The hostname is resolved on every call.
func (s *Service) Board(ctx context.Context) domain.Board {
	return domain.Board{
		Tasks:    s.tasks.All(),
		Hostname: s.hostnames.Resolve(ctx),
	}
}

// AddTask appends text unless it is blank. The original, untrimmed text is stored.
func (s *Service) AddTask(ctx context.Context, text string) domain.AddOutcome {
	if strings.TrimSpace(text) == "" {
		slog.DebugContext(ctx, "Skipping blank task")
		s.recorder.RecordAdd(domain.AddOutcomeSkippedBlank, s.tasks.Len())
		return domain.AddOutcomeSkippedBlank
	}

	s.tasks.Append(text)
	total := s.tasks.Len()

	slog.InfoContext(ctx, "Task added", "task_length", len(text), "total", total)
	s.recorder.RecordAdd(domain.AddOutcomeAdded, total)
	return domain.AddOutcomeAdded
}

// DeleteTask removes the first task equal to text. Missing tasks are ignored.
func (s *Service) DeleteTask(ctx context.Context, text string) domain.DeleteOutcome {
	if !s.tasks.RemoveFirst(text) {
		slog.DebugContext(ctx, "Task to delete not found")
		s.recorder.RecordDelete(domain.DeleteOutcomeNotFound, s.tasks.Len())
		return domain.DeleteOutcomeNotFound
	}

	total := s.tasks.Len()
	slog.InfoContext(ctx, "Task deleted", "total", total)
	s.recorder.RecordDelete(domain.DeleteOutcomeDeleted, total)
	return domain.DeleteOutcomeDeleted
}
