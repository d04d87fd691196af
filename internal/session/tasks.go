package session

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TaskList manages the user's tasks and the optional "current task"
// selection. It is an optional collaborator of the timer: when no task
// is selected, completing a focus session simply has nothing to mark.
type TaskList struct {
	mu        sync.Mutex
	backend   Backend
	tasks     []Task
	currentID string
}

// NewTaskList creates a task list over the given backend.
func NewTaskList(backend Backend) *TaskList {
	return &TaskList{backend: backend}
}

// Load reads the persisted tasks. Missing or unreadable task data is not
// fatal; the list starts empty.
func (tl *TaskList) Load() {
	tasks, err := tl.backend.LoadTasks()
	if err != nil {
		log.Printf("Warning: failed to load tasks: %v", err)
		return
	}
	tl.mu.Lock()
	tl.tasks = tasks
	tl.mu.Unlock()
}

// Add appends a new task and persists the list.
func (tl *TaskList) Add(title string) Task {
	task := Task{
		ID:        uuid.NewString(),
		Title:     title,
		CreatedAt: time.Now(),
	}
	tl.mu.Lock()
	tl.tasks = append(tl.tasks, task)
	snapshot := tl.snapshotLocked()
	tl.mu.Unlock()

	tl.save(snapshot)
	return task
}

// SetCurrent selects the task the next focus session is attributed to.
// An empty id clears the selection.
func (tl *TaskList) SetCurrent(id string) {
	tl.mu.Lock()
	tl.currentID = id
	tl.mu.Unlock()
}

// Current returns a copy of the selected task, or nil if none is set.
func (tl *TaskList) Current() *Task {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	for i := range tl.tasks {
		if tl.tasks[i].ID == tl.currentID {
			task := tl.tasks[i]
			return &task
		}
	}
	return nil
}

// Tasks returns a copy of all tasks.
func (tl *TaskList) Tasks() []Task {
	tl.mu.Lock()
	defer tl.mu.Unlock()
	return tl.snapshotLocked()
}

// CompleteCurrent credits a finished focus session to the current task,
// marking it done. A no-op when no task is selected.
func (tl *TaskList) CompleteCurrent() {
	tl.mu.Lock()
	var snapshot []Task
	for i := range tl.tasks {
		if tl.tasks[i].ID == tl.currentID {
			tl.tasks[i].Pomodoros++
			tl.tasks[i].Done = true
			tl.currentID = ""
			snapshot = tl.snapshotLocked()
			break
		}
	}
	tl.mu.Unlock()

	if snapshot != nil {
		tl.save(snapshot)
	}
}

func (tl *TaskList) snapshotLocked() []Task {
	out := make([]Task, len(tl.tasks))
	copy(out, tl.tasks)
	return out
}

func (tl *TaskList) save(tasks []Task) {
	if err := tl.backend.SaveTasks(tasks); err != nil {
		log.Printf("Warning: failed to save tasks: %v", err)
	}
}
