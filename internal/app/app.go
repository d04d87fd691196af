package app

import (
	"fmt"
	"log"

	"github.com/siegfried/pomodoro/internal/activity"
	"github.com/siegfried/pomodoro/internal/config"
	"github.com/siegfried/pomodoro/internal/notify"
	"github.com/siegfried/pomodoro/internal/session"
	"github.com/siegfried/pomodoro/internal/stats"
	"github.com/siegfried/pomodoro/internal/timer"
	"github.com/siegfried/pomodoro/internal/ui"
)

// App is the main application coordinator: it owns the engine and its
// collaborators and wires the callbacks between them.
type App struct {
	configManager *config.Manager
	store         *stats.Store
	engine        *timer.Engine
	accountant    *session.Accountant
	tasks         *session.TaskList
	monitor       *activity.Monitor
	notifier      notify.Notifier
	presenter     ui.Presenter
	indicator     ui.Indicator
}

// New creates a new application instance.
func New() (*App, error) {
	a := &App{}

	configManager, err := config.NewManager()
	if err != nil {
		return nil, fmt.Errorf("failed to create config manager: %w", err)
	}
	a.configManager = configManager

	dbPath, err := stats.DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}
	store, err := stats.NewStore(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to create stats store: %w", err)
	}
	a.store = store

	settings := configManager.Get()

	a.engine = timer.NewEngine(config.Project(settings), timer.Config{})
	a.accountant = session.NewAccountant(store, a.engine, nil)
	a.tasks = session.NewTaskList(store)
	a.monitor = activity.NewMonitor(a.engine, activity.SystemSource{}, nil)
	a.notifier = notify.NewPlatformNotifier(settings.Notifications)

	presenter := ui.NewLogPresenter()
	a.presenter = presenter
	a.indicator = presenter

	a.setupCallbacks()

	return a, nil
}

// Run starts all components. It does not block; callers wait for a
// shutdown signal and then call Shutdown.
func (a *App) Run() error {
	settings := a.configManager.Get()

	if settings.FirstRun {
		log.Println("First run detected. Welcome to Pomodoro!")
		settings.FirstRun = false
		if err := a.configManager.Update(settings); err != nil {
			log.Printf("Warning: failed to update first run flag: %v", err)
		}
	}

	a.tasks.Load()
	a.accountant.Restore()
	a.monitor.Configure(settings.SmartPause, settings.InactivityThreshold)

	a.monitor.Start()
	a.accountant.Start()
	a.engine.Run()
	a.engine.Start()

	log.Println("Application started successfully")
	return nil
}

// Shutdown performs cleanup before exit.
func (a *App) Shutdown() {
	log.Println("Shutting down application...")

	a.monitor.Stop()
	a.accountant.Stop()
	a.engine.Stop()

	// Final flush; everything before this was persisted incrementally.
	a.accountant.Flush()

	if err := a.store.Close(); err != nil {
		log.Printf("Warning: failed to close stats store: %v", err)
	}

	log.Println("Shutdown complete")
}

// ApplySettings validates, persists and propagates new settings. The
// engine decides on its own whether the current countdown resets (only
// while not running).
func (a *App) ApplySettings(settings *config.Settings) error {
	if err := a.configManager.Update(settings); err != nil {
		return err
	}
	a.engine.SetParameters(config.Project(settings))
	a.notifier.SetEnabled(settings.Notifications)
	a.monitor.Configure(settings.SmartPause, settings.InactivityThreshold)
	// Re-evaluate arming against the current state; enabling smart pause
	// mid-session must take effect without waiting for a transition.
	a.monitor.HandleState(a.engine.Snapshot())
	return nil
}

// Engine exposes the timer engine to the outer shell.
func (a *App) Engine() *timer.Engine {
	return a.engine
}

// Tasks exposes the task list to the outer shell.
func (a *App) Tasks() *session.TaskList {
	return a.tasks
}

// History exposes the accountant's read-only session history.
func (a *App) History() *session.Accountant {
	return a.accountant
}

// setupCallbacks configures all component callbacks.
func (a *App) setupCallbacks() {
	a.engine.SetOnStateChange(func(snap timer.Snapshot) {
		a.monitor.HandleState(snap)
		a.indicator.UpdateIndicator(
			snap.State == timer.StateRunning,
			snap.Mode,
			snap.SessionIndex,
			snap.TotalSessions,
		)
	})

	a.engine.SetOnDisplay(a.presenter.UpdateDisplay)

	a.engine.SetOnFocusCompleted(func(completion timer.Completion) {
		a.accountant.HandleFocusCompleted(completion)
		a.tasks.CompleteCurrent()
	})

	a.engine.SetOnFocusUndone(func() {
		log.Println("Last focus session undone")
	})

	a.engine.SetOnCountersChanged(a.accountant.HandleCountersChanged)

	a.engine.SetOnMessage(func(message string) {
		a.notifier.Notify(message, notify.SeverityInfo)
	})
}
