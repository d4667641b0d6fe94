package settings

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/sandeepkv93/tasktrack/internal/persist"
)

type Profile struct {
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Location  string `json:"location,omitempty"`
	Bio       string `json:"bio,omitempty"`
	AvatarURL string `json:"avatarUrl,omitempty"`
	JoinDate  string `json:"joinDate,omitempty"`
}

// State is the persisted settings-store partition.
type State struct {
	DarkMode        bool     `json:"darkMode"`
	Notifications   bool     `json:"notifications"`
	ShowBackendDemo bool     `json:"showBackendDemo"`
	IsLoggedIn      bool     `json:"isLoggedIn"`
	UserProfile     *Profile `json:"userProfile"`
}

func (s State) Clone() State {
	if s.UserProfile != nil {
		p := *s.UserProfile
		s.UserProfile = &p
	}
	return s
}

// DemoProfile is the account the login stub signs into.
func DemoProfile() Profile {
	return Profile{
		Name:     "John Doe",
		Email:    "john.doe@example.com",
		Phone:    "+1 (555) 123-4567",
		Location: "New York, USA",
		Bio:      "Task management enthusiast and productivity expert. I love organizing projects and helping teams stay on track.",
		JoinDate: "January 2023",
	}
}

func DefaultState() State {
	p := DemoProfile()
	return State{
		Notifications: true,
		IsLoggedIn:    true,
		UserProfile:   &p,
	}
}

type Persister interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, s *State) error
}

type Options struct {
	Logger *log.Logger
	Writer persist.Options
}

type Store struct {
	mu     sync.RWMutex
	state  State
	logger *log.Logger
	writer *persist.Writer[*State]
}

// Open hydrates settings; a partition that was never written yields DefaultState.
func Open(ctx context.Context, p Persister, opts Options) (*Store, error) {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Writer.Name == "" {
		opts.Writer.Name = "settings-store"
	}
	if opts.Writer.Logger == nil {
		opts.Writer.Logger = opts.Logger
	}
	loaded, err := p.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("hydrate settings: %w", err)
	}
	state := DefaultState()
	if loaded != nil {
		state = loaded.Clone()
	}
	s := &Store{
		state:  state,
		logger: opts.Logger,
		writer: persist.NewWriter[*State](p, opts.Writer),
	}
	s.writer.Start()
	return s, nil
}

func (s *Store) Close() {
	s.writer.Stop()
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

func (s *Store) ToggleDarkMode() {
	s.update("toggle_dark_mode", func(st *State) { st.DarkMode = !st.DarkMode })
}

func (s *Store) ToggleNotifications() {
	s.update("toggle_notifications", func(st *State) { st.Notifications = !st.Notifications })
}

func (s *Store) ToggleBackendDemo() {
	s.update("toggle_backend_demo", func(st *State) { st.ShowBackendDemo = !st.ShowBackendDemo })
}

// Login is a stub: it always signs in as DemoProfile.
func (s *Store) Login() {
	s.update("login", func(st *State) {
		p := DemoProfile()
		st.IsLoggedIn = true
		st.UserProfile = &p
	})
}

func (s *Store) Logout() {
	s.update("logout", func(st *State) {
		st.IsLoggedIn = false
		st.UserProfile = nil
	})
}

// UpdateUserProfile overlays the non-empty fields of p onto the current profile.
func (s *Store) UpdateUserProfile(p Profile) {
	s.update("update_profile", func(st *State) {
		cur := Profile{}
		if st.UserProfile != nil {
			cur = *st.UserProfile
		}
		overlay(&cur.Name, p.Name)
		overlay(&cur.Email, p.Email)
		overlay(&cur.Phone, p.Phone)
		overlay(&cur.Location, p.Location)
		overlay(&cur.Bio, p.Bio)
		overlay(&cur.AvatarURL, p.AvatarURL)
		overlay(&cur.JoinDate, p.JoinDate)
		st.UserProfile = &cur
	})
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func (s *Store) update(op string, fn func(*State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.state)
	snap := s.state.Clone()
	if err := s.writer.Submit(&snap); err != nil {
		s.logger.Warn("settings snapshot dropped", "op", op, "err", err)
		return
	}
	s.logger.Debug("settings updated", "op", op)
}
