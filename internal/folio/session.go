package folio

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrNotLoggedIn is returned by operations that need a current user.
var ErrNotLoggedIn = errors.New("not logged in")

// Session is the process-wide application state: the current user, the
// loaded design list, the selected design and the cached saved list.
//
// The saved list is a read-through cache. It is refreshed from the database
// on login and after every add or remove, so IsDesignSaved never queries the
// store and is only as fresh as the last refresh.
type Session struct {
	database Database
	logger   Logger

	mu       sync.RWMutex
	archive  *SavedListArchive
	user     string
	designs  []*Design
	selected *DesignDetail
	saved    []*SavedDesign
	loading  bool
}

// NewSession creates an empty session. archive may be nil, in which case
// Logout writes no snapshot.
func NewSession(database Database, archive *SavedListArchive, logger Logger) *Session {
	return &Session{
		database: database,
		archive:  archive,
		logger:   logger,
	}
}

// SetArchive replaces the archive used by Logout. nil disables snapshots.
func (s *Session) SetArchive(archive *SavedListArchive) {
	s.mu.Lock()
	s.archive = archive
	s.mu.Unlock()
}

// Login checks the credentials and, on success, makes email the current
// user and loads their saved list. Unknown users and wrong passwords return
// false with a nil error.
func (s *Session) Login(ctx context.Context, email, password string) (bool, error) {
	email = NormalizeEmail(email)
	if err := ValidateLogin(email, password); err != nil {
		return false, err
	}

	user, err := s.database.AuthenticateUser(ctx, email, password)
	if err != nil {
		s.logger.Error("login failed", "email", email, "error", err)
		return false, fmt.Errorf("authenticating user: %w", err)
	}
	if user == nil {
		s.logger.Info("login rejected", "email", email)
		return false, nil
	}

	s.mu.Lock()
	s.user = user.Email
	s.saved = nil
	s.mu.Unlock()

	if err := s.refreshSaved(ctx, user.Email); err != nil {
		return true, err
	}

	s.logger.Info("logged in", "email", user.Email)
	return true, nil
}

// Register validates the signup form and creates the account. A duplicate
// email returns false with a nil error. Register does not log the user in.
func (s *Session) Register(ctx context.Context, email, password, confirm string) (bool, error) {
	email = NormalizeEmail(email)
	if err := ValidateSignup(email, password, confirm); err != nil {
		return false, err
	}

	ok, err := s.database.RegisterUser(ctx, email, password)
	if err != nil {
		s.logger.Error("registration failed", "email", email, "error", err)
		return false, fmt.Errorf("registering user: %w", err)
	}
	if !ok {
		s.logger.Info("registration rejected: email already registered", "email", email)
		return false, nil
	}

	s.logger.Info("user registered", "email", email)
	return true, nil
}

// Logout writes the saved-list snapshot (when an archive is configured) and
// clears all session state. State is cleared even if the snapshot fails.
func (s *Session) Logout(ctx context.Context) error {
	s.mu.Lock()
	user := s.user
	saved := s.saved
	archive := s.archive
	s.user = ""
	s.designs = nil
	s.selected = nil
	s.saved = nil
	s.loading = false
	s.mu.Unlock()

	if user == "" || archive == nil {
		return nil
	}

	if err := archive.Write(user, saved); err != nil {
		s.logger.Error("saved list snapshot failed", "email", user, "error", err)
		return fmt.Errorf("writing saved list snapshot: %w", err)
	}
	s.logger.Debug("saved list snapshot written", "email", user, "count", len(saved))
	return nil
}

// FetchDesigns loads the whole catalog into the session.
func (s *Session) FetchDesigns(ctx context.Context) error {
	return s.fetchList(ctx, "all", func() ([]*Design, error) {
		return s.database.ListDesigns(ctx)
	})
}

// FetchDesignsByCategory loads the designs matching category into the session.
func (s *Session) FetchDesignsByCategory(ctx context.Context, category string) error {
	return s.fetchList(ctx, category, func() ([]*Design, error) {
		return s.database.FindDesignsByCategory(ctx, category)
	})
}

func (s *Session) fetchList(ctx context.Context, filter string, load func() ([]*Design, error)) error {
	s.setLoading(true)
	defer s.setLoading(false)

	designs, err := load()
	if err != nil {
		s.logger.Error("fetching designs failed", "filter", filter, "error", err)
		return fmt.Errorf("fetching designs: %w", err)
	}

	s.mu.Lock()
	s.designs = designs
	s.mu.Unlock()

	s.logger.Debug("designs fetched", "filter", filter, "count", len(designs))
	return nil
}

// FetchDesignByID loads a design with its gallery into the selection.
// An unknown id clears the selection without error.
func (s *Session) FetchDesignByID(ctx context.Context, id int64) error {
	s.setLoading(true)
	defer s.setLoading(false)

	detail, err := s.loadDetail(ctx, id)
	if err != nil {
		s.logger.Error("fetching design failed", "id", id, "error", err)
		return err
	}

	s.mu.Lock()
	s.selected = detail
	s.mu.Unlock()
	return nil
}

func (s *Session) loadDetail(ctx context.Context, id int64) (*DesignDetail, error) {
	design, err := s.database.FindDesignByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding design: %w", err)
	}
	if design == nil {
		return nil, nil
	}

	images, err := s.database.FindDetailImages(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding detail images: %w", err)
	}
	texts, err := s.database.FindDetailTexts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("finding detail texts: %w", err)
	}

	return &DesignDetail{Design: design, Images: images, Texts: texts}, nil
}

// AddSavedDesign saves a design for the current user and refreshes the
// cached saved list. Saving an already saved design is a no-op.
func (s *Session) AddSavedDesign(ctx context.Context, designID int64) error {
	user := s.User()
	if user == "" {
		return ErrNotLoggedIn
	}

	if err := s.database.SaveDesign(ctx, user, designID); err != nil {
		s.logger.Error("saving design failed", "email", user, "design_id", designID, "error", err)
		return fmt.Errorf("saving design: %w", err)
	}
	s.logger.Info("design saved", "email", user, "design_id", designID)

	return s.refreshSaved(ctx, user)
}

// RemoveSavedDesign removes a design from the current user's saved list and
// refreshes the cache. Removing an unsaved design is a no-op.
func (s *Session) RemoveSavedDesign(ctx context.Context, designID int64) error {
	user := s.User()
	if user == "" {
		return ErrNotLoggedIn
	}

	if err := s.database.RemoveSavedDesign(ctx, user, designID); err != nil {
		s.logger.Error("removing saved design failed", "email", user, "design_id", designID, "error", err)
		return fmt.Errorf("removing saved design: %w", err)
	}
	s.logger.Info("design unsaved", "email", user, "design_id", designID)

	return s.refreshSaved(ctx, user)
}

// refreshSaved replaces the cached saved list with the store's current view.
// The cache is left untouched if the user changed while the query ran.
func (s *Session) refreshSaved(ctx context.Context, user string) error {
	saved, err := s.database.ListSavedDesigns(ctx, user)
	if err != nil {
		s.logger.Error("refreshing saved designs failed", "email", user, "error", err)
		return fmt.Errorf("listing saved designs: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == user {
		s.saved = saved
	}
	return nil
}

// IsDesignSaved reports whether the design is on the cached saved list.
func (s *Session) IsDesignSaved(designID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, d := range s.saved {
		if d.ID == designID {
			return true
		}
	}
	return false
}

func (s *Session) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}

// User returns the current user's email, or "" when logged out.
func (s *Session) User() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// Designs returns the most recently fetched design list.
func (s *Session) Designs() []*Design {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.designs
}

// Categories returns the distinct categories of the loaded design list.
func (s *Session) Categories() []string {
	return Categories(s.Designs())
}

// SelectedDesign returns the design loaded by FetchDesignByID, or nil.
func (s *Session) SelectedDesign() *DesignDetail {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// SavedDesigns returns the cached saved list, most recently added first.
func (s *Session) SavedDesigns() []*SavedDesign {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saved
}

// Loading reports whether a fetch is in flight.
func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}
