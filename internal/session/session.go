package session

import (
	"sync"

	"linkbot/internal/model"
)

// Step is the input a conversation is waiting for.
type Step int

const (
	// StepNone means no flow is in progress.
	StepNone Step = iota
	// StepLinkName waits for the title of a new link.
	StepLinkName
	// StepLinkURL waits for the URL of a new link.
	StepLinkURL
	// StepBroadcastPhoto waits for the broadcast photo, or plain text for a text-only broadcast.
	StepBroadcastPhoto
	// StepBroadcastCaption waits for the caption of the broadcast photo.
	StepBroadcastCaption
)

func (s Step) String() string {
	switch s {
	case StepLinkName:
		return "link_name"
	case StepLinkURL:
		return "link_url"
	case StepBroadcastPhoto:
		return "broadcast_photo"
	case StepBroadcastCaption:
		return "broadcast_caption"
	}
	return "none"
}

// Flow is the state of one user's wizard.
type Flow struct {
	Step     Step
	Category model.Category
	Name     string
	PhotoID  string
}

// NewAddLinkFlow starts the add-link wizard for a category.
func NewAddLinkFlow(category model.Category) Flow {
	return Flow{Step: StepLinkName, Category: category}
}

// NewBroadcastFlow starts the broadcast wizard.
func NewBroadcastFlow() Flow {
	return Flow{Step: StepBroadcastPhoto}
}

// WithName records the link title and advances to the URL step.
func (f Flow) WithName(name string) Flow {
	f.Name = name
	f.Step = StepLinkURL
	return f
}

// WithPhoto records the broadcast photo and advances to the caption step.
func (f Flow) WithPhoto(fileID string) Flow {
	f.PhotoID = fileID
	f.Step = StepBroadcastCaption
	return f
}

// Store holds in-progress flows keyed by user id.
type Store struct {
	mu    sync.Mutex
	flows map[int64]Flow
}

// NewStore creates an empty flow store.
func NewStore() *Store {
	return &Store{flows: make(map[int64]Flow)}
}

// Get returns the user's flow, if any.
func (s *Store) Get(userID int64) (Flow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flows[userID]
	return f, ok
}

// Set replaces the user's flow.
func (s *Store) Set(userID int64, f Flow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f.Step == StepNone {
		delete(s.flows, userID)
		return
	}
	s.flows[userID] = f
}

// Clear drops the user's flow and reports whether one existed.
func (s *Store) Clear(userID int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.flows[userID]
	delete(s.flows, userID)
	return ok
}

// Len returns the number of flows in progress.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.flows)
}
