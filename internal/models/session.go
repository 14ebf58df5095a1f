package models

import "time"

// Session groups the uploaded files and chat history behind one opaque token.
// FileOrder records upload order so listings stay stable across requests.
type Session struct {
	ID        string                 `json:"id"`
	Files     map[string]*StoredFile `json:"files"`
	FileOrder []string               `json:"file_order"`
	History   []ChatTurn             `json:"history"`
	CreatedAt time.Time              `json:"created_at"`
	UpdatedAt time.Time              `json:"updated_at"`
}

func NewSession(id string) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        id,
		Files:     make(map[string]*StoredFile),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Clone returns a snapshot safe to hand outside the store. StoredFile values
// are immutable, so sharing the pointers is fine; the containers are copied.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Files = make(map[string]*StoredFile, len(s.Files))
	for id, f := range s.Files {
		cp.Files[id] = f
	}
	cp.FileOrder = append([]string(nil), s.FileOrder...)
	cp.History = append([]ChatTurn(nil), s.History...)
	return &cp
}
