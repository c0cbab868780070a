// Package store persists conversations as JSON files, one per
// conversation. It is only touched at the run's join points: user message
// before Stage 1, assistant message and title after the run.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"llm-council/internal/council"
)

// Message is a single conversation turn. User messages carry content and
// optional image data URLs; assistant messages carry the full three-stage
// council payload.
type Message struct {
	Role     string                      `json:"role"`
	Content  string                      `json:"content,omitempty"`
	Images   []string                    `json:"images,omitempty"`
	Stage1   []council.ModelAnswer       `json:"stage1,omitempty"`
	Stage2   []council.RankingSubmission `json:"stage2,omitempty"`
	Stage3   *council.ChairmanSynthesis  `json:"stage3,omitempty"`
	Metadata *council.Metadata           `json:"metadata,omitempty"`
}

// Conversation is a full conversation with all messages.
type Conversation struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Title     string    `json:"title"`
	Messages  []Message `json:"messages"`
}

// Metadata is the list-view projection of a conversation.
type Metadata struct {
	ID           string    `json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	Title        string    `json:"title"`
	MessageCount int       `json:"message_count"`
}

// Store reads and writes conversations under a base directory.
type Store struct {
	dir string
}

// New creates a store rooted at dir.
func New(dir string) *Store {
	return &Store{dir: dir}
}

func (s *Store) ensureDir() error {
	return os.MkdirAll(s.dir, 0755)
}

func (s *Store) path(conversationID string) string {
	return filepath.Join(s.dir, conversationID+".json")
}

// Create initializes an empty conversation with a default title.
func (s *Store) Create(conversationID string) (*Conversation, error) {
	conversation := &Conversation{
		ID:        conversationID,
		CreatedAt: time.Now().UTC(),
		Title:     "New Conversation",
		Messages:  []Message{},
	}
	if err := s.Save(conversation); err != nil {
		return nil, err
	}
	return conversation, nil
}

// Get loads a conversation by ID. A missing conversation returns nil
// without error.
func (s *Store) Get(conversationID string) (*Conversation, error) {
	path := s.path(conversationID)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read conversation file: %w", err)
	}

	var conversation Conversation
	if err := json.Unmarshal(data, &conversation); err != nil {
		return nil, fmt.Errorf("failed to parse conversation JSON: %w", err)
	}
	return &conversation, nil
}

// Save writes a conversation to disk as formatted JSON.
func (s *Store) Save(conversation *Conversation) error {
	if err := s.ensureDir(); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	data, err := json.MarshalIndent(conversation, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal conversation: %w", err)
	}
	if err := os.WriteFile(s.path(conversation.ID), data, 0644); err != nil {
		return fmt.Errorf("failed to write conversation file: %w", err)
	}
	return nil
}

// List returns metadata for every conversation, newest first. Unreadable
// or invalid files are skipped.
func (s *Store) List() ([]Metadata, error) {
	if err := s.ensureDir(); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read data directory: %w", err)
	}

	conversations := make([]Metadata, 0)
	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(s.dir, entry.Name()))
		if err != nil {
			continue
		}
		var conv Conversation
		if err := json.Unmarshal(data, &conv); err != nil {
			continue
		}
		conversations = append(conversations, Metadata{
			ID:           conv.ID,
			CreatedAt:    conv.CreatedAt,
			Title:        conv.Title,
			MessageCount: len(conv.Messages),
		})
	}

	sort.Slice(conversations, func(i, j int) bool {
		return conversations[i].CreatedAt.After(conversations[j].CreatedAt)
	})
	return conversations, nil
}

// AddUserMessage appends a user message with optional image attachments.
func (s *Store) AddUserMessage(conversationID, content string, images []string) error {
	conversation, err := s.Get(conversationID)
	if err != nil {
		return err
	}
	if conversation == nil {
		return fmt.Errorf("conversation %s not found", conversationID)
	}
	conversation.Messages = append(conversation.Messages, Message{
		Role:    "user",
		Content: content,
		Images:  images,
	})
	return s.Save(conversation)
}

// AddAssistantMessage appends the complete result of one council run.
func (s *Store) AddAssistantMessage(conversationID string, result *council.RunResult) error {
	conversation, err := s.Get(conversationID)
	if err != nil {
		return err
	}
	if conversation == nil {
		return fmt.Errorf("conversation %s not found", conversationID)
	}
	stage3 := result.Stage3
	conversation.Messages = append(conversation.Messages, Message{
		Role:   "assistant",
		Stage1: result.Stage1,
		Stage2: result.Stage2,
		Stage3: &stage3,
		Metadata: &council.Metadata{
			LabelToModel:      result.LabelToModel,
			AggregateRankings: result.AggregateRankings,
		},
	})
	return s.Save(conversation)
}

// UpdateTitle replaces the conversation title.
func (s *Store) UpdateTitle(conversationID, title string) error {
	conversation, err := s.Get(conversationID)
	if err != nil {
		return err
	}
	if conversation == nil {
		return fmt.Errorf("conversation %s not found", conversationID)
	}
	conversation.Title = title
	return s.Save(conversation)
}
