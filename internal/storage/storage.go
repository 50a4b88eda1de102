package storage

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/keshon/datastore"
)

const commandHistoryLimit = 20

// Storage persists per-guild bot settings on top of the JSON-file datastore:
// message prefix, command usage history, task role gate and per-user tasks.
// The dispatch engine's own state (cooldowns, registries) is deliberately
// not stored here; it is process-local and rebuilt at startup.
//
// Discord event handlers run on separate goroutines, so every operation
// takes mu around its load-mutate-store round-trip.
type Storage struct {
	mu sync.Mutex
	ds *datastore.DataStore
}

// CommandHistoryRecord is one logged command execution.
type CommandHistoryRecord struct {
	ChannelID   string    `json:"channel_id"`
	ChannelName string    `json:"channel_name"`
	GuildName   string    `json:"guild_name"`
	UserID      string    `json:"user_id"`
	Username    string    `json:"username"`
	Command     string    `json:"command"`
	Datetime    time.Time `json:"datetime"`
}

// UserTask is one assigned chore awaiting completion.
type UserTask struct {
	UserID     string    `json:"user_id"`
	TaskText   string    `json:"task_text"`
	Difficulty string    `json:"difficulty"`
	AssignedAt time.Time `json:"assigned_at"`
	Status     string    `json:"status"` // "pending", "completed", "failed"
}

// Record holds everything stored for one guild.
type Record struct {
	Prefix              string                 `json:"prefix,omitempty"`
	CommandsHistoryList []CommandHistoryRecord `json:"cmd_history"`
	TaskRoles           []string               `json:"task_roles"`
	Tasks               map[string]UserTask    `json:"tasks"` // key = userID
}

// New opens or creates the backing datastore file.
func New(filePath string) (*Storage, error) {
	ds, err := datastore.New(filePath)
	if err != nil {
		return nil, err
	}
	return &Storage{ds: ds}, nil
}

// Close flushes and closes the datastore.
func (s *Storage) Close() error {
	return s.ds.Close()
}

// getOrCreateGuildRecord loads a guild's record, creating an empty one on
// first touch. The datastore hands back generic JSON values, so the record
// round-trips through encoding/json. Callers hold mu.
func (s *Storage) getOrCreateGuildRecord(guildID string) (*Record, error) {
	data, exists := s.ds.Get(guildID)
	if !exists {
		record := &Record{
			CommandsHistoryList: []CommandHistoryRecord{},
			Tasks:               map[string]UserTask{},
		}
		s.ds.Add(guildID, record)
		return record, nil
	}

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("marshal guild record: %w", err)
	}
	var record Record
	if err := json.Unmarshal(jsonData, &record); err != nil {
		return nil, fmt.Errorf("unmarshal guild record: %w", err)
	}

	if record.Tasks == nil {
		record.Tasks = map[string]UserTask{}
	}
	if len(record.CommandsHistoryList) > commandHistoryLimit {
		record.CommandsHistoryList = record.CommandsHistoryList[len(record.CommandsHistoryList)-commandHistoryLimit:]
	}
	return &record, nil
}

// Prefix returns the guild's custom message prefix, "" when unset.
func (s *Storage) Prefix(guildID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return "", err
	}
	return record.Prefix, nil
}

// SetPrefix stores the guild's custom message prefix.
func (s *Storage) SetPrefix(guildID, prefix string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}
	record.Prefix = prefix
	s.ds.Add(guildID, record)
	return nil
}

// AppendCommandToHistory appends a usage record, keeping only the most
// recent entries.
func (s *Storage) AppendCommandToHistory(guildID string, rec CommandHistoryRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}
	record.CommandsHistoryList = append(record.CommandsHistoryList, rec)
	if len(record.CommandsHistoryList) > commandHistoryLimit {
		record.CommandsHistoryList = record.CommandsHistoryList[len(record.CommandsHistoryList)-commandHistoryLimit:]
	}
	s.ds.Add(guildID, record)
	return nil
}

// FetchCommandHistory returns the guild's logged command executions,
// oldest first.
func (s *Storage) FetchCommandHistory(guildID string) ([]CommandHistoryRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.CommandsHistoryList, nil
}

// TaskRoles returns the role IDs allowed to use the task command. Empty
// means no gate is configured.
func (s *Storage) TaskRoles(guildID string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	return record.TaskRoles, nil
}

// SetTaskRoles replaces the task role gate.
func (s *Storage) SetTaskRoles(guildID string, roleIDs []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}
	record.TaskRoles = roleIDs
	s.ds.Add(guildID, record)
	return nil
}

// SetUserTask stores a user's current task.
func (s *Storage) SetUserTask(guildID, userID string, task UserTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}
	record.Tasks[userID] = task
	s.ds.Add(guildID, record)
	return nil
}

// GetUserTask returns a user's current task.
func (s *Storage) GetUserTask(guildID, userID string) (*UserTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return nil, err
	}
	task, exists := record.Tasks[userID]
	if !exists {
		return nil, fmt.Errorf("no task for user %s", userID)
	}
	return &task, nil
}

// ClearUserTask removes a user's current task, if any.
func (s *Storage) ClearUserTask(guildID, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, err := s.getOrCreateGuildRecord(guildID)
	if err != nil {
		return err
	}
	if _, exists := record.Tasks[userID]; exists {
		delete(record.Tasks, userID)
		s.ds.Add(guildID, record)
	}
	return nil
}
