package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/RealSeaberry/Local-LLM-Chat/internal/domain"
)

// SQLiteStore implements Store using SQLite.
//
// Timestamps are stored as INTEGER unix microseconds. Message inserts assign
// created_at = MAX(prev_max+1, now) inside a single INSERT, so within one
// conversation timestamps are strictly increasing and never collide; SQLite
// serializes writers, which makes the assignment safe across concurrent
// requests. Rewind (DeleteMessagesFrom) depends on this.
type SQLiteStore struct {
	db *sql.DB
}

// Ensure SQLiteStore implements Store.
var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database and bootstraps the schema.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS conversations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			title TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			conversation_id INTEGER NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			FOREIGN KEY (conversation_id) REFERENCES conversations(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateConversation inserts a conversation and returns the stored record.
func (s *SQLiteStore) CreateConversation(ctx context.Context, title string) (*domain.Conversation, error) {
	conv := &domain.Conversation{Title: title}
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO conversations (title, created_at) VALUES (?, ?) RETURNING id, created_at`,
		title, time.Now().UnixMicro()).Scan(&conv.ID, &createdAt)
	if err != nil {
		return nil, err
	}
	conv.CreatedAt = time.UnixMicro(createdAt)
	return conv, nil
}

// GetConversation retrieves a conversation by id.
func (s *SQLiteStore) GetConversation(ctx context.Context, id int64) (*domain.Conversation, error) {
	var conv domain.Conversation
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, title, created_at FROM conversations WHERE id = ?`,
		id).Scan(&conv.ID, &conv.Title, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	conv.CreatedAt = time.UnixMicro(createdAt)
	return &conv, nil
}

// ListConversations lists all conversations, newest first.
func (s *SQLiteStore) ListConversations(ctx context.Context) ([]domain.Conversation, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, created_at FROM conversations ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var conversations []domain.Conversation
	for rows.Next() {
		var conv domain.Conversation
		var createdAt int64
		if err := rows.Scan(&conv.ID, &conv.Title, &createdAt); err != nil {
			return nil, err
		}
		conv.CreatedAt = time.UnixMicro(createdAt)
		conversations = append(conversations, conv)
	}
	return conversations, rows.Err()
}

// UpdateConversationTitle renames a conversation and returns the updated
// record, or nil if the conversation does not exist.
func (s *SQLiteStore) UpdateConversationTitle(ctx context.Context, id int64, title string) (*domain.Conversation, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE conversations SET title = ? WHERE id = ?`, title, id)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, nil
	}
	return s.GetConversation(ctx, id)
}

// DeleteConversation removes a conversation and its messages in one
// transaction. Deleting a missing conversation is a no-op.
func (s *SQLiteStore) DeleteConversation(ctx context.Context, id int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM messages WHERE conversation_id = ?`, id); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM conversations WHERE id = ?`, id); err != nil {
		return err
	}
	return tx.Commit()
}

// CreateMessage inserts a message, assigning a timestamp strictly greater
// than every existing timestamp in the conversation.
func (s *SQLiteStore) CreateMessage(ctx context.Context, msg *domain.Message) error {
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		`INSERT INTO messages (conversation_id, role, content, created_at)
		 VALUES (?, ?, ?, MAX(
			COALESCE((SELECT MAX(created_at) + 1 FROM messages WHERE conversation_id = ?), 0),
			?))
		 RETURNING id, created_at`,
		msg.ConversationID, msg.Role, msg.Content, msg.ConversationID, time.Now().UnixMicro(),
	).Scan(&msg.ID, &createdAt)
	if err != nil {
		return err
	}
	msg.CreatedAt = time.UnixMicro(createdAt)
	return nil
}

// GetMessage retrieves a message by id.
func (s *SQLiteStore) GetMessage(ctx context.Context, id int64) (*domain.Message, error) {
	var msg domain.Message
	var createdAt int64
	err := s.db.QueryRowContext(ctx,
		`SELECT id, conversation_id, role, content, created_at FROM messages WHERE id = ?`,
		id).Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	msg.CreatedAt = time.UnixMicro(createdAt)
	return &msg, nil
}

// ListMessages returns a conversation's messages in chronological order.
func (s *SQLiteStore) ListMessages(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	return s.listMessages(ctx, conversationID, "ASC")
}

// ListMessagesDesc returns a conversation's messages newest first.
func (s *SQLiteStore) ListMessagesDesc(ctx context.Context, conversationID int64) ([]domain.Message, error) {
	return s.listMessages(ctx, conversationID, "DESC")
}

func (s *SQLiteStore) listMessages(ctx context.Context, conversationID int64, order string) ([]domain.Message, error) {
	query := fmt.Sprintf(
		`SELECT id, conversation_id, role, content, created_at FROM messages
		 WHERE conversation_id = ? ORDER BY created_at %s`, order)
	rows, err := s.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var msg domain.Message
		var createdAt int64
		if err := rows.Scan(&msg.ID, &msg.ConversationID, &msg.Role, &msg.Content, &createdAt); err != nil {
			return nil, err
		}
		msg.CreatedAt = time.UnixMicro(createdAt)
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// DeleteMessagesFrom removes every message in the conversation with a
// timestamp at or after cutoff.
func (s *SQLiteStore) DeleteMessagesFrom(ctx context.Context, conversationID int64, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM messages WHERE conversation_id = ? AND created_at >= ?`,
		conversationID, cutoff.UnixMicro())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
