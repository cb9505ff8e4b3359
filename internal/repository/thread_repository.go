package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/backoffice-service/internal/domain"
)

// ThreadPatch carries the optional fields of a partial thread update.
// Enumerated fields are validated by the caller before they reach here.
type ThreadPatch struct {
	Status        *domain.ThreadStatus
	Priority      *domain.ThreadPriority
	Folder        *domain.ThreadFolder
	Read          *bool
	PrivateNote   *string
	AssignedAdmin *string
}

// IsEmpty reports whether the patch mutates anything.
func (p ThreadPatch) IsEmpty() bool {
	return p.Status == nil && p.Priority == nil && p.Folder == nil &&
		p.Read == nil && p.PrivateNote == nil && p.AssignedAdmin == nil
}

// ThreadRepository encapsulates thread persistence.
type ThreadRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.MessageThread, error)
	UpdateFields(ctx context.Context, id int64, patch ThreadPatch) error
}

type threadRepository struct {
	pool *pgxpool.Pool
}

// NewThreadRepository instantiates the repository.
func NewThreadRepository(pool *pgxpool.Pool) ThreadRepository {
	return &threadRepository{pool: pool}
}

// GetByID fetches the thread with labels and the conversation ordered
// oldest-first, including message attachments.
func (r *threadRepository) GetByID(ctx context.Context, id int64) (*domain.MessageThread, error) {
	const query = `
        SELECT id, subject, status, priority, folder, read_flag, private_note, assigned_admin, created_at, updated_at
        FROM threads WHERE id=$1`

	var thread domain.MessageThread
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&thread.ID,
		&thread.Subject,
		&thread.Status,
		&thread.Priority,
		&thread.Folder,
		&thread.Read,
		&thread.PrivateNote,
		&thread.AssignedAdmin,
		&thread.CreatedAt,
		&thread.UpdatedAt,
	); err != nil {
		return nil, err
	}

	labels, err := r.listLabels(ctx, id)
	if err != nil {
		return nil, err
	}
	thread.Labels = labels

	conversation, err := r.listConversation(ctx, id)
	if err != nil {
		return nil, err
	}
	thread.Conversation = conversation

	return &thread, nil
}

// UpdateFields persists all supplied fields plus a refreshed update timestamp
// in one statement.
func (r *threadRepository) UpdateFields(ctx context.Context, id int64, patch ThreadPatch) error {
	sets := []string{}
	args := []any{}

	if patch.Status != nil {
		args = append(args, *patch.Status)
		sets = append(sets, fmt.Sprintf("status=$%d", len(args)))
	}
	if patch.Priority != nil {
		args = append(args, *patch.Priority)
		sets = append(sets, fmt.Sprintf("priority=$%d", len(args)))
	}
	if patch.Folder != nil {
		args = append(args, *patch.Folder)
		sets = append(sets, fmt.Sprintf("folder=$%d", len(args)))
	}
	if patch.Read != nil {
		args = append(args, *patch.Read)
		sets = append(sets, fmt.Sprintf("read_flag=$%d", len(args)))
	}
	if patch.PrivateNote != nil {
		args = append(args, *patch.PrivateNote)
		sets = append(sets, fmt.Sprintf("private_note=$%d", len(args)))
	}
	if patch.AssignedAdmin != nil {
		args = append(args, *patch.AssignedAdmin)
		sets = append(sets, fmt.Sprintf("assigned_admin=$%d", len(args)))
	}

	sets = append(sets, "updated_at=NOW()")
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE threads SET %s WHERE id=$%d`, strings.Join(sets, ", "), len(args))

	cmd, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *threadRepository) listLabels(ctx context.Context, threadID int64) ([]domain.Label, error) {
	const query = `
        SELECT l.id, l.name, l.color
        FROM labels l
        JOIN thread_labels tl ON tl.label_id = l.id
        WHERE tl.thread_id = $1
        ORDER BY l.name`

	rows, err := r.pool.Query(ctx, query, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var labels []domain.Label
	for rows.Next() {
		var label domain.Label
		if err := rows.Scan(&label.ID, &label.Name, &label.Color); err != nil {
			return nil, err
		}
		labels = append(labels, label)
	}
	return labels, rows.Err()
}

func (r *threadRepository) listConversation(ctx context.Context, threadID int64) ([]domain.ThreadMessage, error) {
	const query = `
        SELECT id, thread_id, sender_name, sender_email, body, created_at
        FROM thread_messages
        WHERE thread_id=$1
        ORDER BY created_at ASC, id ASC`

	rows, err := r.pool.Query(ctx, query, threadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.ThreadMessage
	for rows.Next() {
		var msg domain.ThreadMessage
		if err := rows.Scan(&msg.ID, &msg.ThreadID, &msg.SenderName, &msg.SenderEmail, &msg.Body, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range messages {
		attachments, err := r.listAttachments(ctx, messages[i].ID)
		if err != nil {
			return nil, err
		}
		messages[i].Attachments = attachments
	}
	return messages, nil
}

func (r *threadRepository) listAttachments(ctx context.Context, messageID int64) ([]domain.MessageAttachment, error) {
	const query = `
        SELECT id, message_id, file_name, mime_type, size_bytes, created_at
        FROM message_attachments
        WHERE message_id=$1
        ORDER BY id`

	rows, err := r.pool.Query(ctx, query, messageID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attachments []domain.MessageAttachment
	for rows.Next() {
		var att domain.MessageAttachment
		if err := rows.Scan(&att.ID, &att.MessageID, &att.FileName, &att.MimeType, &att.SizeBytes, &att.CreatedAt); err != nil {
			return nil, err
		}
		attachments = append(attachments, att)
	}
	return attachments, rows.Err()
}
