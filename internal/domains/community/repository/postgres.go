package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"sunkissed-backend/internal/domains/community/model"
	"sunkissed-backend/internal/infrastructure/database"
	"sunkissed-backend/internal/shared/utils"
	pkgdb "sunkissed-backend/pkg/database"
)

const usernameConstraint = "profiles_username_key"

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewPostgresRepository(pool *pgxpool.Pool) Repository {
	return &postgresRepository{pool: pool}
}

// =====================================================
// PROFILES
// =====================================================

const profileColumns = `user_id, email, name, username, avatar, updated_at`

func scanProfile(row pgx.Row) (*model.Profile, error) {
	var p model.Profile
	if err := row.Scan(&p.UserID, &p.Email, &p.Name, &p.Username, &p.Avatar, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

// UpsertProfile keeps the stored email when the token carries none.
func (r *postgresRepository) UpsertProfile(ctx context.Context, userID, email string) (*model.Profile, error) {
	query := `
		INSERT INTO profiles (user_id, email) VALUES ($1, $2)
		ON CONFLICT (user_id) DO UPDATE SET
			email = CASE WHEN EXCLUDED.email <> '' THEN EXCLUDED.email ELSE profiles.email END
		RETURNING ` + profileColumns

	profile, err := scanProfile(r.pool.QueryRow(ctx, query, userID, email))
	if err != nil {
		return nil, fmt.Errorf("upsert profile: %w", err)
	}
	return profile, nil
}

func (r *postgresRepository) GetProfile(ctx context.Context, userID string) (*model.Profile, error) {
	query := `SELECT ` + profileColumns + ` FROM profiles WHERE user_id = $1`

	profile, err := scanProfile(r.pool.QueryRow(ctx, query, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, model.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return profile, nil
}

func (r *postgresRepository) UpdateProfile(ctx context.Context, profile *model.Profile) error {
	query := `
		UPDATE profiles SET name = $2, username = $3, avatar = $4, updated_at = NOW()
		WHERE user_id = $1
		RETURNING email, updated_at
	`
	err := r.pool.QueryRow(ctx, query,
		profile.UserID, profile.Name, profile.Username, profile.Avatar,
	).Scan(&profile.Email, &profile.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.ErrUserNotFound
	}
	if database.IsUniqueViolation(err, usernameConstraint) {
		return model.ErrUsernameTaken
	}
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}
	return nil
}

// =====================================================
// CHATS
// =====================================================

const chatColumns = `c.id, c.type, c.name, c.description, c.is_public, c.owner_id, c.created_at, c.updated_at`

func chatScanTargets(c *model.Chat) []interface{} {
	return []interface{}{
		&c.ID, &c.Type, &c.Name, &c.Description, &c.IsPublic, &c.OwnerID, &c.CreatedAt, &c.UpdatedAt,
	}
}

func (r *postgresRepository) ListChats(ctx context.Context, userID string) ([]model.Chat, error) {
	query := `
		SELECT ` + chatColumns + `,
			cm.role, cm.is_muted,
			(SELECT COUNT(*) FROM messages u
			  WHERE u.chat_id = c.id AND NOT u.is_deleted
			    AND u.created_at > cm.last_read_at AND u.sender_id <> $1),
			lm.id, lm.sender_id, lm.kind, lm.content, lm.design_code, lm.created_at, lm.sender_name
		FROM chat_members cm
		JOIN chats c ON c.id = cm.chat_id
		LEFT JOIN LATERAL (
			SELECT m.id, m.sender_id, m.kind, m.content, m.design_code, m.created_at,
			       COALESCE(p.name, '') AS sender_name
			FROM messages m
			LEFT JOIN profiles p ON p.user_id = m.sender_id
			WHERE m.chat_id = c.id AND NOT m.is_deleted
			ORDER BY m.created_at DESC
			LIMIT 1
		) lm ON TRUE
		WHERE cm.user_id = $1
		ORDER BY c.updated_at DESC
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("list chats: %w", err)
	}
	defer rows.Close()

	chats := []model.Chat{}
	index := map[uuid.UUID]int{}
	for rows.Next() {
		var (
			chat       model.Chat
			lastID     *uuid.UUID
			senderID   *string
			kind       *string
			content    *string
			designCode *string
			sentAt     *time.Time
			senderName *string
		)
		targets := append(chatScanTargets(&chat),
			&chat.MyRole, &chat.IsMuted, &chat.UnreadCount,
			&lastID, &senderID, &kind, &content, &designCode, &sentAt, &senderName,
		)
		if err := rows.Scan(targets...); err != nil {
			return nil, fmt.Errorf("scan chat: %w", err)
		}

		if lastID != nil {
			body, err := model.BodyFromColumns(*kind, *content, designCode)
			if err != nil {
				return nil, fmt.Errorf("decode message %s: %w", *lastID, err)
			}
			chat.LastMessage = &model.Message{
				ID:          *lastID,
				ChatID:      chat.ID,
				SenderID:    *senderID,
				Sender:      &model.Sender{Name: *senderName},
				CreatedAt:   *sentAt,
				MessageBody: body,
			}
		}
		index[chat.ID] = len(chats)
		chats = append(chats, chat)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate chats: %w", err)
	}
	if len(chats) == 0 {
		return chats, nil
	}

	ids := make([]uuid.UUID, 0, len(chats))
	for _, c := range chats {
		ids = append(ids, c.ID)
	}
	members, err := r.listMembers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for chatID, list := range members {
		i := index[chatID]
		chats[i].Members = list
		chats[i].MemberCount = len(list)
	}
	return chats, nil
}

func (r *postgresRepository) listMembers(ctx context.Context, chatIDs []uuid.UUID) (map[uuid.UUID][]model.Member, error) {
	query := `
		SELECT cm.chat_id, cm.user_id, cm.role, cm.is_muted, cm.last_read_at, cm.joined_at,
		       COALESCE(p.name, ''), p.username, p.avatar
		FROM chat_members cm
		LEFT JOIN profiles p ON p.user_id = cm.user_id
		WHERE cm.chat_id = ANY($1)
		ORDER BY cm.joined_at
	`
	rows, err := r.pool.Query(ctx, query, chatIDs)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]model.Member, len(chatIDs))
	for rows.Next() {
		var (
			chatID uuid.UUID
			m      model.Member
		)
		if err := rows.Scan(&chatID, &m.UserID, &m.Role, &m.IsMuted, &m.LastReadAt, &m.JoinedAt,
			&m.Name, &m.Username, &m.Avatar); err != nil {
			return nil, fmt.Errorf("scan member: %w", err)
		}
		out[chatID] = append(out[chatID], m)
	}
	return out, rows.Err()
}

// CreateDirectChat serializes on the member pair with an advisory lock so two
// concurrent requests cannot create duplicate direct chats.
func (r *postgresRepository) CreateDirectChat(ctx context.Context, a, b string) (*model.Chat, bool, error) {
	first, second := a, b
	if second < first {
		first, second = second, first
	}

	var (
		chat    model.Chat
		created bool
	)
	err := pkgdb.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`,
			"direct:"+first+":"+second); err != nil {
			return fmt.Errorf("lock pair: %w", err)
		}

		findQuery := `
			SELECT ` + chatColumns + `
			FROM chats c
			WHERE c.type = 'direct'
			  AND EXISTS (SELECT 1 FROM chat_members WHERE chat_id = c.id AND user_id = $1)
			  AND EXISTS (SELECT 1 FROM chat_members WHERE chat_id = c.id AND user_id = $2)
			LIMIT 1
		`
		err := tx.QueryRow(ctx, findQuery, first, second).Scan(chatScanTargets(&chat)...)
		if err == nil {
			return nil
		}
		if !errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("find direct chat: %w", err)
		}

		insertQuery := `
			INSERT INTO chats AS c (type) VALUES ('direct')
			RETURNING ` + chatColumns
		if err := tx.QueryRow(ctx, insertQuery).Scan(chatScanTargets(&chat)...); err != nil {
			return fmt.Errorf("insert chat: %w", err)
		}
		for _, userID := range []string{a, b} {
			if err := addMember(ctx, tx, chat.ID, userID, model.RoleMember); err != nil {
				return err
			}
		}
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &chat, created, nil
}

func (r *postgresRepository) CreateGroupChat(ctx context.Context, chat *model.Chat) error {
	return pkgdb.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		query := `
			INSERT INTO chats AS c (type, name, description, is_public, owner_id)
			VALUES ('group', $1, $2, $3, $4)
			RETURNING ` + chatColumns
		err := tx.QueryRow(ctx, query, chat.Name, chat.Description, chat.IsPublic, chat.OwnerID).
			Scan(chatScanTargets(chat)...)
		if err != nil {
			return fmt.Errorf("insert chat: %w", err)
		}
		return addMember(ctx, tx, chat.ID, *chat.OwnerID, model.RoleOwner)
	})
}

func addMember(ctx context.Context, tx pgx.Tx, chatID uuid.UUID, userID string, role model.MemberRole) error {
	_, err := tx.Exec(ctx,
		`INSERT INTO chat_members (chat_id, user_id, role) VALUES ($1, $2, $3)`,
		chatID, userID, role,
	)
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetMembership(ctx context.Context, chatID uuid.UUID, userID string) (*model.Member, error) {
	query := `
		SELECT user_id, role, is_muted, last_read_at, joined_at
		FROM chat_members
		WHERE chat_id = $1 AND user_id = $2
	`
	var m model.Member
	err := r.pool.QueryRow(ctx, query, chatID, userID).
		Scan(&m.UserID, &m.Role, &m.IsMuted, &m.LastReadAt, &m.JoinedAt)
	if err == nil {
		return &m, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("get membership: %w", err)
	}

	var exists bool
	if err := r.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM chats WHERE id = $1)`, chatID).Scan(&exists); err != nil {
		return nil, fmt.Errorf("check chat: %w", err)
	}
	if !exists {
		return nil, model.ErrChatNotFound
	}
	return nil, model.ErrNotMember
}

func (r *postgresRepository) ListAllChats(ctx context.Context, limit, offset int) ([]model.AdminChat, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM chats`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count chats: %w", err)
	}

	query := `
		SELECT ` + chatColumns + `,
			COALESCE(p.name, ''), COALESCE(p.email, ''),
			(SELECT COUNT(*) FROM chat_members m WHERE m.chat_id = c.id),
			(SELECT COUNT(*) FROM messages msg WHERE msg.chat_id = c.id AND NOT msg.is_deleted)
		FROM chats c
		LEFT JOIN profiles p ON p.user_id = c.owner_id
		ORDER BY c.updated_at DESC
		LIMIT $1 OFFSET $2
	`
	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list all chats: %w", err)
	}
	defer rows.Close()

	chats := []model.AdminChat{}
	for rows.Next() {
		var ac model.AdminChat
		targets := append(chatScanTargets(&ac.Chat),
			&ac.OwnerName, &ac.OwnerEmail, &ac.MemberCount, &ac.MessageCount)
		if err := rows.Scan(targets...); err != nil {
			return nil, 0, fmt.Errorf("scan chat: %w", err)
		}
		chats = append(chats, ac)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate chats: %w", err)
	}
	return chats, total, nil
}

// =====================================================
// MESSAGES
// =====================================================

// ListMessages returns messages oldest first. Without a cursor it returns the
// latest limit messages; with one, the first limit messages after it.
func (r *postgresRepository) ListMessages(ctx context.Context, chatID uuid.UUID, after *time.Time, limit int) ([]model.Message, error) {
	base := `
		SELECT m.id, m.chat_id, m.sender_id, m.kind, m.content, m.design_code, m.created_at,
		       COALESCE(p.name, ''), p.username, p.avatar
		FROM messages m
		LEFT JOIN profiles p ON p.user_id = m.sender_id
		WHERE m.chat_id = $1 AND NOT m.is_deleted`

	var (
		rows pgx.Rows
		err  error
	)
	if after != nil {
		rows, err = r.pool.Query(ctx, base+` AND m.created_at > $3 ORDER BY m.created_at ASC LIMIT $2`,
			chatID, limit, *after)
	} else {
		rows, err = r.pool.Query(ctx, base+` ORDER BY m.created_at DESC LIMIT $2`, chatID, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := []model.Message{}
	for rows.Next() {
		var (
			msg        model.Message
			sender     model.Sender
			kind       string
			content    string
			designCode *string
		)
		if err := rows.Scan(&msg.ID, &msg.ChatID, &msg.SenderID, &kind, &content, &designCode, &msg.CreatedAt,
			&sender.Name, &sender.Username, &sender.Avatar); err != nil {
			return nil, fmt.Errorf("scan message: %w", err)
		}
		body, err := model.BodyFromColumns(kind, content, designCode)
		if err != nil {
			return nil, fmt.Errorf("decode message %s: %w", msg.ID, err)
		}
		msg.MessageBody = body
		msg.Sender = &sender
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate messages: %w", err)
	}

	if after == nil {
		for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
			messages[i], messages[j] = messages[j], messages[i]
		}
	}
	return messages, nil
}

// MarkRead never moves the read marker backwards.
func (r *postgresRepository) MarkRead(ctx context.Context, chatID uuid.UUID, userID string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE chat_members SET last_read_at = GREATEST(last_read_at, $3)
		WHERE chat_id = $1 AND user_id = $2
	`, chatID, userID, at)
	if err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

func (r *postgresRepository) CreateMessage(ctx context.Context, msg *model.Message) ([]string, error) {
	kind, content, designCode := msg.Columns()

	return pkgdb.WithTransactionResult(ctx, r.pool, func(tx pgx.Tx) ([]string, error) {
		err := tx.QueryRow(ctx, `
			INSERT INTO messages (chat_id, sender_id, kind, content, design_code)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, created_at
		`, msg.ChatID, msg.SenderID, kind, content, designCode).Scan(&msg.ID, &msg.CreatedAt)
		if database.IsForeignKeyViolation(err) {
			return nil, model.ErrChatNotFound
		}
		if err != nil {
			return nil, fmt.Errorf("insert message: %w", err)
		}

		if _, err := tx.Exec(ctx, `UPDATE chats SET updated_at = $2 WHERE id = $1`,
			msg.ChatID, msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("touch chat: %w", err)
		}
		if _, err := tx.Exec(ctx, `
			UPDATE chat_members SET last_read_at = $3 WHERE chat_id = $1 AND user_id = $2
		`, msg.ChatID, msg.SenderID, msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("mark sender read: %w", err)
		}

		rows, err := tx.Query(ctx, `SELECT user_id FROM chat_members WHERE chat_id = $1`, msg.ChatID)
		if err != nil {
			return nil, fmt.Errorf("list members: %w", err)
		}
		memberIDs, err := pgx.CollectRows(rows, pgx.RowTo[string])
		if err != nil {
			return nil, fmt.Errorf("scan members: %w", err)
		}
		return memberIDs, nil
	})
}

// =====================================================
// SEARCH
// =====================================================

func (r *postgresRepository) SearchUsers(ctx context.Context, term, excludeUserID string, limit int) ([]model.Profile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM profiles
		WHERE user_id <> $2
		  AND (username ILIKE $1 OR name ILIKE $1)
		ORDER BY username NULLS LAST, name
		LIMIT $3
	`
	rows, err := r.pool.Query(ctx, query, utils.ContainsPattern(term), excludeUserID, limit)
	if err != nil {
		return nil, fmt.Errorf("search users: %w", err)
	}
	defer rows.Close()

	users := []model.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		// Emails stay private in search results.
		p.Email = ""
		users = append(users, *p)
	}
	return users, rows.Err()
}

func (r *postgresRepository) SearchGroups(ctx context.Context, term string, limit int) ([]model.Chat, error) {
	query := `
		SELECT ` + chatColumns + `,
			(SELECT COUNT(*) FROM chat_members m WHERE m.chat_id = c.id)
		FROM chats c
		WHERE c.type = 'group' AND c.is_public AND c.name ILIKE $1
		ORDER BY c.updated_at DESC
		LIMIT $2
	`
	rows, err := r.pool.Query(ctx, query, utils.ContainsPattern(term), limit)
	if err != nil {
		return nil, fmt.Errorf("search groups: %w", err)
	}
	defer rows.Close()

	groups := []model.Chat{}
	for rows.Next() {
		var c model.Chat
		if err := rows.Scan(append(chatScanTargets(&c), &c.MemberCount)...); err != nil {
			return nil, fmt.Errorf("scan group: %w", err)
		}
		groups = append(groups, c)
	}
	return groups, rows.Err()
}
