package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/iliyamo/shoply/internal/model"
)

// ProfileRepo is the MySQL-backed profile store.
type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

const profileColumns = "id,user_id,firstname,lastname,bio,dob,phone,location,avatar,created_at,updated_at"

// GetByUserID fetches the profile owned by a user, or ErrNotFound when the
// user has not created one yet.
func (r *ProfileRepo) GetByUserID(ctx context.Context, userID uint64) (*model.Profile, error) {
	var (
		p   model.Profile
		bio, phone, location, avatar sql.NullString
		dob sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+profileColumns+" FROM profiles WHERE user_id=? LIMIT 1",
		userID).Scan(&p.ID, &p.UserID, &p.Firstname, &p.Lastname, &bio, &dob,
		&phone, &location, &avatar, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if bio.Valid {
		p.Bio = &bio.String
	}
	if dob.Valid {
		p.DOB = &dob.Time
	}
	if phone.Valid {
		p.Phone = &phone.String
	}
	if location.Valid {
		p.Location = &location.String
	}
	if avatar.Valid {
		p.Avatar = &avatar.String
	}
	return &p, nil
}

// Upsert creates the row on first use and updates it afterwards. The
// unique index on user_id makes the create-if-absent race safe: two
// concurrent first writes collapse into one row.
func (r *ProfileRepo) Upsert(ctx context.Context, p *model.Profile) (*model.Profile, error) {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO profiles (user_id, firstname, lastname, bio, dob, phone, location)
		 VALUES (?,?,?,?,?,?,?)
		 ON DUPLICATE KEY UPDATE
		 firstname=VALUES(firstname), lastname=VALUES(lastname), bio=VALUES(bio),
		 dob=VALUES(dob), phone=VALUES(phone), location=VALUES(location)`,
		p.UserID, p.Firstname, p.Lastname, p.Bio, p.DOB, p.Phone, p.Location)
	if err != nil {
		return nil, err
	}
	return r.GetByUserID(ctx, p.UserID)
}

// SetAvatar stores the avatar URL, creating the profile row first when the
// user has none. Avatar is the only field touched on an existing row.
func (r *ProfileRepo) SetAvatar(ctx context.Context, userID uint64, avatarURL string) (*model.Profile, error) {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO profiles (user_id, firstname, lastname, avatar)
		 VALUES (?, '', '', ?)
		 ON DUPLICATE KEY UPDATE avatar=VALUES(avatar)`,
		userID, avatarURL)
	if err != nil {
		return nil, err
	}
	return r.GetByUserID(ctx, userID)
}
