package model

import "time"

// Roles accepted by the application.  The login form submits the claimed
// role and the authenticator compares it against the stored value.
const (
    RoleUser  = "user"
    RoleAdmin = "admin"
)

// User represents an application user record as stored in the `users`
// table.  The password hash never leaves the repository layer in a
// client-facing shape; handlers serialize users through SafeUser only.
//
// Fields:
//  ID                – primary key identifier of the user.
//  Username          – mutable display name.
//  Email             – unique email address, the login key.
//  PasswordHash      – bcrypt hashed password.
//  Role              – "user" or "admin".
//  IsOnline          – presence flag, best-effort.
//  LoginCount        – monotonic successful-login counter.
//  LastLogin         – timestamp of the most recent login.
//  LastSeen          – timestamp stamped on logout.
//  PasswordChangedAt – when the password was last changed.
//  CreatedAt         – timestamp of creation.
//  UpdatedAt         – timestamp of last update.
type User struct {
    ID                uint64     // users.id
    Username          string     // users.username
    Email             string     // users.email
    PasswordHash      string     // users.password_hash
    Role              string     // users.role
    IsOnline          bool       // users.is_online
    LoginCount        uint32     // users.login_count
    LastLogin         *time.Time // users.last_login (nullable)
    LastSeen          *time.Time // users.last_seen (nullable)
    PasswordChangedAt *time.Time // users.password_changed_at (nullable)
    CreatedAt         time.Time  // users.created_at
    UpdatedAt         time.Time  // users.updated_at
}

// SafeUser is the client-facing projection of a User.  It deliberately has
// no password field, so a hash can never be serialized by accident.
type SafeUser struct {
    ID                uint64     `json:"id"`
    Username          string     `json:"username"`
    Email             string     `json:"email"`
    Role              string     `json:"role"`
    IsOnline          bool       `json:"isOnline"`
    LoginCount        uint32     `json:"loginCount"`
    LastLogin         *time.Time `json:"lastLogin"`
    LastSeen          *time.Time `json:"lastSeen"`
    PasswordChangedAt *time.Time `json:"passwordChangedAt"`
    CreatedAt         time.Time  `json:"createdAt"`
    UpdatedAt         time.Time  `json:"updatedAt"`
}

// Safe converts a User into its serializable projection.
func (u *User) Safe() SafeUser {
    return SafeUser{
        ID:                u.ID,
        Username:          u.Username,
        Email:             u.Email,
        Role:              u.Role,
        IsOnline:          u.IsOnline,
        LoginCount:        u.LoginCount,
        LastLogin:         u.LastLogin,
        LastSeen:          u.LastSeen,
        PasswordChangedAt: u.PasswordChangedAt,
        CreatedAt:         u.CreatedAt,
        UpdatedAt:         u.UpdatedAt,
    }
}
