package model

import "time"

// Profile is the optional one-to-one extension of a User.  It is created
// lazily on the first profile-set action; both the explicit profile form and
// the avatar update go through the same create-if-absent repository path.
//
// Fields:
//  ID        – primary key identifier.
//  UserID    – owning user (unique, one profile per user).
//  Firstname – given name.
//  Lastname  – family name.
//  Bio       – short free-form text.
//  DOB       – date of birth (date only).
//  Phone     – contact phone number.
//  Location  – free-form location string.
//  Avatar    – URL of the avatar image.
//  CreatedAt – timestamp of creation.
//  UpdatedAt – timestamp of last update.
type Profile struct {
    ID        uint64     `json:"id"`        // profiles.id
    UserID    uint64     `json:"userId"`    // profiles.user_id
    Firstname string     `json:"firstname"` // profiles.firstname
    Lastname  string     `json:"lastname"`  // profiles.lastname
    Bio       *string    `json:"bio"`       // profiles.bio (nullable)
    DOB       *time.Time `json:"dob"`       // profiles.dob (nullable)
    Phone     *string    `json:"phone"`     // profiles.phone (nullable)
    Location  *string    `json:"location"`  // profiles.location (nullable)
    Avatar    *string    `json:"avatar"`    // profiles.avatar (nullable)
    CreatedAt time.Time  `json:"createdAt"` // profiles.created_at
    UpdatedAt time.Time  `json:"updatedAt"` // profiles.updated_at
}
