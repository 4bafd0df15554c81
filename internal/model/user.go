package model

import "time"

// UserRole represents the role of a user in the system
type UserRole string

const (
	UserRoleViewer UserRole = "viewer" // Read-only access
	UserRoleEditor UserRole = "editor" // Can update activity completion
	UserRoleAdmin  UserRole = "admin"  // Full access including user management
)

// IsValid reports whether r is a known role.
func (r UserRole) IsValid() bool {
	switch r {
	case UserRoleViewer, UserRoleEditor, UserRoleAdmin:
		return true
	}
	return false
}

// UserStatus represents the lifecycle state of a user record.
// Invited users start as pending until their first sign-in links an identity.
type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusActive   UserStatus = "active"
	UserStatusInactive UserStatus = "inactive"
)

// IsValid reports whether s is a known lifecycle status.
func (s UserStatus) IsValid() bool {
	switch s {
	case UserStatusPending, UserStatusActive, UserStatusInactive:
		return true
	}
	return false
}

// User represents a user account. SubjectID is the identity provider's stable
// subject; it is nil for pending invitees who have not signed in yet.
type User struct {
	ID           string     `json:"id"`
	SubjectID    *string    `json:"subject_id,omitempty"`
	Email        string     `json:"email"`
	Name         *string    `json:"name,omitempty"`
	Role         UserRole   `json:"role"`
	Status       UserStatus `json:"status"`
	AssignedMDAs []string   `json:"assigned_mdas,omitempty"`
	InvitedOn    *time.Time `json:"invited_on,omitempty"`
	LoginOn      *time.Time `json:"login_on,omitempty"`
	CreatedOn    time.Time  `json:"created_on"`
	UpdatedOn    time.Time  `json:"updated_on"`
}

// IsAdmin returns true if the user is an active admin
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin && u.Status == UserStatusActive
}

// Identity is the verified assertion supplied by the identity provider.
type Identity struct {
	Subject string `json:"subject"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
}

// Capability is the per-request permission set derived once from
// role x status x assigned scope and passed down instead of re-reading
// user fields at every call site.
type Capability struct {
	UserID       string
	Role         UserRole
	Status       UserStatus
	AssignedMDAs []string
}

// NewCapability derives the capability for a resolved user.
func NewCapability(u *User) Capability {
	return Capability{
		UserID:       u.ID,
		Role:         u.Role,
		Status:       u.Status,
		AssignedMDAs: u.AssignedMDAs,
	}
}

// CanEdit returns true for active admins and editors.
func (c Capability) CanEdit() bool {
	if c.Status != UserStatusActive {
		return false
	}
	return c.Role == UserRoleAdmin || c.Role == UserRoleEditor
}

// IsAdmin returns true for active admins.
func (c Capability) IsAdmin() bool {
	return c.Role == UserRoleAdmin && c.Status == UserStatusActive
}

// CanEditMDA reports whether the capability allows writes under the given MDA.
// An editor with a non-empty assignment list is restricted to it; an empty
// list means an unrestricted editor.
func (c Capability) CanEditMDA(mdaID string) bool {
	if !c.CanEdit() {
		return false
	}
	if c.Role == UserRoleAdmin || len(c.AssignedMDAs) == 0 {
		return true
	}
	for _, id := range c.AssignedMDAs {
		if id == mdaID {
			return true
		}
	}
	return false
}
