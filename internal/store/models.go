package store

import (
	"fmt"
	"strings"
	"time"

	"verity/internal/citations"
)

// Role classifies an account for authorization decisions.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known values.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// MediaKind identifies how an input file is processed.
type MediaKind string

const (
	KindVideo MediaKind = "video"
	KindAudio MediaKind = "audio"
	KindImage MediaKind = "image"
)

// ParseMediaKind maps user input to a media kind, case-insensitively.
func ParseMediaKind(value string) (MediaKind, error) {
	switch MediaKind(strings.ToLower(strings.TrimSpace(value))) {
	case KindVideo:
		return KindVideo, nil
	case KindAudio:
		return KindAudio, nil
	case KindImage:
		return KindImage, nil
	default:
		return "", fmt.Errorf("unknown media kind %q (expected video, audio, or image)", value)
	}
}

// User is a registered account.
type User struct {
	ID           int64
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// FactCheck is one completed verification record.
type FactCheck struct {
	ID            int64
	UserID        int64
	MediaKind     MediaKind
	SourcePath    string
	ExtractedText string
	VerdictText   string
	Citations     []citations.Citation
	CreatedAt     time.Time
}

// Comment is an admin annotation on a fact-check record.
type Comment struct {
	ID          int64
	FactCheckID int64
	AuthorID    int64
	AuthorEmail string
	Body        string
	CreatedAt   time.Time
}
