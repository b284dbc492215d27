package domain

import (
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/google/uuid"
)

// LocalIDPrefix marks identifiers minted inside an editing session before the
// store has acknowledged the entity. The store assigns UUIDs, which can never
// collide with this prefix, so the two id spaces stay distinguishable by
// construction. A local id must never reach the store as an update or delete
// target.
const LocalIDPrefix = "local-"

func IsLocalID(id string) bool {
	return strings.HasPrefix(id, LocalIDPrefix)
}

// NewLocalID mints a placeholder id for a not-yet-created entity.
func NewLocalID() string {
	return LocalIDPrefix + uuid.NewString()
}

// ImagePatchKind distinguishes "image not mentioned" from "replace the image"
// from "clear the existing image" on an update.
type ImagePatchKind string

const (
	ImageUnchanged ImagePatchKind = "unchanged"
	ImageReplace   ImagePatchKind = "replace"
	ImageClear     ImagePatchKind = "clear"
)

type ImagePatch struct {
	Kind ImagePatchKind `json:"kind"`
	// URL is the newly attached image reference; only meaningful for replace.
	URL string `json:"url,omitempty"`
}

func (p ImagePatch) IsZero() bool {
	return p.Kind == "" || p.Kind == ImageUnchanged
}

type SpecialReward struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Image carries the session's pending image instruction; it is not
	// persisted as-is.
	Image ImagePatch `json:"image,omitempty"`
}

func (r SpecialReward) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&r.Description, validation.Length(0, 500)),
	)
}

func (r SpecialReward) SyncID() string {
	return r.ID
}

// ContentEquals reports whether an update would be a no-op against the
// snapshot entry. A pending image instruction always forces an update.
func (r SpecialReward) ContentEquals(other SpecialReward) bool {
	if !r.Image.IsZero() {
		return false
	}

	return r.Name == other.Name &&
		r.Description == other.Description &&
		r.ImageURL == other.ImageURL
}

type FileRequirement struct {
	ID                string    `json:"id"`
	EventID           string    `json:"event_id"`
	Name              string    `json:"name"`
	Description       string    `json:"description,omitempty"`
	Required          bool      `json:"required"`
	AllowedExtensions []string  `json:"allowed_extensions,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (f FileRequirement) Validate() error {
	return validation.ValidateStruct(&f,
		validation.Field(&f.Name, validation.Required, validation.Length(1, 100)),
		validation.Field(&f.Description, validation.Length(0, 500)),
	)
}

func (f FileRequirement) SyncID() string {
	return f.ID
}

func (f FileRequirement) ContentEquals(other FileRequirement) bool {
	if f.Name != other.Name || f.Description != other.Description || f.Required != other.Required {
		return false
	}
	if len(f.AllowedExtensions) != len(other.AllowedExtensions) {
		return false
	}
	for i, ext := range f.AllowedExtensions {
		if other.AllowedExtensions[i] != ext {
			return false
		}
	}

	return true
}
