package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrEventNotFound           = errors.New("event not found")
	ErrEventNameExists         = errors.New("event name already taken")
	ErrRewardNotFound          = errors.New("reward not found")
	ErrFileRequirementNotFound = errors.New("file requirement not found")
	ErrCriterionNotFound       = errors.New("grading criterion not found")
)

type Event struct {
	ID                string `gorm:"primaryKey"`
	Name              string `gorm:"uniqueIndex;not null"`
	Status            string `gorm:"not null;default:draft"`
	StartJoinDate     *time.Time
	EndJoinDate       *time.Time
	StartView         *time.Time
	EndView           *time.Time
	IsPublic          bool
	HideParticipants  bool
	HasCommittee      bool
	VirtualRewardPool int
	BannerURL         string

	Participants     []Participant      `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	Teams            []Team             `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	Rewards          []SpecialReward    `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	FileRequirements []FileRequirement  `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`
	Criteria         []GradingCriterion `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (e *Event) BeforeCreate(_ *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}

	return nil
}

type SpecialReward struct {
	ID          string `gorm:"primaryKey"`
	EventID     string `gorm:"index;not null"`
	Name        string `gorm:"not null"`
	Description string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r *SpecialReward) BeforeCreate(_ *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}

	return nil
}

type FileRequirement struct {
	ID                string `gorm:"primaryKey"`
	EventID           string `gorm:"index;not null"`
	Name              string `gorm:"not null"`
	Description       string
	Required          bool
	AllowedExtensions string // comma separated
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (f *FileRequirement) BeforeCreate(_ *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}

	return nil
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError

	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func (d *EventDAO) GetByID(ctx context.Context, id string) (Event, error) {
	var event Event
	err := d.db.WithContext(ctx).
		Preload("Participants").
		Preload("Teams").
		Preload("Rewards").
		Preload("FileRequirements").
		Preload("Criteria").
		First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Event{}, ErrEventNotFound
		}

		return Event{}, err
	}

	return event, nil
}

func (d *EventDAO) Create(ctx context.Context, event Event) (Event, error) {
	if err := d.db.WithContext(ctx).Create(&event).Error; err != nil {
		if isUniqueViolation(err) {
			return Event{}, ErrEventNameExists
		}

		return Event{}, err
	}

	return event, nil
}

// UpdateFields overwrites the parent's scalar and window fields.
// bannerURL follows the tri-state update: nil leaves the banner alone,
// an empty string clears it, anything else replaces it.
func (d *EventDAO) UpdateFields(ctx context.Context, event Event, bannerURL *string) (Event, error) {
	fields := map[string]interface{}{
		"name":                event.Name,
		"start_join_date":     event.StartJoinDate,
		"end_join_date":       event.EndJoinDate,
		"start_view":          event.StartView,
		"end_view":            event.EndView,
		"is_public":           event.IsPublic,
		"hide_participants":   event.HideParticipants,
		"has_committee":       event.HasCommittee,
		"virtual_reward_pool": event.VirtualRewardPool,
	}
	if bannerURL != nil {
		fields["banner_url"] = *bannerURL
	}

	result := d.db.WithContext(ctx).Model(&Event{}).Where("id = ?", event.ID).Updates(fields)
	if result.Error != nil {
		if isUniqueViolation(result.Error) {
			return Event{}, ErrEventNameExists
		}

		return Event{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Event{}, ErrEventNotFound
	}

	var updated Event
	if err := d.db.WithContext(ctx).First(&updated, "id = ?", event.ID).Error; err != nil {
		return Event{}, err
	}

	return updated, nil
}

func (d *EventDAO) Delete(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Select(clause.Associations).Delete(&Event{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

func (d *EventDAO) Publish(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Model(&Event{}).Where("id = ?", id).Update("status", "published")
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrEventNotFound
	}

	return nil
}

func (d *EventDAO) IsNameTaken(ctx context.Context, name, excludeEventID string) (bool, error) {
	query := d.db.WithContext(ctx).Model(&Event{}).Where("name = ?", name)
	if excludeEventID != "" {
		query = query.Where("id <> ?", excludeEventID)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}

	return count > 0, nil
}

func (d *EventDAO) CreateReward(ctx context.Context, reward SpecialReward) (SpecialReward, error) {
	reward.ID = ""
	if err := d.db.WithContext(ctx).Create(&reward).Error; err != nil {
		return SpecialReward{}, err
	}

	return reward, nil
}

func (d *EventDAO) UpdateReward(ctx context.Context, reward SpecialReward, imageURL *string) (SpecialReward, error) {
	fields := map[string]interface{}{
		"name":        reward.Name,
		"description": reward.Description,
	}
	if imageURL != nil {
		fields["image_url"] = *imageURL
	}

	result := d.db.WithContext(ctx).Model(&SpecialReward{}).
		Where("id = ? AND event_id = ?", reward.ID, reward.EventID).
		Updates(fields)
	if result.Error != nil {
		return SpecialReward{}, result.Error
	}
	if result.RowsAffected == 0 {
		return SpecialReward{}, ErrRewardNotFound
	}

	var updated SpecialReward
	if err := d.db.WithContext(ctx).First(&updated, "id = ?", reward.ID).Error; err != nil {
		return SpecialReward{}, err
	}

	return updated, nil
}

func (d *EventDAO) DeleteReward(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Delete(&SpecialReward{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRewardNotFound
	}

	return nil
}

func (d *EventDAO) CreateFileRequirement(ctx context.Context, req FileRequirement) (FileRequirement, error) {
	req.ID = ""
	if err := d.db.WithContext(ctx).Create(&req).Error; err != nil {
		return FileRequirement{}, err
	}

	return req, nil
}

func (d *EventDAO) UpdateFileRequirement(ctx context.Context, req FileRequirement) (FileRequirement, error) {
	result := d.db.WithContext(ctx).Model(&FileRequirement{}).
		Where("id = ? AND event_id = ?", req.ID, req.EventID).
		Updates(map[string]interface{}{
			"name":               req.Name,
			"description":        req.Description,
			"required":           req.Required,
			"allowed_extensions": req.AllowedExtensions,
		})
	if result.Error != nil {
		return FileRequirement{}, result.Error
	}
	if result.RowsAffected == 0 {
		return FileRequirement{}, ErrFileRequirementNotFound
	}

	return req, nil
}

func (d *EventDAO) DeleteFileRequirement(ctx context.Context, id string) error {
	result := d.db.WithContext(ctx).Delete(&FileRequirement{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrFileRequirementNotFound
	}

	return nil
}
