package dao

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrParticipantNotFound = errors.New("participant not found")
	ErrTeamNotFound        = errors.New("team not found")
)

type Participant struct {
	ID            string `gorm:"primaryKey"`
	EventID       string `gorm:"index;not null"`
	UserID        string `gorm:"index;not null"`
	EventGroup    string `gorm:"not null"`
	IsLeader      bool
	TeamID        *string
	VirtualReward int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (p *Participant) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	return nil
}

type Team struct {
	ID        string        `gorm:"primaryKey"`
	EventID   string        `gorm:"index;not null"`
	Name      string        `gorm:"not null"`
	Members   []Participant `gorm:"foreignKey:TeamID"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *Team) BeforeCreate(_ *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	return nil
}

type ParticipantDAO struct {
	db *gorm.DB
}

func NewParticipantDAO(db *gorm.DB) *ParticipantDAO {
	return &ParticipantDAO{
		db: db,
	}
}

func (d *ParticipantDAO) GetByID(ctx context.Context, eventID, id string) (Participant, error) {
	var participant Participant
	err := d.db.WithContext(ctx).
		First(&participant, "id = ? AND event_id = ?", id, eventID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Participant{}, ErrParticipantNotFound
		}

		return Participant{}, err
	}

	return participant, nil
}

func (d *ParticipantDAO) FindByUserID(ctx context.Context, eventID, userID string) (Participant, error) {
	var participant Participant
	err := d.db.WithContext(ctx).
		First(&participant, "user_id = ? AND event_id = ?", userID, eventID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return Participant{}, ErrParticipantNotFound
		}

		return Participant{}, err
	}

	return participant, nil
}

func (d *ParticipantDAO) Update(ctx context.Context, participant Participant) (Participant, error) {
	if participant.TeamID != nil {
		var teams int64
		err := d.db.WithContext(ctx).Model(&Team{}).
			Where("id = ? AND event_id = ?", *participant.TeamID, participant.EventID).
			Count(&teams).Error
		if err != nil {
			return Participant{}, err
		}
		if teams == 0 {
			return Participant{}, ErrTeamNotFound
		}
	}

	result := d.db.WithContext(ctx).Model(&Participant{}).
		Where("id = ? AND event_id = ?", participant.ID, participant.EventID).
		Updates(map[string]interface{}{
			"event_group":    participant.EventGroup,
			"is_leader":      participant.IsLeader,
			"team_id":        participant.TeamID,
			"virtual_reward": participant.VirtualReward,
		})
	if result.Error != nil {
		return Participant{}, result.Error
	}
	if result.RowsAffected == 0 {
		return Participant{}, ErrParticipantNotFound
	}

	return participant, nil
}

func (d *ParticipantDAO) Delete(ctx context.Context, eventID, id string) error {
	result := d.db.WithContext(ctx).Where("event_id = ?", eventID).Delete(&Participant{ID: id})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrParticipantNotFound
	}

	return nil
}
