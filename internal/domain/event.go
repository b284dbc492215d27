package domain

import (
	"errors"
	"time"
)

type EventStatus string

const (
	EventDraft     EventStatus = "draft"
	EventPublished EventStatus = "published"
)

// TemporalStatus is the externally visible lifecycle phase of an event,
// derived from its status field and the configured time windows.
type TemporalStatus string

const (
	StatusDraft           TemporalStatus = "draft"
	StatusFinished        TemporalStatus = "finished"
	StatusViewOpen        TemporalStatus = "viewOpen"
	StatusViewSoon        TemporalStatus = "viewSoon"
	StatusAccepting       TemporalStatus = "accepting"
	StatusUpcomingRecruit TemporalStatus = "upcomingRecruit"
)

type Event struct {
	ID                string             `json:"id"`
	Name              string             `json:"name"`
	Status            EventStatus        `json:"status"`
	StartJoinDate     *time.Time         `json:"start_join_date,omitempty"`
	EndJoinDate       *time.Time         `json:"end_join_date,omitempty"`
	StartView         *time.Time         `json:"start_view,omitempty"`
	EndView           *time.Time         `json:"end_view,omitempty"`
	IsPublic          bool               `json:"is_public"`
	HideParticipants  bool               `json:"hide_participants"`
	HasCommittee      bool               `json:"has_committee"`
	VirtualRewardPool int                `json:"virtual_reward_pool"`
	BannerURL         string             `json:"banner_url,omitempty"`
	Participants      []Participant      `json:"participants,omitempty"`
	Teams             []Team             `json:"teams,omitempty"`
	Rewards           []SpecialReward    `json:"rewards,omitempty"`
	Criteria          []GradingCriterion `json:"criteria,omitempty"`
	FileRequirements  []FileRequirement  `json:"file_requirements,omitempty"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// TemporalStatus resolves the lifecycle phase for the given instant.
// Total over every combination of present/absent windows; first match wins.
//
// Known quirk: an event with no window data at all resolves to viewOpen,
// so an event that never configured a view window looks permanently live.
func (e Event) TemporalStatus(now time.Time) TemporalStatus {
	if e.Status == EventDraft {
		return StatusDraft
	}

	if e.EndView != nil && now.After(*e.EndView) {
		return StatusFinished
	}

	if e.StartView != nil && !now.Before(*e.StartView) {
		return StatusViewOpen
	}

	if e.EndJoinDate != nil && now.After(*e.EndJoinDate) &&
		e.StartView != nil && now.Before(*e.StartView) {
		return StatusViewSoon
	}

	if e.StartJoinDate != nil && e.EndJoinDate != nil &&
		!now.Before(*e.StartJoinDate) && !now.After(*e.EndJoinDate) {
		return StatusAccepting
	}

	if e.StartJoinDate != nil && now.Before(*e.StartJoinDate) {
		return StatusUpcomingRecruit
	}

	return StatusViewOpen
}

// GradingWindowOpen reports whether grade editing is currently allowed:
// grading happens while team submissions are on view.
func (e Event) GradingWindowOpen(now time.Time) bool {
	return e.TemporalStatus(now) == StatusViewOpen
}

var (
	ErrJoinWindowInverted = errors.New("recruitment start must precede recruitment end")
	ErrViewWindowInverted = errors.New("view start must precede view end")
	ErrJoinAfterView      = errors.New("recruitment window must fully precede view window")
)

// ValidatePublishWindows enforces the ordering constraints required to
// publish: start before end within each window, and the recruitment window
// fully before the view window. A plain draft save skips these checks.
func (e Event) ValidatePublishWindows() error {
	if e.StartJoinDate != nil && e.EndJoinDate != nil && e.EndJoinDate.Before(*e.StartJoinDate) {
		return ErrJoinWindowInverted
	}

	if e.StartView != nil && e.EndView != nil && e.EndView.Before(*e.StartView) {
		return ErrViewWindowInverted
	}

	if e.EndJoinDate != nil && e.StartView != nil && e.StartView.Before(*e.EndJoinDate) {
		return ErrJoinAfterView
	}

	return nil
}
