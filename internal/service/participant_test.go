package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/eventra-api/internal/domain"
)

type mockParticipantRepo struct {
	participants map[string]domain.Participant // keyed by participant id
	teams        map[string]struct{}
	deleted      []string
	updated      *domain.Participant
}

func (m *mockParticipantRepo) GetByID(_ context.Context, _, participantID string) (domain.Participant, error) {
	p, ok := m.participants[participantID]
	if !ok {
		return domain.Participant{}, ErrParticipantNotFound
	}

	return p, nil
}

func (m *mockParticipantRepo) FindByUserID(_ context.Context, _, userID string) (domain.Participant, error) {
	for _, p := range m.participants {
		if p.UserID == userID {
			return p, nil
		}
	}

	return domain.Participant{}, ErrParticipantNotFound
}

func (m *mockParticipantRepo) Update(_ context.Context, participant domain.Participant) (domain.Participant, error) {
	if participant.TeamID != nil {
		if _, ok := m.teams[*participant.TeamID]; !ok {
			return domain.Participant{}, ErrTeamNotFound
		}
	}

	m.updated = &participant
	return participant, nil
}

func (m *mockParticipantRepo) Delete(_ context.Context, _, participantID string) error {
	m.deleted = append(m.deleted, participantID)
	return nil
}

func newParticipantFixture() *mockParticipantRepo {
	return &mockParticipantRepo{
		participants: map[string]domain.Participant{
			"p-lead": {ID: "p-lead", UserID: "u-lead", EventGroup: domain.GroupOrganizer, IsLeader: true},
			"p-org":  {ID: "p-org", UserID: "u-org", EventGroup: domain.GroupOrganizer},
			"p-com":  {ID: "p-com", UserID: "u-com", EventGroup: domain.GroupCommittee},
			"p-gst":  {ID: "p-gst", UserID: "u-gst", EventGroup: domain.GroupGuest},
		},
		teams: map[string]struct{}{"team-1": {}},
	}
}

func groupPtr(g domain.EventGroup) *domain.EventGroup { return &g }

func boolPtr(b bool) *bool { return &b }

func intPtr(n int) *int { return &n }

func TestParticipantService_UpdateParticipant(t *testing.T) {
	repo := newParticipantFixture()
	svc := NewParticipantService(repo)

	updated, err := svc.UpdateParticipant(context.Background(), "evt-1", "u-org", "p-gst", ParticipantUpdate{
		EventGroup:    groupPtr(domain.GroupCommittee),
		VirtualReward: intPtr(50),
	})
	require.NoError(t, err)

	assert.Equal(t, domain.GroupCommittee, updated.EventGroup)
	assert.Equal(t, 50, updated.VirtualReward)
	require.NotNil(t, repo.updated)
}

func TestParticipantService_UpdateParticipant_Denied(t *testing.T) {
	tests := []struct {
		name       string
		actorUser  string
		target     string
		upd        ParticipantUpdate
		wantReason domain.DecisionReason
	}{
		{
			name:       "organizer cannot change own role",
			actorUser:  "u-org",
			target:     "p-org",
			upd:        ParticipantUpdate{EventGroup: groupPtr(domain.GroupGuest)},
			wantReason: domain.ReasonSelfAction,
		},
		{
			name:       "organizer role is immutable even for the leader",
			actorUser:  "u-lead",
			target:     "p-org",
			upd:        ParticipantUpdate{EventGroup: groupPtr(domain.GroupCommittee)},
			wantReason: domain.ReasonImmutableRole,
		},
		{
			name:       "non-leader cannot toggle another organizer's leader flag",
			actorUser:  "u-org",
			target:     "p-lead",
			upd:        ParticipantUpdate{IsLeader: boolPtr(false)},
			wantReason: domain.ReasonInsufficientPrivilege,
		},
		{
			name:       "non-leader cannot promote to organizer",
			actorUser:  "u-org",
			target:     "p-com",
			upd:        ParticipantUpdate{EventGroup: groupPtr(domain.GroupOrganizer)},
			wantReason: domain.ReasonInsufficientPrivilege,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newParticipantFixture()
			svc := NewParticipantService(repo)

			_, err := svc.UpdateParticipant(context.Background(), "evt-1", tt.actorUser, tt.target, tt.upd)

			var pErr *PermissionError
			require.ErrorAs(t, err, &pErr)
			assert.Equal(t, tt.wantReason, pErr.Reason)
			assert.Nil(t, repo.updated, "denied actions must not write")
		})
	}
}

func TestParticipantService_UpdateParticipant_LeaderPromotes(t *testing.T) {
	repo := newParticipantFixture()
	svc := NewParticipantService(repo)

	updated, err := svc.UpdateParticipant(context.Background(), "evt-1", "u-lead", "p-com", ParticipantUpdate{
		EventGroup: groupPtr(domain.GroupOrganizer),
	})
	require.NoError(t, err)
	assert.Equal(t, domain.GroupOrganizer, updated.EventGroup)
}

func TestParticipantService_UpdateParticipant_ClearTeam(t *testing.T) {
	repo := newParticipantFixture()
	teamID := "team-1"
	p := repo.participants["p-gst"]
	p.TeamID = &teamID
	repo.participants["p-gst"] = p

	svc := NewParticipantService(repo)

	updated, err := svc.UpdateParticipant(context.Background(), "evt-1", "u-org", "p-gst", ParticipantUpdate{
		ClearTeam: true,
	})
	require.NoError(t, err)
	assert.Nil(t, updated.TeamID)
}

func TestParticipantService_UpdateParticipant_AssignTeam(t *testing.T) {
	repo := newParticipantFixture()
	svc := NewParticipantService(repo)

	teamID := "team-1"
	updated, err := svc.UpdateParticipant(context.Background(), "evt-1", "u-org", "p-gst", ParticipantUpdate{
		TeamID: &teamID,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.TeamID)
	assert.Equal(t, teamID, *updated.TeamID)

	ghost := "no-such-team"
	_, err = svc.UpdateParticipant(context.Background(), "evt-1", "u-org", "p-gst", ParticipantUpdate{
		TeamID: &ghost,
	})
	assert.ErrorIs(t, err, ErrTeamNotFound, "unknown team surfaces the store sentinel")
}

func TestParticipantService_RemoveParticipant(t *testing.T) {
	repo := newParticipantFixture()
	svc := NewParticipantService(repo)

	err := svc.RemoveParticipant(context.Background(), "evt-1", "u-org", "p-gst")
	require.NoError(t, err)
	assert.Equal(t, []string{"p-gst"}, repo.deleted)
}

func TestParticipantService_RemoveParticipant_Self(t *testing.T) {
	repo := newParticipantFixture()
	svc := NewParticipantService(repo)

	err := svc.RemoveParticipant(context.Background(), "evt-1", "u-gst", "p-gst")

	var pErr *PermissionError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, domain.ReasonSelfAction, pErr.Reason)
	assert.Empty(t, repo.deleted)
}

func TestParticipantService_RemoveParticipant_OrganizerTarget(t *testing.T) {
	repo := newParticipantFixture()
	svc := NewParticipantService(repo)

	// A plain organizer cannot remove a fellow organizer.
	err := svc.RemoveParticipant(context.Background(), "evt-1", "u-org", "p-lead")

	var pErr *PermissionError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, domain.ReasonInsufficientPrivilege, pErr.Reason)

	// The organizer leader can.
	err = svc.RemoveParticipant(context.Background(), "evt-1", "u-lead", "p-org")
	assert.NoError(t, err)
}
