package dao

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParticipantDAO(t *testing.T) {
	db := openTestDB(t)
	d := NewParticipantDAO(db)
	ctx := context.Background()

	team := Team{EventID: "evt-1", Name: "Blue"}
	require.NoError(t, db.Create(&team).Error)

	participant := Participant{EventID: "evt-1", UserID: "u-1", EventGroup: "GUEST"}
	require.NoError(t, db.Create(&participant).Error)

	t.Run("assign to existing team", func(t *testing.T) {
		p := participant
		p.TeamID = &team.ID

		updated, err := d.Update(ctx, p)
		require.NoError(t, err)
		require.NotNil(t, updated.TeamID)
		assert.Equal(t, team.ID, *updated.TeamID)
	})

	t.Run("assign to unknown team", func(t *testing.T) {
		ghost := "no-such-team"
		p := participant
		p.TeamID = &ghost

		_, err := d.Update(ctx, p)
		assert.ErrorIs(t, err, ErrTeamNotFound)
	})

	t.Run("team belongs to another event", func(t *testing.T) {
		other := Team{EventID: "evt-2", Name: "Red"}
		require.NoError(t, db.Create(&other).Error)

		p := participant
		p.TeamID = &other.ID

		_, err := d.Update(ctx, p)
		assert.ErrorIs(t, err, ErrTeamNotFound)
	})

	t.Run("clear team", func(t *testing.T) {
		p := participant
		p.TeamID = nil

		updated, err := d.Update(ctx, p)
		require.NoError(t, err)
		assert.Nil(t, updated.TeamID)

		var stored Participant
		require.NoError(t, db.First(&stored, "id = ?", p.ID).Error)
		assert.Nil(t, stored.TeamID)
	})

	t.Run("missing participant", func(t *testing.T) {
		_, err := d.Update(ctx, Participant{ID: "nope", EventID: "evt-1", EventGroup: "GUEST"})
		assert.ErrorIs(t, err, ErrParticipantNotFound)
	})
}
