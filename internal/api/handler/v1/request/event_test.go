package request

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/vietanh2810/eventra-api/internal/domain"
)

func TestSaveEventRequest_Validate_Name(t *testing.T) {
	tests := []struct {
		name      string
		eventName string
		wantErr   bool
	}{
		{"plain name", "Demo Day", false},
		{"accented letters", "Kermesse de l'école", false},
		{"single character", "X", true},
		{"digits only", "2026", true},
		{"leading whitespace", " Demo Day", true},
		{"trailing whitespace", "Demo Day ", true},
		{"empty", "", true},
		{"two characters with letter", "A1", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := SaveEventRequest{Name: tt.eventName}

			err := req.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestSaveEventRequest_Validate_CollectionEnvelope(t *testing.T) {
	req := SaveEventRequest{
		Name: "Demo Day",
		Rewards: []RewardPayload{
			{ID: "", Name: "missing id"},
		},
	}

	assert.Error(t, req.Validate())

	req.Rewards[0].ID = "local-1"
	assert.NoError(t, req.Validate())
}

func TestCriterionPayload_ToDomain_TrimsName(t *testing.T) {
	payload := CriterionPayload{ID: "local-1", Name: "  Clarity ", MaxScore: 10}

	criterion := payload.ToDomain()
	assert.Equal(t, "Clarity", criterion.Name, "stored name carries no edge whitespace")
	assert.NoError(t, criterion.Validate())
}

func TestImagePatchPayload_ToDomain(t *testing.T) {
	var absent *ImagePatchPayload
	assert.Equal(t, domain.ImageUnchanged, absent.ToDomain().Kind)
	assert.NoError(t, absent.Validate())

	replace := &ImagePatchPayload{Op: "replace", URL: "https://cdn.example.com/banner.png"}
	patch := replace.ToDomain()
	assert.Equal(t, domain.ImageReplace, patch.Kind)
	assert.Equal(t, "https://cdn.example.com/banner.png", patch.URL)

	cleared := &ImagePatchPayload{Op: "clear"}
	assert.Equal(t, domain.ImageClear, cleared.ToDomain().Kind)

	assert.Error(t, (&ImagePatchPayload{Op: "replace"}).Validate(), "replace requires a url")
	assert.Error(t, (&ImagePatchPayload{Op: "delete"}).Validate())
}
