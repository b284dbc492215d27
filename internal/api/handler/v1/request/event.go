package request

import (
	"errors"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/vietanh2810/eventra-api/internal/domain"
)

// Event names must contain at least one letter and cannot begin or end with
// whitespace. regexp2 is used for the lookahead.
const eventNamePattern = `^(?=.*\p{L})\S.{0,98}\S$`

var (
	eventNameRegex = regexp2.MustCompile(eventNamePattern, regexp2.None)

	errInvalidEventName = errors.New("the name must be 2-100 characters, contain a letter and not start or end with whitespace")
	errInvalidImageOp   = errors.New("image op must be one of keep, replace, clear")
	errMissingImageURL  = errors.New("image url is required when op is replace")
)

func validEventName(value interface{}) error {
	name, _ := value.(string)

	ok, err := eventNameRegex.MatchString(name)
	if err != nil || !ok {
		return errInvalidEventName
	}

	return nil
}

// ImagePatchPayload is the wire form of the image tri-state. A nil payload
// means the image is untouched.
type ImagePatchPayload struct {
	Op  string `json:"op"` // keep, replace or clear
	URL string `json:"url,omitempty"`
}

func (p *ImagePatchPayload) Validate() error {
	if p == nil {
		return nil
	}

	err := validation.ValidateStruct(p,
		validation.Field(&p.Op, validation.Required, validation.In("keep", "replace", "clear").Error(errInvalidImageOp.Error())),
	)
	if err != nil {
		return err
	}

	if p.Op == "replace" && p.URL == "" {
		return errMissingImageURL
	}

	return nil
}

func (p *ImagePatchPayload) ToDomain() domain.ImagePatch {
	if p == nil {
		return domain.ImagePatch{Kind: domain.ImageUnchanged}
	}

	switch p.Op {
	case "replace":
		return domain.ImagePatch{Kind: domain.ImageReplace, URL: p.URL}
	case "clear":
		return domain.ImagePatch{Kind: domain.ImageClear}
	default:
		return domain.ImagePatch{Kind: domain.ImageUnchanged}
	}
}

type CreateEventRequest struct {
	Name     string `json:"name"`
	IsPublic bool   `json:"is_public"`
}

func (req *CreateEventRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.By(validEventName)),
	)
}

type RewardPayload struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Image       *ImagePatchPayload `json:"image,omitempty"`
}

func (p *RewardPayload) Validate() error {
	if err := p.Image.Validate(); err != nil {
		return err
	}

	return validation.ValidateStruct(p,
		validation.Field(&p.ID, validation.Required),
	)
}

func (p *RewardPayload) ToDomain() domain.SpecialReward {
	return domain.SpecialReward{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Image:       p.Image.ToDomain(),
	}
}

type FileRequirementPayload struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Required          bool     `json:"required"`
	AllowedExtensions []string `json:"allowed_extensions"`
}

func (p *FileRequirementPayload) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.ID, validation.Required),
	)
}

func (p *FileRequirementPayload) ToDomain() domain.FileRequirement {
	return domain.FileRequirement{
		ID:                p.ID,
		Name:              p.Name,
		Description:       p.Description,
		Required:          p.Required,
		AllowedExtensions: p.AllowedExtensions,
	}
}

type CriterionPayload struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Description      string  `json:"description"`
	MaxScore         float64 `json:"max_score"`
	WeightPercentage float64 `json:"weight_percentage"`
}

func (p *CriterionPayload) Validate() error {
	return validation.ValidateStruct(p,
		validation.Field(&p.ID, validation.Required),
	)
}

// ToDomain trims the name so the stored value matches what the length rule
// was checked against.
func (p *CriterionPayload) ToDomain() domain.GradingCriterion {
	return domain.GradingCriterion{
		ID:               p.ID,
		Name:             strings.TrimSpace(p.Name),
		Description:      p.Description,
		MaxScore:         p.MaxScore,
		WeightPercentage: p.WeightPercentage,
	}
}

// SaveEventRequest carries one editing session's full state. Entity-level
// validation of the sub-collections happens during reconciliation; here only
// the envelope is checked.
type SaveEventRequest struct {
	Name              string             `json:"name"`
	StartJoinDate     *time.Time         `json:"start_join_date"`
	EndJoinDate       *time.Time         `json:"end_join_date"`
	StartView         *time.Time         `json:"start_view"`
	EndView           *time.Time         `json:"end_view"`
	IsPublic          bool               `json:"is_public"`
	HideParticipants  bool               `json:"hide_participants"`
	HasCommittee      bool               `json:"has_committee"`
	VirtualRewardPool int                `json:"virtual_reward_pool"`
	Banner            *ImagePatchPayload `json:"banner,omitempty"`

	Rewards          []RewardPayload          `json:"rewards"`
	FileRequirements []FileRequirementPayload `json:"file_requirements"`
	Criteria         []CriterionPayload       `json:"criteria"`
}

func (req *SaveEventRequest) Validate() error {
	if err := req.Banner.Validate(); err != nil {
		return err
	}

	for i := range req.Rewards {
		if err := req.Rewards[i].Validate(); err != nil {
			return err
		}
	}
	for i := range req.FileRequirements {
		if err := req.FileRequirements[i].Validate(); err != nil {
			return err
		}
	}
	for i := range req.Criteria {
		if err := req.Criteria[i].Validate(); err != nil {
			return err
		}
	}

	return validation.ValidateStruct(req,
		validation.Field(&req.Name, validation.Required, validation.By(validEventName)),
		validation.Field(&req.VirtualRewardPool, validation.Min(0)),
	)
}
