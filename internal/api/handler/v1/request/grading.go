package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type SubmitGradesRequest struct {
	// Scores maps criterion id to the awarded score. The set must cover every
	// criterion of the event; range checks happen against each criterion's
	// max score downstream.
	Scores map[string]float64 `json:"scores"`
}

func (req *SubmitGradesRequest) Validate() error {
	return validation.ValidateStruct(req,
		validation.Field(&req.Scores, validation.Required),
	)
}
