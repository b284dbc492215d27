package response

import "github.com/vietanh2810/eventra-api/internal/service"

type NameAvailabilityResponse struct {
	Name      string `json:"name"`
	Available bool   `json:"available"`
}

type SaveEventResponse struct {
	Message string             `json:"message"`
	Result  service.SaveResult `json:"result"`
}

type SubmitGradesResponse struct {
	Message string               `json:"message"`
	Result  service.SubmitResult `json:"result"`
}
