package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/eventra-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/eventra-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/eventra-api/internal/domain"
	"github.com/vietanh2810/eventra-api/internal/service"
)

type ParticipantService interface {
	UpdateParticipant(ctx context.Context, eventID, actorUserID, participantID string, upd service.ParticipantUpdate) (domain.Participant, error)
	RemoveParticipant(ctx context.Context, eventID, actorUserID, participantID string) error
}

type ParticipantHandler struct {
	svc ParticipantService
}

func NewParticipantHandler(svc ParticipantService) *ParticipantHandler {
	return &ParticipantHandler{
		svc: svc,
	}
}

// HandleUpdateParticipant godoc
// @Summary      Update a participant
// @Description  Applies role, leader flag, virtual reward or team changes, each gated by the organizer permission rules
// @Tags         participants
// @Accept       json
// @Produce      json
// @Param        eventID        path      string                            true  "Event ID"
// @Param        participantID  path      string                            true  "Participant ID"
// @Param        request        body      request.UpdateParticipantRequest  true  "request body"
// @Success      200  {object}  domain.Participant
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/participants/{participantID} [patch]
// @Security     BearerAuth
func (h *ParticipantHandler) HandleUpdateParticipant(ctx *gin.Context) {
	actorUserID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID := ctx.Param("eventID")
	participantID := ctx.Param("participantID")

	var req request.UpdateParticipantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	upd := service.ParticipantUpdate{
		IsLeader:      req.IsLeader,
		VirtualReward: req.VirtualReward,
		TeamID:        req.TeamID,
		ClearTeam:     req.ClearTeam,
	}
	if req.EventGroup != nil {
		group := domain.EventGroup(*req.EventGroup)
		upd.EventGroup = &group
	}

	updated, err := h.svc.UpdateParticipant(ctx.Request.Context(), eventID, actorUserID, participantID, upd)
	if err != nil {
		renderParticipantErr(ctx, participantID, err)
		return
	}

	ctx.JSON(http.StatusOK, updated)
}

// HandleRemoveParticipant godoc
// @Summary      Remove a participant
// @Description  Removes a participant from the event, gated by the organizer permission rules
// @Tags         participants
// @Produce      json
// @Param        eventID        path      string  true  "Event ID"
// @Param        participantID  path      string  true  "Participant ID"
// @Success      200
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/participants/{participantID} [delete]
// @Security     BearerAuth
func (h *ParticipantHandler) HandleRemoveParticipant(ctx *gin.Context) {
	actorUserID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID := ctx.Param("eventID")
	participantID := ctx.Param("participantID")

	if err := h.svc.RemoveParticipant(ctx.Request.Context(), eventID, actorUserID, participantID); err != nil {
		renderParticipantErr(ctx, participantID, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "participant removed"})
}

func renderParticipantErr(ctx *gin.Context, participantID string, err error) {
	var pErr *service.PermissionError

	switch {
	case errors.Is(err, service.ErrParticipantNotFound):
		response.RenderErr(ctx, response.ErrNotFound("participant", "ID", participantID))
	case errors.Is(err, service.ErrTeamNotFound):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	case errors.As(err, &pErr):
		response.RenderErr(ctx, response.ErrPermissionDenied(pErr))
	default:
		err = fmt.Errorf("v1.renderParticipantErr -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}
