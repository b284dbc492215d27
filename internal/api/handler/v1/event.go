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

type EventService interface {
	GetEvent(ctx context.Context, id string) (domain.Event, error)
	CreateEvent(ctx context.Context, event domain.Event) (domain.Event, error)
	DeleteEvent(ctx context.Context, id string) error
	CheckEventName(ctx context.Context, name string) (bool, error)
	SaveDraft(ctx context.Context, eventID string, in service.DraftSave) (service.SaveResult, error)
	Publish(ctx context.Context, eventID string, in service.DraftSave) (service.SaveResult, error)
}

type EventHandler struct {
	svc EventService
}

func NewEventHandler(svc EventService) *EventHandler {
	return &EventHandler{
		svc: svc,
	}
}

// HandleGetEvent godoc
// @Summary      Get an event
// @Description  Retrieves an event with its participants, teams, rewards, file requirements and grading criteria
// @Tags         events
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      200  {object}  domain.Event
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID} [get]
// @Security     BearerAuth
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	eventID := ctx.Param("eventID")

	event, err := h.svc.GetEvent(ctx.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleGetEvent -> h.svc.GetEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleCreateEvent godoc
// @Summary      Create a draft event
// @Description  Creates a new event in the draft state
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        request  body      request.CreateEventRequest  true  "request body"
// @Success      201  {object}  domain.Event
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events [post]
// @Security     BearerAuth
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	var req request.CreateEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	created, err := h.svc.CreateEvent(ctx.Request.Context(), domain.Event{
		Name:     req.Name,
		IsPublic: req.IsPublic,
	})
	if err != nil {
		if errors.Is(err, service.ErrEventNameExists) {
			response.RenderErr(ctx, response.ErrConflict(service.ErrEventNameExists))
			return
		}

		err = fmt.Errorf("v1.HandleCreateEvent -> h.svc.CreateEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusCreated, created)
}

// HandleSaveDraft godoc
// @Summary      Save an event draft
// @Description  Persists the editing session's state: scalar fields, banner patch and the reward, file requirement and criterion collections
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                    true  "Event ID"
// @Param        request  body      request.SaveEventRequest  true  "request body"
// @Success      200  {object}  response.SaveEventResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/draft [post]
// @Security     BearerAuth
func (h *EventHandler) HandleSaveDraft(ctx *gin.Context) {
	h.handleSave(ctx, h.svc.SaveDraft, "draft saved")
}

// HandlePublish godoc
// @Summary      Publish an event
// @Description  Runs the draft save flow, enforces window ordering and transitions the event to published
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                    true  "Event ID"
// @Param        request  body      request.SaveEventRequest  true  "request body"
// @Success      200  {object}  response.SaveEventResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/publish [post]
// @Security     BearerAuth
func (h *EventHandler) HandlePublish(ctx *gin.Context) {
	h.handleSave(ctx, h.svc.Publish, "event published")
}

func (h *EventHandler) handleSave(ctx *gin.Context, save func(context.Context, string, service.DraftSave) (service.SaveResult, error), message string) {
	eventID := ctx.Param("eventID")

	var req request.SaveEventRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := save(ctx.Request.Context(), eventID, toDraftSave(req))
	if err != nil {
		renderSaveErr(ctx, eventID, err)
		return
	}

	ctx.JSON(http.StatusOK, response.SaveEventResponse{
		Message: message,
		Result:  result,
	})
}

func renderSaveErr(ctx *gin.Context, eventID string, err error) {
	var vErr *service.ValidationError

	switch {
	case errors.Is(err, service.ErrEventNotFound):
		response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
	case errors.Is(err, service.ErrEventNameExists):
		response.RenderErr(ctx, response.ErrConflict(service.ErrEventNameExists))
	case errors.Is(err, service.ErrSaveInFlight):
		response.RenderErr(ctx, response.ErrConflict(service.ErrSaveInFlight))
	case errors.As(err, &vErr):
		response.RenderErr(ctx, response.ErrBadRequest(vErr))
	case errors.Is(err, domain.ErrJoinWindowInverted),
		errors.Is(err, domain.ErrViewWindowInverted),
		errors.Is(err, domain.ErrJoinAfterView):
		response.RenderErr(ctx, response.ErrBadRequest(err))
	default:
		err = fmt.Errorf("v1.handleSave -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
	}
}

func toDraftSave(req request.SaveEventRequest) service.DraftSave {
	in := service.DraftSave{
		Name:              req.Name,
		StartJoinDate:     req.StartJoinDate,
		EndJoinDate:       req.EndJoinDate,
		StartView:         req.StartView,
		EndView:           req.EndView,
		IsPublic:          req.IsPublic,
		HideParticipants:  req.HideParticipants,
		HasCommittee:      req.HasCommittee,
		VirtualRewardPool: req.VirtualRewardPool,
		Banner:            req.Banner.ToDomain(),
	}

	for _, p := range req.Rewards {
		in.Rewards = append(in.Rewards, p.ToDomain())
	}
	for _, p := range req.FileRequirements {
		in.FileRequirements = append(in.FileRequirements, p.ToDomain())
	}
	for _, p := range req.Criteria {
		in.Criteria = append(in.Criteria, p.ToDomain())
	}

	return in
}

// HandleDeleteEvent godoc
// @Summary      Delete an event
// @Tags         events
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Success      200
// @Failure      401  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID} [delete]
// @Security     BearerAuth
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	eventID := ctx.Param("eventID")

	if err := h.svc.DeleteEvent(ctx.Request.Context(), eventID); err != nil {
		if errors.Is(err, service.ErrEventNotFound) {
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
			return
		}

		err = fmt.Errorf("v1.HandleDeleteEvent -> h.svc.DeleteEvent -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "event deleted"})
}

// HandleCheckEventName godoc
// @Summary      Check event name availability
// @Tags         events
// @Produce      json
// @Param        name  query     string  true  "Event name"
// @Success      200  {object}  response.NameAvailabilityResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/name-availability [get]
// @Security     BearerAuth
func (h *EventHandler) HandleCheckEventName(ctx *gin.Context) {
	name := ctx.Query("name")
	if name == "" {
		response.RenderErr(ctx, response.ErrBadRequest(errors.New("name query parameter is required")))
		return
	}

	available, err := h.svc.CheckEventName(ctx.Request.Context(), name)
	if err != nil {
		err = fmt.Errorf("v1.HandleCheckEventName -> h.svc.CheckEventName -> %w", err)
		response.RenderErr(ctx, response.ErrInternalServerError(err))
		return
	}

	ctx.JSON(http.StatusOK, response.NameAvailabilityResponse{
		Name:      name,
		Available: available,
	})
}
