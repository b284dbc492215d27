package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vietanh2810/eventra-api/internal/api/handler/v1/request"
	"github.com/vietanh2810/eventra-api/internal/api/handler/v1/response"
	"github.com/vietanh2810/eventra-api/internal/domain"
	"github.com/vietanh2810/eventra-api/internal/service"
)

type GradingService interface {
	SubmitSheet(ctx context.Context, eventID, teamID, graderID string, scores map[string]float64) (service.SubmitResult, error)
	BeginEdit(ctx context.Context, eventID, teamID, graderID string, now time.Time) (domain.GradeSheet, error)
}

type GradingHandler struct {
	svc GradingService
}

func NewGradingHandler(svc GradingService) *GradingHandler {
	return &GradingHandler{
		svc: svc,
	}
}

// HandleSubmitGrades godoc
// @Summary      Submit a grade sheet
// @Description  Records the grader's scores for every criterion of the event and computes the weighted final score. Partial score sets are rejected.
// @Tags         grading
// @Accept       json
// @Produce      json
// @Param        eventID  path      string                       true  "Event ID"
// @Param        teamID   path      string                       true  "Team ID"
// @Param        request  body      request.SubmitGradesRequest  true  "request body"
// @Success      200  {object}  response.SubmitGradesResponse
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      409  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/teams/{teamID}/grades [post]
// @Security     BearerAuth
func (h *GradingHandler) HandleSubmitGrades(ctx *gin.Context) {
	graderID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID := ctx.Param("eventID")
	teamID := ctx.Param("teamID")

	var req request.SubmitGradesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	if err := req.Validate(); err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(err))
		return
	}

	result, err := h.svc.SubmitSheet(ctx.Request.Context(), eventID, teamID, graderID, req.Scores)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnscoredCriterion),
			errors.Is(err, domain.ErrUnknownCriterion),
			errors.Is(err, domain.ErrScoreOutOfRange),
			errors.Is(err, domain.ErrNoCriteria),
			errors.Is(err, domain.ErrZeroTotalWeight):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, domain.ErrAlreadySubmitted):
			response.RenderErr(ctx, response.ErrConflict(err))
		case errors.Is(err, service.ErrPartialSubmission):
			// Some writes landed; report them so the client can resubmit.
			ctx.JSON(http.StatusMultiStatus, response.SubmitGradesResponse{
				Message: service.ErrPartialSubmission.Error(),
				Result:  result,
			})
		default:
			err = fmt.Errorf("v1.HandleSubmitGrades -> h.svc.SubmitSheet -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, response.SubmitGradesResponse{
		Message: "grades submitted",
		Result:  result,
	})
}

// HandleBeginEdit godoc
// @Summary      Reopen a submitted grade sheet
// @Description  Puts the sheet back into editing, allowed only while the event's grading window is open
// @Tags         grading
// @Produce      json
// @Param        eventID  path      string  true  "Event ID"
// @Param        teamID   path      string  true  "Team ID"
// @Success      200  {object}  domain.GradeSheet
// @Failure      400  {object}  response.Err
// @Failure      401  {object}  response.Err
// @Failure      403  {object}  response.Err
// @Failure      404  {object}  response.Err
// @Failure      500  {object}  response.Err
// @Router       /events/{eventID}/teams/{teamID}/grades/edit [post]
// @Security     BearerAuth
func (h *GradingHandler) HandleBeginEdit(ctx *gin.Context) {
	graderID, respErr := getUserIDFromContext(ctx)
	if respErr != nil {
		response.RenderErr(ctx, respErr)
		return
	}

	eventID := ctx.Param("eventID")
	teamID := ctx.Param("teamID")

	sheet, err := h.svc.BeginEdit(ctx.Request.Context(), eventID, teamID, graderID, time.Now())
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEventNotFound):
			response.RenderErr(ctx, response.ErrNotFound("event", "ID", eventID))
		case errors.Is(err, domain.ErrNotSubmitted):
			response.RenderErr(ctx, response.ErrBadRequest(err))
		case errors.Is(err, domain.ErrGradingWindowClosed):
			response.RenderErr(ctx, response.ErrPermissionDenied(err))
		default:
			err = fmt.Errorf("v1.HandleBeginEdit -> h.svc.BeginEdit -> %w", err)
			response.RenderErr(ctx, response.ErrInternalServerError(err))
		}
		return
	}

	ctx.JSON(http.StatusOK, sheet)
}
