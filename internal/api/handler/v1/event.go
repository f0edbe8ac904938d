package v1

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/hostbuddy/api/internal/api/handler/v1/request"
	"github.com/hostbuddy/api/internal/api/handler/v1/response"
	"github.com/hostbuddy/api/internal/domain"
)

type EventService interface {
	Create(ctx context.Context, user domain.User, event domain.Event) (domain.Event, error)
	List(ctx context.Context, user domain.User) ([]domain.Event, error)
	Get(ctx context.Context, user domain.User, id uint) (domain.Event, error)
	Update(ctx context.Context, user domain.User, id uint, patch domain.EventPatch) (domain.Event, error)
	Delete(ctx context.Context, user domain.User, id uint) error
	AddImage(ctx context.Context, user domain.User, id uint, imageURL string) (domain.Event, error)
	RemoveImage(ctx context.Context, user domain.User, id uint, index int) (domain.Event, error)
}

type EventHandler struct {
	svc EventService
}

func NewEventHandler(svc EventService) *EventHandler {
	return &EventHandler{
		svc: svc,
	}
}

// HandleCreateEvent godoc
// @Summary      Create an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      request.CreateEventRequest  true  "request body"
// @Success      201      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      401      {object}  response.Err
// @Router       /events [post]
func (h *EventHandler) HandleCreateEvent(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req request.CreateEventRequest
	if !bindJSON(ctx, &req) {
		return
	}

	event, err := h.svc.Create(ctx.Request.Context(), user, req.ToDomain())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateEvent -> h.svc.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, event)
}

// HandleListEvents godoc
// @Summary      List the caller's events
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Event
// @Failure      401  {object}  response.Err
// @Router       /events [get]
func (h *EventHandler) HandleListEvents(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	events, err := h.svc.List(ctx.Request.Context(), user)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListEvents -> h.svc.List", err)
		return
	}

	ctx.JSON(http.StatusOK, events)
}

// HandleGetEvent godoc
// @Summary      Get one event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        eventID  path      int  true  "event id"
// @Success      200      {object}  domain.Event
// @Failure      404      {object}  response.Err
// @Router       /events/{eventID} [get]
func (h *EventHandler) HandleGetEvent(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "eventID")
	if !ok {
		return
	}

	event, err := h.svc.Get(ctx.Request.Context(), user, id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetEvent -> h.svc.Get", err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleUpdateEvent godoc
// @Summary      Partially update an event
// @Description  Only fields present in the body are applied; an explicit null clears a field.
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        eventID  path      int                         true  "event id"
// @Param        request  body      request.UpdateEventRequest  true  "request body"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /events/{eventID} [put]
func (h *EventHandler) HandleUpdateEvent(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "eventID")
	if !ok {
		return
	}

	var req request.UpdateEventRequest
	if !bindJSON(ctx, &req) {
		return
	}

	event, err := h.svc.Update(ctx.Request.Context(), user, id, req.ToPatch())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateEvent -> h.svc.Update", err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleDeleteEvent godoc
// @Summary      Delete an event and its layouts
// @Tags         events
// @Security     BearerAuth
// @Param        eventID  path  int  true  "event id"
// @Success      204
// @Failure      404  {object}  response.Err
// @Router       /events/{eventID} [delete]
func (h *EventHandler) HandleDeleteEvent(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "eventID")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), user, id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteEvent -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleAddImage godoc
// @Summary      Append an image URL to an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        eventID  path      int                      true  "event id"
// @Param        request  body      request.AddImageRequest  true  "request body"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /events/{eventID}/images [post]
func (h *EventHandler) HandleAddImage(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "eventID")
	if !ok {
		return
	}

	var req request.AddImageRequest
	if !bindJSON(ctx, &req) {
		return
	}

	event, err := h.svc.AddImage(ctx.Request.Context(), user, id, req.ImageURL)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleAddImage -> h.svc.AddImage", err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}

// HandleRemoveImage godoc
// @Summary      Remove the image at index from an event
// @Tags         events
// @Produce      json
// @Security     BearerAuth
// @Param        eventID  path      int  true  "event id"
// @Param        index    path      int  true  "zero-based image index"
// @Success      200      {object}  domain.Event
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /events/{eventID}/images/{index} [delete]
func (h *EventHandler) HandleRemoveImage(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "eventID")
	if !ok {
		return
	}

	index, err := strconv.Atoi(ctx.Param("index"))
	if err != nil {
		response.RenderErr(ctx, response.ErrBadRequest(errInvalidImageIndex))
		return
	}

	event, err := h.svc.RemoveImage(ctx.Request.Context(), user, id, index)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleRemoveImage -> h.svc.RemoveImage", err)
		return
	}

	ctx.JSON(http.StatusOK, event)
}
