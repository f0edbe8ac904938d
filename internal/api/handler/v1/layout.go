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

type LayoutService interface {
	Create(ctx context.Context, user domain.User, layout domain.Layout) (domain.Layout, error)
	List(ctx context.Context, user domain.User) ([]domain.Layout, error)
	ListByEvent(ctx context.Context, user domain.User, eventID uint) ([]domain.Layout, error)
	Get(ctx context.Context, user domain.User, id uint) (domain.Layout, error)
	Update(ctx context.Context, user domain.User, id uint, patch domain.LayoutPatch) (domain.Layout, error)
	Delete(ctx context.Context, user domain.User, id uint) error
	Export(ctx context.Context, user domain.User, id uint) (domain.LayoutExport, error)
}

type LayoutHandler struct {
	svc LayoutService
}

func NewLayoutHandler(svc LayoutService) *LayoutHandler {
	return &LayoutHandler{
		svc: svc,
	}
}

// HandleCreateLayout godoc
// @Summary      Create a layout under one of the caller's events
// @Tags         layouts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      request.CreateLayoutRequest  true  "request body"
// @Success      201      {object}  domain.Layout
// @Failure      400      {object}  response.Err
// @Failure      404      {object}  response.Err
// @Router       /layouts [post]
func (h *LayoutHandler) HandleCreateLayout(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req request.CreateLayoutRequest
	if !bindJSON(ctx, &req) {
		return
	}

	layout, err := h.svc.Create(ctx.Request.Context(), user, req.ToDomain())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleCreateLayout -> h.svc.Create", err)
		return
	}

	ctx.JSON(http.StatusCreated, layout)
}

// HandleListLayouts godoc
// @Summary      List layouts, optionally for one event
// @Tags         layouts
// @Produce      json
// @Security     BearerAuth
// @Param        event_id  query     int  false  "only layouts of this event"
// @Success      200       {array}   domain.Layout
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Router       /layouts [get]
func (h *LayoutHandler) HandleListLayouts(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	raw, filtered := ctx.GetQuery("event_id")
	if !filtered {
		layouts, err := h.svc.List(ctx.Request.Context(), user)
		if err != nil {
			renderServiceErr(ctx, "v1.HandleListLayouts -> h.svc.List", err)
			return
		}

		ctx.JSON(http.StatusOK, layouts)
		return
	}

	eventID, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || eventID == 0 {
		response.RenderErr(ctx, response.ErrBadRequest(errInvalidID))
		return
	}

	h.listByEvent(ctx, user, uint(eventID))
}

// HandleListEventLayouts godoc
// @Summary      List the layouts of one event
// @Tags         layouts
// @Produce      json
// @Security     BearerAuth
// @Param        eventID  path      int  true  "event id"
// @Success      200      {array}   domain.Layout
// @Failure      404      {object}  response.Err
// @Router       /layouts/event/{eventID} [get]
func (h *LayoutHandler) HandleListEventLayouts(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	eventID, ok := parseID(ctx, "eventID")
	if !ok {
		return
	}

	h.listByEvent(ctx, user, eventID)
}

func (h *LayoutHandler) listByEvent(ctx *gin.Context, user domain.User, eventID uint) {
	layouts, err := h.svc.ListByEvent(ctx.Request.Context(), user, eventID)
	if err != nil {
		renderServiceErr(ctx, "v1.listByEvent -> h.svc.ListByEvent", err)
		return
	}

	ctx.JSON(http.StatusOK, layouts)
}

// HandleGetLayout godoc
// @Summary      Get one layout
// @Tags         layouts
// @Produce      json
// @Security     BearerAuth
// @Param        layoutID  path      int  true  "layout id"
// @Success      200       {object}  domain.Layout
// @Failure      404       {object}  response.Err
// @Router       /layouts/{layoutID} [get]
func (h *LayoutHandler) HandleGetLayout(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "layoutID")
	if !ok {
		return
	}

	layout, err := h.svc.Get(ctx.Request.Context(), user, id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetLayout -> h.svc.Get", err)
		return
	}

	ctx.JSON(http.StatusOK, layout)
}

// HandleUpdateLayout godoc
// @Summary      Partially update a layout
// @Tags         layouts
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        layoutID  path      int                          true  "layout id"
// @Param        request   body      request.UpdateLayoutRequest  true  "request body"
// @Success      200       {object}  domain.Layout
// @Failure      400       {object}  response.Err
// @Failure      404       {object}  response.Err
// @Router       /layouts/{layoutID} [put]
func (h *LayoutHandler) HandleUpdateLayout(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "layoutID")
	if !ok {
		return
	}

	var req request.UpdateLayoutRequest
	if !bindJSON(ctx, &req) {
		return
	}

	layout, err := h.svc.Update(ctx.Request.Context(), user, id, req.ToPatch())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateLayout -> h.svc.Update", err)
		return
	}

	ctx.JSON(http.StatusOK, layout)
}

// HandleDeleteLayout godoc
// @Summary      Delete a layout
// @Tags         layouts
// @Security     BearerAuth
// @Param        layoutID  path  int  true  "layout id"
// @Success      204
// @Failure      404  {object}  response.Err
// @Router       /layouts/{layoutID} [delete]
func (h *LayoutHandler) HandleDeleteLayout(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "layoutID")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), user, id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteLayout -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}

// HandleExportLayout godoc
// @Summary      Export a layout with its event title and date
// @Tags         layouts
// @Produce      json
// @Security     BearerAuth
// @Param        layoutID  path      int  true  "layout id"
// @Success      200       {object}  domain.LayoutExport
// @Failure      404       {object}  response.Err
// @Router       /layouts/{layoutID}/export [get]
func (h *LayoutHandler) HandleExportLayout(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "layoutID")
	if !ok {
		return
	}

	export, err := h.svc.Export(ctx.Request.Context(), user, id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleExportLayout -> h.svc.Export", err)
		return
	}

	ctx.JSON(http.StatusOK, export)
}
