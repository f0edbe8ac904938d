package v1

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostbuddy/api/internal/api/handler/v1/request"
	"github.com/hostbuddy/api/internal/api/handler/v1/response"
	"github.com/hostbuddy/api/internal/domain"
)

type ElementService interface {
	Create(ctx context.Context, user domain.User, element domain.CustomElement) (domain.CustomElement, error)
	CreateGroup(ctx context.Context, user domain.User, element domain.CustomElement) (domain.CustomElement, error)
	List(ctx context.Context, user domain.User, search string) ([]domain.CustomElement, error)
	Get(ctx context.Context, user domain.User, id uint) (domain.CustomElement, error)
	Update(ctx context.Context, user domain.User, id uint, patch domain.ElementPatch) (domain.CustomElement, error)
	Use(ctx context.Context, user domain.User, id uint) (domain.CustomElement, error)
	Delete(ctx context.Context, user domain.User, id uint) error
}

type ElementHandler struct {
	svc ElementService
}

func NewElementHandler(svc ElementService) *ElementHandler {
	return &ElementHandler{
		svc: svc,
	}
}

// HandleCreateElement godoc
// @Summary      Save a custom element to the caller's library
// @Tags         user-elements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      request.CreateElementRequest  true  "request body"
// @Success      201      {object}  domain.CustomElement
// @Failure      400      {object}  response.Err
// @Router       /user-elements [post]
func (h *ElementHandler) HandleCreateElement(ctx *gin.Context) {
	h.create(ctx, h.svc.Create, "v1.HandleCreateElement -> h.svc.Create")
}

// HandleCreateFromSelection godoc
// @Summary      Save a group of selected elements as one library entry
// @Tags         user-elements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      request.CreateElementRequest  true  "element_data must contain an elements array"
// @Success      201      {object}  domain.CustomElement
// @Failure      400      {object}  response.Err
// @Router       /user-elements/from-selection [post]
func (h *ElementHandler) HandleCreateFromSelection(ctx *gin.Context) {
	h.create(ctx, h.svc.CreateGroup, "v1.HandleCreateFromSelection -> h.svc.CreateGroup")
}

type createElementFunc func(ctx context.Context, user domain.User, element domain.CustomElement) (domain.CustomElement, error)

func (h *ElementHandler) create(ctx *gin.Context, create createElementFunc, op string) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	var req request.CreateElementRequest
	if !bindJSON(ctx, &req) {
		return
	}

	element, err := create(ctx.Request.Context(), user, req.ToDomain())
	if err != nil {
		renderServiceErr(ctx, op, err)
		return
	}

	ctx.JSON(http.StatusCreated, element)
}

// HandleListElements godoc
// @Summary      List the caller's element library
// @Tags         user-elements
// @Produce      json
// @Security     BearerAuth
// @Param        search  query     string  false  "case-insensitive name filter"
// @Success      200     {object}  response.ElementLibrary
// @Failure      401     {object}  response.Err
// @Router       /user-elements [get]
func (h *ElementHandler) HandleListElements(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}

	elements, err := h.svc.List(ctx.Request.Context(), user, ctx.Query("search"))
	if err != nil {
		renderServiceErr(ctx, "v1.HandleListElements -> h.svc.List", err)
		return
	}

	ctx.JSON(http.StatusOK, response.NewElementLibrary(elements))
}

// HandleGetElement godoc
// @Summary      Get one library element
// @Tags         user-elements
// @Produce      json
// @Security     BearerAuth
// @Param        elementID  path      int  true  "element id"
// @Success      200        {object}  domain.CustomElement
// @Failure      404        {object}  response.Err
// @Router       /user-elements/{elementID} [get]
func (h *ElementHandler) HandleGetElement(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "elementID")
	if !ok {
		return
	}

	element, err := h.svc.Get(ctx.Request.Context(), user, id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleGetElement -> h.svc.Get", err)
		return
	}

	ctx.JSON(http.StatusOK, element)
}

// HandleUpdateElement godoc
// @Summary      Partially update a library element
// @Tags         user-elements
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        elementID  path      int                           true  "element id"
// @Param        request    body      request.UpdateElementRequest  true  "request body"
// @Success      200        {object}  domain.CustomElement
// @Failure      400        {object}  response.Err
// @Failure      404        {object}  response.Err
// @Router       /user-elements/{elementID} [put]
func (h *ElementHandler) HandleUpdateElement(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "elementID")
	if !ok {
		return
	}

	var req request.UpdateElementRequest
	if !bindJSON(ctx, &req) {
		return
	}

	element, err := h.svc.Update(ctx.Request.Context(), user, id, req.ToPatch())
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUpdateElement -> h.svc.Update", err)
		return
	}

	ctx.JSON(http.StatusOK, element)
}

// HandleUseElement godoc
// @Summary      Record that an element was placed on a layout
// @Tags         user-elements
// @Produce      json
// @Security     BearerAuth
// @Param        elementID  path      int  true  "element id"
// @Success      200        {object}  domain.CustomElement
// @Failure      404        {object}  response.Err
// @Router       /user-elements/{elementID}/use [post]
func (h *ElementHandler) HandleUseElement(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "elementID")
	if !ok {
		return
	}

	element, err := h.svc.Use(ctx.Request.Context(), user, id)
	if err != nil {
		renderServiceErr(ctx, "v1.HandleUseElement -> h.svc.Use", err)
		return
	}

	ctx.JSON(http.StatusOK, element)
}

// HandleDeleteElement godoc
// @Summary      Delete a library element
// @Tags         user-elements
// @Security     BearerAuth
// @Param        elementID  path  int  true  "element id"
// @Success      204
// @Failure      404  {object}  response.Err
// @Router       /user-elements/{elementID} [delete]
func (h *ElementHandler) HandleDeleteElement(ctx *gin.Context) {
	user, ok := currentUser(ctx)
	if !ok {
		return
	}
	id, ok := parseID(ctx, "elementID")
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx.Request.Context(), user, id); err != nil {
		renderServiceErr(ctx, "v1.HandleDeleteElement -> h.svc.Delete", err)
		return
	}

	ctx.Status(http.StatusNoContent)
}
