package calls

import (
	"net/http"

	"callcenter-platform/internal/httpapi"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/llamadas")
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/usuario/:id", h.listByUser)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", h.delete)
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if err := httpapi.BindJSON(c, &in); err != nil {
		httpapi.RespondError(c, err)
		return
	}
	out, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func (h *Handler) list(c *gin.Context) {
	page, err := httpapi.Paging(c)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	userID, err := httpapi.QueryInt64(c, "usuario_id")
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	f := Filters{
		UserID:  userID,
		Type:    httpapi.QueryString(c, "tipo"),
		Outcome: httpapi.QueryString(c, "resultado"),
	}
	out, err := h.svc.List(c.Request.Context(), f, page)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) listByUser(c *gin.Context) {
	userID, err := httpapi.PathID(c, "id")
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	page, err := httpapi.Paging(c)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	out, err := h.svc.ListByUser(c.Request.Context(), userID, page)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) get(c *gin.Context) {
	id, err := httpapi.PathID(c, "id")
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	out, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) update(c *gin.Context) {
	id, err := httpapi.PathID(c, "id")
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	var in UpdateInput
	if err := httpapi.BindJSON(c, &in); err != nil {
		httpapi.RespondError(c, err)
		return
	}
	out, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

func (h *Handler) delete(c *gin.Context) {
	id, err := httpapi.PathID(c, "id")
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
