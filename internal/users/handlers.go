package users

import (
	"net/http"

	"callcenter-platform/internal/httpapi"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

// RegisterPublic mounts the unauthenticated routes: sign-up and login.
func (h *Handler) RegisterPublic(rg *gin.RouterGroup) {
	rg.POST("/usuarios", h.create)
	rg.POST("/usuarios/login", h.login)
}

// Register mounts the authenticated routes. deleteGuard runs before DELETE.
func (h *Handler) Register(rg *gin.RouterGroup, deleteGuard gin.HandlerFunc) {
	g := rg.Group("/usuarios")
	g.GET("", h.list)
	g.GET("/email/:email", h.getByEmail)
	g.GET("/:id", h.get)
	g.PUT("/:id", h.update)
	g.DELETE("/:id", deleteGuard, h.delete)
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if err := httpapi.BindJSON(c, &in); err != nil {
		httpapi.RespondError(c, err)
		return
	}
	u, err := h.svc.Create(c.Request.Context(), in)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

// login accepts the OAuth2 password form: username carries the email.
func (h *Handler) login(c *gin.Context) {
	res, err := h.svc.Login(c.Request.Context(), c.PostForm("username"), c.PostForm("password"))
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) list(c *gin.Context) {
	page, err := httpapi.Paging(c)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	out, err := h.svc.List(c.Request.Context(), Filters{Role: httpapi.QueryString(c, "rol")}, page)
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
	u, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *Handler) getByEmail(c *gin.Context) {
	u, err := h.svc.GetByEmail(c.Request.Context(), c.Param("email"))
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
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
	u, err := h.svc.Update(c.Request.Context(), id, in)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
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
