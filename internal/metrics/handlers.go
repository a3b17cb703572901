package metrics

import (
	"net/http"

	"callcenter-platform/internal/httpapi"

	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler { return &Handler{svc: svc} }

func (h *Handler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/metricas")
	g.POST("", h.create)
	g.GET("", h.list)
	g.GET("/exportar", h.export)
	g.GET("/fecha/:fecha", h.getByDate)
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

func filters(c *gin.Context) (Filters, error) {
	from, err := httpapi.QueryDate(c, "fecha_desde")
	if err != nil {
		return Filters{}, err
	}
	to, err := httpapi.QueryDate(c, "fecha_hasta")
	if err != nil {
		return Filters{}, err
	}
	return Filters{From: from, To: to}, nil
}

func (h *Handler) list(c *gin.Context) {
	page, err := httpapi.Paging(c)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	f, err := filters(c)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	out, err := h.svc.List(c.Request.Context(), f, page)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, out)
}

// export streams the filtered metrics as an XLSX workbook. Without an explicit
// limit it exports up to httpapi.MaxLimit rows.
func (h *Handler) export(c *gin.Context) {
	page, err := httpapi.Paging(c)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	if _, ok := c.GetQuery("limit"); !ok {
		page.Limit = httpapi.MaxLimit
	}
	f, err := filters(c)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	rows, err := h.svc.List(c.Request.Context(), f, page)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	buf, err := WriteXLSX(rows)
	if err != nil {
		httpapi.RespondError(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="metricas.xlsx"`)
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func (h *Handler) getByDate(c *gin.Context) {
	out, err := h.svc.GetByDate(c.Request.Context(), c.Param("fecha"))
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
