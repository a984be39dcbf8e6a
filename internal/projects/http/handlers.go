package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/syl2042/contentmaestro/internal/auth"
	"github.com/syl2042/contentmaestro/internal/projects/domain"
	"github.com/syl2042/contentmaestro/internal/projects/service"
)

func statusFor(err error) int {
	switch {
	case domain.IsValidation(err):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrUserRequired):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusBadGateway
	}
}

func writeError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error()})
}

// writeFormFailure keeps the dialog state alongside the error. Failures
// other than bad input or a missing project are reported as 422.
func writeFormFailure(c *gin.Context, st service.FormState, err error) {
	status := statusFor(err)
	if status == http.StatusBadGateway {
		status = http.StatusUnprocessableEntity
	}
	c.JSON(status, gin.H{"ok": false, "error": st.Error, "form": toFormView(st)})
}

func (h *Handler) list(c *gin.Context) {
	st := h.states(auth.UserID(c))
	ctx := c.Request.Context()

	var err error
	if c.Query("refresh") == "true" {
		err = st.Refresh(ctx)
	} else {
		err = st.Load(ctx)
	}

	items := toViews(st.Recent(0))
	snap := st.Snapshot()
	if err == nil {
		err = snap.Err
	}
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error(), "projects": items, "status": snap.Status})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"projects": items,
		"status":   snap.Status,
		"loading":  snap.Loading,
	})
}

func (h *Handler) get(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	p, err := h.states(auth.UserID(c)).Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": toView(*p)})
}

func (h *Handler) create(c *gin.Context) {
	var req domain.CreateProjectData
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}
	req.Titre = strings.TrimSpace(req.Titre)

	form := service.NewFormController(h.states(auth.UserID(c)))
	st, err := form.SubmitCreate(c.Request.Context(), req)
	if err != nil {
		writeFormFailure(c, st, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "project": toView(*st.Project), "form": toFormView(st)})
}

func (h *Handler) update(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req domain.UpdateProjectData
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.states(auth.UserID(c)).UpdateProject(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": toView(*p)})
}

func (h *Handler) delete(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := h.states(auth.UserID(c)).DeleteProject(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) editForm(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	form := service.NewFormController(h.states(auth.UserID(c)))

	st, err := form.InitialData(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "form": toFormView(st)})
}

func (h *Handler) submitEditForm(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req domain.CreateProjectData
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	form := service.NewFormController(h.states(auth.UserID(c)))
	st, err := form.SubmitEdit(c.Request.Context(), id, req)
	if err != nil {
		writeFormFailure(c, st, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "project": toView(*st.Project), "form": toFormView(st)})
}
