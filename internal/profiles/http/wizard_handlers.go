package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/syl2042/contentmaestro/internal/auth"
	"github.com/syl2042/contentmaestro/internal/profiles/domain"
	"github.com/syl2042/contentmaestro/internal/profiles/wizard"
)

func (h *Handler) openWizard(c *gin.Context) {
	var req wizard.OpenRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
			return
		}
	}
	if req.ProfileID != "" && req.DuplicateOf != "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "profile_id and duplicate_of are exclusive"})
		return
	}

	s, err := h.wizard.Open(c.Request.Context(), auth.UserID(c), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "session": toSessionView(s)})
}

func (h *Handler) listWizards(c *gin.Context) {
	items, err := h.wizard.List(c.Request.Context(), auth.UserID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "sessions": toSessionViews(items)})
}

func (h *Handler) getWizard(c *gin.Context) {
	s, err := h.wizard.Get(c.Request.Context(), auth.UserID(c), c.Param("session"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": toSessionView(s)})
}

func (h *Handler) submitStep(c *gin.Context) {
	var step domain.ProfileDraft
	if err := c.ShouldBindJSON(&step); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	s, err := h.wizard.Submit(c.Request.Context(), auth.UserID(c), c.Param("session"), step)
	if err != nil {
		writeWizardFailure(c, s, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": toSessionView(s)})
}

func (h *Handler) previousStep(c *gin.Context) {
	s, err := h.wizard.Previous(c.Request.Context(), auth.UserID(c), c.Param("session"))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": toSessionView(s)})
}

func (h *Handler) gotoStep(c *gin.Context) {
	step, err := strconv.Atoi(strings.TrimSpace(c.Param("step")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid step"})
		return
	}

	s, err := h.wizard.GoTo(c.Request.Context(), auth.UserID(c), c.Param("session"), step)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "session": toSessionView(s)})
}

func (h *Handler) closeWizard(c *gin.Context) {
	if err := h.wizard.Close(c.Request.Context(), auth.UserID(c), c.Param("session")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
