package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/syl2042/contentmaestro/internal/auth"
	"github.com/syl2042/contentmaestro/internal/profiles/domain"
)

func (h *Handler) list(c *gin.Context) {
	st := h.states(auth.UserID(c))
	ctx := c.Request.Context()

	var err error
	if c.Query("refresh") == "true" {
		err = st.Refresh(ctx)
	} else {
		err = st.Load(ctx)
	}

	items := st.Filter(c.Query("q"))
	snap := st.Snapshot()
	if err == nil {
		err = snap.Err
	}
	if err != nil {
		c.JSON(statusFor(err), gin.H{"ok": false, "error": err.Error(), "profiles": items, "status": snap.Status})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":       true,
		"profiles": items,
		"total":    len(snap.Items),
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
	c.JSON(http.StatusOK, gin.H{"ok": true, "profile": p})
}

func (h *Handler) create(c *gin.Context) {
	var req domain.ProfileDraft
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.states(auth.UserID(c)).CreateFromDraft(c.Request.Context(), req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"ok": true, "profile": p})
}

func (h *Handler) update(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	var req domain.ProfileDraft
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	p, err := h.states(auth.UserID(c)).UpdateProfile(c.Request.Context(), id, req)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "profile": p})
}

func (h *Handler) delete(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := h.states(auth.UserID(c)).DeleteProfile(c.Request.Context(), id); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
