package httpserver

import (
	"net/http"
	"strconv"

	"chocostore/internal/domain"
	"github.com/gin-gonic/gin"
)

// adRequest leaves Active unset when omitted so new ads default to active.
type adRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Link        string `json:"link"`
	Active      *bool  `json:"active"`
	Position    string `json:"position"`
}

func (r adRequest) toAd() domain.Ad {
	a := domain.Ad{
		Title:       r.Title,
		Description: r.Description,
		Image:       r.Image,
		Link:        r.Link,
		Active:      true,
		Position:    r.Position,
	}
	if r.Active != nil {
		a.Active = *r.Active
	}
	return a
}

type contentRequest struct {
	Page    string             `json:"page"`
	Section string             `json:"section"`
	Key     string             `json:"key"`
	Content *string            `json:"content"`
	Type    domain.ContentType `json:"type"`
}

func adID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		badRequest(c, "invalid ad id")
		return 0, false
	}
	return id, true
}

func (h *handlers) adminListAds(c *gin.Context) {
	ads, err := h.deps.AdminSvc.ListAds(c.Request.Context())
	if err != nil {
		h.writeError(c, err)
		return
	}
	if ads == nil {
		ads = []domain.Ad{}
	}
	c.JSON(http.StatusOK, gin.H{"total": len(ads), "results": ads})
}

func (h *handlers) adminCreateAd(c *gin.Context) {
	var req adRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid ad body")
		return
	}
	a, err := h.deps.AdminSvc.CreateAd(c.Request.Context(), req.toAd())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, a)
}

func (h *handlers) adminUpdateAd(c *gin.Context) {
	id, ok := adID(c)
	if !ok {
		return
	}
	var req adRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid ad body")
		return
	}
	a, err := h.deps.AdminSvc.UpdateAd(c.Request.Context(), id, req.toAd())
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *handlers) adminDeleteAd(c *gin.Context) {
	id, ok := adID(c)
	if !ok {
		return
	}
	if err := h.deps.AdminSvc.DeleteAd(c.Request.Context(), id); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) adminListContent(c *gin.Context) {
	blocks, err := h.deps.AdminSvc.ListContent(c.Request.Context(), c.Query("page"), c.Query("section"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	if blocks == nil {
		blocks = []domain.SiteContent{}
	}
	c.JSON(http.StatusOK, gin.H{"total": len(blocks), "results": blocks})
}

func (h *handlers) adminSaveContent(c *gin.Context) {
	var req contentRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Content == nil {
		badRequest(c, "page, section, key and content are required")
		return
	}
	saved, err := h.deps.AdminSvc.SaveContent(c.Request.Context(), domain.SiteContent{
		Page:    req.Page,
		Section: req.Section,
		Key:     req.Key,
		Content: *req.Content,
		Type:    req.Type,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// pageContent serves editorial blocks to the storefront.
func (h *handlers) pageContent(c *gin.Context) {
	content, err := h.deps.ContentSvc.Page(c.Request.Context(), c.Query("page"), c.Query("section"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, content)
}
