package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"adboard/api/internal/middleware"
	"adboard/api/internal/models"
	"adboard/api/internal/service"
)

type adResponse struct {
	ID     int64  `json:"pk"`
	Title  string `json:"title"`
	Price  int64  `json:"price"`
	Author int64  `json:"author"`
	Image  string `json:"image,omitempty"`
}

type extendedAdResponse struct {
	ID              int64  `json:"pk"`
	Title           string `json:"title"`
	Price           int64  `json:"price"`
	Description     string `json:"description"`
	Author          int64  `json:"author"`
	AuthorFirstName string `json:"authorFirstName"`
	AuthorLastName  string `json:"authorLastName"`
	Email           string `json:"email"`
	Phone           string `json:"phone"`
	Image           string `json:"image,omitempty"`
}

type adsEnvelope struct {
	Count   int          `json:"count"`
	Results []adResponse `json:"results"`
}

func toAdResponse(ad models.Ad) adResponse {
	resp := adResponse{
		ID:     ad.ID,
		Title:  ad.Title,
		Price:  ad.Price,
		Author: ad.AuthorID,
	}
	if ad.PrimaryImageID != nil {
		resp.Image = adImageURL(ad.ID)
	}
	return resp
}

func adImageURL(adID int64) string {
	return "/api/images/ads/" + formatID(adID) + "/image"
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}

func toAdsEnvelope(ads []models.Ad) adsEnvelope {
	results := make([]adResponse, 0, len(ads))
	for _, ad := range ads {
		results = append(results, toAdResponse(ad))
	}
	return adsEnvelope{Count: len(results), Results: results}
}

func (h HandlerSet) ListAds(c *gin.Context) {
	ads, err := h.adService.ListAll(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAdsEnvelope(ads))
}

func (h HandlerSet) MyAds(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ads, err := h.adService.ListByAuthor(c.Request.Context(), user.ID)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toAdsEnvelope(ads))
}

func (h HandlerSet) GetAd(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	ad, author, err := h.adService.GetExtended(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := extendedAdResponse{
		ID:              ad.ID,
		Title:           ad.Title,
		Price:           ad.Price,
		Description:     ad.Description,
		Author:          author.ID,
		AuthorFirstName: author.FirstName,
		AuthorLastName:  author.LastName,
		Email:           author.Email,
		Phone:           author.Phone,
	}
	if ad.PrimaryImageID != nil {
		resp.Image = adImageURL(ad.ID)
	}

	c.JSON(http.StatusOK, resp)
}

// CreateAd accepts multipart form data: title, price, description and
// an optional image file.
func (h HandlerSet) CreateAd(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	title := c.PostForm("title")
	description := c.PostForm("description")
	price, err := strconv.ParseInt(c.PostForm("price"), 10, 64)
	if title == "" || err != nil || price < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title and non-negative price required"})
		return
	}

	var upload *service.Upload
	if file, header, ferr := c.Request.FormFile("image"); ferr == nil {
		u, rerr := h.readUpload(file, header)
		if rerr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": rerr.Error()})
			return
		}
		upload = &u
	}

	ad, err := h.adService.Create(c.Request.Context(), user.ID, service.AdInput{
		Title:       title,
		Price:       price,
		Description: description,
	}, upload)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toAdResponse(ad))
}

type updateAdRequest struct {
	Title       string `json:"title" binding:"required"`
	Price       int64  `json:"price" binding:"min=0"`
	Description string `json:"description"`
}

func (h HandlerSet) UpdateAd(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !h.authorizeAdMutation(c, id) {
		return
	}

	var req updateAdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ad, err := h.adService.Update(c.Request.Context(), id, service.AdInput{
		Title:       req.Title,
		Price:       req.Price,
		Description: req.Description,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toAdResponse(ad))
}

func (h HandlerSet) UpdateAdImage(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !h.authorizeAdMutation(c, id) {
		return
	}

	file, header, err := c.Request.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "image_required"})
		return
	}

	upload, err := h.readUpload(file, header)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	image, err := h.adService.ReplaceImage(c.Request.Context(), id, upload)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"image": image.FilePath})
}

func (h HandlerSet) DeleteAd(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if !h.authorizeAdMutation(c, id) {
		return
	}

	if err := h.adService.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h HandlerSet) AdminListAds(c *gin.Context) {
	limit := 50
	offset := 0

	if perPage := c.Query("perPage"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= 200 {
			limit = v
		}
	}
	if page := c.Query("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 1 {
			offset = (v - 1) * limit
		}
	}

	ads, err := h.adService.List(c.Request.Context(), limit, offset)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": toAdsEnvelope(ads).Results})
}

// authorizeAdMutation enforces admin-or-owner before any ad mutation.
// Authorization lives here in the handler layer; the services only see
// owner ids.
func (h HandlerSet) authorizeAdMutation(c *gin.Context, adID int64) bool {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return false
	}
	if user.IsAdmin() {
		return true
	}

	ad, err := h.adService.GetByID(c.Request.Context(), adID)
	if err != nil {
		h.respondError(c, err)
		return false
	}
	if ad.AuthorID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return false
	}
	return true
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
