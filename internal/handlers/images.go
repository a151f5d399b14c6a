package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const imageCacheControl = "max-age=3600"

func (h HandlerSet) AdImage(c *gin.Context) {
	adID, ok := pathID(c, "adId")
	if !ok {
		return
	}

	data, contentType, err := h.imageService.AdImage(c.Request.Context(), adID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Cache-Control", imageCacheControl)
	c.Data(http.StatusOK, contentType, data)
}

func (h HandlerSet) UserAvatar(c *gin.Context) {
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	data, contentType, err := h.imageService.UserAvatar(c.Request.Context(), userID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Cache-Control", imageCacheControl)
	c.Data(http.StatusOK, contentType, data)
}
