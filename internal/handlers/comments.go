package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"adboard/api/internal/middleware"
	"adboard/api/internal/models"
)

type commentResponse struct {
	ID        int64  `json:"pk"`
	Author    int64  `json:"author"`
	Text      string `json:"text"`
	CreatedAt int64  `json:"createdAt"`
}

type commentsEnvelope struct {
	Count   int               `json:"count"`
	Results []commentResponse `json:"results"`
}

func toCommentResponse(comment models.Comment) commentResponse {
	return commentResponse{
		ID:        comment.ID,
		Author:    comment.AuthorID,
		Text:      comment.Text,
		CreatedAt: comment.CreatedAt.UnixMilli(),
	}
}

func (h HandlerSet) ListComments(c *gin.Context) {
	adID, ok := pathID(c, "id")
	if !ok {
		return
	}

	comments, err := h.commentService.ListByAd(c.Request.Context(), adID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	results := make([]commentResponse, 0, len(comments))
	for _, comment := range comments {
		results = append(results, toCommentResponse(comment))
	}
	c.JSON(http.StatusOK, commentsEnvelope{Count: len(results), Results: results})
}

type commentRequest struct {
	Text string `json:"text" binding:"required,min=1"`
}

func (h HandlerSet) CreateComment(c *gin.Context) {
	adID, ok := pathID(c, "id")
	if !ok {
		return
	}
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), adID, user.ID, req.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toCommentResponse(comment))
}

func (h HandlerSet) UpdateComment(c *gin.Context) {
	adID, ok := pathID(c, "id")
	if !ok {
		return
	}
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}
	if !h.authorizeCommentMutation(c, adID, commentID) {
		return
	}

	var req commentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.commentService.Update(c.Request.Context(), adID, commentID, req.Text)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCommentResponse(comment))
}

func (h HandlerSet) DeleteComment(c *gin.Context) {
	adID, ok := pathID(c, "id")
	if !ok {
		return
	}
	commentID, ok := pathID(c, "commentId")
	if !ok {
		return
	}
	if !h.authorizeCommentMutation(c, adID, commentID) {
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), adID, commentID); err != nil {
		h.respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h HandlerSet) authorizeCommentMutation(c *gin.Context, adID, commentID int64) bool {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return false
	}
	if user.IsAdmin() {
		return true
	}

	comment, err := h.commentService.Get(c.Request.Context(), adID, commentID)
	if err != nil {
		h.respondError(c, err)
		return false
	}
	if comment.AuthorID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return false
	}
	return true
}
