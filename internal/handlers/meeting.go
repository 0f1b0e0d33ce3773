package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"recruit-backend/internal/meeting"
)

type MeetingHandler struct {
	Issuer *meeting.TokenIssuer
}

type meetingTokenRequest struct {
	Channel   string `json:"channel" binding:"required,min=1"`
	UID       uint32 `json:"uid"`
	Publisher bool   `json:"publisher"`
}

func NewMeetingHandler(issuer *meeting.TokenIssuer) *MeetingHandler {
	return &MeetingHandler{Issuer: issuer}
}

func (h *MeetingHandler) IssueToken(c *gin.Context) {
	var req meetingTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}

	token, err := h.Issuer.IssueRTCToken(req.Channel, req.UID, req.Publisher)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "token generation failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"channel": req.Channel,
		"uid":     req.UID,
	})
}
