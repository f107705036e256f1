package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"homestay/internal/app/commands"
	viewerapp "homestay/internal/app/handlers/viewer"
)

type ViewerHandler struct {
	Commands   commands.Bus
	CookieTTL  int
	SecureCook bool
}

type signInRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h ViewerHandler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := commands.Dispatch[viewerapp.SignInCommand, *viewerapp.SignInResult](
		c.Request.Context(), h.Commands, viewerapp.SignInCommand{AuthCode: req.Code})
	if err != nil {
		writeError(c, err)
		return
	}
	c.SetCookie(sessionCooky, result.Token, h.CookieTTL, "/", "", h.SecureCook, true)
	c.JSON(http.StatusOK, result)
}

func (h ViewerHandler) SignOut(c *gin.Context) {
	c.SetCookie(sessionCooky, "", -1, "/", "", h.SecureCook, true)
	c.Status(http.StatusNoContent)
}

type connectWalletRequest struct {
	Code string `json:"code" binding:"required"`
}

func (h ViewerHandler) ConnectWallet(c *gin.Context) {
	viewerID, ok := requireViewer(c)
	if !ok {
		return
	}
	var req connectWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	result, err := commands.Dispatch[viewerapp.ConnectWalletCommand, *viewerapp.WalletResult](
		c.Request.Context(), h.Commands, viewerapp.ConnectWalletCommand{ViewerID: viewerID, AuthCode: req.Code})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h ViewerHandler) DisconnectWallet(c *gin.Context) {
	viewerID, ok := requireViewer(c)
	if !ok {
		return
	}
	result, err := commands.Dispatch[viewerapp.DisconnectWalletCommand, *viewerapp.WalletResult](
		c.Request.Context(), h.Commands, viewerapp.DisconnectWalletCommand{ViewerID: viewerID})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ ViewerHTTP = ViewerHandler{}
