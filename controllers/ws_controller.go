package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/grocerly/pos-backend/realtime"
	"github.com/grocerly/pos-backend/services"
)

// WSController upgrades /ws connections and attaches them to the hub.
type WSController struct {
	hub       *realtime.Hub
	auth      *services.AuthService
	jwtSecret []byte
	upgrader  websocket.Upgrader
}

func NewWSController(hub *realtime.Hub, auth *services.AuthService, jwtSecret []byte) *WSController {
	return &WSController{
		hub:       hub,
		auth:      auth,
		jwtSecret: jwtSecret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// The POS frontend is served from a different origin in dev.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Connect handles GET /ws?token=<jwt>. Browsers cannot set an Authorization
// header on the websocket handshake, so the token rides the query string.
func (wc *WSController) Connect(c *gin.Context) {
	tokenString := c.Query("token")
	if tokenString == "" {
		tokenString = trimBearer(c.GetHeader("Authorization"))
	}
	if tokenString == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Missing token"})
		return
	}

	claims, err := services.ParseJWT(tokenString, wc.jwtSecret)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}
	revoked, err := wc.auth.SessionRevoked(c.Request.Context(), claims.TokenID)
	if err != nil || revoked {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session terminated"})
		return
	}

	conn, err := wc.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		zap.L().Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := realtime.NewClient(wc.hub, conn, claims.UserID, claims.Role)
	zap.L().Info("websocket client connected",
		zap.String("user_id", claims.UserID), zap.String("role", claims.Role))
	client.Serve()
}
