package socket_io

import (
	"Fourline/middleware"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/socket.io/v2/socket"
)

// verifyHandshake reads the optional player token of a connecting socket.
// Anonymous sockets are accepted (they join with a username); a token that
// is present but invalid is rejected.
func verifyHandshake(client *socket.Socket) (claims *middleware.PlayerClaims, ok bool) {
	authData, isMap := client.Handshake().Auth.(map[string]interface{})
	if !isMap {
		return nil, true
	}
	if _, hasToken := authData["authorization"]; !hasToken {
		return nil, true
	}

	claims, err := middleware.Socketio_JWT_decoder(authData)
	if err != nil {
		log.Printf("[AUTH-ERROR] Socket %s sent an invalid token: %v", client.Id(), err)
		client.Emit("error", gin.H{
			"error": "Authentication failed: invalid JWT. Remember to set it on the 'authorization' field.",
		})
		return nil, false
	}
	return claims, true
}
