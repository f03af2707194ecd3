package socket_io

import (
	"Fourline/services/session"
	"Fourline/services/socket_io/handlers"
	socketio_types "Fourline/services/socket_io/types"
	"os"
	"os/signal"
	"syscall"
	"time"

	stdlog "log"

	"github.com/gin-gonic/gin"
	"github.com/zishang520/engine.io/v2/log"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io/v2/socket"
)

type MySocketServer socketio_types.SocketServer

// NewServer wires the game manager and the matchmaking queue to the socket layer
func NewServer(base *socketio_types.SocketServer, recorder session.Recorder) *MySocketServer {
	handlers.Attach(base, recorder)
	return (*MySocketServer)(base)
}

func (sio *MySocketServer) Start(router *gin.Engine) {
	log.DEBUG = os.Getenv("PROD") != "true"
	c := socket.DefaultServerOptions()
	c.SetServeClient(true)
	// NOTE: higher ping interval and timeout to 1) reduce network load and 2) support slower networks
	c.SetPingInterval(5 * time.Second)
	c.SetPingTimeout(3 * time.Second)
	c.SetMaxHttpBufferSize(1000000)
	c.SetConnectTimeout(10 * time.Second)
	c.SetTransports(types.NewSet("polling", "websocket"))
	c.SetCors(&types.Cors{
		Origin:      "*",
		Credentials: true,
	})

	server := (*socketio_types.SocketServer)(sio)

	sio.Sio_server = socket.NewServer(nil, nil)
	sio.Sio_server.On("connection", func(clients ...interface{}) {
		client := clients[0].(*socket.Socket)

		claims, ok := verifyHandshake(client)
		if !ok {
			client.Disconnect(true)
			return
		}
		conn := socketio_types.NewConnection(string(client.Id()), client, claims)
		stdlog.Printf("[CONNECT] Socket %s connected", client.Id())

		// Register by username, then resume the ongoing game or enter the queue
		client.On("join", handlers.HandleJoin(server, conn))

		// Drop a disc: {game_id, col}
		client.On("move", handlers.HandleMove(server, conn))

		// Forfeit right away ("leave" kept for older clients)
		client.On("resign", handlers.HandleResign(server, conn))
		client.On("leave", handlers.HandleResign(server, conn))

		client.On("leaveQueue", handlers.HandleLeaveQueue(server, conn))

		// Play again: {mode: rematch|queue|bot}
		client.On("rematch", handlers.HandleRematch(server, conn))
		client.On("rematch:accept", handlers.HandleRematchAccept(server, conn))
		client.On("rematch:decline", handlers.HandleRematchDecline(server, conn))

		// NOTE: will remove the connection from the map and arm the forfeit timer
		client.On("disconnect", handlers.HandleDisconnect(server, conn))
	})

	router.POST("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))
	router.GET("/socket.io/*f", gin.WrapH(sio.Sio_server.ServeHandler(c)))

	SignalC := make(chan os.Signal, 1)

	signal.Notify(SignalC, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		for s := range SignalC {
			switch s {
			case syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT:
				sio.Sio_server.Close(nil)
				// let finished games reach the database
				sio.Games.Wait()
				os.Exit(0)
			}
		}
	}()

	stdlog.Println("Socket server started")
}
