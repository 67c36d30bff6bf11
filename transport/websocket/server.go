package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gobanhq/goban-backend/internal/entity"
	"github.com/gobanhq/goban-backend/internal/pkg"
)

type coordinator interface {
	HandleMove(ctx context.Context, participantID, gameID string, x, y int) error
	HandlePass(ctx context.Context, participantID, gameID string) error
	HandleResignation(ctx context.Context, participantID, gameID string) error
	HandleDisconnection(participantID string)
}

type matchmaker interface {
	Join(player *entity.Player, boardSize int) (int, error)
	Leave(participantID string)
}

type identityResolver interface {
	Resolve(token string) *entity.Player
}

// client is the per-connection state: the socket plus the identity bound to
// it by the connect action.
type client struct {
	conn   *conn
	player *entity.Player
}

type handlerFunc func(ctx context.Context, cl *client, msg *Message) error

type Server struct {
	logger      *slog.Logger
	registry    *Registry
	identity    identityResolver
	coordinator coordinator
	matchmaker  matchmaker

	handlers map[string]handlerFunc
}

func New(logger *slog.Logger, registry *Registry, identity identityResolver, coord coordinator, queue matchmaker) *Server {
	server := &Server{
		logger:      logger,
		registry:    registry,
		identity:    identity,
		coordinator: coord,
		matchmaker:  queue,

		handlers: make(map[string]handlerFunc),
	}

	server.handlers[actionConnect] = server.handleConnect
	server.handlers[actionQueueJoin] = server.handleQueueJoin
	server.handlers[actionQueueLeave] = server.handleQueueLeave
	server.handlers[actionGameMove] = server.handleGameMove
	server.handlers[actionGamePass] = server.handleGamePass
	server.handlers[actionGameResign] = server.handleGameResign

	return server
}

// Start - starts WebSocket server.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		that.upgradeToWebSocket(ctx, w, r)
	})

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  0, // connections are long-lived; reads block on the client
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// upgradeToWebSocket - upgrades the connection to WebSocket.
func (that *Server) upgradeToWebSocket(ctx context.Context, writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "upgradeToWebSocket")

	if req.Header.Get("Upgrade") != "websocket" {
		http.Error(writer, "not a websocket upgrade", http.StatusBadRequest)
		return
	}

	that.setSessionCookie(writer, req)

	key := req.Header.Get("Sec-WebSocket-Key")
	acceptKey := pkg.GenerateAcceptKey(key)

	writer.Header().Set("Upgrade", "websocket")
	writer.Header().Set("Connection", "Upgrade")
	writer.Header().Set("Sec-WebSocket-Accept", acceptKey)
	writer.WriteHeader(http.StatusSwitchingProtocols)

	hijacker, ok := writer.(http.Hijacker)
	if !ok {
		log.Error("web server does not support hijacking")
		return
	}

	netConn, bufrw, err := hijacker.Hijack()
	if err != nil {
		log.Error("failed to hijack connection", "error", err)
		return
	}

	defer netConn.Close()

	log.Info("WebSocket connection established")

	cl := &client{conn: &conn{bufrw: bufrw}}

	that.handleMessages(ctx, cl)
	that.handleDisconnect(cl)
}

// handleMessages - processes messages from the client until the connection
// drops.
func (that *Server) handleMessages(ctx context.Context, cl *client) {
	log := that.logger.With("method", "handleMessages")

	for {
		reqBody, err := readRequest(cl.conn.bufrw)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Error("error reading message", "error", err)
			}
			return
		}

		if reqBody == nil {
			continue
		}

		var message Message
		if err = json.Unmarshal(reqBody, &message); err != nil {
			log.Error("failed to unmarshal message", "error", err)
			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)
			continue
		}

		if err = handler(ctx, cl, &message); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

// handleDisconnect - releases everything tied to a dropped connection: the
// registry binding, any queue entry, and the coordinator's seat bookkeeping.
func (that *Server) handleDisconnect(cl *client) {
	if cl.player == nil {
		return
	}

	log := that.logger.With("method", "handleDisconnect", "participantID", cl.player.ID)

	that.registry.unbind(cl.player.ID, cl.conn)
	that.matchmaker.Leave(cl.player.ID)
	that.coordinator.HandleDisconnection(cl.player.ID)

	log.Info("participant disconnected")
}

// setSessionCookie - set user session.
func (that *Server) setSessionCookie(writer http.ResponseWriter, req *http.Request) {
	log := that.logger.With("method", "setSessionCookie")

	cookie, err := req.Cookie("user_session")
	if err != nil {
		cookie = &http.Cookie{
			Name:    "user_session",
			Value:   pkg.GenerateNewSessionID(),
			Expires: time.Now().Add(24 * time.Hour),
			Path:    "/ws",
		}
		http.SetCookie(writer, cookie)
		log.Info("session cookie not found, new one created")
		return
	}

	log.Info("session cookie found", "cookie", cookie.Value)
}
