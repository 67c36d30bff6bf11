package websocket

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gobanhq/goban-backend/internal/entity"
)

// Inbound actions.
const (
	actionConnect    = "connect"
	actionQueueJoin  = "queue:join"
	actionQueueLeave = "queue:leave"
	actionGameMove   = "game:move"
	actionGamePass   = "game:pass"
	actionGameResign = "game:resign"
)

// Outbound acknowledgements owned by the transport layer. Game events are
// pushed by the coordinator through the registry.
const (
	actionQueueJoined = "queue:joined"
	actionQueueLeft   = "queue:left"
)

func (that *Server) handleConnect(_ context.Context, cl *client, msg *Message) error {
	log := that.logger.With("method", "handleConnect")

	var payload Payload
	if len(msg.Payload) > 0 {
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			return fmt.Errorf("failed to unmarshal payload: %w", err)
		}
	}

	player := that.identity.Resolve(payload.Token)

	cl.player = player
	that.registry.bind(player.ID, cl.conn)

	if err := cl.conn.send(msg.Action, &entity.Event{Player: player}); err != nil {
		return fmt.Errorf("failed to send connect response: %w", err)
	}

	log.Info("participant connected", "participantID", player.ID, "kind", player.Kind)

	return nil
}

func (that *Server) handleQueueJoin(_ context.Context, cl *client, msg *Message) error {
	log := that.logger.With("method", "handleQueueJoin")

	player, err := that.requireIdentity(cl, msg)
	if err != nil {
		return err
	}

	var payload Payload
	if err = json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	position, err := that.matchmaker.Join(player, payload.BoardSize)
	if err != nil {
		log.Error("failed to join queue", "participantID", player.ID, "error", err)
		return that.sendErrorResponse(cl, msg.Action, err.Error())
	}

	event := &entity.Event{Player: player, QueuePosition: position}
	if err = cl.conn.send(actionQueueJoined, event); err != nil {
		return fmt.Errorf("failed to send queue ack: %w", err)
	}

	log.Info("participant queued", "participantID", player.ID, "boardSize", payload.BoardSize, "position", position)

	return nil
}

func (that *Server) handleQueueLeave(_ context.Context, cl *client, msg *Message) error {
	player, err := that.requireIdentity(cl, msg)
	if err != nil {
		return err
	}

	that.matchmaker.Leave(player.ID)

	if err = cl.conn.send(actionQueueLeft, &entity.Event{Player: player}); err != nil {
		return fmt.Errorf("failed to send queue ack: %w", err)
	}

	return nil
}

func (that *Server) handleGameMove(ctx context.Context, cl *client, msg *Message) error {
	player, err := that.requireIdentity(cl, msg)
	if err != nil {
		return err
	}

	var payload Payload
	if err = json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if payload.X == nil || payload.Y == nil {
		return that.sendErrorResponse(cl, msg.Action, "x and y are required")
	}

	// Rejections are pushed to the requester by the coordinator; the error
	// here is only for the server log.
	if err = that.coordinator.HandleMove(ctx, player.ID, payload.GameID, *payload.X, *payload.Y); err != nil {
		return fmt.Errorf("move not applied: %w", err)
	}

	return nil
}

func (that *Server) handleGamePass(ctx context.Context, cl *client, msg *Message) error {
	player, err := that.requireIdentity(cl, msg)
	if err != nil {
		return err
	}

	var payload Payload
	if err = json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if err = that.coordinator.HandlePass(ctx, player.ID, payload.GameID); err != nil {
		return fmt.Errorf("pass not applied: %w", err)
	}

	return nil
}

func (that *Server) handleGameResign(ctx context.Context, cl *client, msg *Message) error {
	player, err := that.requireIdentity(cl, msg)
	if err != nil {
		return err
	}

	var payload Payload
	if err = json.Unmarshal(msg.Payload, &payload); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	if err = that.coordinator.HandleResignation(ctx, player.ID, payload.GameID); err != nil {
		return fmt.Errorf("resignation not applied: %w", err)
	}

	return nil
}

// requireIdentity rejects any action sent before connect has bound an
// identity to the socket.
func (that *Server) requireIdentity(cl *client, msg *Message) (*entity.Player, error) {
	if cl.player != nil {
		return cl.player, nil
	}

	if err := that.sendErrorResponse(cl, msg.Action, "connect is required first"); err != nil {
		return nil, err
	}

	return nil, fmt.Errorf("action %q before connect", msg.Action)
}

func (that *Server) sendErrorResponse(cl *client, action, errorMsg string) error {
	if err := cl.conn.send(action, &entity.Event{Error: errorMsg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}

	return nil
}
