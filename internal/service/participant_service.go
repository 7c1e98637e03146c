package service

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"strings"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/expensegenie/internal/storage"
	"github.com/mmynk/expensegenie/pkg/api"
)

// ParticipantService implements the ParticipantService RPC interface: the
// per-user roster offered when building sessions.
type ParticipantService struct {
	store storage.UserStore
}

// NewParticipantService creates a new ParticipantService.
func NewParticipantService(store storage.UserStore) *ParticipantService {
	return &ParticipantService{store: store}
}

func (s *ParticipantService) roster(ctx context.Context, userID string) (*connect.Response[api.ListParticipantsResponse], error) {
	data, err := s.store.GetUserData(ctx, userID)
	if err != nil {
		slog.Error("Failed to load roster", "user_id", userID, "error", err)
		return nil, connectError(err)
	}
	participants := slices.Clone(data.Participants)
	if participants == nil {
		participants = []string{}
	}
	slices.Sort(participants)
	return connect.NewResponse(&api.ListParticipantsResponse{
		Participants:  participants,
		LastUpdatedAt: data.LastUpdatedAt,
	}), nil
}

// ListParticipants returns the roster in name order.
func (s *ParticipantService) ListParticipants(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.ListParticipantsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	return s.roster(ctx, userID)
}

// AddParticipant adds a name to the roster and returns the new roster.
func (s *ParticipantService) AddParticipant(ctx context.Context, req *connect.Request[api.ParticipantRequest]) (*connect.Response[api.ListParticipantsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("participant name cannot be empty"))
	}

	if err := s.store.AddParticipant(ctx, userID, name, nextUpdate(0)); err != nil {
		slog.Warn("AddParticipant failed", "user_id", userID, "name", name, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Participant added", "user_id", userID, "name", name)
	return s.roster(ctx, userID)
}

// RemoveParticipant drops a name from the roster. Sessions that already
// list the name keep it.
func (s *ParticipantService) RemoveParticipant(ctx context.Context, req *connect.Request[api.ParticipantRequest]) (*connect.Response[api.ListParticipantsResponse], error) {
	userID, err := requireUser(ctx)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("participant name cannot be empty"))
	}

	if err := s.store.RemoveParticipant(ctx, userID, name, nextUpdate(0)); err != nil {
		slog.Warn("RemoveParticipant failed", "user_id", userID, "name", name, "error", err)
		return nil, connectError(err)
	}

	slog.Info("Participant removed", "user_id", userID, "name", name)
	return s.roster(ctx, userID)
}
