package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/mmynk/expensegenie/internal/middleware"
	"github.com/mmynk/expensegenie/internal/models"
	"github.com/mmynk/expensegenie/internal/storage"
	"github.com/mmynk/expensegenie/pkg/api"
	"github.com/mmynk/expensegenie/pkg/api/apiconnect"
)

// AdminProcedures lists the BriefService procedures reserved for admins.
var AdminProcedures = []string{
	apiconnect.BriefServiceListBriefsProcedure,
	apiconnect.BriefServiceGetBriefProcedure,
	apiconnect.BriefServiceDeleteBriefProcedure,
	apiconnect.BriefServiceClearBriefsProcedure,
}

var errBriefIDRequired = errors.New("id required")

// BriefService implements the BriefService RPC interface. Submitting is
// open to anyone; everything else is admin-only and guarded by
// middleware.RequireAdmin.
type BriefService struct {
	store storage.BriefStore
}

// NewBriefService creates a new BriefService.
func NewBriefService(store storage.BriefStore) *BriefService {
	return &BriefService{store: store}
}

// SubmitBrief stores a questionnaire. Signed-in submitters are recorded;
// otherwise the contact email from the form is kept as the reply address.
func (s *BriefService) SubmitBrief(ctx context.Context, req *connect.Request[api.SubmitBriefRequest]) (*connect.Response[api.SubmitBriefResponse], error) {
	brief := &models.Brief{
		Data:    req.Msg.Brief,
		Version: models.BriefVersion,
	}
	if err := brief.Data.Validate(); err != nil {
		return nil, connectError(err)
	}

	if claims := middleware.GetClaims(ctx); claims != nil {
		brief.UserID = claims.UserID
		brief.UserName = claims.DisplayName
		brief.UserEmail = claims.Email
	}
	if brief.UserEmail == "" {
		brief.UserEmail = brief.Data.Summary.ContactEmail
	}
	brief.CreatedAt = time.Now().Unix()
	brief.CompletedAt = brief.CreatedAt

	if err := s.store.CreateBrief(ctx, brief); err != nil {
		slog.Error("SubmitBrief failed", "error", err)
		return nil, connectError(err)
	}

	slog.Info("Brief submitted", "brief_id", brief.ID, "user_id", brief.UserID, "title", brief.Title())
	return connect.NewResponse(&api.SubmitBriefResponse{ID: brief.ID}), nil
}

// ListBriefs returns every submission, newest first.
func (s *BriefService) ListBriefs(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.ListBriefsResponse], error) {
	briefs, err := s.store.ListBriefs(ctx)
	if err != nil {
		slog.Error("ListBriefs failed", "error", err)
		return nil, connectError(err)
	}

	out := make([]*api.Brief, len(briefs))
	for i, b := range briefs {
		out[i] = briefToAPI(b)
	}
	return connect.NewResponse(&api.ListBriefsResponse{Briefs: out}), nil
}

// GetBrief retrieves a submission by ID.
func (s *BriefService) GetBrief(ctx context.Context, req *connect.Request[api.BriefIDRequest]) (*connect.Response[api.BriefResponse], error) {
	if req.Msg.ID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errBriefIDRequired)
	}
	brief, err := s.store.GetBrief(ctx, req.Msg.ID)
	if err != nil {
		return nil, connectError(err)
	}
	return connect.NewResponse(&api.BriefResponse{Brief: briefToAPI(brief)}), nil
}

// DeleteBrief removes a submission by ID.
func (s *BriefService) DeleteBrief(ctx context.Context, req *connect.Request[api.BriefIDRequest]) (*connect.Response[emptypb.Empty], error) {
	if req.Msg.ID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errBriefIDRequired)
	}
	if err := s.store.DeleteBrief(ctx, req.Msg.ID); err != nil {
		return nil, connectError(err)
	}

	slog.Info("Brief deleted", "brief_id", req.Msg.ID, "by", middleware.GetEmail(ctx))
	return connect.NewResponse(&emptypb.Empty{}), nil
}

// ClearBriefs deletes every submission.
func (s *BriefService) ClearBriefs(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[api.ClearBriefsResponse], error) {
	deleted, err := s.store.ClearBriefs(ctx)
	if err != nil {
		slog.Error("ClearBriefs failed", "error", err)
		return nil, connectError(err)
	}

	slog.Warn("All briefs cleared", "deleted", deleted, "by", middleware.GetEmail(ctx))
	return connect.NewResponse(&api.ClearBriefsResponse{Deleted: deleted}), nil
}
