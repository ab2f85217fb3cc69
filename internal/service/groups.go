package service

import (
	"context"
	"log/slog"

	"github.com/mmynk/youome/internal/models"
)

// CreateGroup creates a group with the creator, the existing members and
// a new user for each new member name.
func (s *Service) CreateGroup(ctx context.Context, req CreateGroupRequest) (*models.Group, error) {
	slog.Info("CreateGroup request received",
		"name", req.Name,
		"members_count", len(req.MemberIDs),
		"new_members_count", len(req.NewMemberNames),
	)

	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	creator := req.CreatorID
	if creator == "" {
		if u, err := s.store.GetCurrentUser(ctx); err == nil {
			creator = u.ID
		}
	}

	var members []string
	if creator != "" {
		members = append(members, creator)
	}
	members = append(members, req.MemberIDs...)
	for _, name := range req.NewMemberNames {
		u := &models.User{Name: name, CreatedAt: s.now().UnixMilli()}
		if err := s.store.CreateUser(ctx, u); err != nil {
			slog.Error("CreateGroup failed", "error", err)
			return nil, err
		}
		members = append(members, u.ID)
	}

	group := &models.Group{
		Name:      req.Name,
		Currency:  req.Currency,
		Category:  req.Category,
		Members:   members,
		CreatedAt: s.now().UnixMilli(),
	}
	if group.Currency == "" {
		group.Currency = models.DefaultCurrency
	}
	if group.Category == "" {
		group.Category = models.DefaultGroupCategory
	}

	if err := s.store.CreateGroup(ctx, group); err != nil {
		slog.Error("CreateGroup failed", "error", err)
		return nil, err
	}

	slog.Info("Group created", "group_id", group.ID, "members_count", len(group.Members))
	return s.store.GetGroup(ctx, group.ID)
}

// AddMembers adds existing users to a group.
func (s *Service) AddMembers(ctx context.Context, groupID string, userIDs []string) (*models.Group, error) {
	if err := s.store.AddMembers(ctx, groupID, userIDs); err != nil {
		slog.Error("AddMembers failed", "group_id", groupID, "error", err)
		return nil, err
	}
	slog.Info("Members added", "group_id", groupID, "count", len(userIDs))
	return s.store.GetGroup(ctx, groupID)
}

// GetGroup retrieves a group by ID.
func (s *Service) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.store.GetGroup(ctx, groupID)
}

// ListGroups retrieves all groups.
func (s *Service) ListGroups(ctx context.Context) ([]*models.Group, error) {
	return s.store.ListGroups(ctx)
}

// DeleteGroup removes a group together with its expenses and debts.
func (s *Service) DeleteGroup(ctx context.Context, groupID string) error {
	if err := s.store.DeleteGroup(ctx, groupID); err != nil {
		slog.Error("DeleteGroup failed", "group_id", groupID, "error", err)
		return err
	}
	s.mutated(ctx, groupID)

	slog.Info("Group deleted", "group_id", groupID)
	return nil
}
