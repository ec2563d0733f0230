package mapper

import (
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/model"
)

type ApprovalMapper struct{}

func NewApprovalMapper() *ApprovalMapper {
	return &ApprovalMapper{}
}

func (m *ApprovalMapper) ToEntity(a *model.UserApproval) *entity.UserApproval {
	if a == nil {
		return nil
	}
	return &entity.UserApproval{
		Id:           a.Id,
		UserId:       a.UserId,
		Email:        a.Email,
		FullName:     a.FullName,
		PasswordHash: a.PasswordHash,
		Status:       entity.ApprovalStatus(a.Status),
		RequestedAt:  a.RequestedAt,
		ApprovedAt:   a.ApprovedAt,
		ApprovedBy:   a.ApprovedBy,
		DenialReason: a.DenialReason,
		Notes:        a.Notes,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (m *ApprovalMapper) ToModel(a *entity.UserApproval) *model.UserApproval {
	if a == nil {
		return nil
	}
	return &model.UserApproval{
		Id:           a.Id,
		UserId:       a.UserId,
		Email:        a.Email,
		FullName:     a.FullName,
		PasswordHash: a.PasswordHash,
		Status:       string(a.Status),
		RequestedAt:  a.RequestedAt,
		ApprovedAt:   a.ApprovedAt,
		ApprovedBy:   a.ApprovedBy,
		DenialReason: a.DenialReason,
		Notes:        a.Notes,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}
}

func (m *ApprovalMapper) ToEntities(approvals []*model.UserApproval) []*entity.UserApproval {
	entities := make([]*entity.UserApproval, len(approvals))
	for i, a := range approvals {
		entities[i] = m.ToEntity(a)
	}
	return entities
}
