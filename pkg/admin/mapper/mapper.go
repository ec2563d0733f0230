package mapper

import (
	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
)

// UserToListResponse converts a user entity to the admin list row.
func UserToListResponse(user *entity.User) *dto.UserListResponse {
	if user == nil {
		return nil
	}
	return &dto.UserListResponse{
		Id:        user.Id,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		Status:    string(user.Status),
		CreatedAt: user.CreatedAt,
	}
}

// UsersToListResponse converts a slice of user entities.
func UsersToListResponse(users []*entity.User) []*dto.UserListResponse {
	responses := make([]*dto.UserListResponse, 0, len(users))
	for _, user := range users {
		if mapped := UserToListResponse(user); mapped != nil {
			responses = append(responses, mapped)
		}
	}
	return responses
}

// UserToProfileResponse converts a user entity to the detail view.
func UserToProfileResponse(user *entity.User) *dto.UserProfileResponse {
	if user == nil {
		return nil
	}
	return &dto.UserProfileResponse{
		Id:        user.Id,
		Email:     user.Email,
		FullName:  user.FullName,
		Role:      string(user.Role),
		Status:    string(user.Status),
		CreatedAt: user.CreatedAt,
	}
}

// ApprovalToResponse converts an approval row. The password hash never
// leaves the entity layer.
func ApprovalToResponse(approval *entity.UserApproval) *dto.ApprovalResponse {
	if approval == nil {
		return nil
	}
	return &dto.ApprovalResponse{
		Id:           approval.Id,
		Email:        approval.Email,
		FullName:     approval.FullName,
		Status:       string(approval.Status),
		RequestedAt:  approval.RequestedAt,
		ApprovedAt:   approval.ApprovedAt,
		ApprovedBy:   approval.ApprovedBy,
		DenialReason: approval.DenialReason,
		Notes:        approval.Notes,
	}
}

// ApprovalsToResponse converts a slice of approval rows.
func ApprovalsToResponse(approvals []*entity.UserApproval) []*dto.ApprovalResponse {
	responses := make([]*dto.ApprovalResponse, 0, len(approvals))
	for _, approval := range approvals {
		if mapped := ApprovalToResponse(approval); mapped != nil {
			responses = append(responses, mapped)
		}
	}
	return responses
}
