package dashboard

import (
	"context"
	"time"

	"ai-chat-be/internal/dto"
	"ai-chat-be/internal/entity"
	"ai-chat-be/internal/pkg/logger"
	"ai-chat-be/internal/repository/specification"
	"ai-chat-be/internal/repository/unitofwork"
)

// Aggregator handles dashboard statistics
type Aggregator struct {
	logger logger.ILogger
}

// NewAggregator creates a new dashboard aggregator
func NewAggregator(logger logger.ILogger) *Aggregator {
	return &Aggregator{
		logger: logger,
	}
}

// GetStats retrieves dashboard statistics
func (a *Aggregator) GetStats(ctx context.Context, uow unitofwork.UnitOfWork) (*dto.DashboardStatsResponse, error) {
	totalUsers, err := uow.UserRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	activeUsers, err := uow.UserRepository().CountByStatus(ctx, string(entity.UserStatusActive))
	if err != nil {
		return nil, err
	}

	blockedUsers, err := uow.UserRepository().CountByStatus(ctx, string(entity.UserStatusBlocked))
	if err != nil {
		return nil, err
	}

	pendingApprovals, err := uow.ApprovalRepository().Count(ctx, specification.ByApprovalStatus{Status: string(entity.ApprovalStatusPending)})
	if err != nil {
		return nil, err
	}

	totalSessions, err := uow.ChatSessionRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	totalMessages, err := uow.MessagePairRepository().Count(ctx)
	if err != nil {
		return nil, err
	}

	return &dto.DashboardStatsResponse{
		TotalUsers:       totalUsers,
		ActiveUsers:      int64(activeUsers),
		BlockedUsers:     int64(blockedUsers),
		PendingApprovals: pendingApprovals,
		TotalSessions:    totalSessions,
		TotalMessages:    totalMessages,
	}, nil
}

// GetUserGrowth retrieves daily registration counts for the last N days
func (a *Aggregator) GetUserGrowth(ctx context.Context, uow unitofwork.UnitOfWork, days int) ([]*dto.GrowthStats, error) {
	stats, err := uow.UserRepository().GetUserGrowth(ctx, days)
	if err != nil {
		return nil, err
	}
	var res []*dto.GrowthStats
	for _, st := range stats {
		dateStr, _ := st["date"].(string)
		countVal, _ := st["count"].(int64)

		res = append(res, &dto.GrowthStats{
			Date:  dateStr,
			Count: int(countVal),
		})
	}
	return res, nil
}

// GetMessageGrowth retrieves daily message volume for the last N days
func (a *Aggregator) GetMessageGrowth(ctx context.Context, uow unitofwork.UnitOfWork, days int) ([]*dto.GrowthStats, error) {
	stats, err := uow.MessagePairRepository().GetMessageGrowth(ctx, days)
	if err != nil {
		return nil, err
	}
	var res []*dto.GrowthStats
	for _, st := range stats {
		dateStr, _ := st["date"].(string)
		countVal, _ := st["count"].(int64)

		res = append(res, &dto.GrowthStats{
			Date:  dateStr,
			Count: int(countVal),
		})
	}
	return res, nil
}

// GetSystemLogs retrieves system logs
func (a *Aggregator) GetSystemLogs(ctx context.Context, loggerSvc logger.ILogger, page, limit int, level, module string) ([]*dto.LogListResponse, error) {
	logs, err := loggerSvc.GetLogs(level, module, limit, (page-1)*limit)
	if err != nil {
		return nil, err
	}

	var res []*dto.LogListResponse
	for _, l := range logs {
		ts, _ := time.Parse(time.RFC3339, l.Timestamp)
		res = append(res, &dto.LogListResponse{
			Id:        l.Id,
			Level:     l.Level,
			Module:    l.Module,
			Message:   l.Message,
			CreatedAt: ts,
		})
	}
	return res, nil
}

// GetLogDetail retrieves a single log entry
func (a *Aggregator) GetLogDetail(ctx context.Context, loggerSvc logger.ILogger, logId string) (*dto.LogDetailResponse, error) {
	l, err := loggerSvc.GetLogById(logId)
	if err != nil {
		return nil, err
	}

	ts, _ := time.Parse(time.RFC3339, l.Timestamp)

	return &dto.LogDetailResponse{
		LogListResponse: dto.LogListResponse{
			Id:        logId,
			Level:     l.Level,
			Module:    l.Module,
			Message:   l.Message,
			CreatedAt: ts,
		},
		Details: l.Details,
	}, nil
}
