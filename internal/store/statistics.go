package store

import (
	"context"

	"github.com/hiredeck/hiredeck/internal/store/model"
)

// Statistics is a point-in-time snapshot scraped by the metrics collector.
type Statistics struct {
	ApplicationsByStatus map[string]int64
	JobPostsByStatus     map[string]int64
	PendingRounds        int64
	TotalCompanies       int64
	TotalSeekers         int64
}

func (s *DataStore) Statistics(ctx context.Context) (*Statistics, error) {
	stats := &Statistics{
		ApplicationsByStatus: make(map[string]int64),
		JobPostsByStatus:     make(map[string]int64),
	}

	type statusCount struct {
		Status string
		Total  int64
	}

	var applicationCounts []statusCount
	if err := s.db.WithContext(ctx).Model(&model.Application{}).
		Select("status, COUNT(*) as total").
		Group("status").
		Find(&applicationCounts).Error; err != nil {
		return nil, err
	}
	for _, c := range applicationCounts {
		stats.ApplicationsByStatus[c.Status] = c.Total
	}

	var jobPostCounts []statusCount
	if err := s.db.WithContext(ctx).Model(&model.JobPost{}).
		Select("status, COUNT(*) as total").
		Group("status").
		Find(&jobPostCounts).Error; err != nil {
		return nil, err
	}
	for _, c := range jobPostCounts {
		stats.JobPostsByStatus[c.Status] = c.Total
	}

	if err := s.db.WithContext(ctx).Model(&model.InterviewRound{}).
		Where("status = ?", model.RoundStatusPending).
		Count(&stats.PendingRounds).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&model.Company{}).Count(&stats.TotalCompanies).Error; err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Model(&model.JobSeeker{}).Count(&stats.TotalSeekers).Error; err != nil {
		return nil, err
	}

	return stats, nil
}
