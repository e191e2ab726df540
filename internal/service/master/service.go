package master

import (
	"context"

	"github.com/cmlabs-hris/hris-payroll-go/internal/domain/master/jobtitle"
)

// MasterService exposes the read-only job master data used by placements.
type MasterService interface {
	GetJobTitle(ctx context.Context, id string) (jobtitle.JobTitleResponse, error)
	ListJobTitles(ctx context.Context) ([]jobtitle.JobTitleResponse, error)
}

type masterServiceImpl struct {
	jobTitleRepo jobtitle.JobTitleRepository
}

func NewMasterService(jobTitleRepo jobtitle.JobTitleRepository) MasterService {
	return &masterServiceImpl{jobTitleRepo: jobTitleRepo}
}

// ==================== JOB TITLE OPERATIONS ====================

func (s *masterServiceImpl) GetJobTitle(ctx context.Context, id string) (jobtitle.JobTitleResponse, error) {
	jt, err := s.jobTitleRepo.GetByID(ctx, id)
	if err != nil {
		return jobtitle.JobTitleResponse{}, err
	}
	return jobtitle.NewJobTitleResponse(jt), nil
}

func (s *masterServiceImpl) ListJobTitles(ctx context.Context) ([]jobtitle.JobTitleResponse, error) {
	titles, err := s.jobTitleRepo.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]jobtitle.JobTitleResponse, 0, len(titles))
	for _, jt := range titles {
		resp = append(resp, jobtitle.NewJobTitleResponse(jt))
	}
	return resp, nil
}
