package services

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/verifeye-backend/internal/data/repos"
	types "github.com/yungbote/verifeye-backend/internal/domain"
	"github.com/yungbote/verifeye-backend/internal/platform/apierr"
	"github.com/yungbote/verifeye-backend/internal/platform/ctxutil"
	"github.com/yungbote/verifeye-backend/internal/platform/dbctx"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
)

const JobTypePhishingContentGenerate = "phishing_content_generate"

type JobService interface {
	Enqueue(dbc dbctx.Context, ownerUserID uuid.UUID, jobType string, entityType string, entityID *uuid.UUID, payload map[string]any) (*types.JobRun, error)
	// EnqueueUnique returns the owner's queued or running job of jobType when one exists,
	// otherwise enqueues a new one. The bool reports whether a row was created.
	EnqueueUnique(dbc dbctx.Context, ownerUserID uuid.UUID, jobType string, payload map[string]any) (*types.JobRun, bool, error)
	GetByIDForRequestUser(dbc dbctx.Context, jobID uuid.UUID) (*types.JobRun, error)
}

type jobService struct {
	log  *logger.Logger
	repo repos.JobRunRepo
}

func NewJobService(baseLog *logger.Logger, repo repos.JobRunRepo) JobService {
	return &jobService{
		log:  baseLog.With("service", "JobService"),
		repo: repo,
	}
}

func (s *jobService) Enqueue(dbc dbctx.Context, ownerUserID uuid.UUID, jobType string, entityType string, entityID *uuid.UUID, payload map[string]any) (*types.JobRun, error) {
	if ownerUserID == uuid.Nil {
		return nil, fmt.Errorf("missing owner_user_id: %w", apierr.ErrInvalidArgument)
	}
	if jobType == "" {
		return nil, fmt.Errorf("missing job_type: %w", apierr.ErrInvalidArgument)
	}
	if payload == nil {
		payload = map[string]any{}
	}
	if td := ctxutil.GetTraceData(dbc.Ctx); td != nil {
		if td.TraceID != "" {
			if _, ok := payload["trace_id"]; !ok {
				payload["trace_id"] = td.TraceID
			}
		}
		if td.RequestID != "" {
			if _, ok := payload["request_id"]; !ok {
				payload["request_id"] = td.RequestID
			}
		}
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode payload: %w", apierr.ErrInvalidArgument)
	}
	now := time.Now().UTC()
	job := &types.JobRun{
		ID:          uuid.New(),
		OwnerUserID: ownerUserID,
		JobType:     jobType,
		EntityType:  entityType,
		EntityID:    entityID,
		Status:      types.JobStatusQueued,
		Stage:       "queued",
		Message:     "Queued",
		Payload:     datatypes.JSON(b),
		Result:      datatypes.JSON([]byte(`{}`)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if _, err := s.repo.Create(dbc, []*types.JobRun{job}); err != nil {
		return nil, apierr.Storage("create job", err)
	}
	s.log.Debug("Job enqueued", "job_id", job.ID, "job_type", jobType, "user_id", ownerUserID)
	return job, nil
}

func (s *jobService) EnqueueUnique(dbc dbctx.Context, ownerUserID uuid.UUID, jobType string, payload map[string]any) (*types.JobRun, bool, error) {
	existing, err := s.repo.GetLatestRunnable(dbc, ownerUserID, jobType)
	if err != nil {
		return nil, false, apierr.Storage("lookup runnable job", err)
	}
	if existing != nil {
		return existing, false, nil
	}
	job, err := s.Enqueue(dbc, ownerUserID, jobType, "user", &ownerUserID, payload)
	if err != nil {
		return nil, false, err
	}
	return job, true, nil
}

func (s *jobService) GetByIDForRequestUser(dbc dbctx.Context, jobID uuid.UUID) (*types.JobRun, error) {
	userID, err := requestUserID(dbc)
	if err != nil {
		return nil, err
	}
	if jobID == uuid.Nil {
		return nil, fmt.Errorf("missing job id: %w", apierr.ErrInvalidArgument)
	}
	rows, err := s.repo.GetByIDs(dbc, []uuid.UUID{jobID})
	if err != nil {
		return nil, apierr.Storage("get job", err)
	}
	// Other users' jobs are reported as missing.
	if len(rows) == 0 || rows[0] == nil || rows[0].OwnerUserID != userID {
		return nil, fmt.Errorf("job %s: %w", jobID, apierr.ErrNotFound)
	}
	return rows[0], nil
}
