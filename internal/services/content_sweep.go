package services

import (
	"context"
	"time"

	"github.com/yungbote/verifeye-backend/internal/data/repos"
	types "github.com/yungbote/verifeye-backend/internal/domain"
	"github.com/yungbote/verifeye-backend/internal/observability"
	"github.com/yungbote/verifeye-backend/internal/platform/apierr"
	"github.com/yungbote/verifeye-backend/internal/platform/dbctx"
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
)

const DefaultOrphanMinAge = 24 * time.Hour

type SweepResult struct {
	Emails int64 `json:"emails"`
	Texts  int64 `json:"texts"`
}

// ContentSweepService removes simulation rows no user links to anymore. Rows younger than
// minAge are kept so a generator mid-transaction never loses its fresh insert.
type ContentSweepService interface {
	SweepOrphans(ctx context.Context) (SweepResult, error)
}

type contentSweepService struct {
	log    *logger.Logger
	emails repos.EmailMessageRepo
	texts  repos.TextMessageRepo
	minAge time.Duration
}

func NewContentSweepService(baseLog *logger.Logger, emails repos.EmailMessageRepo, texts repos.TextMessageRepo, minAge time.Duration) ContentSweepService {
	if minAge <= 0 {
		minAge = DefaultOrphanMinAge
	}
	return &contentSweepService{
		log:    baseLog.With("service", "ContentSweepService"),
		emails: emails,
		texts:  texts,
		minAge: minAge,
	}
}

func (s *contentSweepService) SweepOrphans(ctx context.Context) (SweepResult, error) {
	cutoff := time.Now().UTC().Add(-s.minAge)
	dbc := dbctx.Of(ctx)
	var res SweepResult
	var err error
	res.Emails, err = s.emails.DeleteOrphans(dbc, cutoff)
	if err != nil {
		return res, apierr.Storage("sweep email messages", err)
	}
	observability.Current().AddOrphansDeleted(string(types.KindEmail), res.Emails)
	res.Texts, err = s.texts.DeleteOrphans(dbc, cutoff)
	if err != nil {
		return res, apierr.Storage("sweep text messages", err)
	}
	observability.Current().AddOrphansDeleted(string(types.KindText), res.Texts)
	if res.Emails > 0 || res.Texts > 0 {
		s.log.Info("Orphan content swept", "emails", res.Emails, "texts", res.Texts, "cutoff", cutoff)
	}
	return res, nil
}
