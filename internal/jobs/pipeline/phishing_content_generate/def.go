package phishing_content_generate

import (
	"github.com/yungbote/verifeye-backend/internal/platform/logger"
	"github.com/yungbote/verifeye-backend/internal/services"
)

type Pipeline struct {
	log     *logger.Logger
	content services.PhishingContentService
}

func New(baseLog *logger.Logger, content services.PhishingContentService) *Pipeline {
	return &Pipeline{
		log:     baseLog.With("job", services.JobTypePhishingContentGenerate),
		content: content,
	}
}

func (p *Pipeline) Type() string { return services.JobTypePhishingContentGenerate }
