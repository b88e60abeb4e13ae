package phishing_content_generate

import (
	"fmt"

	jobrt "github.com/yungbote/verifeye-backend/internal/jobs/runtime"
	"github.com/yungbote/verifeye-backend/internal/platform/dbctx"
)

func (p *Pipeline) Run(jc *jobrt.Context) error {
	if jc == nil || jc.Job == nil {
		return nil
	}
	userID, ok := jc.PayloadUUID("user_id")
	if !ok {
		userID = jc.Job.OwnerUserID
	}
	if userID != jc.Job.OwnerUserID {
		jc.Fail("validate", fmt.Errorf("payload user_id does not match job owner"))
		return nil
	}

	stage := "generate"
	out, err := p.content.GenerateWithProgress(dbctx.Of(jc.Ctx), userID, func(s string) {
		stage = s
		switch s {
		case "generate":
			jc.Progress(s, 10, "Writing your practice messages")
		case "persist":
			jc.Progress(s, 80, "Saving your practice messages")
		}
	})
	if err != nil {
		p.log.Warn("Content generation failed", "job_id", jc.Job.ID, "user_id", userID, "stage", stage, "attempt", jc.Job.Attempts, "error", err)
		jc.Fail(stage, err)
		return nil
	}

	jc.Succeed("done", map[string]any{
		"email_message_id": out.EmailID.String(),
		"text_message_id":  out.TextID.String(),
	})
	return nil
}
