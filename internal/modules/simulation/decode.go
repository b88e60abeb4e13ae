package simulation

import (
	"encoding/json"
	"fmt"
	"strings"

	types "github.com/yungbote/verifeye-backend/internal/domain"
)

type GeneratedEmail struct {
	SenderName  string
	SenderEmail string
	Subject     string
	Body        string
	IsScam      bool
	RedFlags    []string
}

type GeneratedText struct {
	SenderName  string
	SenderPhone string
	Body        string
	IsScam      bool
	RedFlags    []string
}

type emailPayload struct {
	Sender struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"sender"`
	SubjectLine string   `json:"subjectLine"`
	Body        string   `json:"body"`
	IsScam      *bool    `json:"isScam"`
	RedFlags    []string `json:"redFlags"`
}

type textPayload struct {
	Sender struct {
		Name        string `json:"name"`
		PhoneNumber string `json:"phoneNumber"`
	} `json:"sender"`
	Body     string   `json:"body"`
	IsScam   *bool    `json:"isScam"`
	RedFlags []string `json:"redFlags"`
}

func remarshal(obj map[string]any, out any) error {
	if obj == nil {
		return fmt.Errorf("empty generation payload")
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

// DecodeEmail validates a structured generation result. Missing required strings are an
// error; missing or blank red flags are replaced by the email fallback list.
func DecodeEmail(obj map[string]any) (GeneratedEmail, error) {
	var p emailPayload
	if err := remarshal(obj, &p); err != nil {
		return GeneratedEmail{}, fmt.Errorf("decode email simulation: %w", err)
	}
	out := GeneratedEmail{
		SenderName:  strings.TrimSpace(p.Sender.Name),
		SenderEmail: strings.TrimSpace(p.Sender.Email),
		Subject:     strings.TrimSpace(p.SubjectLine),
		Body:        strings.TrimSpace(p.Body),
		IsScam:      p.IsScam == nil || *p.IsScam,
		RedFlags:    NormalizeRedFlags(types.KindEmail, p.RedFlags),
	}
	var missing []string
	if out.SenderName == "" {
		missing = append(missing, "sender.name")
	}
	if out.SenderEmail == "" {
		missing = append(missing, "sender.email")
	}
	if out.Subject == "" {
		missing = append(missing, "subjectLine")
	}
	if out.Body == "" {
		missing = append(missing, "body")
	}
	if len(missing) > 0 {
		return GeneratedEmail{}, fmt.Errorf("email simulation missing %s", strings.Join(missing, ", "))
	}
	return out, nil
}

// DecodeText is DecodeEmail for SMS simulations. The phone number is optional.
func DecodeText(obj map[string]any) (GeneratedText, error) {
	var p textPayload
	if err := remarshal(obj, &p); err != nil {
		return GeneratedText{}, fmt.Errorf("decode text simulation: %w", err)
	}
	out := GeneratedText{
		SenderName:  strings.TrimSpace(p.Sender.Name),
		SenderPhone: strings.TrimSpace(p.Sender.PhoneNumber),
		Body:        strings.TrimSpace(p.Body),
		IsScam:      p.IsScam == nil || *p.IsScam,
		RedFlags:    NormalizeRedFlags(types.KindText, p.RedFlags),
	}
	var missing []string
	if out.SenderName == "" {
		missing = append(missing, "sender.name")
	}
	if out.Body == "" {
		missing = append(missing, "body")
	}
	if len(missing) > 0 {
		return GeneratedText{}, fmt.Errorf("text simulation missing %s", strings.Join(missing, ", "))
	}
	return out, nil
}
