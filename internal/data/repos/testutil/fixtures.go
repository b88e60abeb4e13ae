package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	types "github.com/yungbote/verifeye-backend/internal/domain"
	"gorm.io/gorm"
)

func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email string) *types.User {
	tb.Helper()
	u := &types.User{
		ID:    uuid.New(),
		Name:  "Test User",
		Email: email,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedEmail(tb testing.TB, ctx context.Context, tx *gorm.DB, redFlags *string) *types.EmailMessage {
	tb.Helper()
	m := &types.EmailMessage{
		Sender:      "PayPal Security",
		SenderEmail: "security@paypa1.com",
		Subject:     "Your account is limited",
		Content:     "Verify your account within 24 hours.",
		RedFlags:    redFlags,
		IsScam:      true,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed email: %v", err)
	}
	return m
}

func SeedText(tb testing.TB, ctx context.Context, tx *gorm.DB, redFlags *string) *types.TextMessage {
	tb.Helper()
	m := &types.TextMessage{
		Sender:      "USPS",
		SenderPhone: "+1 555 0100",
		Content:     "URGENT: your package is held. bit.ly/xyz",
		RedFlags:    redFlags,
		IsScam:      true,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed text: %v", err)
	}
	return m
}

func PtrString(v string) *string { return &v }

func PtrInt(v int) *int { return &v }

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }
