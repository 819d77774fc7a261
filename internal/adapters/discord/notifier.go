// Package discord posts analysis summaries to a Discord channel webhook.
package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	logging "github.com/ipfs/go-log/v2"

	"localesync/internal/domain/entities"
	"localesync/internal/ports/output"
	embeds "localesync/pkg/discord"
)

var log = logging.Logger("discord")

var _ output.Notifier = (*WebhookNotifier)(nil)

// WebhookNotifier executes a channel webhook with an analysis embed.
type WebhookNotifier struct {
	session  *discordgo.Session
	id       string
	token    string
	t        output.T
	locale   string
	location *time.Location
	now      func() time.Time
}

// NewWebhookNotifier creates a notifier for the webhook id/token pair.
// The session is unauthenticated; webhook calls carry their own token.
func NewWebhookNotifier(id, token string, t output.T, locale string, loc *time.Location) (*WebhookNotifier, error) {
	s, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("discord session: %w", err)
	}
	return &WebhookNotifier{
		session:  s,
		id:       id,
		token:    token,
		t:        t,
		locale:   locale,
		location: loc,
		now:      time.Now,
	}, nil
}

func (n *WebhookNotifier) NotifyAnalysis(ctx context.Context, analysis *entities.Analysis) error {
	embed := embeds.BuildAnalysisEmbed(n.t, n.locale, n.location, analysis, n.now())
	_, err := n.session.WebhookExecute(n.id, n.token, false, &discordgo.WebhookParams{
		Username: "localesync",
		Embeds:   []*discordgo.MessageEmbed{embed},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("webhook execute: %w", err)
	}
	log.Infow("analysis published", "webhook", n.id, "fields", len(embed.Fields))
	return nil
}
