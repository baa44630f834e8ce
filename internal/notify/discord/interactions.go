// internal/notify/discord/interactions.go
package discord

import (
	"context"
	"fmt"
	"strings"

	"package-directory/internal/submission"
	"package-directory/internal/submission/resolution"

	"github.com/bwmarrin/discordgo"
)

// parseReviewCustomID splits "review:<action>:<correlation-key>" into its
// parts. Custom IDs from other features do not match.
func parseReviewCustomID(customID string) (submission.Action, string, bool) {
	parts := strings.SplitN(customID, ":", 3)
	if len(parts) != 3 || parts[0] != customIDPrefix {
		return "", "", false
	}
	switch parts[1] {
	case string(submission.ActionApprove):
		return submission.ActionApprove, parts[2], true
	case string(submission.ActionReject):
		return submission.ActionReject, parts[2], true
	default:
		return "", "", false
	}
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionMessageComponent {
		return
	}

	action, correlationKey, ok := parseReviewCustomID(i.MessageComponentData().CustomID)
	if !ok {
		return
	}

	actor := interactionActor(i)
	ctx, cancel := context.WithTimeout(context.Background(), b.resolveTimeout)
	defer cancel()

	result, err := b.resolver.Resolve(ctx, action, correlationKey, actor)
	if err != nil {
		b.logger.Error("resolution failed", map[string]interface{}{
			"correlationKey": correlationKey,
			"action":         string(action),
			"actor":          actor,
			"error":          err.Error(),
		})
		b.respondUpdate(s, i, "⚠️ Something went wrong, please try again.", i.Message.Components)
		return
	}

	b.respondUpdate(s, i, terminalText(result, actor), []discordgo.MessageComponent{})
}

// respondUpdate replaces the review message in place. Passing an empty
// component slice strips the buttons, so a resolved message cannot be
// pressed again.
func (b *Bot) respondUpdate(s *discordgo.Session, i *discordgo.InteractionCreate, content string, components []discordgo.MessageComponent) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Content:    content,
			Components: components,
		},
	})
	if err != nil {
		b.logger.Warn("interaction response failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func terminalText(result *resolution.Result, actor string) string {
	switch result.Outcome {
	case submission.OutcomeApproved:
		return fmt.Sprintf("✅ **%s** approved by <@%s>.", result.Record.Name, actor)
	case submission.OutcomeRejected:
		return fmt.Sprintf("❌ **%s** rejected by <@%s>.", result.Record.Name, actor)
	default:
		return "⏳ This submission was already resolved or is no longer tracked."
	}
}

func interactionActor(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return "unknown"
}
