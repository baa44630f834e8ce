// internal/notify/discord/notifier.go
package discord

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
)

const customIDPrefix = "review"

func approveCustomID(correlationKey string) string {
	return fmt.Sprintf("%s:approve:%s", customIDPrefix, correlationKey)
}

func rejectCustomID(correlationKey string) string {
	return fmt.Sprintf("%s:reject:%s", customIDPrefix, correlationKey)
}

// PostInteractiveMessage sends the review text with Approve and Reject
// buttons carrying the correlation key in their custom IDs. Returns the
// posted message id.
func (b *Bot) PostInteractiveMessage(ctx context.Context, channelID, text, correlationKey string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	msg, err := b.session.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Content: text,
		Components: []discordgo.MessageComponent{
			discordgo.ActionsRow{
				Components: []discordgo.MessageComponent{
					discordgo.Button{
						Label:    "Approve",
						Style:    discordgo.SuccessButton,
						CustomID: approveCustomID(correlationKey),
					},
					discordgo.Button{
						Label:    "Reject",
						Style:    discordgo.DangerButton,
						CustomID: rejectCustomID(correlationKey),
					},
				},
			},
		},
	}, discordgo.WithContext(ctx))
	if err != nil {
		return "", fmt.Errorf("post review message: %w", err)
	}
	return msg.ID, nil
}
