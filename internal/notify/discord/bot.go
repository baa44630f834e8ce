// Package discord posts interactive review notifications to a Discord
// channel and routes the reviewer's button presses back into the resolution
// handler.
package discord

import (
	"context"
	"fmt"
	"time"

	"package-directory/internal/common/logger"
	"package-directory/internal/submission"
	"package-directory/internal/submission/resolution"

	"github.com/bwmarrin/discordgo"
)

// Resolver applies a reviewer's decision to a tracked submission.
type Resolver interface {
	Resolve(ctx context.Context, action submission.Action, correlationKey, actorID string) (*resolution.Result, error)
}

// Bot owns the Discord session for the review channel.
type Bot struct {
	session        *discordgo.Session
	resolver       Resolver
	resolveTimeout time.Duration
	logger         logger.Logger
}

func NewBot(token string, resolver Resolver, resolveTimeout time.Duration, log logger.Logger) (*Bot, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	if resolveTimeout <= 0 {
		resolveTimeout = 10 * time.Second
	}

	b := &Bot{
		session:        session,
		resolver:       resolver,
		resolveTimeout: resolveTimeout,
		logger:         log.WithFields(map[string]interface{}{"component": "discord"}),
	}
	session.AddHandler(b.onInteractionCreate)
	session.Identify.Intents = discordgo.IntentsGuildMessages
	return b, nil
}

// Open connects the gateway session. Interaction events start arriving after
// this returns.
func (b *Bot) Open() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("open discord connection: %w", err)
	}
	b.logger.Info("discord session opened", nil)
	return nil
}

func (b *Bot) Close() error {
	return b.session.Close()
}
