package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize/english"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"herald/internal/domain/news"
	"herald/internal/services/digest"
	"herald/pkg/logger"
)

const welcomeText = "👋 Welcome to Crypto News Bot!\n\n" +
	"I'll keep you updated with the latest cryptocurrency news.\n\n" +
	"Available commands:\n" +
	"/topics - Set your preferred topics\n" +
	"/frequency - Set update frequency (hourly/daily/breaking)\n" +
	"/recap - Get a daily news recap\n" +
	"/help - Show this help message"

// Digest runs the aggregate-then-deliver flow for one subscriber.
type Digest interface {
	DeliverTo(ctx context.Context, sub news.Subscription) digest.Summary
}

// Handlers wires bot commands to the subscription store and the digest
// pipeline.
type Handlers struct {
	sender   Sender
	registry *CommandRegistry
	subs     *news.SubscriptionStore
	digest   Digest
	keyword  string // bot-name mention trigger for the greeting reply
	log      *logger.Logger
}

// NewHandlers creates the update handlers and registers all commands.
func NewHandlers(bot *Bot, subs *news.SubscriptionStore, d Digest, keyword string, log *logger.Logger) *Handlers {
	h := &Handlers{
		sender:   bot,
		registry: NewCommandRegistry(bot, log),
		subs:     subs,
		digest:   d,
		keyword:  strings.ToLower(keyword),
		log:      log.With("component", "telegram_handlers"),
	}
	h.registerCommands()
	bot.SetMessageHandler(h.HandleUpdate)
	return h
}

func (h *Handlers) registerCommands() {
	h.registry.Register(CommandConfig{
		Name:        "start",
		Description: "Begin using the bot",
		Usage:       "/start",
		Handler:     h.handleStart,
	})
	h.registry.Register(CommandConfig{
		Name:        "help",
		Description: "Show the help message",
		Usage:       "/help",
		Handler:     h.handleHelp,
	})
	h.registry.Register(CommandConfig{
		Name:        "topics",
		Description: "Set your preferred topics",
		Usage:       "/topics bitcoin defi",
		Handler:     h.handleTopics,
	})
	h.registry.Register(CommandConfig{
		Name:        "frequency",
		Description: "Set update frequency",
		Usage:       "/frequency daily",
		Handler:     h.handleFrequency,
	})
	h.registry.Register(CommandConfig{
		Name:        "recap",
		Description: "Get a news recap",
		Usage:       "/recap",
		Handler:     h.handleRecap,
	})
}

// HandleUpdate is the entry point for all incoming updates.
func (h *Handlers) HandleUpdate(update tgbotapi.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}

	ctx := context.Background()
	msg := update.Message
	subscriberID := msg.From.ID
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		if err := h.registry.Handle(ctx, subscriberID, chatID, msg.Command(), msg.CommandArguments(), msg.Text); err != nil {
			h.log.Errorw("Failed to handle command",
				"subscriber_id", subscriberID,
				"error", err,
			)
		}
		return
	}

	// Plain-text mention of the bot name gets the capabilities blurb.
	if h.keyword != "" && strings.Contains(strings.ToLower(msg.Text), h.keyword) {
		if err := h.handleMention(ctx, subscriberID, chatID); err != nil {
			h.log.Errorw("Failed to handle mention",
				"subscriber_id", subscriberID,
				"error", err,
			)
		}
	}
}

// handleStart seeds default preferences, greets the subscriber and sends
// an immediate recap.
func (h *Handlers) handleStart(ctx *CommandContext) error {
	h.log.Infow("New subscriber started", "subscriber_id", ctx.SubscriberID)

	sub := h.subs.Ensure(ctx.SubscriberID)

	if err := ctx.Reply(welcomeText); err != nil {
		return err
	}

	return h.runRecap(ctx, sub)
}

func (h *Handlers) handleHelp(ctx *CommandContext) error {
	return ctx.Reply(welcomeText)
}

// handleTopics lists available topics when called bare, otherwise
// replaces the subscriber's topic set with the valid selections.
func (h *Handlers) handleTopics(ctx *CommandContext) error {
	args := strings.Fields(ctx.Args)

	if len(args) == 0 {
		var b strings.Builder
		b.WriteString("Available topics:\n")
		for _, topic := range news.AllTopics() {
			b.WriteString(fmt.Sprintf("- %s\n", capitalize(string(topic))))
		}
		if sub, ok := h.subs.Get(ctx.SubscriberID); ok {
			b.WriteString(fmt.Sprintf("\nYour current topics: %s\n", joinTopics(sub.Topics)))
		}
		b.WriteString("\nUse /topics topic1 topic2 to set your preferences")
		return ctx.Reply(b.String())
	}

	var selected []news.Topic
	for _, arg := range args {
		topic, err := news.ParseTopic(arg)
		if err != nil {
			continue
		}
		selected = append(selected, topic)
	}

	if len(selected) == 0 {
		return ctx.Reply("No valid topics selected. Try again.")
	}

	h.subs.SetTopics(ctx.SubscriberID, selected)
	h.log.Infow("Subscriber updated topics",
		"subscriber_id", ctx.SubscriberID,
		"topics", selected,
	)

	return ctx.Reply(fmt.Sprintf("✅ Topics updated!\nYou'll now receive news about: %s", joinTopics(selected)))
}

func (h *Handlers) handleFrequency(ctx *CommandContext) error {
	freq, err := news.ParseFrequency(ctx.Args)
	if err != nil {
		return ctx.Reply("Please specify a valid frequency:\n" +
			"- hourly: Updates every hour\n" +
			"- daily: Updates once per day\n" +
			"- breaking: Only breaking news")
	}

	h.subs.SetFrequency(ctx.SubscriberID, freq)
	return ctx.Reply(fmt.Sprintf("✅ Frequency updated!\nYou'll now receive %s updates.", freq))
}

func (h *Handlers) handleRecap(ctx *CommandContext) error {
	sub := h.subs.Ensure(ctx.SubscriberID)
	return h.runRecap(ctx, sub)
}

// runRecap delivers fresh news for every subscribed topic, then closes
// with a footer. When every source for every topic failed the subscriber
// gets an explicit error message instead.
func (h *Handlers) runRecap(ctx *CommandContext, sub news.Subscription) error {
	h.log.Infow("Sending recap", "subscriber_id", sub.SubscriberID)

	summary := h.digest.DeliverTo(ctx.Ctx, sub)

	if summary.AllSourcesFailed() {
		return ctx.Reply("Sorry, there was an error fetching the news recap. Please try again later.")
	}

	return ctx.Reply(fmt.Sprintf(
		"📰 That's all for today's recap! %s delivered.\n\n"+
			"You'll receive regular updates based on your preferences.\n"+
			"Use /topics to customize which categories you want to follow.",
		english.Plural(summary.Sent, "article", "")))
}

// handleMention answers a plain-text bot-name mention with the
// capabilities blurb and lazily initializes preferences.
func (h *Handlers) handleMention(ctx context.Context, subscriberID, chatID int64) error {
	h.log.Infow("Subscriber mentioned bot name", "subscriber_id", subscriberID)

	var b strings.Builder
	b.WriteString("👋 Welcome to Crypto News Bot!\n\n")
	b.WriteString("I'm your crypto news assistant. Here's what I can do:\n\n")
	b.WriteString("📰 Get news updates:\n")
	b.WriteString("/start - Begin using the bot\n")
	b.WriteString("/recap - Get a news recap\n")
	b.WriteString("/topics - Set your preferred topics\n")
	b.WriteString("/frequency - Set update frequency\n\n")
	b.WriteString("Available topics:\n")
	for _, topic := range news.AllTopics() {
		b.WriteString(fmt.Sprintf("- %s\n", capitalize(string(topic))))
	}
	b.WriteString("\nTry /start to begin!")

	if err := h.sender.SendMessageWithContext(ctx, chatID, b.String()); err != nil {
		return err
	}

	if _, ok := h.subs.Get(subscriberID); !ok {
		h.subs.Ensure(subscriberID)
	}
	return nil
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func joinTopics(topics []news.Topic) string {
	parts := make([]string, len(topics))
	for i, t := range topics {
		parts[i] = string(t)
	}
	return strings.Join(parts, ", ")
}
