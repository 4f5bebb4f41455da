package telegram

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"herald/pkg/logger"
)

// Sender is the outbound capability the registry needs to answer a
// command. *Bot satisfies it; tests substitute a fake.
type Sender interface {
	SendMessageWithContext(ctx context.Context, chatID int64, text string) error
}

// CommandContext contains all data for command execution
type CommandContext struct {
	Ctx          context.Context
	SubscriberID int64
	ChatID       int64
	Command      string
	Args         string
	RawMessage   string
	Sender       Sender
}

// Reply sends a message back to the chat the command came from.
func (c *CommandContext) Reply(text string) error {
	return c.Sender.SendMessageWithContext(c.Ctx, c.ChatID, text)
}

// CommandHandler is a function that handles a command
type CommandHandler func(ctx *CommandContext) error

// CommandConfig defines a command registration
type CommandConfig struct {
	Name        string         // Primary command name (e.g., "topics")
	Aliases     []string       // Alternative names
	Description string         // Help text
	Usage       string         // Usage example (e.g., "/topics bitcoin defi")
	Handler     CommandHandler // Command handler function
}

// CommandRegistry manages command registration and routing
type CommandRegistry struct {
	commands map[string]*CommandConfig // command name -> config
	sender   Sender
	log      *logger.Logger
}

// NewCommandRegistry creates a new command registry
func NewCommandRegistry(sender Sender, log *logger.Logger) *CommandRegistry {
	return &CommandRegistry{
		commands: make(map[string]*CommandConfig),
		sender:   sender,
		log:      log.With("component", "command_registry"),
	}
}

// Register registers a command with the registry
func (cr *CommandRegistry) Register(config CommandConfig) {
	if config.Name == "" {
		cr.log.Errorw("Cannot register command without name")
		return
	}
	if config.Handler == nil {
		cr.log.Errorw("Cannot register command without handler", "command", config.Name)
		return
	}

	cr.commands[config.Name] = &config
	cr.log.Debugw("Registered command",
		"name", config.Name,
		"aliases", config.Aliases,
	)

	for _, alias := range config.Aliases {
		cr.commands[alias] = &config
	}
}

// Handle routes a command to its registered handler
func (cr *CommandRegistry) Handle(ctx context.Context, subscriberID, chatID int64, command, args, rawMessage string) error {
	command = strings.ToLower(strings.TrimSpace(command))

	cr.log.Debugw("Routing command",
		"command", command,
		"subscriber_id", subscriberID,
		"has_args", args != "",
	)

	config, exists := cr.commands[command]
	if !exists {
		cr.log.Warnw("Unknown command",
			"command", command,
			"subscriber_id", subscriberID,
		)
		return cr.sender.SendMessageWithContext(ctx, chatID,
			fmt.Sprintf("❌ Unknown command: /%s\n\nUse /help to see available commands.", command))
	}

	cmdCtx := &CommandContext{
		Ctx:          ctx,
		SubscriberID: subscriberID,
		ChatID:       chatID,
		Command:      command,
		Args:         args,
		RawMessage:   rawMessage,
		Sender:       cr.sender,
	}

	if err := config.Handler(cmdCtx); err != nil {
		cr.log.Errorw("Command execution failed",
			"command", command,
			"subscriber_id", subscriberID,
			"error", err,
		)
		return cr.sender.SendMessageWithContext(ctx, chatID,
			"Sorry, there was an error processing your request. Please try again later.")
	}

	cr.log.Infow("Command executed successfully",
		"command", command,
		"subscriber_id", subscriberID,
	)

	return nil
}

// Commands returns the registered commands, sorted by primary name.
func (cr *CommandRegistry) Commands() []*CommandConfig {
	seen := make(map[string]bool)
	commands := make([]*CommandConfig, 0, len(cr.commands))

	for name, config := range cr.commands {
		// Aliases point to the same config
		if name != config.Name || seen[config.Name] {
			continue
		}
		seen[config.Name] = true
		commands = append(commands, config)
	}

	sort.Slice(commands, func(i, j int) bool {
		return commands[i].Name < commands[j].Name
	})
	return commands
}

// HasCommand checks if a command is registered
func (cr *CommandRegistry) HasCommand(command string) bool {
	command = strings.ToLower(strings.TrimSpace(command))
	_, exists := cr.commands[command]
	return exists
}
