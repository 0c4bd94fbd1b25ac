package bot

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/phoenix/internal/game/anomaly"
	"github.com/cory-johannsen/phoenix/internal/game/battle"
	"github.com/cory-johannsen/phoenix/internal/game/dice"
	"github.com/cory-johannsen/phoenix/internal/game/session"
)

// Config holds the command timings and permissions.
type Config struct {
	// ActionTimeout bounds each battle action prompt.
	ActionTimeout time.Duration
	// ConfirmTimeout bounds yes/no prompts.
	ConfirmTimeout time.Duration
	// ClassChoiceTimeout bounds the class prompt of start.
	ClassChoiceTimeout time.Duration
	// RestCooldown is the minimum time between two rests.
	RestCooldown time.Duration
	// OwnerIDs may run owner-only commands.
	OwnerIDs []string
}

// DefaultConfig returns the timings the game ships with.
func DefaultConfig() Config {
	return Config{
		ActionTimeout:      500 * time.Second,
		ConfirmTimeout:     60 * time.Second,
		ClassChoiceTimeout: 120 * time.Second,
		RestCooldown:       20 * time.Minute,
	}
}

// Bot runs commands against the game rules and the stores.
//
// A Bot is safe for concurrent use; every invocation owns its own battle.
type Bot struct {
	cfg        Config
	characters CharacterStore
	cooldowns  CooldownStore
	generator  *anomaly.Generator
	controller *battle.Controller
	anomalyAI  battle.ActionProvider
	src        dice.Source
	logger     *zap.Logger
	now        func() time.Time
	registry   *Registry
	sessions   *session.Manager
}

// New creates a Bot.
//
// Precondition: every argument must be non-nil.
// Postcondition: The Bot's registry holds every built-in command.
func New(
	cfg Config,
	characters CharacterStore,
	cooldowns CooldownStore,
	generator *anomaly.Generator,
	controller *battle.Controller,
	anomalyAI battle.ActionProvider,
	src dice.Source,
	logger *zap.Logger,
) *Bot {
	b := &Bot{
		cfg:        cfg,
		characters: characters,
		cooldowns:  cooldowns,
		generator:  generator,
		controller: controller,
		anomalyAI:  anomalyAI,
		src:        src,
		logger:     logger,
		now:        time.Now,
		sessions:   session.NewManager(),
	}
	reg, err := NewRegistry(b.commands())
	if err != nil {
		panic(fmt.Sprintf("building command registry: %v", err))
	}
	b.registry = reg
	return b
}

// SetClock replaces the wall clock used for cooldowns and error codes.
func (b *Bot) SetClock(now func() time.Time) { b.now = now }

// Registry returns the bot's commands.
func (b *Bot) Registry() *Registry { return b.registry }

// Sessions returns the tracker of users busy with a command.
func (b *Bot) Sessions() *session.Manager { return b.sessions }

// Handle runs the named command for in. Handler failures are logged and
// reported to the user with an error code; Handle never returns them.
func (b *Bot) Handle(ctx context.Context, name string, in Interaction) {
	author := in.Author()
	log := b.logger.With(zap.String("command", name), zap.String("user_id", author.ID))

	cmd, ok := b.registry.Resolve(name)
	if !ok {
		log.Warn("unknown command")
		b.reply(ctx, log, in, ErrorReply(author, "I don't know that command."))
		return
	}
	if cmd.OwnerOnly && !slices.Contains(b.cfg.OwnerIDs, author.ID) {
		b.reply(ctx, log, in, ErrorReply(author, "this command is reserved for the bot owners."))
		return
	}
	if cmd.RequiresCharacter {
		exists, err := b.characters.Exists(ctx, author.ID)
		if err != nil {
			b.fail(ctx, log, in, fmt.Errorf("checking registration: %w", err))
			return
		}
		if !exists {
			b.reply(ctx, log, in, ErrorReply(author, "you need to use **/start** to begin your adventure before using this command!"))
			return
		}
	}

	if cmd.Activity != "" {
		release, err := b.sessions.Acquire(cmd.Activity, b.now(), author.ID)
		if err != nil {
			b.busy(ctx, log, in, err)
			return
		}
		defer release()
	}

	log.Debug("running command")
	if err := cmd.Run(ctx, in); err != nil {
		b.fail(ctx, log, in, err)
	}
}

func (b *Bot) reply(ctx context.Context, log *zap.Logger, in Interaction, m Message) {
	if err := in.Reply(ctx, m); err != nil {
		log.Warn("sending reply", zap.Error(err))
	}
}

// busy tells the author why a session could not be acquired.
func (b *Bot) busy(ctx context.Context, log *zap.Logger, in Interaction, err error) {
	var be *session.BusyError
	if !errors.As(err, &be) {
		b.fail(ctx, log, in, err)
		return
	}
	text := fmt.Sprintf("you are already busy with **%s**!", be.Activity)
	b.reply(ctx, log, in, ErrorReply(in.Author(), text))
}

// fail logs err under a code the user can quote.
func (b *Bot) fail(ctx context.Context, log *zap.Logger, in Interaction, err error) {
	author := in.Author()
	code := fmt.Sprintf("%s#%d", author.ID, b.now().UnixMicro())
	log.Error("command failed", zap.String("error_code", code), zap.Error(err))
	m := ErrorReply(author, fmt.Sprintf("something went wrong!\nError code:\n```\n%s\n```", code))
	if serr := in.Send(ctx, m); serr != nil {
		log.Warn("sending error reply", zap.Error(serr))
	}
}

func (b *Bot) commands() []Command {
	return []Command{
		{Name: "start", Description: "Start your journey in Phoenix!", Activity: session.ActivityStart, Run: b.start},
		{Name: "profile", Description: "See your adventurer profile", RequiresCharacter: true, Run: b.profile},
		{Name: "adventure", Description: "Set out on your journey to rebuild the world!", RequiresCharacter: true, Activity: session.ActivityAdventure, Run: b.adventure},
		{Name: "rest", Description: "Rest after a long and difficult battle", RequiresCharacter: true, Activity: session.ActivityRest, Run: b.rest},
		{Name: "bestiary", Description: "See what you know about the anomalies you have faced", RequiresCharacter: true, Run: b.bestiary},
		{
			Name:              "battle",
			Description:       "Have a friendly battle with a friend!",
			RequiresCharacter: true,
			Activity:          session.ActivityDuel,
			Options: []Option{
				{Name: OptionOpponent, Description: "Who you want to battle", Kind: OptionUser, Required: true},
			},
			Run: b.duel,
		},
		{Name: "ping", Description: "Check that I am working", Run: b.ping},
		{Name: "reset-cooldowns", Description: "Reset every cooldown", OwnerOnly: true, Run: b.resetCooldowns},
	}
}
