// Package discord connects the bot to the Discord gateway: it registers the
// slash commands, turns interactions into bot.Interaction calls and routes
// button presses back to waiting prompts.
package discord

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/cory-johannsen/phoenix/internal/bot"
)

// Handler runs a named command.
type Handler interface {
	Handle(ctx context.Context, name string, in bot.Interaction)
}

// Config holds the gateway settings.
type Config struct {
	Token string
	// GuildID registers commands in one guild instead of globally.
	GuildID string
	// PageTimeout is how long paged messages keep their navigation buttons.
	PageTimeout time.Duration
}

// Dispatcher routes interactions received on a Session.
//
// A Dispatcher is safe for concurrent use.
type Dispatcher struct {
	s       Session
	handler Handler
	hub     *hub
	pageTTL time.Duration
	logger  *zap.Logger
}

// NewDispatcher creates a Dispatcher.
//
// Precondition: s, handler and logger must be non-nil.
func NewDispatcher(s Session, handler Handler, pageTTL time.Duration, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{s: s, handler: handler, hub: newHub(), pageTTL: pageTTL, logger: logger}
}

// Dispatch handles one interaction. Commands block until the handler returns.
func (d *Dispatcher) Dispatch(ctx context.Context, i *discordgo.Interaction) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		d.command(ctx, i)
	case discordgo.InteractionMessageComponent:
		d.component(i)
	}
}

func (d *Dispatcher) command(ctx context.Context, i *discordgo.Interaction) {
	data := i.ApplicationCommandData()
	opts := make(map[string]bot.User)
	for _, o := range data.Options {
		if o.Type != discordgo.ApplicationCommandOptionUser {
			continue
		}
		id, _ := o.Value.(string)
		u := &discordgo.User{ID: id}
		if data.Resolved != nil {
			if r, ok := data.Resolved.Users[id]; ok {
				u = r
			}
		}
		opts[o.Name] = ToUser(u)
	}
	in := &interaction{s: d.s, hub: d.hub, i: i, options: opts, pageTTL: d.pageTTL}
	d.handler.Handle(ctx, data.Name, in)
}

func (d *Dispatcher) component(i *discordgo.Interaction) {
	user := InteractionUser(i)
	if user == nil {
		return
	}
	id, choice, ok := ParseCustomID(i.MessageComponentData().CustomID)
	if !ok {
		d.logger.Debug("ignoring foreign component", zap.String("custom_id", i.MessageComponentData().CustomID))
		return
	}

	var outcome Outcome
	var resp *discordgo.InteractionResponse
	if _, isPage := d.hub.owns(id); isPage {
		var page *discordgo.MessageEmbed
		page, outcome = d.hub.turn(id, user.ID, choice)
		if outcome == OutcomeDelivered {
			resp = &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseUpdateMessage,
				Data: &discordgo.InteractionResponseData{
					Embeds:     []*discordgo.MessageEmbed{page},
					Components: Buttons(id, pageChoices),
				},
			}
		}
	} else {
		outcome = d.hub.answer(id, user.ID, choice)
		if outcome == OutcomeDelivered {
			resp = &discordgo.InteractionResponse{Type: discordgo.InteractionResponseDeferredMessageUpdate}
		}
	}

	switch outcome {
	case OutcomeWrongUser:
		resp = ephemeral("these buttons are not for you!")
	case OutcomeUnknown:
		resp = ephemeral("this prompt has expired.")
	}
	if err := d.s.InteractionRespond(i, resp); err != nil {
		d.logger.Warn("acknowledging component", zap.String("custom_id", i.MessageComponentData().CustomID), zap.Error(err))
	}
}

func ephemeral(content string) *discordgo.InteractionResponse {
	return &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: "❌ **|** " + content, Flags: discordgo.MessageFlagsEphemeral},
	}
}

// Adapter owns the gateway session.
type Adapter struct {
	cfg      Config
	session  *discordgo.Session
	registry *bot.Registry
	dispatch *Dispatcher
	logger   *zap.Logger
	remove   func()
}

// New creates an Adapter serving b's commands. It does not connect.
//
// Precondition: cfg.Token must be non-empty; b and logger must be non-nil.
func New(cfg Config, b *bot.Bot, logger *zap.Logger) (*Adapter, error) {
	if cfg.Token == "" {
		return nil, errors.New("discord token must not be empty")
	}
	s, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("creating discord session: %w", err)
	}
	s.Identify.Intents = discordgo.IntentsGuilds
	return &Adapter{
		cfg:      cfg,
		session:  s,
		registry: b.Registry(),
		dispatch: NewDispatcher(s, b, cfg.PageTimeout, logger),
		logger:   logger,
	}, nil
}

// Start opens the gateway and registers the slash commands. Interactions are
// served with ctx until Stop.
func (a *Adapter) Start(ctx context.Context) error {
	a.remove = a.session.AddHandler(func(_ *discordgo.Session, ic *discordgo.InteractionCreate) {
		a.dispatch.Dispatch(ctx, ic.Interaction)
	})
	if err := a.session.Open(); err != nil {
		return fmt.Errorf("opening discord gateway: %w", err)
	}
	appID := a.session.State.User.ID
	cmds, err := a.session.ApplicationCommandBulkOverwrite(appID, a.cfg.GuildID, ApplicationCommands(a.registry))
	if err != nil {
		return fmt.Errorf("registering commands: %w", err)
	}
	a.logger.Info("discord adapter started",
		zap.String("application_id", appID),
		zap.String("guild_id", a.cfg.GuildID),
		zap.Int("commands", len(cmds)),
	)
	return nil
}

// Stop closes the gateway.
func (a *Adapter) Stop() error {
	if a.remove != nil {
		a.remove()
	}
	if err := a.session.Close(); err != nil {
		return fmt.Errorf("closing discord gateway: %w", err)
	}
	a.logger.Info("discord adapter stopped")
	return nil
}
