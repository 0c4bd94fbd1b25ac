package discord

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/cory-johannsen/phoenix/internal/bot"
)

// Session is the part of *discordgo.Session the adapter talks to.
type Session interface {
	InteractionRespond(interaction *discordgo.Interaction, resp *discordgo.InteractionResponse, options ...discordgo.RequestOption) error
	InteractionResponse(interaction *discordgo.Interaction, options ...discordgo.RequestOption) (*discordgo.Message, error)
	InteractionResponseEdit(interaction *discordgo.Interaction, newresp *discordgo.WebhookEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendComplex(channelID string, data *discordgo.MessageSend, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditComplex(m *discordgo.MessageEdit, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// interaction implements bot.Interaction for one slash command invocation.
// The first message answers the interaction; later ones go to its channel.
type interaction struct {
	s       Session
	hub     *hub
	i       *discordgo.Interaction
	options map[string]bot.User
	pageTTL time.Duration

	mu      sync.Mutex
	replied bool
}

var _ bot.Interaction = (*interaction)(nil)

func (in *interaction) Author() bot.User { return ToUser(InteractionUser(in.i)) }

func (in *interaction) UserOption(name string) (bot.User, bool) {
	u, ok := in.options[name]
	return u, ok
}

func (in *interaction) Reply(_ context.Context, m bot.Message) error {
	_, err := in.post(m, nil)
	return err
}

func (in *interaction) EditReply(_ context.Context, m bot.Message) error {
	embeds := ToEmbeds(m.Embeds)
	_, err := in.s.InteractionResponseEdit(in.i, &discordgo.WebhookEdit{Content: &m.Content, Embeds: &embeds})
	if err != nil {
		return fmt.Errorf("editing reply: %w", err)
	}
	return nil
}

// Send answers the interaction when nothing has yet, so the invocation is
// always acknowledged.
func (in *interaction) Send(_ context.Context, m bot.Message) error {
	_, err := in.post(m, nil)
	return err
}

func (in *interaction) Choose(ctx context.Context, who bot.User, m bot.Message, choices []bot.Choice) (string, error) {
	id, answers, cancel := in.hub.open(who.ID)
	defer cancel()

	msg, err := in.post(m, Buttons(id, choices))
	if err != nil {
		return "", err
	}
	defer in.clearComponents(msg)

	select {
	case choice := <-answers:
		return choice, nil
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", bot.ErrPromptTimeout
		}
		return "", ctx.Err()
	}
}

func (in *interaction) Paginate(_ context.Context, who bot.User, pages []bot.Embed) error {
	if len(pages) == 0 {
		return nil
	}
	if len(pages) == 1 {
		_, err := in.post(bot.Message{Embeds: pages}, nil)
		return err
	}
	id := in.hub.paginate(who.ID, pages)
	first := pageEmbed(pages, 0)
	msg, err := in.postEmbeds(first, Buttons(id, pageChoices))
	if err != nil {
		in.hub.closePager(id)
		return err
	}
	time.AfterFunc(in.pageTTL, func() {
		in.hub.closePager(id)
		in.clearComponents(msg)
	})
	return nil
}

func (in *interaction) post(m bot.Message, components []discordgo.MessageComponent) (*discordgo.Message, error) {
	in.mu.Lock()
	first := !in.replied
	in.replied = true
	in.mu.Unlock()

	embeds := ToEmbeds(m.Embeds)
	if first {
		err := in.s.InteractionRespond(in.i, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{
				Content:    m.Content,
				Embeds:     embeds,
				Components: components,
				Flags:      messageFlags(m),
			},
		})
		if err != nil {
			return nil, fmt.Errorf("responding to interaction: %w", err)
		}
		if len(components) == 0 {
			return nil, nil
		}
		msg, err := in.s.InteractionResponse(in.i)
		if err != nil {
			return nil, fmt.Errorf("fetching interaction response: %w", err)
		}
		return msg, nil
	}

	msg, err := in.s.ChannelMessageSendComplex(in.i.ChannelID, &discordgo.MessageSend{
		Content:    m.Content,
		Embeds:     embeds,
		Components: components,
	})
	if err != nil {
		return nil, fmt.Errorf("sending message: %w", err)
	}
	return msg, nil
}

func (in *interaction) postEmbeds(e *discordgo.MessageEmbed, components []discordgo.MessageComponent) (*discordgo.Message, error) {
	msg, err := in.s.ChannelMessageSendComplex(in.i.ChannelID, &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{e},
		Components: components,
	})
	if err != nil {
		return nil, fmt.Errorf("sending pages: %w", err)
	}
	return msg, nil
}

// clearComponents removes the buttons of a prompt once it is answered or expired.
func (in *interaction) clearComponents(msg *discordgo.Message) {
	if msg == nil {
		return
	}
	edit := discordgo.NewMessageEdit(msg.ChannelID, msg.ID)
	edit.Components = &[]discordgo.MessageComponent{}
	in.s.ChannelMessageEditComplex(edit) //nolint:errcheck
}
