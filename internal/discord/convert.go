package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/cory-johannsen/phoenix/internal/bot"
)

// customIDSeparator joins a prompt ID and a choice ID in a component custom ID.
const customIDSeparator = ":"

// CustomID builds the custom ID of one button of a prompt.
func CustomID(promptID, choiceID string) string {
	return promptID + customIDSeparator + choiceID
}

// ParseCustomID splits a custom ID built by CustomID.
//
// Postcondition: ok is false when id lacks a separator or either part is empty.
func ParseCustomID(id string) (promptID, choiceID string, ok bool) {
	promptID, choiceID, ok = strings.Cut(id, customIDSeparator)
	if !ok || promptID == "" || choiceID == "" {
		return "", "", false
	}
	return promptID, choiceID, true
}

// ToEmbed converts a bot embed to its Discord form.
func ToEmbed(e bot.Embed) *discordgo.MessageEmbed {
	out := &discordgo.MessageEmbed{
		Title:       e.Title,
		Description: e.Desc,
		Color:       e.Color,
	}
	if e.AuthorName != "" {
		out.Author = &discordgo.MessageEmbedAuthor{Name: e.AuthorName, IconURL: e.AuthorIcon}
	}
	if e.Thumbnail != "" {
		out.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: e.Thumbnail}
	}
	if e.Image != "" {
		out.Image = &discordgo.MessageEmbedImage{URL: e.Image}
	}
	if e.Footer != "" {
		out.Footer = &discordgo.MessageEmbedFooter{Text: e.Footer}
	}
	if !e.Timestamp.IsZero() {
		out.Timestamp = e.Timestamp.Format(time.RFC3339)
	}
	for _, f := range e.Fields {
		out.Fields = append(out.Fields, &discordgo.MessageEmbedField{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	return out
}

// ToEmbeds converts every embed of a message.
func ToEmbeds(es []bot.Embed) []*discordgo.MessageEmbed {
	out := make([]*discordgo.MessageEmbed, 0, len(es))
	for _, e := range es {
		out = append(out, ToEmbed(e))
	}
	return out
}

// maxButtonsPerRow is Discord's limit of components in one action row.
const maxButtonsPerRow = 5

// Buttons lays out choices as secondary buttons, five per row, with custom
// IDs scoped to promptID.
func Buttons(promptID string, choices []bot.Choice) []discordgo.MessageComponent {
	var rows []discordgo.MessageComponent
	for i := 0; i < len(choices); i += maxButtonsPerRow {
		var row discordgo.ActionsRow
		for _, c := range choices[i:min(i+maxButtonsPerRow, len(choices))] {
			btn := discordgo.Button{
				Label:    c.Label,
				Style:    discordgo.SecondaryButton,
				CustomID: CustomID(promptID, c.ID),
			}
			if c.Emoji != "" {
				btn.Emoji = &discordgo.ComponentEmoji{Name: c.Emoji}
			}
			row.Components = append(row.Components, btn)
		}
		rows = append(rows, row)
	}
	return rows
}

// ApplicationCommands declares every registry command as a slash command.
func ApplicationCommands(r *bot.Registry) []*discordgo.ApplicationCommand {
	var out []*discordgo.ApplicationCommand
	for _, c := range r.Commands() {
		ac := &discordgo.ApplicationCommand{Name: c.Name, Description: c.Description}
		for _, o := range c.Options {
			ac.Options = append(ac.Options, &discordgo.ApplicationCommandOption{
				Type:        optionType(o.Kind),
				Name:        o.Name,
				Description: o.Description,
				Required:    o.Required,
			})
		}
		out = append(out, ac)
	}
	return out
}

func optionType(k bot.OptionKind) discordgo.ApplicationCommandOptionType {
	switch k {
	case bot.OptionUser:
		return discordgo.ApplicationCommandOptionUser
	}
	panic(fmt.Sprintf("unsupported option kind %d", k))
}

// ToUser converts a Discord user.
func ToUser(u *discordgo.User) bot.User {
	if u == nil {
		return bot.User{}
	}
	name := u.GlobalName
	if name == "" {
		name = u.Username
	}
	return bot.User{ID: u.ID, Name: name, AvatarURL: u.AvatarURL("")}
}

// InteractionUser returns the user behind an interaction, in a guild or a DM.
func InteractionUser(i *discordgo.Interaction) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}

func messageFlags(m bot.Message) discordgo.MessageFlags {
	if m.Ephemeral {
		return discordgo.MessageFlagsEphemeral
	}
	return 0
}
