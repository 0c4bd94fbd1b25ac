// Package bot implements the chat commands of the game independently of any
// chat platform. Platform adapters implement Interaction and call Bot.Handle.
package bot

import (
	"context"
	"errors"
	"time"
)

// ErrPromptTimeout is returned by Interaction.Choose when nobody answered in time.
var ErrPromptTimeout = errors.New("prompt timed out")

// User identifies a chat user.
type User struct {
	ID        string
	Name      string
	AvatarURL string
}

// Mention renders the user the way replies address them.
func (u User) Mention() string { return "**" + u.Name + "**" }

// Colours used by embeds.
const (
	ColorBlurple = 0x5865F2
	ColorBlue    = 0x3498DB
	ColorGreen   = 0x57F287
	ColorYellow  = 0xFEE75C
	ColorOrange  = 0xE67E22
	ColorRed     = 0xED4245
)

// Field is one name/value pair of an Embed.
type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Embed is a platform-neutral rich message card.
type Embed struct {
	AuthorName string
	AuthorIcon string
	Title      string
	Desc       string
	Color      int
	Thumbnail  string
	Image      string
	Footer     string
	Fields     []Field
	Timestamp  time.Time
}

// Message is an outgoing message.
type Message struct {
	Content string
	Embeds  []Embed
	// Ephemeral asks the platform to show the message only to the invoking user.
	Ephemeral bool
}

// Choice is one button of a prompt.
type Choice struct {
	ID    string
	Label string
	Emoji string
}

// Interaction is one invocation of a command by a user, as seen by command
// handlers.
type Interaction interface {
	// Author returns the user who invoked the command.
	Author() User
	// UserOption returns the user passed as the named command option.
	UserOption(name string) (User, bool)
	// Reply answers the invocation itself.
	Reply(ctx context.Context, m Message) error
	// EditReply replaces the previous Reply.
	EditReply(ctx context.Context, m Message) error
	// Send posts a new message to the invocation's channel.
	Send(ctx context.Context, m Message) error
	// Choose posts m with one button per choice and blocks until who presses
	// one, returning its ID.
	//
	// Postcondition: Returns ErrPromptTimeout or ctx.Err() when ctx ends first.
	Choose(ctx context.Context, who User, m Message, choices []Choice) (string, error)
	// Paginate posts pages with navigation buttons usable by who. It returns
	// once the first page is posted.
	Paginate(ctx context.Context, who User, pages []Embed) error
}

// Confirmation choice IDs.
const (
	ChoiceYes = "yes"
	ChoiceNo  = "no"
)

// ConfirmChoices are the buttons of a yes/no prompt.
var ConfirmChoices = []Choice{
	{ID: ChoiceYes, Label: "Yes", Emoji: "✅"},
	{ID: ChoiceNo, Label: "No", Emoji: "❌"},
}

// Confirm asks who a yes/no question and waits up to timeout.
//
// Postcondition: Returns false without error when who declines or does not
// answer in time.
func Confirm(ctx context.Context, in Interaction, who User, m Message, timeout time.Duration) (bool, error) {
	cctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	id, err := in.Choose(cctx, who, m, ConfirmChoices)
	if err != nil {
		if isPromptTimeout(err) && ctx.Err() == nil {
			return false, nil
		}
		return false, err
	}
	return id == ChoiceYes, nil
}

func isPromptTimeout(err error) bool {
	return errors.Is(err, ErrPromptTimeout) || errors.Is(err, context.DeadlineExceeded)
}

// UserReply prefixes content with the user's mention, the way every
// personal response is phrased.
func UserReply(u User, emoji, content string) Message {
	if emoji == "" {
		emoji = "💬"
	}
	return Message{Content: emoji + " **|** " + u.Mention() + ", " + content}
}

// ErrorReply is UserReply in the error style.
func ErrorReply(u User, content string) Message {
	return UserReply(u, "❌", content)
}
