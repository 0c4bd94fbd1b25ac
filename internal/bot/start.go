package bot

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/phoenix/internal/game/character"
)

// start registers a new character after the user picks a class.
func (b *Bot) start(ctx context.Context, in Interaction) error {
	author := in.Author()
	exists, err := b.characters.Exists(ctx, author.ID)
	if err != nil {
		return fmt.Errorf("checking registration: %w", err)
	}
	if exists {
		return in.Reply(ctx, UserReply(author, "", "you have already started your journey!"))
	}

	prompt := UserReply(author, "", "choose your class:")
	prompt.Embeds = []Embed{ClassEmbed(author, b.now())}

	cctx, cancel := context.WithTimeout(ctx, b.cfg.ClassChoiceTimeout)
	defer cancel()
	id, err := in.Choose(cctx, author, prompt, ClassChoices())
	if err != nil {
		if isPromptTimeout(err) && ctx.Err() == nil {
			return nil
		}
		return fmt.Errorf("choosing class: %w", err)
	}

	class, err := character.ParseClass(id)
	if err != nil {
		return err
	}
	rec, err := character.NewRecord(author.ID, class, b.src)
	if err != nil {
		return err
	}
	if err := b.characters.Create(ctx, rec); err != nil {
		return fmt.Errorf("creating character: %w", err)
	}
	b.logger.Info("character created",
		zap.String("user_id", author.ID),
		zap.String("class", string(class)),
		zap.String("region", rec.Journey.Current.Name),
	)

	info, _ := character.LookupClass(class)
	return in.Send(ctx, UserReply(author, "🗺️", fmt.Sprintf(
		"you began your adventure as a **%s**! %s\nUse **/profile** to see your attributes.",
		info.Name, info.Emoji,
	)))
}
