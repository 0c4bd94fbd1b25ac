package bot

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

func (b *Bot) profile(ctx context.Context, in Interaction) error {
	author := in.Author()
	rec, err := b.characters.Get(ctx, author.ID)
	if err != nil {
		return fmt.Errorf("loading character: %w", err)
	}
	return in.Reply(ctx, Message{Embeds: []Embed{ProfileEmbed(author, rec, b.now())}})
}

func (b *Bot) bestiary(ctx context.Context, in Interaction) error {
	author := in.Author()
	rec, err := b.characters.Get(ctx, author.ID)
	if err != nil {
		return fmt.Errorf("loading character: %w", err)
	}
	pages := BestiaryPages(author, rec, b.generator.Catalog(), b.now())
	if len(pages) == 0 {
		return in.Reply(ctx, ErrorReply(author, "you have not faced any anomaly to put in your bestiary yet!"))
	}
	return in.Paginate(ctx, author, pages)
}

// ping replies and then reports how long the reply took.
func (b *Bot) ping(ctx context.Context, in Interaction) error {
	start := b.now()
	if err := in.Reply(ctx, Message{Content: "Pong!"}); err != nil {
		return err
	}
	elapsed := b.now().Sub(start)
	return in.EditReply(ctx, Message{Content: fmt.Sprintf("Ping: %dms", elapsed.Milliseconds())})
}

func (b *Bot) resetCooldowns(ctx context.Context, in Interaction) error {
	if err := b.cooldowns.DeleteAll(ctx); err != nil {
		return fmt.Errorf("deleting cooldowns: %w", err)
	}
	b.logger.Info("cooldowns reset", zap.String("user_id", in.Author().ID))
	return in.Reply(ctx, Message{Content: "every cooldown was reset!"})
}
