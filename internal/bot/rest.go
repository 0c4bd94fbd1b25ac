package bot

import (
	"context"
	"fmt"
	"time"
)

// rest restores a hurt character's health and mana, at most once per
// RestCooldown.
func (b *Bot) rest(ctx context.Context, in Interaction) error {
	author := in.Author()
	rec, err := b.characters.Get(ctx, author.ID)
	if err != nil {
		return fmt.Errorf("loading character: %w", err)
	}
	if !rec.NeedsRest() {
		return in.Reply(ctx, ErrorReply(author, "you don't need to rest!"))
	}

	now := b.now()
	expires, ok, err := b.cooldowns.Get(ctx, author.ID, CooldownRest)
	if err != nil {
		return fmt.Errorf("loading cooldown: %w", err)
	}
	if ok && now.Before(expires) {
		return in.Reply(ctx, ErrorReply(author, fmt.Sprintf(
			"you can only rest again in **%s**.", expires.Sub(now).Round(time.Second),
		)))
	}

	rec.Rest()
	if err := b.characters.Save(ctx, rec); err != nil {
		return fmt.Errorf("saving character: %w", err)
	}
	if err := b.cooldowns.Set(ctx, author.ID, CooldownRest, now.Add(b.cfg.RestCooldown)); err != nil {
		return fmt.Errorf("setting cooldown: %w", err)
	}
	return in.Reply(ctx, UserReply(author, "⚡", "you rested!"))
}
