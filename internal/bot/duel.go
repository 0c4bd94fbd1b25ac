package bot

import (
	"context"
	"errors"
	"fmt"

	"github.com/cory-johannsen/phoenix/internal/game/battle"
	"github.com/cory-johannsen/phoenix/internal/game/session"
)

// OptionOpponent is the user option of the battle command.
const OptionOpponent = "opponent"

// duel runs a friendly battle between two registered players. Nothing is
// persisted.
func (b *Bot) duel(ctx context.Context, in Interaction) error {
	author := in.Author()
	opponent, ok := in.UserOption(OptionOpponent)
	if !ok {
		return errors.New("opponent option missing")
	}
	if opponent.ID == author.ID {
		return in.Reply(ctx, ErrorReply(author, "you can't battle yourself!"))
	}

	invite := UserReply(opponent, "⚔️", fmt.Sprintf("you were invited to battle **%s**! Do you accept?", author.Name))
	accepted, err := Confirm(ctx, in, opponent, invite, b.cfg.ConfirmTimeout)
	if err != nil || !accepted {
		return err
	}

	exists, err := b.characters.Exists(ctx, opponent.ID)
	if err != nil {
		return fmt.Errorf("checking registration: %w", err)
	}
	if !exists {
		return in.Send(ctx, Message{Content: fmt.Sprintf("❌ **|** **%s** has not started their journey yet!", opponent.Name)})
	}

	release, err := b.sessions.Acquire(session.ActivityDuel, b.now(), opponent.ID)
	if errors.Is(err, session.ErrBusy) {
		return in.Send(ctx, Message{Content: fmt.Sprintf("❌ **|** **%s** is busy right now!", opponent.Name)})
	}
	if err != nil {
		return err
	}
	defer release()

	mine, err := b.characters.Get(ctx, author.ID)
	if err != nil {
		return fmt.Errorf("loading character: %w", err)
	}
	theirs, err := b.characters.Get(ctx, opponent.ID)
	if err != nil {
		return fmt.Errorf("loading opponent: %w", err)
	}

	bt, err := battle.New([]battle.Fighter{
		battle.FromCharacter(author.Name, author.AvatarURL, mine),
		battle.FromCharacter(opponent.Name, opponent.AvatarURL, theirs),
	})
	if err != nil {
		return err
	}
	if _, err := b.runBattle(ctx, in, bt, author, opponent); err != nil && !errors.Is(err, battle.ErrActionTimeout) {
		return err
	}
	return nil
}
