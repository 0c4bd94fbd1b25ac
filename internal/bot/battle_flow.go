package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/phoenix/internal/game/battle"
)

// playerProvider asks the human behind the current fighter to pick an action
// through the interaction's buttons.
type playerProvider struct {
	in      Interaction
	players map[string]User
	now     func() time.Time
}

// ChooseAction implements battle.ActionProvider.
func (p playerProvider) ChooseAction(ctx context.Context, s battle.Snapshot) (battle.Action, error) {
	actor := s.Actor()
	who, ok := p.players[actor.PlayerID]
	if !ok {
		return battle.ActionUnknown, fmt.Errorf("fighter %q has no player", actor.Name)
	}
	id, err := p.in.Choose(ctx, who, Message{Embeds: []Embed{TurnEmbed(s, p.now())}}, ActionChoices())
	if err != nil {
		if errors.Is(err, ErrPromptTimeout) {
			return battle.ActionUnknown, fmt.Errorf("%w: %w", battle.ErrActionTimeout, err)
		}
		return battle.ActionUnknown, err
	}
	return battle.ParseAction(id)
}

// runBattle drives b to a result, prompting players through in and posting
// every round, the winner and the paged history to the channel.
//
// Postcondition: On battle.ErrActionTimeout the players have been told the
// battle was abandoned.
func (b *Bot) runBattle(ctx context.Context, in Interaction, bt *battle.Battle, players ...User) (battle.Result, error) {
	byID := make(map[string]User, len(players))
	for _, u := range players {
		byID[u.ID] = u
	}
	provider := battle.Dispatcher{
		Players:   playerProvider{in: in, players: byID, now: b.now},
		Anomalies: b.anomalyAI,
	}
	log := b.logger.With(zap.String("battle_id", bt.ID().String()))

	onRound := func(ctx context.Context, r battle.Round, _ battle.Snapshot) {
		if err := in.Send(ctx, Message{Embeds: []Embed{RoundEmbed(r, b.now())}}); err != nil {
			log.Warn("sending round", zap.Int("round", r.Number), zap.Error(err))
		}
	}

	res, err := b.controller.Run(ctx, bt, provider, onRound)
	if err != nil {
		if errors.Is(err, battle.ErrActionTimeout) {
			actor := bt.Current()
			notice := Message{Content: fmt.Sprintf("⌛ **|** **%s** took too long to act. The battle was abandoned.", actor.Name)}
			if serr := in.Send(ctx, notice); serr != nil {
				log.Warn("sending abandon notice", zap.Error(serr))
			}
		}
		return battle.Result{}, err
	}

	now := b.now()
	if err := in.Send(ctx, Message{Embeds: []Embed{WinnerEmbed(res, now)}}); err != nil {
		log.Warn("sending winner", zap.Error(err))
	}
	if pages := HistoryPages(res, now); len(pages) > 0 {
		if err := in.Paginate(ctx, in.Author(), pages); err != nil {
			log.Warn("sending battle history", zap.Error(err))
		}
	}
	return res, nil
}
