package bot

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/phoenix/internal/game/battle"
	"github.com/cory-johannsen/phoenix/internal/game/character"
	"github.com/cory-johannsen/phoenix/internal/game/dice"
	"github.com/cory-johannsen/phoenix/internal/game/region"
)

// Distances walked per adventure step, in km.
const (
	leaveCityMinKm = 0.65
	leaveCityMaxKm = 0.7
	victoryMinKm   = 0.2
	victoryMaxKm   = 0.4
)

// adventure leaves the city, or fights a generated anomaly in the current
// region and applies the outcome with a single save.
func (b *Bot) adventure(ctx context.Context, in Interaction) error {
	author := in.Author()
	rec, err := b.characters.Get(ctx, author.ID)
	if err != nil {
		return fmt.Errorf("loading character: %w", err)
	}

	if !rec.CanAdventure() {
		return in.Reply(ctx, ErrorReply(author, "you are too hurt to fight! Use **/rest** before setting out on a new adventure."))
	}
	if rec.Journey.InCity() {
		return b.leaveCity(ctx, in, rec)
	}

	a, err := b.generator.Generate(rec.Level, rec.Journey.Current.Type)
	if err != nil {
		return fmt.Errorf("generating anomaly in %s: %w", rec.Journey.Current.Type, err)
	}

	prompt := UserReply(author, "", "you found an anomaly. Do you want to face it?")
	prompt.Embeds = []Embed{EncounterEmbed(author, a, b.now())}
	ok, err := Confirm(ctx, in, author, prompt, b.cfg.ConfirmTimeout)
	if err != nil || !ok {
		return err
	}

	bt, err := battle.New([]battle.Fighter{
		battle.FromCharacter(author.Name, author.AvatarURL, rec),
		battle.FromAnomaly(a),
	})
	if err != nil {
		return err
	}
	res, err := b.runBattle(ctx, in, bt, author)
	if err != nil {
		if errors.Is(err, battle.ErrActionTimeout) {
			return nil
		}
		return err
	}

	self, ok := res.FighterFor(author.ID)
	if !ok {
		return fmt.Errorf("battle %s: fighter of %s not found", bt.ID(), author.ID)
	}
	won := res.Winner.IsPlayer()

	if won {
		rec.Journey.Travel(dice.Uniform(b.src, victoryMinKm, victoryMaxKm))
		rec.AddGold(a.Rewards.Gold)
		rec.AddXP(a.Rewards.XP)
		lvl := rec.LevelUp(b.src)

		msg := UserReply(author, "💰", "you received:\n"+a.Rewards.String())
		if lvl.Leveled() {
			msg.Content += LevelUpText(lvl)
		}
		if rec.Journey.ShouldWander(b.src) {
			next := region.NextRegion(rec.Journey, b.src)
			rec.Journey.MoveTo(next)
			msg.Content += fmt.Sprintf("\n🗺️ **|** You wandered and arrived at **%s**!", next.Name)
		}
		if err := in.Send(ctx, msg); err != nil {
			b.logger.Warn("sending rewards", zap.Error(err))
		}
	}

	rec.ApplyVitals(self.Health.Value, self.Mana.Value)
	rec.RecordEncounter(a.Type, won)
	if err := b.characters.Save(ctx, rec); err != nil {
		return fmt.Errorf("saving character: %w", err)
	}
	b.logger.Info("adventure resolved",
		zap.String("user_id", author.ID),
		zap.String("anomaly", string(a.Type)),
		zap.Bool("won", won),
		zap.Int("level", rec.Level),
	)
	return nil
}

// leaveCity walks a character out of the city into a new region after
// confirming that they cannot come back.
func (b *Bot) leaveCity(ctx context.Context, in Interaction, rec *character.Record) error {
	author := in.Author()
	prompt := UserReply(author, "🗺️", fmt.Sprintf(
		"if you set out on an adventure, you will not be able to return to **%s**!\nDo you really want to go on an adventure now?",
		rec.Journey.Current.Name,
	))
	ok, err := Confirm(ctx, in, author, prompt, b.cfg.ConfirmTimeout)
	if err != nil || !ok {
		return err
	}

	next := region.NextRegion(rec.Journey, b.src)
	rec.Journey.Travel(dice.Uniform(b.src, leaveCityMinKm, leaveCityMaxKm))
	rec.Journey.MoveTo(next)
	if err := b.characters.Save(ctx, rec); err != nil {
		return fmt.Errorf("saving character: %w", err)
	}
	return in.Send(ctx, UserReply(author, next.Emoji(), fmt.Sprintf("you left your city and walked until you reached **%s**!", next.Name)))
}
