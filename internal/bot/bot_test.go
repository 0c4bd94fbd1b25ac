package bot_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cory-johannsen/phoenix/internal/bot"
	"github.com/cory-johannsen/phoenix/internal/game/character"
	"github.com/cory-johannsen/phoenix/internal/game/dice"
	"github.com/cory-johannsen/phoenix/internal/game/region"
	"github.com/cory-johannsen/phoenix/internal/game/session"
)

// inForest moves a record out of the city into a forest region, so adventure
// fights instead of leaving town.
func inForest(r *character.Record) {
	r.Journey.Travel(0.7)
	r.Journey.MoveTo(region.Generate(dice.NewSeededSource(2), region.Forest, 0.7))
}

// overpowered makes a character win any fight in one unavoidable hit.
func overpowered(r *character.Record) {
	inForest(r)
	r.Strength = 100_000
	r.Agility = 1_000
}

func attacks(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = "attack"
	}
	return out
}

func TestHandle_UnknownCommand(t *testing.T) {
	h := newHarness(t, 1)
	in := newInteraction(alice)
	h.bot.Handle(context.Background(), "dance", in)
	require.Len(t, in.replies, 1)
	assert.Contains(t, in.replies[0].Content, "don't know")
}

func TestHandle_RequiresCharacter(t *testing.T) {
	h := newHarness(t, 1)
	for _, name := range []string{"profile", "adventure", "rest", "bestiary", "battle"} {
		in := newInteraction(alice)
		h.bot.Handle(context.Background(), name, in)
		require.Len(t, in.replies, 1, name)
		assert.Contains(t, in.replies[0].Content, "/start", name)
	}
}

func TestHandle_HandlerErrorReportsCode(t *testing.T) {
	h := newHarness(t, 1)
	h.register(t, alice, character.Knight, nil)
	h.characters.getErr = assert.AnError

	in := newInteraction(alice)
	h.bot.Handle(context.Background(), "profile", in)
	require.Len(t, in.sent, 1)
	assert.Contains(t, in.sent[0].Content, "something went wrong")
	assert.Contains(t, in.sent[0].Content, alice.ID+"#")
	assert.Equal(t, 1, h.logs.FilterMessage("command failed").Len())
}

func TestHandle_OwnerOnly(t *testing.T) {
	h := newHarness(t, 1)
	require.NoError(t, h.cooldowns.Set(context.Background(), alice.ID, bot.CooldownRest, h.now.Add(time.Hour)))

	in := newInteraction(alice)
	h.bot.Handle(context.Background(), "reset-cooldowns", in)
	assert.Contains(t, in.replies[0].Content, "reserved")
	_, ok, _ := h.cooldowns.Get(context.Background(), alice.ID, bot.CooldownRest)
	assert.True(t, ok)

	owner := newInteraction(bot.User{ID: "999", Name: "Owner"})
	h.bot.Handle(context.Background(), "reset-cooldowns", owner)
	_, ok, _ = h.cooldowns.Get(context.Background(), alice.ID, bot.CooldownRest)
	assert.False(t, ok)
}

func TestStart_CreatesCharacter(t *testing.T) {
	h := newHarness(t, 1)
	in := newInteraction(alice, "mage")
	h.bot.Handle(context.Background(), "start", in)

	rec := h.characters.get(alice.ID)
	require.NotNil(t, rec)
	assert.Equal(t, character.Mage, rec.Class)
	assert.Equal(t, 80, rec.Health.Max)
	assert.True(t, rec.Journey.InCity())

	require.Len(t, in.prompts, 1)
	assert.Len(t, in.prompts[0].choices, len(character.Classes))
	require.Len(t, in.sent, 1)
	assert.Contains(t, in.sent[0].Content, "**Mage**")
}

func TestStart_AlreadyStarted(t *testing.T) {
	h := newHarness(t, 1)
	h.register(t, alice, character.Knight, nil)
	in := newInteraction(alice, "mage")
	h.bot.Handle(context.Background(), "start", in)
	assert.Empty(t, in.prompts)
	assert.Contains(t, in.replies[0].Content, "already")
	assert.Equal(t, character.Knight, h.characters.get(alice.ID).Class)
}

func TestStart_TimeoutCreatesNothing(t *testing.T) {
	h := newHarness(t, 1)
	in := newInteraction(alice)
	h.bot.Handle(context.Background(), "start", in)
	assert.Nil(t, h.characters.get(alice.ID))
	assert.Empty(t, in.sent, "a timeout is not an error")
}

func TestProfile(t *testing.T) {
	h := newHarness(t, 1)
	h.register(t, alice, character.Assassin, nil)
	in := newInteraction(alice)
	h.bot.Handle(context.Background(), "profile", in)
	require.Len(t, in.replies, 1)
	require.Len(t, in.replies[0].Embeds, 1)
	e := in.replies[0].Embeds[0]
	assert.Equal(t, "Alice", e.AuthorName)
	assert.Len(t, e.Fields, 9)
	assert.Equal(t, "**Assassin**", e.Fields[0].Value)
}

func TestAdventure_RefusesWhenHurt(t *testing.T) {
	h := newHarness(t, 1)
	h.register(t, alice, character.Knight, func(r *character.Record) { r.Health.SetValue(14) })
	in := newInteraction(alice, "yes")
	h.bot.Handle(context.Background(), "adventure", in)
	assert.Contains(t, in.replies[0].Content, "/rest")
	assert.Empty(t, in.prompts)
	assert.Zero(t, h.characters.saves)
}

func TestAdventure_LeavesCity(t *testing.T) {
	h := newHarness(t, 1)
	h.register(t, alice, character.Knight, nil)
	home := h.characters.get(alice.ID).Journey.Current

	in := newInteraction(alice, "yes")
	h.bot.Handle(context.Background(), "adventure", in)

	rec := h.characters.get(alice.ID)
	assert.False(t, rec.Journey.InCity())
	assert.InDelta(t, 0.675, rec.Journey.TotalTraveled, 0.025)
	require.Len(t, rec.Journey.History, 1)
	assert.Equal(t, home, rec.Journey.History[0])
	assert.Equal(t, 1, h.characters.saves)
	require.Len(t, in.sent, 1)
	assert.Contains(t, in.sent[0].Content, rec.Journey.Current.Name)
}

func TestAdventure_DeclineLeavingCity(t *testing.T) {
	h := newHarness(t, 1)
	h.register(t, alice, character.Knight, nil)
	in := newInteraction(alice, "no")
	h.bot.Handle(context.Background(), "adventure", in)
	assert.True(t, h.characters.get(alice.ID).Journey.InCity())
	assert.Zero(t, h.characters.saves)
}

func TestAdventure_Victory(t *testing.T) {
	h := newHarness(t, 7)
	h.register(t, alice, character.Knight, overpowered)
	before := h.characters.get(alice.ID).Clone()

	in := newInteraction(alice, append([]string{"yes"}, attacks(5)...)...)
	h.bot.Handle(context.Background(), "adventure", in)

	rec := h.characters.get(alice.ID)
	assert.Equal(t, 1, h.characters.saves, "one save after the battle")
	assert.Greater(t, rec.Gold, before.Gold)
	assert.True(t, rec.XP > 0 || rec.Level > before.Level)
	assert.Greater(t, rec.Journey.TotalTraveled, before.Journey.TotalTraveled)
	require.Len(t, rec.Bestiary, 1)
	assert.Equal(t, 1, rec.Bestiary[0].Wins)
	assert.Zero(t, rec.Bestiary[0].Losses)
	assert.Equal(t, before.Health.Value, rec.Health.Value, "the anomaly never acted")

	// confirm + one action prompt
	require.Len(t, in.prompts, 2)
	assert.Equal(t, alice, in.prompts[1].who)
	require.Len(t, in.pages, 1, "battle history is paged")

	var rewards bool
	for _, c := range in.allContent() {
		if strings.HasPrefix(c, "💰") {
			rewards = true
		}
	}
	assert.True(t, rewards)
}

func TestAdventure_Defeat(t *testing.T) {
	h := newHarness(t, 3)
	h.register(t, alice, character.Knight, func(r *character.Record) {
		inForest(r)
		r.Health.SetValue(15)
		r.Strength = 0
		r.Agility = 0
	})
	before := h.characters.get(alice.ID).Clone()

	in := newInteraction(alice, append([]string{"yes"}, attacks(1000)...)...)
	h.bot.Handle(context.Background(), "adventure", in)

	rec := h.characters.get(alice.ID)
	assert.Equal(t, 1, h.characters.saves)
	assert.Equal(t, 0, rec.Health.Value)
	assert.Equal(t, before.Gold, rec.Gold)
	assert.Equal(t, before.XP, rec.XP)
	require.Len(t, rec.Bestiary, 1)
	assert.Equal(t, 1, rec.Bestiary[0].Losses)
}

func TestAdventure_ActionTimeoutAbandonsWithoutSaving(t *testing.T) {
	h := newHarness(t, 7)
	h.register(t, alice, character.Knight, overpowered)

	in := newInteraction(alice, "yes")
	h.bot.Handle(context.Background(), "adventure", in)

	assert.Zero(t, h.characters.saves)
	require.NotEmpty(t, in.sent)
	assert.Contains(t, in.sent[len(in.sent)-1].Content, "abandoned")
	assert.Zero(t, h.logs.FilterMessage("command failed").Len())
}

func TestAdventure_DeclineEncounter(t *testing.T) {
	h := newHarness(t, 7)
	h.register(t, alice, character.Knight, overpowered)
	in := newInteraction(alice, "no")
	h.bot.Handle(context.Background(), "adventure", in)
	assert.Zero(t, h.characters.saves)
	require.Len(t, in.prompts, 1)
	require.Len(t, in.prompts[0].msg.Embeds, 1)
	assert.Contains(t, in.prompts[0].msg.Embeds[0].Desc, "gold")
}

func TestRest(t *testing.T) {
	h := newHarness(t, 1)
	h.register(t, alice, character.Knight, nil)

	in := newInteraction(alice)
	h.bot.Handle(context.Background(), "rest", in)
	assert.Contains(t, in.replies[0].Content, "don't need")

	h.characters.records[alice.ID].Health.SetValue(80)
	h.characters.records[alice.ID].Mana.SetValue(1)
	in = newInteraction(alice)
	h.bot.Handle(context.Background(), "rest", in)
	assert.Contains(t, in.replies[0].Content, "rested")
	rec := h.characters.get(alice.ID)
	assert.Equal(t, rec.Health.Max, rec.Health.Value)
	assert.Equal(t, rec.Mana.Max, rec.Mana.Value)

	exp, ok, err := h.cooldowns.Get(context.Background(), alice.ID, bot.CooldownRest)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, h.now.Add(20*time.Minute), exp)

	h.characters.records[alice.ID].Health.SetValue(10)
	h.now = h.now.Add(5 * time.Minute)
	in = newInteraction(alice)
	h.bot.Handle(context.Background(), "rest", in)
	assert.Contains(t, in.replies[0].Content, "15m0s")
	assert.Equal(t, 10, h.characters.get(alice.ID).Health.Value)

	h.now = h.now.Add(15 * time.Minute)
	in = newInteraction(alice)
	h.bot.Handle(context.Background(), "rest", in)
	assert.Contains(t, in.replies[0].Content, "rested")
}

func TestBestiary(t *testing.T) {
	h := newHarness(t, 1)
	h.register(t, alice, character.Knight, nil)

	in := newInteraction(alice)
	h.bot.Handle(context.Background(), "bestiary", in)
	assert.Contains(t, in.replies[0].Content, "bestiary")
	assert.Empty(t, in.pages)

	h.characters.records[alice.ID].RecordEncounter("orc", true)
	h.characters.records[alice.ID].RecordEncounter("orc", false)
	h.characters.records[alice.ID].RecordEncounter("ferak", true)
	in = newInteraction(alice)
	h.bot.Handle(context.Background(), "bestiary", in)
	require.Len(t, in.pages, 1)
	require.Len(t, in.pages[0], 2)
	assert.Equal(t, "Orc", in.pages[0][0].Title)
	assert.Contains(t, in.pages[0][0].Desc, "**1** times and were defeated **1** times")
	assert.Contains(t, in.pages[0][0].Fields[0].Value, "Strength: 20")
}

func TestDuel_Self(t *testing.T) {
	h := newHarness(t, 1)
	h.register(t, alice, character.Knight, nil)
	in := newInteraction(alice)
	in.options[bot.OptionOpponent] = alice
	h.bot.Handle(context.Background(), "battle", in)
	assert.Contains(t, in.replies[0].Content, "yourself")
}

func TestDuel_OpponentUnregistered(t *testing.T) {
	h := newHarness(t, 1)
	h.register(t, alice, character.Knight, nil)
	in := newInteraction(alice, "yes")
	in.options[bot.OptionOpponent] = bob
	h.bot.Handle(context.Background(), "battle", in)
	require.Len(t, in.prompts, 1)
	assert.Equal(t, bob, in.prompts[0].who, "the opponent is asked")
	require.Len(t, in.sent, 1)
	assert.Contains(t, in.sent[0].Content, "has not started")
}

func TestDuel_IsNotPersisted(t *testing.T) {
	h := newHarness(t, 5)
	h.register(t, alice, character.Knight, func(r *character.Record) {
		r.Strength = 100_000
		r.Agility = 1_000
	})
	h.register(t, bob, character.Mage, nil)
	bobBefore := h.characters.get(bob.ID).Clone()

	in := newInteraction(alice, append([]string{"yes"}, attacks(5)...)...)
	in.options[bot.OptionOpponent] = bob
	h.bot.Handle(context.Background(), "battle", in)

	assert.Zero(t, h.characters.saves)
	assert.Equal(t, bobBefore.Health, h.characters.get(bob.ID).Health)
	require.Len(t, in.pages, 1)
	var winner bool
	for _, m := range in.sent {
		for _, e := range m.Embeds {
			if e.AuthorName == "Alice won!" {
				winner = true
			}
		}
	}
	assert.True(t, winner)
}

func TestPing(t *testing.T) {
	h := newHarness(t, 1)
	in := newInteraction(alice)
	h.bot.Handle(context.Background(), "ping", in)
	require.Len(t, in.replies, 1)
	assert.Equal(t, "Pong!", in.replies[0].Content)
	require.Len(t, in.edits, 1)
	assert.Equal(t, "Ping: 0ms", in.edits[0].Content)
}

func TestConfirm_TimeoutIsDecline(t *testing.T) {
	in := newInteraction(alice)
	ok, err := bot.Confirm(context.Background(), in, alice, bot.Message{}, time.Second)
	require.NoError(t, err)
	assert.False(t, ok)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = bot.Confirm(ctx, newInteraction(alice, "yes"), alice, bot.Message{}, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHandle_BusyUserIsRejected(t *testing.T) {
	h := newHarness(t, 1)
	h.register(t, alice, character.Knight, overpowered)
	release, err := h.bot.Sessions().Acquire(session.ActivityAdventure, h.now, alice.ID)
	require.NoError(t, err)

	in := newInteraction(alice)
	h.bot.Handle(context.Background(), "rest", in)
	require.Len(t, in.replies, 1)
	assert.Contains(t, in.replies[0].Content, "already busy with **adventure**")
	assert.Zero(t, h.characters.saves)

	release()
	in = newInteraction(alice)
	h.bot.Handle(context.Background(), "ping", in)
	assert.Equal(t, "Pong!", in.replies[0].Content)
}

func TestHandle_ReleasesSessionAfterCommand(t *testing.T) {
	h := newHarness(t, 1)
	h.register(t, alice, character.Knight, nil)
	h.bot.Handle(context.Background(), "rest", newInteraction(alice))
	assert.Zero(t, h.bot.Sessions().Count())
	_, busy := h.bot.Sessions().Get(alice.ID)
	assert.False(t, busy)
}

func TestDuel_BusyOpponent(t *testing.T) {
	h := newHarness(t, 1)
	h.register(t, alice, character.Knight, nil)
	h.register(t, bob, character.Mage, nil)
	release, err := h.bot.Sessions().Acquire(session.ActivityAdventure, h.now, bob.ID)
	require.NoError(t, err)
	defer release()

	in := newInteraction(alice, "yes")
	in.options[bot.OptionOpponent] = bob
	h.bot.Handle(context.Background(), "battle", in)
	require.Len(t, in.sent, 1)
	assert.Contains(t, in.sent[0].Content, "**Bob** is busy")
	assert.Equal(t, 1, h.bot.Sessions().Count(), "only bob's adventure remains")
}
