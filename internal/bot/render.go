package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/cory-johannsen/phoenix/internal/game/anomaly"
	"github.com/cory-johannsen/phoenix/internal/game/battle"
	"github.com/cory-johannsen/phoenix/internal/game/character"
	"github.com/cory-johannsen/phoenix/internal/game/formula"
)

// HistoryRoundsPerPage is how many rounds one battle history page lists.
const HistoryRoundsPerPage = 3

// FighterStats renders a fighter's pools and attributes.
func FighterStats(f battle.Fighter) string {
	return fmt.Sprintf(
		"❤️ Health: %s (`%d%%`)\n🌀 Mana: %s (`%d%%`)\n💪 Strength: %d\n⚡ Agility: %d\n🧠 Intelligence: %d",
		f.Health, f.Health.Percentage(),
		f.Mana, f.Mana.Percentage(),
		f.Strength, f.Agility, f.Intelligence,
	)
}

// FighterStatsAgainst renders FighterStats plus f's odds against target.
func FighterStatsAgainst(f, target battle.Fighter) string {
	return FighterStats(f) + fmt.Sprintf(
		"\n🎯 Target: **%s**\n🪶 Dodge: `%s` 💥 Critical: `%s`",
		target.Name,
		f.CalculateDodgeChance(target),
		f.CalculateCriticalChance(target),
	)
}

// TurnEmbed shows whose turn it is and every fighter's state.
func TurnEmbed(s battle.Snapshot, now time.Time) Embed {
	actor := s.Actor()
	e := Embed{
		AuthorName: fmt.Sprintf("%s's turn", actor.Name),
		AuthorIcon: actor.Image,
		Color:      ColorBlurple,
		Footer:     fmt.Sprintf("Round %d", s.Round),
		Timestamp:  now,
	}
	for _, f := range s.Fighters {
		value := FighterStats(f)
		if f.Alive() && f.HasTarget() {
			value = FighterStatsAgainst(f, s.Fighters[f.TargetIndex])
		}
		e.Fields = append(e.Fields, Field{Name: f.Name, Value: value, Inline: true})
	}
	return e
}

// ActionChoices are the buttons offered on a player's turn.
func ActionChoices() []Choice {
	out := make([]Choice, 0, len(battle.Actions))
	for _, a := range battle.Actions {
		out = append(out, Choice{ID: a.String(), Label: a.Label(), Emoji: a.Emoji()})
	}
	return out
}

// RoundEmbed summarises one resolved round.
func RoundEmbed(r battle.Round, now time.Time) Embed {
	color := ColorYellow
	if r.Critical {
		color = ColorRed
	}
	return Embed{
		AuthorName: fmt.Sprintf("%s used %s", r.Actor.Name, r.Action.Label()),
		AuthorIcon: r.Actor.Image,
		Desc:       strings.Join(r.Messages, "\n"),
		Color:      color,
		Footer:     fmt.Sprintf("%s: %s", r.Target.Name, r.Target.Health),
		Timestamp:  now,
	}
}

// WinnerEmbed announces the winner of a battle.
func WinnerEmbed(res battle.Result, now time.Time) Embed {
	last := "?"
	if n := len(res.Rounds); n > 0 {
		if m := res.Rounds[n-1].LastMessage(); m != "" {
			last = m
		}
	}
	return Embed{
		AuthorName: fmt.Sprintf("%s won!", res.Winner.Name),
		AuthorIcon: res.Winner.Image,
		Thumbnail:  res.Winner.Image,
		Desc:       fmt.Sprintf("%s won with %s health left!", res.Winner.Name, res.Winner.Health),
		Color:      ColorGreen,
		Fields:     []Field{{Name: "📜 Last action:", Value: last, Inline: true}},
		Timestamp:  now,
	}
}

// HistoryPages lists every round of a battle, HistoryRoundsPerPage per page.
func HistoryPages(res battle.Result, now time.Time) []Embed {
	var pages []Embed
	for i := 0; i < len(res.Rounds); i += HistoryRoundsPerPage {
		page := Embed{
			AuthorName: "Battle history",
			AuthorIcon: res.Winner.Image,
			Thumbnail:  res.Winner.Image,
			Color:      ColorBlurple,
			Timestamp:  now,
		}
		for _, r := range res.Rounds[i:min(i+HistoryRoundsPerPage, len(res.Rounds))] {
			page.Fields = append(page.Fields, Field{
				Name:  fmt.Sprintf("- **`#%d`**: %s used %s", r.Number, r.Actor.Name, r.Action.Label()),
				Value: strings.Join(r.Messages, "\n") + "\n",
			})
		}
		pages = append(pages, page)
	}
	return pages
}

// EncounterEmbed presents a freshly generated anomaly and its rewards.
func EncounterEmbed(u User, a anomaly.Anomaly, now time.Time) Embed {
	return Embed{
		AuthorName: fmt.Sprintf("%s found an anomaly!", u.Name),
		AuthorIcon: u.AvatarURL,
		Desc:       fmt.Sprintf("If you win, you will receive:\n%s", a.Rewards),
		Color:      ColorYellow,
		Image:      a.Image(),
		Fields: []Field{{
			Name:  fmt.Sprintf("%s (level %d)", a.Name(), a.Level),
			Value: FighterStats(battle.FromAnomaly(a)),
		}},
		Timestamp: now,
	}
}

// ClassEmbed lists the classes a new player can choose from.
func ClassEmbed(u User, now time.Time) Embed {
	e := Embed{
		AuthorName: fmt.Sprintf("%s, choose your class!", u.Name),
		AuthorIcon: u.AvatarURL,
		Color:      ColorBlurple,
		Timestamp:  now,
	}
	for _, c := range character.Classes {
		e.Fields = append(e.Fields, Field{Name: fmt.Sprintf("%s %s", c.Emoji, c.Name), Value: c.Description})
	}
	return e
}

// ClassChoices are the buttons of the class prompt.
func ClassChoices() []Choice {
	out := make([]Choice, 0, len(character.Classes))
	for _, c := range character.Classes {
		out = append(out, Choice{ID: string(c.Class), Label: c.Name, Emoji: c.Emoji})
	}
	return out
}

// ProfileEmbed shows a character sheet.
func ProfileEmbed(u User, r *character.Record, now time.Time) Embed {
	info, _ := character.LookupClass(r.Class)
	cur := r.Journey.Current
	return Embed{
		AuthorName: u.Name,
		AuthorIcon: u.AvatarURL,
		Thumbnail:  u.AvatarURL,
		Color:      ColorBlue,
		Fields: []Field{
			{Name: info.Emoji + " Class", Value: "**" + info.Name + "**", Inline: true},
			{Name: "🪙 Gold", Value: fmt.Sprintf("%d", r.Gold), Inline: true},
			{Name: "🗺️ Journey", Value: fmt.Sprintf("**%s %s**\n`%.2f km` traveled", cur.Emoji(), cur.Name, r.Journey.TotalTraveled), Inline: true},
			{Name: "🔹 Experience", Value: fmt.Sprintf("XP: **%d**/%d\nLevel: **%d**", r.XP, formula.XPRequiredForLevelUp(r.Level), r.Level), Inline: true},
			{Name: "❤️ Health", Value: fmt.Sprintf("**%d**/%d", r.Health.Value, r.Health.Max), Inline: true},
			{Name: "🌀 Mana", Value: fmt.Sprintf("**%d**/%d", r.Mana.Value, r.Mana.Max), Inline: true},
			{Name: "💪 Strength", Value: fmt.Sprintf("%d", r.Strength), Inline: true},
			{Name: "🧠 Intelligence", Value: fmt.Sprintf("%d", r.Intelligence), Inline: true},
			{Name: "⚡ Agility", Value: fmt.Sprintf("%d", r.Agility), Inline: true},
		},
		Timestamp: now,
	}
}

// BestiaryPages renders one page per bestiary entry with the archetype's
// base stats. Entries whose type is missing from the catalog are skipped.
func BestiaryPages(u User, r *character.Record, catalog *anomaly.Catalog, now time.Time) []Embed {
	var pages []Embed
	for _, entry := range r.Bestiary {
		def, ok := catalog.Lookup(entry.Anomaly)
		if !ok {
			continue
		}
		base := def.Base()
		pages = append(pages, Embed{
			AuthorName: fmt.Sprintf("%s's bestiary", u.Name),
			AuthorIcon: u.AvatarURL,
			Title:      base.Name(),
			Thumbnail:  base.Image(),
			Desc:       fmt.Sprintf("You defeated this anomaly **%d** times and were defeated **%d** times.", entry.Wins, entry.Losses),
			Color:      ColorOrange,
			Fields:     []Field{{Name: "🟢 Base attributes", Value: FighterStats(battle.FromAnomaly(base))}},
			Timestamp:  now,
		})
	}
	return pages
}

// LevelUpText describes a level-up and how its points were spent.
func LevelUpText(res character.LevelUpResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "\n🌀 **|** You are now level **%d**", res.To)
	for _, k := range character.AllUpgrades {
		if n := res.Upgrades[k]; n > 0 {
			fmt.Fprintf(&b, "\n➕ %s +%d", k, n)
		}
	}
	return b.String()
}
