package battle_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/cory-johannsen/phoenix/internal/game/battle"
	"github.com/cory-johannsen/phoenix/internal/scripting"
)

func newPair(t *testing.T, hpA, strA, hpB, strB int) *battle.Battle {
	t.Helper()
	b, err := battle.New([]battle.Fighter{fighter("A", hpA, strA), fighter("B", hpB, strB)})
	require.NoError(t, err)
	return b
}

func TestController_RunToResolution(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	c := battle.NewController(noDodge(), battle.ControllerConfig{}, zap.New(core))
	b := newPair(t, 100, 20, 100, 15)

	var seen []battle.Round
	res, err := c.Run(context.Background(), b, battle.AlwaysAttack, func(_ context.Context, r battle.Round, after battle.Snapshot) {
		seen = append(seen, r)
		assert.Equal(t, r.Number+1, after.Round)
	})
	require.NoError(t, err)
	assert.True(t, b.Resolved())
	assert.Equal(t, "A", res.Winner.Name)
	assert.Len(t, seen, 9)
	assert.Equal(t, len(seen), len(res.Rounds))
	assert.Equal(t, 1, logs.FilterMessage("battle resolved").Len())
	assert.Equal(t, 9, logs.FilterMessage("battle round").Len())
}

func TestController_NilObserver(t *testing.T) {
	c := battle.NewController(noDodge(), battle.ControllerConfig{}, zap.NewNop())
	_, err := c.Run(context.Background(), newPair(t, 10, 20, 10, 20), battle.AlwaysAttack, nil)
	require.NoError(t, err)
}

func TestController_ActionTimeout(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	c := battle.NewController(noDodge(), battle.ControllerConfig{ActionTimeout: 10 * time.Millisecond}, zap.New(core))
	b := newPair(t, 100, 20, 100, 15)

	blocking := battle.ActionProviderFunc(func(ctx context.Context, _ battle.Snapshot) (battle.Action, error) {
		<-ctx.Done()
		return battle.ActionUnknown, ctx.Err()
	})
	_, err := c.Run(context.Background(), b, blocking, nil)
	assert.ErrorIs(t, err, battle.ErrActionTimeout)
	assert.False(t, b.Resolved())
	assert.Empty(t, b.Rounds(), "no action is taken on the fighter's behalf")
	assert.Equal(t, 1, logs.FilterMessage("battle abandoned").Len())
}

func TestController_CancelledContext(t *testing.T) {
	c := battle.NewController(noDodge(), battle.ControllerConfig{}, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.Run(ctx, newPair(t, 100, 20, 100, 15), battle.AlwaysAttack, nil)
	assert.ErrorIs(t, err, battle.ErrActionTimeout)
}

func TestController_ProviderError(t *testing.T) {
	boom := errors.New("boom")
	c := battle.NewController(noDodge(), battle.ControllerConfig{}, zap.NewNop())
	failing := battle.ActionProviderFunc(func(context.Context, battle.Snapshot) (battle.Action, error) {
		return battle.ActionUnknown, boom
	})
	_, err := c.Run(context.Background(), newPair(t, 100, 20, 100, 15), failing, nil)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, battle.ErrActionTimeout)
}

func TestController_InvalidActionFromProvider(t *testing.T) {
	c := battle.NewController(noDodge(), battle.ControllerConfig{}, zap.NewNop())
	bad := battle.ActionProviderFunc(func(context.Context, battle.Snapshot) (battle.Action, error) {
		return battle.ActionUnknown, nil
	})
	_, err := c.Run(context.Background(), newPair(t, 100, 20, 100, 15), bad, nil)
	assert.ErrorIs(t, err, battle.ErrInvalidAction)
}

func TestController_MaxTurns(t *testing.T) {
	c := battle.NewController(noDodge(), battle.ControllerConfig{MaxTurns: 10}, zap.NewNop())
	b := newPair(t, 100, 0, 100, 0)
	_, err := c.Run(context.Background(), b, battle.AlwaysAttack, nil)
	assert.ErrorIs(t, err, battle.ErrTurnLimit)
	assert.Len(t, b.Rounds(), 10)
}

type fakeBehaviour struct {
	name   string
	ok     bool
	called []string
	self   scripting.FighterInfo
	target scripting.FighterInfo
}

func (f *fakeBehaviour) ChooseAction(script string, self, target scripting.FighterInfo) (string, bool) {
	f.called = append(f.called, script)
	f.self, f.target = self, target
	return f.name, f.ok
}

func anomalySnapshot(t *testing.T, script string) battle.Snapshot {
	t.Helper()
	hero := fighter("Hero", 100, 10)
	ooze := fighter("Oozeling", 60, 8)
	ooze.Kind = battle.KindAnomaly
	ooze.PlayerID = ""
	ooze.AnomalyType = "oozeling"
	ooze.Script = script
	ooze.Level = 4
	b, err := battle.New([]battle.Fighter{ooze, hero})
	require.NoError(t, err)
	return b.Snapshot()
}

func TestAnomalyAI_UsesBehaviour(t *testing.T) {
	fb := &fakeBehaviour{name: "attack", ok: true}
	ai := battle.NewAnomalyAI(fb, zap.NewNop())

	a, err := ai.ChooseAction(context.Background(), anomalySnapshot(t, "oozeling"))
	require.NoError(t, err)
	assert.Equal(t, battle.ActionAttack, a)
	assert.Equal(t, []string{"oozeling"}, fb.called)
	assert.Equal(t, "anomaly", fb.self.Kind)
	assert.Equal(t, 4, fb.self.Level)
	assert.Equal(t, 60, fb.self.MaxHealth)
	assert.Equal(t, "player", fb.target.Kind)
	assert.Equal(t, "Hero", fb.target.Name)
}

func TestAnomalyAI_FallsBackToAttack(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)

	unknown := &fakeBehaviour{name: "flee", ok: true}
	a, err := battle.NewAnomalyAI(unknown, zap.New(core)).ChooseAction(context.Background(), anomalySnapshot(t, "oozeling"))
	require.NoError(t, err)
	assert.Equal(t, battle.ActionAttack, a)
	assert.Equal(t, 1, logs.FilterMessage("anomaly script chose unknown action").Len())

	silent := &fakeBehaviour{ok: false}
	a, err = battle.NewAnomalyAI(silent, zap.NewNop()).ChooseAction(context.Background(), anomalySnapshot(t, "oozeling"))
	require.NoError(t, err)
	assert.Equal(t, battle.ActionAttack, a)

	unscripted := &fakeBehaviour{name: "attack", ok: true}
	a, err = battle.NewAnomalyAI(unscripted, zap.NewNop()).ChooseAction(context.Background(), anomalySnapshot(t, ""))
	require.NoError(t, err)
	assert.Equal(t, battle.ActionAttack, a)
	assert.Empty(t, unscripted.called)

	a, err = battle.NewAnomalyAI(nil, zap.NewNop()).ChooseAction(context.Background(), anomalySnapshot(t, "oozeling"))
	require.NoError(t, err)
	assert.Equal(t, battle.ActionAttack, a)
}

func TestDispatcher_RoutesByKind(t *testing.T) {
	var players, anomalies int
	d := battle.Dispatcher{
		Players: battle.ActionProviderFunc(func(context.Context, battle.Snapshot) (battle.Action, error) {
			players++
			return battle.ActionAttack, nil
		}),
		Anomalies: battle.ActionProviderFunc(func(context.Context, battle.Snapshot) (battle.Action, error) {
			anomalies++
			return battle.ActionAttack, nil
		}),
	}
	snap := anomalySnapshot(t, "")
	_, err := d.ChooseAction(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, 1, anomalies)

	snap.Current = 1
	_, err = d.ChooseAction(context.Background(), snap)
	require.NoError(t, err)
	assert.Equal(t, 1, players)

	_, err = battle.Dispatcher{}.ChooseAction(context.Background(), snap)
	assert.Error(t, err)
}
